package controllers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"derma-review-api/config"
	"derma-review-api/models"
	"derma-review-api/services"
	"derma-review-api/utils"

	"github.com/gin-gonic/gin"
)

type createSupportTicketReq struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Subject  string `json:"subject" binding:"required,max=200"`
	Category string `json:"category" binding:"required,max=50"`
	Message  string `json:"message" binding:"required"`
}

type updateSupportTicketReq struct {
	Status        *string `json:"status"`
	AdminResponse *string `json:"admin_response"`
}

// CreateSupportTicket handles POST /support/tickets. The endpoint is public;
// when the submitter is logged in the ticket is linked to their account.
func CreateSupportTicket(c *gin.Context) {
	var req createSupportTicketReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ticket := models.SupportTicket{
		Name:     utils.SanitizeInput(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:  utils.SanitizeInput(req.Subject),
		Category: utils.SanitizeInput(req.Category),
		Message:  utils.SanitizeInput(req.Message),
	}
	if uid, ok := getCurrentUserID(c); ok {
		ticket.UserID = &uid
	}

	support := services.NewSupportTicketService(config.DB)
	if err := support.Create(&ticket); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit support ticket"})
		return
	}

	go sendMailSafe(
		[]string{ticket.Email},
		"We received your support request - DermaCare",
		buildSupportConfirmationEmailHTML(ticket.Name, ticket.Subject, ticket.TicketID),
	)

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Support ticket submitted successfully",
		"ticket_id": ticket.TicketID,
	})
}

// GetMySupportTickets handles GET /support/tickets/my.
func GetMySupportTickets(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	support := services.NewSupportTicketService(config.DB)
	tickets, err := support.ListForUser(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// ListSupportTickets handles GET /admin/support/tickets.
func ListSupportTickets(c *gin.Context) {
	statusFilter := strings.TrimSpace(c.Query("status"))
	if statusFilter != "" && !models.ValidSupportStatus(statusFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	limit := 50
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	support := services.NewSupportTicketService(config.DB)
	tickets, total, err := support.ListAll(statusFilter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// UpdateSupportTicket handles PUT /admin/support/tickets/:id. An admin
// response is emailed to the submitter.
func UpdateSupportTicket(c *gin.Context) {
	adminID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req updateSupportTicketReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	support := services.NewSupportTicketService(config.DB)
	ticket, err := support.Update(uint(id), req.Status, req.AdminResponse, adminID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if req.AdminResponse != nil {
		go sendMailSafe(
			[]string{ticket.Email},
			"Response to your support request - DermaCare",
			buildSupportResponseEmailHTML(ticket.Name, ticket.Subject, *req.AdminResponse, ticket.TicketID),
		)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Support ticket updated successfully", "ticket": ticket})
}

// DeleteSupportTicket handles DELETE /admin/support/tickets/:id.
func DeleteSupportTicket(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	support := services.NewSupportTicketService(config.DB)
	if err := support.Delete(uint(id)); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Support ticket deleted successfully"})
}

func buildSupportConfirmationEmailHTML(name, subject string, ticketID uint) string {
	escapedName := template.HTMLEscapeString(name)
	escapedSubject := template.HTMLEscapeString(subject)

	return fmt.Sprintf(`<html>
<body style="font-family:'Segoe UI',Tahoma,Arial,sans-serif;color:#111827;">
  <h2>We received your request</h2>
  <p>Hello %s,</p>
  <p>Thank you for contacting DermaCare support. Your ticket <strong>#%d</strong> (&quot;%s&quot;) has been received and our team will get back to you as soon as possible.</p>
  <br>
  <p>Best regards,<br>The DermaCare Team</p>
</body>
</html>`, escapedName, ticketID, escapedSubject)
}

func buildSupportResponseEmailHTML(name, subject, response string, ticketID uint) string {
	escapedName := template.HTMLEscapeString(name)
	escapedSubject := template.HTMLEscapeString(subject)
	escapedResponse := template.HTMLEscapeString(response)

	return fmt.Sprintf(`<html>
<body style="font-family:'Segoe UI',Tahoma,Arial,sans-serif;color:#111827;">
  <h2>Response to your support request</h2>
  <p>Hello %s,</p>
  <p>Our team has responded to your ticket <strong>#%d</strong> (&quot;%s&quot;):</p>
  <blockquote style="border-left:3px solid #9ca3af;padding-left:12px;color:#374151;">%s</blockquote>
  <p>If this does not resolve your issue, reply by opening a new ticket.</p>
  <br>
  <p>Best regards,<br>The DermaCare Team</p>
</body>
</html>`, escapedName, ticketID, escapedSubject, escapedResponse)
}
