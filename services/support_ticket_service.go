package services

import (
	"errors"
	"log"
	"time"

	"derma-review-api/config"
	"derma-review-api/models"

	"gorm.io/gorm"
)

// SupportTicketService stores help requests from the public contact form
// and the admin responses to them. Tickets are written once, updated only
// by admins, and deleted only by admins.
type SupportTicketService struct {
	db *gorm.DB
}

func NewSupportTicketService(db *gorm.DB) *SupportTicketService {
	if db == nil {
		db = config.DB
	}
	return &SupportTicketService{db: db}
}

// Create inserts a new open ticket.
func (s *SupportTicketService) Create(ticket *models.SupportTicket) error {
	ticket.Status = models.SupportStatusOpen
	ticket.CreateAt = time.Now()

	if err := s.db.Create(ticket).Error; err != nil {
		return err
	}

	log.Printf("Created support ticket %d (%s)", ticket.TicketID, ticket.Category)
	return nil
}

// ListForUser returns the tickets a logged-in user has submitted, newest
// first.
func (s *SupportTicketService) ListForUser(userID uint) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := s.db.Where("user_id = ?", userID).
		Order("create_at DESC").
		Find(&tickets).Error
	return tickets, err
}

// ListAll returns every ticket, newest first, with an optional status
// filter. Admin use only; authorization happens at the route layer.
func (s *SupportTicketService) ListAll(statusFilter string, limit, offset int) ([]models.SupportTicket, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := s.db.Model(&models.SupportTicket{})
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tickets []models.SupportTicket
	if err := q.Order("create_at DESC").Limit(limit).Offset(offset).Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

// Update applies a status change and/or an admin response. A response
// records who answered and when. Returns the updated ticket so the caller
// can email the submitter.
func (s *SupportTicketService) Update(ticketID uint, status, adminResponse *string, adminID uint) (*models.SupportTicket, error) {
	if status != nil && !models.ValidSupportStatus(*status) {
		return nil, validationErr("status", "Unknown ticket status")
	}
	if status == nil && adminResponse == nil {
		return nil, validationErr("empty_update", "Nothing to update")
	}

	var ticket models.SupportTicket
	if err := s.db.First(&ticket, "ticket_id = ?", ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("ticket", "Support ticket not found")
		}
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	if status != nil {
		updates["status"] = *status
		ticket.Status = *status
	}
	if adminResponse != nil {
		updates["admin_response"] = *adminResponse
		updates["responded_by"] = adminID
		updates["responded_at"] = now
		ticket.AdminResponse = adminResponse
		ticket.RespondedBy = &adminID
		ticket.RespondedAt = &now
	}

	if err := s.db.Model(&models.SupportTicket{}).
		Where("ticket_id = ?", ticketID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	ticket.UpdateAt = &now
	log.Printf("Updated support ticket %d by admin %d", ticketID, adminID)
	return &ticket, nil
}

// Delete removes a ticket.
func (s *SupportTicketService) Delete(ticketID uint) error {
	result := s.db.Delete(&models.SupportTicket{}, "ticket_id = ?", ticketID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundErr("ticket", "Support ticket not found")
	}
	return nil
}
