package services

import (
	"fmt"
	"html/template"
	"log"

	"derma-review-api/config"
	"derma-review-api/models"

	"gorm.io/gorm"
)

// reviewLedger and notificationInbox are the seams the workflow sequences.
// Production wiring uses the gorm-backed services; tests substitute fakes.
type reviewLedger interface {
	Create(predictionID, patientID, dermatologistID uint) (*models.ReviewRequest, error)
	SubmitReview(requestID, dermatologistID uint, comment string) (*models.ReviewRequest, error)
}

type notificationInbox interface {
	Notify(userID uint, notificationType, message string, ref models.NotificationRef) (*models.Notification, error)
}

type userDirectory interface {
	UserByID(userID uint) (*models.User, error)
}

type gormUserDirectory struct {
	db *gorm.DB
}

func (d *gormUserDirectory) UserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "user_id = ? AND delete_at IS NULL", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ReviewWorkflowService sequences a ledger write, the matching in-app
// notification and a best-effort email as one workflow step. The ledger
// write is durable before the inbox write begins; the email is dispatched
// on a detached goroutine and never affects the operation's result.
type ReviewWorkflowService struct {
	ledger   reviewLedger
	inbox    notificationInbox
	users    userDirectory
	sendMail func(to []string, subject, html string) error
}

func NewReviewWorkflowService(db *gorm.DB) *ReviewWorkflowService {
	if db == nil {
		db = config.DB
	}
	return &ReviewWorkflowService{
		ledger:   NewReviewRequestService(db),
		inbox:    NewNotificationService(db),
		users:    &gormUserDirectory{db: db},
		sendMail: config.SendMail,
	}
}

// RequestReview creates a pending review request on the patient's behalf and
// notifies the dermatologist. Any ledger failure aborts with no side effects.
func (s *ReviewWorkflowService) RequestReview(predictionID, dermatologistID, patientID uint) (*models.ReviewRequest, error) {
	request, err := s.ledger.Create(predictionID, patientID, dermatologistID)
	if err != nil {
		return nil, err
	}

	// From here on the request row is committed; any failure leaves it
	// without its notification and must be flagged for reconciliation.
	patient, err := s.users.UserByID(patientID)
	if err != nil {
		log.Printf("RECONCILE: review request %d created but patient %d load failed: %v", request.RequestID, patientID, err)
		return nil, fmt.Errorf("failed to load patient %d: %w", patientID, err)
	}
	dermatologist, err := s.users.UserByID(dermatologistID)
	if err != nil {
		log.Printf("RECONCILE: review request %d created but dermatologist %d load failed: %v", request.RequestID, dermatologistID, err)
		return nil, fmt.Errorf("failed to load dermatologist %d: %w", dermatologistID, err)
	}

	ref := models.NotificationRef{RequestID: request.RequestID, PredictionID: predictionID}
	message := fmt.Sprintf("New review request from %s", patient.Username)
	if _, err := s.inbox.Notify(dermatologistID, models.NotificationReviewRequested, message, ref); err != nil {
		// The request row is already committed; flag the gap for manual
		// reconciliation instead of swallowing it like an email failure.
		log.Printf("RECONCILE: review request %d created but notification insert failed: %v", request.RequestID, err)
		return nil, fmt.Errorf("failed to record notification for request %d: %w", request.RequestID, err)
	}

	go s.sendMailSafe(
		dermatologist.Email,
		"New Review Request - DermaCare",
		buildReviewRequestedEmail(dermatologist.Username, patient.Username, predictionID),
	)

	request.PatientUsername = patient.Username
	request.DermatologistUsername = dermatologist.Username
	return request, nil
}

// SubmitReview records the dermatologist's review and notifies the patient.
func (s *ReviewWorkflowService) SubmitReview(requestID uint, comment string, dermatologistID uint) (*models.ReviewRequest, error) {
	request, err := s.ledger.SubmitReview(requestID, dermatologistID, comment)
	if err != nil {
		return nil, err
	}

	// The review is committed; failures past this point leave the patient
	// without their notification and must be flagged for reconciliation.
	dermatologist, err := s.users.UserByID(dermatologistID)
	if err != nil {
		log.Printf("RECONCILE: review %d submitted but dermatologist %d load failed: %v", request.RequestID, dermatologistID, err)
		return nil, fmt.Errorf("failed to load dermatologist %d: %w", dermatologistID, err)
	}
	patient, err := s.users.UserByID(request.PatientID)
	if err != nil {
		log.Printf("RECONCILE: review %d submitted but patient %d load failed: %v", request.RequestID, request.PatientID, err)
		return nil, fmt.Errorf("failed to load patient %d: %w", request.PatientID, err)
	}

	ref := models.NotificationRef{RequestID: request.RequestID, PredictionID: request.PredictionID}
	message := fmt.Sprintf("Dr. %s added a review to your prediction", dermatologist.Username)
	if _, err := s.inbox.Notify(request.PatientID, models.NotificationReviewSubmitted, message, ref); err != nil {
		log.Printf("RECONCILE: review %d submitted but notification insert failed: %v", request.RequestID, err)
		return nil, fmt.Errorf("failed to record notification for request %d: %w", request.RequestID, err)
	}

	go s.sendMailSafe(
		patient.Email,
		"Expert Review Added - DermaCare",
		buildReviewSubmittedEmail(patient.Username, dermatologist.Username, request.PredictionID),
	)

	request.PatientUsername = patient.Username
	request.DermatologistUsername = dermatologist.Username
	return request, nil
}

func (s *ReviewWorkflowService) sendMailSafe(to, subject, html string) {
	if to == "" {
		return
	}
	if err := s.sendMail([]string{to}, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%s): %v", subject, to, err)
	}
}

func buildReviewRequestedEmail(dermatologistName, patientName string, predictionID uint) string {
	return buildWorkflowEmailHTML(
		"New Review Request",
		fmt.Sprintf("Dr. %s", dermatologistName),
		fmt.Sprintf("You have received a new review request from %s (prediction #%d). Please log in to your dashboard to review the case and provide your expert feedback.", patientName, predictionID),
	)
}

func buildReviewSubmittedEmail(patientName, dermatologistName string, predictionID uint) string {
	return buildWorkflowEmailHTML(
		"Expert Review Added",
		patientName,
		fmt.Sprintf("Dr. %s has added an expert review to your prediction #%d. Log in to read the comment.", dermatologistName, predictionID),
	)
}

func buildWorkflowEmailHTML(heading, recipientName, body string) string {
	escapedHeading := template.HTMLEscapeString(heading)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Hello %s,", recipientName))
	escapedBody := template.HTMLEscapeString(body)

	return fmt.Sprintf(`<html>
<body style="font-family:'Segoe UI',Tahoma,Arial,sans-serif;color:#111827;">
  <h2>%s</h2>
  <p>%s</p>
  <p>%s</p>
  <br>
  <p>Best regards,<br>The DermaCare Team</p>
</body>
</html>`, escapedHeading, escapedGreeting, escapedBody)
}
