package services

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
)

var (
	selectPredictionPattern    = regexp.MustCompile("SELECT \\* FROM `predictions` WHERE.*prediction_id = \\?")
	selectUserPattern          = regexp.MustCompile("SELECT \\* FROM `users` WHERE.*user_id = \\?")
	selectReviewRequestPattern = regexp.MustCompile("SELECT \\* FROM `review_requests` WHERE.*request_id = \\?")
	insertReviewRequestPattern = regexp.MustCompile("INSERT INTO `review_requests`")
	updateReviewRequestPattern = regexp.MustCompile("UPDATE `review_requests` SET .* WHERE.*request_id = \\? AND status = \\?")
	selectUsernamesPattern     = regexp.MustCompile("SELECT user_id, username FROM `users`")
)

func predictionRow(id, ownerID int64) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: selectPredictionPattern,
		columns: []string{"prediction_id", "user_id", "predicted_label", "confidence_score", "image_url", "create_at"},
		rows: [][]driver.Value{
			{id, ownerID, "eczema", 0.91, "https://img.example/1.jpg", time.Now()},
		},
	}
}

func userRow(id int64, role string) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: selectUserPattern,
		columns: []string{"user_id", "username", "email", "password", "role", "is_verified", "is_suspended", "create_at"},
		rows: [][]driver.Value{
			{id, "user", "user@example.com", "x", role, true, false, time.Now()},
		},
	}
}

func pendingRequestRow(requestID, predictionID, patientID, dermatologistID int64) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: selectReviewRequestPattern,
		columns: []string{"request_id", "prediction_id", "patient_id", "dermatologist_id", "status", "comment", "create_at", "reviewed_at"},
		rows: [][]driver.Value{
			{requestID, predictionID, patientID, dermatologistID, "pending", nil, time.Now(), nil},
		},
	}
}

func expectKind(t *testing.T, err error, kind ErrorKind, reason string) {
	t.Helper()
	wfErr, ok := AsWorkflowError(err)
	if !ok {
		t.Fatalf("expected workflow error, got %v", err)
	}
	if wfErr.Kind != kind || wfErr.Reason != reason {
		t.Fatalf("expected %s(%s), got %s(%s)", kind, reason, wfErr.Kind, wfErr.Reason)
	}
}

func TestCreateReturnsNotFoundForMissingPrediction(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectPredictionPattern,
			columns: []string{"prediction_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.Create(9, 1, 2)
	expectKind(t, err, KindNotFound, "prediction")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCreateReturnsForbiddenForNonOwner(t *testing.T) {
	steps := []*queryStep{
		predictionRow(9, 42), // owned by someone else
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.Create(9, 1, 2)
	expectKind(t, err, KindForbidden, "not_owner")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCreateRejectsTargetWithoutDermatologistRole(t *testing.T) {
	steps := []*queryStep{
		predictionRow(9, 1),
		userRow(2, "patient"),
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.Create(9, 1, 2)
	expectKind(t, err, KindInvalidTarget, "not_dermatologist")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCreateRejectsMissingTargetAsInvalidTarget(t *testing.T) {
	steps := []*queryStep{
		predictionRow(9, 1),
		{
			kind:    kindQuery,
			pattern: selectUserPattern,
			columns: []string{"user_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.Create(9, 1, 2)
	expectKind(t, err, KindInvalidTarget, "not_dermatologist")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCreateInsertsPendingRequest(t *testing.T) {
	steps := []*queryStep{
		predictionRow(9, 1),
		userRow(2, "dermatologist"),
		{
			kind:    kindExec,
			pattern: insertReviewRequestPattern,
			result:  scriptedResult{lastInsertID: 7, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	request, err := svc.Create(9, 1, 2)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if request.RequestID != 7 {
		t.Fatalf("expected request id 7, got %d", request.RequestID)
	}
	if request.Status != "pending" {
		t.Fatalf("expected pending status, got %s", request.Status)
	}
	if request.Comment != nil || request.ReviewedAt != nil {
		t.Fatalf("new request must not carry a review: %+v", request)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCreateTranslatesDuplicateKeyToConflict(t *testing.T) {
	steps := []*queryStep{
		predictionRow(9, 1),
		userRow(2, "dermatologist"),
		{
			kind:    kindExec,
			pattern: insertReviewRequestPattern,
			err:     &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '9-2' for key 'uniq_prediction_dermatologist'"},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.Create(9, 1, 2)
	expectKind(t, err, KindConflict, "duplicate_request")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitReviewReturnsNotFoundForMissingRequest(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectReviewRequestPattern,
			columns: []string{"request_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.SubmitReview(7, 2, "Mild case, monitor for 2 weeks.")
	expectKind(t, err, KindNotFound, "request")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitReviewRejectsUnassignedDermatologist(t *testing.T) {
	steps := []*queryStep{
		pendingRequestRow(7, 9, 1, 2),
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.SubmitReview(7, 5, "Mild case, monitor for 2 weeks.")
	expectKind(t, err, KindForbidden, "not_assigned")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitReviewRejectsAlreadyReviewed(t *testing.T) {
	reviewedAt := time.Now().Add(-time.Hour)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: selectReviewRequestPattern,
			columns: []string{"request_id", "prediction_id", "patient_id", "dermatologist_id", "status", "comment", "create_at", "reviewed_at"},
			rows: [][]driver.Value{
				{int64(7), int64(9), int64(1), int64(2), "reviewed", "Looks benign.", time.Now().Add(-2 * time.Hour), reviewedAt},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.SubmitReview(7, 2, "Second opinion.")
	expectKind(t, err, KindInvalidState, "already_reviewed")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitReviewValidatesCommentLength(t *testing.T) {
	for name, comment := range map[string]string{
		"empty":    "",
		"too long": strings.Repeat("a", MaxReviewCommentLength+1),
	} {
		t.Run(name, func(t *testing.T) {
			steps := []*queryStep{
				pendingRequestRow(7, 9, 1, 2),
			}

			db, state, cleanup := newScriptedGormDB(t, steps)
			defer cleanup()

			svc := NewReviewRequestService(db)
			_, err := svc.SubmitReview(7, 2, comment)
			expectKind(t, err, KindValidation, "comment_length")

			if err := state.verifyComplete(); err != nil {
				t.Fatalf("%v", err)
			}
		})
	}
}

func TestSubmitReviewSetsCommentAndReviewedAtTogether(t *testing.T) {
	steps := []*queryStep{
		pendingRequestRow(7, 9, 1, 2),
		{
			kind:    kindExec,
			pattern: updateReviewRequestPattern,
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	request, err := svc.SubmitReview(7, 2, "Mild case, monitor for 2 weeks.")
	if err != nil {
		t.Fatalf("SubmitReview returned error: %v", err)
	}

	if request.Status != "reviewed" {
		t.Fatalf("expected reviewed status, got %s", request.Status)
	}
	if request.Comment == nil || *request.Comment != "Mild case, monitor for 2 weeks." {
		t.Fatalf("unexpected comment: %v", request.Comment)
	}
	if request.ReviewedAt == nil {
		t.Fatal("reviewed_at not set")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

// Two concurrent submissions race to the conditional update; the loser's
// UPDATE matches zero rows and must report already_reviewed, never succeed.
func TestSubmitReviewLostRaceReportsInvalidState(t *testing.T) {
	steps := []*queryStep{
		pendingRequestRow(7, 9, 1, 2),
		{
			kind:    kindExec,
			pattern: updateReviewRequestPattern,
			result:  scriptedResult{rowsAffected: 0},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.SubmitReview(7, 2, "Mild case, monitor for 2 weeks.")
	expectKind(t, err, KindInvalidState, "already_reviewed")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGetRejectsThirdParty(t *testing.T) {
	steps := []*queryStep{
		pendingRequestRow(7, 9, 1, 2),
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	_, err := svc.Get(7, 99)
	expectKind(t, err, KindForbidden, "not_authorized")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestListScopesPatientsToOwnRequests(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `review_requests` WHERE.*patient_id = \\?"),
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `review_requests` WHERE.*patient_id = \\?.*ORDER BY create_at DESC"),
			columns: []string{"request_id", "prediction_id", "patient_id", "dermatologist_id", "status", "comment", "create_at", "reviewed_at"},
			rows: [][]driver.Value{
				{int64(7), int64(9), int64(1), int64(2), "pending", nil, time.Now(), nil},
			},
		},
		{
			kind:    kindQuery,
			pattern: selectUsernamesPattern,
			columns: []string{"user_id", "username"},
			rows: [][]driver.Value{
				{int64(1), "alice"},
				{int64(2), "drbob"},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	requests, total, err := svc.List(PatientCaller(1), "", 50, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || len(requests) != 1 {
		t.Fatalf("expected one request, got total=%d len=%d", total, len(requests))
	}
	if requests[0].PatientUsername != "alice" || requests[0].DermatologistUsername != "drbob" {
		t.Fatalf("unexpected usernames: %+v", requests[0])
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestListScopesDermatologistsToAssignedRequests(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `review_requests` WHERE.*dermatologist_id = \\? AND .*status = \\?"),
			args:    []driver.Value{int64(2), "pending"},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `review_requests` WHERE.*dermatologist_id = \\? AND .*status = \\?"),
			columns: []string{"request_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewRequestService(db)
	requests, total, err := svc.List(DermatologistCaller(2), "pending", 50, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 0 || len(requests) != 0 {
		t.Fatalf("expected empty result, got total=%d len=%d", total, len(requests))
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
