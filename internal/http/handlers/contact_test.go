package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/mail"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/recaptcha"
)

// stubVerifier returns a fixed verification result.
type stubVerifier struct {
	err error
}

func (s *stubVerifier) Verify(_ context.Context, _, _ string) error {
	return s.err
}

// stubSender records submissions and returns a fixed delivery result.
type stubSender struct {
	err  error
	sent []mail.Submission
}

func (s *stubSender) SendContact(_ context.Context, sub mail.Submission) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sub)
	return nil
}

// postContact sends a contact request through a fresh router.
func postContact(t *testing.T, verifier TokenVerifier, sender mail.Sender, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/contact", NewContactHandler(verifier, sender).Submit)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const validContact = `{
	"name": "Jane",
	"email": "jane@example.com",
	"subject": "Hello",
	"message": "Hi there",
	"recaptchaToken": "tok"
}`

func TestContactRelaysValidSubmission(t *testing.T) {
	sender := &stubSender{}
	w := postContact(t, &stubVerifier{}, sender, validContact)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Message sent successfully.") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(sender.sent))
	}
	if sender.sent[0].Email != "jane@example.com" {
		t.Fatalf("unexpected submission %+v", sender.sent[0])
	}
}

func TestContactRejectsInvalidJSON(t *testing.T) {
	w := postContact(t, &stubVerifier{}, &stubSender{}, `{"name":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid-json") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestContactRejectsMissingFields(t *testing.T) {
	w := postContact(t, &stubVerifier{}, &stubSender{}, `{"name":"Jane","email":"jane@example.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missing-fields") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestContactRejectsInvalidEmail(t *testing.T) {
	body := strings.Replace(validContact, "jane@example.com", "not-an-email", 1)
	w := postContact(t, &stubVerifier{}, &stubSender{}, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid-email") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestContactRejectsFailedBotCheck(t *testing.T) {
	sender := &stubSender{}
	w := postContact(t, &stubVerifier{err: recaptcha.ErrScoreTooLow}, sender, validContact)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "recaptcha-failed") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "recaptcha-score-too-low") {
		t.Fatalf("expected failure detail in body %s", w.Body.String())
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no delivery after failed bot check")
	}
}

func TestContactReportsDeliveryFailure(t *testing.T) {
	w := postContact(t, &stubVerifier{}, &stubSender{err: errors.New("smtp down")}, validContact)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "email-failed") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
