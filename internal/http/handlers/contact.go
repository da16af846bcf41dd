package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/mail"
)

// contactAction is the reCAPTCHA action tokens must be issued for.
const contactAction = "contact_submit"

// emailPattern is the acceptance check for submitter addresses.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// TokenVerifier scores a bot-mitigation token. Satisfied by
// recaptcha.Verifier; stubbed in tests.
type TokenVerifier interface {
	Verify(ctx context.Context, token, expectedAction string) error
}

// ContactHandler handles public contact-form submissions.
type ContactHandler struct {
	verifier TokenVerifier
	sender   mail.Sender
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(verifier TokenVerifier, sender mail.Sender) *ContactHandler {
	return &ContactHandler{verifier: verifier, sender: sender}
}

// contactRequest defines the contact-form request body.
type contactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// Submit validates a submission, checks the bot-mitigation token, and
// relays the message by email. Neither outbound call is retried.
func (h *ContactHandler) Submit(c *gin.Context) {
	var body contactRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid-json"})
		return
	}

	if strings.TrimSpace(body.Name) == "" ||
		strings.TrimSpace(body.Email) == "" ||
		strings.TrimSpace(body.Subject) == "" ||
		strings.TrimSpace(body.Message) == "" ||
		strings.TrimSpace(body.RecaptchaToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing-fields"})
		return
	}

	if !emailPattern.MatchString(body.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid-email"})
		return
	}

	if errVerify := h.verifier.Verify(c.Request.Context(), body.RecaptchaToken, contactAction); errVerify != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "recaptcha-failed", "detail": errVerify.Error()})
		return
	}

	sub := mail.Submission{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Subject: body.Subject,
		Message: body.Message,
	}
	if errSend := h.sender.SendContact(c.Request.Context(), sub); errSend != nil {
		log.WithError(errSend).Error("contact email delivery failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "email-failed", "detail": errSend.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully."})
}
