// Package recaptcha verifies client-supplied reCAPTCHA tokens against the
// Google siteverify endpoint.
package recaptcha

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// siteVerifyURL is the Google reCAPTCHA verification endpoint.
const siteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verification failure modes. The error text is surfaced verbatim in the
// contact endpoint's detail field.
var (
	// ErrRequestFailed indicates the verification call itself failed.
	ErrRequestFailed = errors.New("recaptcha-request-failed")
	// ErrInvalid indicates the token was rejected by the verification service.
	ErrInvalid = errors.New("recaptcha-invalid")
	// ErrActionMismatch indicates the token was issued for another action.
	ErrActionMismatch = errors.New("recaptcha-action-mismatch")
	// ErrScoreTooLow indicates the score fell below the configured threshold.
	ErrScoreTooLow = errors.New("recaptcha-score-too-low")
)

// siteVerifyResponse mirrors the siteverify JSON body.
type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// Verifier scores reCAPTCHA tokens.
type Verifier struct {
	client    *resty.Client
	secret    string
	threshold float64
	endpoint  string
}

// NewVerifier constructs a Verifier with a 5 second request timeout.
func NewVerifier(secret string, threshold float64) *Verifier {
	return &Verifier{
		client:    resty.New().SetTimeout(5 * time.Second),
		secret:    secret,
		threshold: threshold,
		endpoint:  siteVerifyURL,
	}
}

// Verify checks a token and returns nil when the submitter passes the bot
// check. The call is made once; failures are not retried.
func (v *Verifier) Verify(ctx context.Context, token, expectedAction string) error {
	var result siteVerifyResponse
	resp, errPost := v.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"secret":   v.secret,
			"response": token,
		}).
		SetResult(&result).
		Post(v.endpoint)
	if errPost != nil {
		return ErrRequestFailed
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode())
	}

	if !result.Success {
		return ErrInvalid
	}
	if result.Action != expectedAction {
		return ErrActionMismatch
	}
	if result.Score < v.threshold {
		return ErrScoreTooLow
	}
	return nil
}
