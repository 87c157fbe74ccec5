package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer delivers the order confirmation template to a transactional-email
// HTTP endpoint. Best effort only: callers log failures and move on.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, params TemplateParams) error
}

// TemplateParams is the fixed parameter set the email template expects.
type TemplateParams struct {
	UserEmail     string `json:"user_email"`
	OrderID       string `json:"order_id"`
	OrderTotal    string `json:"order_total"`
	PickupDate    string `json:"pickup_date"`
	TimeSlot      string `json:"time_slot"`
	OrderType     string `json:"order_type"`
	PaymentMethod string `json:"payment_method"`
	Address       string `json:"address"`
	OrderItems    string `json:"order_items"`
}

// HTTPMailer implements Mailer against an emailjs-style send endpoint.
type HTTPMailer struct {
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	httpClient *http.Client
}

func NewHTTPMailer(endpoint, serviceID, templateID, publicKey string) *HTTPMailer {
	return &HTTPMailer{
		endpoint:   endpoint,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams TemplateParams `json:"template_params"`
}

func (m *HTTPMailer) SendOrderConfirmation(ctx context.Context, params TemplateParams) error {
	payload, err := json.Marshal(sendRequest{
		ServiceID:      m.serviceID,
		TemplateID:     m.templateID,
		UserID:         m.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("email sender responded with status %d", resp.StatusCode)
	}
	return nil
}
