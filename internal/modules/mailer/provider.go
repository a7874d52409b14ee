package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrNotConfigured = errors.New("email provider api key not configured")

// Message is a single outbound HTML email.
type Message struct {
	ToAddress string
	ToName    string
	Subject   string
	HTML      string
}

// Provider hands a message to a transactional email service.
type Provider interface {
	Send(ctx context.Context, m Message) error
}

// ZeptoMail sends through the ZeptoMail v1.1 email API.
type ZeptoMail struct {
	url         string
	apiKey      string
	fromAddress string
	fromName    string
	http        *http.Client
}

func NewZeptoMail(url, apiKey, fromAddress, fromName string, hc *http.Client) *ZeptoMail {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &ZeptoMail{url: url, apiKey: apiKey, fromAddress: fromAddress, fromName: fromName, http: hc}
}

type zeptoAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type zeptoRecipient struct {
	EmailAddress zeptoAddress `json:"email_address"`
}

type zeptoRequest struct {
	From     zeptoAddress     `json:"from"`
	To       []zeptoRecipient `json:"to"`
	Subject  string           `json:"subject"`
	HTMLBody string           `json:"htmlbody"`
}

func (z *ZeptoMail) Send(ctx context.Context, m Message) error {
	if z.apiKey == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(zeptoRequest{
		From:     zeptoAddress{Address: z.fromAddress, Name: z.fromName},
		To:       []zeptoRecipient{{EmailAddress: zeptoAddress{Address: m.ToAddress, Name: m.ToName}}},
		Subject:  m.Subject,
		HTMLBody: m.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Zoho-enczapikey "+z.apiKey)

	resp, err := z.http.Do(req)
	if err != nil {
		return fmt.Errorf("zeptomail: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("zeptomail: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
