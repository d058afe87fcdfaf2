// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

/*
Package mailer delivers transactional email through an HTTP mail API.

It is an Infrastructure collaborator of the auth workflows: delivery is
best-effort and the caller decides what a failure means (registration, for
example, logs and continues; the pending verification token persists
regardless).

Modes:

  - Configured: messages are posted to the provider's v3 send endpoint.
  - Unconfigured (no API key): messages are written to the structured log
    instead, which is the development default.
*/
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const sendEndpoint = "https://api.brevo.com/v3/smtp/email"

// requestTimeout bounds a single delivery attempt. Callers treat the mailer
// as fire-and-forget, so a hung provider must not hold a request hostage.
const requestTimeout = 10 * time.Second

// Client sends transactional email for the Cinevault platform.
type Client struct {
	apiKey     string
	fromEmail  string
	fromName   string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	configured bool
}

// NewClient creates a mail client. An empty apiKey yields a log-only client.
func NewClient(apiKey, fromEmail, fromName string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		baseURL:    sendEndpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
		configured: apiKey != "" && fromEmail != "",
	}
}

// IsConfigured reports whether real delivery is enabled.
func (client *Client) IsConfigured() bool {
	return client.configured
}

// SendVerificationEmail sends the email-ownership confirmation link.
//
// The token is embedded in a link the user clicks; it is valid for 24 hours.
func (client *Client) SendVerificationEmail(ctx context.Context, toEmail, username, verifyLink string) error {
	subject := "Verify your Cinevault account"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h1>Welcome to Cinevault, %s!</h1>
			<p>To start tracking what you watch, please confirm your email address:</p>
			<p><a href="%s">Verify my account</a></p>
			<p>This link is valid for 24 hours.</p>
			<p>If you did not create this account, you can safely ignore this email.</p>
		</body>
		</html>
	`, username, verifyLink)

	return client.send(ctx, toEmail, subject, body)
}

// SendPasswordResetEmail sends the human-typed reset code.
//
// The code is valid for one hour and can be used exactly once.
func (client *Client) SendPasswordResetEmail(ctx context.Context, toEmail, username, code string) error {
	subject := "Your Cinevault password reset code"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h1>Password reset</h1>
			<p>Hi %s,</p>
			<p>Enter this code to choose a new password:</p>
			<p><strong style="font-size:1.5em">%s</strong></p>
			<p>The code expires in one hour.</p>
			<p>If you did not request a reset, you can safely ignore this email.</p>
		</body>
		</html>
	`, username, code)

	return client.send(ctx, toEmail, subject, body)
}

// sendEmailRequest is the provider's v3 send payload.
type sendEmailRequest struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// send posts one message, or logs it when running unconfigured.
func (client *Client) send(ctx context.Context, toEmail, subject, html string) error {
	if !client.configured {
		// Development mode: surface the message in the log instead of delivering.
		client.logger.InfoContext(ctx, "mailer_log_only_delivery",
			slog.String("to", toEmail),
			slog.String("subject", subject),
		)
		return nil
	}

	payload := sendEmailRequest{
		Sender:      map[string]string{"email": client.fromEmail, "name": client.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mailer: failed to marshal payload: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("mailer: failed to build request: %w", err)
	}

	httpRequest.Header.Set("api-key", client.apiKey)
	httpRequest.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(httpRequest)
	if err != nil {
		return fmt.Errorf("mailer: send request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return fmt.Errorf("mailer: provider returned status %d", response.StatusCode)
	}

	return nil
}
