package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendGoalEventEmail(ctx context.Context, user *model.User, event model.GoalEvent) error {
	goalURL := fmt.Sprintf("%s/goals/%s", s.appURL, event.GoalID)

	var subject, body string
	switch event.Type {
	case model.GoalEventMilestoneAchieved:
		subject, body = milestoneEmailTemplate(user, event, goalURL, s.appName)
	case model.GoalEventCompleted:
		subject, body = goalCompletedEmailTemplate(user, event, goalURL, s.appName)
	default:
		return fmt.Errorf("no email template for event %q", event.Type)
	}

	return s.send(ctx, string(event.Type), user.Email, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
