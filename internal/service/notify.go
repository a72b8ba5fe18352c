package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

// Notifier reacts to goal events after they have been committed.
type Notifier interface {
	Notify(ctx context.Context, event model.GoalEvent) error
}

// Notifiers fans an event out to every notifier and joins their errors.
type Notifiers []Notifier

func (n Notifiers) Notify(ctx context.Context, event model.GoalEvent) error {
	var errs []error
	for _, notifier := range n {
		err := notifier.Notify(ctx, event)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EmailNotifier mails the goal's owner about milestones and completion.
type EmailNotifier struct {
	users repository.UserRepository
	email *EmailService
}

func NewEmailNotifier(users repository.UserRepository, email *EmailService) *EmailNotifier {
	return &EmailNotifier{users: users, email: email}
}

func (n *EmailNotifier) Notify(ctx context.Context, event model.GoalEvent) error {
	user, err := n.users.ByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to get goal owner: %w", err)
	}

	return n.email.SendGoalEventEmail(ctx, user, event)
}
