package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type GoalEventType string

const (
	GoalEventMilestoneAchieved GoalEventType = "goal.milestone_achieved"
	GoalEventCompleted         GoalEventType = "goal.completed"
)

// GoalEvent is emitted after a contribution has been committed.
type GoalEvent struct {
	Type            GoalEventType   `json:"type"`
	GoalID          string          `json:"goalId"`
	UserID          string          `json:"userId"`
	GoalTitle       string          `json:"goalTitle"`
	TargetAmount    decimal.Decimal `json:"targetAmount"`
	CurrentAmount   decimal.Decimal `json:"currentAmount"`
	MilestoneID     string          `json:"milestoneId,omitempty"`
	MilestoneAmount decimal.Decimal `json:"milestoneAmount,omitzero"`
	MilestoneDesc   string          `json:"milestoneDescription,omitempty"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

// GoalEvents builds the events for a committed contribution: one per newly
// achieved milestone, then completion.
func GoalEvents(g *Goal, r *ContributionResult, now time.Time) []GoalEvent {
	var events []GoalEvent
	for _, m := range r.Achieved {
		events = append(events, GoalEvent{
			Type:            GoalEventMilestoneAchieved,
			GoalID:          g.ID,
			UserID:          g.UserID,
			GoalTitle:       g.Title,
			TargetAmount:    g.TargetAmount,
			CurrentAmount:   g.CurrentAmount,
			MilestoneID:     m.ID,
			MilestoneAmount: m.Amount,
			MilestoneDesc:   m.Description,
			OccurredAt:      now,
		})
	}
	if r.Completed {
		events = append(events, GoalEvent{
			Type:          GoalEventCompleted,
			GoalID:        g.ID,
			UserID:        g.UserID,
			GoalTitle:     g.Title,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			OccurredAt:    now,
		})
	}
	return events
}
