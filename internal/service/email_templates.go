package service

import (
	"fmt"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/money"
)

func milestoneEmailTemplate(user *model.User, event model.GoalEvent, goalURL, appName string) (string, string) {
	subject := fmt.Sprintf("Milestone reached on %q", event.GoalTitle)

	label := money.Format(event.MilestoneAmount, user.Currency)
	if event.MilestoneDesc != "" {
		label = fmt.Sprintf("%s (%s)", event.MilestoneDesc, label)
	}

	body := fmt.Sprintf(`Hi %s,

You just reached the milestone %s on your goal %q.

Saved so far: %s of %s

Keep going: %s

Best,
The %s Team`,
		user.Name,
		label,
		event.GoalTitle,
		money.Format(event.CurrentAmount, user.Currency),
		money.Format(event.TargetAmount, user.Currency),
		goalURL,
		appName)

	return subject, body
}

func goalCompletedEmailTemplate(user *model.User, event model.GoalEvent, goalURL, appName string) (string, string) {
	subject := fmt.Sprintf("You reached your goal %q!", event.GoalTitle)
	body := fmt.Sprintf(`Hi %s,

Congratulations, your goal %q is complete. You saved %s towards a target of %s.

See the details: %s

Best,
The %s Team`,
		user.Name,
		event.GoalTitle,
		money.Format(event.CurrentAmount, user.Currency),
		money.Format(event.TargetAmount, user.Currency),
		goalURL,
		appName)

	return subject, body
}
