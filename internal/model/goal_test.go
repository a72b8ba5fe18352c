package model

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestGoal(target string, milestones ...string) *Goal {
	g := &Goal{
		ID:            "goal-1",
		UserID:        "user-1",
		Title:         "Emergency fund",
		TargetAmount:  dec(target),
		CurrentAmount: decimal.Zero,
		Category:      GoalCategoryEmergency,
		Priority:      GoalPriorityHigh,
		Status:        GoalStatusActive,
		StartDate:     testNow.AddDate(0, -1, 0),
		TargetDate:    testNow.AddDate(0, 2, 0),
		Version:       1,
	}
	for i, m := range milestones {
		g.Milestones = append(g.Milestones, &Milestone{ID: "m" + string(rune('1'+i)), GoalID: g.ID, Position: i, Amount: dec(m)})
	}
	return g
}

func TestApplyContributionScenarios(t *testing.T) {
	g := newTestGoal("1000", "500")

	res, err := g.ApplyContribution(dec("600"), "first paycheck", testNow)
	if err != nil {
		t.Fatalf("ApplyContribution(600): %v", err)
	}
	if !g.CurrentAmount.Equal(dec("600")) {
		t.Errorf("currentAmount = %s, want 600", g.CurrentAmount)
	}
	if !g.Milestones[0].Achieved || g.Milestones[0].AchievedAt == nil {
		t.Errorf("milestone 500 not achieved after 600")
	}
	if len(res.Achieved) != 1 || res.Completed {
		t.Errorf("result = %+v, want one milestone and not completed", res)
	}
	if g.Status != GoalStatusActive {
		t.Errorf("status = %s, want active", g.Status)
	}
	if pct := g.ProgressPercentage(); pct != 60 {
		t.Errorf("progressPercentage = %v, want 60", pct)
	}

	res, err = g.ApplyContribution(dec("400"), "", testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("ApplyContribution(400): %v", err)
	}
	if !g.CurrentAmount.Equal(dec("1000")) {
		t.Errorf("currentAmount = %s, want 1000", g.CurrentAmount)
	}
	if g.Status != GoalStatusCompleted || g.CompletedAt == nil {
		t.Errorf("status = %s completedAt = %v, want completed", g.Status, g.CompletedAt)
	}
	if !res.Completed || len(res.Achieved) != 0 {
		t.Errorf("result = %+v, want completed with no new milestones", res)
	}
	if pct := g.ProgressPercentage(); pct != 100 {
		t.Errorf("progressPercentage = %v, want 100", pct)
	}
	if len(g.Contributions) != 2 {
		t.Errorf("contributions = %d, want 2", len(g.Contributions))
	}
}

func TestApplyContributionRejectsWithoutMutation(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		desc   string
		status GoalStatus
		want   error
	}{
		{"zero", "0", "", GoalStatusActive, ErrInvalidAmount},
		{"negative", "-5", "", GoalStatusActive, ErrInvalidAmount},
		{"negative ten", "-10", "", GoalStatusActive, ErrInvalidAmount},
		{"paused goal", "10", "", GoalStatusPaused, ErrGoalNotActive},
		{"completed goal", "10", "", GoalStatusCompleted, ErrGoalNotActive},
		{"cancelled goal", "10", "", GoalStatusCancelled, ErrGoalNotActive},
		{"long description", "10", strings.Repeat("x", MaxContributionDescLen+1), GoalStatusActive, ErrDescriptionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGoal("1000", "5")
			g.CurrentAmount = dec("100")
			g.Status = tt.status
			before := *g
			milestoneBefore := *g.Milestones[0]

			res, err := g.ApplyContribution(dec(tt.amount), tt.desc, testNow)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			if !reflect.DeepEqual(before, *g) {
				t.Errorf("goal changed after rejected contribution")
			}
			if !reflect.DeepEqual(milestoneBefore, *g.Milestones[0]) {
				t.Errorf("milestone changed after rejected contribution")
			}
		})
	}
}

func TestApplyContributionSumAndMonotonicity(t *testing.T) {
	g := newTestGoal("10000", "100", "250", "900")
	amounts := []string{"40", "70.50", "150", "0.01", "600", "39.49"}

	want := decimal.Zero
	achieved := map[string]bool{}
	for i, a := range amounts {
		prev := g.CurrentAmount
		_, err := g.ApplyContribution(dec(a), "", testNow.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("contribution %s: %v", a, err)
		}
		if !g.CurrentAmount.Equal(prev.Add(dec(a))) {
			t.Fatalf("currentAmount = %s, want %s + %s", g.CurrentAmount, prev, a)
		}
		want = want.Add(dec(a))

		for _, m := range g.Milestones {
			if achieved[m.ID] && !m.Achieved {
				t.Fatalf("milestone %s went back to unachieved", m.ID)
			}
			if m.Achieved {
				achieved[m.ID] = true
			}
		}
	}

	if !g.CurrentAmount.Equal(want) {
		t.Errorf("currentAmount = %s, want %s", g.CurrentAmount, want)
	}
	if len(achieved) != 3 {
		t.Errorf("achieved milestones = %d, want 3", len(achieved))
	}
	if !g.Reconcile().IsZero() {
		t.Errorf("Reconcile() = %s, want 0", g.Reconcile())
	}
}

func TestApplyContributionCrossesSeveralMilestones(t *testing.T) {
	g := newTestGoal("1000", "100", "200", "300")

	res, err := g.ApplyContribution(dec("250"), "bonus", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Achieved) != 2 {
		t.Fatalf("achieved = %d, want 2", len(res.Achieved))
	}
	if res.Achieved[0].Amount.String() != "100" || res.Achieved[1].Amount.String() != "200" {
		t.Errorf("achieved out of order: %s, %s", res.Achieved[0].Amount, res.Achieved[1].Amount)
	}
	if g.Milestones[2].Achieved {
		t.Errorf("milestone 300 achieved at 250")
	}
	if res.Contribution.Description != "bonus" || !res.Contribution.Date.Equal(testNow) {
		t.Errorf("contribution = %+v", res.Contribution)
	}
}

func TestApplyContributionOvershoot(t *testing.T) {
	g := newTestGoal("100")

	_, err := g.ApplyContribution(dec("150"), "", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !g.CurrentAmount.Equal(dec("150")) {
		t.Errorf("currentAmount = %s, want 150", g.CurrentAmount)
	}
	p := g.Progress(testNow)
	if p.ProgressPercentage != 100 {
		t.Errorf("progressPercentage = %v, want 100", p.ProgressPercentage)
	}
	if !p.RemainingAmount.IsZero() {
		t.Errorf("remainingAmount = %s, want 0", p.RemainingAmount)
	}
	if p.ProgressStatus != ProgressCompleted {
		t.Errorf("progressStatus = %s, want completed", p.ProgressStatus)
	}
}

func TestProgressOverdue(t *testing.T) {
	g := newTestGoal("1000")
	g.CurrentAmount = dec("400")
	g.StartDate = testNow.AddDate(0, -3, 0)
	g.TargetDate = testNow.AddDate(0, 0, -2)

	p := g.Progress(testNow)
	if p.ProgressPercentage != 40 {
		t.Errorf("progressPercentage = %v, want 40", p.ProgressPercentage)
	}
	if p.DaysRemaining != 0 {
		t.Errorf("daysRemaining = %d, want 0", p.DaysRemaining)
	}
	if p.ProgressStatus != ProgressOverdue {
		t.Errorf("progressStatus = %s, want overdue", p.ProgressStatus)
	}
	if !p.DailyContributionNeeded.IsZero() {
		t.Errorf("dailyContributionNeeded = %s, want 0", p.DailyContributionNeeded)
	}
}

func TestProgressZeroTarget(t *testing.T) {
	g := newTestGoal("0")
	g.TargetDate = testNow

	p := g.Progress(testNow)
	if p.ProgressPercentage != 0 {
		t.Errorf("progressPercentage = %v, want 0", p.ProgressPercentage)
	}
	if p.DaysRemaining != 0 {
		t.Errorf("daysRemaining = %d, want 0", p.DaysRemaining)
	}
	if !p.DailyContributionNeeded.IsZero() {
		t.Errorf("dailyContributionNeeded = %s, want 0", p.DailyContributionNeeded)
	}
}

func TestProgressDays(t *testing.T) {
	g := newTestGoal("1000")
	g.CurrentAmount = dec("100")
	g.StartDate = testNow.Add(-36 * time.Hour)
	g.TargetDate = testNow.Add(10 * 24 * time.Hour)

	p := g.Progress(testNow)
	if p.DaysElapsed != 2 {
		t.Errorf("daysElapsed = %d, want 2", p.DaysElapsed)
	}
	if p.DaysRemaining != 10 {
		t.Errorf("daysRemaining = %d, want 10", p.DaysRemaining)
	}
	if p.TotalDays != 12 {
		t.Errorf("totalDays = %d, want 12", p.TotalDays)
	}
	if !p.DailyContributionNeeded.Equal(dec("90")) {
		t.Errorf("dailyContributionNeeded = %s, want 90", p.DailyContributionNeeded)
	}
	if !p.RemainingAmount.Equal(dec("900")) {
		t.Errorf("remainingAmount = %s, want 900", p.RemainingAmount)
	}
	if p.ProgressStatus != ProgressNeedsAttention {
		t.Errorf("progressStatus = %s, want needs-attention", p.ProgressStatus)
	}
}

func TestProgressBound(t *testing.T) {
	for _, current := range []string{"0", "1", "333.33", "999.99", "1000", "5000"} {
		g := newTestGoal("1000")
		g.CurrentAmount = dec(current)
		pct := g.ProgressPercentage()
		if pct < 0 || pct > 100 {
			t.Errorf("current %s: progressPercentage = %v out of [0, 100]", current, pct)
		}
	}
}

func TestProgressStatusCascade(t *testing.T) {
	tests := []struct {
		pct  string
		days int
		want ProgressStatus
	}{
		{"100", 0, ProgressCompleted},
		{"100", 30, ProgressCompleted},
		{"99.999999", 0, ProgressOverdue},
		{"40", -3, ProgressOverdue},
		{"75", 10, ProgressOnTrack},
		{"74.9999", 10, ProgressGood},
		{"50", 10, ProgressGood},
		{"25", 10, ProgressModerate},
		{"24.9999", 10, ProgressNeedsAttention},
		{"0", 1, ProgressNeedsAttention},
	}

	for _, tt := range tests {
		got := progressStatus(dec(tt.pct), tt.days)
		if got != tt.want {
			t.Errorf("progressStatus(%s, %d) = %s, want %s", tt.pct, tt.days, got, tt.want)
		}
	}
}

func TestProgressTierBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		current    string
		wantPct    float64
		wantStatus ProgressStatus
	}{
		{"one cent short of target", "999999.99", "999999.98", 99.99, ProgressOnTrack},
		{"just under on-track", "10000", "7499.99", 74.99, ProgressGood},
		{"exactly on-track", "10000", "7500", 75, ProgressOnTrack},
		{"just under good", "3", "1.49", 49.66, ProgressModerate},
		{"just under moderate", "10000", "2499.99", 24.99, ProgressNeedsAttention},
		{"reached", "10000", "10000", 100, ProgressCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGoal(tt.target)
			g.CurrentAmount = dec(tt.current)

			p := g.Progress(testNow)
			if p.ProgressPercentage != tt.wantPct {
				t.Errorf("progressPercentage = %v, want %v", p.ProgressPercentage, tt.wantPct)
			}
			if p.ProgressStatus != tt.wantStatus {
				t.Errorf("progressStatus = %s, want %s", p.ProgressStatus, tt.wantStatus)
			}
		})
	}
}

func TestApplyContributionOneCentShort(t *testing.T) {
	g := newTestGoal("999999.99")

	res, err := g.ApplyContribution(dec("999999.98"), "", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.Completed || g.Status != GoalStatusActive {
		t.Fatalf("goal completed one cent short of its target")
	}

	p := g.Progress(testNow)
	if p.ProgressPercentage >= 100 || p.ProgressStatus == ProgressCompleted {
		t.Errorf("progress = %v %s, want below 100 and not completed", p.ProgressPercentage, p.ProgressStatus)
	}
	if !p.RemainingAmount.Equal(dec("0.01")) {
		t.Errorf("remainingAmount = %s, want 0.01", p.RemainingAmount)
	}
}

func TestTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    GoalStatus
		to      GoalStatus
		current string
		want    error
	}{
		{"pause", GoalStatusActive, GoalStatusPaused, "0", nil},
		{"complete manually", GoalStatusActive, GoalStatusCompleted, "0", nil},
		{"cancel active", GoalStatusActive, GoalStatusCancelled, "0", nil},
		{"resume", GoalStatusPaused, GoalStatusActive, "0", nil},
		{"cancel paused", GoalStatusPaused, GoalStatusCancelled, "0", nil},
		{"complete paused", GoalStatusPaused, GoalStatusCompleted, "0", ErrInvalidTransition},
		{"reopen below target", GoalStatusCompleted, GoalStatusActive, "500", nil},
		{"reopen at target", GoalStatusCompleted, GoalStatusActive, "1000", ErrInvalidTransition},
		{"pause completed", GoalStatusCompleted, GoalStatusPaused, "1000", ErrInvalidTransition},
		{"cancel completed", GoalStatusCompleted, GoalStatusCancelled, "1000", nil},
		{"revive cancelled", GoalStatusCancelled, GoalStatusActive, "0", ErrInvalidTransition},
		{"same status", GoalStatusPaused, GoalStatusPaused, "0", nil},
		{"unknown status", GoalStatusActive, GoalStatus("archived"), "0", ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGoal("1000")
			g.Status = tt.from
			g.CurrentAmount = dec(tt.current)
			if tt.from == GoalStatusCompleted {
				completedAt := testNow.AddDate(0, 0, -1)
				g.CompletedAt = &completedAt
			}

			err := g.TransitionTo(tt.to, testNow)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if err != nil {
				if g.Status != tt.from {
					t.Errorf("status = %s after rejected transition, want %s", g.Status, tt.from)
				}
				return
			}
			if g.Status != tt.to {
				t.Errorf("status = %s, want %s", g.Status, tt.to)
			}
			switch tt.to {
			case GoalStatusActive:
				if g.CompletedAt != nil {
					t.Errorf("completedAt = %v, want nil", g.CompletedAt)
				}
			case GoalStatusCompleted:
				if g.CompletedAt == nil {
					t.Errorf("completedAt not set")
				}
			}
		})
	}
}

func TestReplaceMilestones(t *testing.T) {
	g := newTestGoal("1000", "100")

	err := g.ReplaceMilestones([]*Milestone{{Amount: dec("300")}, {Amount: dec("600")}})
	if err != nil {
		t.Fatalf("ReplaceMilestones: %v", err)
	}
	if len(g.Milestones) != 2 || g.Milestones[1].Position != 1 || g.Milestones[1].GoalID != g.ID || g.Milestones[1].ID == "" {
		t.Errorf("milestones not normalised: %+v", g.Milestones[1])
	}

	_, err = g.ApplyContribution(dec("300"), "", testNow)
	if err != nil {
		t.Fatal(err)
	}

	err = g.ReplaceMilestones([]*Milestone{{Amount: dec("50")}})
	if !errors.Is(err, ErrMilestonesLocked) {
		t.Fatalf("err = %v, want ErrMilestonesLocked", err)
	}
	if len(g.Milestones) != 2 {
		t.Errorf("milestones replaced despite lock")
	}
}

func TestReconcile(t *testing.T) {
	g := newTestGoal("1000")
	g.Contributions = []*Contribution{{Amount: dec("60")}, {Amount: dec("40")}}

	g.CurrentAmount = dec("100")
	if !g.Reconcile().IsZero() {
		t.Errorf("Reconcile() = %s, want 0", g.Reconcile())
	}

	g.CurrentAmount = dec("150")
	if !g.Reconcile().Equal(dec("50")) {
		t.Errorf("Reconcile() = %s, want 50", g.Reconcile())
	}
}

func TestGoalEnumsValid(t *testing.T) {
	if !GoalCategoryVacation.Valid() || GoalCategory("yacht").Valid() {
		t.Error("GoalCategory.Valid mismatch")
	}
	if !GoalPriorityUrgent.Valid() || GoalPriority("whenever").Valid() {
		t.Error("GoalPriority.Valid mismatch")
	}
	if !GoalStatusCancelled.Valid() || GoalStatus("").Valid() {
		t.Error("GoalStatus.Valid mismatch")
	}
}
