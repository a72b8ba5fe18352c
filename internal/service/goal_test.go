package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/validation"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestGoalService(t *testing.T, maxRetries int) (*GoalService, *fakeGoalRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeGoalRepo()
	notifier := &fakeNotifier{}
	s := NewGoalService(repo, notifier, maxRetries)
	s.now = func() time.Time { return testNow }
	return s, repo, notifier
}

func createTestGoal(t *testing.T, s *GoalService, target string, milestones ...string) *model.Goal {
	t.Helper()
	in := GoalInput{
		Title:        "New laptop",
		TargetAmount: dec(target),
		Category:     model.GoalCategoryOther,
		TargetDate:   testNow.AddDate(0, 3, 0),
	}
	for _, m := range milestones {
		in.Milestones = append(in.Milestones, MilestoneInput{Amount: dec(m)})
	}
	goal, err := s.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return goal
}

func TestGoalServiceCreate(t *testing.T) {
	s, repo, _ := newTestGoalService(t, 3)

	goal := createTestGoal(t, s, "1000", "250", "500")

	if goal.Status != model.GoalStatusActive || goal.Priority != model.GoalPriorityMedium {
		t.Errorf("status = %s priority = %s, want active medium", goal.Status, goal.Priority)
	}
	if !goal.StartDate.Equal(testNow) || goal.Version != 1 {
		t.Errorf("startDate = %s version = %d", goal.StartDate, goal.Version)
	}
	if len(goal.Milestones) != 2 || goal.Milestones[1].Position != 1 {
		t.Errorf("milestones = %+v", goal.Milestones)
	}
	if _, ok := repo.goals[goal.ID]; !ok {
		t.Errorf("goal not stored")
	}
}

func TestGoalServiceCreateValidation(t *testing.T) {
	s, _, _ := newTestGoalService(t, 3)
	past := testNow.AddDate(0, 0, -1)

	tests := []struct {
		name  string
		in    GoalInput
		field string
	}{
		{"missing title", GoalInput{TargetAmount: dec("10"), Category: model.GoalCategoryCar, TargetDate: testNow.AddDate(0, 1, 0)}, "title"},
		{"zero target", GoalInput{Title: "x", Category: model.GoalCategoryCar, TargetDate: testNow.AddDate(0, 1, 0)}, "targetAmount"},
		{"target too large", GoalInput{Title: "x", TargetAmount: dec("1000000"), Category: model.GoalCategoryCar, TargetDate: testNow.AddDate(0, 1, 0)}, "targetAmount"},
		{"bad category", GoalInput{Title: "x", TargetAmount: dec("10"), Category: "yacht", TargetDate: testNow.AddDate(0, 1, 0)}, "category"},
		{"missing target date", GoalInput{Title: "x", TargetAmount: dec("10"), Category: model.GoalCategoryCar}, "targetDate"},
		{"target date before start", GoalInput{Title: "x", TargetAmount: dec("10"), Category: model.GoalCategoryCar, TargetDate: past}, "targetDate"},
		{"milestone above target", GoalInput{
			Title: "x", TargetAmount: dec("10"), Category: model.GoalCategoryCar, TargetDate: testNow.AddDate(0, 1, 0),
			Milestones: []MilestoneInput{{Amount: dec("20")}},
		}, "milestones[0].amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), "user-1", tt.in)
			fe, ok := validation.AsFieldError(err)
			if !ok {
				t.Fatalf("err = %v, want FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestGoalServiceContribute(t *testing.T) {
	s, repo, notifier := newTestGoalService(t, 3)
	goal := createTestGoal(t, s, "1000", "500")
	ctx := context.Background()

	updated, res, err := s.Contribute(ctx, "user-1", goal.ID, dec("600"), "  salary  ")
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if !updated.CurrentAmount.Equal(dec("600")) || updated.Version != 2 {
		t.Errorf("currentAmount = %s version = %d", updated.CurrentAmount, updated.Version)
	}
	if res.Contribution.Description != "salary" {
		t.Errorf("description = %q, want trimmed", res.Contribution.Description)
	}
	if len(notifier.events) != 1 || notifier.events[0].Type != model.GoalEventMilestoneAchieved {
		t.Errorf("events = %+v, want one milestone event", notifier.events)
	}

	updated, res, err = s.Contribute(ctx, "user-1", goal.ID, dec("400"), "")
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if updated.Status != model.GoalStatusCompleted || !res.Completed {
		t.Errorf("status = %s, want completed", updated.Status)
	}
	if len(notifier.events) != 2 || notifier.events[1].Type != model.GoalEventCompleted {
		t.Errorf("events = %+v, want completion last", notifier.events)
	}

	stored := repo.goals[goal.ID]
	if !stored.CurrentAmount.Equal(dec("1000")) || len(stored.Contributions) != 2 {
		t.Errorf("stored = %s with %d contributions", stored.CurrentAmount, len(stored.Contributions))
	}

	_, _, err = s.Contribute(ctx, "user-1", goal.ID, dec("1"), "")
	if !errors.Is(err, model.ErrGoalNotActive) {
		t.Errorf("contribute to completed goal: err = %v, want ErrGoalNotActive", err)
	}
}

func TestGoalServiceContributeRejected(t *testing.T) {
	s, repo, notifier := newTestGoalService(t, 3)
	goal := createTestGoal(t, s, "1000")
	ctx := context.Background()

	for _, amount := range []string{"0", "-10"} {
		_, _, err := s.Contribute(ctx, "user-1", goal.ID, dec(amount), "")
		if !errors.Is(err, model.ErrInvalidAmount) {
			t.Errorf("amount %s: err = %v, want ErrInvalidAmount", amount, err)
		}
	}

	for _, amount := range []string{"0.001", "1000000"} {
		_, _, err := s.Contribute(ctx, "user-1", goal.ID, dec(amount), "")
		fe, ok := validation.AsFieldError(err)
		if !ok || fe.Field != "amount" {
			t.Errorf("amount %s: err = %v, want amount FieldError", amount, err)
		}
	}

	_, _, err := s.Contribute(ctx, "user-2", goal.ID, dec("10"), "")
	if !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("foreign goal: err = %v, want ErrGoalNotFound", err)
	}

	if repo.saves != 0 || len(notifier.events) != 0 {
		t.Errorf("saves = %d events = %d, want none", repo.saves, len(notifier.events))
	}
	if !repo.goals[goal.ID].CurrentAmount.IsZero() {
		t.Errorf("stored amount = %s, want 0", repo.goals[goal.ID].CurrentAmount)
	}
}

func TestGoalServiceContributeRetriesConflicts(t *testing.T) {
	s, repo, _ := newTestGoalService(t, 3)
	goal := createTestGoal(t, s, "1000")
	repo.conflicts = 2

	updated, _, err := s.Contribute(context.Background(), "user-1", goal.ID, dec("50"), "")
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if repo.reads != 3 {
		t.Errorf("reads = %d, want 3 (one per attempt)", repo.reads)
	}
	if !updated.CurrentAmount.Equal(dec("50")) || !repo.goals[goal.ID].CurrentAmount.Equal(dec("50")) {
		t.Errorf("amount applied more than once: %s", repo.goals[goal.ID].CurrentAmount)
	}
}

func TestGoalServiceContributeGivesUp(t *testing.T) {
	s, repo, notifier := newTestGoalService(t, 1)
	goal := createTestGoal(t, s, "1000", "10")
	repo.conflicts = 100

	_, _, err := s.Contribute(context.Background(), "user-1", goal.ID, dec("50"), "")
	if !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
	if repo.reads != 2 {
		t.Errorf("reads = %d, want 2", repo.reads)
	}
	if !repo.goals[goal.ID].CurrentAmount.IsZero() || repo.goals[goal.ID].Milestones[0].Achieved {
		t.Errorf("goal changed after failed contribution")
	}
	if len(notifier.events) != 0 {
		t.Errorf("events = %+v, want none", notifier.events)
	}
}

func TestGoalServiceConcurrentContributions(t *testing.T) {
	s, repo, _ := newTestGoalService(t, 20)
	goal := createTestGoal(t, s, "100000")

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.Contribute(context.Background(), "user-1", goal.ID, dec("10"), "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Contribute: %v", err)
		}
	}

	stored := repo.goals[goal.ID]
	if !stored.CurrentAmount.Equal(dec("100")) || len(stored.Contributions) != workers {
		t.Errorf("currentAmount = %s contributions = %d, want 100 and %d", stored.CurrentAmount, len(stored.Contributions), workers)
	}
	if !stored.Reconcile().IsZero() {
		t.Errorf("Reconcile() = %s", stored.Reconcile())
	}
}

func TestGoalServiceNotifierFailureDoesNotFailContribution(t *testing.T) {
	s, _, notifier := newTestGoalService(t, 3)
	notifier.err = errors.New("smtp down")
	goal := createTestGoal(t, s, "100")

	updated, _, err := s.Contribute(context.Background(), "user-1", goal.ID, dec("100"), "")
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if updated.Status != model.GoalStatusCompleted {
		t.Errorf("status = %s, want completed", updated.Status)
	}
	if len(notifier.events) != 1 {
		t.Errorf("events = %d, want 1", len(notifier.events))
	}
}

func TestGoalServiceUpdate(t *testing.T) {
	s, _, _ := newTestGoalService(t, 3)
	goal := createTestGoal(t, s, "1000", "100")
	ctx := context.Background()

	title := "Gaming laptop"
	target := dec("1500")
	updated, err := s.Update(ctx, "user-1", goal.ID, GoalUpdate{Title: &title, TargetAmount: &target})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || !updated.TargetAmount.Equal(target) || updated.Version != 2 {
		t.Errorf("updated = %+v", updated)
	}

	paused := model.GoalStatusPaused
	_, err = s.Update(ctx, "user-1", goal.ID, GoalUpdate{Status: &paused})
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	_, _, err = s.Contribute(ctx, "user-1", goal.ID, dec("10"), "")
	if !errors.Is(err, model.ErrGoalNotActive) {
		t.Errorf("contribute to paused goal: err = %v", err)
	}

	completed := model.GoalStatusCompleted
	_, err = s.Update(ctx, "user-1", goal.ID, GoalUpdate{Status: &completed})
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("paused -> completed: err = %v, want ErrInvalidTransition", err)
	}

	cancelled, err := s.Cancel(ctx, "user-1", goal.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != model.GoalStatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	active := model.GoalStatusActive
	_, err = s.Update(ctx, "user-1", goal.ID, GoalUpdate{Status: &active})
	if !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("cancelled -> active: err = %v, want ErrInvalidTransition", err)
	}
}

func TestGoalServiceUpdateMilestonesLocked(t *testing.T) {
	s, _, _ := newTestGoalService(t, 3)
	goal := createTestGoal(t, s, "1000", "100")
	ctx := context.Background()

	replacement := []MilestoneInput{{Amount: dec("200")}, {Amount: dec("400")}}
	updated, err := s.Update(ctx, "user-1", goal.ID, GoalUpdate{Milestones: &replacement})
	if err != nil {
		t.Fatalf("replace milestones: %v", err)
	}
	if len(updated.Milestones) != 2 {
		t.Errorf("milestones = %d, want 2", len(updated.Milestones))
	}

	_, _, err = s.Contribute(ctx, "user-1", goal.ID, dec("250"), "")
	if err != nil {
		t.Fatal(err)
	}

	later := []MilestoneInput{{Amount: dec("600")}}
	_, err = s.Update(ctx, "user-1", goal.ID, GoalUpdate{Milestones: &later})
	if !errors.Is(err, model.ErrMilestonesLocked) {
		t.Errorf("err = %v, want ErrMilestonesLocked", err)
	}
}

func TestGoalServiceUpdateMilestonesAboveSaved(t *testing.T) {
	s, _, _ := newTestGoalService(t, 3)
	goal := createTestGoal(t, s, "1000")
	ctx := context.Background()

	_, _, err := s.Contribute(ctx, "user-1", goal.ID, dec("300"), "")
	if err != nil {
		t.Fatal(err)
	}

	for _, amount := range []string{"200", "300"} {
		reached := []MilestoneInput{{Amount: dec(amount)}, {Amount: dec("800")}}
		_, err = s.Update(ctx, "user-1", goal.ID, GoalUpdate{Milestones: &reached})
		fe, ok := validation.AsFieldError(err)
		if !ok || fe.Field != "milestones[0].amount" {
			t.Errorf("milestone at %s: err = %v, want milestones[0].amount FieldError", amount, err)
		}
	}

	ahead := []MilestoneInput{{Amount: dec("500")}, {Amount: dec("800")}}
	updated, err := s.Update(ctx, "user-1", goal.ID, GoalUpdate{Milestones: &ahead})
	if err != nil {
		t.Fatalf("replace milestones: %v", err)
	}
	if len(updated.Milestones) != 2 || updated.Milestones[0].Achieved {
		t.Errorf("milestones = %+v", updated.Milestones)
	}
}

func TestGoalServiceContributionsAndStats(t *testing.T) {
	s, _, _ := newTestGoalService(t, 3)
	goal := createTestGoal(t, s, "1000")
	ctx := context.Background()

	for _, a := range []string{"10", "20"} {
		_, _, err := s.Contribute(ctx, "user-1", goal.ID, dec(a), "")
		if err != nil {
			t.Fatal(err)
		}
	}

	contributions, err := s.Contributions(ctx, "user-1", goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(contributions) != 2 || !contributions[0].Amount.Equal(dec("20")) {
		t.Errorf("contributions = %+v, want newest first", contributions)
	}

	_, err = s.Contributions(ctx, "user-2", goal.ID)
	if !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("foreign contributions: err = %v, want ErrGoalNotFound", err)
	}

	stats, err := s.Stats(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Active != 1 || !stats.TotalSaved.Equal(dec("30")) {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGoalServiceGoalsFilterValidation(t *testing.T) {
	s, _, _ := newTestGoalService(t, 3)

	_, err := s.Goals(context.Background(), "user-1", repository.GoalFilter{Status: "archived"})
	fe, ok := validation.AsFieldError(err)
	if !ok || fe.Field != "status" {
		t.Errorf("err = %v, want status FieldError", err)
	}
}
