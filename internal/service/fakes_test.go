package service

import (
	"context"
	"strings"
	"sync"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/shopspring/decimal"
)

// fakeGoalRepo stores copies so a failed attempt never leaks into the
// stored goal, like a rolled back transaction.
type fakeGoalRepo struct {
	mu        sync.Mutex
	goals     map[string]*model.Goal
	conflicts int
	reads     int
	saves     int
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[string]*model.Goal{}}
}

func cloneGoal(g *model.Goal) *model.Goal {
	c := *g
	if g.CompletedAt != nil {
		t := *g.CompletedAt
		c.CompletedAt = &t
	}
	c.Tags = append(model.Tags(nil), g.Tags...)
	c.Milestones = nil
	for _, m := range g.Milestones {
		mc := *m
		c.Milestones = append(c.Milestones, &mc)
	}
	c.Contributions = nil
	for _, contribution := range g.Contributions {
		cc := *contribution
		c.Contributions = append(c.Contributions, &cc)
	}
	return &c
}

func (r *fakeGoalRepo) Create(_ context.Context, goal *model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[goal.ID] = cloneGoal(goal)
	return nil
}

func (r *fakeGoalRepo) ByID(_ context.Context, userID, goalID string) (*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	g, ok := r.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, repository.ErrGoalNotFound
	}
	return cloneGoal(g), nil
}

func (r *fakeGoalRepo) Goals(_ context.Context, userID string, filter repository.GoalFilter) ([]*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Goal
	for _, g := range r.goals {
		if g.UserID != userID || (filter.Status != "" && g.Status != filter.Status) {
			continue
		}
		out = append(out, cloneGoal(g))
	}
	return out, nil
}

func (r *fakeGoalRepo) write(goal *model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts > 0 {
		r.conflicts--
		return repository.ErrVersionConflict
	}
	stored, ok := r.goals[goal.ID]
	if !ok || stored.UserID != goal.UserID || stored.Version != goal.Version {
		return repository.ErrVersionConflict
	}
	r.saves++
	goal.Version++
	r.goals[goal.ID] = cloneGoal(goal)
	return nil
}

func (r *fakeGoalRepo) Update(_ context.Context, goal *model.Goal, _ bool) error {
	return r.write(goal)
}

func (r *fakeGoalRepo) SaveContribution(_ context.Context, goal *model.Goal, _ *model.ContributionResult) error {
	return r.write(goal)
}

func (r *fakeGoalRepo) Contributions(_ context.Context, userID, goalID string) ([]*model.Contribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[goalID]
	if !ok || g.UserID != userID {
		return []*model.Contribution{}, nil
	}
	out := make([]*model.Contribution, 0, len(g.Contributions))
	for i := len(g.Contributions) - 1; i >= 0; i-- {
		c := *g.Contributions[i]
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeGoalRepo) Stats(_ context.Context, userID string) (*repository.GoalStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &repository.GoalStats{TotalSaved: decimal.Zero, TotalTarget: decimal.Zero}
	for _, g := range r.goals {
		if g.UserID != userID {
			continue
		}
		switch g.Status {
		case model.GoalStatusActive:
			s.Active++
		case model.GoalStatusCompleted:
			s.Completed++
		case model.GoalStatusPaused:
			s.Paused++
		case model.GoalStatusCancelled:
			s.Cancelled++
			continue
		}
		s.TotalSaved = s.TotalSaved.Add(g.CurrentAmount)
		s.TotalTarget = s.TotalTarget.Add(g.TargetAmount)
	}
	return s, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []model.GoalEvent
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, event model.GoalEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) ByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) ByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	c := *user
	r.users[user.ID] = &c
	return nil
}
