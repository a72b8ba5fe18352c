package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fintrack/fintrack/internal/model"
)

func TestNotifiersFanOut(t *testing.T) {
	first := &fakeNotifier{err: errors.New("smtp down")}
	second := &fakeNotifier{}
	n := Notifiers{first, second}

	err := n.Notify(context.Background(), model.GoalEvent{Type: model.GoalEventCompleted, GoalID: "g1"})
	if err == nil || err.Error() != "smtp down" {
		t.Errorf("err = %v, want smtp down", err)
	}
	if len(first.events) != 1 || len(second.events) != 1 {
		t.Errorf("events delivered = %d and %d, want 1 each", len(first.events), len(second.events))
	}

	err = Notifiers{second}.Notify(context.Background(), model.GoalEvent{Type: model.GoalEventCompleted})
	if err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}
