package models

import (
	"errors"
	"testing"
	"time"
)

func newScheduledMatch() *Match {
	return &Match{
		ID:           "m1",
		TournamentID: "t1",
		Round:        1,
		MatchNumber:  1,
		Player1ID:    "alice",
		Player2ID:    "bob",
		Status:       MatchScheduled,
	}
}

func TestMatchBegin(t *testing.T) {
	m := newScheduledMatch()
	now := time.Now()

	if err := m.Begin(now); err != nil {
		t.Fatalf("begin error: %v", err)
	}
	if m.Status != MatchActive {
		t.Fatalf("status = %s, want active", m.Status)
	}
	if m.StartTime == nil || !m.StartTime.Equal(now) {
		t.Fatalf("start time = %v, want %v", m.StartTime, now)
	}

	if err := m.Begin(now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second begin error = %v, want invalid state", err)
	}
}

func TestMatchCompleteFromActive(t *testing.T) {
	m := newScheduledMatch()
	now := time.Now()
	if err := m.Begin(now); err != nil {
		t.Fatalf("begin error: %v", err)
	}

	score1, score2 := int64(1), int64(0)
	if err := m.Complete("alice", &score1, &score2, now); err != nil {
		t.Fatalf("complete error: %v", err)
	}
	if m.Status != MatchCompleted || m.WinnerID != "alice" {
		t.Fatalf("status=%s winner=%s, want completed/alice", m.Status, m.WinnerID)
	}
	if m.EndTime == nil {
		t.Fatal("end time not set")
	}

	// Terminal: no transition leaves completed.
	if err := m.Complete("bob", nil, nil, now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("complete after completed error = %v, want invalid state", err)
	}
	if err := m.Begin(now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("begin after completed error = %v, want invalid state", err)
	}
}

func TestMatchCompleteFromScheduled(t *testing.T) {
	// Cancellation-style completion without a start.
	m := newScheduledMatch()
	if err := m.Complete("", nil, nil, time.Now()); err != nil {
		t.Fatalf("complete error: %v", err)
	}
	if m.Status != MatchCompleted || m.WinnerID != "" {
		t.Fatalf("status=%s winner=%q, want completed with no winner", m.Status, m.WinnerID)
	}
}

func TestMatchCompleteRejectsForeignWinner(t *testing.T) {
	m := newScheduledMatch()
	_ = m.Begin(time.Now())
	if err := m.Complete("mallory", nil, nil, time.Now()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("foreign winner error = %v, want invalid state", err)
	}
	if m.Status != MatchActive {
		t.Fatalf("status = %s, match mutated on rejected complete", m.Status)
	}
}

func TestMatchCancel(t *testing.T) {
	m := newScheduledMatch()
	if err := m.Cancel(time.Now()); err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if m.Status != MatchCancelled {
		t.Fatalf("status = %s, want cancelled", m.Status)
	}
	if err := m.Cancel(time.Now()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second cancel error = %v, want invalid state", err)
	}
}

func TestMatchPlayerHelpers(t *testing.T) {
	m := newScheduledMatch()
	if !m.HasPlayer("alice") || !m.HasPlayer("bob") || m.HasPlayer("mallory") {
		t.Fatal("HasPlayer wrong for assigned/unassigned users")
	}
	if got := m.OtherPlayer("alice"); got != "bob" {
		t.Fatalf("other of alice = %s, want bob", got)
	}
	if got := m.OtherPlayer("mallory"); got != "" {
		t.Fatalf("other of mallory = %q, want empty", got)
	}
}
