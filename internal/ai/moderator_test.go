package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/qnahub/backend/internal/ai"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (g *fakeGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, g.err
}

func TestModeratorAcceptsFitVerdict(t *testing.T) {
	m := ai.NewModerator(&fakeGenerator{reply: "fit"}, nil)

	ok, reason := m.ReviewQuestion(context.Background(), "When does enrollment open?")
	if !ok {
		t.Fatalf("expected acceptance, got rejection with reason %q", reason)
	}
}

func TestModeratorRejectsUnfitWithReason(t *testing.T) {
	m := ai.NewModerator(&fakeGenerator{reply: "unfit. This is a bare emotional statement."}, nil)

	ok, reason := m.ReviewQuestion(context.Background(), "nice")
	if ok {
		t.Fatalf("expected rejection")
	}
	if reason != "This is a bare emotional statement." {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestModeratorFailsOpenOnError(t *testing.T) {
	m := ai.NewModerator(&fakeGenerator{err: errors.New("timeout")}, nil)

	if ok, _ := m.ReviewQuestion(context.Background(), "anything"); !ok {
		t.Fatalf("moderation outage must not block submissions")
	}
}

func TestModeratorFailsOpenOnOffScriptVerdict(t *testing.T) {
	m := ai.NewModerator(&fakeGenerator{reply: "I cannot decide."}, nil)

	if ok, _ := m.ReviewQuestion(context.Background(), "anything"); !ok {
		t.Fatalf("unrecognized verdict must not block submissions")
	}
}
