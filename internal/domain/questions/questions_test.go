package questions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/qnahub/backend/internal/domain/questions"
	"github.com/qnahub/backend/internal/storage/memory"
)

type rejectingModerator struct {
	reason string
}

func (m rejectingModerator) ReviewQuestion(context.Context, string) (bool, string) {
	return false, m.reason
}

type fixedSimilarity struct {
	match questions.Representative
}

func (s fixedSimilarity) MostSimilar(context.Context, string) (questions.Representative, bool) {
	return s.match, true
}

func TestSubmitRawStoresPending(t *testing.T) {
	repo := memory.NewQuestionRepository()
	svc := questions.NewService(questions.Options{Repo: repo})

	raw, similar, err := svc.SubmitRaw(context.Background(), questions.SubmitInput{
		Content:  "When does the next cohort start?",
		AuthorID: "user-1",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if raw.Status != questions.RawStatusPending {
		t.Fatalf("expected pending status, got %s", raw.Status)
	}
	if similar != nil {
		t.Fatalf("expected no similar question")
	}

	pending, err := repo.ListRawByStatus(questions.RawStatusPending, 0, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending question, got %d", len(pending))
	}
}

func TestSubmitRawModerationRejection(t *testing.T) {
	repo := memory.NewQuestionRepository()
	svc := questions.NewService(questions.Options{
		Repo:      repo,
		Moderator: rejectingModerator{reason: "off topic"},
	})

	_, _, err := svc.SubmitRaw(context.Background(), questions.SubmitInput{
		Content:  "something unrelated",
		AuthorID: "user-1",
	})
	if !errors.Is(err, questions.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}

	var rejection *questions.RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected RejectionError, got %T", err)
	}
	if rejection.Reason != "off topic" {
		t.Fatalf("expected reason carried through, got %q", rejection.Reason)
	}

	pending, err := repo.ListRawByStatus(questions.RawStatusPending, 0, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("rejected question must not be stored, got %d pending", len(pending))
	}
}

func TestSubmitRawReturnsSimilarQuestion(t *testing.T) {
	repo := memory.NewQuestionRepository()

	rep, err := repo.SaveRepresentative(questions.Representative{
		Title:  "When does the next cohort start?",
		Status: questions.RepStatusOpen,
	})
	if err != nil {
		t.Fatalf("save representative failed: %v", err)
	}

	svc := questions.NewService(questions.Options{
		Repo:       repo,
		Similarity: fixedSimilarity{match: rep},
	})

	_, similar, err := svc.SubmitRaw(context.Background(), questions.SubmitInput{
		Content:  "next cohort start date?",
		AuthorID: "user-1",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if similar == nil {
		t.Fatalf("expected similar question match")
	}
	if similar.ID != rep.ID {
		t.Fatalf("expected match %s, got %s", rep.ID, similar.ID)
	}
}

func TestSubmitRawValidation(t *testing.T) {
	svc := questions.NewService(questions.Options{Repo: memory.NewQuestionRepository()})

	if _, _, err := svc.SubmitRaw(context.Background(), questions.SubmitInput{AuthorID: "u"}); err == nil {
		t.Fatalf("expected error for empty content")
	}
	if _, _, err := svc.SubmitRaw(context.Background(), questions.SubmitInput{Content: "c"}); err == nil {
		t.Fatalf("expected error for empty author")
	}
}

func TestMarkAnsweredFlipsStatus(t *testing.T) {
	repo := memory.NewQuestionRepository()

	rep, err := repo.SaveRepresentative(questions.Representative{
		Title:  "Is there a mobile app?",
		Status: questions.RepStatusOpen,
	})
	if err != nil {
		t.Fatalf("save representative failed: %v", err)
	}

	if err := repo.MarkAnswered(rep.ID); err != nil {
		t.Fatalf("mark answered failed: %v", err)
	}

	got, err := repo.FindRepresentativeByID(rep.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.Status != questions.RepStatusAnswered {
		t.Fatalf("expected answered status, got %s", got.Status)
	}
}

func TestAdjustVotesClampsAtZero(t *testing.T) {
	repo := memory.NewQuestionRepository()

	rep, err := repo.SaveRepresentative(questions.Representative{Title: "t", Status: questions.RepStatusOpen})
	if err != nil {
		t.Fatalf("save representative failed: %v", err)
	}

	total, err := repo.AdjustVotes(rep.ID, -3)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected clamp at zero, got %d", total)
	}

	total, err = repo.AdjustVotes(rep.ID, 2)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}
}
