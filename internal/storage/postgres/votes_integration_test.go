//go:build integration

package postgres_test

import (
	"errors"
	"testing"

	"github.com/qnahub/backend/internal/domain/questions"
	"github.com/qnahub/backend/internal/domain/votes"
	pgstorage "github.com/qnahub/backend/internal/storage/postgres"
)

func TestVoteRepositoryIntegration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	questionRepo := pgstorage.NewQuestionRepository(db)
	voteRepo := pgstorage.NewVoteRepository(db)

	rep, err := questionRepo.SaveRepresentative(questions.Representative{
		Title:  "vote target",
		Status: questions.RepStatusOpen,
	})
	if err != nil {
		t.Fatalf("save representative failed: %v", err)
	}

	vote := votes.Vote{SessionID: "sess-1", Kind: votes.KindQuestion, TargetID: rep.ID}
	if err := voteRepo.Create(vote); err != nil {
		t.Fatalf("create vote failed: %v", err)
	}

	// The primary key dedupes repeated likes from the same session.
	if err := voteRepo.Create(vote); !errors.Is(err, votes.ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}

	exists, err := voteRepo.Exists("sess-1", votes.KindQuestion, rep.ID)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected vote to exist")
	}

	if err := voteRepo.Delete("sess-1", votes.KindQuestion, rep.ID); err != nil {
		t.Fatalf("delete vote failed: %v", err)
	}
	if err := voteRepo.Delete("sess-1", votes.KindQuestion, rep.ID); !errors.Is(err, votes.ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}
}
