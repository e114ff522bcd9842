//go:build integration

package postgres_test

import (
	"testing"

	"github.com/qnahub/backend/internal/domain/questions"
	pgstorage "github.com/qnahub/backend/internal/storage/postgres"
)

func TestQuestionRepositoryIntegration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := pgstorage.NewQuestionRepository(db)

	raw, err := repo.SaveRaw(questions.RawQuestion{Content: "integration question", AuthorID: "user-1"})
	if err != nil {
		t.Fatalf("save raw failed: %v", err)
	}
	if raw.ID == "" {
		t.Fatalf("expected generated raw id")
	}

	pending, err := repo.ListRawByStatus(questions.RawStatusPending, 0, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending raw, got %d", len(pending))
	}

	rep, err := repo.SaveRepresentative(questions.Representative{
		Title:              "integration representative",
		RelatedQuestionIDs: []string{raw.ID},
		Status:             questions.RepStatusOpen,
	})
	if err != nil {
		t.Fatalf("save representative failed: %v", err)
	}

	fetched, err := repo.FindRepresentativeByID(rep.ID)
	if err != nil {
		t.Fatalf("find representative failed: %v", err)
	}
	if len(fetched.RelatedQuestionIDs) != 1 || fetched.RelatedQuestionIDs[0] != raw.ID {
		t.Fatalf("expected source link to %s, got %v", raw.ID, fetched.RelatedQuestionIDs)
	}

	if err := repo.UpdateRawStatus([]string{raw.ID}, questions.RawStatusProcessed); err != nil {
		t.Fatalf("update raw status failed: %v", err)
	}
	pending, err = repo.ListRawByStatus(questions.RawStatusPending, 0, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending raws, got %d", len(pending))
	}

	if err := repo.MarkAnswered(rep.ID); err != nil {
		t.Fatalf("mark answered failed: %v", err)
	}
	fetched, err = repo.FindRepresentativeByID(rep.ID)
	if err != nil {
		t.Fatalf("find representative failed: %v", err)
	}
	if fetched.Status != questions.RepStatusAnswered {
		t.Fatalf("expected answered status, got %s", fetched.Status)
	}

	total, err := repo.AdjustVotes(rep.ID, -1)
	if err != nil {
		t.Fatalf("adjust votes failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected clamp at zero, got %d", total)
	}
}
