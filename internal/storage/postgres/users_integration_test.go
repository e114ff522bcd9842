//go:build integration

package postgres_test

import (
	"errors"
	"testing"

	"github.com/qnahub/backend/internal/domain/users"
	pgstorage "github.com/qnahub/backend/internal/storage/postgres"
)

func TestUserRepositoryIntegration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := pgstorage.NewUserRepository(db)

	saved, err := repo.Save(users.User{
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "hash",
		PasswordSalt: "salt",
	})
	if err != nil {
		t.Fatalf("save user failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected generated id")
	}
	if saved.Role != users.RoleMember {
		t.Fatalf("expected default member role, got %q", saved.Role)
	}

	found, err := repo.FindByEmail("Alice@Example.com")
	if err != nil {
		t.Fatalf("find by email failed: %v", err)
	}
	if found.ID != saved.ID {
		t.Fatalf("expected id %q, got %q", saved.ID, found.ID)
	}
}

func TestUserRepositoryDuplicateEmailIntegration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := pgstorage.NewUserRepository(db)

	user := users.User{
		Email:        "bob@example.com",
		Name:         "Bob",
		PasswordHash: "hash",
		PasswordSalt: "salt",
	}
	if _, err := repo.Save(user); err != nil {
		t.Fatalf("save user failed: %v", err)
	}

	// A second insert races past the service-level lookup straight into the
	// users.email unique index, so the repository has to translate it.
	if _, err := repo.Save(user); !errors.Is(err, users.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}
