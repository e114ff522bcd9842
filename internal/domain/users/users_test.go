package users_test

import (
	"errors"
	"testing"

	"github.com/qnahub/backend/internal/domain/users"
	memstore "github.com/qnahub/backend/internal/storage/memory"
)

func TestServiceRegisterAndAuthenticate(t *testing.T) {
	repo := memstore.NewUserRepository()
	svc := users.NewService(repo)

	user, err := svc.Register(users.RegisterInput{
		Email:    "test@example.com",
		Name:     "Test User",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected ID to be set")
	}
	if user.PasswordHash == "" || user.PasswordSalt == "" {
		t.Fatalf("expected password hash and salt")
	}
	if user.Role != users.RoleMember {
		t.Fatalf("expected default member role, got %s", user.Role)
	}

	authed, err := svc.Authenticate("test@example.com", "supersecret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected same user ID")
	}

	if _, err := svc.Authenticate("test@example.com", "wrong"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
}

func TestServiceRegisterStaffRole(t *testing.T) {
	svc := users.NewService(memstore.NewUserRepository())

	user, err := svc.Register(users.RegisterInput{
		Email:    "staff@example.com",
		Password: "supersecret",
		Role:     users.RoleStaff,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !user.IsStaff() {
		t.Fatalf("expected staff user")
	}

	if _, err := svc.Register(users.RegisterInput{
		Email:    "other@example.com",
		Password: "supersecret",
		Role:     "admin",
	}); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	svc := users.NewService(memstore.NewUserRepository())

	if _, err := svc.Register(users.RegisterInput{Email: "dup@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := svc.Register(users.RegisterInput{Email: "dup@example.com", Password: "supersecret"})
	if !errors.Is(err, users.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}
