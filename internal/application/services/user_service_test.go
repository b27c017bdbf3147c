package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/todolive/core/internal/domain/entities"
	"github.com/todolive/core/internal/infrastructure/config"
	"github.com/todolive/core/internal/infrastructure/logger"
	"github.com/todolive/core/internal/ports"
)

// fakeUserRepo is an in-memory ports.UserRepository
type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return entities.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, logger.NewNop())

	user, err := svc.CreateUser(context.Background(), ports.CreateUserRequest{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.PasswordHash == "correct horse" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	if !user.IsActive {
		t.Error("new account not active")
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, logger.NewNop())
	ctx := context.Background()

	req := ports.CreateUserRequest{Email: "ada@example.com", Name: "Ada", Password: "correct horse"}
	if _, err := svc.CreateUser(ctx, req); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	if _, err := svc.CreateUser(ctx, req); !errors.Is(err, entities.ErrEmailTaken) {
		t.Errorf("duplicate err = %v, want ErrEmailTaken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, logger.NewNop())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, ports.CreateUserRequest{
		Email: "ada@example.com", Name: "Ada", Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	user, err := svc.Authenticate(ctx, "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != created.ID {
		t.Error("authenticated a different user")
	}

	if _, err := svc.Authenticate(ctx, "ada@example.com", "wrong"); !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "x"); !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}

	created.IsActive = false
	if _, err := svc.Authenticate(ctx, "ada@example.com", "correct horse"); !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Errorf("inactive account err = %v, want ErrInvalidCredentials", err)
	}
}

func TestIssueAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(config.JWTConfig{
		Secret:    "test-secret",
		ExpiresIn: time.Hour,
		Issuer:    "todolive-test",
	}, logger.NewNop())

	user := &entities.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}

	token, err := svc.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims user = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Email != user.Email || claims.Name != user.Name {
		t.Errorf("claims = %+v, want email/name echoed", claims)
	}

	if _, err := svc.ValidateToken("garbage"); err == nil {
		t.Error("expected error for malformed token")
	}

	other := NewAuthService(config.JWTConfig{Secret: "other-secret", ExpiresIn: time.Hour, Issuer: "x"}, logger.NewNop())
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(config.JWTConfig{
		Secret:    "test-secret",
		ExpiresIn: -time.Minute,
		Issuer:    "todolive-test",
	}, logger.NewNop())

	token, err := svc.IssueToken(&entities.User{ID: uuid.New(), Email: "a@b.c", Name: "A"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}
