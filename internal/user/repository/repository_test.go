package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/pashagolub/pgxmock"

	"github.com/AlibekovAA/storefront/internal/common/db"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/user/domain"
)

var userRowColumns = []string{"id", "username", "email", "password_hash", "language", "token", "created_at", "updated_at"}

func newPgTestRepo(t *testing.T) (*PgRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	log, _ := logger.New("", "test", "error")
	repo := NewPgRepository(mock, log)
	repo.retry = db.RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 2}
	return repo, mock
}

func expectationsMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPgRepository_CreateReturnsStoredRow(t *testing.T) {
	repo, mock := newPgTestRepo(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("buyer", "a@example.com", "hash", "es", "token-1").
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u-1", "buyer", "a@example.com", "hash", "es", "token-1", created, created))

	user, err := repo.Create(context.Background(), newUser("a@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := domain.User{
		ID:           "u-1",
		Username:     "buyer",
		Email:        "a@example.com",
		PasswordHash: "hash",
		Language:     "es",
		Token:        "token-1",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if user != want {
		t.Errorf("expected %+v, got %+v", want, user)
	}
	expectationsMet(t, mock)
}

func TestPgRepository_CreateDuplicateEmail(t *testing.T) {
	repo, mock := newPgTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), newUser("a@example.com"))
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestPgRepository_CreateOtherUniqueViolation(t *testing.T) {
	repo, mock := newPgTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})

	_, err := repo.Create(context.Background(), newUser("a@example.com"))
	if err == nil || errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestPgRepository_FindIDByEmail(t *testing.T) {
	repo, mock := newPgTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id::text FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("u-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id::text FROM users WHERE email = $1")).
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	id, err := repo.FindIDByEmail(context.Background(), "a@example.com")
	if err != nil || id != "u-1" {
		t.Fatalf("expected u-1, got %q, %v", id, err)
	}
	if _, err := repo.FindIDByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestPgRepository_FindByEmailRetriesTransientError(t *testing.T) {
	repo, mock := newPgTestRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u-1", "buyer", "a@example.com", "hash", "es", "token-1", now, now))

	user, err := repo.FindByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user.ID != "u-1" || user.PasswordHash != "hash" {
		t.Errorf("unexpected user %+v", user)
	}
	expectationsMet(t, mock)
}

func TestPgRepository_UpdateToken(t *testing.T) {
	repo, mock := newPgTestRepo(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET token = $2")).
		WithArgs("u-1", "token-2").
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u-1", "buyer", "a@example.com", "hash", "es", "token-2", created, updated))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET token = $2")).
		WithArgs("u-2", "token-3").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.UpdateToken(context.Background(), "u-1", "token-2")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.Token != "token-2" || !user.UpdatedAt.Equal(updated) {
		t.Errorf("expected refreshed row, got %+v", user)
	}
	if _, err := repo.UpdateToken(context.Background(), "u-2", "token-3"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestPgRepository_List(t *testing.T) {
	repo, mock := newPgTestRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC")).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u-1", "a", "a@example.com", "h1", "es", "t1", now, now).
			AddRow("u-2", "b", "b@example.com", "h2", "en", "t2", now.Add(time.Minute), now.Add(time.Minute)))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].ID != "u-1" || users[1].Language != "en" {
		t.Errorf("unexpected users %+v", users)
	}
	expectationsMet(t, mock)
}

func TestPgRepository_ListError(t *testing.T) {
	repo, mock := newPgTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY")).WillReturnError(errors.New("connection reset"))

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	expectationsMet(t, mock)
}
