package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/storefront/internal/common/db"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/user/domain"
)

var (
	// ErrUserNotFound is returned when no row matches; callers branch on it
	// instead of inspecting driver error codes.
	ErrUserNotFound = errors.New("user not found")

	ErrEmailAlreadyExists = errors.New("email already exists")
)

const (
	usersTable      = "users"
	emailConstraint = "users_email_key"
	userColumns     = `id::text, username, email, password_hash, language, token, created_at, updated_at`
)

type Repository interface {
	FindIDByEmail(ctx context.Context, email string) (domain.ID, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdateToken(ctx context.Context, id domain.ID, token string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// Querier is the subset of *pgxpool.Pool the repository uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PgRepository struct {
	pool  Querier
	log   *logger.Logger
	retry db.RetryConfig
}

func NewPgRepository(pool Querier, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log, retry: db.DefaultRetryConfig}
}

func (r *PgRepository) FindIDByEmail(ctx context.Context, email string) (domain.ID, error) {
	start := time.Now()
	var id string
	err := db.RetryWithBackoff(ctx, r.log, "find user id by email", r.retry, func() error {
		return r.pool.QueryRow(ctx, `SELECT id::text FROM users WHERE email = $1`, email).Scan(&id)
	})
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user id by email", usersTable, start); err != nil {
		return "", err
	}
	return domain.ID(id), nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	var user domain.User
	err := db.RetryWithBackoff(ctx, r.log, "find user by email", r.retry, func() error {
		row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
		return scanUser(row, &user)
	})
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by email", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Create inserts the user and returns the stored row. The unique index on
// email makes concurrent registrations for one address fail with
// ErrEmailAlreadyExists for all but the first.
func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (username, email, password_hash, language, token)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Language,
		user.Token,
	)

	var created domain.User
	err := scanUser(row, &created)
	if db.IsUniqueViolation(err, emailConstraint) {
		db.MeasureQueryDuration("create user", usersTable, start)
		return domain.User{}, ErrEmailAlreadyExists
	}
	if err := db.HandleExecError(err, "create user", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return created, nil
}

func (r *PgRepository) UpdateToken(ctx context.Context, id domain.ID, token string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE users SET token = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		string(id),
		token,
	)

	var updated domain.User
	err := scanUser(row, &updated)
	if err := db.HandleQueryError(err, ErrUserNotFound, "update user token", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	var users []domain.User
	err := db.RetryWithBackoff(ctx, r.log, "list users", r.retry, func() error {
		users = users[:0]
		rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u domain.User
			if err := scanUser(rows, &u); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err := db.HandleQueryError(err, nil, "list users", usersTable, start); err != nil {
		return nil, err
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, user *domain.User) error {
	var id string
	err := row.Scan(
		&id,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Language,
		&user.Token,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	user.ID = domain.ID(id)
	return nil
}
