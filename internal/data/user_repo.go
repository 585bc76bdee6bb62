package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/isaacgyampoh/recipe-saver/internal/data/pgxutil"
	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
)

// UserRepo provides database operations for user accounts.
type UserRepo struct {
	DB    *sql.DB
	clock Clock
}

// NewUserRepo creates a new UserRepo backed by the system clock.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, clock: SystemClock{}}
}

// NewUserRepoWithClock creates a new UserRepo with a custom clock (useful for tests).
func NewUserRepoWithClock(db *sql.DB, clock Clock) *UserRepo {
	return &UserRepo{DB: db, clock: clock}
}

// Create inserts a new user. A duplicate email yields ErrEmailExists.
func (r *UserRepo) Create(
	ctx context.Context,
	email, passwordHash, displayName string,
) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}

	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (email, password_hash, display_name, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+userColumnList,
			email, passwordHash, displayName, r.clock.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &out, nil
}

// GetByEmail retrieves a user by email. Lookup is case-insensitive.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getByQuery(ctx, userGetByEmailQuery, "failed to get user by email", email)
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByIDQuery, "failed to get user by ID", id)
}

const userColumnList = `id, email, password_hash, display_name, created_at`

const (
	userGetByEmailQuery = `
		SELECT ` + userColumnList + `
		FROM users
		WHERE email = $1`

	userGetByIDQuery = `
		SELECT ` + userColumnList + `
		FROM users
		WHERE id = $1`
)

func (r *UserRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &user, nil
}
