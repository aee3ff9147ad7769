package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// Store errors. The store translates driver-level conditions into these so
// the service layer never inspects pg error codes itself.
var (
	// ErrDuplicateUsername is returned when an insert loses the uniqueness
	// race on username; the DB constraint is the authoritative arbiter.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
)

// UserStore is the persistence interface the auth service depends on.
// The production implementation runs over a pgx pool; tests substitute an
// in-memory fake.
type UserStore interface {
	// CreateUser inserts the user and returns it with ID and CreatedAt
	// populated. Returns ErrDuplicateUsername on a username collision.
	CreateUser(ctx context.Context, user *User) (*User, error)
	// GetUserByUsername returns the user with the given username, or
	// ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// GetUserByID returns the user with the given id, or ErrUserNotFound.
	GetUserByID(ctx context.Context, id int) (*User, error)
	// ListUsers returns users ordered by id, skipping skip rows and
	// returning at most limit.
	ListUsers(ctx context.Context, skip, limit int) ([]User, error)
}

// PostgresUserStore implements UserStore over a pgx connection pool.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore.
func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (username, password, role)
              VALUES ($1, $2, $3)
              RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query, user.Username, user.HashedPassword, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation &&
			strings.Contains(pgErr.ConstraintName, "username") {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

func (s *PostgresUserStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `SELECT id, username, password, role, created_at
              FROM users WHERE username = $1`
	err := s.db.QueryRow(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.HashedPassword, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresUserStore) GetUserByID(ctx context.Context, id int) (*User, error) {
	var user User
	query := `SELECT id, username, password, role, created_at
              FROM users WHERE id = $1`
	err := s.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.HashedPassword, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresUserStore) ListUsers(ctx context.Context, skip, limit int) ([]User, error) {
	query := `SELECT id, username, password, role, created_at
              FROM users ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := s.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.HashedPassword, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
