package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"table-ordering/order-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	uniqueViolation   = "23505"
)

// PostgresIdentity stores bcrypt password hashes in the credentials table.
type PostgresIdentity struct {
	DB   *sql.DB
	Cost int
}

func NewPostgresIdentity(db *sql.DB) *PostgresIdentity {
	return &PostgresIdentity{DB: db, Cost: bcrypt.DefaultCost}
}

func (p *PostgresIdentity) SignUp(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("empty email: %w", domain.ErrInvalidCredentials)
	}
	if len(password) < minPasswordLength {
		return "", domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	userID := uuid.NewString()
	_, err = p.DB.ExecContext(ctx,
		"INSERT INTO credentials (user_id, email, password_hash) VALUES ($1, $2, $3)",
		userID, email, hash)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return "", fmt.Errorf("%s: %w", email, domain.ErrEmailTaken)
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (p *PostgresIdentity) SignIn(ctx context.Context, email, password string) (string, error) {
	var (
		userID string
		hash   []byte
	)
	err := p.DB.QueryRowContext(ctx,
		"SELECT user_id, password_hash FROM credentials WHERE email = $1",
		normalizeEmail(email)).Scan(&userID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return userID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
