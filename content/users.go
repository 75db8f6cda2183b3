package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned by Authenticate for an unknown user or a
// wrong password. The two cases are deliberately indistinguishable.
var ErrBadCredentials = errors.New("content: invalid username or password")

// CreateUser provisions an admin user with a bcrypt hash of password.
func (s *Store) CreateUser(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, string(hash), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// SetPassword replaces the password hash of an existing user.
func (s *Store) SetPassword(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE username = ?`, string(hash), username)
	if err != nil {
		return err
	}
	return affected(res)
}

// GetUser returns a user by username.
func (s *Store) GetUser(ctx context.Context, username string) (User, error) {
	var (
		u       User
		created string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if err != nil {
		return User{}, notFound(err)
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

// Authenticate checks username and password against the stored hash.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.GetUser(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

// EnsureAdmin creates the admin user when no user exists yet. It reports
// whether a user was created.
func (s *Store) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	n, err := s.Count(ctx, "users")
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := s.CreateUser(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}
