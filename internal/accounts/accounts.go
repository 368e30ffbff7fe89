// Package accounts handles user registration and password login.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"placefeed/internal/session"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("invalid registration data")
)

type User struct {
	ID           string
	Email        string
	Name         string
	Surname      string
	PasswordHash string
	Role         string
}

// Handle derives the public handle shown next to a user: the email local
// part, lowercased.
func (u User) Handle() string {
	local, _, _ := strings.Cut(u.Email, "@")
	return strings.ToLower(local)
}

// Session builds the session record for a logged-in user.
func (u User) Session() session.Session {
	return session.Session{
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Surname: u.Surname,
		Role:    u.Role,
		Handle:  u.Handle(),
	}
}

// Store is the persistence interface for user records.
type Store interface {
	// Create inserts a new user; a duplicate email yields ErrEmailTaken.
	Create(ctx context.Context, u User) error
	ByEmail(ctx context.Context, email string) (User, bool, error)
}

// Service wraps a Store with registration and login rules.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register validates the fields, hashes the password and stores the user.
// Surname is optional; role must be "user" or "company".
func (s *Service) Register(ctx context.Context, email, name, surname, password, role string) (User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return User{}, fmt.Errorf("%w: email, name and password are required", ErrValidation)
	}
	if role != session.RoleUser && role != session.RoleCompany {
		return User{}, fmt.Errorf("%w: role must be %q or %q", ErrValidation, session.RoleUser, session.RoleCompany)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Surname:      strings.TrimSpace(surname),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate verifies the password for an email. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, ok, err := s.store.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
