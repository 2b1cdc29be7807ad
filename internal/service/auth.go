package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tasktrack/tasktrack-go/internal/crypto"
	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/repository"
)

// Login failure reasons are kept distinct so clients can tell an unknown
// account from a wrong password.
var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUnknownOwner    = errors.New("token owner no longer exists")
)

// UserStore is the credential store the auth service reads and writes.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Hasher produces the stored form of a new password.
type Hasher interface {
	Hash(password string) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	users     UserStore
	hasher    Hasher
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher Hasher, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register hashes the password and stores a new user, returning the insert
// acknowledgment.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.WriteResult, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.WriteResult{}, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.WriteResult{}, fmt.Errorf("creating user: %w", err)
	}

	return model.WriteResult{InsertID: user.ID, AffectedRows: 1}, nil
}

// Login verifies the credentials and mints a session token bound to the
// user's id.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.LoginResponse{}, ErrInvalidEmail
		}
		return model.LoginResponse{}, fmt.Errorf("looking up user: %w", err)
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return model.LoginResponse{}, ErrInvalidPassword
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("signing token: %w", err)
	}

	return model.LoginResponse{Token: token, Email: user.Email}, nil
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUnknownOwner
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}, nil
}
