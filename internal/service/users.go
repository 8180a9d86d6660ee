package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/pkg/common"
)

// ErrBadCredentials is returned by Authenticate for a wrong username or
// password; callers must not be able to tell the two apart.
var ErrBadCredentials = errors.New("invalid username or password")

// UserService manages console accounts.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// Create registers an account with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, realname, email, username, rawPassword, level string) (*domain.SysUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", store.ErrInvalidValue)
	}
	if len(rawPassword) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", store.ErrInvalidValue)
	}
	if level != "admin" {
		level = "user"
	}

	existing, err := s.store.FindUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %s already taken: %w", username, store.ErrDuplicateKey)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.SysUser{
		Realname: strings.TrimSpace(realname),
		Email:    strings.TrimSpace(email),
		Username: username,
		Password: string(hash),
		Level:    level,
		Status:   common.ENABLED,
	}
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the credentials and stamps the last login time.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.SysUser, error) {
	u, err := s.store.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if u.Status != common.ENABLED {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	u.LastLogin = time.Now()
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.SysUser, error) {
	return s.store.GetUser(ctx, id)
}
