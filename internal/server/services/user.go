// Package services contains server-side business logic. UserService covers
// registration, login and the caller's profile; TaskService covers the
// caller's tasks. Both are shared by the HTTP and gRPC transports.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	University string `json:"university"`
	Address    string `json:"address"`
}

// ProfileUpdate is returned by UpdateProfile. Token is set only when token
// reissue on profile update is enabled.
type ProfileUpdate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	University string `json:"university"`
	Address    string `json:"address"`
	Token      string `json:"token,omitempty"`
}

// ProfilePatch lists the profile fields to change. Nil fields are kept.
type ProfilePatch struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	University *string `json:"university,omitempty"`
	Address    *string `json:"address,omitempty"`
}

type UserService struct {
	repomanager     repomanager.RepositoryManager
	hasher          PasswordHasher
	tokens          TokenIssuer
	reissueOnUpdate bool
	logger          logging.Logger
	now             func() time.Time
	newID           func() string
}

func NewUserService(m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		repomanager:     m,
		hasher:          hasher,
		tokens:          tokens,
		reissueOnUpdate: cfg.ReissueTokenOnProfileUpdate,
		logger:          logger.With("module", "users"),
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// NormalizeEmail lowercases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns a session token for it.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	case email == "":
		return nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	case password == "":
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		_, err := repos.Users().GetUserByEmail(ctx, email)
		if err == nil {
			return ErrUserExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if _, err := repos.Users().Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return ErrUserExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return &AuthResult{ID: user.ID, Name: user.Name, Email: user.Email, Token: token}, nil
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &AuthResult{ID: user.ID, Name: user.Name, Email: user.Email, Token: token}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.repomanager.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &Profile{Name: user.Name, Email: user.Email, University: user.University, Address: user.Address}, nil
}

// UpdateProfile applies patch to the caller's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*ProfileUpdate, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrorValidation)
	}
	if patch.Email != nil && NormalizeEmail(*patch.Email) == "" {
		return nil, fmt.Errorf("%w: email must not be empty", common.ErrorValidation)
	}

	var updated *models.User
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		user, err := repos.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if patch.Name != nil {
			user.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			email := NormalizeEmail(*patch.Email)
			if email != user.Email {
				other, err := repos.Users().GetUserByEmail(ctx, email)
				switch {
				case err == nil && other.ID != user.ID:
					return ErrEmailTaken
				case err != nil && !errors.Is(err, common.ErrorNotFound):
					return err
				}
			}
			user.Email = email
		}
		if patch.University != nil {
			user.University = *patch.University
		}
		if patch.Address != nil {
			user.Address = *patch.Address
		}

		if err := repos.Users().Update(ctx, user); err != nil {
			switch {
			case errors.Is(err, common.ErrAlreadyExists):
				return ErrEmailTaken
			case errors.Is(err, common.ErrorNotFound):
				return ErrUserNotFound
			}
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &ProfileUpdate{
		ID:         updated.ID,
		Name:       updated.Name,
		Email:      updated.Email,
		University: updated.University,
		Address:    updated.Address,
	}

	if s.reissueOnUpdate {
		token, err := s.tokens.Issue(updated.ID)
		if err != nil {
			return nil, fmt.Errorf("error issuing token: %w", err)
		}
		res.Token = token
	}

	return res, nil
}
