package service

import (
	"context"
	"errors"
	"fmt"

	"mini-mercado/internal/auth"
	"mini-mercado/internal/mailer"
	"mini-mercado/internal/model"
	"mini-mercado/internal/repository"

	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.Tokens
	mailer   mailer.Mailer
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.Tokens, mail mailer.Mailer, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mail,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates an account and returns its public view.
func (s *authService) Register(ctx context.Context, email, password string) (*model.UserResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(callCtx, email, hash)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			s.logger.Debug().Str("email", email).Msg("registration rejected, email taken")
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, storeErr(fmt.Errorf("failed to create user: %w", err))
	}

	// Welcome email is fire-and-forget; the registration response
	// never waits on it.
	s.mailer.EnqueueWelcome(user.Email)

	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")

	return &model.UserResponse{ID: user.ID, Email: user.Email}, nil
}

// Login verifies credentials and issues a bearer token. An unknown
// email and a wrong password produce the same error so login cannot be
// used to probe which addresses are registered.
func (s *authService) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.userRepo.FindByEmail(callCtx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to look up user")
		return nil, storeErr(fmt.Errorf("failed to look up user: %w", err))
	}

	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Debug().Str("email", email).Msg("login rejected")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")

	return &model.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}
