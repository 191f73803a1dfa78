package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yukikurage/zen-task-api/internal/auth"
	"github.com/yukikurage/zen-task-api/internal/models"
	"github.com/yukikurage/zen-task-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already in use")
	ErrEmailTaken           = errors.New("email already in use")
	ErrUserConflict         = errors.New("username or email already in use")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidInput         = errors.New("username and password are required")
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrAdminRequired        = errors.New("only administrators can perform this action")
)

// AuthService handles registration, login and token-based identity.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is the authenticated user and a freshly issued token.
type LoginResult struct {
	User  *models.User
	Token *auth.Token
}

// Register creates a regular user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.register(ctx, input, models.NewUser)
}

// CreateAdmin creates a user with the ADMIN role.
func (s *AuthService) CreateAdmin(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.register(ctx, input, models.NewAdmin)
}

type userFactory func(p models.NewUserParams, hasher models.PasswordHasher) (*models.User, error)

func (s *AuthService) register(ctx context.Context, input RegisterInput, factory userFactory) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	user, err := factory(models.NewUserParams{
		Username: username,
		Email:    email,
		Password: input.Password,
	}, s.hasher)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserConflict
		}
		s.logger.Error().
			Err(err).
			Str("username", username).
			Msg("failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user registered")
	return user, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
	}

	if username != "" {
		if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
	}

	return nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := s.hasher.Matches(input.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID.String()).
			Msg("failed to verify password")
		return nil, ErrAuthenticationFailed
	}
	if !ok {
		return nil, ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID.String()).
			Msg("failed to issue token")
		return nil, err
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Authenticate resolves a token to a principal. The user is reloaded so that
// a token outliving its account is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbiddenAccess
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return principalOf(user), nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateRole changes a user's role. Only administrators may call it.
func (s *AuthService) UpdateRole(ctx context.Context, actor *Principal, userID uuid.UUID, role models.Role) (*models.User, error) {
	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID.String()).
			Msg("failed to update role")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(role)).
		Str("by", actor.UserID.String()).
		Msg("user role changed")
	return user, nil
}
