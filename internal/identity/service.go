package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"luct/reporting/internal/crypto"
	"luct/reporting/internal/model"
	"luct/reporting/internal/repository"
)

var (
	ErrMissingFields      = errors.New("username and password are required")
	ErrPasswordTooLong    = crypto.ErrPasswordTooLong
	ErrDuplicate          = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
}

type TokenIssuer interface {
	Issue(user model.User) (string, error)
}

// Service owns the register and login flows against the credential store.
type Service struct {
	users           UserStore
	tokens          TokenIssuer
	issueOnRegister bool
	logger          *zap.Logger
}

func NewService(users UserStore, tokens TokenIssuer, issueOnRegister bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:           users,
		tokens:          tokens,
		issueOnRegister: issueOnRegister,
		logger:          logger.Named("identity"),
	}
}

type RegisterInput struct {
	Username string
	Password string
	FullName string
	Role     string
}

type Result struct {
	User  model.User
	Token string
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	username := NormalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return Result{}, ErrMissingFields
	}
	if len(in.Password) > crypto.MaxPasswordBytes {
		return Result{}, ErrPasswordTooLong
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return Result{}, ErrDuplicate
	case !errors.Is(err, repository.ErrNotFound):
		return Result{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         model.RoleOrDefault(in.Role),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Result{}, ErrDuplicate
		}
		return Result{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))

	result := Result{User: user}
	if s.issueOnRegister {
		token, err := s.tokens.Issue(user)
		if err != nil {
			return Result{}, fmt.Errorf("issue token: %w", err)
		}
		result.Token = token
	}
	return result, nil
}

// Login never reveals whether the username exists: both rejection paths
// return ErrInvalidCredentials after a bcrypt comparison.
func (s *Service) Login(ctx context.Context, username, password string) (Result, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return Result{}, ErrMissingFields
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			crypto.EqualizeTiming(password)
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := crypto.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return Result{}, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return Result{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return Result{}, fmt.Errorf("issue token: %w", err)
	}
	return Result{User: user, Token: token}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}
