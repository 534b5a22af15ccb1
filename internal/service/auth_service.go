package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/store-rating-api/internal/domain"
	"github.com/phrazzld/store-rating-api/internal/platform/logger"
	"github.com/phrazzld/store-rating-api/internal/service/auth"
	"github.com/phrazzld/store-rating-api/internal/store"
)

// SignupInput is a self-registration request.
type SignupInput struct {
	Name     string
	Email    string
	Address  string
	Password string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService provides account registration, login and password changes.
type AuthService interface {
	// Signup registers a NORMAL_USER and returns a token for it.
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)

	// Login verifies the credentials and returns a fresh token.
	// Any mismatch returns ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// ChangePassword replaces the user's password after checking the old one.
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	tx         store.Transactor
	userStore  store.UserStore
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	jwtService auth.JWTService
	logger     *slog.Logger

	// Unknown emails are compared against decoyHash so every login runs one
	// password comparison.
	decoyOnce sync.Once
	decoyHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(
	tx store.Transactor,
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	logger *slog.Logger,
) *AuthServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		tx:         tx,
		userStore:  userStore,
		hasher:     hasher,
		verifier:   verifier,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_service")),
	}
}

// Signup validates the profile and password, stores the user and issues a token.
func (s *AuthServiceImpl) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	user, err := domain.NewUser(in.Name, in.Email, in.Address, domain.RoleNormalUser)
	if err != nil {
		return nil, err
	}

	user.HashedPassword, err = s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		if err := ensureEmailAvailable(ctx, users, user.Email); err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("signup with existing email", slog.String("email", user.Email))
		} else {
			log.Error("failed to create user", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	token, err := s.jwtService.GenerateToken(ctx, user)
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	return &AuthResult{Token: token, User: user}, nil
}

// Login looks the user up by email and compares the password hash.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			_ = s.verifier.Compare(s.decoy(), password)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("stored password hash is unusable",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user)
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &AuthResult{Token: token, User: user}, nil
}

// decoy returns a hash of a random secret made with the configured hasher, so
// it has the same cost as the stored hashes.
func (s *AuthServiceImpl) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.logger.Error("failed to build decoy password hash", slog.String("error", err.Error()))
			return
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}

// ChangePassword checks the new password against the policy, verifies the old
// one and stores the new hash.
func (s *AuthServiceImpl) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	oldPassword, newPassword string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePassword(newPassword); err != nil {
		return domain.NewValidationError("newPassword", domain.NewPasswordPolicyMessage, domain.ErrInvalidPassword)
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if err := s.verifier.Compare(user.HashedPassword, oldPassword); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return ErrIncorrectPassword
			}
			return fmt.Errorf("failed to verify old password: %w", err)
		}

		if err := setPassword(s.hasher, user, newPassword); err != nil {
			return err
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		if !errors.Is(err, ErrIncorrectPassword) && !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to change password",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return fmt.Errorf("failed to change password: %w", err)
	}

	log.Info("password changed", slog.String("user_id", userID.String()))
	return nil
}

// ensureEmailAvailable returns store.ErrEmailExists when email is taken.
func ensureEmailAvailable(ctx context.Context, users store.UserStore, email string) error {
	_, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return store.ErrEmailExists
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}

// setPassword stores the hash of password on user.
func setPassword(hasher auth.PasswordHasher, user *domain.User, password string) error {
	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	return nil
}
