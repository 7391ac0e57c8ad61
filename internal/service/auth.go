package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/model"
)

// notifyTimeout bounds the detached best-effort notification send.
const notifyTimeout = 30 * time.Second

// Auth composes the account store, verification token store, password hasher,
// session issuer and notifier into the registration, email verification and
// sign-in operations.
type Auth struct {
	users    model.UserStore
	tokens   model.VerificationTokenStore
	hasher   model.PasswordHasher
	sessions model.TokenManager
	notifier model.Notifier
	tokenTTL time.Duration
	logger   *logger.Logger
}

// NewAuth constructs an Auth service. tokenTTL is the fixed lifetime of
// issued email verification tokens.
func NewAuth(
	users model.UserStore,
	tokens model.VerificationTokenStore,
	hasher model.PasswordHasher,
	sessions model.TokenManager,
	notifier model.Notifier,
	tokenTTL time.Duration,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		sessions: sessions,
		notifier: notifier,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// RegisterParams is validated registration input.
type RegisterParams struct {
	FullName string
	Email    string
	Password string
}

// LoginParams is validated sign-in input.
type LoginParams struct {
	Email    string
	Password string
}

// Register hashes the password, creates the account and issues an email
// verification token which is dispatched to the notifier. The hash happens
// before the single insert, so a failure at any point leaves either no
// account or a complete one, never a partial state.
//
// Returns model.ErrEmailTaken when an account with the same email exists.
// Notification delivery is fire-and-forget and never fails the registration.
func (a *Auth) Register(ctx context.Context, params RegisterParams) error {
	email := normalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting registration", "email", email)

	passwordHash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		FullName:     params.FullName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	if _, err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			a.logger.Info("Auth service: email already taken", "email", email)
			return model.ErrEmailTaken
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.tokens.Issue(ctx, email, a.tokenTTL)
	if err != nil {
		a.logger.Error("Auth service: failed to issue verification token",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	a.dispatchVerification(email, token)

	a.logger.Info("Auth service: registration completed", "email", email)

	return nil
}

// VerifyEmail consumes a verification token exactly once. A second consume of
// the same token observes model.ErrTokenInvalid. Verification does not gate
// sign-in: the two flows are independent.
func (a *Auth) VerifyEmail(ctx context.Context, token string) error {
	email, err := a.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrTokenInvalid) || errors.Is(err, model.ErrTokenExpired) {
			a.logger.Info("Auth service: verification rejected", "error", err.Error())
			return err
		}
		a.logger.Error("Auth service: failed to consume verification token",
			"error", err.Error())
		return fmt.Errorf("failed to consume verification token: %w", err)
	}

	a.logger.Info("Auth service: email verified", "email", email)

	return nil
}

// Login verifies credentials and returns a signed session token. An unknown
// email and a wrong password both yield model.ErrInvalidCredentials with no
// distinguishing signal.
func (a *Auth) Login(ctx context.Context, params LoginParams) (string, error) {
	email := normalizeEmail(params.Email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: sign-in for unknown email", "email", email)
			return "", model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(params.Password, user.PasswordHash) {
		a.logger.Info("Auth service: password mismatch", "email", email)
		return "", model.ErrInvalidCredentials
	}

	sessionToken, err := a.sessions.GenerateSessionToken(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue session token",
			"email", email,
			"error", err.Error())
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	a.logger.Info("Auth service: sign-in completed", "email", email)

	return sessionToken, nil
}

// dispatchVerification sends the token to the notifier on a detached context
// so a slow or failing mail relay cannot delay or fail the registration.
func (a *Auth) dispatchVerification(email, token string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := a.notifier.Send(ctx, email, token); err != nil {
			a.logger.Error("Auth service: failed to send verification notification",
				"email", email,
				"error", err.Error())
		}
	}()
}

// Stored emails are lower-cased, making uniqueness case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
