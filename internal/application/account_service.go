package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/eventboard/internal/persistence"
)

// AccountService orchestrates validation, hashing, persistence, and token
// issuance for signup and login.
type AccountService struct {
	accounts persistence.AccountRepository
	hasher   PasswordHasher
	tokens   *TokenService
	now      func() time.Time
	logger   *slog.Logger
}

// NewAccountService wires dependencies for the account service.
func NewAccountService(accounts persistence.AccountRepository, hasher PasswordHasher, tokens *TokenService, now func() time.Time) *AccountService {
	return NewAccountServiceWithLogger(accounts, hasher, tokens, now, nil)
}

// NewAccountServiceWithLogger wires dependencies for the account service with a specific logger.
func NewAccountServiceWithLogger(accounts persistence.AccountRepository, hasher PasswordHasher, tokens *TokenService, now func() time.Time, logger *slog.Logger) *AccountService {
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	if now == nil {
		now = time.Now
	}
	return &AccountService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		now:      now,
		logger:   defaultLogger(logger),
	}
}

func (s *AccountService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AccountService", operation, attrs...)
}

// EmailInUse reports whether an account already uses the normalized email.
func (s *AccountService) EmailInUse(ctx context.Context, email string) (bool, error) {
	if s == nil || s.accounts == nil {
		return false, fmt.Errorf("account repository not configured")
	}
	_, err := s.accounts.FindAccountByEmail(ctx, NormalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, persistence.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Signup validates the payload, stores a new account and issues a token for it.
func (s *AccountService) Signup(ctx context.Context, payload SignupPayload) (result AuthResult, err error) {
	if s == nil {
		err = fmt.Errorf("AccountService is nil")
		return
	}
	if s.accounts == nil || s.tokens == nil {
		err = fmt.Errorf("account service not configured")
		return
	}

	email := NormalizeEmail(payload.Email.Value)
	logger := s.loggerWith(ctx, "Signup", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "signup failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("account_id", result.Account.ID).InfoContext(ctx, "account created")
	}()

	var validation ValidationResult
	validation, err = ValidateSignup(ctx, payload, s)
	if err != nil {
		return
	}
	if err = validation.Err(); err != nil {
		return
	}

	var hash string
	hash, err = s.hasher.Hash(payload.Password.Value)
	if err != nil {
		return
	}

	var stored persistence.Account
	stored, err = s.accounts.InsertAccount(ctx, persistence.Account{
		Email:        email,
		Name:         strings.TrimSpace(payload.Name.Value),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, persistence.ErrConstraintViolation) {
			err = ErrDuplicateEmail
			return
		}
		err = fmt.Errorf("insert account: %w", err)
		return
	}

	var token Token
	token, err = s.tokens.Issue(stored.ID, stored.Email)
	if err != nil {
		return
	}

	result = AuthResult{Account: toAccount(stored), Token: token}
	return
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, payload LoginPayload) (result AuthResult, err error) {
	if s == nil {
		err = fmt.Errorf("AccountService is nil")
		return
	}
	if s.accounts == nil || s.tokens == nil {
		err = fmt.Errorf("account service not configured")
		return
	}

	email := NormalizeEmail(payload.Email.Value)
	logger := s.loggerWith(ctx, "Login", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("account_id", result.Account.ID).InfoContext(ctx, "login succeeded")
	}()

	if err = ValidateLogin(payload).Err(); err != nil {
		return
	}

	var stored persistence.Account
	stored, err = s.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
			return
		}
		err = fmt.Errorf("find account: %w", err)
		return
	}

	if err = s.hasher.Verify(stored.PasswordHash, payload.Password.Value); err != nil {
		return
	}

	var token Token
	token, err = s.tokens.Issue(stored.ID, stored.Email)
	if err != nil {
		return
	}

	result = AuthResult{Account: toAccount(stored), Token: token}
	return
}

func toAccount(model persistence.Account) Account {
	return Account{
		ID:        model.ID,
		Email:     model.Email,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
	}
}
