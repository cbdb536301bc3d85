package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/peoplecore/hr-portal/internal/auth"
	"github.com/peoplecore/hr-portal/internal/config"
	"github.com/peoplecore/hr-portal/internal/domain"
	"github.com/peoplecore/hr-portal/internal/events"
	"github.com/peoplecore/hr-portal/internal/repository"
	apperrors "github.com/peoplecore/hr-portal/pkg/util"
)

const mfaCodeLength = 6

// LoginResult is the outcome of a successful credential or code check.
// When MFARequired is set no token has been issued yet; the caller must
// complete the code step.
type LoginResult struct {
	Employee    *domain.Employee
	MFARequired bool
	Token       string
	ExpiresAt   time.Time
}

// AuthService drives the login flow: credential check, optional MFA
// challenge, token issuance, and the password write paths.
type AuthService struct {
	employees  repository.EmployeeRepository
	resets     repository.PasswordResetRepository
	challenges repository.MFAChallengeStore
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	mfaCodeTTL time.Duration
	resetTTL   time.Duration
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	EmployeeRepo      repository.EmployeeRepository
	PasswordResetRepo repository.PasswordResetRepository
	ChallengeStore    repository.MFAChallengeStore
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		employees:  deps.EmployeeRepo,
		resets:     deps.PasswordResetRepo,
		challenges: deps.ChallengeStore,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
		mfaCodeTTL: cfg.Auth.MFACodeTTL(),
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Login checks the submitted credentials. Unknown email, wrong password and
// deactivated account all resolve to the same INVALID_CREDENTIALS value, and
// every rejection path performs a bcrypt comparison so response timing does
// not reveal whether the email is registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.BurnVerification(password)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if !employee.Active {
		auth.BurnVerification(password)
		return nil, apperrors.NewInvalidCredentials()
	}
	if !auth.VerifyPassword(employee.PasswordHash, password) {
		return nil, apperrors.NewInvalidCredentials()
	}

	if employee.MFAEnabled {
		if err := s.issueChallenge(ctx, employee); err != nil {
			return nil, err
		}
		return &LoginResult{Employee: employee, MFARequired: true}, nil
	}

	return s.authenticated(employee)
}

// VerifyMFA completes a pending login. A code of the wrong shape is rejected
// before the stored challenge is consulted, so it cannot consume the
// challenge or any future attempt budget.
func (s *AuthService) VerifyMFA(ctx context.Context, email, code string) (*LoginResult, error) {
	if !validCodeShape(code) {
		return nil, apperrors.NewInvalidCode()
	}

	challenge, err := s.challenges.Get(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrChallengeNotFound) {
			return nil, apperrors.NewInvalidCode()
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if time.Now().After(challenge.ExpiresAt) {
		_ = s.challenges.Delete(ctx, email)
		return nil, apperrors.NewInvalidCode()
	}
	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		return nil, apperrors.NewInvalidCode()
	}

	if err := s.challenges.Delete(ctx, email); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	employee, err := s.employees.GetByID(ctx, challenge.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if !employee.Active {
		return nil, apperrors.NewInvalidCredentials()
	}

	return s.authenticated(employee)
}

// ChangePassword verifies the current password before persisting a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, employeeID, currentPassword, newPassword string) error {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnknownSubject()
		}
		return apperrors.NewStoreUnavailable(err)
	}
	if !auth.VerifyPassword(employee.PasswordHash, currentPassword) {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.employees.UpdatePassword(ctx, employee.ID, hash); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	s.publish(ctx, events.EventPasswordChanged, employee.ID, events.PasswordChangedPayload{Email: employee.Email})
	return nil
}

// RequestPasswordReset mints a reset token for the email if it is
// registered. It returns nil either way; callers respond identically so the
// endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.NewStoreUnavailable(err)
	}

	token := &repository.PasswordResetToken{
		EmployeeID: employee.ID,
		Token:      uuid.NewString(),
		ExpiresAt:  time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	s.publish(ctx, events.EventPasswordResetRequested, employee.ID, events.PasswordResetRequestedPayload{
		Email:     employee.Email,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
	return nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("reset token invalid or expired", nil)
		}
		return apperrors.NewStoreUnavailable(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("reset token invalid or expired", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.employees.UpdatePassword(ctx, token.EmployeeID, hash); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	s.publish(ctx, events.EventPasswordChanged, token.EmployeeID, events.PasswordChangedPayload{})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// authenticated mints the session token. Called exactly once per completed
// login.
func (s *AuthService) authenticated(employee *domain.Employee) (*LoginResult, error) {
	token, expiresAt, err := s.tokenMgr.Issue(employee.ID, employee.Email, employee.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Employee: employee, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) issueChallenge(ctx context.Context, employee *domain.Employee) error {
	code, err := generateMFACode()
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	challenge := &repository.MFAChallenge{
		EmployeeID: employee.ID,
		Email:      employee.Email,
		Code:       code,
		ExpiresAt:  time.Now().Add(s.mfaCodeTTL),
	}
	if err := s.challenges.Put(ctx, challenge, s.mfaCodeTTL); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	s.publish(ctx, events.EventMFACodeIssued, employee.ID, events.MFACodeIssuedPayload{
		Email:     employee.Email,
		Code:      code,
		ExpiresAt: challenge.ExpiresAt,
	})
	return nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, employeeID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}

func generateMFACode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < mfaCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", mfaCodeLength, n), nil
}

func validCodeShape(code string) bool {
	if len(code) != mfaCodeLength {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
