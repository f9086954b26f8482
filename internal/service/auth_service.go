package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/mail"
	"vehicletrack/internal/ratelimit"
	"vehicletrack/internal/repository"
	"vehicletrack/internal/token"
)

const bcryptCost = 12

// AuthConfig carries the named constants of the authentication flow. The
// verify and login flows are independent entry points and keep separate
// token lifetimes.
type AuthConfig struct {
	OTPTTL         time.Duration
	VerifyTokenTTL time.Duration
	LoginTokenTTL  time.Duration
	LoginMax       int
	OTPRequestMax  int
	MailTimeout    time.Duration
}

// LoginResult is a successful login: the fresh session token and the
// previous login time, if any.
type LoginResult struct {
	Token     string
	LastLogin *time.Time
}

// AuthService orchestrates signup, code issuance, verification and login.
type AuthService interface {
	Signup(ctx context.Context, email, password, name string) error
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (string, error)
	Login(ctx context.Context, email, password, code string) (*LoginResult, error)
}

type authService struct {
	users   repository.UserRepository
	limiter *ratelimit.Limiter
	tokens  *token.Issuer
	sender  mail.Sender
	logger  *logrus.Logger
	cfg     AuthConfig

	otpPolicy   ratelimit.Policy
	loginPolicy ratelimit.Policy
	now         func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	limiter *ratelimit.Limiter,
	tokens *token.Issuer,
	sender mail.Sender,
	logger *logrus.Logger,
	cfg AuthConfig,
) AuthService {
	otpPolicy := ratelimit.OTPRequest
	if cfg.OTPRequestMax > 0 {
		otpPolicy.Max = cfg.OTPRequestMax
	}
	loginPolicy := ratelimit.Login
	if cfg.LoginMax > 0 {
		loginPolicy.Max = cfg.LoginMax
	}
	return &authService{
		users:       users,
		limiter:     limiter,
		tokens:      tokens,
		sender:      sender,
		logger:      logger,
		cfg:         cfg,
		otpPolicy:   otpPolicy,
		loginPolicy: loginPolicy,
		now:         time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, email, password, name string) error {
	email = strings.TrimSpace(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrUserAlreadyExists
		}
		return err
	}

	return s.issueOTP(ctx, user)
}

func (s *authService) RequestOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)

	if decision := s.limiter.Check(email, s.otpPolicy); !decision.Allowed {
		return &RateLimitedError{RetryAfter: decision.RetryAfter}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.issueOTP(ctx, user)
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if err := s.checkOTP(user, code); err != nil {
		return "", err
	}

	// the code is single-use regardless of whether token minting succeeds
	if err := s.users.ClearOTP(ctx, user.ID); err != nil {
		return "", err
	}

	signed, err := s.tokens.Issue(user.ID, s.cfg.VerifyTokenTTL)
	if err != nil {
		return "", err
	}
	return signed, nil
}

func (s *authService) Login(ctx context.Context, email, password, code string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	if decision := s.limiter.Check(email, s.loginPolicy); !decision.Allowed {
		// alert the account out of band; the response stays identical
		// whether or not the account exists
		s.sendAsync(mail.SecurityAlertMessage(email))
		return nil, &RateLimitedError{RetryAfter: decision.RetryAfter}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.checkOTP(user, code); err != nil {
		return nil, err
	}

	s.limiter.Reset(email, s.loginPolicy)

	// single-use: consume the code here too, same as the verify flow
	if err := s.users.ClearOTP(ctx, user.ID); err != nil {
		return nil, err
	}

	previousLogin := user.LastLoginAt
	if err := s.users.SetLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, err
	}

	signed, err := s.tokens.Issue(user.ID, s.cfg.LoginTokenTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: signed, LastLogin: previousLogin}, nil
}

// issueOTP persists a fresh code on the user and mails it. Delivery is fire
// and forget: a relay failure is logged, never rolled back or surfaced.
func (s *authService) issueOTP(ctx context.Context, user *domain.User) error {
	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	expiresAt := s.now().Add(s.cfg.OTPTTL)
	if err := s.users.SetOTP(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}

	s.sendAsync(mail.OTPMessage(user.Email, code))
	return nil
}

func (s *authService) checkOTP(user *domain.User, submitted string) error {
	if user.OTPCode == nil || *user.OTPCode != submitted {
		return ErrOTPMismatch
	}
	if user.OTPExpiresAt == nil || s.now().After(*user.OTPExpiresAt) {
		return ErrOTPExpired
	}
	return nil
}

func (s *authService) sendAsync(msg mail.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.MailTimeout)
		defer cancel()
		if err := s.sender.Send(ctx, msg); err != nil {
			s.logger.WithError(err).Warnf("send mail to %s", msg.To)
		}
	}()
}

// generateOTP returns a uniformly random six-digit decimal code in
// [100000, 999999]; a leading zero is impossible by construction.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
