package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AlibekovAA/storefront/internal/account/events"
	"github.com/AlibekovAA/storefront/internal/common/clock"
	"github.com/AlibekovAA/storefront/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/storefront/internal/common/crypto"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/common/resilience"
	userdomain "github.com/AlibekovAA/storefront/internal/user/domain"
	userrepo "github.com/AlibekovAA/storefront/internal/user/repository"
)

type Tokens interface {
	Issue(email string) (string, error)
}

type AccountService struct {
	repo            userrepo.Repository
	hasher          commoncrypto.PasswordHasher
	tokens          Tokens
	publisher       events.Publisher
	breaker         *resilience.CircuitBreaker
	validator       *InputValidator
	clock           clock.Clock
	defaultLanguage string
	log             *logger.Logger
}

// NewAccountService wires the account operations. breaker may be nil, in which
// case store calls run unguarded.
func NewAccountService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	tokens Tokens,
	publisher events.Publisher,
	breaker *resilience.CircuitBreaker,
	clock clock.Clock,
	defaultLanguage string,
	log *logger.Logger,
) *AccountService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	if defaultLanguage == "" {
		defaultLanguage = constants.DefaultLanguage
	}
	return &AccountService{
		repo:            repo,
		hasher:          hasher,
		tokens:          tokens,
		publisher:       publisher,
		breaker:         breaker,
		validator:       NewInputValidator(),
		clock:           clock,
		defaultLanguage: defaultLanguage,
		log:             log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Language string
}

type LoginInput struct {
	Email    string
	Password string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (userdomain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	input.Language = strings.TrimSpace(input.Language)
	if input.Language == "" {
		input.Language = s.defaultLanguage
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := s.validator.ValidateRegister(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		recordRegistration("invalid")
		return userdomain.User{}, err
	}

	err := s.callStore(ctx, func(ctx context.Context) error {
		_, err := s.repo.FindIDByEmail(ctx, input.Email)
		return err
	})
	switch {
	case err == nil:
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_email_exists",
		}).Warn("register failed: email already registered")
		recordRegistration("duplicate")
		return userdomain.User{}, ErrDuplicateAccount
	case !errors.Is(err, userrepo.ErrUserNotFound):
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_lookup_failed",
		}).Errorf("register failed: lookup error: %v", err)
		recordRegistration("error")
		return userdomain.User{}, storeError(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		recordRegistration("error")
		return userdomain.User{}, newInternalError("HASH_FAILED", "failed to hash password", err)
	}

	token, err := s.tokens.Issue(input.Email)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		recordRegistration("error")
		return userdomain.User{}, newInternalError("TOKEN_ISSUE_FAILED", "failed to issue token", err)
	}

	var created userdomain.User
	err = s.callStore(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, userdomain.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
			Language:     input.Language,
			Token:        token,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_insert_conflict",
			}).Warn("register failed: email registered concurrently")
			recordRegistration("duplicate")
			return userdomain.User{}, ErrDuplicateAccount
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		recordRegistration("error")
		return userdomain.User{}, storeError(err)
	}

	s.publish(ctx, events.TypeRegistered, created)

	s.log.WithFields(ctx, logger.Fields{
		"email":   created.Email,
		"user_id": string(created.ID),
		"action":  "register_success",
	}).Info("register success")
	recordRegistration("success")

	return created, nil
}

func (s *AccountService) Login(ctx context.Context, input LoginInput) (userdomain.User, error) {
	input.Email = normalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := s.validator.ValidateLogin(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		recordLogin("invalid")
		return userdomain.User{}, err
	}

	var user userdomain.User
	err := s.callStore(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByEmail(ctx, input.Email)
		return err
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			recordLogin("not_found")
			return userdomain.User{}, ErrAccountNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		recordLogin("error")
		return userdomain.User{}, storeError(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		recordLogin("invalid_credentials")
		return userdomain.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLogin("error")
		return userdomain.User{}, newInternalError("TOKEN_ISSUE_FAILED", "failed to issue token", err)
	}

	var updated userdomain.User
	err = s.callStore(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.UpdateToken(ctx, user.ID, token)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_token_update_failed",
		}).Errorf("login failed: token update error: %v", err)
		recordLogin("error")
		return userdomain.User{}, storeError(err)
	}

	s.publish(ctx, events.TypeLoggedIn, updated)

	s.log.WithFields(ctx, logger.Fields{
		"email":   updated.Email,
		"user_id": string(updated.ID),
		"action":  "login_success",
	}).Info("login success")
	recordLogin("success")

	return updated, nil
}

// ListUsers returns every account as a redacted summary.
func (s *AccountService) ListUsers(ctx context.Context) ([]userdomain.Summary, error) {
	incrementListRequests()

	var users []userdomain.User
	err := s.callStore(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_users_failed",
		}).Errorf("list users failed: %v", err)
		return nil, storeError(err)
	}

	summaries := make([]userdomain.Summary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}

func (s *AccountService) callStore(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Call(ctx, fn)
}

func (s *AccountService) publish(ctx context.Context, eventType events.Type, user userdomain.User) {
	event := events.Event{
		Type:       eventType,
		UserID:     string(user.ID),
		Email:      user.Email,
		Language:   user.Language,
		OccurredAt: s.clock.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"event":   string(eventType),
			"action":  "event_publish_failed",
		}).Warnf("event publish failed: %v", err)
	}
}
