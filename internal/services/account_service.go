package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/metrics"
)

// AdminCredentialsFunc supplies the bootstrap admin username and password
type AdminCredentialsFunc func() (username, password string, err error)

// AccountRepositories groups the persistence ports used by the registration saga
type AccountRepositories struct {
	Users     domain.UserRepository
	Cities    domain.CityRepository
	Addresses domain.AddressRepository
	Contacts  domain.ContactInfoRepository
	Logins    domain.LoginInfoRepository
}

// AccountServiceImpl implements domain.AccountService
type AccountServiceImpl struct {
	repos      AccountRepositories
	tx         domain.TransactionHandler
	validator  *Validator
	hasher     domain.PasswordHasher
	sessions   domain.SessionStore
	publisher  domain.EventPublisher
	metrics    *metrics.AccountMetrics
	logger     *zap.Logger
	adminCreds AdminCredentialsFunc
}

// NewAccountService creates a new account service
func NewAccountService(
	repos AccountRepositories,
	tx domain.TransactionHandler,
	validator *Validator,
	hasher domain.PasswordHasher,
	sessions domain.SessionStore,
	publisher domain.EventPublisher,
	m *metrics.AccountMetrics,
	logger *zap.Logger,
	adminCreds AdminCredentialsFunc,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		repos:      repos,
		tx:         tx,
		validator:  validator,
		hasher:     hasher,
		sessions:   sessions,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		adminCreds: adminCreds,
	}
}

// CreateUser implements domain.AccountService.
// Validation and the admin gate run before any write. Everything else runs in
// one unit of work, and any failure there is returned as *domain.OperationFailedError.
func (s *AccountServiceImpl) CreateUser(ctx context.Context, cmd domain.CreateUserCommand, allowAdminCreation, isAdmin bool) (uuid.UUID, error) {
	if verr := s.validator.Validate(cmd); verr != nil {
		s.metrics.Registrations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return uuid.Nil, verr
	}

	if cmd.UserTypeID == domain.UserTypeAdmin && !(allowAdminCreation && isAdmin) {
		s.metrics.Registrations.WithLabelValues(metrics.OutcomeDenied).Inc()
		s.logger.Warn("admin creation denied", zap.String("username", cmd.Username))
		return uuid.Nil, domain.ErrAdminCreationDenied
	}

	var userID uuid.UUID
	err := s.tx.Execute(ctx, func(ctx context.Context) error {
		id, err := s.register(ctx, cmd)
		if err != nil {
			return err
		}
		userID = id
		return nil
	})
	if err != nil {
		s.metrics.Registrations.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.logger.Info("registration failed", zap.String("username", cmd.Username), zap.Error(err))
		return uuid.Nil, &domain.OperationFailedError{Op: "create user", Err: err}
	}

	s.metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("user registered",
		zap.String("user_id", userID.String()),
		zap.String("username", cmd.Username),
		zap.String("user_type", cmd.UserTypeID.String()))
	s.publish(ctx, domain.NewAccountEvent(domain.UserRegisteredEvent, userID, cmd.Username).
		WithMetadata("user_type", cmd.UserTypeID.String()))

	return userID, nil
}

// register performs the saga steps. ctx carries the open transaction.
func (s *AccountServiceImpl) register(ctx context.Context, cmd domain.CreateUserCommand) (uuid.UUID, error) {
	// Fast path only; the unique index on username is the real guarantee.
	exists, err := s.repos.Users.UsernameExists(ctx, cmd.Username)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return uuid.Nil, domain.ErrUsernameTaken
	}

	city, err := s.repos.Cities.GetOrCreateCity(ctx, cmd.PostalCode, strings.TrimSpace(cmd.City))
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve city: %w", err)
	}

	address, err := s.repos.Addresses.GetOrCreateAddress(ctx, &domain.Address{
		StreetNumber:   cmd.StreetNumber,
		StreetName:     cmd.StreetName,
		CityPostalCode: city.PostalCode,
		City:           city,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve address: %w", err)
	}

	contact := &domain.ContactInfo{
		ID:          uuid.New(),
		Email:       cmd.Email,
		PhoneNumber: cmd.PhoneNumber,
		AddressID:   address.ID,
		Address:     address,
	}
	if err := s.repos.Contacts.AddContactInfo(ctx, contact); err != nil {
		return uuid.Nil, fmt.Errorf("add contact info: %w", err)
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}
	login := &domain.LoginInformation{Username: cmd.Username, PasswordHash: hash}
	if err := s.repos.Logins.AddLoginInfo(ctx, login); err != nil {
		return uuid.Nil, fmt.Errorf("add login information: %w", err)
	}

	user := &domain.User{
		ID:               uuid.New(),
		FirstName:        cmd.FirstName,
		LastName:         cmd.LastName,
		Username:         cmd.Username,
		UserTypeID:       cmd.UserTypeID,
		ContactInfoID:    contact.ID,
		ContactInfo:      contact,
		LoginInformation: login,
	}
	if err := s.repos.Users.AddUser(ctx, user); err != nil {
		return uuid.Nil, fmt.Errorf("add user: %w", err)
	}
	return user.ID, nil
}

// CreateAdminUser implements domain.AccountService. The command is always
// created as an admin and the caller must be one.
func (s *AccountServiceImpl) CreateAdminUser(ctx context.Context, cmd domain.CreateUserCommand, callerIsAdmin bool) (uuid.UUID, error) {
	if !callerIsAdmin {
		s.metrics.Registrations.WithLabelValues(metrics.OutcomeDenied).Inc()
		return uuid.Nil, domain.ErrAdminRequired
	}
	cmd.UserTypeID = domain.UserTypeAdmin
	return s.CreateUser(ctx, cmd, true, true)
}

// ValidateCredentials implements domain.AccountService.
// A nil user with a nil error means the username or the password did not match.
func (s *AccountServiceImpl) ValidateCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repos.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.LoginInformation == nil || !s.hasher.Verify(user.LoginInformation.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

// GetUsernameByID implements domain.AccountService
func (s *AccountServiceImpl) GetUsernameByID(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.repos.Users.GetUserByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// GetUserByID implements domain.AccountService
func (s *AccountServiceImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repos.Users.GetUserByID(ctx, id)
}

// CountUsers implements domain.AccountService
func (s *AccountServiceImpl) CountUsers(ctx context.Context) (int64, error) {
	return s.repos.Users.CountUsers(ctx)
}

// EnsureAdminSeeded implements domain.AccountService. It runs at startup
// without a caller and does nothing once any admin exists.
func (s *AccountServiceImpl) EnsureAdminSeeded(ctx context.Context) error {
	return s.seedAdmin(ctx, nil)
}

// SeedAdminUser implements domain.AccountService. An empty token means there
// is no caller. A non-empty token must resolve to a live admin session.
func (s *AccountServiceImpl) SeedAdminUser(ctx context.Context, token string) error {
	return s.seedAdmin(ctx, func() error {
		if strings.TrimSpace(token) == "" {
			return nil
		}
		isAdmin, err := s.sessionIsAdmin(ctx, token)
		if err != nil {
			return err
		}
		if !isAdmin {
			return domain.ErrAdminRequired
		}
		return nil
	})
}

func (s *AccountServiceImpl) seedAdmin(ctx context.Context, authorize func() error) error {
	exists, err := s.repos.Users.AdminAccountExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}
	if exists {
		s.logger.Debug("admin account already exists, skipping seed")
		return nil
	}

	if authorize != nil {
		if err := authorize(); err != nil {
			return err
		}
	}

	username, password, err := s.adminCreds()
	if err != nil {
		return err
	}

	id, err := s.CreateUser(ctx, adminSeedCommand(username, password), true, true)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	s.logger.Info("admin user seeded", zap.String("user_id", id.String()), zap.String("username", username))
	s.publish(ctx, domain.NewAccountEvent(domain.AdminSeededEvent, id, username))
	return nil
}

func (s *AccountServiceImpl) sessionIsAdmin(ctx context.Context, token string) (bool, error) {
	session, ok := s.sessions.TryGetSession(token)
	if !ok {
		return false, nil
	}
	user, err := s.repos.Users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load session owner: %w", err)
	}
	return user.IsAdmin(), nil
}

func adminSeedCommand(username, password string) domain.CreateUserCommand {
	return domain.CreateUserCommand{
		FirstName:    "Main",
		LastName:     "Admin",
		Username:     username,
		Password:     password,
		UserTypeID:   domain.UserTypeAdmin,
		Email:        "admin@example.com",
		PhoneNumber:  "12345678",
		StreetNumber: 0,
		StreetName:   "Admin Lane",
		PostalCode:   9999,
		City:         "AdminCity",
	}
}

func (s *AccountServiceImpl) publish(ctx context.Context, event *domain.AccountEvent) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish account event",
			zap.String("event_type", string(event.EventType)),
			zap.Error(err))
	}
}

var _ domain.AccountService = (*AccountServiceImpl)(nil)
