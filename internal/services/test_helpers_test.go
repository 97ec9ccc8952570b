package services

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/infrastructure/auth"
	"github.com/you/accountsvc/internal/infrastructure/database"
	"github.com/you/accountsvc/internal/infrastructure/repositories"
	"github.com/you/accountsvc/internal/metrics"
	"github.com/you/accountsvc/internal/mocks"
)

const (
	testAdminUsername = "rootadmin"
	testAdminPassword = "Adm1n!pass"
)

// validCommand creates a registration command that passes validation
func validCommand(username string) domain.CreateUserCommand {
	return domain.CreateUserCommand{
		FirstName:    "Alice",
		LastName:     "Jensen",
		Username:     username,
		Password:     "Secr3t!pw",
		UserTypeID:   domain.UserTypeOrdinary,
		Email:        username + "@example.com",
		PhoneNumber:  "+45 12345678",
		StreetNumber: 12,
		StreetName:   "Vestergade",
		PostalCode:   8000,
		City:         "Aarhus",
	}
}

func testAdminCreds() (string, string, error) {
	return testAdminUsername, testAdminPassword, nil
}

// accountMocks bundles the mocked collaborators of the account service
type accountMocks struct {
	users     *mocks.MockUserRepository
	cities    *mocks.MockCityRepository
	addresses *mocks.MockAddressRepository
	contacts  *mocks.MockContactInfoRepository
	logins    *mocks.MockLoginInfoRepository
	tx        *mocks.MockTransactionHandler
	hasher    *mocks.MockPasswordHasher
	sessions  *mocks.MockSessionStore
	publisher *mocks.MockEventPublisher
	creds     AdminCredentialsFunc
}

func newAccountMocks() *accountMocks {
	return &accountMocks{
		users:     mocks.NewMockUserRepository(),
		cities:    mocks.NewMockCityRepository(),
		addresses: mocks.NewMockAddressRepository(),
		contacts:  mocks.NewMockContactInfoRepository(),
		logins:    mocks.NewMockLoginInfoRepository(),
		tx:        mocks.NewMockTransactionHandler(),
		hasher:    mocks.NewMockPasswordHasher(),
		sessions:  mocks.NewMockSessionStore(),
		publisher: mocks.NewMockEventPublisher(),
		creds:     testAdminCreds,
	}
}

// createAccountServiceForTest creates an AccountService with mock dependencies for testing
func createAccountServiceForTest(t *testing.T, m *accountMocks) *AccountServiceImpl {
	t.Helper()

	return NewAccountService(
		AccountRepositories{
			Users:     m.users,
			Cities:    m.cities,
			Addresses: m.addresses,
			Contacts:  m.contacts,
			Logins:    m.logins,
		},
		m.tx,
		NewValidator(),
		m.hasher,
		m.sessions,
		m.publisher,
		metrics.NewNopAccountMetrics(),
		zap.NewNop(),
		m.creds,
	)
}

// testStack is the account and session services wired to a real SQLite database
type testStack struct {
	db        *gorm.DB
	clock     *clockwork.FakeClock
	store     *repositories.MemorySessionStore
	publisher *mocks.MockEventPublisher
	accounts  *AccountServiceImpl
	sessions  *SessionServiceImpl
}

// newTestStack creates an in-memory SQLite database and the services on top of it.
// wrapUsers, when set, decorates the gorm user repository.
func newTestStack(t *testing.T, wrapUsers func(domain.UserRepository) domain.UserRepository) *testStack {
	t.Helper()

	db, err := database.OpenDialector(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := database.SeedUserTypes(context.Background(), db); err != nil {
		t.Fatalf("failed to seed user types: %v", err)
	}

	users := repositories.NewUserRepository(db)
	if wrapUsers != nil {
		users = wrapUsers(users)
	}

	clock := clockwork.NewFakeClock()
	store := repositories.NewSessionStore(clock)
	publisher := mocks.NewMockEventPublisher()
	m := metrics.NewNopAccountMetrics()
	logger := zap.NewNop()

	accounts := NewAccountService(
		AccountRepositories{
			Users:     users,
			Cities:    repositories.NewCityRepository(db, logger),
			Addresses: repositories.NewAddressRepository(db),
			Contacts:  repositories.NewContactInfoRepository(db),
			Logins:    repositories.NewLoginInfoRepository(db),
		},
		repositories.NewTransactionHandler(db),
		NewValidator(),
		auth.NewPasswordHasherWithCost(4),
		store,
		publisher,
		m,
		logger,
		testAdminCreds,
	)

	return &testStack{
		db:        db,
		clock:     clock,
		store:     store,
		publisher: publisher,
		accounts:  accounts,
		sessions:  NewSessionService(accounts, store, publisher, m, logger, clock, DefaultSessionTTL),
	}
}

// rowCounts returns the number of rows in each table written by a registration
func (s *testStack) rowCounts(t *testing.T) map[string]int64 {
	t.Helper()

	counts := map[string]int64{}
	for name, model := range map[string]interface{}{
		"users":    &repositories.DBUser{},
		"contacts": &repositories.DBContactInfo{},
		"logins":   &repositories.DBLoginInformation{},
		"address":  &repositories.DBAddress{},
		"city":     &repositories.DBCity{},
	} {
		var n int64
		if err := s.db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("failed to count %s: %v", name, err)
		}
		counts[name] = n
	}
	return counts
}
