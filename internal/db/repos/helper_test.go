package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db             *gorm.DB
	ctx            context.Context
	userRepo       *UserRepository
	instrumentRepo *InstrumentRepository
	balanceRepo    *BalanceRepository
	orderRepo      *OrderRepository
	txRepo         *TransactionRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Instrument{},
		&models.Balance{},
		&models.Order{},
		&models.Transaction{},
	)
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.userRepo = NewUserRepository(s.db)
	s.instrumentRepo = NewInstrumentRepository(s.db)
	s.balanceRepo = NewBalanceRepository(s.db)
	s.orderRepo = NewOrderRepository(s.db)
	s.txRepo = NewTransactionRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) createTestUser() *models.User {
	user := &models.User{Name: "test-user"}
	err := s.userRepo.CreateUser(s.ctx, user)
	s.Require().NoError(err)
	return user
}

func (s *DBRepositoryTestSuite) createTestInstrument() *models.Instrument {
	instrument := &models.Instrument{Ticker: "MEMCOIN", Name: "Mem Coin"}
	err := s.instrumentRepo.CreateInstrument(s.ctx, instrument)
	s.Require().NoError(err)
	return instrument
}

func (s *DBRepositoryTestSuite) createTestOrder(userID uuid.UUID, direction models.OrderDirection, qty int64, price *int64) *models.Order {
	order := &models.Order{
		UserID:    userID,
		Status:    models.OrderStatusNew,
		Direction: direction,
		Ticker:    "MEMCOIN",
		Qty:       qty,
		Price:     price,
	}
	err := s.db.WithContext(s.ctx).Create(order).Error
	s.Require().NoError(err)
	return order
}

func intPtr(v int64) *int64 {
	return &v
}

// TestDBRepository runs the base suite to verify setup does not panic
func TestDBRepository(t *testing.T) {
	suite.Run(t, new(DBRepositoryTestSuite))
}
