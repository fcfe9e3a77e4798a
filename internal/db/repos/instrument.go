package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/db"
	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// InstrumentRepository handles database operations for instrument entities
type InstrumentRepository struct {
	db *gorm.DB
}

// NewInstrumentRepository creates a new InstrumentRepository instance
func NewInstrumentRepository(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// CreateInstrument creates a new instrument. A ticker that is already listed
// surfaces as a duplicate key error, so concurrent listings of the same
// ticker cannot both succeed.
func (r *InstrumentRepository) CreateInstrument(ctx context.Context, instrument *models.Instrument) error {
	if err := r.db.WithContext(ctx).Create(instrument).Error; err != nil {
		if db.IsDuplicateKeyError(err) {
			return fmt.Errorf("instrument %s already exists: %w", instrument.Ticker, err)
		}
		return fmt.Errorf("failed to create instrument: %w", err)
	}
	return nil
}

// GetInstrument retrieves an instrument by ticker
func (r *InstrumentRepository) GetInstrument(ctx context.Context, ticker string) (*models.Instrument, error) {
	var instrument models.Instrument
	err := r.db.WithContext(ctx).First(&instrument, "ticker = ?", ticker).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("instrument not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument: %w", err)
	}
	return &instrument, nil
}

// GetInstruments retrieves all listed instruments
func (r *InstrumentRepository) GetInstruments(ctx context.Context) ([]models.Instrument, error) {
	var instruments []models.Instrument
	err := r.db.WithContext(ctx).Order("ticker").Find(&instruments).Error
	return instruments, err
}

// DeleteInstrument removes an instrument from the listing
func (r *InstrumentRepository) DeleteInstrument(ctx context.Context, ticker string) error {
	if _, err := r.GetInstrument(ctx, ticker); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Instrument{}, "ticker = ?", ticker).Error
}
