package services

import (
	"context"
	"errors"

	"github.com/CatDevelop/exchange-tochka/internal/db"
	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/db/repos"
)

// Instrument service errors
var (
	ErrInstrumentExists   = errors.New("instrument already exists")
	ErrInstrumentNotFound = errors.New("instrument not found")
)

// Instrument provides business logic for managing the listing
type Instrument struct {
	repo *repos.InstrumentRepository
}

// NewInstrumentService creates a new instrument service instance
func NewInstrumentService(repo *repos.InstrumentRepository) *Instrument {
	return &Instrument{repo: repo}
}

// ListInstruments retrieves all listed instruments
func (s *Instrument) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	return s.repo.GetInstruments(ctx)
}

// CreateInstrument lists a new instrument
func (s *Instrument) CreateInstrument(ctx context.Context, instrument *models.Instrument) error {
	if err := instrument.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateInstrument(ctx, instrument); err != nil {
		if db.IsDuplicateKeyError(err) {
			return errors.Join(ErrInstrumentExists, err)
		}
		return err
	}
	return nil
}

// DeleteInstrument removes an instrument from the listing
func (s *Instrument) DeleteInstrument(ctx context.Context, ticker string) error {
	if err := s.repo.DeleteInstrument(ctx, ticker); err != nil {
		return errors.Join(ErrInstrumentNotFound, err)
	}
	return nil
}
