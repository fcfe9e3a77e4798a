package services

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

type InstrumentServiceTestSuite struct {
	ServiceTestSuite
}

func TestInstrumentService(t *testing.T) {
	suite.Run(t, new(InstrumentServiceTestSuite))
}

func (s *InstrumentServiceTestSuite) TestCreateAndList() {
	s.NoError(s.instrument.CreateInstrument(s.ctx, &models.Instrument{Ticker: "AAPL", Name: "Apple"}))
	s.NoError(s.instrument.CreateInstrument(s.ctx, &models.Instrument{Ticker: "MSFT", Name: "Microsoft"}))

	instruments, err := s.instrument.ListInstruments(s.ctx)
	s.NoError(err)
	s.Len(instruments, 2)
}

func (s *InstrumentServiceTestSuite) TestDuplicateTicker() {
	s.Require().NoError(s.instrument.CreateInstrument(s.ctx, &models.Instrument{Ticker: "AAPL", Name: "Apple"}))

	// The second listing loses on the primary key, not on a pre-check
	err := s.instrument.CreateInstrument(s.ctx, &models.Instrument{Ticker: "AAPL", Name: "Apple Again"})
	s.ErrorIs(err, ErrInstrumentExists)
}

func (s *InstrumentServiceTestSuite) TestInvalidTicker() {
	for _, ticker := range []string{"", "a", "toolongticker", "BTC1"} {
		err := s.instrument.CreateInstrument(s.ctx, &models.Instrument{Ticker: ticker, Name: "Bad"})
		s.Error(err, ticker)
	}
}

func (s *InstrumentServiceTestSuite) TestDeleteUnknown() {
	err := s.instrument.DeleteInstrument(s.ctx, "GHOST")
	s.ErrorIs(err, ErrInstrumentNotFound)
}
