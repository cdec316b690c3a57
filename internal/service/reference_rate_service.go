package service

import (
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/domain"
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReferenceRateService maintains the reference-rate table. Updates are
// broadcast over WebSocket so open calculator sessions can re-resolve
// package rates immediately.
type ReferenceRateService struct {
	refRateRepo domain.ReferenceRateRepository
	publisher   websocket.EventPublisher
}

// NewReferenceRateService creates a new ReferenceRateService
func NewReferenceRateService(refRateRepo domain.ReferenceRateRepository, publisher websocket.EventPublisher) *ReferenceRateService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &ReferenceRateService{
		refRateRepo: refRateRepo,
		publisher:   publisher,
	}
}

// GetRates retrieves the full reference-rate table
func (s *ReferenceRateService) GetRates() ([]*domain.ReferenceRate, error) {
	return s.refRateRepo.GetAll()
}

// UpdateRate sets the value for a reference rate type and notifies
// connected clients
func (s *ReferenceRateService) UpdateRate(rateType string, value decimal.Decimal) (*domain.ReferenceRate, error) {
	if rateType == "" {
		return nil, domain.ErrInvalidInput
	}
	if value.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	rate, err := s.refRateRepo.Upsert(rateType, value)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("rate_type", rate.RateType).
		Str("rate_value", rate.RateValue.String()).
		Msg("Reference rate updated")

	s.publisher.Publish(websocket.ReferenceRateUpdated(rate))
	return rate, nil
}
