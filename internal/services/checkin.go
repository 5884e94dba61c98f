package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"doorlist/internal/domain"
	"doorlist/internal/metrics"
)

type checkInService struct {
	eventRepo      domain.EventRepository
	guestRepo      domain.GuestRepository
	guardRepo      domain.GuardRepository
	logger         *slog.Logger
	metrics        *metrics.Metrics
	contextTimeout time.Duration
}

// NewCheckInService creates the check-in engine with the given repositories.
func NewCheckInService(
	eventRepo domain.EventRepository,
	guestRepo domain.GuestRepository,
	guardRepo domain.GuardRepository,
	logger *slog.Logger,
	m *metrics.Metrics,
	timeout time.Duration,
) domain.CheckInService {
	return &checkInService{
		eventRepo:      eventRepo,
		guestRepo:      guestRepo,
		guardRepo:      guardRepo,
		logger:         logger,
		metrics:        m,
		contextTimeout: timeout,
	}
}

func (s *checkInService) CheckIn(ctx context.Context, eventID, code, guardID string) (*domain.Guest, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}

	// Authorization is a live existence check, never cached: revoking a
	// guard must take effect on their next scan.
	if event.OwnerID != guardID {
		assigned, err := s.guardRepo.Exists(ctx, eventID, guardID)
		if err != nil {
			return nil, false, fmt.Errorf("check guard assignment: %w", err)
		}
		if !assigned {
			return nil, false, domain.ErrNotAuthorized
		}
	}

	guest, err := s.guestRepo.CheckInByCode(ctx, eventID, code, guardID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			// Benign double scan: hand back the existing record.
			if s.metrics != nil {
				s.metrics.CheckInReplays.Inc()
			}
			return guest, false, nil
		}
		if errors.Is(err, domain.ErrCodeNotFound) {
			return nil, false, domain.ErrCodeNotFound
		}
		if errors.Is(err, domain.ErrInvariantViolation) {
			s.logger.ErrorContext(ctx, "counter invariant violated on check-in",
				"event_id", eventID, "guard_id", guardID, "delta", 1)
			return nil, false, domain.ErrInvariantViolation
		}
		return nil, false, fmt.Errorf("check in guest: %w", err)
	}
	if s.metrics != nil {
		s.metrics.CheckIns.Inc()
	}
	return guest, true, nil
}
