package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"doorlist/internal/domain"
	"doorlist/internal/metrics"
)

type guestService struct {
	eventRepo      domain.EventRepository
	guestRepo      domain.GuestRepository
	guardRepo      domain.GuardRepository
	userRepo       domain.UserRepository
	codeIssuer     domain.CodeIssuer
	logger         *slog.Logger
	metrics        *metrics.Metrics
	contextTimeout time.Duration
}

// NewGuestService creates a GuestService with the given repositories and the
// code issuer used to mint identity codes.
func NewGuestService(
	eventRepo domain.EventRepository,
	guestRepo domain.GuestRepository,
	guardRepo domain.GuardRepository,
	userRepo domain.UserRepository,
	codeIssuer domain.CodeIssuer,
	logger *slog.Logger,
	m *metrics.Metrics,
	timeout time.Duration,
) domain.GuestService {
	return &guestService{
		eventRepo:      eventRepo,
		guestRepo:      guestRepo,
		guardRepo:      guardRepo,
		userRepo:       userRepo,
		codeIssuer:     codeIssuer,
		logger:         logger,
		metrics:        m,
		contextTimeout: timeout,
	}
}

func (s *guestService) RegisterGuest(ctx context.Context, eventID, ownerID, name string, companions int, note *string, override bool) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	name = strings.TrimSpace(name)
	if name == "" || companions < 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	guest := domain.NewGuest(eventID, name, s.codeIssuer.Issue(), companions, domain.InvitationStatusPending, now, now)
	guest.Note = note

	if err := s.guestRepo.CreateWithCount(ctx, guest, !override); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrCapacityExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("create guest: %w", err)
	}
	if s.metrics != nil {
		s.metrics.GuestsRegistered.Inc()
	}
	return guest, nil
}

func (s *guestService) ConfirmAttendance(ctx context.Context, eventID, userID string, companions int) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if companions < 0 {
		return nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status == domain.EventStatusCanceled {
		return nil, domain.ErrInvalidInput
	}

	// Fast path: reject an obvious duplicate before writing anything. The
	// unique (event_id, user_id) index inside CreateWithCount closes the
	// race this check leaves open.
	if _, err := s.guestRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get guest registration: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	guest := domain.NewGuest(eventID, user.DisplayName(), s.codeIssuer.Issue(), companions, domain.InvitationStatusConfirmed, now, now)
	guest.UserID = &user.ID

	if err := s.guestRepo.CreateWithCount(ctx, guest, true); err != nil {
		if errors.Is(err, domain.ErrNotFound) ||
			errors.Is(err, domain.ErrCapacityExceeded) ||
			errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("create guest: %w", err)
	}
	if s.metrics != nil {
		s.metrics.GuestsRegistered.Inc()
	}
	return guest, nil
}

func (s *guestService) UpdateGuest(ctx context.Context, eventID, guestID, ownerID string, upd domain.GuestUpdate) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return nil, domain.ErrInvalidInput
		}
		upd.Name = &trimmed
	}
	if upd.Companions != nil && *upd.Companions < 0 {
		return nil, domain.ErrInvalidInput
	}
	if upd.Status != nil && !upd.Status.IsValid() {
		return nil, domain.ErrInvalidInput
	}

	guest, err := s.guestRepo.Update(ctx, eventID, guestID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return guest, nil
}

func (s *guestService) RemoveGuest(ctx context.Context, eventID, guestID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return domain.ErrForbidden
	}

	if err := s.guestRepo.DeleteWithCount(ctx, eventID, guestID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		if errors.Is(err, domain.ErrInvariantViolation) {
			s.logger.ErrorContext(ctx, "counter invariant violated on guest delete",
				"event_id", eventID, "guest_id", guestID, "delta", -1)
			return domain.ErrInvariantViolation
		}
		return fmt.Errorf("delete guest: %w", err)
	}
	if s.metrics != nil {
		s.metrics.GuestsRemoved.Inc()
	}
	return nil
}

func (s *guestService) ListGuests(ctx context.Context, eventID, callerID, search string, params domain.PaginationParams) ([]*domain.Guest, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		isGuard, err := s.guardRepo.Exists(ctx, eventID, callerID)
		if err != nil {
			return nil, 0, fmt.Errorf("check guard assignment: %w", err)
		}
		if !isGuard {
			return nil, 0, domain.ErrForbidden
		}
	}

	guests, total, err := s.guestRepo.ListByEventID(ctx, eventID, strings.TrimSpace(search), params)
	if err != nil {
		return nil, 0, fmt.Errorf("list guests: %w", err)
	}
	if guests == nil {
		guests = []*domain.Guest{}
	}
	return guests, total, nil
}

func (s *guestService) ListMyGuestRecords(ctx context.Context, userID string) ([]*domain.GuestWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guests, err := s.guestRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list guest records: %w", err)
	}

	// Fetch events one by one; the per-user list is small.
	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.GuestWithEvent, 0, len(guests))
	for _, g := range guests {
		ev, ok := eventsByID[g.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, g.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get event for guest record: %w", err)
			}
			eventsByID[g.EventID] = ev
		}
		result = append(result, &domain.GuestWithEvent{
			Guest: g,
			Event: ev,
		})
	}
	return result, nil
}
