package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"doorlist/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type guardService struct {
	eventRepo      domain.EventRepository
	guardRepo      domain.GuardRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	contextTimeout time.Duration
}

// NewGuardService creates a GuardService with the given repositories and the
// email service used to notify newly assigned guards.
func NewGuardService(
	eventRepo domain.EventRepository,
	guardRepo domain.GuardRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.GuardService {
	return &guardService{
		eventRepo:      eventRepo,
		guardRepo:      guardRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

func (s *guardService) AssignGuardByEmail(ctx context.Context, eventID, email, ownerID string) (*domain.Guard, error) {
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

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	// The owner already has door authority; assigning them is a caller bug.
	if user.ID == event.OwnerID {
		return nil, domain.ErrInvalidInput
	}

	if err := s.guardRepo.Add(ctx, eventID, user.ID); err != nil {
		if errors.Is(err, domain.ErrAlreadyAssigned) {
			return nil, domain.ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("add guard: %w", err)
	}

	ownerName := "The event organizer"
	if owner, err := s.userRepo.GetByID(ctx, ownerID); err == nil {
		ownerName = owner.DisplayName()
	}
	// Notification is best effort; the assignment stands even if it fails.
	_ = s.emailService.SendGuardAssignment(ctx, &domain.GuardAssignmentEmailData{
		Email:     user.Email,
		GuardName: user.DisplayName(),
		OwnerName: ownerName,
		EventName: event.Name,
	})

	return &domain.Guard{
		EventID:   eventID,
		UserID:    user.ID,
		Name:      user.Name,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}, nil
}

func (s *guardService) RevokeGuard(ctx context.Context, eventID, guardID, ownerID string) error {
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

	if err := s.guardRepo.Remove(ctx, eventID, guardID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove guard: %w", err)
	}
	return nil
}

func (s *guardService) ListGuards(ctx context.Context, eventID, ownerID string) ([]*domain.Guard, error) {
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

	guards, err := s.guardRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list guards: %w", err)
	}
	if guards == nil {
		guards = []*domain.Guard{}
	}
	return guards, nil
}

func (s *guardService) IsAuthorized(ctx context.Context, eventID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID == userID {
		return true, nil
	}
	return s.guardRepo.Exists(ctx, eventID, userID)
}
