package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"doorlist/internal/domain"
)

// In-memory fakes backing the service tests. They share one mutex and one
// event map so counter updates and guest writes stay consistent even when a
// test hammers them from many goroutines.

type mockStore struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	guests map[string]*domain.Guest
	guards map[string]bool // eventID:userID
	users  map[string]*domain.User
	seq    int
}

func newMockStore() *mockStore {
	return &mockStore{
		events: make(map[string]*domain.Event),
		guests: make(map[string]*domain.Guest),
		guards: make(map[string]bool),
		users:  make(map[string]*domain.User),
	}
}

func (s *mockStore) addEvent(ev *domain.Event) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = ev
	return ev
}

func (s *mockStore) addUser(u *domain.User) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return u
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type mockEventRepository struct {
	store *mockStore
	err   error
}

func (m *mockEventRepository) Create(ctx context.Context, ev *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	ev.ID = m.store.nextID("ev")
	m.store.events[ev.ID] = ev
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	ev, ok := m.store.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ev
	return &cp, nil
}

func (m *mockEventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := []*domain.Event{}
	for _, ev := range m.store.events {
		if ev.OwnerID == ownerID {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockEventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	ev, ok := m.store.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		ev.Name = *upd.Name
	}
	if upd.Status != nil {
		ev.Status = *upd.Status
	}
	if upd.Capacity != nil {
		ev.Capacity = *upd.Capacity
	}
	cp := *ev
	return &cp, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store.events, id)
	return nil
}

type mockGuestRepository struct {
	store *mockStore
	err   error
}

func (m *mockGuestRepository) CreateWithCount(ctx context.Context, guest *domain.Guest, enforceCapacity bool) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	ev, ok := m.store.events[guest.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	if enforceCapacity && ev.TotalInvited >= ev.Capacity {
		return domain.ErrCapacityExceeded
	}
	if guest.UserID != nil {
		for _, g := range m.store.guests {
			if g.EventID == guest.EventID && g.UserID != nil && *g.UserID == *guest.UserID {
				return domain.ErrAlreadyRegistered
			}
		}
	}
	guest.ID = m.store.nextID("g")
	m.store.guests[guest.ID] = guest
	ev.TotalInvited++
	return nil
}

func (m *mockGuestRepository) DeleteWithCount(ctx context.Context, eventID, guestID string) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	g, ok := m.store.guests[guestID]
	if !ok || g.EventID != eventID {
		return domain.ErrNotFound
	}
	delete(m.store.guests, guestID)
	ev := m.store.events[eventID]
	if ev != nil {
		ev.TotalInvited--
		if g.CheckedIn {
			ev.TotalCheckedIn--
		}
	}
	return nil
}

func (m *mockGuestRepository) CheckInByCode(ctx context.Context, eventID, code, guardID string, at time.Time) (*domain.Guest, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, g := range m.store.guests {
		if g.EventID != eventID || g.Code != code {
			continue
		}
		if g.CheckedIn {
			cp := *g
			return &cp, domain.ErrAlreadyCheckedIn
		}
		g.CheckedIn = true
		g.CheckedInAt = &at
		g.CheckedInBy = &guardID
		if ev := m.store.events[eventID]; ev != nil {
			ev.TotalCheckedIn++
		}
		cp := *g
		return &cp, nil
	}
	return nil, domain.ErrCodeNotFound
}

func (m *mockGuestRepository) GetByID(ctx context.Context, eventID, guestID string) (*domain.Guest, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	g, ok := m.store.guests[guestID]
	if !ok || g.EventID != eventID {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *mockGuestRepository) GetByCode(ctx context.Context, eventID, code string) (*domain.Guest, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, g := range m.store.guests {
		if g.EventID == eventID && g.Code == code {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrCodeNotFound
}

func (m *mockGuestRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Guest, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, g := range m.store.guests {
		if g.EventID == eventID && g.UserID != nil && *g.UserID == userID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockGuestRepository) Update(ctx context.Context, eventID, guestID string, upd domain.GuestUpdate) (*domain.Guest, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	g, ok := m.store.guests[guestID]
	if !ok || g.EventID != eventID {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		g.Name = *upd.Name
	}
	if upd.Companions != nil {
		g.Companions = *upd.Companions
	}
	if upd.Status != nil {
		g.Status = *upd.Status
	}
	if upd.Note != nil {
		g.Note = upd.Note
	}
	cp := *g
	return &cp, nil
}

func (m *mockGuestRepository) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Guest, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := []*domain.Guest{}
	for _, g := range m.store.guests {
		if g.EventID != eventID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockGuestRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Guest, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := []*domain.Guest{}
	for _, g := range m.store.guests {
		if g.UserID != nil && *g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockGuardRepository struct {
	store *mockStore
	err   error
}

func guardKey(eventID, userID string) string { return eventID + ":" + userID }

func (m *mockGuardRepository) Add(ctx context.Context, eventID, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	key := guardKey(eventID, userID)
	if m.store.guards[key] {
		return domain.ErrAlreadyAssigned
	}
	m.store.guards[key] = true
	return nil
}

func (m *mockGuardRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Guard, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := []*domain.Guard{}
	for key := range m.store.guards {
		if strings.HasPrefix(key, eventID+":") {
			out = append(out, &domain.Guard{EventID: eventID, UserID: strings.TrimPrefix(key, eventID+":")})
		}
	}
	return out, nil
}

func (m *mockGuardRepository) Remove(ctx context.Context, eventID, userID string) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	key := guardKey(eventID, userID)
	if !m.store.guards[key] {
		return domain.ErrNotFound
	}
	delete(m.store.guards, key)
	return nil
}

func (m *mockGuardRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.guards[guardKey(eventID, userID)], nil
}

type mockUserRepository struct {
	store *mockStore
	err   error
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, existing := range m.store.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = m.store.nextID("user")
	m.store.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, u := range m.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	u, ok := m.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type mockCodeIssuer struct {
	mu  sync.Mutex
	seq int
}

func (m *mockCodeIssuer) Issue() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("code-%d", m.seq)
}

type mockEmailService struct {
	mu   sync.Mutex
	sent []*domain.GuardAssignmentEmailData
	err  error
}

func (m *mockEmailService) SendGuardAssignment(ctx context.Context, data *domain.GuardAssignmentEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return nil
}
