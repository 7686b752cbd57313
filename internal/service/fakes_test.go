package service

import (
	"context"
	"strings"

	"go-event-planner/internal/event"
	"go-event-planner/internal/model"
)

// In-memory doubles for the store interfaces. They share one backing
// struct so the username space spans both account kinds, the way the
// database's base table does.

type fakeBus struct {
	published []event.Event
}

func (b *fakeBus) Publish(e event.Event) {
	b.published = append(b.published, e)
}

func (b *fakeBus) Subscribe() (<-chan event.Event, func()) {
	ch := make(chan event.Event)
	return ch, func() {}
}

type memBacking struct {
	internal map[string]model.InternalUser
	external map[string]model.ExternalUser
}

func newMemBacking() *memBacking {
	return &memBacking{
		internal: map[string]model.InternalUser{},
		external: map[string]model.ExternalUser{},
	}
}

func (m *memBacking) usernameTaken(username string) bool {
	for _, u := range m.internal {
		if strings.EqualFold(u.Username, username) {
			return true
		}
	}
	for _, u := range m.external {
		if strings.EqualFold(u.Username, username) {
			return true
		}
	}
	return false
}

type memUserStore struct {
	m *memBacking
}

func (s *memUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return s.m.usernameTaken(username), nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, u model.User) error {
	if existing, ok := s.m.internal[u.ID]; ok {
		existing.User = u
		s.m.internal[u.ID] = existing
		return nil
	}
	if existing, ok := s.m.external[u.ID]; ok {
		existing.User = u
		s.m.external[u.ID] = existing
		return nil
	}
	return model.ErrUserNotFound
}

func (s *memUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.m.internal[id]; ok {
		delete(s.m.internal, id)
		return nil
	}
	if _, ok := s.m.external[id]; ok {
		delete(s.m.external, id)
		return nil
	}
	return model.ErrUserNotFound
}

type memInternalStore struct {
	m *memBacking
}

func (s *memInternalStore) FindByID(_ context.Context, id string) (model.InternalUser, error) {
	u, ok := s.m.internal[id]
	if !ok {
		return model.InternalUser{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memInternalStore) FindByUsername(_ context.Context, username string) (model.InternalUser, error) {
	for _, u := range s.m.internal {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return model.InternalUser{}, model.ErrUserNotFound
}

func (s *memInternalStore) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := s.m.internal[id]
	return ok, nil
}

func (s *memInternalStore) Create(_ context.Context, u model.InternalUser) error {
	if s.m.usernameTaken(u.Username) {
		return model.ErrUserAlreadyExists
	}
	s.m.internal[u.ID] = u
	return nil
}

func (s *memInternalStore) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	u, ok := s.m.internal[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.m.internal[userID] = u
	return nil
}

type memExternalStore struct {
	m *memBacking
}

func (s *memExternalStore) FindByID(_ context.Context, id string) (model.ExternalUser, error) {
	u, ok := s.m.external[id]
	if !ok {
		return model.ExternalUser{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memExternalStore) FindByExternalID(_ context.Context, externalID string) (model.ExternalUser, error) {
	for _, u := range s.m.external {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return model.ExternalUser{}, model.ErrUserNotFound
}

func (s *memExternalStore) Create(_ context.Context, u model.ExternalUser) error {
	for _, existing := range s.m.external {
		if existing.ExternalID == u.ExternalID {
			return model.ErrUserAlreadyExists
		}
	}
	s.m.external[u.ID] = u
	return nil
}

type memEventStore struct {
	events map[string]model.Event
}

func newMemEventStore() *memEventStore {
	return &memEventStore{events: map[string]model.Event{}}
}

func (s *memEventStore) Create(_ context.Context, e model.Event) error {
	s.events[e.ID] = e
	return nil
}

func (s *memEventStore) FindByID(_ context.Context, id string) (model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return model.Event{}, model.ErrEventNotFound
	}
	return e, nil
}

func (s *memEventStore) List(_ context.Context) ([]model.Event, error) {
	out := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	return out, nil
}

func (s *memEventStore) ListByOwner(_ context.Context, ownerID string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range s.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memEventStore) Update(_ context.Context, e model.Event) error {
	if _, ok := s.events[e.ID]; !ok {
		return model.ErrEventNotFound
	}
	s.events[e.ID] = e
	return nil
}

func (s *memEventStore) Delete(_ context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return model.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

type memReservationStore struct {
	reservations map[string]model.Reservation
}

func newMemReservationStore() *memReservationStore {
	return &memReservationStore{reservations: map[string]model.Reservation{}}
}

func (s *memReservationStore) Create(_ context.Context, res model.Reservation) error {
	for _, existing := range s.reservations {
		if existing.EventID == res.EventID && existing.UserID == res.UserID {
			return model.ErrAlreadyReserved
		}
	}
	s.reservations[res.ID] = res
	return nil
}

func (s *memReservationStore) FindByID(_ context.Context, id string) (model.Reservation, error) {
	res, ok := s.reservations[id]
	if !ok {
		return model.Reservation{}, model.ErrReservationNotFound
	}
	return res, nil
}

func (s *memReservationStore) FindByCode(_ context.Context, code string) (model.Reservation, error) {
	for _, res := range s.reservations {
		if res.Code == code {
			return res, nil
		}
	}
	return model.Reservation{}, model.ErrReservationNotFound
}

func (s *memReservationStore) ListByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, res := range s.reservations {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *memReservationStore) ExistsByEventAndUser(_ context.Context, eventID string, userID string) (bool, error) {
	for _, res := range s.reservations {
		if res.EventID == eventID && res.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memReservationStore) CountByEvent(_ context.Context, eventID string) (int, error) {
	count := 0
	for _, res := range s.reservations {
		if res.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (s *memReservationStore) MarkAttended(_ context.Context, id string) error {
	res, ok := s.reservations[id]
	if !ok {
		return model.ErrReservationNotFound
	}
	if res.Attended {
		return model.ErrAlreadyCheckedIn
	}
	res.Attended = true
	s.reservations[id] = res
	return nil
}

func (s *memReservationStore) Delete(_ context.Context, id string) error {
	if _, ok := s.reservations[id]; !ok {
		return model.ErrReservationNotFound
	}
	delete(s.reservations, id)
	return nil
}
