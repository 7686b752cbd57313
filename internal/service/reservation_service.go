package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-event-planner/internal/event"
	"go-event-planner/internal/model"
)

type reservationStore interface {
	Create(ctx context.Context, res model.Reservation) error
	FindByID(ctx context.Context, id string) (model.Reservation, error)
	FindByCode(ctx context.Context, code string) (model.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	ExistsByEventAndUser(ctx context.Context, eventID string, userID string) (bool, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	MarkAttended(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ReservationService struct {
	reservations reservationStore
	events       eventStore
	bus          event.Bus
}

func NewReservationService(reservations reservationStore, events eventStore, bus event.Bus) *ReservationService {
	return &ReservationService{reservations: reservations, events: events, bus: bus}
}

// Reserve claims a seat: one per user per event, never on the user's own
// event, bounded by capacity when the event has one. The code is the
// opaque value a ticket encodes for check-in.
func (s *ReservationService) Reserve(ctx context.Context, userID string, eventID string) (model.Reservation, error) {
	e, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return model.Reservation{}, err
	}
	if e.OwnerID == userID {
		return model.Reservation{}, model.ErrOwnEventReservation
	}

	exists, err := s.reservations.ExistsByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return model.Reservation{}, err
	}
	if exists {
		return model.Reservation{}, model.ErrAlreadyReserved
	}

	if e.Capacity > 0 {
		count, err := s.reservations.CountByEvent(ctx, eventID)
		if err != nil {
			return model.Reservation{}, err
		}
		if count >= e.Capacity {
			return model.Reservation{}, model.ErrEventFull
		}
	}

	res := model.Reservation{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    userID,
		Code:      uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		return model.Reservation{}, err
	}

	s.bus.Publish(event.New(event.TypeReservationCreated, res, userID))
	return res, nil
}

func (s *ReservationService) ListOwn(ctx context.Context, userID string) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// Cancel removes one of the caller's own reservations.
func (s *ReservationService) Cancel(ctx context.Context, userID string, reservationID string) error {
	res, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.UserID != userID {
		return model.ErrForbidden
	}

	if err := s.reservations.Delete(ctx, reservationID); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypeReservationCancelled, res, userID))
	return nil
}

// CheckIn marks a reservation attended from a scanned code. Only the
// event owner may check guests in, and a code checks in once.
func (s *ReservationService) CheckIn(ctx context.Context, actorID string, code string) (model.Reservation, error) {
	res, err := s.reservations.FindByCode(ctx, code)
	if err != nil {
		return model.Reservation{}, err
	}

	e, err := s.events.FindByID(ctx, res.EventID)
	if err != nil {
		return model.Reservation{}, err
	}
	if e.OwnerID != actorID {
		return model.Reservation{}, model.ErrForbidden
	}

	if err := s.reservations.MarkAttended(ctx, res.ID); err != nil {
		return model.Reservation{}, err
	}
	res.Attended = true

	s.bus.Publish(event.New(event.TypeReservationCheckedIn, res, actorID))
	return res, nil
}
