package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-event-planner/internal/event"
	"go-event-planner/internal/model"
)

type eventStore interface {
	Create(ctx context.Context, e model.Event) error
	FindByID(ctx context.Context, id string) (model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Event, error)
	Update(ctx context.Context, e model.Event) error
	Delete(ctx context.Context, id string) error
}

type EventService struct {
	events eventStore
	bus    event.Bus
}

func NewEventService(events eventStore, bus event.Bus) *EventService {
	return &EventService{events: events, bus: bus}
}

func (s *EventService) Create(ctx context.Context, ownerID string, req model.EventRequest) (model.Event, error) {
	if err := validateEventRequest(req); err != nil {
		return model.Event{}, err
	}

	now := time.Now().UTC()
	e := model.Event{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.events.Create(ctx, e); err != nil {
		return model.Event{}, err
	}

	s.bus.Publish(event.New(event.TypeEventCreated, e, ownerID))
	return e, nil
}

func (s *EventService) Get(ctx context.Context, id string) (model.Event, error) {
	return s.events.FindByID(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

func (s *EventService) ListOwned(ctx context.Context, ownerID string) ([]model.Event, error) {
	return s.events.ListByOwner(ctx, ownerID)
}

// Update edits an event; only the owner may do so.
func (s *EventService) Update(ctx context.Context, actorID string, id string, req model.EventRequest) (model.Event, error) {
	if err := validateEventRequest(req); err != nil {
		return model.Event{}, err
	}

	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if e.OwnerID != actorID {
		return model.Event{}, model.ErrForbidden
	}

	e.Name = strings.TrimSpace(req.Name)
	e.Description = strings.TrimSpace(req.Description)
	e.Location = strings.TrimSpace(req.Location)
	e.StartTime = req.StartTime
	e.EndTime = req.EndTime
	e.Capacity = req.Capacity
	e.UpdatedAt = time.Now().UTC()

	if err := s.events.Update(ctx, e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// Delete removes an event; only the owner may do so.
func (s *EventService) Delete(ctx context.Context, actorID string, id string) error {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e.OwnerID != actorID {
		return model.ErrForbidden
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypeEventDeleted, e, actorID))
	return nil
}

func validateEventRequest(req model.EventRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return model.ErrInvalidInput
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return model.ErrInvalidInput
	}
	if req.Capacity < 0 {
		return model.ErrInvalidInput
	}
	return nil
}
