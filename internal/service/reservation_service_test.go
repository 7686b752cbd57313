package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-event-planner/internal/event"
	"go-event-planner/internal/model"
)

func newReservationServiceForTest() (*ReservationService, *memEventStore, *fakeBus) {
	events := newMemEventStore()
	bus := &fakeBus{}
	return NewReservationService(newMemReservationStore(), events, bus), events, bus
}

func seedEvent(events *memEventStore, id string, ownerID string, capacity int) {
	now := time.Now().UTC()
	events.events[id] = model.Event{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "Meetup",
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
		Capacity:  capacity,
	}
}

func TestReserve(t *testing.T) {
	svc, events, bus := newReservationServiceForTest()
	seedEvent(events, "evt-1", "owner-1", 0)
	ctx := context.Background()

	res, err := svc.Reserve(ctx, "guest-1", "evt-1")
	require.NoError(t, err)
	require.Equal(t, "evt-1", res.EventID)
	require.Equal(t, "guest-1", res.UserID)
	require.NotEmpty(t, res.Code)
	require.False(t, res.Attended)
	require.Len(t, bus.published, 1)
	require.Equal(t, event.TypeReservationCreated, bus.published[0].Type)
}

func TestReserveOwnEventRejected(t *testing.T) {
	svc, events, _ := newReservationServiceForTest()
	seedEvent(events, "evt-1", "owner-1", 0)

	_, err := svc.Reserve(context.Background(), "owner-1", "evt-1")
	require.ErrorIs(t, err, model.ErrOwnEventReservation)
}

func TestReserveTwiceRejected(t *testing.T) {
	svc, events, _ := newReservationServiceForTest()
	seedEvent(events, "evt-1", "owner-1", 0)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, "guest-1", "evt-1")
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, "guest-1", "evt-1")
	require.ErrorIs(t, err, model.ErrAlreadyReserved)
}

func TestReserveRespectsCapacity(t *testing.T) {
	svc, events, _ := newReservationServiceForTest()
	seedEvent(events, "evt-1", "owner-1", 2)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, "guest-1", "evt-1")
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, "guest-2", "evt-1")
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, "guest-3", "evt-1")
	require.ErrorIs(t, err, model.ErrEventFull)
}

func TestReserveUnknownEvent(t *testing.T) {
	svc, _, _ := newReservationServiceForTest()

	_, err := svc.Reserve(context.Background(), "guest-1", "missing")
	require.ErrorIs(t, err, model.ErrEventNotFound)
}

func TestCancelOnlyOwnReservation(t *testing.T) {
	svc, events, _ := newReservationServiceForTest()
	seedEvent(events, "evt-1", "owner-1", 0)
	ctx := context.Background()

	res, err := svc.Reserve(ctx, "guest-1", "evt-1")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Cancel(ctx, "guest-2", res.ID), model.ErrForbidden)
	require.NoError(t, svc.Cancel(ctx, "guest-1", res.ID))

	remaining, err := svc.ListOwn(ctx, "guest-1")
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestCheckIn(t *testing.T) {
	svc, events, _ := newReservationServiceForTest()
	seedEvent(events, "evt-1", "owner-1", 0)
	ctx := context.Background()

	res, err := svc.Reserve(ctx, "guest-1", "evt-1")
	require.NoError(t, err)

	// Only the event owner can check guests in.
	_, err = svc.CheckIn(ctx, "guest-1", res.Code)
	require.ErrorIs(t, err, model.ErrForbidden)

	checked, err := svc.CheckIn(ctx, "owner-1", res.Code)
	require.NoError(t, err)
	require.True(t, checked.Attended)

	// A code checks in exactly once.
	_, err = svc.CheckIn(ctx, "owner-1", res.Code)
	require.ErrorIs(t, err, model.ErrAlreadyCheckedIn)

	_, err = svc.CheckIn(ctx, "owner-1", "unknown-code")
	require.ErrorIs(t, err, model.ErrReservationNotFound)
}
