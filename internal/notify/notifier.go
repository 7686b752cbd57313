package notify

import (
	"context"
	"log/slog"

	"go-event-planner/internal/event"
	"go-event-planner/internal/model"
)

// Notifier consumes domain events and records the notifications that
// would go out. Actual mail dispatch is an external collaborator; this
// keeps the hook point without binding an SMTP stack.
type Notifier struct {
	bus event.Bus
}

func New(bus event.Bus) *Notifier {
	return &Notifier{bus: bus}
}

// Run blocks until ctx is cancelled. Intended to be started as a
// goroutine alongside the server.
func (n *Notifier) Run(ctx context.Context) {
	ch, unsubscribe := n.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			n.handle(e)
		}
	}
}

func (n *Notifier) handle(e event.Event) {
	switch e.Type {
	case event.TypeUserRegistered:
		if user, ok := e.Payload.(model.User); ok {
			slog.Info("welcome notification queued", "user_id", user.ID, "email", user.Email)
		}
	case event.TypeReservationCreated:
		if res, ok := e.Payload.(model.Reservation); ok {
			slog.Info("reservation confirmation queued", "reservation_id", res.ID, "event_id", res.EventID)
		}
	case event.TypeReservationCheckedIn:
		if res, ok := e.Payload.(model.Reservation); ok {
			slog.Info("guest checked in", "reservation_id", res.ID, "event_id", res.EventID)
		}
	}
}
