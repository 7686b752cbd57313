package service

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-event-planner/internal/event"
	"go-event-planner/internal/model"
)

// ExternalUserService provisions accounts for identities arriving from an
// external provider.
type ExternalUserService struct {
	users    userStore
	external externalUserStore
	bus      event.Bus
}

func NewExternalUserService(users userStore, external externalUserStore, bus event.Bus) *ExternalUserService {
	return &ExternalUserService{users: users, external: external, bus: bus}
}

// ResolveOrCreate returns the account bound to the provider subject,
// creating it lazily on first login. Two concurrent first logins are
// settled by the unique index on the provider subject: the loser re-reads
// the winner's row instead of failing.
func (s *ExternalUserService) ResolveOrCreate(ctx context.Context, claims model.ProviderClaims) (model.ExternalUser, error) {
	existing, err := s.external.FindByExternalID(ctx, claims.Subject)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return model.ExternalUser{}, err
	}

	username, err := s.deriveUsername(ctx, claims.Email)
	if err != nil {
		return model.ExternalUser{}, err
	}

	now := time.Now().UTC()
	user := model.ExternalUser{
		User: model.User{
			ID:        uuid.NewString(),
			Username:  username,
			Firstname: claims.GivenName,
			Lastname:  claims.FamilyName,
			Email:     claims.Email,
			Role:      model.RoleLoggedUser,
			CreatedAt: now,
			UpdatedAt: now,
		},
		ExternalID: claims.Subject,
		Provider:   claims.Provider,
	}

	if err := s.external.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return s.external.FindByExternalID(ctx, claims.Subject)
		}
		return model.ExternalUser{}, err
	}

	s.bus.Publish(event.New(event.TypeUserRegistered, user.User, user.ID))
	return user, nil
}

// deriveUsername starts from the email local-part and appends random
// digits until the name is free. An @ is inserted once so derived names
// cannot shadow a plausible future local-part.
func (s *ExternalUserService) deriveUsername(ctx context.Context, email string) (string, error) {
	username, _, _ := strings.Cut(email, "@")
	for {
		taken, err := s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}

		if !strings.Contains(username, "@") {
			username += "@"
		}
		username += strconv.Itoa(rand.Intn(8) + 1)
	}
}
