package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-event-planner/internal/event"
	"go-event-planner/internal/model"
)

const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^(.+)@(\S+)$`)

type userStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id string) error
}

type internalUserStore interface {
	FindByID(ctx context.Context, id string) (model.InternalUser, error)
	FindByUsername(ctx context.Context, username string) (model.InternalUser, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, u model.InternalUser) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}

type externalUserStore interface {
	FindByID(ctx context.Context, id string) (model.ExternalUser, error)
	FindByExternalID(ctx context.Context, externalID string) (model.ExternalUser, error)
	Create(ctx context.Context, u model.ExternalUser) error
}

// UserService resolves principal ids against the two physically separate
// stores and manages internal accounts.
type UserService struct {
	users    userStore
	internal internalUserStore
	external externalUserStore
	bus      event.Bus

	// Compared against when the username is unknown, so credential checks
	// take the same time whether the user exists or not.
	dummyHash []byte
}

func NewUserService(users userStore, internal internalUserStore, external externalUserStore, bus event.Bus) *UserService {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		dummyHash = nil
	}

	return &UserService{
		users:     users,
		internal:  internal,
		external:  external,
		bus:       bus,
		dummyHash: dummyHash,
	}
}

// GetByID resolves an id to its principal. The internal store is checked
// first, then the external one; ids live in a single space, so at most
// one of the two can match.
func (s *UserService) GetByID(ctx context.Context, id string) (model.Principal, error) {
	internal, err := s.internal.FindByID(ctx, id)
	if err == nil {
		return internal, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	external, err := s.external.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return external, nil
}

// VerifyCredentials checks a username/password pair. Unknown user and
// wrong password are indistinguishable to the caller.
func (s *UserService) VerifyCredentials(ctx context.Context, username string, password string) (model.InternalUser, error) {
	user, err := s.internal.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return model.InternalUser{}, model.ErrInvalidCredentials
		}
		return model.InternalUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.InternalUser{}, model.ErrInvalidCredentials
	}

	return user, nil
}

// Register creates a new internal account from a self-registration.
func (s *UserService) Register(ctx context.Context, req model.RegistrationRequest) (model.InternalUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || strings.TrimSpace(req.Firstname) == "" || strings.TrimSpace(req.Lastname) == "" {
		return model.InternalUser{}, model.ErrInvalidInput
	}
	if err := checkEmail(req.Email); err != nil {
		return model.InternalUser{}, err
	}
	if err := checkPassword(req.Password, req.ConfirmPassword); err != nil {
		return model.InternalUser{}, err
	}

	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return model.InternalUser{}, err
	}
	if taken {
		return model.InternalUser{}, model.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.InternalUser{}, err
	}

	now := time.Now().UTC()
	user := model.InternalUser{
		User: model.User{
			ID:        uuid.NewString(),
			Username:  req.Username,
			Firstname: strings.TrimSpace(req.Firstname),
			Lastname:  strings.TrimSpace(req.Lastname),
			Email:     strings.TrimSpace(req.Email),
			Role:      model.RoleLoggedUser,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: string(hash),
	}

	if err := s.internal.Create(ctx, user); err != nil {
		return model.InternalUser{}, err
	}

	s.bus.Publish(event.New(event.TypeUserRegistered, user.User, user.ID))
	return user, nil
}

// ChangePassword rotates an internal account's password: the old password
// must match, the new one must differ from it, the confirmation must
// match and the strength policy applies.
func (s *UserService) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) error {
	user, err := s.internal.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return model.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.NewPassword)) == nil {
		return model.ErrInvalidInput
	}
	if err := checkPassword(req.NewPassword, req.ConfirmNewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return err
	}

	return s.internal.UpdatePassword(ctx, userID, string(hash))
}

// UpdateProfile edits the common identity fields. Email is only editable
// for internal accounts; external accounts keep the provider's email.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req model.UserUpdateRequest) (model.User, error) {
	principal, err := s.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	account := principal.Account()
	if req.Username != "" && !strings.EqualFold(req.Username, account.Username) {
		taken, err := s.users.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return model.User{}, err
		}
		if taken {
			return model.User{}, model.ErrUserAlreadyExists
		}
		account.Username = strings.TrimSpace(req.Username)
	}

	if _, isInternal := principal.(model.InternalUser); isInternal && req.Email != "" {
		if err := checkEmail(req.Email); err != nil {
			return model.User{}, err
		}
		account.Email = strings.TrimSpace(req.Email)
	}

	if req.Firstname != "" {
		account.Firstname = strings.TrimSpace(req.Firstname)
	}
	if req.Lastname != "" {
		account.Lastname = strings.TrimSpace(req.Lastname)
	}

	if err := s.users.UpdateProfile(ctx, account); err != nil {
		return model.User{}, err
	}
	return account, nil
}

// DeleteAccount removes an internal account and everything hanging off
// it. Externally provisioned accounts are never deleted through this
// flow.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	isInternal, err := s.internal.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !isInternal {
		return model.ErrForbidden
	}

	return s.users.Delete(ctx, userID)
}

func checkEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return model.ErrInvalidInput
	}
	return nil
}

// checkPassword enforces the strength policy: at least 8 characters with
// at least one letter and one digit, and a matching confirmation.
func checkPassword(password string, confirm string) error {
	if len(password) < 8 {
		return model.ErrInvalidInput
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return model.ErrInvalidInput
	}

	if password != confirm {
		return model.ErrInvalidInput
	}
	return nil
}
