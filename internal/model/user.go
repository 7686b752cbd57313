package model

import "time"

type Role string

const RoleLoggedUser Role = "LOGGED_USER"

type LoginProvider string

const ProviderGoogle LoginProvider = "GOOGLE"

// User holds the identity fields shared by both account kinds. Ids are
// uuid strings drawn from a single space, so an id resolves to exactly
// one of the two variants.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Account() User { return u }

// Authorities derives the authority strings granted by the user's role.
func (u User) Authorities() []string {
	return []string{"ROLE_" + string(u.Role)}
}

// Principal is an authenticated identity, internal or external. Both
// variants embed User, which provides the implementation.
type Principal interface {
	Account() User
	Authorities() []string
}

// InternalUser is a self-registered account with a password.
type InternalUser struct {
	User
	PasswordHash string `json:"-"`
}

// ExternalUser is an account provisioned by an identity provider on
// first login. It never carries a password.
type ExternalUser struct {
	User
	ExternalID string        `json:"external_id"`
	Provider   LoginProvider `json:"provider"`
}
