package domain

import "time"

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

// DefaultRole is assigned when registration omits a role.
const DefaultRole = RoleFreelancer

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleFreelancer
}

// User is the domain model for marketplace accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Bio          *string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicProfile is the projection of a user that is safe to expose.
type PublicProfile struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Bio       *string
	AvatarURL *string
}

// Public returns the exposable projection of the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
	}
}
