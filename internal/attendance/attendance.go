// Package attendance defines the core domain types and role model.
// It has zero external dependencies — everything here is pure Go.
package attendance

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleTeam  Role = "team"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeam
}

type User struct {
	ID        string
	Email     string
	FullName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthUser is the identity attached to an authenticated session.
type AuthUser struct {
	ID       string
	Email    string
	FullName string
	Role     Role
}

type Studio struct {
	ID        string
	Name      string
	Tagline   string
	MapsURL   string
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Coordinate returns the studio's position. ok is false when either
// component is missing; a half-specified coordinate counts as missing.
func (s Studio) Coordinate() (lat, lon float64, ok bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return 0, 0, false
	}
	return *s.Latitude, *s.Longitude, true
}

type CheckIn struct {
	ID        string
	UserID    string
	StudioID  string
	DistanceM float64
	CreatedAt time.Time
}
