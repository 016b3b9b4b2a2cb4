package server

import (
	"context"
	"errors"

	"github.com/fahroox/attendance/internal/attendance"
)

var ErrNotFound = errors.New("not found")

// CheckInRecord is a check-in joined with user and studio names for the
// admin report.
type CheckInRecord struct {
	ID         string
	UserEmail  string
	UserName   string
	StudioName string
	DistanceM  float64
	CreatedAt  string
}

type Store interface {
	UserByEmail(ctx context.Context, email string) (user attendance.User, passwordHash string, err error)
	UserBySession(ctx context.Context, sessionID string) (attendance.User, error)
	CreateSession(ctx context.Context, userID string) (sessionID string, err error)
	DeleteSession(ctx context.Context, sessionID string) error

	ListUsers(ctx context.Context) ([]attendance.User, error)
	GetUser(ctx context.Context, id string) (attendance.User, error)
	CreateUser(ctx context.Context, email, passwordHash, fullName string, role attendance.Role) (attendance.User, error)
	UpdateUser(ctx context.Context, id, email, fullName string, role attendance.Role) (attendance.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)

	ListStudios(ctx context.Context) ([]attendance.Studio, error)
	ListLocatedStudios(ctx context.Context) ([]attendance.Studio, error)
	GetStudio(ctx context.Context, id string) (attendance.Studio, error)
	CreateStudio(ctx context.Context, s attendance.Studio) (attendance.Studio, error)
	UpdateStudio(ctx context.Context, id string, s attendance.Studio) (attendance.Studio, error)
	DeleteStudio(ctx context.Context, id string) error

	CreateCheckIn(ctx context.Context, userID, studioID string, distanceM float64) (attendance.CheckIn, error)
	ListCheckIns(ctx context.Context) ([]CheckInRecord, error)
	ListUserCheckIns(ctx context.Context, userID string) ([]CheckInRecord, error)
}
