package server

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fahroox/attendance/internal/attendance"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// parseTime reads the strftime('%Y-%m-%dT%H:%M:%fZ') format the schema
// defaults produce.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func scanUser(row interface{ Scan(...any) error }) (attendance.User, error) {
	var u attendance.User
	var role, createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &role, &createdAt, &updatedAt)
	if err != nil {
		return u, err
	}
	u.Role = attendance.Role(role)
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return u, nil
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (attendance.User, string, error) {
	var hash string
	var u attendance.User
	var role, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, role, created_at, updated_at, password_hash
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.FullName, &role, &createdAt, &updatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return u, "", ErrNotFound
	}
	if err != nil {
		return u, "", err
	}
	u.Role = attendance.Role(role)
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return u, hash, nil
}

func (s *SQLiteStore) UserBySession(ctx context.Context, sessionID string) (attendance.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.full_name, u.role, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return u, errNoSession
	}
	return u, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sessions (user_id)
		VALUES (?)
		RETURNING id
	`, userID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]attendance.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, full_name, role, created_at, updated_at
		FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []attendance.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (attendance.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, role, created_at, updated_at
		FROM users WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash, fullName string, role attendance.Role) (attendance.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES (?, ?, ?, ?)
		RETURNING id, email, full_name, role, created_at, updated_at
	`, email, passwordHash, fullName, string(role)))
	return u, err
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, id, email, fullName string, role attendance.Role) (attendance.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users
		SET email = ?, full_name = ?, role = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
		RETURNING id, email, full_name, role, created_at, updated_at
	`, email, fullName, string(role), id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func scanStudio(row interface{ Scan(...any) error }) (attendance.Studio, error) {
	var st attendance.Studio
	var lat, lon sql.NullFloat64
	var createdAt, updatedAt string
	err := row.Scan(&st.ID, &st.Name, &st.Tagline, &st.MapsURL, &lat, &lon, &createdAt, &updatedAt)
	if err != nil {
		return st, err
	}
	if lat.Valid {
		st.Latitude = &lat.Float64
	}
	if lon.Valid {
		st.Longitude = &lon.Float64
	}
	st.CreatedAt = parseTime(createdAt)
	st.UpdatedAt = parseTime(updatedAt)
	return st, nil
}

const studioColumns = `id, name, tagline, maps_url, latitude, longitude, created_at, updated_at`

func (s *SQLiteStore) ListStudios(ctx context.Context) ([]attendance.Studio, error) {
	return s.queryStudios(ctx, `SELECT `+studioColumns+` FROM studios ORDER BY created_at DESC`)
}

func (s *SQLiteStore) ListLocatedStudios(ctx context.Context) ([]attendance.Studio, error) {
	return s.queryStudios(ctx, `
		SELECT `+studioColumns+` FROM studios
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY created_at DESC
	`)
}

func (s *SQLiteStore) queryStudios(ctx context.Context, query string) ([]attendance.Studio, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var studios []attendance.Studio
	for rows.Next() {
		st, err := scanStudio(rows)
		if err != nil {
			return nil, err
		}
		studios = append(studios, st)
	}
	return studios, rows.Err()
}

func (s *SQLiteStore) GetStudio(ctx context.Context, id string) (attendance.Studio, error) {
	st, err := scanStudio(s.db.QueryRowContext(ctx, `
		SELECT `+studioColumns+` FROM studios WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return st, ErrNotFound
	}
	return st, err
}

func (s *SQLiteStore) CreateStudio(ctx context.Context, in attendance.Studio) (attendance.Studio, error) {
	st, err := scanStudio(s.db.QueryRowContext(ctx, `
		INSERT INTO studios (name, tagline, maps_url, latitude, longitude)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+studioColumns+`
	`, in.Name, in.Tagline, in.MapsURL, nullable(in.Latitude), nullable(in.Longitude)))
	return st, err
}

func (s *SQLiteStore) UpdateStudio(ctx context.Context, id string, in attendance.Studio) (attendance.Studio, error) {
	st, err := scanStudio(s.db.QueryRowContext(ctx, `
		UPDATE studios
		SET name = ?, tagline = ?, maps_url = ?, latitude = ?, longitude = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
		RETURNING `+studioColumns+`
	`, in.Name, in.Tagline, in.MapsURL, nullable(in.Latitude), nullable(in.Longitude), id))
	if errors.Is(err, sql.ErrNoRows) {
		return st, ErrNotFound
	}
	return st, err
}

func (s *SQLiteStore) DeleteStudio(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM studios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func (s *SQLiteStore) CreateCheckIn(ctx context.Context, userID, studioID string, distanceM float64) (attendance.CheckIn, error) {
	var c attendance.CheckIn
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO checkins (user_id, studio_id, distance_m)
		VALUES (?, ?, ?)
		RETURNING id, user_id, studio_id, distance_m, created_at
	`, userID, studioID, distanceM).Scan(&c.ID, &c.UserID, &c.StudioID, &c.DistanceM, &createdAt)
	if err != nil {
		return c, err
	}
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func (s *SQLiteStore) ListCheckIns(ctx context.Context) ([]CheckInRecord, error) {
	return s.queryCheckIns(ctx, `
		SELECT c.id, u.email, u.full_name, st.name, c.distance_m, c.created_at
		FROM checkins c
		JOIN users u ON u.id = c.user_id
		JOIN studios st ON st.id = c.studio_id
		ORDER BY c.created_at DESC
	`)
}

func (s *SQLiteStore) ListUserCheckIns(ctx context.Context, userID string) ([]CheckInRecord, error) {
	return s.queryCheckIns(ctx, `
		SELECT c.id, u.email, u.full_name, st.name, c.distance_m, c.created_at
		FROM checkins c
		JOIN users u ON u.id = c.user_id
		JOIN studios st ON st.id = c.studio_id
		WHERE c.user_id = ?
		ORDER BY c.created_at DESC
	`, userID)
}

func (s *SQLiteStore) queryCheckIns(ctx context.Context, query string, args ...any) ([]CheckInRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CheckInRecord
	for rows.Next() {
		var rec CheckInRecord
		if err := rows.Scan(&rec.ID, &rec.UserEmail, &rec.UserName, &rec.StudioName, &rec.DistanceM, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
