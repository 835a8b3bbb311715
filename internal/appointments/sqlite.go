package appointments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/telecare/signaling/internal/domain"
)

// SQLStore resolves appointments straight from the clinic database.
// Read-only: the signaling server opens the file but only ever SELECTs.
type SQLStore struct {
	db *sql.DB
}

func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open appointment db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping appointment db: %w", err)
	}
	log.Info().Str("module", "appointments").Str("dsn", dsn).Msg("appointment store opened")
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

const resolveQuery = `
SELECT id, patient_user_id, doctor_user_id, status, COALESCE(meeting_room_id, '')
FROM appointments
WHERE meeting_room_id = ? OR id = ?
LIMIT 1`

func (s *SQLStore) ResolveByRoomKey(ctx context.Context, key domain.RoomID) (*domain.Appointment, error) {
	var a domain.Appointment
	row := s.db.QueryRowContext(ctx, resolveQuery, string(key), string(key))
	err := row.Scan(&a.ID, &a.PatientUserID, &a.DoctorUserID, &a.Status, &a.MeetingRoomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve room key %q: %w", key, err)
	}
	return &a, nil
}
