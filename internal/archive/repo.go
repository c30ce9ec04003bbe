package archive

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vedohany200-source/attendance-system/internal/attendance"
)

// Repository keeps a long-term Postgres copy of closed attendance records
// for reporting, outliving whatever the real-time store retains.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Entry is one archived attendance record.
type Entry struct {
	ID           string     `json:"id"`
	DoctorCode   string     `json:"doctor_code"`
	DoctorName   string     `json:"doctor_name"`
	Date         string     `json:"date"`
	CheckIn      *time.Time `json:"check_in,omitempty"`
	CheckOut     *time.Time `json:"check_out,omitempty"`
	WorkingHours string     `json:"working_hours"`
	ArchivedAt   time.Time  `json:"archived_at"`
}

// InsertClosed stores a closed record.
func (r *Repository) InsertClosed(ctx context.Context, rec attendance.Record) error {
	var checkIn, checkOut *time.Time
	if !rec.CheckIn.IsZero() {
		checkIn = &rec.CheckIn
	}
	if !rec.CheckOut.IsZero() {
		checkOut = &rec.CheckOut
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_archive (id, doctor_code, doctor_name, date, check_in, check_out, working_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), rec.DoctorCode, rec.DoctorName, rec.Date, checkIn, checkOut, rec.WorkingHours)
	return err
}

// List returns archived records, newest date first, optionally filtered by
// doctor code.
func (r *Repository) List(ctx context.Context, doctorCode string, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, doctor_code, doctor_name, date, check_in, check_out, working_hours, archived_at
		FROM attendance_archive`
	args := []any{}
	if doctorCode != "" {
		query += ` WHERE doctor_code = $1`
		args = append(args, doctorCode)
	}
	query += ` ORDER BY date DESC, archived_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.DoctorCode, &e.DoctorName, &e.Date, &e.CheckIn, &e.CheckOut, &e.WorkingHours, &e.ArchivedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
