package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vedohany200-source/attendance-system/internal/rtstore"
)

// Tracker owns the check-in/check-out transitions on doctors' live records.
// One live record exists per doctor at "attendance/{code}/today"; closing it
// appends an immutable copy to "attendance/{code}/history".
type Tracker struct {
	store    rtstore.Store
	loc      *time.Location
	openHour int
	now      func() time.Time
}

// NewTracker creates a tracker. Check-ins are rejected before openHour in
// the given location's wall-clock time.
func NewTracker(store rtstore.Store, loc *time.Location, openHour int) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{store: store, loc: loc, openHour: openHour, now: time.Now}
}

// WithClock overrides the wall clock, for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// CheckIn opens today's session for a doctor. A check-in while a session is
// already open overwrites it, matching the store's last-writer-wins model.
func (t *Tracker) CheckIn(ctx context.Context, code, name string) (Record, error) {
	now := t.now().In(t.loc)
	if now.Hour() < t.openHour {
		return Record{}, fmt.Errorf("%w: opens at %02d:00", ErrTooEarly, t.openHour)
	}

	rec := Record{
		DoctorCode: code,
		DoctorName: name,
		Date:       now.Format(dateLayout),
		CheckIn:    now,
	}
	if err := t.store.Write(ctx, livePath(code), rec.doc()); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// CheckOut closes the live session: the record gains checkOut and the
// formatted working hours, and a copy is appended to the doctor's history.
// If the live-record write fails the history append is skipped, so a
// history entry never exists without its closed record.
func (t *Tracker) CheckOut(ctx context.Context, code string) (Record, error) {
	now := t.now().In(t.loc)

	rec, err := t.Live(ctx, code)
	if err != nil {
		return Record{}, err
	}
	rec.DoctorCode = code
	rec.CheckOut = now
	rec.Date = now.Format(dateLayout)
	rec.WorkingHours = FormatWorkingHours(0)
	if !rec.CheckIn.IsZero() {
		rec.WorkingHours = FormatWorkingHours(now.Sub(rec.CheckIn))
	}

	if err := t.store.Write(ctx, livePath(code), rec.doc()); err != nil {
		return Record{}, err
	}
	if _, err := t.store.Append(ctx, historyPath(code), rec.doc()); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Live reads the doctor's live record. A missing document is an empty record.
func (t *Tracker) Live(ctx context.Context, code string) (Record, error) {
	doc, ok, err := t.store.Get(ctx, livePath(code))
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{DoctorCode: code}, nil
	}
	return recordFromDoc(code, doc), nil
}

// Status reports whether the doctor currently has an open session.
func (t *Tracker) Status(ctx context.Context, code string) (Status, Record, error) {
	rec, err := t.Live(ctx, code)
	if err != nil {
		return StatusAbsent, Record{}, err
	}
	return rec.Status(), rec, nil
}

// RequestVacation records the doctor's weekly off-day. A new request
// unconditionally replaces the previous one; no history is kept.
func (t *Tracker) RequestVacation(ctx context.Context, code, name, day string) (VacationRequest, error) {
	day = strings.ToLower(strings.TrimSpace(day))
	if !ValidWeekday(day) {
		return VacationRequest{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}

	req := VacationRequest{
		DoctorCode:  code,
		DoctorName:  name,
		Day:         day,
		RequestDate: t.now().In(t.loc),
	}
	if err := t.store.Write(ctx, vacationPath(code), req.doc()); err != nil {
		return VacationRequest{}, err
	}
	return req, nil
}

// Vacations lists all active vacation requests, ordered by doctor code.
func (t *Tracker) Vacations(ctx context.Context) ([]VacationRequest, error) {
	snapshot, err := t.store.Snapshot(ctx, "vacations")
	if err != nil {
		return nil, err
	}
	var out []VacationRequest
	for path, doc := range snapshot {
		code := strings.TrimPrefix(path, "vacations/")
		out = append(out, vacationFromDoc(code, doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DoctorCode < out[j].DoctorCode })
	return out, nil
}
