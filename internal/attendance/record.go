package attendance

import (
	"time"

	"github.com/vedohany200-source/attendance-system/internal/rtstore"
)

const dateLayout = "2006-01-02"

// Status of a doctor's live record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

// Record is one doctor's attendance document. A zero CheckOut means the
// session is still open; a zero CheckIn means no session was started.
type Record struct {
	DoctorCode   string
	DoctorName   string
	Date         string
	CheckIn      time.Time
	CheckOut     time.Time
	WorkingHours string
}

// Open reports whether the record is an unresolved session.
func (r Record) Open() bool {
	return !r.CheckIn.IsZero() && r.CheckOut.IsZero()
}

// Empty reports whether the record carries no session data at all.
func (r Record) Empty() bool {
	return r.CheckIn.IsZero() && r.CheckOut.IsZero() && r.Date == ""
}

// Status derives the presence state from the record shape.
func (r Record) Status() Status {
	if r.Open() {
		return StatusPresent
	}
	return StatusAbsent
}

func (r Record) doc() rtstore.Doc {
	doc := rtstore.Doc{
		"date":       r.Date,
		"doctorName": r.DoctorName,
	}
	if !r.CheckIn.IsZero() {
		doc["checkIn"] = r.CheckIn.Format(time.RFC3339)
	}
	if !r.CheckOut.IsZero() {
		doc["checkOut"] = r.CheckOut.Format(time.RFC3339)
	}
	if r.WorkingHours != "" {
		doc["workingHours"] = r.WorkingHours
	}
	return doc
}

func recordFromDoc(code string, doc rtstore.Doc) Record {
	rec := Record{
		DoctorCode:   code,
		DoctorName:   docString(doc, "doctorName"),
		Date:         docString(doc, "date"),
		WorkingHours: docString(doc, "workingHours"),
	}
	rec.CheckIn = docTime(doc, "checkIn")
	rec.CheckOut = docTime(doc, "checkOut")
	return rec
}

// VacationRequest is a doctor's weekly off-day pick, last write wins.
type VacationRequest struct {
	DoctorCode  string
	DoctorName  string
	Day         string
	RequestDate time.Time
}

func (v VacationRequest) doc() rtstore.Doc {
	return rtstore.Doc{
		"day":         v.Day,
		"doctorName":  v.DoctorName,
		"requestDate": v.RequestDate.Format(time.RFC3339),
	}
}

func vacationFromDoc(code string, doc rtstore.Doc) VacationRequest {
	return VacationRequest{
		DoctorCode:  code,
		DoctorName:  docString(doc, "doctorName"),
		Day:         docString(doc, "day"),
		RequestDate: docTime(doc, "requestDate"),
	}
}

var weekdays = map[string]bool{
	"sunday":    true,
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
}

// ValidWeekday reports whether day is one of the seven weekday symbols.
func ValidWeekday(day string) bool {
	return weekdays[day]
}

func docString(doc rtstore.Doc, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func docTime(doc rtstore.Doc, key string) time.Time {
	raw := docString(doc, key)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func livePath(code string) string     { return "attendance/" + code + "/today" }
func historyPath(code string) string  { return "attendance/" + code + "/history" }
func vacationPath(code string) string { return "vacations/" + code }

// LivePath exposes the live-record path for subscribers outside the package.
func LivePath(code string) string { return livePath(code) }
