package attendance

import (
	"sort"
	"strings"
	"time"

	"github.com/vedohany200-source/attendance-system/internal/registry"
	"github.com/vedohany200-source/attendance-system/internal/rtstore"
)

// StatusRow is one line of the admin live-status table.
type StatusRow struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Status      Status `json:"status"`
	CheckIn     string `json:"checkIn"`
	WorkingTime string `json:"workingTime"`
}

// StatusView is the live presence table plus its derived counts.
type StatusView struct {
	Rows         []StatusRow `json:"rows"`
	PresentCount int         `json:"presentCount"`
	AbsentCount  int         `json:"absentCount"`
	TotalDoctors int         `json:"totalDoctors"`
}

// BuildStatusView computes the live presence table from an attendance
// snapshot. Rows follow registry order and exclude admins; working time is
// recomputed from now at every call.
func BuildStatusView(reg *registry.Registry, snapshot map[string]rtstore.Doc, now time.Time) StatusView {
	view := StatusView{}
	for _, d := range reg.NonAdmins() {
		rec := Record{DoctorCode: d.Code}
		if doc, ok := snapshot[livePath(d.Code)]; ok {
			rec = recordFromDoc(d.Code, doc)
		}

		row := StatusRow{
			Code:        d.Code,
			Name:        d.Name,
			Status:      rec.Status(),
			CheckIn:     "-",
			WorkingTime: "-",
		}
		// Check-in is displayed per-field: a doctor who already checked
		// out keeps their check-in time, only the live working time is
		// gated on the session being open.
		if !rec.CheckIn.IsZero() {
			row.CheckIn = rec.CheckIn.In(now.Location()).Format("15:04:05")
		}
		if rec.Open() {
			row.WorkingTime = FormatClock(now.Sub(rec.CheckIn))
			view.PresentCount++
		} else {
			view.AbsentCount++
		}
		view.Rows = append(view.Rows, row)
	}
	view.TotalDoctors = len(view.Rows)
	return view
}

// HistoryRow is one attendance entry of the merged history feed.
type HistoryRow struct {
	Date         string    `json:"date"`
	DoctorCode   string    `json:"doctorCode"`
	DoctorName   string    `json:"doctorName"`
	CheckIn      time.Time `json:"checkIn,omitempty"`
	CheckOut     time.Time `json:"checkOut,omitempty"`
	WorkingHours string    `json:"workingHours,omitempty"`
}

// BuildHistoryView merges every non-admin doctor's live record and history
// entries into one feed sorted by date descending. Ties keep their
// encounter order; re-sorting an already sorted feed is a no-op.
func BuildHistoryView(reg *registry.Registry, snapshot map[string]rtstore.Doc) []HistoryRow {
	var rows []HistoryRow
	for _, d := range reg.NonAdmins() {
		if doc, ok := snapshot[livePath(d.Code)]; ok {
			rec := recordFromDoc(d.Code, doc)
			if !rec.Empty() {
				rows = append(rows, historyRow(reg, rec))
			}
		}

		prefix := historyPath(d.Code) + "/"
		var keys []string
		for path := range snapshot {
			if strings.HasPrefix(path, prefix) {
				keys = append(keys, path)
			}
		}
		sort.Strings(keys)
		for _, path := range keys {
			rows = append(rows, historyRow(reg, recordFromDoc(d.Code, snapshot[path])))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows
}

func historyRow(reg *registry.Registry, rec Record) HistoryRow {
	return HistoryRow{
		Date:         rec.Date,
		DoctorCode:   rec.DoctorCode,
		DoctorName:   reg.Name(rec.DoctorCode),
		CheckIn:      rec.CheckIn,
		CheckOut:     rec.CheckOut,
		WorkingHours: rec.WorkingHours,
	}
}
