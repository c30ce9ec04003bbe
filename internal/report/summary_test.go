package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vedohany200-source/attendance-system/internal/attendance"
)

func TestSummary(t *testing.T) {
	view := attendance.StatusView{
		Rows: []attendance.StatusRow{
			{Code: "RA12", Name: "دكتوره روجينا", Status: attendance.StatusPresent, CheckIn: "10:00:00", WorkingTime: "2:05"},
			{Code: "KK00", Name: "دكتوره كاتي", Status: attendance.StatusAbsent, CheckIn: "-", WorkingTime: "-"},
			{Code: "FH12", Name: "دكتور فادي", Status: attendance.StatusAbsent, CheckIn: "-", WorkingTime: "-"},
		},
		PresentCount: 1,
		AbsentCount:  2,
		TotalDoctors: 3,
	}

	text := Summary(view)

	assert.Contains(t, text, "المتواجدين: 1")
	assert.Contains(t, text, "الغائبين: 2")
	assert.Contains(t, text, "دكتوره روجينا: ✅ متواجد")
	assert.Contains(t, text, "دكتوره كاتي: ❌ غائب")

	// One detail line per doctor, in view order.
	lines := strings.Split(text, "\n")
	assert.Equal(t, "دكتور فادي: ❌ غائب", lines[len(lines)-1])
}

func TestHistoryWorkbook(t *testing.T) {
	rows := []attendance.HistoryRow{
		{Date: "2025-03-10", DoctorCode: "RA12", DoctorName: "دكتوره روجينا", WorkingHours: "02:30:15"},
		{Date: "2025-03-09", DoctorCode: "KK00", DoctorName: "دكتوره كاتي", WorkingHours: "04:00:00"},
	}

	buf, err := HistoryWorkbook(rows)
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
