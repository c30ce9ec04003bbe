package report

import (
	"strconv"
	"strings"

	"github.com/vedohany200-source/attendance-system/internal/attendance"
)

const summaryTitle = "تقرير حضور صيدليات دكتور رامي كميل"

// Summary renders the share-ready presence report from a status view: a
// headline, the present/absent counts, and one line per doctor.
func Summary(view attendance.StatusView) string {
	var b strings.Builder
	b.WriteString(summaryTitle)
	b.WriteString("\n\n")
	b.WriteString("المتواجدين: " + strconv.Itoa(view.PresentCount) + "\n")
	b.WriteString("الغائبين: " + strconv.Itoa(view.AbsentCount) + "\n\n")
	b.WriteString("التفاصيل:\n")

	lines := make([]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		mark := "❌ غائب"
		if row.Status == attendance.StatusPresent {
			mark = "✅ متواجد"
		}
		lines = append(lines, row.Name+": "+mark)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
