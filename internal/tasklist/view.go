package tasklist

import "github.com/tgienger/todo/internal/models"

const (
	toggleDoneLabel = "Done"
	toggleUndoLabel = "Undo"
	deleteLabel     = "Delete"
)

// Row is one task as the list displays it
type Row struct {
	ID          int64
	Text        string
	Date        string // long form, e.g. "Wednesday, 1 May 2024"
	Completed   bool
	ToggleLabel string
	DeleteLabel string
}

// View is the filtered list derived from the collection.
// Empty is set only when Rows is empty.
type View struct {
	Rows   []Row
	Empty  string
	Status StatusFilter
	Date   DateFilter
	Total  int
}

func rowOf(t models.Task) Row {
	label := toggleDoneLabel
	if t.Completed {
		label = toggleUndoLabel
	}
	return Row{
		ID:          t.ID,
		Text:        t.Text,
		Date:        t.Date.Long(),
		Completed:   t.Completed,
		ToggleLabel: label,
		DeleteLabel: deleteLabel,
	}
}

// Filter returns the tasks passing both filters, in collection order
func Filter(tasks []models.Task, status StatusFilter, date DateFilter, today models.Date) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if status.Match(t) && date.Match(t, today) {
			out = append(out, t)
		}
	}
	return out
}

// EmptyMessage describes why a filtered view came out empty
func EmptyMessage(status StatusFilter, date DateFilter, total int) string {
	statusActive := status != StatusAll && status != ""
	dateActive := date != DateAll && date != ""

	if !statusActive && !dateActive {
		if total == 0 {
			return "No tasks have been added yet."
		}
		return "No tasks to show."
	}

	msg := "No"
	if statusActive {
		msg += " " + string(status)
	}
	msg += " tasks"
	if dateActive {
		msg += " " + datePhrase(date)
	}
	return msg + "."
}

func datePhrase(f DateFilter) string {
	switch f {
	case DateToday:
		return "for today"
	case DatePast:
		return "in the past"
	case DateFuture:
		return "in the future"
	}
	return ""
}
