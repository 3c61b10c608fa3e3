package tasklist

import (
	"encoding/json"
	"strings"

	"github.com/tgienger/todo/internal/models"
)

// Encode serializes the collection as a JSON array
func Encode(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a stored collection. Blank input yields an empty collection.
// Records that do not decode or lack text or a date are dropped, and a
// missing or repeated id is replaced with one past the highest id.
func Decode(s string) ([]models.Task, error) {
	if s == "" || s == "null" {
		return []models.Task{}, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return []models.Task{}, err
	}

	tasks := make([]models.Task, 0, len(records))
	for _, r := range records {
		var t models.Task
		if err := json.Unmarshal(r, &t); err != nil {
			continue
		}
		if strings.TrimSpace(t.Text) == "" || t.Date.IsZero() {
			continue
		}
		tasks = append(tasks, t)
	}
	return renumber(tasks), nil
}

func renumber(tasks []models.Task) []models.Task {
	var maxID int64
	for _, t := range tasks {
		maxID = max(maxID, t.ID)
	}
	seen := make(map[int64]bool, len(tasks))
	for i := range tasks {
		if tasks[i].ID <= 0 || seen[tasks[i].ID] {
			maxID++
			tasks[i].ID = maxID
		}
		seen[tasks[i].ID] = true
	}
	return tasks
}
