package tasklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/todo/internal/models"
)

func textsOf(v View) []string {
	out := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, r.Text)
	}
	return out
}

// seedBuckets adds one task for yesterday, today and tomorrow relative to testNow
func seedBuckets(t *testing.T, c *Controller) {
	t.Helper()
	today := models.DateOf(testNow)
	for _, s := range []struct {
		text string
		date models.Date
	}{
		{"yesterday", today.AddDays(-1)},
		{"today", today},
		{"tomorrow", today.AddDays(1)},
	} {
		_, err := c.Add(s.text, s.date.String())
		require.NoError(t, err)
	}
}

func TestDateFilter_Buckets(t *testing.T) {
	c, _ := newTestController(t)
	seedBuckets(t, c)

	c.SetDateFilter(DateToday)
	assert.Equal(t, []string{"today"}, textsOf(c.View()))

	c.SetDateFilter(DatePast)
	assert.Equal(t, []string{"yesterday"}, textsOf(c.View()))

	c.SetDateFilter(DateFuture)
	assert.Equal(t, []string{"tomorrow"}, textsOf(c.View()))

	c.SetDateFilter(DateAll)
	assert.Equal(t, []string{"yesterday", "today", "tomorrow"}, textsOf(c.View()))
}

func TestDateFilter_UsesClockLocation(t *testing.T) {
	// 23:30 UTC on 1 May is already 2 May in UTC+7
	loc := time.FixedZone("UTC+7", 7*60*60)
	now := time.Date(2024, time.May, 1, 23, 30, 0, 0, time.UTC).In(loc)

	c, _ := newTestController(t, WithClock(fixedClock(now)))
	_, err := c.Add("due", "2024-05-02")
	require.NoError(t, err)

	c.SetDateFilter(DateToday)
	assert.Equal(t, []string{"due"}, textsOf(c.View()))
}

func TestFilters_Conjunction(t *testing.T) {
	c, _ := newTestController(t)
	yesterday := models.DateOf(testNow).AddDays(-1).String()

	done, _ := c.Add("done past", yesterday)
	_, _ = c.Add("pending past", yesterday)
	_, _ = c.Add("pending today", models.DateOf(testNow).String())
	require.NoError(t, c.Toggle(done.ID))

	c.SetStatusFilter(StatusPending)
	c.SetDateFilter(DatePast)
	assert.Equal(t, []string{"pending past"}, textsOf(c.View()))

	c.SetStatusFilter(StatusCompleted)
	assert.Equal(t, []string{"done past"}, textsOf(c.View()))

	assert.Equal(t, 3, c.Len(), "filters never mutate the collection")
}

func TestStatusFilter(t *testing.T) {
	c, _ := newTestController(t)
	a, _ := c.Add("a", "2024-05-01")
	_, _ = c.Add("b", "2024-05-01")
	require.NoError(t, c.Toggle(a.ID))

	c.SetStatusFilter(StatusCompleted)
	assert.Equal(t, []string{"a"}, textsOf(c.View()))

	c.SetStatusFilter(StatusPending)
	assert.Equal(t, []string{"b"}, textsOf(c.View()))

	c.SetStatusFilter(StatusAll)
	assert.Equal(t, []string{"a", "b"}, textsOf(c.View()))
}

func TestDateBucketsDisabled(t *testing.T) {
	c, _ := newTestController(t, WithDateFilter(DatePast), WithDateBuckets(false))
	seedBuckets(t, c)

	assert.Equal(t, DateAll, c.DateFilter())
	c.SetDateFilter(DateToday)
	assert.Equal(t, DateAll, c.DateFilter())
	assert.Len(t, c.View().Rows, 3)
}

func TestView_Rows(t *testing.T) {
	c, _ := newTestController(t)
	a, _ := c.Add("Buy milk", "2024-05-01")
	require.NoError(t, c.Toggle(a.ID))
	_, _ = c.Add("Walk dog", "2024-05-02")

	v := c.View()
	require.Len(t, v.Rows, 2)
	assert.Empty(t, v.Empty)
	assert.Equal(t, 2, v.Total)

	assert.Equal(t, Row{
		ID:          a.ID,
		Text:        "Buy milk",
		Date:        "Wednesday, 1 May 2024",
		Completed:   true,
		ToggleLabel: "Undo",
		DeleteLabel: "Delete",
	}, v.Rows[0])
	assert.Equal(t, "Done", v.Rows[1].ToggleLabel)
	assert.Equal(t, "Thursday, 2 May 2024", v.Rows[1].Date)
}

func TestEmptyMessage(t *testing.T) {
	cases := []struct {
		status StatusFilter
		date   DateFilter
		total  int
		want   string
	}{
		{StatusAll, DateAll, 0, "No tasks have been added yet."},
		{StatusCompleted, DateAll, 0, "No completed tasks."},
		{StatusPending, DateAll, 2, "No pending tasks."},
		{StatusAll, DateToday, 2, "No tasks for today."},
		{StatusAll, DatePast, 2, "No tasks in the past."},
		{StatusAll, DateFuture, 2, "No tasks in the future."},
		{StatusPending, DatePast, 2, "No pending tasks in the past."},
		{StatusCompleted, DateToday, 2, "No completed tasks for today."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, EmptyMessage(tc.status, tc.date, tc.total), "%s/%s", tc.status, tc.date)
	}
}

func TestView_EmptyWithFilters(t *testing.T) {
	c, _ := newTestController(t)
	_, _ = c.Add("a", "2024-05-01")

	c.SetStatusFilter(StatusCompleted)
	v := c.View()
	assert.Empty(t, v.Rows)
	assert.Equal(t, "No completed tasks.", v.Empty)
}

func TestParseFilters(t *testing.T) {
	s, err := ParseStatusFilter(" Pending ")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, s)

	_, err = ParseStatusFilter("done")
	assert.Error(t, err)

	d, err := ParseDateFilter("FUTURE")
	require.NoError(t, err)
	assert.Equal(t, DateFuture, d)

	_, err = ParseDateFilter("tomorrow")
	assert.Error(t, err)
}

func TestFilterNext(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusAll.Next())
	assert.Equal(t, StatusAll, StatusPending.Next())
	assert.Equal(t, DateToday, DateAll.Next())
	assert.Equal(t, DateAll, DateFuture.Next())
}

func TestCodec_RoundTrip(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Text: "a", Date: models.NewDate(2024, time.May, 1), CreatedAt: testNow},
		{ID: 2, Text: "b", Date: models.NewDate(2024, time.May, 2), Completed: true, CreatedAt: testNow.Add(time.Minute)},
	}

	raw, err := Encode(tasks)
	require.NoError(t, err)
	back, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, tasks, back)
}

func TestCodec_Empty(t *testing.T) {
	raw, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	for _, s := range []string{"", "null", "[]"} {
		tasks, err := Decode(s)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	}
}

func TestCodec_DropsInvalidRecords(t *testing.T) {
	raw := `[null,
		{"id":1,"text":"","date":"2024-05-01"},
		{"id":2,"text":"no date"},
		{"id":3,"text":"bad date","date":"2024-13-40"},
		{"id":4,"text":"kept","date":"2024-05-01"}]`

	tasks, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(4), tasks[0].ID)
	assert.Equal(t, "kept", tasks[0].Text)
}

func TestCodec_RenumbersDuplicateIDs(t *testing.T) {
	raw := `[{"id":7,"text":"a","date":"2024-05-01"},
		{"id":7,"text":"b","date":"2024-05-01"},
		{"id":0,"text":"c","date":"2024-05-01"},
		{"id":3,"text":"d","date":"2024-05-01"}]`

	tasks, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	ids := []int64{}
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int64{7, 8, 9, 3}, ids)
}

func TestCodec_ReadsBrowserTimestamps(t *testing.T) {
	raw := `[{"id":1714557600000,"text":"Buy milk","date":"2024-05-01","completed":false,"createdAt":"2024-05-01T10:00:00.000Z"}]`

	tasks, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(1714557600000), tasks[0].ID)
	assert.True(t, tasks[0].CreatedAt.Equal(time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)))
}
