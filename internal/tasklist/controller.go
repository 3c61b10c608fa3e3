// Package tasklist owns the task collection: it applies commands, mirrors
// every change to a key-value store and derives the filtered view.
//
// A Controller is driven by one event loop at a time and is not safe for
// concurrent use.
package tasklist

import (
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/tgienger/todo/internal/models"
)

// DefaultKey is the storage key holding the serialized collection
const DefaultKey = "todos"

var (
	ErrEmptyText   = errors.New("please enter a task")
	ErrMissingDate = errors.New("please choose a date")
	ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD")
	ErrNoTasks     = errors.New("there are no tasks to delete")
)

// Storage is a string key-value store, the role browser local storage plays
// for a web page.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// ConfirmFunc gates destructive operations; it returns true to proceed
type ConfirmFunc func(prompt string) bool

// Prompts passed to the ConfirmFunc
const (
	PromptDelete    = "Delete this task?"
	PromptDeleteAll = "Delete all tasks?"
)

// Controller holds the ordered task collection and the current filters
type Controller struct {
	store   Storage
	key     string
	confirm ConfirmFunc
	now     func() time.Time
	logger  *log.Logger

	tasks       []models.Task
	lastID      int64
	status      StatusFilter
	date        DateFilter
	dateBuckets bool

	listeners map[int]func()
	nextSubID int
}

// Option configures a Controller
type Option func(*Controller)

// WithKey sets the storage key
func WithKey(key string) Option {
	return func(c *Controller) {
		if key != "" {
			c.key = key
		}
	}
}

// WithConfirm injects the confirmation capability. Without it every
// destructive prompt is declined.
func WithConfirm(fn ConfirmFunc) Option {
	return func(c *Controller) { c.confirm = fn }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStatusFilter sets the initial status filter
func WithStatusFilter(f StatusFilter) Option {
	return func(c *Controller) { c.status = f }
}

// WithDateFilter sets the initial date filter
func WithDateFilter(f DateFilter) Option {
	return func(c *Controller) { c.date = f }
}

// WithDateBuckets enables the date filter. When disabled the date filter
// is pinned to DateAll.
func WithDateBuckets(enabled bool) Option {
	return func(c *Controller) { c.dateBuckets = enabled }
}

// New creates a controller and loads the collection from store. A missing or
// unreadable stored value yields an empty collection; only a storage failure
// is returned.
func New(store Storage, opts ...Option) (*Controller, error) {
	c := &Controller{
		store:       store,
		key:         DefaultKey,
		confirm:     func(string) bool { return false },
		now:         time.Now,
		logger:      log.New(io.Discard, "", 0),
		status:      StatusAll,
		date:        DateAll,
		dateBuckets: true,
		listeners:   map[int]func(){},
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.dateBuckets {
		c.date = DateAll
	}

	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) load() error {
	raw, ok, err := c.store.GetItem(c.key)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	if !ok {
		c.tasks = []models.Task{}
		return nil
	}

	tasks, err := Decode(raw)
	if err != nil {
		c.logger.Printf("stored tasks under %q are unreadable, starting empty: %v", c.key, err)
	}
	c.tasks = tasks
	for _, t := range tasks {
		c.lastID = max(c.lastID, t.ID)
	}
	c.logger.Printf("loaded %d tasks from %q", len(tasks), c.key)
	return nil
}

// commit persists next and, only if that succeeds, makes it the collection
func (c *Controller) commit(next []models.Task) error {
	raw, err := Encode(next)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := c.store.SetItem(c.key, raw); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	c.tasks = next
	c.notify()
	return nil
}

func (c *Controller) nextID() int64 {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	return id
}

// Add validates the input and appends a new pending task
func (c *Controller) Add(text, date string) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, ErrEmptyText
	}
	if strings.TrimSpace(date) == "" {
		return models.Task{}, ErrMissingDate
	}
	d, err := models.ParseDate(date)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	task := models.Task{
		ID:        c.nextID(),
		Text:      text,
		Date:      d,
		Completed: false,
		// Stored as an ISO timestamp: UTC, millisecond precision, no monotonic reading
		CreatedAt: c.now().UTC().Truncate(time.Millisecond),
	}

	next := append(slices.Clone(c.tasks), task)
	if err := c.commit(next); err != nil {
		return models.Task{}, err
	}
	c.lastID = task.ID
	c.logger.Printf("added task %d", task.ID)
	return task, nil
}

func (c *Controller) indexOf(id int64) int {
	return slices.IndexFunc(c.tasks, func(t models.Task) bool { return t.ID == id })
}

// Toggle flips the completion state of a task. Unknown ids are ignored.
func (c *Controller) Toggle(id int64) error {
	i := c.indexOf(id)
	if i < 0 {
		return nil
	}

	next := slices.Clone(c.tasks)
	next[i].Completed = !next[i].Completed
	if err := c.commit(next); err != nil {
		return err
	}
	c.logger.Printf("toggled task %d (completed=%t)", id, next[i].Completed)
	return nil
}

// Delete removes a task after confirmation. It reports whether a task was
// removed; unknown ids and declined prompts are not errors.
func (c *Controller) Delete(id int64) (bool, error) {
	i := c.indexOf(id)
	if i < 0 {
		return false, nil
	}
	if !c.confirm(PromptDelete) {
		return false, nil
	}

	next := slices.Delete(slices.Clone(c.tasks), i, i+1)
	if err := c.commit(next); err != nil {
		return false, err
	}
	c.logger.Printf("deleted task %d", id)
	return true, nil
}

// DeleteAll empties the collection after confirmation
func (c *Controller) DeleteAll() (bool, error) {
	if len(c.tasks) == 0 {
		return false, ErrNoTasks
	}
	if !c.confirm(PromptDeleteAll) {
		return false, nil
	}

	n := len(c.tasks)
	if err := c.commit([]models.Task{}); err != nil {
		return false, err
	}
	c.logger.Printf("deleted all %d tasks", n)
	return true, nil
}

// Tasks returns a copy of the collection
func (c *Controller) Tasks() []models.Task {
	return slices.Clone(c.tasks)
}

// Len returns the number of tasks in the collection
func (c *Controller) Len() int {
	return len(c.tasks)
}

// Get looks up a task by id
func (c *Controller) Get(id int64) (models.Task, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return c.tasks[i], true
}

func (c *Controller) StatusFilter() StatusFilter { return c.status }
func (c *Controller) DateFilter() DateFilter     { return c.date }

// DateBuckets reports whether the date filter is enabled
func (c *Controller) DateBuckets() bool { return c.dateBuckets }

// SetStatusFilter changes the status filter
func (c *Controller) SetStatusFilter(f StatusFilter) {
	c.status = f
	c.notify()
}

// SetDateFilter changes the date filter. It is ignored when date buckets
// are disabled.
func (c *Controller) SetDateFilter(f DateFilter) {
	if !c.dateBuckets {
		return
	}
	c.date = f
	c.notify()
}

// Today returns the current calendar day in the clock's location
func (c *Controller) Today() models.Date {
	return models.DateOf(c.now())
}

// View derives the filtered list for display
func (c *Controller) View() View {
	visible := Filter(c.tasks, c.status, c.date, c.Today())

	v := View{
		Rows:   make([]Row, 0, len(visible)),
		Status: c.status,
		Date:   c.date,
		Total:  len(c.tasks),
	}
	for _, t := range visible {
		v.Rows = append(v.Rows, rowOf(t))
	}
	if len(v.Rows) == 0 {
		v.Empty = EmptyMessage(c.status, c.date, len(c.tasks))
	}
	return v
}

// Subscribe registers fn to run after every change to the collection or the
// filters. The returned func removes it.
func (c *Controller) Subscribe(fn func()) (unsubscribe func()) {
	id := c.nextSubID
	c.nextSubID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

func (c *Controller) notify() {
	for _, fn := range c.listeners {
		fn()
	}
}
