package ui

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/todo/internal/tasklist"
	"github.com/tgienger/todo/internal/ui/views"
)

// Settings keys are stored next to the collection, under "<key>.filter.*"
const (
	statusSetting = ".filter.status"
	dateSetting   = ".filter.date"
)

type App struct {
	store    tasklist.Storage
	key      string
	taskList *views.TaskListView

	savedStatus tasklist.StatusFilter
	savedDate   tasklist.DateFilter
}

// Creates a new application over store. The last used filters are restored
// from store and override any initial filters in opts.
func NewApp(store tasklist.Storage, key string, opts ...tasklist.Option) (*App, error) {
	if key == "" {
		key = tasklist.DefaultKey
	}
	a := &App{store: store, key: key}

	opts = append(opts, tasklist.WithKey(key))
	if raw, ok, err := store.GetItem(key + statusSetting); err == nil && ok {
		if f, err := tasklist.ParseStatusFilter(raw); err == nil {
			opts = append(opts, tasklist.WithStatusFilter(f))
		}
	}
	if raw, ok, err := store.GetItem(key + dateSetting); err == nil && ok {
		if f, err := tasklist.ParseDateFilter(raw); err == nil {
			opts = append(opts, tasklist.WithDateFilter(f))
		}
	}

	taskList, err := views.NewTaskListView(store, opts...)
	if err != nil {
		return nil, err
	}
	a.taskList = taskList

	ctrl := taskList.Controller()
	a.savedStatus = ctrl.StatusFilter()
	a.savedDate = ctrl.DateFilter()
	ctrl.Subscribe(a.saveFilters)
	return a, nil
}

// saveFilters remembers the current filters when they change
func (a *App) saveFilters() {
	ctrl := a.taskList.Controller()
	if s := ctrl.StatusFilter(); s != a.savedStatus {
		if err := a.store.SetItem(a.key+statusSetting, string(s)); err != nil {
			log.Printf("save status filter: %v", err)
		} else {
			a.savedStatus = s
		}
	}
	if d := ctrl.DateFilter(); d != a.savedDate {
		if err := a.store.SetItem(a.key+dateSetting, string(d)); err != nil {
			log.Printf("save date filter: %v", err)
		} else {
			a.savedDate = d
		}
	}
}

// Controller exposes the task list controller
func (a *App) Controller() *tasklist.Controller {
	return a.taskList.Controller()
}

func (a *App) Init() tea.Cmd {
	return a.taskList.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.taskList.View()
}
