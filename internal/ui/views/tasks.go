package views

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/tasklist"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusText FocusArea = iota
	FocusDate
	FocusTaskList
)

const focusAreas = 3

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmDeleteAll
)

// TaskListView is the add form, filter bar and task list
type TaskListView struct {
	ctrl   *tasklist.Controller
	styles *styles.Styles
	keys   keys.KeyMap
	help   help.Model

	width  int
	height int

	// derived from the controller on every change
	view tasklist.View

	// UI state
	focus     FocusArea
	cursor    int
	scrollY   int
	textInput textinput.Model
	dateInput textinput.Model
	notice    string

	// Delete confirmation
	confirming       confirmKind
	deleteTargetID   int64
	deleteTargetName string
	approved         bool

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView loads the task collection from store and builds the view.
// Confirmation for deletes is answered by the view's own dialog.
func NewTaskListView(store tasklist.Storage, opts ...tasklist.Option) (*TaskListView, error) {
	s := styles.NewStyles()

	text := textinput.New()
	text.Placeholder = "What needs doing?"
	text.CharLimit = 200

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = len(models.DateLayout)

	v := &TaskListView{
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		help:      help.New(),
		focus:     FocusText,
		textInput: text,
		dateInput: date,
	}

	ctrl, err := tasklist.New(store, append(opts, tasklist.WithConfirm(v.answer))...)
	if err != nil {
		return nil, err
	}
	v.ctrl = ctrl
	v.ctrl.Subscribe(v.refresh)
	v.dateInput.Placeholder = ctrl.Today().String()
	v.textInput.Focus()
	v.refresh()
	return v, nil
}

// Controller returns the controller backing the view
func (v *TaskListView) Controller() *tasklist.Controller {
	return v.ctrl
}

// answer is the controller's ConfirmFunc. The dialog sets approved before the
// controller asks; the answer is consumed by the asking operation.
func (v *TaskListView) answer(string) bool {
	ok := v.approved
	v.approved = false
	return ok
}

func (v *TaskListView) refresh() {
	v.view = v.ctrl.View()
	if v.cursor >= len(v.view.Rows) {
		v.cursor = max(0, len(v.view.Rows)-1)
	}
	v.ensureVisible()
}

func (v *TaskListView) selected() (tasklist.Row, bool) {
	if v.cursor < 0 || v.cursor >= len(v.view.Rows) {
		return tasklist.Row{}, false
	}
	return v.view.Rows[v.cursor], true
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.help.Width = contentWidth
		v.textInput.Width = clamp(contentWidth-30, 10, 40)
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirming != confirmNone {
			return v.updateConfirm(msg)
		}

		v.notice = ""

		if v.focus == FocusText || v.focus == FocusDate {
			return v.updateForm(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		v.setFocus(FocusTaskList)
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, textinput.Blink

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Enter):
		if v.focus == FocusText {
			v.setFocus(FocusDate)
			return v, textinput.Blink
		}
		v.submit()
		return v, nil
	}

	var cmd tea.Cmd
	if v.focus == FocusText {
		v.textInput, cmd = v.textInput.Update(msg)
	} else {
		v.dateInput, cmd = v.dateInput.Update(msg)
	}
	return v, cmd
}

// submit adds a task from the form, clearing it on success
func (v *TaskListView) submit() {
	task, err := v.ctrl.Add(v.textInput.Value(), v.dateInput.Value())
	if err != nil {
		v.notice = noticeFor(err)
		if errors.Is(err, tasklist.ErrEmptyText) {
			v.setFocus(FocusText)
		}
		return
	}

	v.textInput.Reset()
	v.dateInput.Reset()
	v.setFocus(FocusText)

	for i, row := range v.view.Rows {
		if row.ID == task.ID {
			v.cursor = i
			v.ensureVisible()
			break
		}
	}
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, textinput.Blink

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.New):
		v.setFocus(FocusText)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.view.Rows)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if row, ok := v.selected(); ok {
			if err := v.ctrl.Toggle(row.ID); err != nil {
				v.notice = noticeFor(err)
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if row, ok := v.selected(); ok {
			v.confirming = confirmDelete
			v.deleteTargetID = row.ID
			v.deleteTargetName = row.Text
		}
		return v, nil

	case key.Matches(msg, v.keys.DeleteAll):
		if v.ctrl.Len() == 0 {
			v.notice = noticeFor(tasklist.ErrNoTasks)
			return v, nil
		}
		v.confirming = confirmDeleteAll
		return v, nil

	case key.Matches(msg, v.keys.Status):
		v.ctrl.SetStatusFilter(v.ctrl.StatusFilter().Next())
		v.cursor = 0
		v.scrollY = 0
		return v, nil

	case key.Matches(msg, v.keys.Date):
		if v.ctrl.DateBuckets() {
			v.ctrl.SetDateFilter(v.ctrl.DateFilter().Next())
			v.cursor = 0
			v.scrollY = 0
		}
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.approved = true
		var err error
		switch v.confirming {
		case confirmDelete:
			_, err = v.ctrl.Delete(v.deleteTargetID)
		case confirmDeleteAll:
			_, err = v.ctrl.DeleteAll()
		}
		v.approved = false
		v.confirming = confirmNone
		if err != nil {
			v.notice = noticeFor(err)
		}
		return v, nil
	case "n", "N", "esc":
		v.confirming = confirmNone
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) setFocus(f FocusArea) {
	v.textInput.Blur()
	v.dateInput.Blur()
	v.focus = f
	switch f {
	case FocusText:
		v.textInput.Focus()
	case FocusDate:
		v.dateInput.Focus()
	}
}

func (v *TaskListView) cycleFocus(dir int) {
	v.setFocus(FocusArea((int(v.focus) + dir + focusAreas) % focusAreas))
}

func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin = 3 lines; the form, filters and
	// help take about 14
	availableHeight := v.height - 14
	if availableHeight < 3 {
		availableHeight = 3
	}
	return max(availableHeight/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// noticeFor turns an error into the one-line notice shown above the list
func noticeFor(err error) string {
	msg := err.Error()
	if errors.Is(err, tasklist.ErrInvalidDate) {
		msg = tasklist.ErrInvalidDate.Error()
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirming != confirmNone {
		return v.renderConfirm()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderForm())
	b.WriteString("\n")
	b.WriteString(v.renderFilters())
	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Notice.Render(v.notice))
	}
	b.WriteString("\n")

	b.WriteString(v.renderTaskList())

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	done := 0
	for _, t := range v.ctrl.Tasks() {
		if t.Completed {
			done++
		}
	}
	counts := s.TitleMuted.Render(fmt.Sprintf("  %d/%d done", done, v.view.Total))
	return s.Title.Render("Tasks") + counts
}

func (v *TaskListView) renderForm() string {
	s := v.styles

	textStyle := s.Input
	dateStyle := s.Input
	switch v.focus {
	case FocusText:
		textStyle = s.InputFocused
	case FocusDate:
		dateStyle = s.InputFocused
	}

	contentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(contentWidth-30, 10, 40)

	return lipgloss.JoinHorizontal(lipgloss.Center,
		textStyle.Width(textWidth).Render(v.textInput.View()),
		" ",
		dateStyle.Width(14).Render(v.dateInput.View()),
		" ",
		s.ButtonPrimary.Render("↵ Add"),
	)
}

func (v *TaskListView) renderFilters() string {
	s := v.styles

	statusOpts := make([]string, 0, len(tasklist.StatusFilters))
	for _, f := range tasklist.StatusFilters {
		statusOpts = append(statusOpts, v.renderFilterOption(string(f), f == v.ctrl.StatusFilter()))
	}
	lines := []string{
		s.FilterLabel.Render("Status") + lipgloss.JoinHorizontal(lipgloss.Top, statusOpts...),
	}

	if v.ctrl.DateBuckets() {
		dateOpts := make([]string, 0, len(tasklist.DateFilters))
		for _, f := range tasklist.DateFilters {
			dateOpts = append(dateOpts, v.renderFilterOption(string(f), f == v.ctrl.DateFilter()))
		}
		lines = append(lines, s.FilterLabel.Render("Date")+lipgloss.JoinHorizontal(lipgloss.Top, dateOpts...))
	}

	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *TaskListView) renderFilterOption(label string, active bool) string {
	label = strings.ToUpper(label[:1]) + label[1:]
	if active {
		return v.styles.FilterActive.Render(label)
	}
	return v.styles.FilterOption.Render(label)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.view.Rows) == 0 {
		return s.Empty.Render(v.view.Empty)
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.view.Rows))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.view.Rows[i], i == v.cursor && v.focus == FocusTaskList))
	}

	if endIdx < len(v.view.Rows) {
		items = append(items, s.TitleMuted.Render(fmt.Sprintf("  … %d more", len(v.view.Rows)-endIdx)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(row tasklist.Row, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	check := "[ ]"
	text := s.TaskText.Render(row.Text)
	if row.Completed {
		check = s.Check.Render("[x]")
		text = s.TaskDone.Render(row.Text)
	}
	titleLine := check + " " + text

	dateLine := "    " + s.TaskDate.Render(row.Date)
	if selected {
		dateLine += s.TitleMuted.Render(fmt.Sprintf("   space %s • d %s", row.ToggleLabel, row.DeleteLabel))
	}

	var itemStyle lipgloss.Style
	if selected {
		itemStyle = s.ListSelected.Width(width)
	} else {
		itemStyle = s.ListItem.Width(width)
	}

	// Return two-line item with margin
	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Render(titleLine),
		itemStyle.Render(dateLine),
	) + "\n"
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	if v.focus != FocusTaskList {
		return v.styles.Help.Render(
			fmt.Sprintf("%s next field • %s add • %s list",
				v.styles.HelpKey.Render("tab"),
				v.styles.HelpKey.Render("↵"),
				v.styles.HelpKey.Render("esc"),
			),
		)
	}
	return v.styles.Help.Render(v.help.View(v.keys))
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	full := v.help
	full.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Keyboard Shortcuts"),
		"",
		full.View(v.keys),
		"",
		s.TitleMuted.Render("Press any key to close"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := tasklist.PromptDelete
	detail := fmt.Sprintf("%q will be removed.", v.deleteTargetName)
	if v.confirming == confirmDeleteAll {
		title = tasklist.PromptDeleteAll
		detail = fmt.Sprintf("All %d tasks will be removed.", v.ctrl.Len())
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
