package tui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/agenda/internal/agenda"
	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/ui"
)

// listItem adapts an agenda row to bubbles/list.Item
type listItem struct {
	idx  int
	item model.AgendaItem
}

func (i listItem) Title() string       { return i.item.Topic }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.item.Topic }

// Custom delegate to control how rows render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	topic := it.item.Topic
	if topic == "" {
		topic = mutedStyle.Render("(untitled)")
	} else {
		topic = ui.Truncate(topic, max(m.Width()-16, 8))
	}
	line := fmt.Sprintf("%2d. %s  %s", it.idx+1, accentStyle.Render(fmt.Sprintf("%6s", model.Clock(it.item.TotalSeconds()))), topic)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

var errNotANumber = errors.New("not a number")

// field is the agenda column an inline prompt edits.
type field int

const (
	fieldTopic field = iota
	fieldMinutes
	fieldSeconds
)

func (f field) label() string {
	switch f {
	case fieldMinutes:
		return "minutes"
	case fieldSeconds:
		return "seconds"
	default:
		return "topic"
	}
}

var (
	addBind      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "topic"))
	minutesBind  = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minutes"))
	secondsBind  = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "seconds"))
	deleteBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind     = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	moveUpBind   = key.NewBinding(key.WithKeys("K"), key.WithHelp("K/J", "move"))
	moveDownBind = key.NewBinding(key.WithKeys("J"))
	generateBind = key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate timers"))
	historyBind  = key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history"))
	clearBind    = key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear history"))
	switchBind   = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "timers"))
)

// editor is the agenda list with inline add/edit, adapted to persist every
// mutation through the agenda book.
type editor struct {
	book *agenda.Book
	list list.Model

	// inline prompt
	prompting bool
	adding    bool // add walks topic → minutes → seconds
	field     field
	editIndex int
	draft     model.AgendaItem
	ti        textinput.Model
	err       string

	// Undo support (single-level)
	canUndo   bool
	undoIndex int
	undoItem  model.AgendaItem
}

func newEditor(book *agenda.Book) editor {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Agenda"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("topic", "topics")
	// the list's own quit binding would bypass teardown
	l.KeyMap.Quit.SetEnabled(false)

	extra := []key.Binding{addBind, editBind, minutesBind, secondsBind, deleteBind, undoBind, moveUpBind, generateBind, historyBind, clearBind, switchBind}
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind, deleteBind, generateBind, switchBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }

	e := editor{book: book, list: l}
	e.ti = textinput.New()
	e.ti.Prompt = "> "
	e.ti.CharLimit = 200
	e.sync()
	return e
}

// sync rebuilds the list rows from the book, keeping the cursor in range.
func (e *editor) sync() {
	items := e.book.Items()
	rows := make([]list.Item, 0, len(items))
	for i, it := range items {
		rows = append(rows, listItem{idx: i, item: it})
	}
	cursor := e.list.Index()
	e.list.SetItems(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor >= 0 {
		e.list.Select(cursor)
	}
	total := e.book.TotalSeconds()
	e.list.Title = fmt.Sprintf("%s   %s %d  %s %s",
		titleStyle.Render("Agenda"),
		accentStyle.Render("•"), len(items),
		pendingStyle.Render("Total"), model.Clock(total),
	)
}

// selected returns the book index of the highlighted row.
func (e *editor) selected() (int, bool) {
	it, ok := e.list.SelectedItem().(listItem)
	if !ok {
		return 0, false
	}
	return it.idx, true
}

func (e *editor) filtering() bool {
	return e.list.FilterState() == list.Filtering
}

func (e *editor) startAdd() {
	e.prompting, e.adding = true, true
	e.draft = model.NewAgendaItem("", model.DefaultMinutes, 0)
	e.editIndex = -1
	e.openField(fieldTopic, "")
}

func (e *editor) startEdit(f field) bool {
	i, ok := e.selected()
	if !ok {
		return false
	}
	e.prompting, e.adding = true, false
	e.editIndex = i
	e.draft = e.book.Items()[i]
	var cur string
	switch f {
	case fieldTopic:
		cur = e.draft.Topic
	case fieldMinutes:
		cur = strconv.Itoa(e.draft.Minutes)
	case fieldSeconds:
		cur = strconv.Itoa(e.draft.Seconds)
	}
	e.openField(f, cur)
	return true
}

func (e *editor) openField(f field, value string) {
	e.field = f
	e.err = ""
	e.ti.SetValue(value)
	e.ti.CursorEnd()
	e.ti.Placeholder = "New " + f.label() + "..."
	e.ti.Focus()
}

func (e *editor) closePrompt() {
	e.prompting, e.adding = false, false
	e.err = ""
	e.ti.SetValue("")
	e.ti.Blur()
}

// submit applies the prompt value to the draft. It returns true once the
// draft has been committed to the book.
func (e *editor) submit() (bool, error) {
	raw := strings.TrimSpace(e.ti.Value())
	switch e.field {
	case fieldTopic:
		if raw == "" {
			return false, agenda.ErrEmptyTopic
		}
		e.draft.Topic = raw
	case fieldMinutes, fieldSeconds:
		n := 0
		if raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return false, fmt.Errorf("%w: %s", errNotANumber, raw)
			}
			n = v
		}
		if e.field == fieldMinutes {
			e.draft.SetMinutes(n)
		} else {
			e.draft.SetSeconds(n)
		}
	}

	if e.adding && e.field != fieldSeconds {
		next := e.field + 1
		cur := strconv.Itoa(e.draft.Minutes)
		if next == fieldSeconds {
			cur = strconv.Itoa(e.draft.Seconds)
		}
		e.openField(next, cur)
		return false, nil
	}

	var err error
	if e.adding {
		at := e.book.Len()
		if i, ok := e.selected(); ok {
			at = min(i+1, at)
		}
		err = e.book.Insert(at, e.draft)
		if err == nil {
			e.sync()
			e.list.Select(at)
		}
	} else {
		err = e.book.Update(e.editIndex, e.draft)
		e.sync()
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (e *editor) remove() error {
	i, ok := e.selected()
	if !ok {
		return nil
	}
	removed, err := e.book.Remove(i)
	if err != nil {
		return err
	}
	e.canUndo, e.undoIndex, e.undoItem = true, i, removed
	e.sync()
	return nil
}

func (e *editor) undo() error {
	if !e.canUndo {
		return nil
	}
	idx := min(max(e.undoIndex, 0), e.book.Len())
	if err := e.book.Insert(idx, e.undoItem); err != nil {
		return err
	}
	e.canUndo = false
	e.sync()
	e.list.Select(idx)
	return nil
}

func (e *editor) move(delta int) error {
	i, ok := e.selected()
	if !ok {
		return nil
	}
	j := i + delta
	if j < 0 || j >= e.book.Len() {
		return nil
	}
	if err := e.book.Move(i, j); err != nil {
		return err
	}
	e.sync()
	e.list.Select(j)
	return nil
}

// update handles messages while the editor view is active. Validation
// problems stay in the prompt; a returned error is a persistence failure.
func (e *editor) update(msg tea.Msg) (tea.Cmd, error) {
	if e.prompting {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				done, err := e.submit()
				if err != nil {
					e.err = err.Error()
					if !errors.Is(err, agenda.ErrEmptyTopic) && !errors.Is(err, errNotANumber) {
						e.closePrompt()
						return nil, err
					}
					return nil, nil
				}
				if done {
					e.closePrompt()
				}
				return nil, nil
			case "esc":
				e.closePrompt()
				return nil, nil
			}
		}
		var cmd tea.Cmd
		e.ti, cmd = e.ti.Update(msg)
		return cmd, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && !e.filtering() {
		switch {
		case key.Matches(k, addBind):
			e.startAdd()
			return textinput.Blink, nil
		case key.Matches(k, editBind):
			e.startEdit(fieldTopic)
			return nil, nil
		case key.Matches(k, minutesBind):
			e.startEdit(fieldMinutes)
			return nil, nil
		case key.Matches(k, secondsBind):
			e.startEdit(fieldSeconds)
			return nil, nil
		case key.Matches(k, deleteBind):
			return nil, e.remove()
		case key.Matches(k, undoBind):
			return nil, e.undo()
		case key.Matches(k, moveUpBind):
			return nil, e.move(-1)
		case key.Matches(k, moveDownBind):
			return nil, e.move(1)
		}
	}
	var cmd tea.Cmd
	e.list, cmd = e.list.Update(msg)
	return cmd, nil
}

func (e *editor) setSize(w, h int) {
	if e.prompting {
		h -= 4
	}
	e.list.SetSize(w, max(h, 3))
}

func (e *editor) view() string {
	content := e.list.View()
	if !e.prompting {
		return content
	}
	title := "Add topic: " + e.field.label()
	if !e.adding {
		title = fmt.Sprintf("Edit %s of #%d", e.field.label(), e.editIndex+1)
	}
	if e.err != "" {
		title += "  " + errorStyle.Render(e.err)
	}
	return content + "\n" + frameStyle.Render(title+"\n"+e.ti.View())
}
