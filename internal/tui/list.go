package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/journal/internal/model"
	"github.com/idilsaglam/journal/internal/ui"
)

// entryItem adapts a journal entry to bubbles/list.Item.
type entryItem struct {
	entry model.Entry
}

func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string { return "" }
func (i entryItem) FilterValue() string { return i.entry.Title }

// Custom delegate to control how entries render (single line)
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(entryItem)
	line := it.entry.Title
	if when := entryTime(it.entry); !when.IsZero() {
		line += ui.MutedStyle.Render("  " + when.Local().Format("2006-01-02 15:04"))
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

func entryTime(e model.Entry) time.Time {
	if !e.UpdatedAt.IsZero() {
		return e.UpdatedAt
	}
	return e.CreatedAt
}

// entryList wraps the bubbles list and keeps it in sync with the last
// confirmed server state.
type entryList struct {
	list list.Model
}

func newEntryList() entryList {
	l := list.New(nil, entryDelegate{}, 0, 0)
	l.Title = ui.TitleStyle.Render("Entries")
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("entry", "entries")

	// Extend help with our bindings
	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	logoutBind := key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout"))
	extra := func() []key.Binding {
		return []key.Binding{addBind, editBind, delBind, reloadBind, logoutBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	return entryList{list: l}
}

func (el *entryList) setSize(w, h int) {
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	el.list.SetSize(w, h)
}

func (el *entryList) setEntries(entries []model.Entry) {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryItem{entry: e})
	}
	el.list.SetItems(items)
}

// prepend puts a freshly created entry at the top, no refetch needed.
func (el *entryList) prepend(e model.Entry) {
	el.list.InsertItem(0, entryItem{entry: e})
}

func (el *entryList) replace(e model.Entry) {
	for i, it := range el.list.Items() {
		if li, ok := it.(entryItem); ok && li.entry.ID == e.ID {
			el.list.SetItem(i, entryItem{entry: e})
			return
		}
	}
}

func (el *entryList) remove(id string) {
	for i, it := range el.list.Items() {
		if li, ok := it.(entryItem); ok && li.entry.ID == id {
			el.list.RemoveItem(i)
			return
		}
	}
}

func (el *entryList) selected() *model.Entry {
	if it, ok := el.list.SelectedItem().(entryItem); ok {
		e := it.entry
		return &e
	}
	return nil
}

func (el *entryList) count() int { return len(el.list.Items()) }

// updateList handles key events for the entry list screen.
func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.list.SettingFilter() {
		switch keyMsg.String() {
		case "q", "esc":
			return m, tea.Quit

		case "a":
			m.editor.startCreate()
			m.mode = modeEditor
			m.errMsg = ""
			return m, nil

		case "e", "enter":
			if e := m.list.selected(); e != nil {
				m.editor.startEdit(*e)
				m.mode = modeEditor
				m.errMsg = ""
			}
			return m, nil

		case "d":
			if e := m.list.selected(); e != nil {
				m.loading = true
				return m, deleteEntry(m.client, e.ID)
			}
			return m, nil

		case "r":
			m.loading = true
			return m, loadEntries(m.client)

		case "o":
			m.logout()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list.list, cmd = m.list.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	header := ui.TitleStyle.Render("Journal")
	if m.user != nil {
		who := m.user.Name
		if who == "" {
			who = m.user.Email
		}
		header += ui.MutedStyle.Render("  "+who) +
			ui.AccentStyle.Render(fmt.Sprintf("  %d entries", m.list.count()))
	}
	return ui.PanelStyle.Render(header + "\n" + m.list.list.View() + "\n" + m.statusLine())
}

// statusLine renders the shared feedback row: error wins, then the last
// success message, then a loading hint.
func (m Model) statusLine() string {
	switch {
	case m.errMsg != "":
		return ui.ErrorStyle.Render("✖ " + m.errMsg)
	case m.loading:
		return ui.MutedStyle.Render("…")
	case m.status != "":
		return ui.SuccessStyle.Render("✔ " + m.status)
	}
	return ""
}
