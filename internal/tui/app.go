// Package tui is the interactive journal: auth forms, the entry list and
// the entry editor, all in one Bubble Tea program.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/journal/internal/api"
	"github.com/idilsaglam/journal/internal/model"
)

// mode is the current screen. Login/register and list/editor are plain
// enumerated toggles; there is no deeper state machine.
type mode int

const (
	modeLogin mode = iota
	modeRegister
	modeList
	modeEditor
)

// Model holds all UI state. Entries mirror the last successful fetch and
// are mutated only after the server confirms a change.
type Model struct {
	client *api.Client
	mode   mode

	width  int
	height int

	user *model.User

	auth   authForm
	list   entryList
	editor entryEditor

	status  string // last success feedback
	errMsg  string // last error, cleared on the next action
	loading bool
}

// New builds the initial model around an API client.
func New(client *api.Client) Model {
	return Model{
		client: client,
		mode:   modeLogin,
		auth:   newAuthForm(),
		list:   newEntryList(),
		editor: newEntryEditor(),
	}
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(client *api.Client) error {
	p := tea.NewProgram(New(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ---------------------------------------------------
// Messages: one per settled API call
// ---------------------------------------------------

type profileMsg struct {
	user *model.User
	err  error
}

type loginDoneMsg struct {
	err error
}

type registerDoneMsg struct {
	user *model.User
	err  error
}

type entriesMsg struct {
	entries []model.Entry
	err     error
}

type entrySavedMsg struct {
	entry   *model.Entry
	created bool
	err     error
}

type entryDeletedMsg struct {
	id  string
	err error
}

// ---------------------------------------------------
// Commands: each user action dispatches exactly one request
// ---------------------------------------------------

func fetchProfile(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		return profileMsg{user: user, err: err}
	}
}

func doLogin(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: client.Login(context.Background(), email, password)}
	}
}

func doRegister(client *api.Client, email, password, name string) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Register(context.Background(), email, password, name)
		return registerDoneMsg{user: user, err: err}
	}
}

func loadEntries(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.ListEntries(context.Background())
		return entriesMsg{entries: entries, err: err}
	}
}

func saveEntry(client *api.Client, id, title, content string) tea.Cmd {
	return func() tea.Msg {
		if id == "" {
			entry, err := client.CreateEntry(context.Background(), title, content)
			return entrySavedMsg{entry: entry, created: true, err: err}
		}
		entry, err := client.UpdateEntry(context.Background(), id, title, content)
		return entrySavedMsg{entry: entry, err: err}
	}
}

func deleteEntry(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		return entryDeletedMsg{id: id, err: client.DeleteEntry(context.Background(), id)}
	}
}

// ---------------------------------------------------
// Bubble Tea plumbing
// ---------------------------------------------------

// Init probes the session. A failed profile fetch just means "not logged
// in" and lands on the login form with no error shown.
func (m Model) Init() tea.Cmd {
	return fetchProfile(m.client)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.setSize(msg.Width-4, msg.Height-6)
		m.editor.setSize(msg.Width-6, msg.Height-10)
		return m, nil

	case profileMsg:
		m.loading = false
		if msg.err != nil {
			// no session: stay on (or fall back to) the login form
			if m.mode != modeRegister {
				m.mode = modeLogin
			}
			return m, nil
		}
		m.user = msg.user
		m.mode = modeList
		m.loading = true
		return m, loadEntries(m.client)

	case loginDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.status = "logged in"
		m.loading = true
		return m, fetchProfile(m.client)

	case registerDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		// back to login with email/password carried over
		m.errMsg = ""
		m.mode = modeLogin
		m.auth.focusFirst()
		m.status = "account created — press enter to log in"
		return m, nil

	case entriesMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.list.setEntries(msg.entries)
		return m, nil

	case entrySavedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		if msg.created {
			m.list.prepend(*msg.entry)
			m.status = "entry created"
		} else {
			m.list.replace(*msg.entry)
			m.status = "entry updated"
		}
		m.mode = modeList
		return m, nil

	case entryDeletedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.list.remove(msg.id)
		m.status = "entry deleted"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.mode {
	case modeLogin, modeRegister:
		return m.updateAuth(msg)
	case modeEditor:
		return m.updateEditor(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) View() string {
	switch m.mode {
	case modeLogin, modeRegister:
		return m.viewAuth()
	case modeEditor:
		return m.viewEditor()
	default:
		return m.viewList()
	}
}

func (m *Model) logout() {
	if err := m.client.Logout(); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.user = nil
	m.list.setEntries(nil)
	m.auth.clearPassword()
	m.mode = modeLogin
	m.status = "logged out"
	m.errMsg = ""
}
