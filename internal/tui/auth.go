package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/journal/internal/ui"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

// authForm backs both the login and the register screens. The same inputs
// serve both views, so credentials typed during registration carry over to
// the login form afterwards.
type authForm struct {
	inputs []textinput.Model
	focus  int
}

func newAuthForm() authForm {
	email := textinput.New()
	email.Prompt = "> "
	email.Placeholder = "email"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "password"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword

	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "display name (optional)"
	name.CharLimit = 200

	return authForm{inputs: []textinput.Model{email, password, name}}
}

func (f *authForm) email() string    { return strings.TrimSpace(f.inputs[fieldEmail].Value()) }
func (f *authForm) password() string { return f.inputs[fieldPassword].Value() }
func (f *authForm) name() string     { return strings.TrimSpace(f.inputs[fieldName].Value()) }

func (f *authForm) clearPassword() {
	f.inputs[fieldPassword].SetValue("")
	f.focusFirst()
}

func (f *authForm) focusFirst() {
	f.setFocus(fieldEmail)
}

func (f *authForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// updateAuth handles key events for the login and register screens.
func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	fields := 2 // login: email + password
	if m.mode == modeRegister {
		fields = 3
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, tea.Quit

		case "ctrl+t":
			// toggle login/register, keeping whatever was typed
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
				if m.auth.focus >= fields {
					m.auth.focusFirst()
				}
			}
			m.errMsg = ""
			return m, nil

		case "tab", "down":
			m.auth.setFocus((m.auth.focus + 1) % fields)
			return m, nil

		case "shift+tab", "up":
			m.auth.setFocus((m.auth.focus + fields - 1) % fields)
			return m, nil

		case "enter":
			if m.auth.focus < fields-1 {
				m.auth.setFocus(m.auth.focus + 1)
				return m, nil
			}
			return m.submitAuth()
		}
	}

	var cmd tea.Cmd
	m.auth.inputs[m.auth.focus], cmd = m.auth.inputs[m.auth.focus].Update(msg)
	return m, cmd
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	email, password := m.auth.email(), m.auth.password()
	if email == "" || password == "" {
		m.errMsg = "email and password are required"
		return m, nil
	}
	m.errMsg = ""
	m.status = ""
	m.loading = true
	if m.mode == modeRegister {
		return m, doRegister(m.client, email, password, m.auth.name())
	}
	return m, doLogin(m.client, email, password)
}

func (m Model) viewAuth() string {
	title := "Journal — sign in"
	help := "enter submit · ctrl+t register · esc quit"
	fields := 2
	if m.mode == modeRegister {
		title = "Journal — create account"
		help = "enter submit · ctrl+t sign in · esc quit"
		fields = 3
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(title))
	b.WriteString("\n\n")
	for i := 0; i < fields; i++ {
		b.WriteString(m.auth.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(ui.HelpStyle.Render(help))
	return ui.PanelStyle.Render(b.String())
}
