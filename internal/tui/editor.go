package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/journal/internal/model"
	"github.com/idilsaglam/journal/internal/ui"
)

// entryEditor is the create/edit draft. An empty id means create mode;
// otherwise id is the listed entry being edited.
type entryEditor struct {
	id      string
	title   textinput.Model
	content textarea.Model

	inContent bool // focus sits on the content area
}

func newEntryEditor() entryEditor {
	title := textinput.New()
	title.Prompt = "> "
	title.Placeholder = "Title..."
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write something..."
	content.ShowLineNumbers = false

	return entryEditor{title: title, content: content}
}

func (ed *entryEditor) startCreate() {
	ed.id = ""
	ed.title.SetValue("")
	ed.content.SetValue("")
	ed.focusTitle()
}

func (ed *entryEditor) startEdit(e model.Entry) {
	ed.id = e.ID
	ed.title.SetValue(e.Title)
	ed.title.CursorEnd()
	ed.content.SetValue(e.Content)
	ed.focusTitle()
}

func (ed *entryEditor) focusTitle() {
	ed.inContent = false
	ed.title.Focus()
	ed.content.Blur()
}

func (ed *entryEditor) focusContent() {
	ed.inContent = true
	ed.title.Blur()
	ed.content.Focus()
}

func (ed *entryEditor) setSize(w, h int) {
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}
	ed.title.Width = w
	ed.content.SetWidth(w)
	ed.content.SetHeight(h)
}

// updateEditor handles key events for the draft screen.
func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.mode = modeList
			m.errMsg = ""
			return m, nil

		case "tab", "shift+tab":
			if m.editor.inContent {
				m.editor.focusTitle()
			} else {
				m.editor.focusContent()
			}
			return m, nil

		case "enter":
			// enter on the title drops into the content area
			if !m.editor.inContent {
				m.editor.focusContent()
				return m, nil
			}

		case "ctrl+s":
			title := strings.TrimSpace(m.editor.title.Value())
			if title == "" {
				m.errMsg = "title cannot be empty"
				return m, nil
			}
			m.errMsg = ""
			m.loading = true
			return m, saveEntry(m.client, m.editor.id, title, m.editor.content.Value())
		}
	}

	var cmd tea.Cmd
	if m.editor.inContent {
		m.editor.content, cmd = m.editor.content.Update(msg)
	} else {
		m.editor.title, cmd = m.editor.title.Update(msg)
	}
	return m, cmd
}

func (m Model) viewEditor() string {
	header := "New entry"
	if m.editor.id != "" {
		header = "Edit entry"
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(header))
	b.WriteString("\n\n")
	b.WriteString(m.editor.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.editor.content.View())
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(ui.HelpStyle.Render("ctrl+s save · tab switch field · esc cancel"))
	return ui.PanelStyle.Render(b.String())
}
