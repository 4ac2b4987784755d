package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/journal/internal/model"
)

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func listIDs(m Model) []string {
	ids := make([]string, 0, m.list.count())
	for _, it := range m.list.list.Items() {
		ids = append(ids, it.(entryItem).entry.ID)
	}
	return ids
}

func seeded(t *testing.T, entries ...model.Entry) Model {
	t.Helper()
	m := New(nil)
	m.mode = modeList
	return apply(t, m, entriesMsg{entries: entries})
}

func TestEntriesMsg_PopulatesList(t *testing.T) {
	m := seeded(t,
		model.Entry{ID: "e1", Title: "one"},
		model.Entry{ID: "e2", Title: "two"},
	)
	assert.Equal(t, []string{"e1", "e2"}, listIDs(m))
}

func TestEntrySaved_CreatedIsPrepended(t *testing.T) {
	m := seeded(t, model.Entry{ID: "e1", Title: "one"})
	m.mode = modeEditor

	m = apply(t, m, entrySavedMsg{entry: &model.Entry{ID: "e2", Title: "two"}, created: true})

	assert.Equal(t, []string{"e2", "e1"}, listIDs(m), "new entry goes on top without a refetch")
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.errMsg)
}

func TestEntrySaved_UpdatedReplacesInPlace(t *testing.T) {
	m := seeded(t,
		model.Entry{ID: "e1", Title: "one"},
		model.Entry{ID: "e2", Title: "two"},
	)

	m = apply(t, m, entrySavedMsg{entry: &model.Entry{ID: "e2", Title: "TWO"}})

	assert.Equal(t, []string{"e1", "e2"}, listIDs(m))
	assert.Equal(t, "TWO", m.list.list.Items()[1].(entryItem).entry.Title)
}

func TestEntrySaved_ErrorLeavesStateUntouched(t *testing.T) {
	m := seeded(t, model.Entry{ID: "e1", Title: "one"})
	m.mode = modeEditor

	m = apply(t, m, entrySavedMsg{err: errors.New("title too long")})

	assert.Equal(t, []string{"e1"}, listIDs(m))
	assert.Equal(t, modeEditor, m.mode, "a failed save keeps the draft open")
	assert.Equal(t, "title too long", m.errMsg)
}

func TestEntryDeleted_RemovesByID(t *testing.T) {
	m := seeded(t,
		model.Entry{ID: "e1", Title: "one"},
		model.Entry{ID: "e2", Title: "two"},
	)

	m = apply(t, m, entryDeletedMsg{id: "e1"})

	assert.Equal(t, []string{"e2"}, listIDs(m))
}

func TestProfileFailure_IsNotAnError(t *testing.T) {
	m := New(nil)

	m = apply(t, m, profileMsg{err: errors.New("Unauthorized")})

	assert.Equal(t, modeLogin, m.mode)
	assert.Empty(t, m.errMsg, "a missing session just means logged out")
}

func TestProfileSuccess_LoadsEntries(t *testing.T) {
	m := New(nil)

	updated, cmd := m.Update(profileMsg{user: &model.User{ID: "u1", Email: "a@b.c"}})
	m = updated.(Model)

	assert.Equal(t, modeList, m.mode)
	require.NotNil(t, m.user)
	assert.Equal(t, "a@b.c", m.user.Email)
	assert.NotNil(t, cmd, "a fresh session reloads the entry list")
}

func TestRegisterDone_CarriesCredentialsToLogin(t *testing.T) {
	m := New(nil)
	m.mode = modeRegister
	m.auth.inputs[fieldEmail].SetValue("a@b.c")
	m.auth.inputs[fieldPassword].SetValue("hunter2")
	m.auth.inputs[fieldName].SetValue("Ada")

	m = apply(t, m, registerDoneMsg{user: &model.User{ID: "u1", Email: "a@b.c"}})

	assert.Equal(t, modeLogin, m.mode)
	assert.Equal(t, "a@b.c", m.auth.email(), "email survives the view switch")
	assert.Equal(t, "hunter2", m.auth.password(), "password survives the view switch")
}

func TestLoginFailure_ShowsMessage(t *testing.T) {
	m := New(nil)

	m = apply(t, m, loginDoneMsg{err: errors.New("invalid credentials")})

	assert.Equal(t, modeLogin, m.mode)
	assert.Equal(t, "invalid credentials", m.errMsg)
}
