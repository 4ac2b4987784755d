package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/journal/internal/api"
	"github.com/idilsaglam/journal/internal/auth"
)

func newTestClient(t *testing.T, handler http.Handler) (*api.Client, *auth.Store) {
	t.Helper()
	t.Setenv(auth.EnvToken, "") // isolate from any ambient override

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := auth.NewStoreAt(t.TempDir())
	client := api.New(api.Config{
		BaseURL: srv.URL,
		Tokens:  tokens,
		Logger:  zerolog.Nop(),
	})
	return client, tokens
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_StoresTokenAndAuthenticates(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.c", req.Email)
		assert.Equal(t, "hunter2", req.Password)
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok123", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]string{"id": "u1", "email": "a@b.c"})
	})

	client, tokens := newTestClient(t, mux)

	require.NoError(t, client.Login(context.Background(), "a@b.c", "hunter2"))
	assert.Equal(t, "tok123", tokens.Token())

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "a@b.c", user.Email)
}

func TestLogin_MissingAccessToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	})

	client, tokens := newTestClient(t, mux)

	err := client.Login(context.Background(), "a@b.c", "pw")
	assert.Error(t, err)
	assert.Empty(t, tokens.Token())
}

func TestLogout_RemovesBearerHeader(t *testing.T) {
	var headers []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /entries", func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []any{})
	})

	client, tokens := newTestClient(t, mux)
	require.NoError(t, tokens.Set("tok123", nil))

	_, err := client.ListEntries(context.Background())
	require.NoError(t, err)

	require.NoError(t, client.Logout())

	_, err = client.ListEntries(context.Background())
	require.NoError(t, err)

	require.Len(t, headers, 2)
	assert.Equal(t, "Bearer tok123", headers[0])
	assert.Empty(t, headers[1])
}

func TestError_PrefersDetailField(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
	})

	client, _ := newTestClient(t, mux)

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, "token expired", err.Error())

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
	assert.False(t, api.IsStatus(err, http.StatusNotFound))
}

func TestError_NonJSONFallsBackToStatusText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /entries", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream down"))
	})

	client, _ := newTestClient(t, mux)

	_, err := client.ListEntries(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), err.Error())

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []byte("upstream down"), apiErr.Body)
}

func TestListEntries_Normalization(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantIDs []string
	}{
		{
			name:    "bare array",
			payload: `[{"id":"e1","title":"one"},{"id":"e2","title":"two"}]`,
			wantIDs: []string{"e1", "e2"},
		},
		{
			name:    "items wrapper",
			payload: `{"items":[{"id":"e1","title":"one"},{"id":"e2","title":"two"}]}`,
			wantIDs: []string{"e1", "e2"},
		},
		{
			name:    "empty array",
			payload: `[]`,
			wantIDs: []string{},
		},
		{
			name:    "wrapper with null items",
			payload: `{"items":null}`,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /entries", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.payload))
			})

			client, _ := newTestClient(t, mux)

			entries, err := client.ListEntries(context.Background())
			require.NoError(t, err)

			ids := make([]string, 0, len(entries))
			for _, e := range entries {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCreateEntry_SendsJSONBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /entries", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Monday", req.Title)
		assert.Equal(t, "rain again", req.Content)
		writeJSON(w, http.StatusCreated, map[string]string{"id": "e9", "title": req.Title, "content": req.Content})
	})

	client, _ := newTestClient(t, mux)

	entry, err := client.CreateEntry(context.Background(), "Monday", "rain again")
	require.NoError(t, err)
	assert.Equal(t, "e9", entry.ID)
	assert.Equal(t, "Monday", entry.Title)
}

func TestUpdateEntry_TargetsEntryPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /entries/e7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"id": "e7", "title": "new title"})
	})

	client, _ := newTestClient(t, mux)

	entry, err := client.UpdateEntry(context.Background(), "e7", "new title", "body")
	require.NoError(t, err)
	assert.Equal(t, "e7", entry.ID)
	assert.Equal(t, "new title", entry.Title)
}

func TestDeleteEntry_AcceptsEmptyBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /entries/e7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestClient(t, mux)
	assert.NoError(t, client.DeleteEntry(context.Background(), "e7"))
}

func TestDeleteEntry_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /entries/e7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "entry not found"})
	})

	client, _ := newTestClient(t, mux)

	err := client.DeleteEntry(context.Background(), "e7")
	require.Error(t, err)
	assert.Equal(t, "entry not found", err.Error())
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
}
