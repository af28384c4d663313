package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gig-profile/feature/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	apiKey string
	body   map[string]string
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.EscapedPath()
		captured.apiKey = r.Header.Get("X-API-Key")
		if r.Method == http.MethodPut || r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&captured.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestUpdateContact(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, `{"address":"0xA11CE"}`)
	c := NewClient(Config{BaseURL: srv.URL + "/", ApiKey: "secret", TimeoutSeconds: 2})

	err := c.UpdateContact(context.Background(), "0xA11CE", profile.Contact{
		Name:           "Alice",
		Email:          "alice@example.com",
		WhatsappNumber: "+15550100",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, captured.method)
	assert.Equal(t, "/api/users/0xA11CE", captured.path)
	assert.Equal(t, "secret", captured.apiKey)
	assert.Equal(t, map[string]string{
		"name":           "Alice",
		"email":          "alice@example.com",
		"whatsappNumber": "+15550100",
	}, captured.body)
}

func TestRegister(t *testing.T) {
	srv, captured := newServer(t, http.StatusCreated, `{"address":"0xA11CE"}`)
	c := NewClient(Config{BaseURL: srv.URL, ApiKey: "secret"})

	rec := profile.DefaultRecord()
	rec.Identity = "0xA11CE"
	rec.Role = profile.RoleFreelancer
	rec.DisplayName = "Alice"
	rec.ContactEmail = "alice@example.com"

	created, err := c.Register(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/api/users", captured.path)
	assert.Equal(t, "secret", captured.apiKey)
	assert.Equal(t, map[string]string{
		"address":        "0xA11CE",
		"name":           "Alice",
		"email":          "alice@example.com",
		"whatsappNumber": "",
		"role":           "freelancer",
	}, captured.body)
}

func TestRegister_AlreadyRegistered(t *testing.T) {
	srv, _ := newServer(t, http.StatusConflict, `{"error":"user already exists"}`)
	c := NewClient(Config{BaseURL: srv.URL})

	rec := profile.DefaultRecord()
	rec.Identity = "0xA11CE"

	created, err := c.Register(context.Background(), rec)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRegister_Errors(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Register(context.Background(), profile.DefaultRecord())
	assert.ErrorIs(t, err, ErrNotLinked)

	srv, _ := newServer(t, http.StatusBadRequest, `{"error":"invalid email: is not a valid address"}`)
	rec := profile.DefaultRecord()
	rec.Identity = "0xA11CE"
	_, err = NewClient(Config{BaseURL: srv.URL}).Register(context.Background(), rec)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
}

func TestUpdateContact_Rejected(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"error":"invalid email"}`)
	c := NewClient(Config{BaseURL: srv.URL})

	err := c.UpdateContact(context.Background(), "0xA11CE", profile.Contact{Email: "nope"})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "invalid email", se.Message)
}

func TestUpdateContact_NotLinked(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	assert.ErrorIs(t, c.UpdateContact(context.Background(), "", profile.Contact{}), ErrNotLinked)
}

func TestUpdateContact_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, TimeoutSeconds: 1})
	err := c.UpdateContact(context.Background(), "0xA11CE", profile.Contact{})
	assert.ErrorContains(t, err, "request failed")
}

func TestUpdateContact_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	assert.ErrorIs(t, c.UpdateContact(ctx, "0xA11CE", profile.Contact{}), context.Canceled)
}

func TestFetch(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		srv, captured := newServer(t, http.StatusOK,
			`{"address":"0xA11CE","name":"Alice","email":"a@example.com","whatsappNumber":"1","role":"freelancer","isVerified":true,"updatedAt":"2026-05-01T12:00:00Z"}`)
		c := NewClient(Config{BaseURL: srv.URL})

		u, ok, err := c.Fetch(context.Background(), "0xA11CE")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, http.MethodGet, captured.method)
		assert.Equal(t, "freelancer", u.Role)
		assert.True(t, u.IsVerified)
		assert.True(t, u.UpdatedAt.Equal(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)))
		assert.Equal(t, profile.Contact{Name: "Alice", Email: "a@example.com", WhatsappNumber: "1"}, u.Contact())
	})

	t.Run("Not Found", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusNotFound, `{"error":"user not found"}`)
		c := NewClient(Config{BaseURL: srv.URL})

		_, ok, err := c.Fetch(context.Background(), "0xB0B")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Server Error", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusInternalServerError, `oops`)
		c := NewClient(Config{BaseURL: srv.URL})

		_, _, err := c.Fetch(context.Background(), "0xB0B")
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "users api responded 500", se.Error())
	})
}
