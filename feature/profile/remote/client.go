package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gig-profile/core/middleware/auth"
	"gig-profile/feature/profile"

	"github.com/gofiber/fiber/v2"
)

// ErrNotLinked is returned for requests about a profile with no identity.
var ErrNotLinked = errors.New("profile is not linked to an identity")

// StatusError is a non-2xx answer from the users API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("users api responded %d", e.Code)
	}
	return fmt.Sprintf("users api responded %d: %s", e.Code, e.Message)
}

// User is the users API representation of an account.
type User struct {
	Address        string    `json:"address"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	WhatsappNumber string    `json:"whatsappNumber"`
	Role           string    `json:"role"`
	IsVerified     bool      `json:"isVerified"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Contact returns the remote-authoritative fields of the user.
func (u User) Contact() profile.Contact {
	return profile.Contact{Name: u.Name, Email: u.Email, WhatsappNumber: u.WhatsappNumber}
}

// Client talks to the users API. It implements profile.RemoteStore.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// NewClient creates a users API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.ApiKey,
		timeout: time.Duration(timeout) * time.Second,
	}
}

// UpdateContact sends the contact fields of identity's profile.
func (c *Client) UpdateContact(ctx context.Context, identity string, contact profile.Contact) error {
	if identity == "" {
		return ErrNotLinked
	}
	a := fiber.Put(c.userURL(identity)).JSON(contact)
	code, body, err := c.do(ctx, a)
	if err != nil {
		return err
	}
	if code < 200 || code > 299 {
		return statusError(code, body)
	}
	return nil
}

// registration is the body of POST /api/users.
type registration struct {
	Address string `json:"address"`
	profile.Contact
	Role string `json:"role"`
}

// Register creates the account of a linked record. created is false when the
// API already has an account for the identity.
func (c *Client) Register(ctx context.Context, rec profile.Record) (created bool, err error) {
	if rec.Identity == "" {
		return false, ErrNotLinked
	}
	a := fiber.Post(c.baseURL + "/api/users").JSON(registration{
		Address: rec.Identity,
		Contact: rec.Contact(),
		Role:    string(rec.Role),
	})
	code, body, err := c.do(ctx, a)
	if err != nil {
		return false, err
	}
	switch {
	case code == fiber.StatusConflict:
		return false, nil
	case code < 200 || code > 299:
		return false, statusError(code, body)
	}
	return true, nil
}

// Fetch reads identity's user record. ok is false when the API does not know it.
func (c *Client) Fetch(ctx context.Context, identity string) (u User, ok bool, err error) {
	if identity == "" {
		return User{}, false, ErrNotLinked
	}
	code, body, err := c.do(ctx, fiber.Get(c.userURL(identity)))
	if err != nil {
		return User{}, false, err
	}
	switch {
	case code == fiber.StatusNotFound:
		return User{}, false, nil
	case code < 200 || code > 299:
		return User{}, false, statusError(code, body)
	}
	if err := json.Unmarshal(body, &u); err != nil {
		return User{}, false, fmt.Errorf("failed to decode user: %w", err)
	}
	return u, true, nil
}

func (c *Client) userURL(identity string) string {
	return c.baseURL + "/api/users/" + url.PathEscape(identity)
}

// do runs the request. The agent has no context support, so the context only
// gates the start and shortens the timeout to its deadline.
func (c *Client) do(ctx context.Context, a *fiber.Agent) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if c.apiKey != "" {
		a.Set(auth.Header, c.apiKey)
	}

	code, body, errs := a.Timeout(timeout).Bytes()
	if len(errs) > 0 {
		return 0, nil, fmt.Errorf("users api request failed: %w", errors.Join(errs...))
	}
	return code, body, nil
}

func statusError(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	return &StatusError{Code: code, Message: payload.Error}
}
