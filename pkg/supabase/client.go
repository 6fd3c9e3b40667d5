package supabase

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/supabase-community/postgrest-go"
)

var (
	ErrMissingCredentials = errors.New("missing SUPABASE_URL or SUPABASE_ANON_KEY")
	ErrKeyExpired         = errors.New("supabase key has expired")
)

// Client talks to a Supabase project: PostgREST for table access and the
// Realtime websocket endpoint for change notifications.
type Client struct {
	url        string
	key        string
	projectRef string
}

// NewClient validates the credentials. Legacy anon keys are JWTs; their
// claims are read (not verified) so an expired key fails fast instead of on
// the first request.
func NewClient(baseURL, key string) (*Client, error) {
	if baseURL == "" || key == "" {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		url: strings.TrimRight(baseURL, "/"),
		key: key,
	}

	if strings.Count(key, ".") == 2 {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
			return nil, fmt.Errorf("failed to parse supabase key: %w", err)
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
			return nil, ErrKeyExpired
		}
		if ref, ok := claims["ref"].(string); ok {
			c.projectRef = ref
		}
	}

	return c, nil
}

func (c *Client) Key() string {
	return c.key
}

// ProjectRef is the project reference embedded in the key, if any.
func (c *Client) ProjectRef() string {
	return c.projectRef
}

// RealtimeURL is the websocket endpoint of the Realtime service.
func (c *Client) RealtimeURL() string {
	u := c.url
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	q := url.Values{}
	q.Set("apikey", c.key)
	q.Set("vsn", "1.0.0")
	return u + "/realtime/v1/websocket?" + q.Encode()
}

// Rest returns a PostgREST client for the project's public schema,
// authenticated with the project key.
func (c *Client) Rest() *postgrest.Client {
	return postgrest.NewClient(c.url+"/rest/v1", "public", map[string]string{
		"apikey":        c.key,
		"Authorization": "Bearer " + c.key,
	})
}
