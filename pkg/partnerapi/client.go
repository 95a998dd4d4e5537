package partnerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"time"
)

// LookupStatus classifies a partner-site lookup result.
type LookupStatus string

const (
	StatusFound       LookupStatus = "FOUND"
	StatusNotFound    LookupStatus = "NOT_FOUND"
	StatusUnavailable LookupStatus = "UNAVAILABLE"
)

// LookupResult is a partner-site user lookup result. XP and UnderCode are
// only meaningful for StatusFound.
type LookupResult struct {
	Status    LookupStatus `json:"status"`
	XP        int          `json:"xp"`
	UnderCode bool         `json:"underCode"`
}

// Lookup is the external eligibility lookup consumed by the engine. An
// outage is reported as StatusUnavailable, not as an error, so callers can
// degrade to manual verification.
type Lookup interface {
	LookupUser(ctx context.Context, username string) (LookupResult, error)
}

// Client represents a partner API client
type Client struct {
	BaseURL string
	APIKey  string
	MockAPI bool
	client  *http.Client
}

// NewClient creates a new partner API client
func NewClient(baseURL, apiKey string, mockAPI bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		MockAPI: mockAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type userResponse struct {
	Username  string `json:"username"`
	XP        int    `json:"xp"`
	UnderCode bool   `json:"underCode"`
}

// LookupUser looks up a partner-site user by username. Transport failures
// and 5xx responses map to StatusUnavailable.
func (c *Client) LookupUser(ctx context.Context, username string) (LookupResult, error) {
	if c.MockAPI {
		return c.mockLookupUser(username), nil
	}

	endpoint := fmt.Sprintf("%s/users/%s", c.BaseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return LookupResult{Status: StatusUnavailable}, nil
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return LookupResult{Status: StatusUnavailable}, nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return LookupResult{Status: StatusNotFound}, nil
	case resp.StatusCode >= 500:
		return LookupResult{Status: StatusUnavailable}, nil
	case resp.StatusCode != http.StatusOK:
		return LookupResult{}, fmt.Errorf("partner API returned status %d", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return LookupResult{Status: StatusUnavailable}, nil
	}

	return LookupResult{Status: StatusFound, XP: user.XP, UnderCode: user.UnderCode}, nil
}

// mockLookupUser mocks LookupUser for local development. The same username
// always resolves to the same values.
func (c *Client) mockLookupUser(username string) LookupResult {
	h := fnv.New32a()
	h.Write([]byte(username))
	sum := h.Sum32()

	if sum%17 == 0 {
		return LookupResult{Status: StatusNotFound}
	}

	return LookupResult{
		Status:    StatusFound,
		XP:        int(sum % 500000),
		UnderCode: sum%4 != 0,
	}
}
