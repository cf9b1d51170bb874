package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultHelixURL is the production Twitch Helix API endpoint
const DefaultHelixURL = "https://api.twitch.tv/helix"

// ClipsPerChannel caps how many clips are fetched for each channel
const ClipsPerChannel = 5

// ErrChannelNotFound indicates the Helix users endpoint returned no match.
// Transport and status errors are reported the same way to callers: in both
// cases the channel cannot be resolved and is skipped.
var ErrChannelNotFound = errors.New("channel not found")

// Clip is a single Twitch clip as returned by the Helix clips endpoint
type Clip struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// TwitchClient talks to the Twitch Helix API
type TwitchClient struct {
	baseURL    string
	clientID   string
	oauthToken string
	httpClient *http.Client
}

// NewTwitchClient creates a Helix API client
func NewTwitchClient(baseURL, clientID, oauthToken string) *TwitchClient {
	if baseURL == "" {
		baseURL = DefaultHelixURL
	}
	return &TwitchClient{
		baseURL:    baseURL,
		clientID:   clientID,
		oauthToken: oauthToken,
		httpClient: http.DefaultClient,
	}
}

// get performs an authenticated Helix GET request and decodes the "data" array
func (c *TwitchClient) get(ctx context.Context, path string, params url.Values, data any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if envelope.Data == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, data); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

// UserID resolves a channel name to its broadcaster id
func (c *TwitchClient) UserID(ctx context.Context, login string) (string, error) {
	var users []struct {
		ID string `json:"id"`
	}
	params := url.Values{"login": {login}}
	if err := c.get(ctx, "/users", params, &users); err != nil {
		return "", fmt.Errorf("looking up channel %s: %w", login, err)
	}
	if len(users) == 0 {
		return "", fmt.Errorf("looking up channel %s: %w", login, ErrChannelNotFound)
	}
	return users[0].ID, nil
}

// Clips returns up to ClipsPerChannel recent clips for a broadcaster.
// A single page is fetched; the Helix ordering is kept as-is.
func (c *TwitchClient) Clips(ctx context.Context, broadcasterID string) ([]Clip, error) {
	var clips []Clip
	params := url.Values{
		"broadcaster_id": {broadcasterID},
		"first":          {strconv.Itoa(ClipsPerChannel)},
	}
	if err := c.get(ctx, "/clips", params, &clips); err != nil {
		return nil, fmt.Errorf("listing clips for broadcaster %s: %w", broadcasterID, err)
	}
	return clips, nil
}
