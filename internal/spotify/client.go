// Package spotify is a minimal Spotify Web API client covering the two
// calls the pipeline needs: track search and bulk audio features.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelars/melodex/internal/constants"
	"github.com/avelars/melodex/internal/domain"
)

// Track is one candidate record from a track search.
type Track struct {
	ID         string
	Name       string
	Artists    []string
	Popularity int
}

// ClientInterface is implemented by Client and by test doubles.
type ClientInterface interface {
	SearchTracks(ctx context.Context, query string) ([]Track, error)
	AudioFeatures(ctx context.Context, ids []string) ([]*domain.AudioFeatures, error)
}

// Client talks to the Spotify Web API using the client-credentials flow.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	authURL      string
	clientID     string
	clientSecret string

	token       string
	tokenExpiry time.Time
}

// NewClient creates a Spotify client. baseURL and authURL are
// overridable for tests.
func NewClient(baseURL, authURL, clientID, clientSecret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// SearchTracks runs a free-text track search and returns the ranked
// candidates.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]Track, error) {
	u := fmt.Sprintf("%s/search?q=%s&type=%s", c.baseURL, url.QueryEscape(query), constants.SearchTypeTrack)

	var result searchResponse
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	tracks := make([]Track, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		t := Track{
			ID:         item.ID,
			Name:       item.Name,
			Popularity: item.Popularity,
		}
		for _, a := range item.Artists {
			t.Artists = append(t.Artists, a.Name)
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// AudioFeatures fetches the acoustic attribute schema for up to 100
// track ids in one request. The returned slice is aligned with ids; an
// entry is nil when the service has no usable features for that id.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]*domain.AudioFeatures, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > constants.MaxFeatureBatchSize {
		return nil, fmt.Errorf("requested %d ids, maximum is %d", len(ids), constants.MaxFeatureBatchSize)
	}

	u := fmt.Sprintf("%s/audio-features?ids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	var result featuresResponse
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("audio features failed: %w", err)
	}
	if len(result.AudioFeatures) != len(ids) {
		return nil, fmt.Errorf("got %d feature entries for %d ids", len(result.AudioFeatures), len(ids))
	}

	features := make([]*domain.AudioFeatures, len(ids))
	for i, entry := range result.AudioFeatures {
		features[i] = entry.complete()
	}
	return features, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, out)
}

// doJSON executes a request with bounded retry. Transient server errors
// are retried immediately; a 429 sleeps for the cool-down (or the
// Retry-After hint) before retrying, capped at MaxRateLimitWaits.
func (c *Client) doJSON(ctx context.Context, newRequest func() (*http.Request, error), out interface{}) error {
	retried := 0
	waited := 0
	var lastErr error

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req, err := newRequest()
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			retried++
			if retried > constants.DefaultRetryCount {
				return lastErr
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := parseRetryAfter(resp)
			_ = resp.Body.Close()
			waited++
			if waited > constants.MaxRateLimitWaits {
				return fmt.Errorf("rate limited %d times, giving up", waited-1)
			}
			if wait <= 0 {
				wait = constants.RateLimitCooldown
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			continue

		case isTransient(resp.StatusCode):
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("spotify returned status %d", resp.StatusCode)
			retried++
			if retried > constants.DefaultRetryCount {
				return lastErr
			}
			continue

		case resp.StatusCode != http.StatusOK:
			_ = resp.Body.Close()
			return fmt.Errorf("spotify returned status %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
}

func isTransient(status int) bool {
	return status == http.StatusInternalServerError ||
		status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable
}

// ensureToken returns a cached client-credentials token, refreshing it
// when missing or close to expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	var result tokenResponse
	err := c.doJSON(ctx, func() (*http.Request, error) {
		form := url.Values{"grant_type": {"client_credentials"}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.clientID, c.clientSecret)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, &result)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.token = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn)*time.Second - 30*time.Second)
	return c.token, nil
}

func parseRetryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}
	if seconds, err := time.ParseDuration(ra + "s"); err == nil && seconds > 0 {
		return seconds
	}
	return 0
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type searchResponse struct {
	Tracks struct {
		Items []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Popularity int `json:"popularity"`
		} `json:"items"`
	} `json:"tracks"`
}

type featuresResponse struct {
	AudioFeatures []*featuresEntry `json:"audio_features"`
}

// featuresEntry uses pointer fields so a missing attribute is
// distinguishable from a zero value.
type featuresEntry struct {
	Acousticness     *float64 `json:"acousticness"`
	Danceability     *float64 `json:"danceability"`
	DurationMS       *int     `json:"duration_ms"`
	Energy           *float64 `json:"energy"`
	Instrumentalness *float64 `json:"instrumentalness"`
	Key              *int     `json:"key"`
	Liveness         *float64 `json:"liveness"`
	Loudness         *float64 `json:"loudness"`
	Mode             *int     `json:"mode"`
	Speechiness      *float64 `json:"speechiness"`
	Tempo            *float64 `json:"tempo"`
	TimeSignature    *int     `json:"time_signature"`
	Valence          *float64 `json:"valence"`
}

// complete returns the fixed-schema features, or nil when the entry is
// absent or any attribute is missing.
func (e *featuresEntry) complete() *domain.AudioFeatures {
	if e == nil {
		return nil
	}
	if e.Acousticness == nil || e.Danceability == nil || e.DurationMS == nil ||
		e.Energy == nil || e.Instrumentalness == nil || e.Key == nil ||
		e.Liveness == nil || e.Loudness == nil || e.Mode == nil ||
		e.Speechiness == nil || e.Tempo == nil || e.TimeSignature == nil ||
		e.Valence == nil {
		return nil
	}
	return &domain.AudioFeatures{
		Acousticness:     *e.Acousticness,
		Danceability:     *e.Danceability,
		DurationMS:       *e.DurationMS,
		Energy:           *e.Energy,
		Instrumentalness: *e.Instrumentalness,
		Key:              *e.Key,
		Liveness:         *e.Liveness,
		Loudness:         *e.Loudness,
		Mode:             *e.Mode,
		Speechiness:      *e.Speechiness,
		Tempo:            *e.Tempo,
		TimeSignature:    *e.TimeSignature,
		Valence:          *e.Valence,
	}
}
