package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avelars/melodex/internal/constants"
)

const tokenJSON = `{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`

// newTestClient wires a client against a handler that also answers the
// token endpoint.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, tokenJSON)
	})
	mux.HandleFunc("/", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, server.URL+"/token", "id", "secret")
	return client, server
}

func TestSearchTracks(t *testing.T) {
	var gotAuth, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"tracks":{"items":[
			{"id":"1ybJ2itxCxPCPkcA9sOgTO","name":"Satisfied (feat. Miguel & Queen Latifah)",
			 "artists":[{"name":"Sia"}],"popularity":64},
			{"id":"other","name":"Satisfied","artists":[{"name":"Somebody Else"}],"popularity":10}
		]}}`)
	})

	tracks, err := client.SearchTracks(context.Background(), "Satisfied Sia")
	if err != nil {
		t.Fatalf("SearchTracks failed: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Expected bearer token header, got %q", gotAuth)
	}
	if gotQuery != "Satisfied Sia" {
		t.Errorf("Expected query passed through, got %q", gotQuery)
	}
	if len(tracks) != 2 {
		t.Fatalf("Expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].ID != "1ybJ2itxCxPCPkcA9sOgTO" {
		t.Errorf("Unexpected first id %q", tracks[0].ID)
	}
	if tracks[0].Popularity != 64 {
		t.Errorf("Expected popularity 64, got %d", tracks[0].Popularity)
	}
	if len(tracks[0].Artists) != 1 || tracks[0].Artists[0] != "Sia" {
		t.Errorf("Unexpected artists %v", tracks[0].Artists)
	}
}

func TestAudioFeatures(t *testing.T) {
	t.Run("values_copied_verbatim", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"audio_features":[{
				"acousticness":0.124,"danceability":0.317,"duration_ms":175507,
				"energy":0.562,"instrumentalness":0.000144,"key":9,"liveness":0.0667,
				"loudness":-9.609,"mode":1,"speechiness":0.395,"tempo":181.1,
				"time_signature":4,"valence":0.127}]}`)
		})

		features, err := client.AudioFeatures(context.Background(), []string{"1ehPJRt49h6N0LoryqKZXq"})
		if err != nil {
			t.Fatalf("AudioFeatures failed: %v", err)
		}
		if len(features) != 1 || features[0] == nil {
			t.Fatalf("Expected one feature entry, got %v", features)
		}
		f := features[0]
		if f.DurationMS != 175507 {
			t.Errorf("Expected duration_ms 175507, got %d", f.DurationMS)
		}
		if f.Key != 9 {
			t.Errorf("Expected key 9, got %d", f.Key)
		}
		if f.Mode != 1 {
			t.Errorf("Expected mode 1, got %d", f.Mode)
		}
		if f.TimeSignature != 4 {
			t.Errorf("Expected time_signature 4, got %d", f.TimeSignature)
		}
	})

	t.Run("absent_and_incomplete_entries_are_nil", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"audio_features":[
				null,
				{"acousticness":0.5,"danceability":0.5}
			]}`)
		})

		features, err := client.AudioFeatures(context.Background(), []string{"a", "b"})
		if err != nil {
			t.Fatalf("AudioFeatures failed: %v", err)
		}
		if features[0] != nil {
			t.Error("Expected nil for null entry")
		}
		if features[1] != nil {
			t.Error("Expected nil for entry missing attributes")
		}
	})

	t.Run("batch_size_enforced", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		ids := make([]string, constants.MaxFeatureBatchSize+1)
		for i := range ids {
			ids[i] = fmt.Sprintf("id%d", i)
		}
		if _, err := client.AudioFeatures(context.Background(), ids); err == nil {
			t.Error("Expected error for oversized batch")
		}
	})

	t.Run("empty_ids_no_request", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("Unexpected request for empty id list")
		})
		features, err := client.AudioFeatures(context.Background(), nil)
		if err != nil || features != nil {
			t.Errorf("Expected nil, nil for empty ids, got %v, %v", features, err)
		}
	})
}

func TestRetryBehavior(t *testing.T) {
	t.Run("transient_errors_bounded", func(t *testing.T) {
		attempts := 0
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := client.SearchTracks(context.Background(), "q")
		if err == nil {
			t.Fatal("Expected error after retries exhausted")
		}
		if want := 1 + constants.DefaultRetryCount; attempts != want {
			t.Errorf("Expected %d attempts, got %d", want, attempts)
		}
	})

	t.Run("transient_then_success", func(t *testing.T) {
		attempts := 0
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts == 1 {
				http.Error(w, "bad gateway", http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, `{"tracks":{"items":[]}}`)
		})

		if _, err := client.SearchTracks(context.Background(), "q"); err != nil {
			t.Fatalf("Expected recovery after transient error, got %v", err)
		}
		if attempts != 2 {
			t.Errorf("Expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("rate_limit_waits_then_retries", func(t *testing.T) {
		attempts := 0
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts == 1 {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "slow down", http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, `{"tracks":{"items":[]}}`)
		})

		if _, err := client.SearchTracks(context.Background(), "q"); err != nil {
			t.Fatalf("Expected success after cool-down, got %v", err)
		}
		if attempts != 2 {
			t.Errorf("Expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("non_transient_status_fails_fast", func(t *testing.T) {
		attempts := 0
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			http.Error(w, "nope", http.StatusForbidden)
		})

		_, err := client.SearchTracks(context.Background(), "q")
		if err == nil || !strings.Contains(err.Error(), "403") {
			t.Errorf("Expected 403 error, got %v", err)
		}
		if attempts != 1 {
			t.Errorf("Expected a single attempt, got %d", attempts)
		}
	})
}

func TestTokenReuse(t *testing.T) {
	tokenRequests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		fmt.Fprint(w, tokenJSON)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tracks":{"items":[]}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, server.URL+"/token", "id", "secret")
	for i := 0; i < 3; i++ {
		if _, err := client.SearchTracks(context.Background(), "q"); err != nil {
			t.Fatalf("SearchTracks failed: %v", err)
		}
	}
	if tokenRequests != 1 {
		t.Errorf("Expected token fetched once, got %d", tokenRequests)
	}
}
