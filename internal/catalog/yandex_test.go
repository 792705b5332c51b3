package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/tunecord/internal/domain"
	"go.uber.org/zap"
)

const searchBody = `{
  "result": {
    "tracks": {
      "results": [
        {"title": "Waste (Remix)", "artists": [{"name": "Someone Else"}], "albums": [{"title": "Remixes"}], "coverUri": "avatars.yandex.net/remix/%%"},
        {"title": "waste", "artists": [{"name": "zxcursed"}], "albums": [{"title": "Album"}], "coverUri": "avatars.yandex.net/orig/%%"}
      ]
    }
  }
}`

func TestYandexSearcher_Search(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		responseBody  string
		token         string
		ctxFunc       func() (context.Context, context.CancelFunc)
		expectedError string
		check         func(*testing.T, *domain.SearchResult, *http.Request)
	}{
		{
			name:         "Success - Closest Match Wins",
			statusCode:   http.StatusOK,
			responseBody: searchBody,
			token:        "tok",
			check: func(t *testing.T, res *domain.SearchResult, req *http.Request) {
				if res == nil {
					t.Fatal("expected a result")
				}
				if res.Artist != "zxcursed" || res.Title != "waste" || res.Album != "Album" {
					t.Errorf("unexpected match: %+v", res)
				}
				if res.CoverTemplate != "avatars.yandex.net/orig/%%" {
					t.Errorf("unexpected cover template: %s", res.CoverTemplate)
				}
				if got := req.Header.Get("Authorization"); got != "OAuth tok" {
					t.Errorf("expected OAuth header, got %q", got)
				}
				if got := req.URL.Query().Get("text"); got != "zxcursed - waste" {
					t.Errorf("unexpected query text %q", got)
				}
				if got := req.URL.Query().Get("type"); got != "track" {
					t.Errorf("unexpected search type %q", got)
				}
			},
		},
		{
			name:         "Success - No Results",
			statusCode:   http.StatusOK,
			responseBody: `{"result": {"tracks": {"results": []}}}`,
			check: func(t *testing.T, res *domain.SearchResult, req *http.Request) {
				if res != nil {
					t.Errorf("expected nil result, got %+v", res)
				}
				if req.Header.Get("Authorization") != "" {
					t.Error("no Authorization header expected without a token")
				}
			},
		},
		{
			name:          "Error - API Error Body",
			statusCode:    http.StatusUnauthorized,
			responseBody:  `{"error": {"name": "session-expired", "message": "token expired"}}`,
			expectedError: "session-expired",
		},
		{
			name:          "Error - 500",
			statusCode:    http.StatusInternalServerError,
			responseBody:  "oops",
			expectedError: "unexpected status code: 500",
		},
		{
			name:          "Error - Invalid JSON",
			statusCode:    http.StatusOK,
			responseBody:  "{not json",
			expectedError: "failed to decode response",
		},
		{
			name: "Error - Context Cancelled",
			ctxFunc: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			expectedError: "context canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := make(chan *http.Request, 1)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests <- r.Clone(context.Background())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			var ctx context.Context
			var cancel context.CancelFunc
			if tt.ctxFunc != nil {
				ctx, cancel = tt.ctxFunc()
			} else {
				ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
			}
			defer cancel()

			cfg := testSettings()
			cfg.Token = tt.token
			searcher := NewYandexSearcher(zap.NewNop(), cfg)
			searcher.baseURL = server.URL

			res, err := searcher.Search(ctx, "waste", "zxcursed")

			if tt.expectedError != "" {
				if err == nil {
					t.Fatalf("expected error containing '%s', got nil", tt.expectedError)
				}
				if !strings.Contains(err.Error(), tt.expectedError) {
					t.Errorf("expected error '%s' to contain '%s'", err.Error(), tt.expectedError)
				}
				if !errors.Is(err, domain.ErrResolver) {
					t.Errorf("expected error to wrap ErrResolver, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, res, <-requests)
		})
	}
}

func TestBestMatch_LimitsCandidates(t *testing.T) {
	tracks := make([]trackDTO, 0, 7)
	for i := 0; i < 6; i++ {
		tracks = append(tracks, trackDTO{Title: "something unrelated entirely"})
	}
	exact := trackDTO{Title: "Song"}
	exact.Artists = append(exact.Artists, struct {
		Name string `json:"name"`
	}{Name: "Artist"})
	tracks = append(tracks, exact)

	best, ok := bestMatch("Artist - Song", tracks)
	if !ok {
		t.Fatal("expected a match")
	}
	if best.Title == "Song" {
		t.Error("candidates beyond the first five must be ignored")
	}

	if _, ok := bestMatch("Artist - Song", nil); ok {
		t.Error("expected no match for empty results")
	}
}

func TestYandexSearcher_RateFollowsConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"tracks":{"results":[]}}}`))
	}))
	defer server.Close()

	searcher := NewYandexSearcher(zap.NewNop(), testSettings())
	searcher.baseURL = server.URL

	reloaded := testSettings()
	reloaded.SearchRate = 5
	searcher.cfg = reloaded

	if _, err := searcher.Search(context.Background(), "Song", "Artist"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := searcher.limiter.Limit(); got != 5 {
		t.Errorf("expected limit 5 after reload, got %v", got)
	}
}
