package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/genricoloni/tunecord/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	_defaultBaseURL  = "https://api.music.yandex.net"
	_maxResponseSize = 2 * 1024 * 1024 // 2 MB
	_maxCandidates   = 5
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type searchResponse struct {
	Result struct {
		Tracks struct {
			Results []trackDTO `json:"results"`
		} `json:"tracks"`
	} `json:"result"`
	Error *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

type trackDTO struct {
	Title   string `json:"title"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Albums []struct {
		Title string `json:"title"`
	} `json:"albums"`
	CoverURI string `json:"coverUri"`
}

func (t trackDTO) artist() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// YandexSearcher looks tracks up in the Yandex Music catalog
type YandexSearcher struct {
	logger  *zap.Logger
	cfg     domain.ConfigProvider
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewYandexSearcher creates a new catalog client. Requests are rate limited
// to the configured search rate.
func NewYandexSearcher(logger *zap.Logger, cfg domain.ConfigProvider) *YandexSearcher {
	return &YandexSearcher{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{
			Timeout: 10 * time.Second, // Essential to prevent blocking the daemon
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.Current().SearchRate), 1),
		baseURL: _defaultBaseURL,
	}
}

// Search queries the catalog for "artist - title" and returns the closest match
func (s *YandexSearcher) Search(ctx context.Context, title, artist string) (*domain.SearchResult, error) {
	settings := s.cfg.Current()

	// The rate follows config reloads
	if limit := rate.Limit(settings.SearchRate); limit != s.limiter.Limit() {
		s.limiter.SetLimit(limit)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrResolver, err)
	}

	query := artist + " - " + title
	params := url.Values{}
	params.Set("text", query)
	params.Set("type", "track")
	params.Set("page", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrResolver, err)
	}

	req.Header.Set("User-Agent", "tunecord/1.0")
	req.Header.Set("Accept", "application/json")
	if token := settings.Token; token != "" {
		req.Header.Set("Authorization", "OAuth "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: network error: %w", domain.ErrResolver, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, _maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %w", domain.ErrResolver, err)
	}

	var parsed searchResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && parsed.Error != nil {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrResolver, parsed.Error.Name, parsed.Error.Message)
		}
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrResolver, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrResolver, decodeErr)
	}

	best, ok := bestMatch(query, parsed.Result.Tracks.Results)
	if !ok {
		s.logger.Debug("No catalog match", zap.String("query", query))
		return nil, nil
	}

	result := &domain.SearchResult{
		CoverTemplate: best.CoverURI,
		Title:         best.Title,
		Artist:        best.artist(),
	}
	if len(best.Albums) > 0 {
		result.Album = best.Albums[0].Title
	}

	s.logger.Debug("Catalog match",
		zap.String("query", query),
		zap.String("title", result.Title),
		zap.String("artist", result.Artist))

	return result, nil
}

// bestMatch picks the candidate whose "artist - title" is closest to the query.
// Only the first few results are considered; ties keep catalog order.
func bestMatch(query string, tracks []trackDTO) (trackDTO, bool) {
	if len(tracks) == 0 {
		return trackDTO{}, false
	}
	if len(tracks) > _maxCandidates {
		tracks = tracks[:_maxCandidates]
	}

	query = strings.ToLower(query)
	bestIdx, bestDist := 0, -1
	for i, t := range tracks {
		d := levenshtein.ComputeDistance(query, strings.ToLower(t.artist()+" - "+t.Title))
		if bestDist < 0 || d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	return tracks[bestIdx], true
}
