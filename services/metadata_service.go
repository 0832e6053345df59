package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"screening-rsvp/config"
	"screening-rsvp/monitoring"
	"screening-rsvp/utils"

	"github.com/redis/go-redis/v9"
)

// ErrMetadata wraps every failure to retrieve film metadata. Callers treat
// it as degradable: event creation proceeds without the metadata.
var ErrMetadata = errors.New("letterboxd metadata unavailable")

var ogTagPattern = regexp.MustCompile(`(?i)<meta\s+property="og:([^"]+)"\s+content="([^"]*)"`)

// Metadata is the film page summary scraped from Letterboxd's OpenGraph
// tags.
type Metadata struct {
	Title        string `json:"title"`
	Synopsis     string `json:"synopsis"`
	PosterURL    string `json:"poster_url"`
	CanonicalURL string `json:"canonical_url"`
}

// MetadataService fetches and caches film metadata. The upstream is
// protected by a circuit breaker so a dead Letterboxd degrades event
// creation instead of stalling it.
type MetadataService struct {
	redis   *redis.Client
	breaker *utils.CircuitBreaker
	client  *http.Client
	config  *config.Config
}

func NewMetadataService(redisClient *redis.Client, cfg *config.Config) *MetadataService {
	return &MetadataService{
		redis:   redisClient,
		breaker: utils.NewCircuitBreaker("letterboxd"),
		client:  &http.Client{Timeout: cfg.LetterboxdTimeout},
		config:  cfg,
	}
}

// NormalizeURL validates and canonicalizes a Letterboxd film URL: https
// scheme forced, query and fragment stripped, trailing slash trimmed.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", ErrMetadata)
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMetadata, err)
	}
	host := parsed.Hostname()
	if host != "letterboxd.com" && !strings.HasSuffix(host, ".letterboxd.com") {
		return "", fmt.Errorf("%w: url must be from letterboxd.com", ErrMetadata)
	}

	parsed.Scheme = "https"
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return strings.TrimRight(parsed.String(), "/"), nil
}

// Fetch returns the film metadata for a Letterboxd URL, from cache when
// possible.
func (s *MetadataService) Fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if cached := s.fromCache(ctx, normalized); cached != nil {
		return cached, nil
	}

	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.fetchPage(ctx, normalized)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadata, err)
	}

	meta := result.(*Metadata)
	s.toCache(ctx, normalized, meta)
	return meta, nil
}

// Resolve is the forgiving variant used by event creation: on failure it
// falls back to the normalized (or raw) URL and returns a warning for the
// admin instead of an error.
func (s *MetadataService) Resolve(ctx context.Context, rawURL string) (string, *Metadata, string) {
	meta, err := s.Fetch(ctx, rawURL)
	if err == nil {
		return meta.CanonicalURL, meta, ""
	}

	warning := fmt.Sprintf("letterboxd metadata could not be loaded: %v", err)
	if normalized, nerr := NormalizeURL(rawURL); nerr == nil {
		return normalized, nil, warning
	}
	return rawURL, nil, warning
}

func (s *MetadataService) fetchPage(ctx context.Context, normalized string) (*Metadata, error) {
	start := time.Now()
	defer func() {
		monitoring.TrackMetadataFetch(time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.config.LetterboxdUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("letterboxd returned status %d", resp.StatusCode)
	}

	// Film pages are well under 2MB; cap reads in case of garbage.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}

	return parseMetadata(string(body), normalized), nil
}

func parseMetadata(html, canonicalURL string) *Metadata {
	tags := map[string]string{}
	for _, match := range ogTagPattern.FindAllStringSubmatch(html, -1) {
		tags[strings.ToLower(match[1])] = match[2]
	}

	return &Metadata{
		Title:        tags["title"],
		Synopsis:     tags["description"],
		PosterURL:    tags["image"],
		CanonicalURL: canonicalURL,
	}
}

func metadataCacheKey(normalizedURL string) string {
	return fmt.Sprintf("metadata:letterboxd:%s", normalizedURL)
}

func (s *MetadataService) fromCache(ctx context.Context, normalizedURL string) *Metadata {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, metadataCacheKey(normalizedURL)).Result()
	if err != nil {
		return nil
	}
	var meta Metadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil
	}
	return &meta
}

func (s *MetadataService) toCache(ctx context.Context, normalizedURL string, meta *Metadata) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, metadataCacheKey(normalizedURL), data, s.config.MetadataCacheTTL).Err(); err != nil {
		slog.Error("failed to cache letterboxd metadata", "url", normalizedURL, "error", err)
	}
}
