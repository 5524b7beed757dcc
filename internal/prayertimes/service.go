// Package prayertimes resolves the day's prayer times for a coordinate,
// consulting the location-scoped cache before the remote API. Times for a
// (location, date) pair never change, so a cache hit is always valid.
package prayertimes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

const defaultTimeout = 15 * time.Second

// Times holds one day's prayer times as the backend reports them.
type Times struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// Cache is the location cache slice the service needs.
type Cache interface {
	Get(locationKey, forDate string) (*entities.LocationCacheEntry, error)
	Put(locationKey, forDate, data string) error
}

// Service fetches and caches prayer times.
type Service struct {
	baseURL    string
	cache      Cache
	httpClient *http.Client
}

// NewService creates a prayer times service against baseURL.
func NewService(baseURL string, cache Cache) *Service {
	return &Service{
		baseURL: baseURL,
		cache:   cache,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// LocationKey derives the cache key for a coordinate. Two decimal places
// (~1km) keeps nearby lookups sharing an entry.
func LocationKey(latitude, longitude float64) string {
	return fmt.Sprintf("%.2f,%.2f", latitude, longitude)
}

// ForDate returns prayer times for the coordinate on date (YYYY-MM-DD),
// serving from the location cache when possible. A cache write failure is
// logged, not returned: the caller still gets the times.
func (s *Service) ForDate(ctx context.Context, latitude, longitude float64, date string) (*Times, error) {
	key := LocationKey(latitude, longitude)

	if cached, err := s.cache.Get(key, date); err == nil {
		var times Times
		if jsonErr := json.Unmarshal([]byte(cached.Data), &times); jsonErr == nil {
			return &times, nil
		}
		// Unparseable entry: fall through and refetch.
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("read location cache: %w", err)
	}

	times, err := s.fetch(ctx, latitude, longitude, date)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(times)
	if err != nil {
		return nil, fmt.Errorf("marshal prayer times: %w", err)
	}
	if err := s.cache.Put(key, date, string(encoded)); err != nil {
		log.Printf("WARNING: failed to cache prayer times for %s on %s: %v", key, date, err)
	}

	return times, nil
}

func (s *Service) fetch(ctx context.Context, latitude, longitude float64, date string) (*Times, error) {
	u, err := url.Parse(s.baseURL + "/v1/timings/" + date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	q := u.Query()
	q.Set("latitude", fmt.Sprintf("%f", latitude))
	q.Set("longitude", fmt.Sprintf("%f", longitude))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var times Times
	if err := json.NewDecoder(resp.Body).Decode(&times); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &times, nil
}
