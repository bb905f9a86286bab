package balldontlie

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courtsidehq/roster-api/internal/platform/logging"
	"github.com/courtsidehq/roster-api/internal/platform/resilience"
	"github.com/courtsidehq/roster-api/internal/usecase"
)

const playersPageFixture = `{
	"data": [
		{
			"id": 14,
			"first_name": "Ja",
			"last_name": "Morant",
			"position": "G",
			"height": "6-2",
			"weight": "174",
			"jersey_number": "12",
			"college": "Murray State",
			"country": "USA",
			"draft_year": 2019,
			"draft_round": 1,
			"draft_number": 2,
			"team": {
				"id": 15,
				"full_name": "Memphis Grizzlies",
				"abbreviation": "MEM",
				"city": "Memphis",
				"name": "Grizzlies",
				"conference": "West",
				"division": "Southwest"
			}
		},
		{
			"id": 22,
			"first_name": "Duncan",
			"last_name": "Robinson",
			"position": "F",
			"height": "6-7",
			"weight": "215",
			"jersey_number": "55",
			"college": "Michigan",
			"country": "USA",
			"draft_year": null,
			"draft_round": null,
			"draft_number": null,
			"team": {
				"id": 16,
				"full_name": "Miami Heat",
				"abbreviation": "MIA",
				"city": "Miami",
				"name": "Heat",
				"conference": "East",
				"division": "Southeast"
			}
		}
	],
	"meta": {"next_cursor": 22, "per_page": 2}
}`

func newTestClient(serverURL string, maxRetries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        serverURL,
		Token:          "test-token",
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestListPlayers_DecodesPageAndSendsAuth(t *testing.T) {
	t.Parallel()

	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(playersPageFixture))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{})
	cursor := int64(12)
	page, err := client.ListPlayers(t.Context(), usecase.PlayerPageQuery{Cursor: &cursor, PerPage: 2})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}

	if gotAuth != "test-token" {
		t.Fatalf("expected token in Authorization header, got %q", gotAuth)
	}
	if !strings.Contains(gotQuery, "per_page=2") || !strings.Contains(gotQuery, "cursor=12") {
		t.Fatalf("unexpected query string %q", gotQuery)
	}

	if len(page.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(page.Players))
	}
	first := page.Players[0]
	if first.ID != 14 || first.LastName != "Morant" || first.Franchise.Abbreviation != "MEM" {
		t.Fatalf("unexpected first player: %+v", first)
	}
	if first.DraftYear == nil || *first.DraftYear != 2019 {
		t.Fatalf("expected draft year 2019, got %v", first.DraftYear)
	}
	if page.Players[1].DraftYear != nil {
		t.Fatalf("expected null draft year to stay nil")
	}
	if page.NextCursor == nil || *page.NextCursor != 22 {
		t.Fatalf("unexpected next cursor %v", page.NextCursor)
	}
	if page.PerPage != 2 {
		t.Fatalf("unexpected per_page %d", page.PerPage)
	}
}

func TestListPlayers_RejectsNonPositivePerPage(t *testing.T) {
	t.Parallel()

	client := newTestClient("http://localhost:0", 0, resilience.CircuitBreakerConfig{})
	if _, err := client.ListPlayers(t.Context(), usecase.PlayerPageQuery{PerPage: 0}); err == nil {
		t.Fatalf("expected per_page validation error")
	}
}

func TestListPlayers_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"bad token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3, resilience.CircuitBreakerConfig{})
	_, err := client.ListPlayers(t.Context(), usecase.PlayerPageQuery{PerPage: 5})
	if err == nil {
		t.Fatalf("expected provider error")
	}
	if !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt for 401, got %d", got)
	}
}

func TestListPlayers_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream hiccup", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(playersPageFixture))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2, resilience.CircuitBreakerConfig{})
	page, err := client.ListPlayers(t.Context(), usecase.PlayerPageQuery{PerPage: 2})
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if len(page.Players) != 2 {
		t.Fatalf("expected full page after retry, got %d players", len(page.Players))
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestListPlayers_ExhaustedRetriesSurfaceLastFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "still down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2, resilience.CircuitBreakerConfig{})
	_, err := client.ListPlayers(t.Context(), usecase.PlayerPageQuery{PerPage: 2})
	if err == nil {
		t.Fatalf("expected failure after exhausting retries")
	}
	if !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("expected last status in error, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestListPlayers_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for range 2 {
		if _, err := client.ListPlayers(t.Context(), usecase.PlayerPageQuery{PerPage: 2}); err == nil {
			t.Fatalf("expected provider failure")
		}
	}

	before := calls.Load()
	_, err := client.ListPlayers(t.Context(), usecase.PlayerPageQuery{PerPage: 2})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit to map to dependency unavailable, got %v", err)
	}
	if calls.Load() != before {
		t.Fatalf("expected open circuit to skip the provider")
	}
}
