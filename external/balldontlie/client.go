package balldontlie

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/courtsidehq/roster-api/internal/domain/player"
	"github.com/courtsidehq/roster-api/internal/platform/logging"
	"github.com/courtsidehq/roster-api/internal/platform/resilience"
	"github.com/courtsidehq/roster-api/internal/usecase"
)

const (
	defaultBaseURL      = "https://api.balldontlie.io/v1"
	maxResponseBytes    = 2 << 20
	defaultClientExpiry = 20 * time.Second
)

var errBallDontLieTransient = crerr.New("balldontlie transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the balldontlie player listing. The token rides in the
// Authorization header; pagination is cursor-based with per_page echoes.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultClientExpiry
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// ListPlayers fetches one page of the listing. Any transport failure or
// non-2xx status comes back as a single error; nothing of a failed page is
// surfaced.
func (c *Client) ListPlayers(ctx context.Context, query usecase.PlayerPageQuery) (player.Page, error) {
	if query.PerPage <= 0 {
		return player.Page{}, fmt.Errorf("per_page must be greater than zero")
	}

	params := map[string]string{"per_page": strconv.Itoa(query.PerPage)}
	if query.Cursor != nil {
		params["cursor"] = strconv.FormatInt(*query.Cursor, 10)
	}

	var envelope playersEnvelope
	if err := c.doJSON(ctx, "/players", params, &envelope); err != nil {
		return player.Page{}, fmt.Errorf("fetch players page: %w", err)
	}

	page := player.Page{
		Players:    make([]player.Player, 0, len(envelope.Data)),
		NextCursor: envelope.Meta.NextCursor,
		PerPage:    envelope.Meta.PerPage,
	}
	for _, item := range envelope.Data {
		page.Players = append(page.Players, item.toDomain())
	}

	return page, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "balldontlie circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: player listing is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errBallDontLieTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errBallDontLieTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errBallDontLieTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errBallDontLieTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviate(raw))
			}
		}

		if attempt < c.maxRetries {
			c.logger.DebugContext(ctx, "retrying player listing request", "attempt", attempt+1, "error", lastErr)
		}
	}

	return nil, lastErr
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}

	// The buffer goes back to the pool, so hand out a private copy.
	return append([]byte(nil), buf.B...), nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviate(raw []byte) string {
	const limit = 256
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
