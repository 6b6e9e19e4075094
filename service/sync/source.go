// Package sync implements the daily cutting-plan synchronization: paginated
// fetch from the plan-PC source service with layered retries, chunked
// insertion into the destination schema, and dual-stream audit logging.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/NguyenNhatCP/cuttingsync/core/auditlog"
	"github.com/NguyenNhatCP/cuttingsync/core/logging"
	"github.com/NguyenNhatCP/cuttingsync/core/metrics"
)

// ErrRetriesExceeded means transport-level retries were exhausted. It is the
// only fetch outcome that aborts a run.
var ErrRetriesExceeded = errors.New("max retries exceeded")

const (
	transportAttempts  = 3
	throttleAttempts   = 5
	throttleBaseDelay  = 3 * time.Second
	defaultHTTPTimeout = 30 * time.Second
)

// Record is one raw cutting-plan row as served by the source API. JSON keys
// follow the upstream contract verbatim, spaces included.
type Record struct {
	ART             string  `json:"ART"`
	Model           string  `json:"Model"`
	MaterialsID     string  `json:"Materials ID"`
	MaterialsName   string  `json:"Materials Name"`
	Factory         string  `json:"Factory"`
	SO              string  `json:"SO"`
	PO              string  `json:"PO"`
	MasterWorkOrder string  `json:"Master Work Order"`
	LastNo          string  `json:"Last No"`
	Process         string  `json:"Production Process"`
	Size            string  `json:"Size"`
	PartID          string  `json:"Part Id"`
	PartName        string  `json:"Part Name"`
	SizeQty         int     `json:"Size Qty"`
	Unit            string  `json:"UNIT"`
	TargetCut       float64 `json:"TargetCut"`
}

// envelope covers both response shapes of the source service: a data payload
// on success, a bare message on error (the soft-throttle carrier).
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// SourceClient talks to the remote cutting-plan service.
type SourceClient struct {
	baseURL       string
	httpClient    *http.Client
	throttleMatch func(string) bool
	audit         *auditlog.Logger
	log           zerolog.Logger
	sleep         func(time.Duration)
}

// NewSourceClient builds a client for the given base URL. throttlePhrase is
// matched case-insensitively as a substring of error payload messages to
// detect the server's soft-throttle signal.
func NewSourceClient(baseURL, throttlePhrase string, audit *auditlog.Logger) *SourceClient {
	phrase := strings.ToLower(throttlePhrase)
	return &SourceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		throttleMatch: func(msg string) bool {
			return phrase != "" && strings.Contains(strings.ToLower(msg), phrase)
		},
		audit: audit,
		log:   logging.NewLogger("sync.source"),
		sleep: time.Sleep,
	}
}

// TotalPages asks the source how many pages exist for the date range. Any
// failure is logged and degrades to zero pages; the run then has no work.
func (c *SourceClient) TotalPages(ctx context.Context, fromDate, toDate string) int {
	u := fmt.Sprintf("%s/getTotalPages?fromDate=%s&toDate=%s",
		c.baseURL, url.QueryEscape(fromDate), url.QueryEscape(toDate))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.audit.Error("Failed to get total pages: %v", err)
		return 0
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.audit.Error("Failed to get total pages: %v", err)
		c.log.Error().Err(err).Msg("total pages request failed")
		return 0
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.audit.Error("Failed to get total pages: HTTP %d", resp.StatusCode)
		return 0
	}
	var env struct {
		Data int `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.audit.Error("Failed to get total pages: %v", err)
		return 0
	}
	return env.Data
}

// FetchPage retrieves one page of records. Soft-throttle responses are
// retried with exponential backoff up to throttleAttempts and then degrade to
// an empty page; any other HTTP error also yields an empty page. Only
// transport retry exhaustion returns an error.
func (c *SourceClient) FetchPage(ctx context.Context, fromDate, toDate string, page int) ([]Record, error) {
	u := fmt.Sprintf("%s/getDataCuttingByPlanPC?fromDate=%s&toDate=%s&page=%d",
		c.baseURL, url.QueryEscape(fromDate), url.QueryEscape(toDate), page)

	for attempt := 1; ; attempt++ {
		status, body, err := c.getWithRetry(ctx, u)
		if err != nil {
			c.audit.Error("Failed to fetch page %d: %v", page, err)
			if errors.Is(err, ErrRetriesExceeded) {
				return nil, err
			}
			return []Record{}, nil
		}

		if status == http.StatusOK {
			var env envelope
			if err := json.Unmarshal(body, &env); err != nil {
				c.audit.Error("Failed to fetch page %d: bad response body: %v", page, err)
				return []Record{}, nil
			}
			var records []Record
			if len(env.Data) > 0 {
				if err := json.Unmarshal(env.Data, &records); err != nil {
					c.audit.Error("Failed to fetch page %d: bad data payload: %v", page, err)
					return []Record{}, nil
				}
			}
			return records, nil
		}

		var env envelope
		_ = json.Unmarshal(body, &env)
		c.audit.Error("Failed to fetch page %d: HTTP %d", page, status)

		if !c.throttleMatch(env.Message) {
			return []Record{}, nil
		}
		if attempt >= throttleAttempts {
			c.audit.Error("Throttle retries exhausted for page %d, treating page as empty", page)
			c.log.Warn().Int("page", page).Msg("soft-throttle retries exhausted")
			return []Record{}, nil
		}
		wait := throttleBaseDelay * time.Duration(1<<(attempt-1))
		c.audit.Error("Waiting %s before retrying page %d (Attempt %d/%d)", wait, page, attempt, throttleAttempts)
		c.log.Warn().Int("page", page).Int("attempt", attempt).Dur("backoff", wait).Msg("soft-throttled, backing off")
		metrics.ThrottleRetries.Inc()
		c.sleep(wait)
	}
}

// getWithRetry performs the GET, retrying connection timeouts and HTTP 408 up
// to transportAttempts with 2^attempt-second delays. Any other transport
// failure is returned as-is; exhaustion returns ErrRetriesExceeded.
func (c *SourceClient) getWithRetry(ctx context.Context, u string) (int, []byte, error) {
	for attempt := 1; attempt <= transportAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		resp, err := c.httpClient.Do(req)
		if err == nil {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				err = readErr
			} else if resp.StatusCode != http.StatusRequestTimeout {
				return resp.StatusCode, body, nil
			}
		}
		if err != nil && !isTimeout(err) {
			c.log.Error().Err(err).Msg("request failed")
			return 0, nil, err
		}

		// Timeout or 408.
		if attempt == transportAttempts {
			break
		}
		delay := time.Duration(1<<attempt) * time.Second
		c.audit.Error("Timeout on attempt %d, retrying after %s...", attempt, delay)
		c.log.Warn().Int("attempt", attempt).Dur("backoff", delay).Msg("request timed out, retrying")
		metrics.TransportRetries.Inc()
		c.sleep(delay)
	}
	return 0, nil, fmt.Errorf("%w after %d attempts", ErrRetriesExceeded, transportAttempts)
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
