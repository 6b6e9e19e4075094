// Package sentiment fetches the market fear-and-greed index and broadcasts a
// push alert when it crosses either configured threshold.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/NguyenNhatCP/cuttingsync/core/logging"
	"github.com/NguyenNhatCP/cuttingsync/service/push"
)

const defaultEndpoint = "https://pro-api.coinmarketcap.com/v3/fear-and-greed/latest"

// Client fetches the latest fear-and-greed index value.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for the CoinMarketCap fear-and-greed API. An
// empty endpoint selects the public one.
func NewClient(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchIndex returns the current index value.
func (c *Client) FetchIndex(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fear-greed HTTP %d", resp.StatusCode)
	}

	var env struct {
		Data struct {
			Value float64 `json:"value"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return 0, fmt.Errorf("decode fear-greed response: %w", err)
	}
	return env.Data.Value, nil
}

// Notifier evaluates the index against alert thresholds and pushes to all
// registered tokens when one is crossed.
type Notifier struct {
	client  *Client
	store   push.TokenStore
	sender  *push.ExpoSender
	greedAt float64
	fearAt  float64
	log     zerolog.Logger
}

func NewNotifier(client *Client, store push.TokenStore, sender *push.ExpoSender, greedAt, fearAt float64) *Notifier {
	return &Notifier{
		client:  client,
		store:   store,
		sender:  sender,
		greedAt: greedAt,
		fearAt:  fearAt,
		log:     logging.NewLogger("sentiment"),
	}
}

// Check runs one evaluation. Values between the thresholds produce no alert.
func (n *Notifier) Check(ctx context.Context) error {
	value, err := n.client.FetchIndex(ctx)
	if err != nil {
		return err
	}
	n.log.Info().Float64("value", value).Msg("fear & greed index")

	note, ok := n.alertFor(value)
	if !ok {
		return nil
	}
	report, err := n.sender.SendToAll(ctx, n.store, note)
	if err != nil {
		return err
	}
	n.log.Info().Int("sent", report.Sent).Int("tokens", report.Tokens).Str("title", note.Title).Msg("alert pushed")
	return nil
}

func (n *Notifier) alertFor(value float64) (push.Notification, bool) {
	switch {
	case value > n.greedAt:
		return push.Notification{
			Title: "🚀 Extreme Greed Alert",
			Body:  fmt.Sprintf("Fear & Greed Index is very high (%.0f). Market may be overheated.", value),
		}, true
	case value < n.fearAt:
		return push.Notification{
			Title: "📉 Caution Alert",
			Body:  fmt.Sprintf("Fear & Greed Index is below (%.0f). Possible market caution.", value),
		}, true
	default:
		return push.Notification{}, false
	}
}
