package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/NguyenNhatCP/cuttingsync/core/logging"
	"github.com/NguyenNhatCP/cuttingsync/core/metrics"
)

const (
	defaultExpoEndpoint = "https://exp.host/--/api/v2/push/send"

	// Expo caps one request at 100 messages.
	expoBatchSize = 100
)

// Notification is the title/body pair broadcast to every registered token.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Report summarizes one broadcast.
type Report struct {
	Sent   int `json:"sent"`
	Tokens int `json:"tokens"`
}

type expoMessage struct {
	To       string `json:"to"`
	Sound    string `json:"sound"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Priority string `json:"priority"`
}

// ExpoSender posts notification batches to the Expo push endpoint.
type ExpoSender struct {
	endpoint   string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewExpoSender builds a sender. An empty endpoint selects the public Expo
// API.
func NewExpoSender(endpoint string) *ExpoSender {
	if endpoint == "" {
		endpoint = defaultExpoEndpoint
	}
	return &ExpoSender{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logging.NewLogger("push.expo"),
	}
}

// SendToAll broadcasts the notification to every token in the store, in
// batches. A batch that fails at the HTTP level is logged and dropped; there
// is no delivery guarantee.
func (s *ExpoSender) SendToAll(ctx context.Context, store TokenStore, n Notification) (Report, error) {
	tokens, err := store.All()
	if err != nil {
		return Report{}, err
	}
	if len(tokens) == 0 {
		return Report{Sent: 0, Tokens: 0}, nil
	}

	sent := 0
	for start := 0; start < len(tokens); start += expoBatchSize {
		end := start + expoBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		payload := make([]expoMessage, 0, len(batch))
		for _, to := range batch {
			payload = append(payload, expoMessage{
				To:       to,
				Sound:    "default",
				Title:    n.Title,
				Body:     n.Body,
				Priority: "high",
			})
		}
		if err := s.postBatch(ctx, payload); err != nil {
			s.log.Error().Err(err).Int("batch_size", len(batch)).Msg("push batch dropped")
			continue
		}
		sent += len(batch)
		metrics.PushesSent.Add(float64(len(batch)))
	}
	return Report{Sent: sent, Tokens: len(tokens)}, nil
}

func (s *ExpoSender) postBatch(ctx context.Context, payload []expoMessage) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpStatusError{status: resp.StatusCode}
	}
	return nil
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("expo push HTTP %d", e.status)
}
