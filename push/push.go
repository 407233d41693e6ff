// Package push submits queued URLs to a search-engine indexing endpoint in
// fixed-size batches. The endpoint accepts a newline-delimited plain-text
// body and reports how many URLs it took and how much submission quota is
// left for the current period; exhausted quota ends the run after the batch
// that consumed it.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pevans/pressrun/engine"
	"github.com/pevans/pressrun/queue"
)

const (
	// DefaultEndpoint is the Baidu URL submission API.
	DefaultEndpoint = "http://data.zz.baidu.com/urls"

	// DefaultBatchSize is the number of URLs sent per request.
	DefaultBatchSize = 10
)

// Result is the endpoint's success payload.
type Result struct {
	Success int `json:"success"`
	Remain  int `json:"remain"`
}

// errorBody is the endpoint's failure payload.
type errorBody struct {
	Message string `json:"message"`
}

// Sink pushes URL batches to the indexing endpoint. Implements engine.Sink.
type Sink struct {
	endpoint string
	site     string
	token    string
	client   *resty.Client
}

// NewSink creates a push sink for the given site and access token. An empty
// endpoint falls back to DefaultEndpoint.
func NewSink(endpoint, site, token string) *Sink {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	return &Sink{
		endpoint: endpoint,
		site:     site,
		token:    token,
		client:   client,
	}
}

// Submit sends the batch's payloads as one newline-delimited request. A
// transport failure, non-2xx response, or unparsable body is a rejection;
// the engine stops without committing so the next run retries this batch.
func (s *Sink) Submit(ctx context.Context, batch []queue.Item) (engine.Outcome, error) {
	var body strings.Builder
	for _, item := range batch {
		body.WriteString(item.Payload)
		body.WriteByte('\n')
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetQueryParams(map[string]string{
			"site":  s.site,
			"token": s.token,
		}).
		SetBody(body.String()).
		Post(s.endpoint)
	if err != nil {
		return rejected(fmt.Sprintf("push request failed: %v", err)), nil
	}

	if !resp.IsSuccess() {
		reason := fmt.Sprintf("push rejected with status %d", resp.StatusCode())
		var failure errorBody
		if json.Unmarshal(resp.Body(), &failure) == nil && failure.Message != "" {
			reason = fmt.Sprintf("%s: %s", reason, failure.Message)
		}
		return rejected(reason), nil
	}

	var result Result
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return rejected(fmt.Sprintf("unparsable push response: %v", err)), nil
	}

	return engine.Outcome{
		Kind:   engine.OutcomeAccepted,
		Quota:  result.Remain,
		Reason: fmt.Sprintf("%d URLs accepted", result.Success),
	}, nil
}

func rejected(reason string) engine.Outcome {
	return engine.Outcome{
		Kind:   engine.OutcomeRejected,
		Quota:  engine.QuotaUntracked,
		Reason: reason,
	}
}
