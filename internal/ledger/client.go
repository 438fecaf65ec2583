// Package ledger talks to the external transfer ledger: an append-only log
// queried by block index, the source of truth for whether a payment happened.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Memo   uint64 `json:"memo,string"`
}

// Block is one entry of the ledger. Blocks without a transfer operation
// exist (mint/burn/approval blocks) and never verify a payment.
type Block struct {
	Index     uint64    `json:"index"`
	Transfer  *Transfer `json:"transfer,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type QueryBlocksRequest struct {
	Start  uint64 `json:"start"`
	Length uint64 `json:"length"`
}

type QueryBlocksResponse struct {
	Blocks      []Block `json:"blocks"`
	ChainLength uint64  `json:"chain_length"`
}

// Client is an HTTP client for the ledger's block-query interface.
// Queries are pure reads and safe to retry, so transient failures are
// retried transparently.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	log     *zap.Logger
}

func NewClient(baseURL string, maxRetries int, timeout time.Duration, log *zap.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
		log:     log,
	}
}

// QueryBlocks requests `length` blocks starting at `start`. The response may
// contain fewer blocks than requested when the range runs past the chain tip.
func (c *Client) QueryBlocks(ctx context.Context, start, length uint64) (*QueryBlocksResponse, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("ledger client not configured")
	}

	body, err := json.Marshal(QueryBlocksRequest{Start: start, Length: length})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/query-blocks", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ledger returned HTTP %d", resp.StatusCode)
	}

	var result QueryBlocksResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
