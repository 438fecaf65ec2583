package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueryBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/query-blocks", r.URL.Path)

		var req QueryBlocksRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, uint64(5), req.Start)
		require.Equal(t, uint64(1), req.Length)

		resp := QueryBlocksResponse{
			ChainLength: 10,
			Blocks: []Block{{
				Index: 5,
				Transfer: &Transfer{
					From:   "aa",
					To:     "bb",
					Amount: 100,
					Memo:   18446744073709551615, // uint64 max must round-trip
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, 2*time.Second, zap.NewNop())
	resp, err := c.QueryBlocks(context.Background(), 5, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(10), resp.ChainLength)
	require.Len(t, resp.Blocks, 1)
	require.Equal(t, uint64(18446744073709551615), resp.Blocks[0].Transfer.Memo)
}

func TestQueryBlocks_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, 2*time.Second, zap.NewNop())
	_, err := c.QueryBlocks(context.Background(), 0, 1)
	require.Error(t, err)
}

func TestQueryBlocks_Unconfigured(t *testing.T) {
	c := &Client{}
	_, err := c.QueryBlocks(context.Background(), 0, 1)
	require.Error(t, err)
}
