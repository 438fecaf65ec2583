package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	resp *QueryBlocksResponse
	err  error

	gotStart  uint64
	gotLength uint64
}

func (s *stubSource) QueryBlocks(ctx context.Context, start, length uint64) (*QueryBlocksResponse, error) {
	s.gotStart = start
	s.gotLength = length
	return s.resp, s.err
}

func matchingBlock(caller, receiver string, amount int64, index, memo uint64) Block {
	return Block{
		Index:     index,
		Timestamp: time.Unix(1700000000, 0),
		Transfer: &Transfer{
			From:   AccountID(caller, DefaultSubaccount),
			To:     AccountID(receiver, DefaultSubaccount),
			Amount: amount,
			Memo:   memo,
		},
	}
}

func TestVerify_Match(t *testing.T) {
	block := matchingBlock("payer-id", "payee-id", 100, 5, 42)
	src := &stubSource{resp: &QueryBlocksResponse{Blocks: []Block{block}, ChainLength: 6}}
	v := NewVerifier(src, zap.NewNop())

	ok, err := v.Verify(context.Background(), "payer-id", "payee-id", 100, 5, 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(5), src.gotStart)
	require.Equal(t, uint64(1), src.gotLength, "verify must request exactly one block")
}

func TestVerify_Mismatches(t *testing.T) {
	tests := []struct {
		name     string
		caller   string
		receiver string
		amount   int64
		memo     uint64
	}{
		{"wrong memo", "payer-id", "payee-id", 100, 43},
		{"wrong sender", "other-payer", "payee-id", 100, 42},
		{"wrong receiver", "payer-id", "other-payee", 100, 42},
		{"wrong amount", "payer-id", "payee-id", 50, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := matchingBlock("payer-id", "payee-id", 100, 5, 42)
			src := &stubSource{resp: &QueryBlocksResponse{Blocks: []Block{block}}}
			v := NewVerifier(src, zap.NewNop())

			ok, err := v.Verify(context.Background(), tt.caller, tt.receiver, tt.amount, 5, tt.memo)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestVerify_AbsentBlock(t *testing.T) {
	src := &stubSource{resp: &QueryBlocksResponse{Blocks: nil, ChainLength: 3}}
	v := NewVerifier(src, zap.NewNop())

	ok, err := v.Verify(context.Background(), "payer-id", "payee-id", 100, 99, 42)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerify_BlockWithoutTransfer(t *testing.T) {
	src := &stubSource{resp: &QueryBlocksResponse{Blocks: []Block{{Index: 5}}}}
	v := NewVerifier(src, zap.NewNop())

	ok, err := v.Verify(context.Background(), "payer-id", "payee-id", 100, 5, 42)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerify_TransportError(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	v := NewVerifier(src, zap.NewNop())

	_, err := v.Verify(context.Background(), "payer-id", "payee-id", 100, 5, 42)
	require.Error(t, err)
}

func TestAccountID(t *testing.T) {
	a := AccountID("identity-a", 0)
	require.Len(t, a, 64) // hex sha256

	require.Equal(t, a, AccountID("identity-a", 0), "derivation must be deterministic")
	require.NotEqual(t, a, AccountID("identity-b", 0))
	require.NotEqual(t, a, AccountID("identity-a", 1), "subaccount must change the address")
}
