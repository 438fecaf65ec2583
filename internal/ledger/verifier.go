package ledger

import (
	"context"

	"go.uber.org/zap"
)

// BlockSource is what the verifier needs from a ledger client.
type BlockSource interface {
	QueryBlocks(ctx context.Context, start, length uint64) (*QueryBlocksResponse, error)
}

// Verifier checks a single ledger block for a transfer matching a
// reservation. It holds no state beyond its client and is safe to call
// repeatedly and concurrently for the same or different memos.
type Verifier struct {
	source BlockSource
	log    *zap.Logger
}

func NewVerifier(source BlockSource, log *zap.Logger) *Verifier {
	return &Verifier{source: source, log: log}
}

// Verify fetches exactly one block at blockIndex and reports whether it holds
// a transfer from the caller's account to the receiver's account with the
// exact amount and memo. Any mismatch or absent block is (false, nil), not an
// error: the payment may simply not have propagated yet and the caller can
// retry with a later block. Errors are transport-level only.
func (v *Verifier) Verify(ctx context.Context, caller, receiver string, amount int64, blockIndex, memo uint64) (bool, error) {
	resp, err := v.source.QueryBlocks(ctx, blockIndex, 1)
	if err != nil {
		return false, err
	}

	if len(resp.Blocks) == 0 {
		v.log.Debug("block not present in ledger", zap.Uint64("block", blockIndex))
		return false, nil
	}

	block := resp.Blocks[0]
	if block.Transfer == nil {
		v.log.Debug("block has no transfer operation", zap.Uint64("block", blockIndex))
		return false, nil
	}

	tr := block.Transfer
	if tr.Memo != memo {
		return false, nil
	}
	if tr.From != AccountID(caller, DefaultSubaccount) {
		return false, nil
	}
	if tr.To != AccountID(receiver, DefaultSubaccount) {
		return false, nil
	}
	if tr.Amount != amount {
		return false, nil
	}

	return true, nil
}
