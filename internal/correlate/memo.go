// Package correlate derives the numeric memo that ties a donation
// reservation to its off-band ledger transfer.
package correlate

import (
	"hash/fnv"
	"io"
	"strconv"
)

// Memo hashes donor id, caller identity and a nanosecond timestamp into the
// unsigned 64-bit space. Uniqueness is probabilistic: the timestamp changes
// between calls, and the pending table's primary key rejects the rare
// collision instead of overwriting.
func Memo(donorID, caller string, unixNano int64) uint64 {
	h := fnv.New64a()
	_, _ = io.WriteString(h, donorID)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, caller)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, strconv.FormatInt(unixNano, 10))
	return h.Sum64()
}
