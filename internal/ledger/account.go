package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Address derivation domain separator. Keeps account ids disjoint from any
// other sha256 use of the same identity strings.
const accountDomainTag = "\x0aaccount-id"

// DefaultSubaccount is the only subaccount index this system uses.
const DefaultSubaccount uint32 = 0

// AccountID derives the ledger address for an identity and subaccount index:
// sha256(tag || identity || subaccount), hex encoded.
func AccountID(identity string, subaccount uint32) string {
	var sub [4]byte
	binary.BigEndian.PutUint32(sub[:], subaccount)

	h := sha256.New()
	h.Write([]byte(accountDomainTag))
	h.Write([]byte(identity))
	h.Write(sub[:])
	return hex.EncodeToString(h.Sum(nil))
}
