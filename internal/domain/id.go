package domain

import (
	"crypto/rand"
	"regexp"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID pattern: 26 characters from the Crockford base32 alphabet
var idPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID mints a 26-character identifier. The leading bits encode a
// millisecond timestamp, the remaining 80 bits are random, so IDs
// minted later sort later as plain strings.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// IsValidID reports whether s is a well-formed identifier. Only the
// alphabet and length are checked; the timestamp is never decoded.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
