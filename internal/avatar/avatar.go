// Package avatar derives profile-picture URLs from email addresses.
//
// The gravatar scheme is an MD5 hex digest of the lowercased, trimmed email
// embedded in a fixed URL — fully deterministic, no network call. MD5 is
// fine here: it is the format gravatar defines, not a security boundary.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// URL returns the gravatar URL for an email: 200px, PG-rated, with the
// "mystery person" default for addresses without a gravatar account.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mp", hex.EncodeToString(sum[:]))
}
