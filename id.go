package dicemen

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newGameID generates a URL-safe game identifier: UUIDv4 bytes encoded as
// unpadded base32, lowercased. 26 characters.
func newGameID() string {
	raw := uuid.New()
	return strings.ToLower(idEncoding.EncodeToString(raw[:]))
}
