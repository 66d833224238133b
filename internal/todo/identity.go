package todo

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// IDLength is the number of hex characters kept from the digest.
const IDLength = 12

// TaskID fingerprints a checkbox by where it is and what it says. Moving the
// line, editing its text or renaming the file all yield a new identity.
func TaskID(path string, line int, text string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%d:%s", path, line, text)))
	return hex.EncodeToString(sum[:])[:IDLength]
}
