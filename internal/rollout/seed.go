package rollout

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SeedFromText turns a user-supplied seed into a source seed.
// Decimal integers are used as-is so "--seed 42" means seed 42; any other text is hashed,
// which lets organisers use memorable phrases ("spring-qualifier") as seeds.
func SeedFromText(text string) uint64 {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseUint(text, 10, 64); err == nil {
		return n
	}
	return xxhash.Sum64String(text)
}
