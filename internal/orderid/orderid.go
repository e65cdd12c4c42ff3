// Package orderid generates and validates the human-facing order codes
// customers type back in to add to an existing order.
package orderid

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var pattern = regexp.MustCompile(`^ORD-[A-Z0-9]+-[A-Z0-9]{3}$`)

// IntN returns a uniformly random int in [0, n).
type IntN func(n int) int

// New returns ORD-<base36 millisecond timestamp>-<3 random base36 chars>, upper-cased.
// A nil rnd uses math/rand/v2.
func New(now time.Time, rnd IntN) string {
	if rnd == nil {
		rnd = rand.IntN
	}
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "ORD-" + ts + "-" + Random(3, rnd)
}

// Random returns n random characters from [0-9A-Z].
func Random(n int, rnd IntN) string {
	if rnd == nil {
		rnd = rand.IntN
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rnd(len(alphabet))])
	}
	return b.String()
}

// Normalize trims whitespace and upper-cases a typed code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code (already normalized) is a well-formed order code.
func Valid(code string) bool {
	return pattern.MatchString(code)
}
