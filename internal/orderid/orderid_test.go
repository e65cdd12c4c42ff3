package orderid_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"menucart/internal/orderid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsReproducible(t *testing.T) {
	now := time.UnixMilli(1735689600000) // 2025-01-01T00:00:00Z
	seq := []int{10, 0, 35}
	i := 0
	rnd := func(n int) int {
		v := seq[i%len(seq)]
		i++
		return v
	}

	id := orderid.New(now, rnd)
	want := "ORD-" + strings.ToUpper(strconv.FormatInt(1735689600000, 36)) + "-A0Z"
	assert.Equal(t, want, id)
	assert.True(t, orderid.Valid(id))
}

func TestNewMatchesPattern(t *testing.T) {
	for i := 0; i < 200; i++ {
		id := orderid.New(time.Now(), nil)
		require.True(t, orderid.Valid(id), id)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ORD-M5XYZ-A1B", orderid.Normalize("  ord-m5xyz-a1b \n"))
}

func TestValid(t *testing.T) {
	assert.True(t, orderid.Valid("ORD-M5XYZ-A1B"))
	assert.False(t, orderid.Valid("ord-m5xyz-a1b"))
	assert.False(t, orderid.Valid("ORD-M5XYZ-A1"))
	assert.False(t, orderid.Valid("ORD--A1B"))
	assert.False(t, orderid.Valid("ORDER-123"))
	assert.False(t, orderid.Valid(""))
}
