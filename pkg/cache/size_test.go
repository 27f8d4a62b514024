package cache

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bytesOf(t *testing.T, v any) int {
	t.Helper()
	return estimateBytes(reflect.ValueOf(v), make(map[visit]bool))
}

func TestEstimateBytesPrimitives(t *testing.T) {
	assert.Equal(t, 4, bytesOf(t, true))
	assert.Equal(t, 4, bytesOf(t, false))
	assert.Equal(t, 8, bytesOf(t, 42))
	assert.Equal(t, 8, bytesOf(t, int8(1)))
	assert.Equal(t, 8, bytesOf(t, uint64(1)))
	assert.Equal(t, 8, bytesOf(t, 3.14))
	assert.Equal(t, 6, bytesOf(t, "abc"))
	assert.Equal(t, 0, bytesOf(t, ""))
}

func TestEstimateBytesStringCountsCharacters(t *testing.T) {
	// Characters, not UTF-8 bytes: a two-rune string costs 4.
	assert.Equal(t, 4, bytesOf(t, "日本"))
}

func TestEstimateBytesComposites(t *testing.T) {
	type inner struct {
		Flag bool
		Name string
	}
	type outer struct {
		N     int
		Inner inner
		List  []int
	}

	v := outer{
		N:     1,
		Inner: inner{Flag: true, Name: "ab"},
		List:  []int{1, 2, 3},
	}
	// 8 + (4 + 4) + 3*8 = 40; the containers themselves are free.
	assert.Equal(t, 40, bytesOf(t, v))

	m := map[string]any{"a": 1, "bb": true}
	// keys 2+4, values 8+4
	assert.Equal(t, 18, bytesOf(t, m))
}

func TestEstimateBytesNilAndOpaque(t *testing.T) {
	assert.Equal(t, 0, bytesOf(t, nil))

	var p *int
	assert.Equal(t, 0, bytesOf(t, p))

	assert.Equal(t, 0, bytesOf(t, make(chan int)))
	assert.Equal(t, 0, bytesOf(t, func() {}))

	n := 7
	assert.Equal(t, 8, bytesOf(t, &n))
}

func TestEstimateBytesCycleSafe(t *testing.T) {
	type node struct {
		Label string
		Next  *node
	}
	a := &node{Label: "a"}
	b := &node{Label: "b", Next: a}
	a.Next = b

	got := bytesOf(t, a)
	// Each node visited exactly once: 2 + 2 characters.
	assert.Equal(t, 4, got)

	m := map[string]any{"x": 1}
	m["self"] = m
	got = bytesOf(t, m)
	assert.GreaterOrEqual(t, got, 0)
}

func TestEstimateBytesSharedReferenceCountedOnce(t *testing.T) {
	shared := &struct{ N int }{N: 1}
	pair := []any{shared, shared}
	assert.Equal(t, 8, bytesOf(t, pair))
}

func TestEstimateKBRounding(t *testing.T) {
	// 512 characters cost 1024 bytes: exactly one KB.
	assert.Equal(t, 1, EstimateKB(strings.Repeat("x", 512)))
	// 100 characters cost 200 bytes: rounds down to zero.
	assert.Equal(t, 0, EstimateKB(strings.Repeat("x", 100)))
	// 400 characters cost 800 bytes: rounds up to one.
	assert.Equal(t, 1, EstimateKB(strings.Repeat("x", 400)))
}

func TestSizeKBEmpty(t *testing.T) {
	c := newTestCache(t, Options{})
	assert.Equal(t, 0, c.SizeKB())
}

func TestSizeKBAccountsKeysAndValues(t *testing.T) {
	c := newTestCache(t, Options{})

	// Key "k" costs 2 bytes, value 511 characters cost 1022: 1024 total.
	require.NoError(t, c.AddWithTTL("k", strings.Repeat("v", 511), NoExpiry))
	assert.Equal(t, 1, c.SizeKB())
}

func TestSizeKBCyclicValueFinite(t *testing.T) {
	c := newTestCache(t, Options{})

	m := map[string]any{"n": 1}
	m["self"] = m
	require.NoError(t, c.Add("cyclic", m))

	got := c.SizeKB()
	assert.GreaterOrEqual(t, got, 0)
}
