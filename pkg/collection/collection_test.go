package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	got := Map([]string{"hero", "booking"}, func(s string) int { return len(s) })
	assert.Equal(t, []int{4, 7}, got)
}

func TestFirst(t *testing.T) {
	v, ok := First([]int{1, 2, 3}, func(n int) bool { return n > 1 })
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = First([]int{1}, func(n int) bool { return n > 5 })
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	keys := []string{"hero", "booking"}
	assert.True(t, Contains(keys, func(k string) bool { return k == "booking" }))
	assert.False(t, Contains(keys, func(k string) bool { return k == "users" }))
}

func TestSumBy(t *testing.T) {
	type line struct {
		price float64
		qty   int
	}
	lines := []line{{50000, 2}, {25000, 1}}
	total := SumBy(lines, func(l line) float64 { return l.price * float64(l.qty) })
	assert.Equal(t, 125000.0, total)
}
