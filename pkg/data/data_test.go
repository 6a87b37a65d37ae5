package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPPairMapKey(t *testing.T) {
	a := NewIPPair("1.1.1.1", "2.2.2.2")
	b := NewIPPair("2.2.2.2", "1.1.1.1")
	c := NewIPPair("1.1.1.12", ".2.2.2")

	assert.NotEqual(t, a.MapKey(), b.MapKey())
	assert.NotEqual(t, a.MapKey(), c.MapKey())
	assert.Equal(t, a.MapKey(), NewIPPair("1.1.1.1", "2.2.2.2").MapKey())
}

func TestIPPairLess(t *testing.T) {
	assert.True(t, NewIPPair("1.1.1.1", "9.9.9.9").Less(NewIPPair("2.2.2.2", "1.1.1.1")))
	assert.True(t, NewIPPair("1.1.1.1", "1.1.1.2").Less(NewIPPair("1.1.1.1", "1.1.1.3")))
	assert.False(t, NewIPPair("1.1.1.1", "1.1.1.2").Less(NewIPPair("1.1.1.1", "1.1.1.2")))
}

func TestStringSet(t *testing.T) {
	set := make(StringSet)
	set.Insert("scan")
	set.Insert("brute")
	set.Insert("scan")

	assert.True(t, set.Contains("scan"))
	assert.False(t, set.Contains("exploit"))
	assert.Equal(t, []string{"brute", "scan"}, set.Items())
}

func TestCounterMax(t *testing.T) {
	testCases := []struct {
		name     string
		counts   map[string]int
		expected string
		found    bool
	}{
		{"empty", map[string]int{}, "", false},
		{"single", map[string]int{"scan": 1}, "scan", true},
		{"highest wins", map[string]int{"scan": 1, "brute": 4, "exploit": 2}, "brute", true},
		{"tie is lexical", map[string]int{"scan": 3, "brute": 3, "exploit": 1}, "brute", true},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			counter := make(Counter)
			for key, n := range test.counts {
				counter.Add(key, n)
			}
			key, found := counter.Max()
			assert.Equal(t, test.expected, key)
			assert.Equal(t, test.found, found)
		})
	}
}
