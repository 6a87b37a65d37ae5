package data

import "sort"

type StringSet map[string]struct{}

// Items returns the strings in the set in lexical order.
func (s StringSet) Items() []string {
	retVal := make([]string, 0, len(s))
	for str := range s {
		retVal = append(retVal, str)
	}
	sort.Strings(retVal)
	return retVal
}

// Insert adds a string to the set
func (s StringSet) Insert(str string) {
	s[str] = struct{}{}
}

// Contains checks if a given string is in the set
func (s StringSet) Contains(str string) bool {
	_, ok := s[str]
	return ok
}

// Counter tallies a value per string key
type Counter map[string]int

// Add increases the tally of key by n
func (c Counter) Add(key string, n int) {
	c[key] += n
}

// Max returns the key with the highest tally. Ties go to the lexically
// smallest key. The second return value is false for an empty counter.
func (c Counter) Max() (string, bool) {
	best := ""
	bestCount := 0
	found := false
	for key, count := range c {
		if !found || count > bestCount || (count == bestCount && key < best) {
			best = key
			bestCount = count
			found = true
		}
	}
	return best, found
}
