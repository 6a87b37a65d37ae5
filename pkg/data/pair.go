package data

import "strings"

// IPPair binds a source and a destination address where direction matters.
type IPPair struct {
	Src string
	Dst string
}

// NewIPPair binds a source and destination address
func NewIPPair(src, dst string) IPPair {
	return IPPair{Src: src, Dst: dst}
}

// MapKey generates a string which may be used to index an ordered pair of IPs.
func (p IPPair) MapKey() string {
	var builder strings.Builder

	builder.Grow(len(p.Src) + 1 + len(p.Dst))
	builder.WriteString(p.Src)
	builder.WriteByte('>')
	builder.WriteString(p.Dst)

	return builder.String()
}

// Less orders pairs lexically by source and then destination
func (p IPPair) Less(other IPPair) bool {
	if p.Src != other.Src {
		return p.Src < other.Src
	}
	return p.Dst < other.Dst
}
