package hostname

import (
	"fmt"
	"strings"
	"time"

	"github.com/activecm/fwgraph/util"
)

// TTL is how long a resolution, successful or not, stays fresh
const TTL = 7 * 24 * time.Hour

// Store persists hostname cache entries between runs
type Store interface {
	// Load returns every persisted entry keyed by IP
	Load() (map[string]Entry, error)
	// Save replaces the persisted entries with entries
	Save(entries map[string]Entry) error
	// Clear removes every persisted entry
	Clear() error
	Close() error
}

// Network tells internal (RFC1918) addresses from everything else
type Network int

const (
	//Internal addresses sit in 10/8, 172.16/12 or 192.168/16
	Internal Network = iota
	//External is any other address
	External
)

func (n Network) String() string {
	if n == Internal {
		return "internal"
	}
	return "external"
}

// Classify reports whether ip is an internal or an external address
func Classify(ip string) Network {
	if util.IPIsInternal(ip) {
		return Internal
	}
	return External
}

// Mode selects which addresses Resolve is allowed to look up
type Mode int

const (
	//ModeAll resolves every address
	ModeAll Mode = iota
	//ModeInternalOnly never issues a lookup for an external address
	ModeInternalOnly
)

// ParseMode converts the configuration spelling of a mode
func ParseMode(mode string) (Mode, error) {
	switch mode {
	case "all":
		return ModeAll, nil
	case "internal-only":
		return ModeInternalOnly, nil
	}
	return ModeAll, fmt.Errorf("unknown hostname resolution mode '%s'", mode)
}

func (m Mode) allows(ip string) bool {
	return m == ModeAll || Classify(ip) == Internal
}

// Status is the outcome of a hostname lookup
type Status int

const (
	//NotAttempted means no lookup was made, e.g. an external address in internal-only mode
	NotAttempted Status = iota
	//Unresolved means a lookup was made, now or earlier, and it failed
	Unresolved
	//Resolved means Name holds the hostname
	Resolved
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	}
	return "not-attempted"
}

// Result is the tri-state answer to a hostname lookup
type Result struct {
	Status Status
	Name   string
}

// Display returns the hostname if there is one and ip otherwise
func (r Result) Display(ip string) string {
	if r.Status == Resolved {
		return r.Name
	}
	return ip
}

// Entry is one cached resolution. Hostname is empty for a negative entry.
type Entry struct {
	IP         string
	Hostname   string
	Resolved   bool
	ResolvedAt time.Time
}

// Result converts the cached entry to a lookup result
func (e Entry) Result() Result {
	if e.Resolved {
		return Result{Status: Resolved, Name: e.Hostname}
	}
	return Result{Status: Unresolved}
}

// Stale reports whether the entry is older than the TTL at now
func (e Entry) Stale(now time.Time) bool {
	return now.Sub(e.ResolvedAt) > TTL
}

func normalize(ip string) string {
	return strings.TrimSpace(ip)
}
