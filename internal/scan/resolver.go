// internal/scan/resolver.go
// Target resolution: raw user input to a scannable IPv4 address

package scan

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// LookupFunc resolves a hostname to addresses. Injectable for tests.
type LookupFunc func(host string) ([]net.IP, error)

// Resolver normalizes a user-supplied host string into a scannable address.
// Resolution happens exactly once per scan; the scheduler reuses the result
// for every probe.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver creates a resolver backed by the system resolver.
func NewResolver() *Resolver {
	return &Resolver{lookup: net.LookupIP}
}

// NewResolverWith creates a resolver with a custom lookup function.
func NewResolverWith(lookup LookupFunc) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the scannable address for target. An IPv4 literal is
// returned unchanged without any network call. Anything else is treated as a
// hostname and resolved, preferring IPv4 results. Failure wraps
// ErrResolution and must be treated as scan-fatal by the caller.
func (r *Resolver) Resolve(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", &Error{Message: "empty target", Cause: ErrResolution}
	}

	if isIPv4Literal(target) {
		return target, nil
	}

	ips, err := r.lookup(target)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("lookup %s failed", target), Cause: ErrResolution}
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	if len(ips) > 0 {
		// No IPv4 result; fall back to the first resolved address.
		return ips[0].String(), nil
	}
	return "", &Error{Message: fmt.Sprintf("no addresses for %s", target), Cause: ErrResolution}
}

// isIPv4Literal reports whether s is four dot-separated octets in [0,255].
func isIPv4Literal(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}
