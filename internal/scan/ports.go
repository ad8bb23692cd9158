// internal/scan/ports.go
// Port specification parsing

package scan

import (
	"sort"
	"strconv"
	"strings"

	"github.com/surfscan/surfscan/pkg/logger"
)

const (
	portMin = 1
	portMax = 65535
)

// ParsePortSpec turns a textual port specification such as
// "21,22,80-443,8080" into a sorted, deduplicated port list. Malformed or
// out-of-range tokens are dropped, not fatal: one bad token never aborts the
// parse. An empty or fully invalid spec yields an empty list, which the
// scheduler treats as nothing to scan.
func ParsePortSpec(spec string) []int {
	seen := make(map[int]struct{})
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if strings.Contains(token, "-") {
			if start, end, ok := parseRange(token); ok {
				for p := start; p <= end; p++ {
					seen[p] = struct{}{}
				}
			} else {
				logger.Debug("dropping malformed port range", logger.String("token", token))
			}
			continue
		}
		if p, ok := parsePort(token); ok {
			seen[p] = struct{}{}
		} else {
			logger.Debug("dropping malformed port token", logger.String("token", token))
		}
	}

	ports := make([]int, 0, len(seen))
	for p := range seen {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports
}

func parseRange(token string) (start, end int, ok bool) {
	bounds := strings.SplitN(token, "-", 2)
	if len(bounds) != 2 {
		return 0, 0, false
	}
	start, okStart := parsePort(strings.TrimSpace(bounds[0]))
	end, okEnd := parsePort(strings.TrimSpace(bounds[1]))
	if !okStart || !okEnd || start > end {
		return 0, 0, false
	}
	return start, end, true
}

func parsePort(s string) (int, bool) {
	p, err := strconv.Atoi(s)
	if err != nil || p < portMin || p > portMax {
		return 0, false
	}
	return p, true
}
