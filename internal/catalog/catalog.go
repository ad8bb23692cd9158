// internal/catalog/catalog.go
// Static attack-surface knowledge base

package catalog

import "github.com/surfscan/surfscan/internal/models"

// Classify maps one probed port to a risk level and the catalogued attack
// vectors for its service. It is deterministic and side-effect-free: closed
// ports always yield (info, nil), open well-known ports are matched against
// the static service table, and any other open port receives the generic
// enumeration vector. Banner content never influences the rating.
func Classify(port int, service string, open bool) (models.RiskLevel, []models.AttackVector) {
	if !open {
		return models.RiskInfo, nil
	}
	if e, ok := services[port]; ok {
		return e.risk, cloneVectors(e.vectors)
	}
	_ = service // service naming is informational only; rating is keyed by port
	return models.RiskLow, cloneVectors(genericVectors)
}

// ServiceName returns the conventional service name for a well-known port,
// or an empty string when the port is not in the table.
func ServiceName(port int) string {
	return serviceNames[port]
}

// entry is one row of the static risk table.
type entry struct {
	risk    models.RiskLevel
	vectors []models.AttackVector
}

// cloneVectors returns a fresh slice so callers cannot mutate the catalog.
// The vectors themselves are treated as immutable static data.
func cloneVectors(src []models.AttackVector) []models.AttackVector {
	out := make([]models.AttackVector, len(src))
	copy(out, src)
	return out
}

var serviceNames = map[int]string{
	20:    "ftp-data",
	21:    "ftp",
	22:    "ssh",
	23:    "telnet",
	25:    "smtp",
	53:    "dns",
	69:    "tftp",
	80:    "http",
	110:   "pop3",
	123:   "ntp",
	135:   "msrpc",
	139:   "netbios-ssn",
	143:   "imap",
	161:   "snmp",
	162:   "snmptrap",
	389:   "ldap",
	443:   "https",
	445:   "microsoft-ds",
	465:   "smtps",
	514:   "syslog",
	587:   "submission",
	636:   "ldaps",
	993:   "imaps",
	995:   "pop3s",
	1433:  "ms-sql-s",
	1900:  "upnp",
	3306:  "mysql",
	3389:  "rdp",
	5353:  "mdns",
	5432:  "postgresql",
	5900:  "vnc",
	6379:  "redis",
	8080:  "http-proxy",
	8443:  "https-alt",
	27017: "mongodb",
}
