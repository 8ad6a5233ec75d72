package scan

import "sort"

// UnknownService is the label rendered for ports missing from the catalog.
const UnknownService = "unknown"

var knownPorts = map[int]string{
	21:    "FTP",
	22:    "SSH",
	23:    "Telnet",
	25:    "SMTP",
	53:    "DNS",
	80:    "HTTP",
	110:   "POP3",
	143:   "IMAP",
	443:   "HTTPS",
	465:   "SMTPS",
	587:   "SMTP-TLS",
	993:   "IMAPS",
	995:   "POP3S",
	3306:  "MySQL",
	3389:  "RDP",
	5432:  "PostgreSQL",
	6379:  "Redis",
	8080:  "HTTP-Alt",
	8443:  "HTTPS-Alt",
	27017: "MongoDB",
}

var catalogPorts []int

func init() {

	for port := range knownPorts {
		catalogPorts = append(catalogPorts, port)
	}
	sort.Ints(catalogPorts)
}

// LookupService returns the well-known service name for port, if there is one.
func LookupService(port int) (string, bool) {
	s, ok := knownPorts[port]
	return s, ok
}

func ServiceLabel(port int) string {
	if s, ok := knownPorts[port]; ok {
		return s
	}

	return UnknownService
}

// KnownPorts returns the catalog's ports in ascending order.
func KnownPorts() []int {
	ports := make([]int, len(catalogPorts))
	copy(ports, catalogPorts)
	return ports
}
