package api

import (
	"encoding/json"
	"strings"
)

// PeerList is the peer-ticker sequence as decoded from the API. The backend
// sometimes serializes the list as a proper JSON array and sometimes as a
// stringified bracketed list ("['AAPL', 'MSFT']"), so the two shapes are
// normalized into one canonical type at the decode boundary instead of
// shape-sniffing at every use site.
type PeerList []string

// UnmarshalJSON accepts a JSON array of strings, a stringified bracketed
// list, or anything else (which decodes to an empty list).
func (p *PeerList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*p = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = splitBracketed(s)
		return nil
	}

	*p = nil
	return nil
}

// splitBracketed parses the textual list representation: strip brackets and
// quotes, split on commas, trim whitespace.
func splitBracketed(s string) PeerList {
	cleaned := strings.NewReplacer("[", "", "]", "", "'", "", `"`, "").Replace(s)

	var peers PeerList
	for _, part := range strings.Split(cleaned, ",") {
		if sym := strings.TrimSpace(part); sym != "" {
			peers = append(peers, sym)
		}
	}
	return peers
}

// Normalize returns the peers with the queried symbol excluded
// (case-insensitively, so a ticker never lists itself) and the result
// truncated to limit elements. Order is preserved as received; the backend
// does not rank peers and neither do we.
func (p PeerList) Normalize(exclude string, limit int) []string {
	excludeUpper := strings.ToUpper(strings.TrimSpace(exclude))

	out := make([]string, 0, len(p))
	for _, sym := range p {
		if strings.ToUpper(sym) == excludeUpper {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, sym)
	}
	return out
}
