// Package flighturl builds the opaque tfs query token the flight-results
// site expects. The token is a fixed protobuf-like byte template with the
// date, origin and destination spliced in, base64-encoded, with a padding
// marker inserted near the end of the string.
package flighturl

import (
	"encoding/base64"
	"fmt"
)

const baseURL = "https://www.google.com/travel/flights/search"

// Fixed byte markers around the three substituted fields. The layout is the
// site's undocumented one-way search message; it is reproduced verbatim,
// not interpreted.
var (
	prefix       = []byte{0x08, 0x1c, 0x10, 0x02, 0x1a, 0x1e, 0x12, 0x0a}
	originSep    = []byte{'j', 0x07, 0x08, 0x01, 0x12, 0x03}
	destSep      = []byte{'r', 0x07, 0x08, 0x01, 0x12, 0x03}
	suffix       = []byte{'@', 0x01, 'H', 0x01, 'p', 0x01, 0x82, 0x01, 0x0b, 0x08, 0xfc, 0x06, '`', 0x04, 0x08}
	paddingMark  = "_______"
	paddingShift = 6 // marker goes at len-6 of the encoded string
)

// OneWayBytes returns the raw wire bytes for a one-way search before
// encoding. Inputs are substituted verbatim; no IATA or date validation is
// performed (a bad triple just yields a token the site cannot fulfil).
func OneWayBytes(origin, destination, date string) []byte {
	raw := make([]byte, 0, len(prefix)+len(originSep)+len(destSep)+len(suffix)+len(date)+len(origin)+len(destination))
	raw = append(raw, prefix...)
	raw = append(raw, date...)
	raw = append(raw, originSep...)
	raw = append(raw, origin...)
	raw = append(raw, destSep...)
	raw = append(raw, destination...)
	raw = append(raw, suffix...)
	return raw
}

// Encode produces the tfs token for a one-way search. Deterministic:
// identical inputs always yield an identical token.
func Encode(origin, destination, date string) string {
	b64 := base64.StdEncoding.EncodeToString(OneWayBytes(origin, destination, date))
	insert := len(b64) - paddingShift
	return b64[:insert] + paddingMark + b64[insert:]
}

// Decode strips the padding marker and base64-decodes a token back to the
// wire bytes. Used by tests to verify the template layout.
func Decode(token string) ([]byte, error) {
	insert := len(token) - paddingShift - len(paddingMark)
	if insert < 0 || token[insert:insert+len(paddingMark)] != paddingMark {
		return nil, fmt.Errorf("token has no padding marker at position %d", insert)
	}
	return base64.StdEncoding.DecodeString(token[:insert] + token[insert+len(paddingMark):])
}

// SearchURL is the full results URL for the given one-way search.
func SearchURL(origin, destination, date string) string {
	return fmt.Sprintf("%s?tfs=%s", baseURL, Encode(origin, destination, date))
}
