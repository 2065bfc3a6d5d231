// Package headers implements the ordered (name, value) header list used
// by both requests and responses. Lookups are case-insensitive (a
// deliberate redesign over raw case-sensitive byte comparison — see
// SPEC_FULL.md §10.1) but the original casing of each name is preserved
// for wire re-emission.
package headers

import (
	"bytes"
	"strings"

	"httpfromtcp/internal/httperr"
)

// Header is a single name/value pair, casing preserved as received.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered sequence of header pairs. Duplicate names are
// preserved in order; Get/Contains match the first occurrence.
type Headers struct {
	pairs []Header
}

// New returns an empty header list.
func New() *Headers {
	return &Headers{}
}

// Get returns the value of the first pair whose name matches k
// (case-insensitive), and whether any such pair exists.
func (h *Headers) Get(k string) (string, bool) {
	lk := strings.ToLower(k)
	for _, p := range h.pairs {
		if strings.ToLower(p.Name) == lk {
			return p.Value, true
		}
	}
	return "", false
}

// GetOr is Get without the existence flag, returning "" when absent.
func (h *Headers) GetOr(k string) string {
	v, _ := h.Get(k)
	return v
}

// Contains reports whether any pair has name k (case-insensitive).
func (h *Headers) Contains(k string) bool {
	_, ok := h.Get(k)
	return ok
}

// Set removes every existing pair named k and prepends (k, v). After Set
// there is at most one entry for k.
func (h *Headers) Set(k, v string) {
	lk := strings.ToLower(k)
	filtered := h.pairs[:0:0]
	for _, p := range h.pairs {
		if strings.ToLower(p.Name) != lk {
			filtered = append(filtered, p)
		}
	}
	h.pairs = append([]Header{{Name: k, Value: v}}, filtered...)
}

// Add appends (k, v) without removing any existing entries, preserving
// duplicate-header order (e.g. repeated headers from the wire).
func (h *Headers) Add(k, v string) {
	h.pairs = append(h.pairs, Header{Name: k, Value: v})
}

// Pairs returns the header list in insertion order.
func (h *Headers) Pairs() []Header {
	return h.pairs
}

// Delete removes every pair named k (case-insensitive).
func (h *Headers) Delete(k string) {
	lk := strings.ToLower(k)
	filtered := h.pairs[:0:0]
	for _, p := range h.pairs {
		if strings.ToLower(p.Name) != lk {
			filtered = append(filtered, p)
		}
	}
	h.pairs = filtered
}

// maxHeaderLine caps the length of a single header line. ParseLine checks
// it on a line that has already been read in full; it does not bound the
// connection buffer while a line is still unterminated.
const maxHeaderLine = 8 * 1024

// allowedTokenByte is the RFC 9110 "tchar" table used to validate header
// field names.
var allowedTokenByte [256]bool

func init() {
	for c := byte('0'); c <= '9'; c++ {
		allowedTokenByte[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		allowedTokenByte[c] = true
	}
	for c := byte('a'); c <= 'z'; c++ {
		allowedTokenByte[c] = true
	}
	for _, c := range []byte("!#$%&'*+-.^_`|~") {
		allowedTokenByte[c] = true
	}
}

func isToken(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c > 127 || !allowedTokenByte[c] {
			return false
		}
	}
	return true
}

// ParseLine parses a single "NAME: VALUE" line (trailing CRLF already
// stripped by the caller) and adds it to h. A malformed line yields a
// 400 httperr.Error.
func ParseLine(h *Headers, line []byte) error {
	if len(line) > maxHeaderLine {
		return httperr.BadRequest("header line too long")
	}
	if len(line) == 0 {
		return httperr.BadRequest("malformed header line")
	}
	// Obsolete line folding (leading SP/HTAB) is not supported.
	if line[0] == ' ' || line[0] == '\t' {
		return httperr.BadRequest("malformed header line")
	}

	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return httperr.BadRequest("malformed header line")
	}

	nameRaw := line[:colon]
	if bytes.ContainsAny(nameRaw, " \t") || !isToken(nameRaw) {
		return httperr.BadRequest("malformed header line")
	}

	// Exactly one space between the colon and the value, per spec.md §4.3.
	rest := line[colon+1:]
	if len(rest) == 0 || rest[0] != ' ' {
		return httperr.BadRequest("malformed header line")
	}
	value := string(rest[1:])

	h.Add(string(nameRaw), value)
	return nil
}
