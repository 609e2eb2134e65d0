package formkit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Segment is a single step of a Path: either a string key or an integer index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key creates a segment addressing a map key.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index creates a segment addressing a list element.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment addresses a list element.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path addresses a value inside a nested payload.
type Path []Segment

// NewPath builds a Path from strings, ints and Segments.
// Any other value is formatted with fmt.Sprint and used as a key.
func NewPath(parts ...any) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case Segment:
			p = append(p, v)
		case string:
			p = append(p, Key(v))
		case int:
			p = append(p, Index(v))
		case int64:
			p = append(p, Index(int(v)))
		case float64:
			// JSON numbers decode as float64.
			if v == float64(int(v)) {
				p = append(p, Index(int(v)))
			} else {
				p = append(p, Key(strconv.FormatFloat(v, 'f', -1, 64)))
			}
		default:
			p = append(p, Key(fmt.Sprint(v)))
		}
	}
	return p
}

// ParsePath splits a dot-joined path. Parts written as canonical non-negative
// integers become indexes; "007" and "+1" stay keys so String round-trips.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if i, err := strconv.Atoi(part); err == nil && i >= 0 && strconv.Itoa(i) == part {
			p = append(p, Index(i))
			continue
		}
		p = append(p, Key(part))
	}
	return p
}

// String joins the segments with ".", e.g. "address.lines.0".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Bracket renders the path in form-field notation, e.g. "address[lines][0]".
func (p Path) Bracket() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(p[0].String())
	for _, s := range p[1:] {
		b.WriteByte('[')
		b.WriteString(s.String())
		b.WriteByte(']')
	}
	return b.String()
}

// Append returns a new path with seg added; p is left untouched.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// MarshalJSON encodes the path as its dot-joined string.
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a dot-joined string or an array of keys and indexes.
func (p *Path) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = ParsePath(s)
		return nil
	}
	var parts []any
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("path must be a string or an array: %w", err)
	}
	*p = NewPath(parts...)
	return nil
}
