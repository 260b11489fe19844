// Package routepath compiles route path patterns and matches request paths
// against them.
//
// Three pattern shapes are understood:
//
//	/users/:id       static and parameter segments, exact segment count
//	/dashboard/*     prefix ("layout") pattern, matches anything beneath it
//	*                universal catch-all, matches every path with no captures
//
// Patterns are compiled once and are immutable afterwards; matching has no
// side effects and is safe for concurrent use.
package routepath

import "strings"

// SegmentKind tags a compiled pattern segment.
type SegmentKind uint8

const (
	// KindStatic segments must equal the request segment byte for byte.
	KindStatic SegmentKind = iota
	// KindParam segments match any request segment and capture it.
	KindParam
)

// String returns the kind name.
func (k SegmentKind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindParam:
		return "param"
	default:
		return "unknown"
	}
}

// Segment is one compiled path segment.
// For KindStatic, Value is the literal text. For KindParam, Value is the
// parameter name without the leading colon.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// Pattern is a compiled route path pattern.
type Pattern struct {
	// Raw is the pattern string as written in the route table.
	Raw string

	// Segments are the compiled segments, in order.
	Segments []Segment

	// IsPrefix is set when the pattern ended in "*".
	IsPrefix bool
}

// Params maps parameter names to decoded segment values.
type Params map[string]string

// CatchAll is the universal catch-all pattern.
const CatchAll = "*"

// Compile compiles a route pattern. Any string is accepted; a malformed
// pattern simply never matches anything useful.
func Compile(pattern string) Pattern {
	isPrefix := strings.HasSuffix(pattern, "*")
	normalized := pattern
	if isPrefix {
		normalized = pattern[:len(pattern)-1]
	}

	raw := Split(normalized)
	segments := make([]Segment, 0, len(raw))
	for _, seg := range raw {
		if strings.HasPrefix(seg, ":") {
			segments = append(segments, Segment{Kind: KindParam, Value: seg[1:]})
			continue
		}
		segments = append(segments, Segment{Kind: KindStatic, Value: seg})
	}

	return Pattern{
		Raw:      pattern,
		Segments: segments,
		IsPrefix: isPrefix,
	}
}

// IsCatchAll reports whether p is the universal "*" pattern.
func (p Pattern) IsCatchAll() bool {
	return p.Raw == CatchAll
}

// Len returns the number of compiled segments. Resolution uses it to order
// matches from the outermost (fewest segments) to the leaf.
func (p Pattern) Len() int {
	return len(p.Segments)
}

// Match matches an escaped request path (as returned by url.URL.EscapedPath)
// against the pattern. It returns the captured parameters and true on a
// match, or nil and false otherwise.
func (p Pattern) Match(path string) (Params, bool) {
	return p.MatchSegments(Split(path))
}

// MatchSegments is Match for a path that was already split with Split.
func (p Pattern) MatchSegments(segments []string) (Params, bool) {
	if p.IsCatchAll() {
		return Params{}, true
	}

	if !p.IsPrefix && len(segments) != len(p.Segments) {
		return nil, false
	}
	if p.IsPrefix && len(segments) < len(p.Segments) {
		return nil, false
	}

	params := make(Params)
	for i, seg := range p.Segments {
		cur := segments[i]
		if seg.Kind == KindParam {
			decoded, err := DecodeSegment(cur)
			if err != nil {
				return nil, false
			}
			params[seg.Value] = decoded
			continue
		}
		if seg.Value != cur {
			return nil, false
		}
	}
	return params, true
}

// String renders the compiled form, e.g. "/users/:id" or "/docs/*".
func (p Pattern) String() string {
	if p.IsCatchAll() {
		return CatchAll
	}
	var b strings.Builder
	for _, seg := range p.Segments {
		b.WriteByte('/')
		if seg.Kind == KindParam {
			b.WriteByte(':')
		}
		b.WriteString(seg.Value)
	}
	if p.IsPrefix {
		b.WriteString("/*")
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
