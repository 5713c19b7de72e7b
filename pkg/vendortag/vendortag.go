// Package vendortag parses and serialises the eight-field vendor trace-state
// tag carried inside a W3C tracestate entry: "fw4;0;0;0;0;<ignored>;<exp>;<pathHex>".
package vendortag

import (
	"fmt"
	"strconv"
	"strings"
)

const prefix = "fw4"
const fieldCount = 8

// Tag is a parsed vendor tag. A zero-value Tag with Valid false is the
// canonical "invalid" result; callers must check Valid before trusting the
// other fields.
type Tag struct {
	Valid    bool
	Ignored  bool
	Exponent uint32
	PathInfo uint32
}

// Invalid returns the canonical invalid tag.
func Invalid() Tag {
	return Tag{}
}

// New builds a valid tag from its semantic fields.
func New(ignored bool, exponent uint32, pathInfo uint32) Tag {
	return Tag{Valid: true, Ignored: ignored, Exponent: exponent, PathInfo: pathInfo}
}

// Parse decodes a vendor tag value. Any malformed input yields Invalid();
// parse failures are not errors, they are an expected shape for foreign
// trace-state entries and the caller falls through to the adaptive branch.
func Parse(value string) Tag {
	fields := strings.Split(value, ";")
	if len(fields) < fieldCount {
		return Invalid()
	}
	if fields[0] != prefix {
		return Invalid()
	}

	var ignored bool
	switch fields[5] {
	case "0":
		ignored = false
	case "1":
		ignored = true
	default:
		return Invalid()
	}

	exponent, err := strconv.ParseUint(fields[6], 10, 32)
	if err != nil {
		return Invalid()
	}
	pathInfo, err := strconv.ParseUint(fields[7], 16, 32)
	if err != nil {
		return Invalid()
	}

	return New(ignored, uint32(exponent), uint32(pathInfo))
}

// String serialises the tag back to its wire form. Calling String on an
// invalid tag still produces a syntactically well-formed tag with ignored
// 0, exponent 0 and path info 0, since callers are only ever expected to
// serialise tags they built themselves via New.
func (t Tag) String() string {
	ignoredField := "0"
	if t.Ignored {
		ignoredField = "1"
	}
	return fmt.Sprintf("%s;0;0;0;0;%s;%d;%x", prefix, ignoredField, t.Exponent, t.PathInfo)
}
