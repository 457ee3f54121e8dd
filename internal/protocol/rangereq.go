package protocol

import (
	"strconv"
	"strings"
)

// rangeUnitPrefix is the only range unit understood by ResolveRange.
const rangeUnitPrefix = "bytes="

// ResolutionKind tags the result of ResolveRange.
type ResolutionKind int

const (
	// Whole means the full resource should be sent.
	Whole ResolutionKind = iota
	// Partial means Resolution.Range should be sent.
	Partial
	// NotSatisfiable means the request must be answered with 416.
	NotSatisfiable
)

// String returns a lowercase name for the kind.
func (k ResolutionKind) String() string {
	switch k {
	case Whole:
		return "whole"
	case Partial:
		return "partial"
	case NotSatisfiable:
		return "not_satisfiable"
	default:
		return "unknown"
	}
}

// ByteRange is an inclusive byte range, Start <= End.
type ByteRange struct {
	Start uint64
	End   uint64
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() uint64 {
	return r.End - r.Start + 1
}

// Resolution is the outcome of resolving a Range header against a length.
// Range is only meaningful when Kind is Partial.
type Resolution struct {
	Kind  ResolutionKind
	Range ByteRange
}

// ResolveRange interprets a Range header against a resource of length bytes.
//
// The grammar is lenient: a missing header or one without the
// "bytes=" unit yields Whole; an unparseable start reads as 0; a missing or
// unparseable end reads as length-1. Both bounds are clamped to length-1, so
// a start past the end of the resource selects the final byte. Only an
// inverted range after clamping is NotSatisfiable. Suffix ranges and
// multiple ranges are not recognized.
func ResolveRange(header string, present bool, length uint64) Resolution {
	if !present || !strings.HasPrefix(header, rangeUnitPrefix) {
		return Resolution{Kind: Whole}
	}

	// length-1 is undefined for an empty resource; nothing can be satisfied.
	if length == 0 {
		return Resolution{Kind: NotSatisfiable}
	}
	last := length - 1

	parts := strings.Split(header[len(rangeUnitPrefix):], "-")
	if len(parts) == 0 {
		return Resolution{Kind: Whole}
	}

	start, ok := parseBound(parts[0])
	if !ok {
		start = 0
	}

	end := last
	if len(parts) > 1 && parts[1] != "" {
		if v, ok := parseBound(parts[1]); ok {
			end = v
		}
	}

	start = min(start, last)
	end = min(end, last)

	if start > end {
		return Resolution{Kind: NotSatisfiable}
	}
	return Resolution{Kind: Partial, Range: ByteRange{Start: start, End: end}}
}

// parseBound parses a decimal uint64, accepting a single leading '+'.
func parseBound(s string) (uint64, bool) {
	if len(s) > 1 && s[0] == '+' {
		s = s[1:]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
