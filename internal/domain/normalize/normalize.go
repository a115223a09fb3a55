// Package normalize contains small pure utilities that rescale heterogeneous
// applicant and institution inputs onto the engine's canonical units: GPA
// onto the 4.0 basis and published textual score ranges into numeric bounds.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// NativeGPAScale is the basis every GPA is rescaled onto.
const NativeGPAScale = 4.0

// rangeSeparators are the separators accepted between the two ends of a
// published textual range, most specific first.
var rangeSeparators = []string{"–", "—", "~", " to ", "-"}

// GPA rescales a GPA reported on an arbitrary scale (4.0, 5.0, 100, ...)
// onto the common 4.0 basis.
//
// A scale of zero, a negative scale, or NaN is a data error, not a request
// for literal arithmetic: the native 4.0 scale is substituted so the result
// stays bounded. NaN or negative values normalize to zero. GPA(g, 4) == g
// for every non-negative g.
func GPA(value, scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) {
		scale = NativeGPAScale
	}
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	return value * NativeGPAScale / scale
}

// RangeBounds parses a published textual range like "1320-1520", "31–34" or
// "1350 to 1500" into its two numeric ends. Surrounding junk ("%", commas,
// whitespace) is tolerated. A single number parses to a zero-width range.
// Returns ok=false when no number can be extracted.
func RangeBounds(s string) (lo, hi float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	for _, sep := range rangeSeparators {
		idx := strings.Index(s, sep)
		if idx <= 0 || idx+len(sep) >= len(s) {
			continue
		}
		a, okA := parseLoose(s[:idx])
		b, okB := parseLoose(s[idx+len(sep):])
		if okA && okB {
			if b < a {
				a, b = b, a
			}
			return a, b, true
		}
	}
	if v, okV := parseLoose(s); okV {
		return v, v, true
	}
	return 0, 0, false
}

// RangeMidpoint parses a textual range and returns its midpoint. A single
// number parses to itself.
func RangeMidpoint(s string) (float64, bool) {
	lo, hi, ok := RangeBounds(s)
	if !ok {
		return 0, false
	}
	return (lo + hi) / 2, true
}

// parseLoose extracts a float from a fragment that may carry percent signs,
// thousands separators, or surrounding whitespace.
func parseLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
