package coretemp

import (
	"strings"

	"github.com/agentstation/coreoffset/pkg/constants"
)

// Markers are the literal spellings that identify each core key. Matching
// is plain substring membership; no case folding is applied.
var (
	Core0Markers = []string{constants.Core0Upper, constants.Core0Lower}
	Core1Markers = []string{constants.Core1Upper, constants.Core1Lower}
)

// HasCore0 reports whether text contains either core-0 spelling.
func HasCore0(text string) bool {
	return containsAny(text, Core0Markers)
}

// HasCore1 reports whether text contains either core-1 spelling.
func HasCore1(text string) bool {
	return containsAny(text, Core1Markers)
}

// Classify applies the whole-text rule: core 0 wins over core 1, and
// neither yields NoCoreTemperature.
func Classify(text string) Classification {
	switch {
	case HasCore0(text):
		return CoreIndex(0)
	case HasCore1(text):
		return CoreIndex(1)
	default:
		return NoCoreTemperature
	}
}

// Accumulator collects marker sightings over several lines, for sources
// where one model spans a section rather than a whole file.
type Accumulator struct {
	has0 bool
	has1 bool
}

// Add scans one line.
func (a *Accumulator) Add(line string) {
	if HasCore0(line) {
		a.has0 = true
	} else if HasCore1(line) {
		a.has1 = true
	}
}

// Classification returns the result for everything added so far.
func (a *Accumulator) Classification() Classification {
	switch {
	case a.has0:
		return CoreIndex(0)
	case a.has1:
		return CoreIndex(1)
	default:
		return NoCoreTemperature
	}
}

// Reset clears the accumulator for the next section.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
