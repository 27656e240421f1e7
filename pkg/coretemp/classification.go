// Package coretemp classifies SMC key dumps by the index of the sensor key
// that reports the first CPU core temperature.
package coretemp

import (
	"fmt"
	"strconv"

	"github.com/agentstation/coreoffset/pkg/constants"
)

// Classification is the core temperature key found for a model: either a
// core index (TC0C/TC0c → 0, TC1C/TC1c → 1) or no core temperature at all.
//
// The zero value is NoCoreTemperature.
type Classification struct {
	index uint8
	found bool
}

// NoCoreTemperature is reported when neither marker appears in a dump.
var NoCoreTemperature = Classification{}

// CoreIndex returns the classification for a core key at index i.
func CoreIndex(i uint8) Classification {
	return Classification{index: i, found: true}
}

// Index returns the core index and whether one was found.
func (c Classification) Index() (uint8, bool) {
	return c.index, c.found
}

// IsNoCoreTemperature reports whether c is the NoCoreTemperature sentinel.
func (c Classification) IsNoCoreTemperature() bool {
	return !c.found
}

// String renders the classification the way it appears in diagnostics.
func (c Classification) String() string {
	if !c.found {
		return constants.NoCoreTemperature
	}
	return strconv.Itoa(int(c.index))
}

// PlistValue converts the classification to its mixed-type document form:
// an int for a core index, the sentinel string otherwise.
func (c Classification) PlistValue() any {
	if !c.found {
		return constants.NoCoreTemperature
	}
	return int(c.index)
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Classification) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse is the inverse of String.
func Parse(s string) (Classification, error) {
	if s == constants.NoCoreTemperature {
		return NoCoreTemperature, nil
	}
	i, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return NoCoreTemperature, fmt.Errorf("invalid classification %q", s)
	}
	return CoreIndex(uint8(i)), nil
}
