// Package emitter renders a reconciled map as a property list document and
// as a C array of the models whose core temperature key is one-indexed.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"howett.net/plist"

	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/coretemp"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/reconciler"
)

// Format is the encoding of the mapping document.
type Format string

// Supported document formats.
const (
	FormatPlist Format = "plist"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// String returns the string representation of a format.
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a document format name. The empty string is plist.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatPlist:
		return FormatPlist, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: plist, yaml, json")
	}
}

// Emitter renders results.
type Emitter struct {
	format    Format
	arrayName string
	compare   Comparator
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithFormat sets the document format.
func WithFormat(f Format) Option {
	return func(e *Emitter) {
		e.format = f
	}
}

// WithArrayName sets the identifier of the generated C array.
func WithArrayName(name string) Option {
	return func(e *Emitter) {
		if name != "" {
			e.arrayName = name
		}
	}
}

// WithComparator sets the ordering of the array listing.
func WithComparator(c Comparator) Option {
	return func(e *Emitter) {
		if c != nil {
			e.compare = c
		}
	}
}

// New creates an Emitter. By default it writes a plist and names the array
// one_indexed_models, ordered by the standard English collation.
func New(opts ...Option) *Emitter {
	e := &Emitter{
		format:    FormatPlist,
		arrayName: constants.DefaultArrayName,
		compare:   Standard(constants.DefaultLocale),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render writes the document, a blank separator line and the array
// declaration. Nothing is written to w if encoding fails.
func (e *Emitter) Render(w io.Writer, m reconciler.Map) error {
	var buf bytes.Buffer
	if err := e.WriteDocument(&buf, m); err != nil {
		return err
	}
	buf.WriteString("\n")
	if err := e.WriteArray(&buf, m); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return errors.WrapIO("write", "output", err)
}

// WriteDocument writes the full mapping in the configured format.
func (e *Emitter) WriteDocument(w io.Writer, m reconciler.Map) error {
	switch e.format {
	case FormatYAML:
		return WriteYAML(w, m)
	case FormatJSON:
		return WriteJSON(w, m)
	default:
		return WritePlist(w, m)
	}
}

// WriteArray writes the C array of one-indexed models.
func (e *Emitter) WriteArray(w io.Writer, m reconciler.Map) error {
	models := e.compare.Sort(m.Filter(coretemp.CoreIndex(1)))
	return WriteArray(w, e.arrayName, models)
}

// WritePlist writes m as an XML property list dictionary. Core indices are
// integers and unclassified models carry the string "No core temperature".
func WritePlist(w io.Writer, m reconciler.Map) error {
	var buf bytes.Buffer
	enc := plist.NewEncoderForFormat(&buf, plist.XMLFormat)
	enc.Indent("\t")
	if err := enc.Encode(m.Values()); err != nil {
		return errors.WrapEncode(FormatPlist.String(), err)
	}
	doc := bytes.NewBuffer(flattenRoot(buf.Bytes()))
	doc.WriteString("\n")
	_, err := doc.WriteTo(w)
	return errors.WrapIO("write", "plist", err)
}

// flattenRoot moves the children of the <plist> element to column 0, the
// layout of plists written by PropertyListSerialization.
func flattenRoot(doc []byte) []byte {
	var out bytes.Buffer
	inside := false
	for line := range bytes.Lines(doc) {
		if bytes.HasPrefix(line, []byte("</plist>")) {
			inside = false
		}
		if inside {
			line = bytes.TrimPrefix(line, []byte("\t"))
		}
		out.Write(line)
		if bytes.HasPrefix(line, []byte("<plist")) && !bytes.Contains(line, []byte("</plist>")) {
			inside = true
		}
	}
	return out.Bytes()
}

// WriteYAML writes m as a YAML mapping.
func WriteYAML(w io.Writer, m reconciler.Map) error {
	data, err := yaml.MarshalWithOptions(m.Values(), yaml.Indent(2))
	if err != nil {
		return errors.WrapEncode(FormatYAML.String(), err)
	}
	_, err = w.Write(data)
	return errors.WrapIO("write", "yaml", err)
}

// WriteJSON writes m as an indented JSON object.
func WriteJSON(w io.Writer, m reconciler.Map) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.Values()); err != nil {
		return errors.WrapEncode(FormatJSON.String(), err)
	}
	return nil
}

// WriteArray writes a C string array declaration. Each name is quoted and
// tab-indented; entries are separated by ",\n".
func WriteArray(w io.Writer, name string, models []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "static const char *%s[] = {\n", name)
	for i, model := range models {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t%q", model)
	}
	b.WriteString("\n};\n")
	_, err := io.WriteString(w, b.String())
	return errors.WrapIO("write", "array", err)
}
