// Package css reads and writes CSS custom-property declarations.
package css

import (
	"fmt"
	"strings"
)

// sigil starts a custom-property declaration.
const sigil = "--"

// MalformedDeclarationError reports a custom-property line that cannot be used.
type MalformedDeclarationError struct {
	Line   int
	Text   string
	Reason string
}

// Error implements the error interface.
func (e *MalformedDeclarationError) Error() string {
	return fmt.Sprintf("malformed declaration on line %d (%q): %s", e.Line, e.Text, e.Reason)
}

// Declaration is one custom property with its raw value.
type Declaration struct {
	Name string
	Raw  string
	Line int
}

// Declarations is an ordered set of custom properties. Redeclaring a name
// replaces its value but keeps its original position.
type Declarations struct {
	items []Declaration
	index map[string]int
}

// NewDeclarations returns an empty set.
func NewDeclarations() *Declarations {
	return &Declarations{index: make(map[string]int)}
}

// Set adds or replaces a declaration.
func (d *Declarations) Set(decl Declaration) {
	if i, ok := d.index[decl.Name]; ok {
		d.items[i] = decl
		return
	}
	d.index[decl.Name] = len(d.items)
	d.items = append(d.items, decl)
}

// Get returns the declaration for name.
func (d *Declarations) Get(name string) (Declaration, bool) {
	i, ok := d.index[name]
	if !ok {
		return Declaration{}, false
	}
	return d.items[i], true
}

// Len returns the number of declarations.
func (d *Declarations) Len() int {
	return len(d.items)
}

// All returns the declarations in order.
func (d *Declarations) All() []Declaration {
	return append([]Declaration(nil), d.items...)
}

// DistinctValues counts the distinct raw values.
func (d *Declarations) DistinctValues() int {
	seen := make(map[string]struct{}, len(d.items))
	for _, decl := range d.items {
		seen[decl.Raw] = struct{}{}
	}
	return len(seen)
}

// Entry is a declaration with a parsed value.
type Entry struct {
	Name  string
	Value Value
}

// Entries parses every raw value. The first unparsable value is returned
// as a *MalformedDeclarationError.
func (d *Declarations) Entries() ([]Entry, error) {
	out := make([]Entry, 0, len(d.items))
	for _, decl := range d.items {
		v, err := ParseValue(decl.Raw)
		if err != nil {
			return nil, &MalformedDeclarationError{
				Line:   decl.Line,
				Text:   decl.Name + ": " + decl.Raw,
				Reason: err.Error(),
			}
		}
		out = append(out, Entry{Name: decl.Name, Value: v})
	}
	return out, nil
}

// Parse scans text for lines starting with a custom property and returns
// them in order. Values are kept as raw strings.
func Parse(text string) (*Declarations, error) {
	decls := NewDeclarations()
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, sigil) {
			continue
		}

		name, raw, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, &MalformedDeclarationError{Line: i + 1, Text: trimmed, Reason: "missing ':'"}
		}
		name = strings.TrimSpace(name)
		raw = strings.Trim(raw, " \t;")
		if name == sigil || strings.ContainsAny(name, " \t") {
			return nil, &MalformedDeclarationError{Line: i + 1, Text: trimmed, Reason: "invalid property name"}
		}
		if raw == "" {
			return nil, &MalformedDeclarationError{Line: i + 1, Text: trimmed, Reason: "empty value"}
		}

		decls.Set(Declaration{Name: name, Raw: raw, Line: i + 1})
	}
	return decls, nil
}

// Serialize writes entries as a ":root" block, one declaration per line.
func Serialize(entries []Entry) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "    %s: %s;\n", e.Name, e.Value)
	}
	b.WriteString("}\n")
	return b.String()
}
