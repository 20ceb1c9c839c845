/*
Package info provides the key-value map that a pipeline runner hands to an
app and receives back from it.

An Info value is loaded from a YAML file, read and amended by exactly one app
invocation and written back out. Values are usually strings, but numbers,
booleans and lists of strings (e.g., several pepXML files) are allowed. The
accessors below coerce whatever the YAML decoder produced into the type the
caller wants, so an app never has to care whether a user wrote
`FDR_CUTOFF: 0.01` or `FDR_CUTOFF: "0.01"`.
*/
package info

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well known keys shared by most apps.
const (
	WorkDir        = "WORKDIR"
	MzXML          = "MZXML"
	PepXML         = "PEPXML"
	Database       = "DBASE"
	Threads        = "THREADS"
	Enzyme         = "ENZYME"
	StaticMods     = "STATIC_MODS"
	VariableMods   = "VARIABLE_MODS"
	PrecMassErr    = "PRECMASSERR"
	PrecMassUnit   = "PRECMASSUNIT"
	FragMassErr    = "FRAGMASSERR"
	FragMassUnit   = "FRAGMASSUNIT"
	MissedCleavage = "MISSEDCLEAVAGE"
)

// Info is the configuration map passed between the configure, invoke and
// validate steps of an app.
type Info map[string]any

// Has returns true if key is present, even if its value is empty.
func (inf Info) Has(key string) bool {
	_, ok := inf[key]
	return ok
}

// Get returns the value of key as a string. Lists are joined with a single
// space. A missing key yields the empty string.
func (inf Info) Get(key string) string {
	v, ok := inf[key]
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []any:
		return strings.Join(toStrings(v), " ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

// GetList returns the value of key as a list of strings. A scalar value
// becomes a list of length one and a missing key becomes nil.
func (inf Info) GetList(key string) []string {
	v, ok := inf[key]
	if !ok || v == nil {
		return nil
	}
	switch v := v.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		return toStrings(v)
	}
	return []string{inf.Get(key)}
}

// GetFloat parses the value of key as a float.
func (inf Info) GetFloat(key string) (float64, error) {
	s := strings.TrimSpace(inf.Get(key))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: could not parse '%s' as a number", key, s)
	}
	return f, nil
}

// GetBool interprets the value of key as a boolean. 'True', 'true', 'yes'
// and '1' are true. Everything else (including a missing key) is false.
func (inf Info) GetBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(inf.Get(key))) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// Set associates value with key and returns inf for chaining.
func (inf Info) Set(key string, value any) Info {
	inf[key] = value
	return inf
}

// Copy returns a copy of inf that can be modified freely. Lists are copied
// too.
func (inf Info) Copy() Info {
	cp := make(Info, len(inf))
	for k, v := range inf {
		switch v := v.(type) {
		case []string:
			cp[k] = append([]string(nil), v...)
		case []any:
			cp[k] = append([]any(nil), v...)
		default:
			cp[k] = v
		}
	}
	return cp
}

// Keys returns all keys in sorted order.
func (inf Info) Keys() []string {
	keys := make([]string, 0, len(inf))
	for k := range inf {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Read decodes a YAML mapping into a new Info value.
func Read(r io.Reader) (Info, error) {
	inf := make(Info)
	if err := yaml.NewDecoder(r).Decode(&inf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode info: %w", err)
	}
	return inf, nil
}

// ReadFile is a convenience for Read on the file at path.
func ReadFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inf, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inf, nil
}

// Write encodes inf as YAML. Keys are written in sorted order.
func Write(w io.Writer, inf Info) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(inf)); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile is a convenience for Write to a newly created file at path.
func WriteFile(path string, inf Info) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, inf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toStrings(vs []any) []string {
	strs := make([]string, len(vs))
	for i, v := range vs {
		strs[i] = Info{"": v}.Get("")
	}
	return strs
}
