/*
Package mods translates generic modification lists into the syntax of a
particular search engine.

A generic list is a ';' separated sequence of entries of the form

	Name (Site)

where Name is a Unimod name known to this package (see Names) or a literal
mass such as "+15.9949" or "[+15.9949]", and Site is one or more residue
letters ("C", "STY"), "N-term", "C-term", "Protein N-term" or
"Protein C-term". For example:

	Carbamidomethyl (C); Oxidation (M); Acetyl (Protein N-term)
*/
package mods

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/applicake-tools/searchcake/enzyme"
)

// Monoisotopic mass shifts of the modifications understood by name.
var unimod = map[string]float64{
	"Carbamidomethyl":      57.021464,
	"Oxidation":            15.994915,
	"Phospho":              79.966331,
	"Acetyl":               42.010565,
	"Deamidated":           0.984016,
	"Methyl":               14.01565,
	"Dimethyl":             28.0313,
	"Carbamyl":             43.005814,
	"Cysteinyl":            119.004099,
	"Gln->pyro-Glu":        -17.026549,
	"Glu->pyro-Glu":        -18.010565,
	"Amidated":             -0.984016,
	"GlyGly":               114.042927,
	"Label:13C(6)":         6.020129,
	"Label:13C(6)15N(2)":   8.014199,
	"Label:13C(6)15N(4)":   10.008269,
	"iTRAQ4plex":           144.102063,
	"iTRAQ8plex":           304.205360,
	"TMT6plex":             229.162932,
	"TMTpro":               304.207146,
	"Propionamide":         71.037114,
	"Nitro":                44.985078,
	"Sulfo":                79.956815,
	"HexNAc":               203.079373,
	"Formyl":               27.994915,
	"Pyro-carbamidomethyl": 39.994915,
}

// unimodKeys maps lower cased names to their spelling in unimod.
var unimodKeys = func() map[string]string {
	keys := make(map[string]string, len(unimod))
	for name := range unimod {
		keys[strings.ToLower(name)] = name
	}
	return keys
}()

// lookup finds a modification by name regardless of case and returns its
// canonical spelling.
func lookup(name string) (string, float64, bool) {
	canon, ok := unimodKeys[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", 0, false
	}
	return canon, unimod[canon], true
}

// SiteKind says where a modification may occur.
type SiteKind int

const (
	Residue SiteKind = iota
	NTerm
	CTerm
	ProteinNTerm
	ProteinCTerm
)

// Mod is a single parsed modification entry.
type Mod struct {
	Name     string
	Mass     float64
	Kind     SiteKind
	Residues string // only set when Kind is Residue
}

func (m Mod) String() string {
	switch m.Kind {
	case NTerm:
		return fmt.Sprintf("%s (N-term)", m.Name)
	case CTerm:
		return fmt.Sprintf("%s (C-term)", m.Name)
	case ProteinNTerm:
		return fmt.Sprintf("%s (Protein N-term)", m.Name)
	case ProteinCTerm:
		return fmt.Sprintf("%s (Protein C-term)", m.Name)
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Residues)
}

// Names returns the modification names that can be used without a mass,
// sorted.
func Names() []string {
	names := make([]string, 0, len(unimod))
	for name := range unimod {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse reads a generic modification list. Duplicate entries are dropped.
// An empty (or all whitespace) list yields no modifications.
func Parse(list string) ([]Mod, error) {
	var parsed []Mod
	seen := make(map[string]bool)
	for _, entry := range strings.Split(list, ";") {
		entry = strings.TrimSpace(entry)
		if len(entry) == 0 {
			continue
		}
		m, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		if seen[m.String()] {
			continue
		}
		seen[m.String()] = true
		parsed = append(parsed, m)
	}
	return parsed, nil
}

func parseEntry(entry string) (Mod, error) {
	open := strings.LastIndex(entry, "(")
	if open <= 0 || !strings.HasSuffix(entry, ")") {
		return Mod{}, fmt.Errorf("mods: '%s' is not of the form 'Name (Site)'", entry)
	}
	name := strings.TrimSpace(entry[:open])
	site := strings.TrimSpace(entry[open+1 : len(entry)-1])

	m := Mod{Name: name}
	if canon, mass, ok := lookup(name); ok {
		m.Name = canon
		m.Mass = mass
	} else {
		lit := strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")
		mass, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return Mod{}, fmt.Errorf("mods: unknown modification '%s'", name)
		}
		m.Mass = mass
	}

	switch strings.ToLower(site) {
	case "n-term":
		m.Kind = NTerm
	case "c-term":
		m.Kind = CTerm
	case "protein n-term":
		m.Kind = ProteinNTerm
	case "protein c-term":
		m.Kind = ProteinCTerm
	default:
		if len(site) == 0 {
			return Mod{}, fmt.Errorf("mods: '%s' has no site", entry)
		}
		for _, r := range site {
			if r < 'A' || r > 'Z' {
				return Mod{}, fmt.Errorf("mods: invalid site '%s' in '%s'", site, entry)
			}
		}
		m.Kind = Residue
		m.Residues = site
	}
	return m, nil
}

// ToEngine translates the static and variable generic modification lists
// into the static, variable and terminal modification strings of engine.
//
// Only XTandem uses the terminal string: protein terminal modifications
// are expressed there with dedicated input parameters.
func ToEngine(static, variable string, engine enzyme.Engine) (st, va, term string, err error) {
	smods, err := Parse(static)
	if err != nil {
		return "", "", "", err
	}
	vmods, err := Parse(variable)
	if err != nil {
		return "", "", "", err
	}
	switch engine {
	case enzyme.XTandem:
		st, va, term = xtandem(smods, vmods)
		return st, va, term, nil
	case enzyme.Myrimatch:
		st, va, err = myrimatch(smods, vmods)
		return st, va, "", err
	}
	return "", "", "", fmt.Errorf("mods: unsupported engine '%s'", engine)
}

func mass(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

func signed(m float64) string {
	if m >= 0 {
		return "+" + mass(m)
	}
	return mass(m)
}

const (
	tandemProtN    = "protein, N-terminal residue modification mass"
	tandemProtC    = "protein, C-terminal residue modification mass"
	tandemRefineN  = "refine, potential N-terminus modifications"
	tandemRefineC  = "refine, potential C-terminus modifications"
	tandemNoteTmpl = `<note type="input" label="%s">%s</note>`
)

func xtandem(smods, vmods []Mod) (st, va, term string) {
	sites := func(m Mod) []string {
		switch m.Kind {
		case NTerm:
			return []string{mass(m.Mass) + "@["}
		case CTerm:
			return []string{mass(m.Mass) + "@]"}
		}
		var out []string
		for _, r := range m.Residues {
			out = append(out, fmt.Sprintf("%s@%c", mass(m.Mass), r))
		}
		return out
	}

	var ss, vs, notes []string
	for _, m := range smods {
		switch m.Kind {
		case ProteinNTerm:
			notes = append(notes, fmt.Sprintf(tandemNoteTmpl, tandemProtN, mass(m.Mass)))
		case ProteinCTerm:
			notes = append(notes, fmt.Sprintf(tandemNoteTmpl, tandemProtC, mass(m.Mass)))
		default:
			ss = append(ss, sites(m)...)
		}
	}
	for _, m := range vmods {
		switch m.Kind {
		case ProteinNTerm:
			notes = append(notes, fmt.Sprintf(tandemNoteTmpl, tandemRefineN, signed(m.Mass)+"@["))
		case ProteinCTerm:
			notes = append(notes, fmt.Sprintf(tandemNoteTmpl, tandemRefineC, signed(m.Mass)+"@]"))
		default:
			vs = append(vs, sites(m)...)
		}
	}
	return strings.Join(ss, ","), strings.Join(vs, ","), strings.Join(notes, "\n")
}

// Myrimatch needs a distinct character for every dynamic modification.
var myrimatchMarkers = []string{"*", "#", "@", "^", "~", "$", "%", "!", "+", "&"}

func myrimatch(smods, vmods []Mod) (st, va string, err error) {
	motif := func(m Mod) string {
		switch m.Kind {
		case NTerm, ProteinNTerm:
			return "("
		case CTerm, ProteinCTerm:
			return ")"
		}
		if len(m.Residues) > 1 {
			return "[" + m.Residues + "]"
		}
		return m.Residues
	}

	var ss, vs []string
	for _, m := range smods {
		if m.Kind != Residue {
			ss = append(ss, motif(m), mass(m.Mass))
			continue
		}
		for _, r := range m.Residues {
			ss = append(ss, string(r), mass(m.Mass))
		}
	}
	if len(vmods) > len(myrimatchMarkers) {
		return "", "", fmt.Errorf("mods: Myrimatch supports at most %d variable "+
			"modifications, got %d", len(myrimatchMarkers), len(vmods))
	}
	for i, m := range vmods {
		vs = append(vs, motif(m), myrimatchMarkers[i], mass(m.Mass))
	}
	return strings.Join(ss, " "), strings.Join(vs, " "), nil
}
