/*
Package enzyme translates a generic enzyme name into the cleavage syntax of
a particular search engine.

Generic names are matched case insensitively, and '-', '_' and ' ' are
interchangeable, so "Lys-C", "lys_c" and "Lys C" all refer to the same
enzyme. Any name may be prefixed with "Semi-" to request semi-specific
digestion (only one terminus of a peptide has to follow the rule).

The engines disagree on how specificity is expressed. X!Tandem takes a
cleavage site rule plus a separate 'yes'/'no' semi-cleavage flag, while
Myrimatch takes a rule name plus the minimum number of termini that must
match the rule. ToEngine returns both parts and leaves it to the caller to
put them where the engine wants them.
*/
package enzyme

import (
	"fmt"
	"sort"
	"strings"
)

// Engine names a search engine with its own configuration syntax.
type Engine string

const (
	XTandem   Engine = "XTandem"
	Myrimatch Engine = "Myrimatch"
)

type rule struct {
	name      string
	xtandem   string
	myrimatch string

	// Nonspecific enzymes have no termini to match.
	nonspecific bool
}

var rules = []rule{
	{name: "Trypsin", xtandem: "[RK]|{P}", myrimatch: "Trypsin"},
	{name: "Trypsin/P", xtandem: "[RK]|[X]", myrimatch: "Trypsin/P"},
	{name: "Lys_C", xtandem: "[K]|{P}", myrimatch: "Lys-C"},
	{name: "Lys_C/P", xtandem: "[K]|[X]", myrimatch: "Lys-C/P"},
	{name: "Lys_N", xtandem: "[X]|[K]", myrimatch: "Lys-N"},
	{name: "Arg_C", xtandem: "[R]|{P}", myrimatch: "Arg-C"},
	{name: "Asp_N", xtandem: "[X]|[D]", myrimatch: "Asp-N"},
	{name: "Glu_C", xtandem: "[DE]|{P}", myrimatch: "Glu-C"},
	{name: "Chymotrypsin", xtandem: "[FYWL]|{P}", myrimatch: "Chymotrypsin"},
	{name: "CNBr", xtandem: "[M]|[X]", myrimatch: "CNBr"},
	{name: "PepsinA", xtandem: "[FL]|[X]", myrimatch: "PepsinA"},
	{name: "Nonspecific", xtandem: "[X]|[X]", myrimatch: "unspecific cleavage",
		nonspecific: true},
}

var aliases = map[string]string{
	"tryptic":      "trypsin",
	"no_enzyme":    "nonspecific",
	"noenzyme":     "nonspecific",
	"unspecific":   "nonspecific",
	"non_specific": "nonspecific",
}

// Names returns the generic enzyme names understood by ToEngine, sorted.
func Names() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	sort.Strings(names)
	return names
}

// ToEngine translates the generic enzyme name into the cleavage rule and
// specificity setting of engine.
//
// For XTandem, specificity is the semi-cleavage flag ("yes" or "no").
// For Myrimatch, specificity is MinTerminiCleavages ("2", "1" or "0").
func ToEngine(name string, engine Engine) (cleavage, specificity string, err error) {
	r, semi, err := lookup(name)
	if err != nil {
		return "", "", err
	}
	switch engine {
	case XTandem:
		if semi && !r.nonspecific {
			return r.xtandem, "yes", nil
		}
		return r.xtandem, "no", nil
	case Myrimatch:
		switch {
		case r.nonspecific:
			return r.myrimatch, "0", nil
		case semi:
			return r.myrimatch, "1", nil
		}
		return r.myrimatch, "2", nil
	}
	return "", "", fmt.Errorf("enzyme: unsupported engine '%s'", engine)
}

func lookup(name string) (r rule, semi bool, err error) {
	key := normalize(name)
	for _, prefix := range []string{"semi_", "semi"} {
		if strings.HasPrefix(key, prefix) && len(key) > len(prefix) {
			key = key[len(prefix):]
			semi = true
			break
		}
	}
	if canon, ok := aliases[key]; ok {
		key = canon
	}
	for _, r := range rules {
		if normalize(r.name) == key {
			return r, semi, nil
		}
	}
	return rule{}, false, fmt.Errorf("enzyme: unknown enzyme '%s' (known: %s)",
		name, strings.Join(Names(), ", "))
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_").Replace(name)
}
