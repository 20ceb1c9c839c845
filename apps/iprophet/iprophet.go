// Package iprophet wraps InterProphetParser from the Trans-Proteomic
// Pipeline, which combines the PeptideProphet results of several searches
// into a single iProphet pepXML.
package iprophet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/info"
	"github.com/applicake-tools/searchcake/validation"
)

const (
	TPPDir = "TPPDIR"
	Exe    = "IPROPHET_EXE"
	Params = "IPROPHET_ARGS"
)

var (
	// ErrTooFewPeptides is returned when InterProphetParser dies with
	// signal 8, which in practice means the preceding search found too few
	// peptides to fit its models.
	ErrTooFewPeptides = errors.New("iProphet failed, most probably because " +
		"too few peptides were found in the search before")

	ErrUnreadableInput = errors.New("could not read the input file")
)

// Searches over the same spectra are laid out side by side, and a path
// containing the Comet marker has an X!Tandem sibling.
const (
	cometMarker  = "pepcomet"
	tandemMarker = "peptandem"
)

type App struct{}

func (App) Args() []app.Argument {
	return []app.Argument{
		app.Arg(info.WorkDir, "Working directory"),
		app.Arg(info.PepXML, "Input pepXML file(s)"),
		app.ArgDefault(TPPDir, "Path to the TPP binaries", ""),
		app.ArgDefault(Exe, "InterProphetParser executable", "InterProphetParser"),
		app.ArgDefault(Params, "Arguments for InterProphetParser", "MINPROB=0"),
	}
}

// Prepare builds the InterProphetParser command over every input pepXML
// plus the X!Tandem companion of each Comet result. PEPXML in the returned
// info is the combined result.
func (App) Prepare(log *zap.Logger, inf info.Info) (info.Info, []string, error) {
	inputs := Inputs(inf.GetList(info.PepXML))
	log.Info("combining pepXML files", zap.Strings("inputs", inputs))

	result := filepath.Join(inf.Get(info.WorkDir), "iprophet.pep.xml")
	quoted := make([]string, len(inputs))
	for i, in := range inputs {
		quoted[i] = app.Quote(in)
	}
	command := fmt.Sprintf("%s %s %s %s",
		app.Quote(filepath.Join(inf.Get(TPPDir), inf.Get(Exe))),
		inf.Get(Params),
		strings.Join(quoted, " "),
		app.Quote(result))

	inf.Set(info.PepXML, result)
	return inf, []string{command}, nil
}

// Inputs returns pepxmls followed by the X!Tandem companion of every Comet
// result among them. Duplicates are dropped.
func Inputs(pepxmls []string) []string {
	var inputs []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			inputs = append(inputs, path)
		}
	}
	for _, p := range pepxmls {
		add(p)
	}
	for _, p := range pepxmls {
		if strings.Contains(p, cometMarker) {
			add(strings.ReplaceAll(p, cometMarker, tandemMarker))
		}
	}
	return inputs
}

func (App) Validate(log *zap.Logger, inf info.Info, exitCode int, output string) (info.Info, error) {
	if exitCode == -8 {
		log.Error("InterProphetParser was killed by signal 8")
		return nil, ErrTooFewPeptides
	}
	if line, ok := validation.FindPhrase(output, "fin: error opening"); ok {
		log.Error("InterProphetParser could not open an input", zap.String("line", line))
		return nil, fmt.Errorf("%w: %s", ErrUnreadableInput, line)
	}
	if err := validation.CheckExitcode(log, exitCode); err != nil {
		return nil, err
	}
	if err := validation.CheckXML(log, inf.Get(info.PepXML)); err != nil {
		return nil, err
	}
	return inf, nil
}
