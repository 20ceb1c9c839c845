/*
Package xtandem wraps the X!Tandem search engine together with the
Tandem2XML converter that turns its native output into pepXML.

X!Tandem reads a small input file pointing at a parameter file, a taxonomy
file (which in turn points at the sequence database) and the spectra.
Prepare writes all three into WORKDIR:

	xtandem.params     rendered from the embedded template
	xtandem.taxonomy   maps the taxon 'database' to DBASE
	xtandem.input      ties everything together

The executables are resolved relative to TPPDIR, which may be left empty if
they are in your PATH.
*/
package xtandem

import (
	_ "embed"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/apps/searchengine"
	"github.com/applicake-tools/searchcake/enzyme"
	"github.com/applicake-tools/searchcake/info"
	"github.com/applicake-tools/searchcake/tpl"
	"github.com/applicake-tools/searchcake/validation"
)

//go:embed xtandem.params
var paramsTemplate string

const (
	TPPDir        = "TPPDIR"
	TandemExe     = "TANDEM_EXE"
	Tandem2XMLExe = "TANDEM2XML_EXE"
	Score         = "XTANDEM_SCORE"

	semiCleavage = "XTANDEM_SEMI_CLEAVAGE"
	refine       = "XTANDEM_REFINE"
)

// ErrNoValidModel is returned when X!Tandem could not fit a single
// expectation value model, which means it found no usable spectra.
var ErrNoValidModel = errors.New("no valid model found")

// App is the X!Tandem wrapper. Its zero value is ready to use.
type App struct{}

func (App) Args() []app.Argument {
	args := searchengine.Args()
	return append(args,
		app.ArgDefault(TPPDir, "Path to the TPP binaries", ""),
		app.ArgDefault(TandemExe, "X!Tandem executable", "tandem"),
		app.ArgDefault(Tandem2XMLExe, "Tandem2XML executable", "Tandem2XML"),
		app.ArgOptional(Score, "Scoring algorithm used in the search"),
	)
}

// Prepare writes the X!Tandem input files and returns the search and
// conversion commands. The returned info carries the future pepXML path.
func (App) Prepare(log *zap.Logger, inf info.Info) (info.Info, []string, error) {
	wd := inf.Get(info.WorkDir)

	// Engine specific rewrites go into a working copy only.
	work := inf.Copy()
	work.Set(Score, scoreNotes(log, inf.Get(Score)))
	if err := searchengine.Translate(log, work, enzyme.XTandem, semiCleavage); err != nil {
		return nil, nil, err
	}
	work.Set(refine, "no")
	if strings.Contains(work.Get("TERMINAL_MODS"), "refine, potential") {
		work.Set(refine, "yes")
	}
	for _, key := range []string{info.PrecMassUnit, info.FragMassUnit} {
		if strings.EqualFold(work.Get(key), "Da") {
			work.Set(key, "Daltons")
		}
	}

	params := filepath.Join(wd, "xtandem.params")
	taxonomy := filepath.Join(wd, "xtandem.taxonomy")
	input := filepath.Join(wd, "xtandem.input")
	result := filepath.Join(wd, "xtandem.result")
	pepxml := filepath.Join(wd, "xtandem.pep.xml")

	if err := tpl.RenderFile(paramsTemplate, work, params); err != nil {
		return nil, nil, err
	}
	if err := writeTaxonomy(taxonomy, work.Get(info.Database)); err != nil {
		return nil, nil, err
	}
	if err := writeInput(input, params, result, taxonomy, work.Get(info.MzXML)); err != nil {
		return nil, nil, err
	}

	tpp := inf.Get(TPPDir)
	commands := []string{
		fmt.Sprintf("%s %s",
			app.Quote(filepath.Join(tpp, inf.Get(TandemExe))), app.Quote(input)),
		fmt.Sprintf("%s %s %s",
			app.Quote(filepath.Join(tpp, inf.Get(Tandem2XMLExe))),
			app.Quote(result), app.Quote(pepxml)),
	}
	inf.Set(info.PepXML, pepxml)
	return inf, commands, nil
}

// Validate fails if the tools failed, if X!Tandem reports that no valid
// model could be fit, or if the pepXML is not well-formed.
func (App) Validate(log *zap.Logger, inf info.Info, exitCode int, output string) (info.Info, error) {
	if err := validation.CheckExitcode(log, exitCode); err != nil {
		return nil, err
	}
	if line, ok := validation.FindPhrase(output, "Valid models = 0"); ok {
		log.Error("X!Tandem found no valid model", zap.String("line", line))
		return nil, ErrNoValidModel
	}
	if err := validation.CheckXML(log, inf.Get(info.PepXML)); err != nil {
		return nil, err
	}
	return inf, nil
}

// scoreNotes returns the parameter notes selecting the scoring algorithm.
// The native score needs no notes at all.
func scoreNotes(log *zap.Logger, score string) string {
	const algorithm = `<note label="scoring, algorithm" type="input">%s</note>`
	switch score {
	case "":
		log.Info("no score given, using default score")
		return ""
	case "default":
		log.Info("using default score")
		return ""
	case "k-score":
		log.Info("using k-score")
		return fmt.Sprintf(algorithm, score) +
			`<note label="spectrum, use conditioning" type="input">no</note>` +
			`<note label="scoring, minimum ion count" type="input">1</note>`
	}
	log.Warn("using special score", zap.String("score", score))
	return fmt.Sprintf(algorithm, score)
}

func writeTaxonomy(path, dbase string) error {
	const doc = "<?xml version=\"1.0\"?>\n<bioml>\n" +
		"<taxon label=\"database\"><file format=\"peptide\" URL=\"%s\"/></taxon>\n" +
		"</bioml>"
	return os.WriteFile(path, []byte(fmt.Sprintf(doc, escape(dbase))), 0644)
}

func writeInput(path, params, result, taxonomy, mzxml string) error {
	const doc = "<?xml version=\"1.0\"?>\n" +
		"<bioml>\n" +
		"<note type=\"input\" label=\"list path, default parameters\">%s</note>\n" +
		"<note type=\"input\" label=\"output, xsl path\" />\n" +
		"<note type=\"input\" label=\"output, path\">%s</note>\n" +
		"<note type=\"input\" label=\"list path, taxonomy information\">%s</note>\n" +
		"<note type=\"input\" label=\"spectrum, path\">%s</note>\n" +
		"<note type=\"input\" label=\"protein, taxon\">database</note>\n" +
		"</bioml>\n"
	return os.WriteFile(path,
		[]byte(fmt.Sprintf(doc,
		escape(params), escape(result), escape(taxonomy), escape(mzxml))), 0644)
}

// escape makes a path safe for XML text and attribute values.
func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
