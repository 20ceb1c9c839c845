package xtandem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/app/apptest"
	"github.com/applicake-tools/searchcake/info"
	"github.com/applicake-tools/searchcake/validation"
)

func searchInfo(wd string) info.Info {
	inf := info.Info{
		info.WorkDir:      wd,
		info.MzXML:        "/data/run1.mzXML",
		info.Database:     "/data/db.fasta",
		info.Enzyme:       "Semi-Trypsin",
		info.StaticMods:   "Carbamidomethyl (C)",
		info.VariableMods: "Oxidation (M); Acetyl (Protein N-term)",
		info.FragMassUnit: "Da",
		info.Threads:      4,
		TPPDir:            "/opt/tpp/bin",
		Score:             "k-score",
	}
	return inf
}

func TestPrepare(t *testing.T) {
	wd := t.TempDir()
	inf := searchInfo(wd)
	require.NoError(t, app.Resolve(App{}.Args(), inf))

	out, commands, err := App{}.Prepare(zap.NewNop(), inf)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/opt/tpp/bin/tandem " + filepath.Join(wd, "xtandem.input"),
		"/opt/tpp/bin/Tandem2XML " + filepath.Join(wd, "xtandem.result") + " " +
			filepath.Join(wd, "xtandem.pep.xml"),
	}, commands)
	assert.Equal(t, filepath.Join(wd, "xtandem.pep.xml"), out.Get(info.PepXML))

	// Generic settings stay generic in the returned info.
	assert.Equal(t, "Semi-Trypsin", out.Get(info.Enzyme))
	assert.Equal(t, "k-score", out.Get(Score))

	params := readFile(t, filepath.Join(wd, "xtandem.params"))
	assert.Contains(t, params, `label="protein, cleavage site">[RK]|{P}</note>`)
	assert.Contains(t, params, `label="protein, cleavage semi">yes</note>`)
	assert.Contains(t, params, `label="residue, modification mass">57.021464@C</note>`)
	assert.Contains(t, params, `label="residue, potential modification mass">15.994915@M</note>`)
	assert.Contains(t, params, `label="refine, potential N-terminus modifications">+42.010565@[</note>`)
	assert.Contains(t, params, `label="refine">yes</note>`)
	assert.Contains(t, params, `label="spectrum, threads">4</note>`)
	assert.Contains(t, params, `label="spectrum, fragment monoisotopic mass error units">Daltons</note>`)
	assert.Contains(t, params, `label="spectrum, parent monoisotopic mass error units">ppm</note>`)
	assert.Contains(t, params, `<note label="scoring, algorithm" type="input">k-score</note>`)
	assert.NotContains(t, params, "$")
	assert.NoError(t, validation.WellFormed(mustOpen(t, filepath.Join(wd, "xtandem.params"))))

	taxonomy := readFile(t, filepath.Join(wd, "xtandem.taxonomy"))
	assert.Contains(t, taxonomy, `URL="/data/db.fasta"`)

	input := readFile(t, filepath.Join(wd, "xtandem.input"))
	assert.Contains(t, input, ">"+filepath.Join(wd, "xtandem.params")+"<")
	assert.Contains(t, input, `label="spectrum, path">/data/run1.mzXML<`)
	assert.NoError(t, validation.WellFormed(mustOpen(t, filepath.Join(wd, "xtandem.input"))))
}

func TestPrepareEscapesPaths(t *testing.T) {
	wd := filepath.Join(t.TempDir(), "R&D <1>")
	require.NoError(t, os.MkdirAll(wd, 0755))
	inf := searchInfo(wd)
	inf.Set(info.MzXML, "/data/a&b.mzXML")
	inf.Set(info.Database, `/data/"db"&<x>.fasta`)
	require.NoError(t, app.Resolve(App{}.Args(), inf))

	_, _, err := App{}.Prepare(zap.NewNop(), inf)
	require.NoError(t, err)

	for _, name := range []string{"xtandem.input", "xtandem.taxonomy"} {
		path := filepath.Join(wd, name)
		assert.NoError(t, validation.WellFormed(mustOpen(t, path)), name)
	}
	input := readFile(t, filepath.Join(wd, "xtandem.input"))
	assert.Contains(t, input, `label="spectrum, path">/data/a&amp;b.mzXML<`)
	assert.Contains(t, input, "R&amp;D &lt;1&gt;")
	taxonomy := readFile(t, filepath.Join(wd, "xtandem.taxonomy"))
	assert.Contains(t, taxonomy, `URL="/data/&#34;db&#34;&amp;&lt;x&gt;.fasta"`)
}

func TestPrepareBadEnzyme(t *testing.T) {
	inf := searchInfo(t.TempDir())
	inf.Set(info.Enzyme, "Papain")
	require.NoError(t, app.Resolve(App{}.Args(), inf))
	_, _, err := App{}.Prepare(zap.NewNop(), inf)
	assert.ErrorContains(t, err, "Papain")
}

func TestScoreNotes(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	assert.Empty(t, scoreNotes(log, ""))
	assert.Empty(t, scoreNotes(log, "default"))
	assert.Equal(t, `<note label="scoring, algorithm" type="input">tandem-ex</note>`,
		scoreNotes(log, "tandem-ex"))
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestValidate(t *testing.T) {
	wd := t.TempDir()
	pepxml := apptest.WriteFile(t, wd, "xtandem.pep.xml", apptest.MinimalPepXML)
	inf := info.Info{info.PepXML: pepxml}
	log := zap.NewNop()

	_, err := App{}.Validate(log, inf, 0, "Valid models = 12\n")
	assert.NoError(t, err)

	_, err = App{}.Validate(log, inf, 0, "Loading spectra\nValid models = 0\n")
	assert.ErrorIs(t, err, ErrNoValidModel)

	_, err = App{}.Validate(log, inf, 1, "")
	assert.ErrorIs(t, err, validation.ErrExitCode)

	broken := apptest.WriteFile(t, wd, "broken.pep.xml", "<msms_pipeline_analysis>")
	_, err = App{}.Validate(log, info.Info{info.PepXML: broken}, 0, "")
	assert.ErrorIs(t, err, validation.ErrNotWellFormed)
}

func TestRunWithFakeBinaries(t *testing.T) {
	bin := t.TempDir()
	fixture := apptest.WriteFile(t, bin, "fixture.pep.xml", apptest.MinimalPepXML)
	apptest.Script(t, bin, "tandem", `test -f "$1" || exit 2
echo "Valid models = 42"`)
	apptest.Script(t, bin, "Tandem2XML", `cp "`+fixture+`" "$2"`)

	wd := filepath.Join(t.TempDir(), "xtandem")
	inf := searchInfo(wd)
	inf.Set(TPPDir, bin)

	out, err := app.DefaultRunner.RunWrapped(context.Background(), App{}, inf)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "xtandem.pep.xml"), out.Get(info.PepXML))
	assert.FileExists(t, out.Get(info.PepXML))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
