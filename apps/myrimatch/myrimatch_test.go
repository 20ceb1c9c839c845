package myrimatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/app/apptest"
	"github.com/applicake-tools/searchcake/info"
	"github.com/applicake-tools/searchcake/validation"
)

func searchInfo(wd string) info.Info {
	return info.Info{
		info.WorkDir:      wd,
		info.MzXML:        "/data/B08-02057.mzXML",
		info.Database:     "/data/db.fasta",
		info.Enzyme:       "Trypsin/P",
		info.StaticMods:   "Carbamidomethyl (C)",
		info.VariableMods: "Oxidation (M); Phospho (STY)",
		info.Threads:      8,
		info.FragMassUnit: "Da",
		info.PrecMassUnit: "ppm",
	}
}

func TestPrepare(t *testing.T) {
	wd := t.TempDir()
	inf := searchInfo(wd)
	require.NoError(t, app.Resolve(App{}.Args(), inf))

	out, commands, err := App{}.Prepare(zap.NewNop(), inf)
	require.NoError(t, err)

	cfg := filepath.Join(wd, "myrimatch.cfg")
	assert.Equal(t, []string{
		"myrimatch -cpus 8 -cfg " + cfg + " -workdir " + wd +
			" -ProteinDatabase /data/db.fasta /data/B08-02057.mzXML",
	}, commands)
	assert.Equal(t, filepath.Join(wd, "B08-02057.pepXML"), out.Get(info.PepXML))
	assert.Equal(t, "Trypsin/P", out.Get(info.Enzyme))
	assert.Equal(t, "Da", out.Get(info.FragMassUnit))

	b, err := os.ReadFile(cfg)
	require.NoError(t, err)
	got := string(b)
	assert.Contains(t, got, `CleavageRules = "Trypsin/P"`)
	assert.Contains(t, got, "MinTerminiCleavages = 2\n")
	assert.Contains(t, got, `StaticMods = "C 57.021464"`)
	assert.Contains(t, got, `DynamicMods = "M * 15.994915 [STY] # 79.966331"`)
	assert.Contains(t, got, "FragmentMzTolerance = 0.4 daltons\n")
	assert.Contains(t, got, "MonoPrecursorMzTolerance = 15 ppm\n")
	assert.Contains(t, got, "MaxMissedCleavages = 1\n")
	assert.NotContains(t, got, "$")
}

func TestPrepareWithDir(t *testing.T) {
	inf := searchInfo(t.TempDir())
	inf.Set(Dir, "/opt/bumbershoot")
	require.NoError(t, app.Resolve(App{}.Args(), inf))

	_, commands, err := App{}.Prepare(zap.NewNop(), inf)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Regexp(t, `^/opt/bumbershoot/myrimatch -cpus 8 `, commands[0])
}

func TestValidateStripsNativeIDs(t *testing.T) {
	wd := t.TempDir()
	path := apptest.WriteFile(t, wd, "run1.pepXML", apptest.MinimalPepXML)
	inf := info.Info{info.PepXML: path}

	_, err := App{}.Validate(zap.NewNop(), inf, 0, "")
	require.NoError(t, err)

	fixed, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(fixed), "spectrumNativeID")
	assert.Contains(t, string(fixed), `spectrum="run1.00010.00010.2"`)
	assert.NoError(t, validation.CheckXML(zap.NewNop(), path))

	orig, err := os.ReadFile(path + ".broken")
	require.NoError(t, err)
	assert.Equal(t, apptest.MinimalPepXML, string(orig))
}

func TestValidateFailures(t *testing.T) {
	wd := t.TempDir()
	log := zap.NewNop()

	_, err := App{}.Validate(log, info.Info{info.PepXML: filepath.Join(wd, "x.pepXML")}, 1, "")
	assert.ErrorIs(t, err, validation.ErrExitCode)

	_, err = App{}.Validate(log, info.Info{info.PepXML: filepath.Join(wd, "x.pepXML")}, 0, "")
	assert.ErrorIs(t, err, validation.ErrMissingFile)
}

func TestRunWithFakeBinary(t *testing.T) {
	bin := t.TempDir()
	fixture := apptest.WriteFile(t, bin, "fixture.pepXML", apptest.MinimalPepXML)
	// myrimatch -cpus N -cfg CFG -workdir WD -ProteinDatabase DB MZXML
	apptest.Script(t, bin, "myrimatch", `test -f "$4" || exit 2
cp "`+fixture+`" "$6/run1.pepXML"`)

	wd := filepath.Join(t.TempDir(), "myrimatch")
	inf := searchInfo(wd)
	inf.Set(info.MzXML, "/data/run1.mzXML")
	inf.Set(Dir, bin)

	out, err := app.DefaultRunner.RunWrapped(context.Background(), App{}, inf)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "run1.pepXML"), out.Get(info.PepXML))
	assert.FileExists(t, filepath.Join(wd, "run1.pepXML.broken"))
}
