// Package myrimatch wraps the Myrimatch search engine.
//
// Myrimatch names its pepXML output after the input spectra with a
// '.pepXML' extension (not '.pep.xml'), and writes spectrumNativeID
// attributes that several TPP tools fail to parse. Validate rewrites the
// result without them and keeps the original next to it as '.broken'.
package myrimatch

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/apps/searchengine"
	"github.com/applicake-tools/searchcake/enzyme"
	"github.com/applicake-tools/searchcake/info"
	"github.com/applicake-tools/searchcake/pepxml"
	"github.com/applicake-tools/searchcake/tpl"
	"github.com/applicake-tools/searchcake/validation"
)

//go:embed myrimatch.cfg
var cfgTemplate string

const (
	Dir = "MYRIMATCH_DIR"
	Exe = "MYRIMATCH_EXE"

	minTermini = "MYRIMATCH_MINTERMINICLEAVAGES"
)

type App struct{}

func (App) Args() []app.Argument {
	return append(searchengine.Args(),
		app.ArgDefault(Dir, "Directory containing the Myrimatch executable", ""),
		app.ArgDefault(Exe, "Myrimatch executable", "myrimatch"),
	)
}

func (App) Prepare(log *zap.Logger, inf info.Info) (info.Info, []string, error) {
	wd := inf.Get(info.WorkDir)
	mzxml := inf.Get(info.MzXML)
	base := strings.TrimSuffix(filepath.Base(mzxml), filepath.Ext(mzxml))
	inf.Set(info.PepXML, filepath.Join(wd, base+".pepXML"))

	work := inf.Copy()
	if err := searchengine.Translate(log, work, enzyme.Myrimatch, minTermini); err != nil {
		return nil, nil, err
	}
	for _, key := range []string{info.PrecMassUnit, info.FragMassUnit} {
		if strings.EqualFold(work.Get(key), "Da") {
			work.Set(key, "daltons")
		}
	}

	cfg := filepath.Join(wd, "myrimatch.cfg")
	if err := tpl.RenderFile(cfgTemplate, work, cfg); err != nil {
		return nil, nil, err
	}

	command := fmt.Sprintf("%s -cpus %s -cfg %s -workdir %s -ProteinDatabase %s %s",
		app.Quote(filepath.Join(inf.Get(Dir), inf.Get(Exe))),
		app.Quote(inf.Get(info.Threads)),
		app.Quote(cfg),
		app.Quote(wd),
		app.Quote(inf.Get(info.Database)),
		app.Quote(mzxml))
	return inf, []string{command}, nil
}

func (App) Validate(log *zap.Logger, inf info.Info, exitCode int, output string) (info.Info, error) {
	if err := validation.CheckExitcode(log, exitCode); err != nil {
		return nil, err
	}
	path := inf.Get(info.PepXML)
	if err := validation.CheckXML(log, path); err != nil {
		return nil, err
	}
	if err := stripNativeIDs(path); err != nil {
		return nil, fmt.Errorf("could not rewrite '%s': %w", path, err)
	}
	log.Info("removed spectrumNativeID attributes", zap.String("pepxml", path))
	return inf, nil
}

func stripNativeIDs(path string) error {
	broken := path + ".broken"
	if err := os.Rename(path, broken); err != nil {
		return err
	}
	in, err := os.Open(broken)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pepxml.StripNativeID(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
