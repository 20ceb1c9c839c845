// Package searchengine holds what the database search engine wrappers have
// in common.
package searchengine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/enzyme"
	"github.com/applicake-tools/searchcake/info"
	"github.com/applicake-tools/searchcake/mods"
)

// Args returns the arguments read by every search engine.
func Args() []app.Argument {
	return []app.Argument{
		app.Arg(info.WorkDir, "Working directory"),
		app.Arg(info.MzXML, "Peak list file (mzXML)"),
		app.Arg(info.Database, "Sequence database (FASTA)"),
		app.ArgDefault(info.Threads, "Number of threads", 1),
		app.ArgDefault(info.Enzyme, "Enzyme used for digestion", "Trypsin"),
		app.ArgDefault(info.StaticMods, "Static modifications", "Carbamidomethyl (C)"),
		app.ArgDefault(info.VariableMods, "Variable modifications", "Oxidation (M)"),
		app.ArgDefault(info.PrecMassErr, "Precursor mass error", 15),
		app.ArgDefault(info.PrecMassUnit, "Precursor mass error unit (ppm, Da)", "ppm"),
		app.ArgDefault(info.FragMassErr, "Fragment mass error", 0.4),
		app.ArgDefault(info.FragMassUnit, "Fragment mass error unit (ppm, Da)", "Da"),
		app.ArgDefault(info.MissedCleavage, "Maximum number of missed cleavages", 1),
	}
}

// Translate rewrites the generic ENZYME, STATIC_MODS and VARIABLE_MODS
// entries of inf into the syntax of engine. The engine specific enzyme
// specificity is stored under specificityKey and the terminal modification
// string (if any) under "TERMINAL_MODS".
//
// inf should be a working copy: the generic values are overwritten.
func Translate(log *zap.Logger, inf info.Info, engine enzyme.Engine, specificityKey string) error {
	cleavage, specificity, err := enzyme.ToEngine(inf.Get(info.Enzyme), engine)
	if err != nil {
		return err
	}
	static, variable, terminal, err := mods.ToEngine(
		inf.Get(info.StaticMods), inf.Get(info.VariableMods), engine)
	if err != nil {
		return err
	}
	log.Debug("translated search settings",
		zap.String("engine", string(engine)),
		zap.String("enzyme", fmt.Sprintf("%s -> %s", inf.Get(info.Enzyme), cleavage)),
		zap.String("specificity", specificity),
		zap.String("static", static),
		zap.String("variable", variable))

	inf.Set(info.Enzyme, cleavage)
	inf.Set(specificityKey, specificity)
	inf.Set(info.StaticMods, static)
	inf.Set(info.VariableMods, variable)
	inf.Set("TERMINAL_MODS", terminal)
	return nil
}
