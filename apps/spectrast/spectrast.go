/*
Package spectrast builds a consensus spectral library with SpectraST from
an iProphet pepXML, optionally normalizing retention times to iRT.

Two SpectraST runs are chained. The first imports every identification
whose probability passes the FDR cutoff into WORKDIR/RTcalib.splib (fitting
the iRT regression per MS run when RUNRT is set); the second collapses
replicate spectra into WORKDIR/consensus.splib.

SpectraST does not treat a failed iRT calibration as an error, so when
RUNRT is set Validate reads both the library and the SpectraST log looking
for runs that were imported without iRT values.
*/
package spectrast

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/fdr"
	"github.com/applicake-tools/searchcake/info"
	"github.com/applicake-tools/searchcake/validation"
)

const (
	TPPDir        = "TPPDIR"
	Exe           = "SPECTRAST_EXE"
	MayuOut       = "MAYUOUT"
	FDRType       = "FDR_TYPE"
	FDRCutoff     = "FDR_CUTOFF"
	RunRT         = "RUNRT"
	RSqThreshold  = "RSQ_THRESHOLD"
	RTKit         = "RTKIT"
	MSType        = "MS_TYPE"
	ConsensusType = "CONSENSUS_TYPE"

	// Keys written by Prepare.
	Log   = "SPLOG"
	Lib   = "SPLIB"
	IProb = "IPROB"
	FDR   = "FDR"
)

var (
	ErrIRTCalibration = errors.New("error in iRT calibration")
	ErrFinishedBadly  = errors.New("SpectraST finished with some error")
)

type App struct{}

func (App) Args() []app.Argument {
	return []app.Argument{
		app.Arg(info.WorkDir, "Working directory"),
		app.Arg(info.MzXML, "Peak list file(s) the pepXML refers to"),
		app.Arg(info.PepXML, "iProphet pepXML"),
		app.ArgDefault(TPPDir, "Path to the TPP binaries", ""),
		app.ArgDefault(Exe, "SpectraST executable", "spectrast"),
		app.ArgOptional(MayuOut, "Mayu main output CSV"),
		app.ArgDefault(FDRType, "Type of FDR: iprophet, mayu-mFDR, mayu-pepFDR or mayu-protFDR", "iprophet"),
		app.ArgDefault(FDRCutoff, "Cutoff for FDR", 0.1),
		app.ArgDefault(RunRT, "Activate iRT calibration", "False"),
		app.ArgDefault(RSqThreshold, "R-squared threshold to accept a linear regression", 0.9),
		app.ArgOptional(RTKit, "RT kit (file) with iRT peptides"),
		app.Arg(MSType, "MS instrument type (e.g., CID-QTOF, HCD)"),
		app.ArgDefault(ConsensusType, "Consensus type: consensus or best replicate", "consensus"),
	}
}

func (App) Prepare(log *zap.Logger, inf info.Info) (info.Info, []string, error) {
	wd := inf.Get(info.WorkDir)
	pepxml := inf.Get(info.PepXML)

	// SpectraST looks for the spectra next to the pepXML.
	peplink, err := linkInto(log, wd, pepxml)
	if err != nil {
		return nil, nil, err
	}
	for _, mzxml := range inf.GetList(info.MzXML) {
		if _, err := linkInto(log, wd, mzxml); err != nil {
			return nil, nil, err
		}
	}

	typ, err := fdr.ParseType(inf.Get(FDRType))
	if err != nil {
		return nil, nil, err
	}
	cutoff, err := inf.GetFloat(FDRCutoff)
	if err != nil {
		return nil, nil, err
	}
	iprob, fdrAt, err := fdr.IProbForFDR(cutoff, typ, inf.Get(MayuOut), pepxml)
	if err != nil {
		return nil, nil, err
	}
	log.Info("probability cutoff", zap.Float64("iprob", iprob), zap.Float64("fdr", fdrAt))
	inf.Set(IProb, iprob)
	inf.Set(FDR, fdrAt)

	rtcorrect := ""
	if inf.GetBool(RunRT) {
		kit := inf.Get(RTKit)
		if len(kit) == 0 {
			return nil, nil, fmt.Errorf("%s is set but no %s was given", RunRT, RTKit)
		}
		rtcorrect = "-c_IRT" + app.Quote(kit) + " -c_IRR"
	}

	var consensus string
	switch strings.ToLower(strings.TrimSpace(inf.Get(ConsensusType))) {
	case "consensus":
		consensus = "C"
	case "best replicate", "best_replicate":
		consensus = "B"
	default:
		return nil, nil, fmt.Errorf("unknown %s '%s'", ConsensusType, inf.Get(ConsensusType))
	}

	splog := filepath.Join(wd, "spectrast.log")
	rtcalibBase := filepath.Join(wd, "RTcalib")
	consensusBase := filepath.Join(wd, "consensus")
	inf.Set(Log, splog)
	inf.Set(Lib, consensusBase+".splib")

	exe := app.Quote(filepath.Join(inf.Get(TPPDir), inf.Get(Exe)))
	importCmd := []string{
		exe,
		"-L" + app.Quote(splog),
		"-c_RDYDECOY",
		"-cI" + app.Quote(inf.Get(MSType)),
		"-cP" + strconv.FormatFloat(iprob, 'f', -1, 64),
	}
	if len(rtcorrect) > 0 {
		importCmd = append(importCmd, rtcorrect)
	}
	importCmd = append(importCmd, "-cN"+app.Quote(rtcalibBase), app.Quote(peplink))

	consensusCmd := []string{
		exe,
		"-L" + app.Quote(splog),
		"-c_BIN!",
		"-cA" + consensus,
		"-cN" + app.Quote(consensusBase),
		app.Quote(rtcalibBase + ".splib"),
	}
	return inf, []string{strings.Join(importCmd, " "), strings.Join(consensusCmd, " ")}, nil
}

// linkInto symlinks path into dir unless it is already there, and returns
// the path inside dir.
func linkInto(log *zap.Logger, dir, path string) (string, error) {
	link := filepath.Join(dir, filepath.Base(path))
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if absLink, err := filepath.Abs(link); err == nil && absLink == abs {
		return link, nil
	}
	if _, err := os.Lstat(link); err == nil {
		log.Debug("link exists", zap.String("link", link))
		return link, nil
	}
	log.Debug("create symlink", zap.String("target", abs), zap.String("link", link))
	if err := os.Symlink(abs, link); err != nil {
		return "", err
	}
	return link, nil
}

func (App) Validate(log *zap.Logger, inf info.Info, exitCode int, output string) (info.Info, error) {
	if inf.GetBool(RunRT) {
		if err := checkIRT(log, inf); err != nil {
			return nil, err
		}
	}
	if !strings.Contains(output, " without error.") {
		log.Error("SpectraST did not report success")
		return nil, ErrFinishedBadly
	}
	if err := validation.CheckExitcode(log, exitCode); err != nil {
		return nil, err
	}
	if err := validation.CheckFile(log, inf.Get(Lib)); err != nil {
		return nil, err
	}
	return inf, nil
}

var (
	rawSpectrum = regexp.MustCompile(`RawSpectrum=([^.]*)\.`)
	rsquared    = regexp.MustCompile(`R\^2 = ([-+0-9.eE]+)`)
)

// checkIRT reports every problem with the iRT calibration at once.
func checkIRT(log *zap.Logger, inf info.Info) error {
	threshold, err := inf.GetFloat(RSqThreshold)
	if err != nil {
		return err
	}
	var problems error

	// Runs without enough iRT peptides are imported anyway, but their
	// library entries lack an iRT value.
	var missing []string
	seen := make(map[string]bool)
	err = eachLine(inf.Get(Lib), func(line string) {
		if !strings.Contains(line, "Comment:") || strings.Contains(line, "iRT=") {
			return
		}
		m := rawSpectrum.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		missing = append(missing, m[1])
	})
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		log.Error("no/not enough iRT peptides found", zap.Strings("samples", missing))
		problems = multierr.Append(problems,
			fmt.Errorf("no/not enough iRT peptides found in sample(s): %s",
				strings.Join(missing, ", ")))
	}

	// A log looks like this when the fit is poor (the third line only
	// appears below R^2 = 0.9):
	//
	// PEPXML IMPORT: RT normalization by linear regression. Found 10 landmarks in MS run "CHLUD_L110830_21".
	// PEPXML_IMPORT: Final fitted equation: iRT = (rRT - 1758) / (8.627); R^2 = 0.5698; 5 outliers removed.
	// ERROR PEPXML_IMPORT: R^2 still too low at required coverage. No RT normalization performed.
	var prev string
	err = eachLine(inf.Get(Log), func(line string) {
		if strings.Contains(line, "Cannot read landmark table") {
			log.Error("problem reading RT kit", zap.String("rtkit", inf.Get(RTKit)))
			problems = multierr.Append(problems,
				fmt.Errorf("could not read RT kit file %s", inf.Get(RTKit)))
		}
		if !strings.Contains(line, "Final fitted equation:") {
			prev = line
			return
		}
		sample := lastField(prev)
		m := rsquared.FindStringSubmatch(line)
		if m == nil {
			problems = multierr.Append(problems,
				fmt.Errorf("no R^2 in fitted equation for %s", sample))
			return
		}
		rsq, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			problems = multierr.Append(problems,
				fmt.Errorf("bad R^2 '%s' for %s", m[1], sample))
			return
		}
		if rsq < threshold {
			log.Error("R^2 below threshold", zap.Float64("rsq", rsq),
				zap.Float64("threshold", threshold), zap.String("sample", sample))
			problems = multierr.Append(problems,
				fmt.Errorf("R^2 of %g is below threshold of %g for %s", rsq, threshold, sample))
		} else {
			log.Debug("R^2 OK", zap.Float64("rsq", rsq), zap.String("sample", sample))
		}
	})
	if err != nil {
		return err
	}
	if problems != nil {
		return fmt.Errorf("%w: %w", ErrIRTCalibration, problems)
	}
	return nil
}

func lastField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], `".`)
}

// eachLine calls fn for every line in path without its line terminator.
// Library comment lines can be very long, so no line length limit applies.
func eachLine(path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
