// Package pepxml2csv flattens an iProphet pepXML into tab separated tables
// for downstream statistics: one row per non-decoy spectrum with its top
// hit, and the probability to error mapping of the iProphet model.
package pepxml2csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/app"
	"github.com/applicake-tools/searchcake/info"
	"github.com/applicake-tools/searchcake/pepxml"
)

const (
	// Keys written by Run.
	PepCSV      = "PEPCSV"
	PepCSVError = "PEPCSVERROR"
)

const decoyMarker = "DECOY"

var (
	PeptideHeader = []string{
		"spectrum", "assumed_charge", "retention_time_sec", "nrhit",
		"modified_peptide", "search_hit", "iprophet_probability",
		"protein_id", "nrproteins",
	}
	ErrorHeader = []string{"min_prob", "error", "sensitivity", "num_corr", "num_incorr"}
)

type App struct{}

func (App) Args() []app.Argument {
	return []app.Argument{
		app.Arg(info.WorkDir, "Working directory"),
		app.Arg(info.PepXML, "iProphet pepXML"),
	}
}

func (App) Run(log *zap.Logger, inf info.Info) (info.Info, error) {
	in := inf.Get(info.PepXML)
	wd := inf.Get(info.WorkDir)
	peptides := filepath.Join(wd, "ipeptide.tsvh")
	errs := filepath.Join(wd, "error.tsvh")

	rows, err := writeTSV(peptides, func(w *csv.Writer) (int, error) {
		return WritePeptides(w, in)
	})
	if err != nil {
		return nil, err
	}
	log.Info("wrote peptide table", zap.String("path", peptides), zap.Int("rows", rows))

	if _, err := writeTSV(errs, func(w *csv.Writer) (int, error) {
		return WriteErrors(w, in)
	}); err != nil {
		return nil, err
	}

	inf.Set(PepCSV, peptides)
	inf.Set(PepCSVError, errs)
	return inf, nil
}

func writeTSV(path string, fill func(w *csv.Writer) (int, error)) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if n, err = fill(w); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	w.Flush()
	return n, w.Error()
}

// WritePeptides writes the header and one row per spectrum query of the
// pepXML file at path whose top hit is not a decoy. It returns the number
// of rows written, header excluded.
func WritePeptides(w *csv.Writer, path string) (int, error) {
	if err := w.Write(PeptideHeader); err != nil {
		return 0, err
	}
	rows := 0
	err := pepxml.ForEach(path, func(q *pepxml.SpectrumQuery) error {
		hits := q.Hits()
		if len(hits) == 0 || strings.Contains(hits[0].Protein, decoyMarker) {
			return nil
		}
		rows++
		return w.Write(peptideRow(q, hits))
	})
	return rows, err
}

func peptideRow(q *pepxml.SpectrumQuery, hits []pepxml.SearchHit) []string {
	top := hits[0]
	prob := ""
	if p, ok := top.Probability(pepxml.InterProphet); ok {
		prob = formatFloat(p)
	}
	return []string{
		q.Spectrum,
		strconv.Itoa(q.AssumedCharge),
		formatFloat(q.RetentionTimeSec),
		strconv.Itoa(len(hits)),
		top.ModifiedPeptide(),
		top.Peptide,
		prob,
		top.Protein,
		strconv.Itoa(len(top.Proteins())),
	}
}

// WriteErrors writes the ROC table of the model summary in the pepXML file
// at path, one row per probability threshold.
func WriteErrors(w *csv.Writer, path string) (int, error) {
	sum, err := pepxml.ReadSummary(path)
	if err != nil {
		return 0, err
	}
	if err := w.Write(ErrorHeader); err != nil {
		return 0, err
	}
	for _, p := range sum.ROC {
		err := w.Write([]string{
			formatFloat(p.MinProb),
			formatFloat(p.Error),
			formatFloat(p.Sensitivity),
			formatFloat(p.NumCorr),
			formatFloat(p.NumIncorr),
		})
		if err != nil {
			return 0, err
		}
	}
	return len(sum.ROC), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
