/*
Package fdr converts a false discovery rate cutoff into the probability
cutoff that achieves it.

Two sources are supported. The iProphet (or PeptideProphet) ROC table in a
pepXML file gives the error rate the model expects at a series of
probability thresholds. Alternatively, a Mayu main output table estimates
PSM, peptide and protein level FDRs from target/decoy counts at a series of
iProphet probability thresholds.
*/
package fdr

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/applicake-tools/searchcake/pepxml"
)

// Type selects the FDR source.
type Type string

const (
	IProphet    Type = "iprophet-pepFDR"
	MayuPSM     Type = "mayu-mFDR"
	MayuPeptide Type = "mayu-pepFDR"
	MayuProtein Type = "mayu-protFDR"
)

// ParseType accepts the canonical type names plus the short form "iprophet".
func ParseType(s string) (Type, error) {
	switch t := Type(strings.TrimSpace(s)); t {
	case "iprophet", IProphet:
		return IProphet, nil
	case MayuPSM, MayuPeptide, MayuProtein:
		return t, nil
	}
	return "", fmt.Errorf("fdr: unknown FDR type '%s'", s)
}

// IProbForFDR returns the lowest probability whose estimated FDR does not
// exceed cutoff, together with that estimated FDR. The iProphet type reads
// pepXML; the Mayu types read mayuOut.
func IProbForFDR(cutoff float64, typ Type, mayuOut, pepXML string) (iprob, fdr float64, err error) {
	switch typ {
	case IProphet:
		if len(pepXML) == 0 {
			return 0, 0, fmt.Errorf("fdr: %s requires a pepXML file", typ)
		}
		sum, err := pepxml.ReadSummary(pepXML)
		if err != nil {
			return 0, 0, err
		}
		return fromROC(sum.ROC, cutoff)
	case MayuPSM, MayuPeptide, MayuProtein:
		if len(mayuOut) == 0 {
			return 0, 0, fmt.Errorf("fdr: %s requires a Mayu output file", typ)
		}
		f, err := os.Open(mayuOut)
		if err != nil {
			return 0, 0, err
		}
		defer f.Close()

		iprob, fdr, err := fromMayu(f, typ, cutoff)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: %w", mayuOut, err)
		}
		return iprob, fdr, nil
	}
	return 0, 0, fmt.Errorf("fdr: unknown FDR type '%s'", typ)
}

func fromROC(points []pepxml.ROCPoint, cutoff float64) (iprob, fdr float64, err error) {
	found := false
	for _, p := range points {
		if p.Error > cutoff {
			continue
		}
		if !found || p.MinProb < iprob {
			iprob, fdr, found = p.MinProb, p.Error, true
		}
	}
	if !found {
		return 0, 0, fmt.Errorf("fdr: no ROC point with error <= %g", cutoff)
	}
	return iprob, fdr, nil
}

// Mayu column names for each type: the FDR column and the target count used
// to pick the most sensitive threshold.
var mayuColumns = map[Type][2]string{
	MayuPSM:     {"mFDR", "target_PSM"},
	MayuPeptide: {"pepFDR", "target_pepID"},
	MayuProtein: {"protFDR", "target_protID"},
}

const mayuProbColumn = "IP/PPs"

func fromMayu(r io.Reader, typ Type, cutoff float64) (iprob, fdr float64, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return 0, 0, err
	}
	if len(records) < 2 {
		return 0, 0, fmt.Errorf("fdr: Mayu table has no rows")
	}

	col := make(map[string]int)
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	probIdx, ok := col[mayuProbColumn]
	if !ok {
		return 0, 0, fmt.Errorf("fdr: Mayu table has no '%s' column", mayuProbColumn)
	}
	fdrIdx, ok := col[mayuColumns[typ][0]]
	if !ok {
		return 0, 0, fmt.Errorf("fdr: Mayu table has no '%s' column", mayuColumns[typ][0])
	}
	targetIdx, hasTarget := col[mayuColumns[typ][1]]

	field := func(rec []string, i int) (float64, error) {
		if i >= len(rec) {
			return 0, fmt.Errorf("fdr: short Mayu row %v", rec)
		}
		return strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
	}

	found := false
	bestTargets := -1.0
	for _, rec := range records[1:] {
		p, err := field(rec, probIdx)
		if err != nil {
			return 0, 0, err
		}
		f, err := field(rec, fdrIdx)
		if err != nil {
			return 0, 0, err
		}
		if f > cutoff {
			continue
		}
		targets := 0.0
		if hasTarget {
			if targets, err = field(rec, targetIdx); err != nil {
				return 0, 0, err
			}
		}
		better := !found || targets > bestTargets ||
			(targets == bestTargets && p < iprob)
		if better {
			iprob, fdr, bestTargets, found = p, f, targets, true
		}
	}
	if !found {
		return 0, 0, fmt.Errorf("fdr: no Mayu row with %s <= %g", mayuColumns[typ][0], cutoff)
	}
	return iprob, fdr, nil
}
