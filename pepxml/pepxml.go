/*
Package pepxml reads the parts of pepXML files that the apps in this module
care about: spectrum queries with their ranked search hits, and the
probability/error tables written by PeptideProphet and iProphet.

pepXML files produced by a search over a full run are routinely several
gigabytes, so spectrum queries are decoded one at a time with Reader.
*/
package pepxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// Analysis names used in analysis_result and analysis_summary elements.
const (
	PeptideProphet = "peptideprophet"
	InterProphet   = "interprophet"
)

// SpectrumQuery is one spectrum_query element.
type SpectrumQuery struct {
	Spectrum         string         `xml:"spectrum,attr"`
	NativeID         string         `xml:"spectrumNativeID,attr"`
	StartScan        int            `xml:"start_scan,attr"`
	EndScan          int            `xml:"end_scan,attr"`
	Index            int            `xml:"index,attr"`
	AssumedCharge    int            `xml:"assumed_charge,attr"`
	PrecursorMass    float64        `xml:"precursor_neutral_mass,attr"`
	RetentionTimeSec float64        `xml:"retention_time_sec,attr"`
	SearchResults    []SearchResult `xml:"search_result"`
}

// Hits returns the search hits of all search results in document order.
func (q *SpectrumQuery) Hits() []SearchHit {
	var hits []SearchHit
	for _, sr := range q.SearchResults {
		hits = append(hits, sr.Hits...)
	}
	return hits
}

type SearchResult struct {
	Hits []SearchHit `xml:"search_hit"`
}

// SearchHit is a peptide assigned to a spectrum.
type SearchHit struct {
	Rank             int                  `xml:"hit_rank,attr"`
	Peptide          string               `xml:"peptide,attr"`
	Protein          string               `xml:"protein,attr"`
	NumTotProteins   int                  `xml:"num_tot_proteins,attr"`
	CalcMass         float64              `xml:"calc_neutral_pep_mass,attr"`
	MissedCleavages  int                  `xml:"num_missed_cleavages,attr"`
	ModificationInfo *ModificationInfo    `xml:"modification_info"`
	Alternatives     []AlternativeProtein `xml:"alternative_protein"`
	AnalysisResults  []AnalysisResult     `xml:"analysis_result"`
}

type ModificationInfo struct {
	ModifiedPeptide string `xml:"modified_peptide,attr"`
}

type AlternativeProtein struct {
	Protein string `xml:"protein,attr"`
}

type AnalysisResult struct {
	Analysis       string      `xml:"analysis,attr"`
	PeptideProphet *ProbResult `xml:"peptideprophet_result"`
	InterProphet   *ProbResult `xml:"interprophet_result"`
}

type ProbResult struct {
	Probability float64 `xml:"probability,attr"`
}

// Proteins returns the primary protein followed by all alternatives.
func (h SearchHit) Proteins() []string {
	prots := make([]string, 0, 1+len(h.Alternatives))
	prots = append(prots, h.Protein)
	for _, alt := range h.Alternatives {
		prots = append(prots, alt.Protein)
	}
	return prots
}

// ModifiedPeptide returns the modified peptide string if the hit carries
// modifications, and the plain peptide sequence otherwise.
func (h SearchHit) ModifiedPeptide() string {
	if h.ModificationInfo != nil && len(h.ModificationInfo.ModifiedPeptide) > 0 {
		return h.ModificationInfo.ModifiedPeptide
	}
	return h.Peptide
}

// Probability returns the probability assigned by analysis (PeptideProphet or
// InterProphet).
func (h SearchHit) Probability(analysis string) (float64, bool) {
	for _, ar := range h.AnalysisResults {
		switch {
		case analysis == InterProphet && ar.InterProphet != nil:
			return ar.InterProphet.Probability, true
		case analysis == PeptideProphet && ar.PeptideProphet != nil:
			return ar.PeptideProphet.Probability, true
		}
	}
	return 0, false
}

// Reader decodes spectrum queries from a pepXML stream.
type Reader struct {
	dec *xml.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(r)}
}

// Next returns the next spectrum query. It returns io.EOF when there are no
// more queries.
func (r *Reader) Next() (*SpectrumQuery, error) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "spectrum_query" {
			continue
		}
		q := new(SpectrumQuery)
		if err := r.dec.DecodeElement(q, &start); err != nil {
			return nil, fmt.Errorf("pepxml: could not decode spectrum_query: %w", err)
		}
		return q, nil
	}
}

// ForEach calls fn for every spectrum query in the pepXML file at path,
// stopping at the first error.
func ForEach(path string, fn func(*SpectrumQuery) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := NewReader(f)
	for {
		q, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := fn(q); err != nil {
			return err
		}
	}
}
