package pepxml

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
)

// ROCPoint is one roc_data_point: at probability threshold MinProb, the
// model estimates Error and Sensitivity.
type ROCPoint struct {
	MinProb     float64 `xml:"min_prob,attr"`
	Sensitivity float64 `xml:"sensitivity,attr"`
	Error       float64 `xml:"error,attr"`
	NumCorr     float64 `xml:"num_corr,attr"`
	NumIncorr   float64 `xml:"num_incorr,attr"`
}

// ErrorPoint is one error_point: the probability threshold MinProb that
// achieves the error rate Error.
type ErrorPoint struct {
	Error     float64 `xml:"error,attr"`
	MinProb   float64 `xml:"min_prob,attr"`
	NumCorr   float64 `xml:"num_corr,attr"`
	NumIncorr float64 `xml:"num_incorr,attr"`
}

// Summary holds the model summary of either PeptideProphet or iProphet.
type Summary struct {
	Analysis string       `xml:"-"`
	ROC      []ROCPoint   `xml:"roc_data_point"`
	Errors   []ErrorPoint `xml:"error_point"`
}

// ReadSummary returns the iProphet summary of the pepXML file at path, or
// the PeptideProphet summary if the file was never run through iProphet.
//
// Summaries precede the spectrum queries, so reading stops at the first
// spectrum_query element.
func ReadSummary(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sum, err := readSummary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sum, nil
}

func readSummary(r io.Reader) (*Summary, error) {
	dec := xml.NewDecoder(r)
	var pp *Summary
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "interprophet_summary":
			sum := &Summary{Analysis: InterProphet}
			if err := dec.DecodeElement(sum, &start); err != nil {
				return nil, err
			}
			return sum, nil
		case "peptideprophet_summary":
			if pp != nil {
				continue
			}
			pp = &Summary{Analysis: PeptideProphet}
			if err := dec.DecodeElement(pp, &start); err != nil {
				return nil, err
			}
		case "spectrum_query":
			if pp != nil {
				return pp, nil
			}
			return nil, fmt.Errorf("pepxml: no PeptideProphet or iProphet summary")
		}
	}
	if pp != nil {
		return pp, nil
	}
	return nil, fmt.Errorf("pepxml: no PeptideProphet or iProphet summary")
}

var nativeIDAttr = regexp.MustCompile(`spectrumNativeID="[^"]*"`)

// StripNativeID copies a pepXML document from r to w with every
// spectrumNativeID attribute removed. Some TPP tools choke on the native ids
// written by Myrimatch.
func StripNativeID(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = nativeIDAttr.ReplaceAllString(line, "")
			if _, werr := bw.WriteString(line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
