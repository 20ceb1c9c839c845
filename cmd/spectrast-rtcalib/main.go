// Command spectrast-rtcalib builds an iRT calibrated consensus spectral library with SpectraST.
package main

import (
	"github.com/applicake-tools/searchcake/apps/spectrast"
	"github.com/applicake-tools/searchcake/cmd/util"
)

func init() {
	util.FlagUse("input", "output", "env", "verbose", "set")
	util.FlagParse("", "Builds a consensus spectral library from an iProphet PEPXML, keeping\nidentifications up to FDR_CUTOFF. With RUNRT, retention times are\nnormalized with the peptides in RTKIT. SPLIB in the output info is\nthe library.")
	util.AssertNArg(0)
}

func main() {
	util.RunWrapped(spectrast.App{})
}
