// Command iprophet-pepxml2csv extracts the top hits of an iProphet pepXML into tab separated tables.
package main

import (
	"github.com/applicake-tools/searchcake/apps/pepxml2csv"
	"github.com/applicake-tools/searchcake/cmd/util"
)

func init() {
	util.FlagUse("input", "output", "env", "verbose", "set")
	util.FlagParse("", "Writes the non-decoy top hits of an iProphet PEPXML to PEPCSV and the\nmodel's probability/error table to PEPCSVERROR.")
	util.AssertNArg(0)
}

func main() {
	util.RunBasic(pepxml2csv.App{})
}
