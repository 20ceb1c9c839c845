// Command iprophet combines several pepXML files with InterProphetParser.
package main

import (
	"github.com/applicake-tools/searchcake/apps/iprophet"
	"github.com/applicake-tools/searchcake/cmd/util"
)

func init() {
	util.FlagUse("input", "output", "env", "verbose", "set")
	util.FlagParse("", "Combines the PEPXML file(s) with InterProphetParser. PEPXML in the\noutput info is the combined result.")
	util.AssertNArg(0)
}

func main() {
	util.RunWrapped(iprophet.App{})
}
