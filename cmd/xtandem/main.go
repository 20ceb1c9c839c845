// Command xtandem searches an mzXML file with X!Tandem and converts the result to pepXML.
package main

import (
	"github.com/applicake-tools/searchcake/apps/xtandem"
	"github.com/applicake-tools/searchcake/cmd/util"
)

func init() {
	util.FlagUse("input", "output", "env", "verbose", "set")
	util.FlagParse("", "Searches MZXML against DBASE with X!Tandem and converts the result\nto pepXML with Tandem2XML. PEPXML in the output info is the result.")
	util.AssertNArg(0)
}

func main() {
	util.RunWrapped(xtandem.App{})
}
