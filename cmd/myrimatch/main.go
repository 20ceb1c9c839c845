// Command myrimatch searches an mzXML file with Myrimatch.
package main

import (
	"github.com/applicake-tools/searchcake/apps/myrimatch"
	"github.com/applicake-tools/searchcake/cmd/util"
)

func init() {
	util.FlagUse("input", "output", "env", "verbose", "set")
	util.FlagParse("", "Searches MZXML against DBASE with Myrimatch. PEPXML in the output\ninfo is the result.")
	util.AssertNArg(0)
}

func main() {
	util.RunWrapped(myrimatch.App{})
}
