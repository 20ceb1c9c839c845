package util

import (
	"os"

	"github.com/applicake-tools/searchcake/info"
)

// ReadInfo reads the info file named by -input, or starts from an empty
// info when there is none, and applies every -set override.
func ReadInfo() info.Info {
	inf := make(info.Info)
	if len(FlagInput) > 0 {
		var err error
		inf, err = info.ReadFile(FlagInput)
		Assert(err, "Could not read info file '%s'", FlagInput)
	}
	return Override(inf, FlagSet)
}

// Override sets every assignment in inf, later assignments winning.
func Override(inf info.Info, as Assignments) info.Info {
	for _, a := range as {
		inf.Set(a.Key, a.Value)
	}
	return inf
}

// WriteInfo writes inf to the file named by -output, or to stdout.
func WriteInfo(inf info.Info) {
	if len(FlagOutput) == 0 {
		Assert(info.Write(os.Stdout, inf), "Could not write info")
		return
	}
	Assert(info.WriteFile(FlagOutput, inf),
		"Could not write info file '%s'", FlagOutput)
}
