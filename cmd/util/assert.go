package util

import (
	"fmt"
	"log"
)

func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

func Assert(err error, v ...interface{}) {
	if err != nil {
		if len(v) == 0 {
			Fatalf("ERROR: %s.", err)
		} else {
			format := v[0].(string)
			v = v[1:]
			Fatalf("%s: %s.", fmt.Sprintf(format, v...), err)
		}
	}
}

// AssertNArg shows usage and exits unless exactly n positional arguments
// were given.
func AssertNArg(n int) {
	if NArg() != n {
		Usage()
	}
}
