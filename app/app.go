/*
Package app defines the contract every wrapper in this module follows and
runs it.

A wrapped app drives one external binary in three steps:

	Prepare   writes whatever input files the binary needs and returns the
	          shell command(s) to run;
	(invoke)  the Runner executes the commands and captures their output;
	Validate  inspects the exit code, the captured output and the files the
	          binary wrote, and returns the updated info.

A basic app does all of its work in Go and has a single Run step.

Both kinds declare the info keys they read with Args. Before anything else
happens, the Runner resolves every declared argument: a value in the info
map wins, then an environment variable with the same name, then the
declared default. A declared argument without a default that cannot be
resolved is an error.
*/
package app

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/applicake-tools/searchcake/info"
)

// Argument declares an info key read by an app.
type Argument struct {
	Name string
	Help string

	// Default is used when neither the info map nor the environment has a
	// value. A nil Default makes the argument required. Use Optional for
	// arguments that may be absent altogether.
	Default any

	Optional bool
}

// Arg is a convenience for declaring a required argument.
func Arg(name, help string) Argument {
	return Argument{Name: name, Help: help}
}

// ArgDefault is a convenience for declaring an argument with a default.
func ArgDefault(name, help string, def any) Argument {
	return Argument{Name: name, Help: help, Default: def}
}

// ArgOptional is a convenience for declaring an argument that may be absent.
func ArgOptional(name, help string) Argument {
	return Argument{Name: name, Help: help, Optional: true}
}

// Wrapped is an app around an external binary.
type Wrapped interface {
	Args() []Argument
	Prepare(log *zap.Logger, inf info.Info) (info.Info, []string, error)
	Validate(log *zap.Logger, inf info.Info, exitCode int, output string) (info.Info, error)
}

// Basic is an app that needs no external binary.
type Basic interface {
	Args() []Argument
	Run(log *zap.Logger, inf info.Info) (info.Info, error)
}

// Resolve fills inf in place with a value for every argument in args, and
// reports every required argument that is missing.
func Resolve(args []Argument, inf info.Info) error {
	var errs error
	for _, arg := range args {
		if inf.Has(arg.Name) {
			continue
		}
		if v, ok := os.LookupEnv(arg.Name); ok {
			inf.Set(arg.Name, v)
			continue
		}
		switch {
		case arg.Default != nil:
			inf.Set(arg.Name, arg.Default)
		case !arg.Optional:
			errs = multierr.Append(errs,
				fmt.Errorf("missing required argument %s (%s)", arg.Name, arg.Help))
		}
	}
	return errs
}
