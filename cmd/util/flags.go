package util

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

var (
	// FlagInput is the info file read before the app runs. When empty, the
	// app starts from an empty info map.
	FlagInput = ""

	// FlagOutput is where the updated info is written. When empty, it is
	// written to stdout.
	FlagOutput = ""

	FlagEnv = ""

	FlagVerbose = false

	// FlagSet holds the KEY=VALUE overrides given with -set.
	FlagSet = Assignments{}
)

func init() {
	log.SetFlags(0)
}

type commonFlag struct {
	set, init func()
	use       bool
}

var commonFlags = map[string]*commonFlag{
	"input": {
		set: func() {
			flag.StringVar(&FlagInput, "input", FlagInput,
				"The info file (YAML) to read the app's arguments from.")
		},
	},
	"output": {
		set: func() {
			flag.StringVar(&FlagOutput, "output", FlagOutput,
				"The file to write the updated info to. Defaults to stdout.")
		},
	},
	"env": {
		set: func() {
			flag.StringVar(&FlagEnv, "env", FlagEnv,
				"A dotenv file to load into the environment. Arguments\n"+
					"missing from the info file are looked up there.")
		},
		init: func() {
			if len(FlagEnv) > 0 {
				Assert(godotenv.Load(FlagEnv),
					"Could not load environment file '%s'", FlagEnv)
			}
		},
	},
	"verbose": {
		set: func() {
			flag.BoolVar(&FlagVerbose, "verbose", FlagVerbose,
				"When set, debug logs are emitted and the output of the\n"+
					"wrapped tool is shown as it runs.")
		},
	},
	"set": {
		set: func() {
			flag.Var(&FlagSet, "set",
				"KEY=VALUE overriding an entry of the info file. May be\n"+
					"given more than once.")
		},
	},
}

// FlagUse registers the named common flags. It panics on an unknown name.
func FlagUse(names ...string) {
	for _, name := range names {
		fl, ok := commonFlags[name]
		if !ok {
			panic(fmt.Sprintf("unknown common flag '%s'", name))
		}
		fl.use = true
	}
}

// Usage just calls `flag.Usage`. It's included here to avoid
// an extra import to `flag` just to call Usage.
func Usage() {
	flag.Usage()
}

// NArg just calls `flag.NArg`. It's included here to avoid
// an extra import to `flag` just to call NArg.
func NArg() int {
	return flag.NArg()
}

func FlagParse(positional string, desc string) {
	names := make([]string, 0, len(commonFlags))
	for name := range commonFlags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if commonFlags[name].use {
			commonFlags[name].set()
		}
	}

	flag.Usage = func() {
		log.Printf("Usage: %s [flags] %s\n\n",
			path.Base(os.Args[0]), positional)
		if len(desc) > 0 {
			log.Printf("%s\n", desc)
		}
		flag.VisitAll(func(fl *flag.Flag) {
			var def string
			if len(fl.DefValue) > 0 {
				def = fmt.Sprintf(" (default: %s)", fl.DefValue)
			}

			usage := strings.Replace(fl.Usage, "\n", "\n    ", -1)
			log.Printf("-%s%s\n", fl.Name, def)
			log.Printf("    %s\n", usage)
		})
		os.Exit(1)
	}
	flag.Parse()

	for _, name := range names {
		fl := commonFlags[name]
		if fl.use && fl.init != nil {
			fl.init()
		}
	}
}

// Assignments is a repeatable flag of KEY=VALUE pairs, kept in the order
// given.
type Assignments []Assignment

type Assignment struct {
	Key, Value string
}

func (as *Assignments) String() string {
	if as == nil {
		return ""
	}
	strs := make([]string, len(*as))
	for i, a := range *as {
		strs[i] = a.Key + "=" + a.Value
	}
	return strings.Join(strs, " ")
}

func (as *Assignments) Set(s string) error {
	a, err := ParseAssignment(s)
	if err != nil {
		return err
	}
	*as = append(*as, a)
	return nil
}

// ParseAssignment splits "KEY=VALUE" at the first '='. The key may not be
// empty; the value may.
func ParseAssignment(s string) (Assignment, error) {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || len(k) == 0 {
		return Assignment{}, fmt.Errorf("expected KEY=VALUE but got '%s'", s)
	}
	return Assignment{Key: k, Value: v}, nil
}
