// Command picoc is the reference host for the picoc interpreter: it runs a
// script file, a piped/redirected stdin program, or an interactive REPL,
// grounded on _examples/phroun-pawscript/src/cmd/paw/main.go's flag/mode
// dispatch and _examples/RobertP-SyndicateLabs-SIC-lang's cli entry point.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/nicelbole/picoc"
)

var version = "dev"

func main() {
	debugFlag := flag.Bool("debug", false, "enable debug diagnostics")
	flag.BoolVar(debugFlag, "d", false, "enable debug diagnostics (short)")
	arenaFlag := flag.Int("arena", 0, "arena size in bytes (0 = use config default)")
	configFlag := flag.String("config", defaultConfigPath(), "path to a picoc.yaml config file")
	licenseFlag := flag.Bool("license", false, "show license and exit")
	versionFlag := flag.Bool("version", false, "show version and exit")

	flag.Usage = showUsage
	flag.Parse()

	if *licenseFlag {
		showLicense()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("picoc version %s\n", version)
		os.Exit(0)
	}

	cfg, err := picoc.LoadConfigFile(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "picoc: reading config: %v\n", err)
		os.Exit(1)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *arenaFlag > 0 {
		cfg.ArenaSize = *arenaFlag
	}

	args := flag.Args()

	var scriptFile string
	var scriptArgs []string
	if len(args) > 0 {
		scriptFile = args[0]
		scriptArgs = args[1:]
	}

	stdinInfo, _ := os.Stdin.Stat()
	stdinIsPipe := (stdinInfo.Mode() & os.ModeCharDevice) == 0

	switch {
	case scriptFile != "":
		runFile(cfg, scriptFile, scriptArgs)
	case stdinIsPipe:
		runStdin(cfg)
	default:
		runREPL(cfg)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".picoc", "picoc.yaml")
}

func newInstance(cfg *picoc.Config) *picoc.Instance {
	inst := picoc.New(cfg)
	if err := inst.IncludeAllSystemHeaders(); err != nil {
		fmt.Fprintf(os.Stderr, "picoc: including standard library: %v\n", err)
		os.Exit(1)
	}
	return inst
}

func runFile(cfg *picoc.Config, path string, scriptArgs []string) {
	inst := newInstance(cfg)
	if err := inst.ScanFile(path); err != nil {
		os.Exit(1)
	}
	if _, err := inst.CallMain(append([]string{path}, scriptArgs...)); err != nil {
		os.Exit(1)
	}
}

func runStdin(cfg *picoc.Config) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "picoc: reading stdin: %v\n", err)
		os.Exit(1)
	}
	inst := newInstance(cfg)
	if err := inst.Parse("<stdin>", string(data), picoc.DefaultParseOptions()); err != nil {
		os.Exit(1)
	}
}

// runREPL reads one line at a time and parse-executes it immediately. This
// is a simpler line editor than the teacher's raw-mode arrow-key/history
// REPL (readStatement in paw/main.go): picoc statements are short enough
// that plain line buffering via bufio.Scanner is enough, and the teacher's
// history/redraw logic doesn't have an equivalent that pays for its own
// complexity here.
func runREPL(cfg *picoc.Config) {
	fmt.Printf("picoc %s. Type 'quit' to exit.\n", version)
	inst := newInstance(cfg)

	fd := int(os.Stdin.Fd())
	isTerm := term.IsTerminal(fd)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if isTerm {
			fmt.Print("picoc> ")
		}
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()
		if line == "quit" || line == "exit" {
			return
		}
		if line == "" {
			continue
		}
		_ = inst.Parse("<interactive>", line, picoc.DefaultParseOptions())
	}
}

func showLicense() {
	fmt.Println(`picoc, an embeddable C-like scripting interpreter

MIT License

Permission is hereby granted, free of charge, to any person obtaining a
copy of this software and associated documentation files (the
"Software"), to deal in the Software without restriction, including
without limitation the rights to use, copy, modify, merge, publish,
distribute, sublicense, and/or sell copies of the Software, subject to
the following conditions: the above copyright notice and this
permission notice shall be included in all copies or substantial
portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS
OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.`)
}

func showUsage() {
	usage := `Usage: picoc [options] [script.c] [-- args...]
       picoc [options] < input.c
       echo "int main() { return 0; }" | picoc

Run a picoc script from a file, stdin, or interactively.

Options:
  -d, -debug     enable debug diagnostics
  -arena N       arena size in bytes
  -config PATH   path to a picoc.yaml config file (default ~/.picoc/picoc.yaml)
  -license       show license and exit
  -version       show version and exit
`
	fmt.Fprint(os.Stderr, usage)
}
