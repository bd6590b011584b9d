package main

import (
	"flag"
	"fmt"
	"os"

	llsd "go.rtnl.ai/llsd"

	_ "go.rtnl.ai/llsd/wire/binary"
	_ "go.rtnl.ai/llsd/wire/json"
	_ "go.rtnl.ai/llsd/wire/notation"
	_ "go.rtnl.ai/llsd/wire/xml"
)

const usageText = `llsd - convert between LLSD wire formats
Usage:

    llsd [options] [file]

    -in string      input format: binary, notation, xml, json, auto (default "auto")
    -out string     output format: binary, notation, xml, json (default "notation")
    -pretty         pretty-print textual output formats
    -indent string  indent string used when -pretty is set (default "  ")

If file is omitted or "-", input is read from stdin. Output is always
written to stdout.

Options:

    -h, --help      display this help and exit
`

var (
	inFormat  string
	outFormat string
	pretty    bool
	indent    string
	help      bool
)

func main() {
	flag.StringVar(&inFormat, "in", "auto", "")
	flag.StringVar(&outFormat, "out", "notation", "")
	flag.BoolVar(&pretty, "pretty", false, "")
	flag.StringVar(&indent, "indent", "  ", "")
	flag.BoolVar(&help, "help", false, "")
	flag.BoolVar(&help, "h", false, "")
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "llsd: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}

func run() error {
	r := os.Stdin
	if args := flag.Args(); len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	opts := &llsd.Options{Pretty: pretty, Indent: indent}

	var (
		v   llsd.Value
		err error
	)
	if inFormat == "auto" {
		v, err = llsd.Parse(r, opts)
	} else {
		v, err = llsd.ParseFormat(r, llsd.Format(inFormat), opts)
	}
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	if err := llsd.Serialize(v, llsd.Format(outFormat), os.Stdout, opts); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
