package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/yaml-kit/go-yamlkit/parse"
)

func ykEvents(cfg *EventsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Events.Parse(cc, args)
	if err != nil {
		cfg.Events.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	nErrs := 0
	for _, arg := range stdinDefault(args) {
		n, err := eventsArg(cfg, cc.Out, arg)
		if err != nil {
			return fmt.Errorf("error tracing %s: %w", arg, err)
		}
		nErrs += n
	}
	if nErrs > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func eventsArg(cfg *EventsConfig, w io.Writer, arg string) (int, error) {
	d, err := readArg(arg)
	if err != nil {
		return 0, err
	}
	var pOpts []parse.ParseOption
	if cfg.Resync {
		pOpts = append(pOpts, parse.Resync(true))
	}
	p, err := parse.NewParser(d, pOpts...)
	if err != nil {
		return 0, err
	}
	for {
		e, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return len(p.Errs()), err
		}
		if e.Pos != nil {
			fmt.Fprintf(w, "%s\t%s\n", e.Pos, e)
		} else {
			fmt.Fprintf(w, "-\t%s\n", e)
		}
	}
	for _, e := range p.Errs() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", arg, e)
	}
	return len(p.Errs()), nil
}
