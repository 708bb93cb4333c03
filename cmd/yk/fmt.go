package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	yamlkit "github.com/signadot/yaml-kit/go-yamlkit"
	"github.com/signadot/yaml-kit/go-yamlkit/compose"
	"github.com/signadot/yaml-kit/go-yamlkit/encode"
	"github.com/signadot/yaml-kit/go-yamlkit/ir"
	"github.com/signadot/yaml-kit/go-yamlkit/parse"
)

func ykFmt(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		cfg.Fmt.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	cOpts, err := cfg.composeOpts()
	if err != nil {
		return err
	}
	nErrs := 0
	for _, arg := range stdinDefault(args) {
		docs, errs := loadArg(cfg.MainConfig, arg, cOpts)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", arg, e)
		}
		nErrs += len(errs)
		if err := writeDocs(cfg.MainConfig, cc.Out, docs, nil); err != nil {
			return fmt.Errorf("error formatting %s: %w", arg, err)
		}
	}
	if nErrs > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// loadArg composes every document of one input. Without -resync the
// first error stops the load; with it, errors are collected and the
// documents that survive are still returned.
func loadArg(cfg *MainConfig, arg string, cOpts []compose.Option) ([]*ir.Document, []error) {
	d, err := readArg(arg)
	if err != nil {
		return nil, []error{err}
	}
	if !cfg.Resync {
		docs, err := yamlkit.Load(d, cOpts...)
		if err != nil {
			return nil, []error{err}
		}
		return docs, nil
	}
	p, err := parse.NewParser(d, parse.Resync(true))
	if err != nil {
		return nil, []error{err}
	}
	var (
		docs []*ir.Document
		errs []error
	)
	c := compose.NewComposerEvents(p, cOpts...)
	for {
		doc, err := c.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, err)
			break
		}
		docs = append(docs, doc)
	}
	return docs, append(p.Errs(), errs...)
}

func writeDocs(cfg *MainConfig, w io.Writer, docs []*ir.Document, extra []encode.Option) error {
	if len(docs) == 0 {
		return nil
	}
	out, err := yamlkit.Dump(docs, append(cfg.encOpts(w), extra...)...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
