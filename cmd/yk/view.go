package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/yaml-kit/go-yamlkit/encode"
)

func ykView(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		cfg.View.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	cOpts, err := cfg.composeOpts()
	if err != nil {
		return err
	}
	for _, arg := range stdinDefault(args) {
		docs, errs := loadArg(cfg.MainConfig, arg, cOpts)
		if len(errs) > 0 {
			return fmt.Errorf("error loading %s: %w", arg, errs[0])
		}
		err := writeDocs(cfg.MainConfig, cc.Out, docs, []encode.Option{encode.Colors(true)})
		if err != nil {
			return fmt.Errorf("error viewing %s: %w", arg, err)
		}
	}
	return nil
}
