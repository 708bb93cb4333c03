package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/yaml-kit/go-yamlkit/compose"
	"github.com/signadot/yaml-kit/go-yamlkit/encode"
)

type MainConfig struct {
	Indent int  `cli:"name=indent desc='indentation width, 1 to 8'"`
	Flow   bool `cli:"name=flow desc='render collections in flow style'"`
	Width  int  `cli:"name=w aliases=width desc='wrap flow collections at this column'"`
	Double bool `cli:"name=dq desc='prefer double quotes when requoting'"`
	Color  bool `cli:"name=color desc='colorize output'"`
	Resync bool `cli:"name=resync desc='recover at document boundaries, reporting every error'"`

	MaxNodes int `cli:"name=maxNodes desc='alias expansion ceiling in nodes'"`

	DupPolicy string `cli:"name=dup desc='duplicate key policy: error, first, last'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.Option {
	res := []encode.Option{
		encode.Indent(cfg.Indent),
		encode.DefaultFlow(cfg.Flow),
		encode.LineWidth(cfg.Width),
	}
	if cfg.Double {
		res = append(res, encode.Quote(encode.PreferDouble))
	}
	if cfg.Color {
		return append(res, encode.Colors(true))
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if ok && isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.Colors(true))
	}
	return res
}

func (cfg *MainConfig) composeOpts() ([]compose.Option, error) {
	var res []compose.Option
	if cfg.MaxNodes != 0 {
		res = append(res, compose.MaxNodes(cfg.MaxNodes))
	}
	switch cfg.DupPolicy {
	case "", "error":
	case "first":
		res = append(res, compose.OnDuplicateKey(compose.DupFirstWins))
	case "last":
		res = append(res, compose.OnDuplicateKey(compose.DupLastWins))
	default:
		return nil, fmt.Errorf("%w: unknown -dup policy %q", cli.ErrUsage, cfg.DupPolicy)
	}
	return res, nil
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

type FmtConfig struct {
	*MainConfig

	Fmt *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type EventsConfig struct {
	*MainConfig

	Events *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}
