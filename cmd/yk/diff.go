package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	yamlkit "github.com/signadot/yaml-kit/go-yamlkit"
	"github.com/signadot/yaml-kit/go-yamlkit/compose"
	"github.com/signadot/yaml-kit/go-yamlkit/encode"
)

func ykDiff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two arguments", cli.ErrUsage)
	}
	cOpts, err := cfg.composeOpts()
	if err != nil {
		return err
	}
	from, err := canonArg(cfg.MainConfig, args[0], cOpts)
	if err != nil {
		return err
	}
	to, err := canonArg(cfg.MainConfig, args[1], cOpts)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}

	diffCfg := diffpatch.New()
	fromRunes, toRunes, lines := diffCfg.DiffLinesToChars(from, to)
	diffs := diffCfg.DiffCharsToLines(diffCfg.DiffMain(fromRunes, toRunes, false), lines)

	ins, del := fmt.Sprintf, fmt.Sprintf
	if useColor(cfg.MainConfig, cc) {
		green := color.New(color.FgGreen)
		green.EnableColor()
		red := color.New(color.FgRed)
		red.EnableColor()
		ins, del = green.Sprintf, red.Sprintf
	}
	for _, diff := range diffs {
		switch diff.Type {
		case diffpatch.DiffInsert:
			fmt.Fprint(cc.Out, ins("%s", prefixLines("+ ", diff.Text)))
		case diffpatch.DiffDelete:
			fmt.Fprint(cc.Out, del("%s", prefixLines("- ", diff.Text)))
		case diffpatch.DiffEqual:
			fmt.Fprint(cc.Out, prefixLines("  ", diff.Text))
		}
	}
	return cli.ExitCodeErr(1)
}

// canonArg loads an input and renders it back without colors, so the
// two sides diff on structure rather than on incidental layout.
func canonArg(cfg *MainConfig, arg string, cOpts []compose.Option) (string, error) {
	d, err := readArg(arg)
	if err != nil {
		return "", err
	}
	docs, err := yamlkit.Load(d, cOpts...)
	if err != nil {
		return "", fmt.Errorf("error loading %s: %w", arg, err)
	}
	eOpts := []encode.Option{
		encode.Indent(cfg.Indent),
		encode.DefaultFlow(cfg.Flow),
		encode.LineWidth(cfg.Width),
	}
	if cfg.Double {
		eOpts = append(eOpts, encode.Quote(encode.PreferDouble))
	}
	return yamlkit.Dump(docs, eOpts...)
}

func useColor(cfg *MainConfig, cc *cli.Context) bool {
	if cfg.Color {
		return true
	}
	f, ok := cc.Out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func prefixLines(prefix, text string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
