package main

import (
	"bufio"
	"os"

	"github.com/jim-schilling/splurge-safe-io/pkg/safetext"
)

type HeadCmd struct {
	Path  string `arg:"" type:"path" help:"File to preview."`
	Lines int    `short:"n" default:"10" help:"Number of lines to print."`
	readFlags
}

func (c *HeadCmd) Run(env *runEnv) error {
	r, err := safetext.New(c.Path, env.readerOptions(c.readFlags)...)
	if err != nil {
		return err
	}

	lines, err := r.Preview(c.Lines)
	if err != nil {
		return err
	}
	env.logger.Debug("head finished", "path", r.Path(), "requested", c.Lines, "got", len(lines))

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for _, ln := range lines {
		if _, err := out.WriteString(ln); err != nil {
			return err
		}
		if _, err := out.WriteString(safetext.CanonicalNewline); err != nil {
			return err
		}
	}
	return nil
}
