package main

import (
	"fmt"

	"github.com/jim-schilling/splurge-safe-io/pkg/safetext"
)

type CountCmd struct {
	Path      string `arg:"" type:"path" help:"File to count."`
	Threshold int64  `placeholder:"BYTES" help:"File size above which counting streams instead of reading fully."`
	readFlags
}

func (c *CountCmd) Run(env *runEnv) error {
	r, err := safetext.New(c.Path, env.readerOptions(c.readFlags)...)
	if err != nil {
		return err
	}

	var n int
	if c.Threshold > 0 {
		n, err = r.LineCountThreshold(c.Threshold)
	} else {
		n, err = r.LineCount()
	}
	if err != nil {
		return err
	}
	env.logger.Debug("count finished", "path", r.Path(), "lines", n)

	fmt.Println(n)
	return nil
}
