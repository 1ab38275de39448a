package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jim-schilling/splurge-safe-io/pkg/safetext"
)

type CopyCmd struct {
	Src string `arg:"" type:"path" help:"Source file."`
	Dst string `arg:"" type:"path" help:"Destination file."`

	OutEncoding string `name:"out-encoding" help:"Encoding for the destination (default utf-8)."`
	Mode        string `enum:"truncate,create-new,append" default:"truncate" help:"How to open the destination."`
	Parents     bool   `help:"Create missing parent directories of the destination."`

	readFlags
}

func (c *CopyCmd) Run(env *runEnv) error {
	r, err := safetext.New(c.Src, env.readerOptions(c.readFlags)...)
	if err != nil {
		return err
	}

	wopts := []safetext.WriterOption{}
	if c.OutEncoding != "" {
		wopts = append(wopts, safetext.WriterEncoding(c.OutEncoding))
	}
	switch c.Mode {
	case "create-new":
		wopts = append(wopts, safetext.Mode(safetext.CreateNew))
	case "append":
		wopts = append(wopts, safetext.Mode(safetext.Append))
	}
	if c.Parents {
		wopts = append(wopts, safetext.CreateParents())
	}

	w, err := safetext.NewWriter(c.Dst, wopts...)
	if err != nil {
		return err
	}
	defer w.Abort()

	s, err := r.Stream()
	if err != nil {
		return err
	}
	defer s.Close()

	lines := 0
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := w.WriteLines(chunk); err != nil {
			return err
		}
		lines += len(chunk)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("committing %s: %w", c.Dst, err)
	}
	env.logger.Debug("copy finished", "src", r.Path(), "dst", c.Dst, "lines", lines)
	return nil
}
