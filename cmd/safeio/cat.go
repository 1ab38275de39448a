package main

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/jim-schilling/splurge-safe-io/pkg/safetext"
)

// readFlags are the read settings shared by every reading command. Zero
// values mean "unset" so that profile settings show through.
type readFlags struct {
	Encoding   string `help:"Text encoding of the file (default utf-8)."`
	Strip      bool   `help:"Strip leading and trailing whitespace from each line."`
	SkipEmpty  bool   `name:"skip-empty" help:"Drop empty lines."`
	SkipHeader int    `name:"skip-header" placeholder:"N" help:"Drop the first N lines."`
	SkipFooter int    `name:"skip-footer" placeholder:"N" help:"Drop the last N lines."`
	ChunkSize  int    `name:"chunk-size" placeholder:"N" help:"Lines per streamed chunk."`
	BufferSize int    `name:"buffer-size" placeholder:"BYTES" help:"Read buffer size in bytes."`
}

func (f readFlags) options() []safetext.Option {
	var opts []safetext.Option
	if f.Encoding != "" {
		opts = append(opts, safetext.Encoding(f.Encoding))
	}
	if f.Strip {
		opts = append(opts, safetext.Strip())
	}
	if f.SkipEmpty {
		opts = append(opts, safetext.SkipEmptyLines())
	}
	if f.SkipHeader > 0 {
		opts = append(opts, safetext.SkipHeaderLines(f.SkipHeader))
	}
	if f.SkipFooter > 0 {
		opts = append(opts, safetext.SkipFooterLines(f.SkipFooter))
	}
	if f.ChunkSize > 0 {
		opts = append(opts, safetext.ChunkSize(f.ChunkSize))
	}
	if f.BufferSize > 0 {
		opts = append(opts, safetext.BufferSize(f.BufferSize))
	}
	return opts
}

type CatCmd struct {
	Path string `arg:"" type:"path" help:"File to print."`
	readFlags
}

func (c *CatCmd) Run(env *runEnv) error {
	r, err := safetext.New(c.Path, env.readerOptions(c.readFlags)...)
	if err != nil {
		return err
	}

	s, err := r.Stream()
	if err != nil {
		return err
	}
	defer s.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	chunks, lines := 0, 0
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		chunks++
		lines += len(chunk)
		for _, ln := range chunk {
			if _, err := out.WriteString(ln); err != nil {
				return err
			}
			if _, err := out.WriteString(safetext.CanonicalNewline); err != nil {
				return err
			}
		}
	}
	env.logger.Debug("cat finished", "path", r.Path(), "chunks", chunks, "lines", lines)
	return nil
}
