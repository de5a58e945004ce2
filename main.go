// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"gopkg.microglot.org/lilyc/internal/fs"
	"gopkg.microglot.org/lilyc/internal/lilypond"
	"gopkg.microglot.org/lilyc/internal/ly"
)

type opts struct {
	Roots      []string
	Output     string
	Check      bool
	DumpTokens bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("lilyc", pflag.PanicOnError)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for input files.")
	flags.StringVar(&op.Output, "output", "-", "Output directory for formatted sources or - for STDOUT.")
	flags.BoolVar(&op.Check, "check", false, "Parse and validate only, write nothing.")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream as it is processed")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	mf := make(fs.FileSystemMulti, 0, len(op.Roots))
	for _, root := range op.Roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			panic(errAbs.Error())
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			panic(err.Error())
		}
		mf = append(mf, rf)
	}

	p, err := lilypond.New()
	if err != nil {
		panic(err)
	}

	for _, target := range targets {
		files, err := mf.Open(ctx, target)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		for _, f := range files {
			if f.Kind(ctx) == ly.FileKindNone {
				continue
			}
			if op.DumpTokens {
				tokens, err := p.Tokens(ctx, f)
				if err != nil {
					reportAndExit(err)
				}
				for _, token := range tokens {
					fmt.Printf("%s %s\n", token.Span, token)
				}
			}
			document, err := p.ParseFile(ctx, f)
			if err != nil {
				reportAndExit(err)
			}
			if err := p.Validate(f.Path(ctx), document); err != nil {
				reportAndExit(err)
			}
			if op.Check {
				continue
			}
			rendered := p.Serialize(document)
			if op.Output == "-" {
				fmt.Print(rendered)
				continue
			}
			outPath := filepath.Join(op.Output, filepath.Base(f.Path(ctx)))
			if err := os.MkdirAll(filepath.Dir(outPath), 0770); err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
			if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
		}
	}
}

func reportAndExit(err error) {
	var me lilypond.MultiException
	if errors.As(err, &me) {
		for _, err := range me {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
