// seehuhn.de/go/pdfpipe - split, transform and print PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Pdfpipe splits PDF files into several derived documents and prints them.
//
// The outputs are described by a YAML configuration file, see the package
// seehuhn.de/go/pdfpipe/config for the format.  Every input file is
// processed independently, and for each input every configured output is
// created.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"seehuhn.de/go/pdfpipe/config"
	"seehuhn.de/go/pdfpipe/pdffile"
	"seehuhn.de/go/pdfpipe/pipeline"
	"seehuhn.de/go/pdfpipe/printer"
	"seehuhn.de/go/pdfpipe/selection"
)

// options holds all command-line flag values.
type options struct {
	configFile   string
	input        string
	outDir       string
	validate     bool
	dryRun       bool
	listPrinters bool
	strict       bool
	jobs         int
	force        bool
	check        bool
	password     string
	verbose      bool
}

func main() {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	showVersion := flag.Bool("version", false, "print version information and exit")

	var opt options
	flag.StringVar(&opt.configFile, "c", "pdfpipe.yaml", "configuration `file`")
	flag.StringVar(&opt.input, "i", "", "input PDF `file` or directory")
	flag.StringVar(&opt.outDir, "o", "", "output `directory`, overrides the configuration")
	flag.BoolVar(&opt.validate, "validate", false, "check the configuration and exit")
	flag.BoolVar(&opt.dryRun, "dry-run", false, "show what would be done, without writing or printing")
	flag.BoolVar(&opt.listPrinters, "list-printers", false, "list the available printers and exit")
	flag.BoolVar(&opt.strict, "strict", false, "stop at the first error")
	flag.IntVar(&opt.jobs, "j", 0, "number of files to process in parallel (0 = one per CPU)")
	flag.BoolVar(&opt.force, "f", false, "overwrite existing output files")
	flag.BoolVar(&opt.check, "check", false, "validate every written file")
	flag.StringVar(&opt.password, "password", "", "password for encrypted input files")
	flag.BoolVar(&opt.verbose, "v", false, "show debug messages")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdfpipe - split, transform and print PDF files\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", version("pdfpipe"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdfpipe [options] -i <file.pdf|directory>\n")
		fmt.Fprintf(os.Stderr, "  pdfpipe -validate [-c <config.yaml>]\n")
		fmt.Fprintf(os.Stderr, "  pdfpipe -list-printers\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pdfpipe -c labels.yaml -i order.pdf\n")
		fmt.Fprintf(os.Stderr, "  pdfpipe -c labels.yaml -i incoming/ -o done/ -dry-run\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Println(version("pdfpipe"))
		return
	}
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(&opt, *cpuprofile, *memprofile); err != nil {
		fmt.Fprintln(os.Stderr, "pdfpipe:", err)
		os.Exit(1)
	}
}

func run(opt *options, cpuprofile, memprofile string) error {
	stop, err := startProfile(cpuprofile, memprofile)
	if err != nil {
		return err
	}
	defer stop()

	level := slog.LevelInfo
	if opt.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if opt.listPrinters {
		names, err := printer.List(ctx)
		if err != nil {
			return fmt.Errorf("cannot list printers: %w", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load(opt.configFile)
	if err != nil {
		return err
	}

	if opt.validate {
		fmt.Printf("%s: %d outputs (%s)\n",
			opt.configFile, len(cfg.Outputs), strings.Join(cfg.Names(), ", "))
		for _, spec := range cfg.Outputs {
			var pages selection.Selector = selection.All{}
			if spec.Select.Pages != nil {
				pages = spec.Select.Pages
			}
			fmt.Printf("  %s: pages %s", spec.Name, pages)
			if len(spec.Transforms) > 0 {
				fmt.Printf(", %d transforms", len(spec.Transforms))
			}
			if spec.Printer != "" {
				fmt.Printf(", %d copies to %q", spec.NumCopies(), spec.Printer)
			}
			fmt.Println()
		}
		return nil
	}

	if opt.input == "" {
		return errors.New("no input given (use -i)")
	}
	inputs, err := pipeline.FindInputs(opt.input)
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if opt.outDir != "" {
		outDir = opt.outDir
	}
	jobs := cfg.Concurrency
	if opt.jobs > 0 {
		jobs = opt.jobs
	}

	pw := &passwords{given: opt.password}
	dispatch := &printer.Dispatcher{
		DryRun:  opt.dryRun,
		Sumatra: cfg.Print.Sumatra,
		Args:    cfg.Print.Args,
		Logger:  logger,
	}
	batch := &pipeline.Batch{
		Specs:       cfg.Outputs,
		Concurrency: jobs,
		OutDir:      outDir,
		Naming:      cfg.Naming,
		Force:       opt.force,
		DryRun:      opt.dryRun,
		Strict:      cfg.Strict || opt.strict,
		Open: func(path string) (pipeline.Input, error) {
			f, err := pdffile.Open(path, pw.readerOptions(path))
			if err != nil {
				return nil, err
			}
			return f, nil
		},
		Print:  dispatch.Print,
		Logger: logger,
	}
	if cfg.Check || opt.check {
		batch.Verify = pdffile.Check
	}

	res, err := batch.Run(ctx, inputs)
	if err != nil {
		return err
	}

	failed := 0
	for _, d := range res.Docs {
		if d.Failed() {
			failed++
		}
	}
	fmt.Fprintf(os.Stderr, "%d of %d input files processed without errors, %d files written\n",
		len(res.Docs)-failed, len(res.Docs), res.Written())

	return res.Err()
}
