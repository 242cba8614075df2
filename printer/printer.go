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

// Package printer sends PDF files to a printer.
//
// On Windows, files are printed using SumatraPDF.  On all other systems the
// CUPS command line tools are used.
package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ErrNoSumatra is returned on Windows if SumatraPDF cannot be found.
var ErrNoSumatra = errors.New("SumatraPDF.exe not found")

// SumatraName is the name of the SumatraPDF executable.
const SumatraName = "SumatraPDF.exe"

// Dispatcher sends files to printers.
type Dispatcher struct {
	// DryRun only logs the print commands, nothing is executed.
	DryRun bool

	// Sumatra is the path of the SumatraPDF executable.  If this is empty,
	// [FindSumatra] is used.  The field is ignored on systems other than
	// Windows.
	Sumatra string

	// Args are extra command line arguments for SumatraPDF.
	Args []string

	// Logger receives the executed commands.  If this is nil,
	// [slog.Default] is used.
	Logger *slog.Logger

	// goos overrides runtime.GOOS.
	goos string

	// run executes a command, if set.  This is used for testing.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Print prints copies of the PDF file at path on the named printer.
func (d *Dispatcher) Print(ctx context.Context, path, printer string, copies int) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	name, args, err := d.Command(path, printer, copies)
	if err != nil {
		return err
	}

	logger := d.logger()
	if d.DryRun {
		logger.Info("would execute", "command", formatCommand(name, args))
		return nil
	}
	logger.Debug("executing", "command", formatCommand(name, args))

	out, err := d.execute(ctx, name, args)
	if err != nil {
		return commandError(name, err, out)
	}
	return nil
}

// Command returns the program and the arguments used to print a file.
func (d *Dispatcher) Command(path, printer string, copies int) (string, []string, error) {
	if printer == "" {
		return "", nil, errors.New("no printer given")
	}
	copies = max(copies, 1)

	if d.targetOS() != "windows" {
		args := []string{"-d", printer}
		if copies > 1 {
			args = append(args, "-n", strconv.Itoa(copies))
		}
		args = append(args, "--", path)
		return "lp", args, nil
	}

	sumatra := d.Sumatra
	if sumatra == "" {
		var err error
		sumatra, err = FindSumatra()
		if err != nil {
			return "", nil, err
		}
	}

	var args []string
	if copies > 1 {
		args = append(args, "-print-settings", strconv.Itoa(copies)+"x")
	}
	args = append(args, d.Args...)
	args = append(args, "-print-to", printer, path)
	return sumatra, args, nil
}

// List returns the names of the printers known to the system.
func (d *Dispatcher) List(ctx context.Context) ([]string, error) {
	var name string
	var args []string
	if d.targetOS() == "windows" {
		name = "powershell"
		args = []string{"-NoProfile", "-NonInteractive", "-Command",
			"Get-Printer | Select-Object -ExpandProperty Name"}
	} else {
		name = "lpstat"
		args = []string{"-e"}
	}

	out, err := d.execute(ctx, name, args)
	if err != nil {
		return nil, commandError(name, err, out)
	}
	return parseList(out), nil
}

// List returns the names of the printers known to the system.
func List(ctx context.Context) ([]string, error) {
	d := &Dispatcher{}
	return d.List(ctx)
}

func parseList(out []byte) []string {
	var res []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			res = append(res, line)
		}
	}
	return res
}

// FindSumatra locates the SumatraPDF executable.  The current directory is
// searched first, then the directory of the running program, and finally
// the directories listed in $PATH.
func FindSumatra() (string, error) {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)
	return findIn(dirs)
}

func findIn(dirs []string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, SumatraName)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", ErrNoSumatra
}

func (d *Dispatcher) execute(ctx context.Context, name string, args []string) ([]byte, error) {
	if d.run != nil {
		return d.run(ctx, name, args...)
	}
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (d *Dispatcher) targetOS() string {
	if d.goos != "" {
		return d.goos
	}
	return runtime.GOOS
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func commandError(name string, err error, out []byte) error {
	base := filepath.Base(name)
	if errors.Is(err, exec.ErrNotFound) && strings.EqualFold(base, SumatraName) {
		return fmt.Errorf("%w: %s", ErrNoSumatra, name)
	}
	msg := bytes.TrimSpace(out)
	if len(msg) == 0 {
		return fmt.Errorf("%s: %w", base, err)
	}
	return fmt.Errorf("%s: %w: %s", base, err, msg)
}

func formatCommand(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, s := range append([]string{name}, args...) {
		if s == "" || strings.ContainsAny(s, " \t\"") {
			s = strconv.Quote(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
