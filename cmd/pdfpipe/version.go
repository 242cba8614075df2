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

package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
)

// version returns the tool name together with the module version, or the
// VCS revision for development builds.
func version(tool string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return tool
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return fmt.Sprintf("%s %s (%s)", tool, v, runtime.Version())
	}

	settings := make(map[string]string)
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	rev := settings["vcs.revision"]
	if rev == "" {
		return tool + " (devel)"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if settings["vcs.modified"] == "true" {
		rev += "+dirty"
	}
	return fmt.Sprintf("%s devel %s (%s)", tool, rev, runtime.Version())
}

// startProfile starts CPU profiling if cpuFile is non-empty.  The returned
// function stops the CPU profile and writes a heap profile to memFile, if
// memFile is non-empty.
func startProfile(cpuFile, memFile string) (func(), error) {
	var cpu *os.File
	if cpuFile != "" {
		var err error
		cpu, err = os.Create(cpuFile)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(cpu); err != nil {
			cpu.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
	}

	stop := func() {
		if cpu != nil {
			pprof.StopCPUProfile()
			cpu.Close()
		}
		if memFile == "" {
			return
		}
		if err := writeHeapProfile(memFile); err != nil {
			fmt.Fprintln(os.Stderr, "memory profile:", err)
		}
	}
	return stop, nil
}

func writeHeapProfile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	runtime.GC()
	err = pprof.Lookup("allocs").WriteTo(f, 0)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}
