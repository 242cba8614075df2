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
	"sync"

	"golang.org/x/term"

	"seehuhn.de/go/pdf"
)

// passwords supplies the passwords for encrypted input files.
//
// The password from the command line is tried first.  After this, the user
// is prompted, if standard input is a terminal.  Several files may be opened
// concurrently, so prompts are serialized.
type passwords struct {
	given string
	mu    sync.Mutex
}

func (p *passwords) readerOptions(path string) *pdf.ReaderOptions {
	return &pdf.ReaderOptions{
		ReadPassword: func(_ []byte, try int) string {
			return p.read(path, try)
		},
		ErrorHandling: pdf.ErrorHandlingReport,
	}
}

func (p *passwords) read(path string, try int) string {
	if p.given != "" {
		if try == 0 {
			return p.given
		}
		try--
	}
	if try >= 3 || !term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(os.Stderr, "password for %s: ", path)
	passwd, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return string(passwd)
}
