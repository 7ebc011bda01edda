/*
 * log.go, part of dockprep.
 *
 * Copyright 2025 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * dockprep is developed at Universidad de Tarapaca (UTA)
 *
 */

// Package util contains the console reporting and process handling shared by the dockprep tools.
package util

import (
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"
)

var (
	warnColor    = color.New(color.FgYellow, color.Bold)
	errColor     = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen)
)

// Console prints progress messages for a user at a terminal. Warnings, errors
// and success messages are colored, unless the output is not a terminal.
type Console struct {
	out *log.Logger
	err *log.Logger
}

// NewConsole returns a Console that writes regular messages to out and warnings and errors to errout.
func NewConsole(out, errout io.Writer) *Console {
	return &Console{out: log.New(out, "", 0), err: log.New(errout, "", 0)}
}

// Infof prints a regular message.
func (C *Console) Infof(format string, v ...any) {
	C.out.Printf(format, v...)
}

// Successf prints a message announcing that something went well.
func (C *Console) Successf(format string, v ...any) {
	C.out.Print(successColor.Sprintf(format, v...))
}

// Warnf prints a warning.
func (C *Console) Warnf(format string, v ...any) {
	C.err.Print(warnColor.Sprint("WARNING: ") + fmt.Sprintf(format, v...))
}

// Errorf prints an error message.
func (C *Console) Errorf(format string, v ...any) {
	C.err.Print(errColor.Sprint("ERROR: ") + fmt.Sprintf(format, v...))
}

// Warning prints err as a warning, prefixed with the formatted v, if err is not nil.
// It returns true if err was not nil.
func (C *Console) Warning(err error, v ...any) bool {
	if err == nil {
		return false
	}
	if len(v) == 0 {
		C.Warnf("%s.", err)
	} else {
		format := v[0].(string)
		C.Warnf("%s: %s.", fmt.Sprintf(format, v[1:]...), err)
	}
	return true
}
