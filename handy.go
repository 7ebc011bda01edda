/*
 * handy.go, part of dockprep.
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

package chem

import (
	"path/filepath"
	"strings"
)

// Nm2A converts nanometers to Angstroms
func Nm2A(f float64) float64 {
	return f * 10
}

// A2Nm converts Angstroms to nanometers
func A2Nm(f float64) float64 {
	return f / 10
}

// Stem returns the base name of a structure file without the
// compression and format extensions: "dir/model.cif.gz" gives "model".
func Stem(name string) string {
	base := filepath.Base(name)
	if c := compressionOf(base); c != plain {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Sibling returns the path, in the same directory as name, of a file with
// the same stem plus suffix and extension ext (which should include the dot).
func Sibling(name, suffix, ext string) string {
	return filepath.Join(filepath.Dir(name), Stem(name)+suffix+ext)
}

// isInString returns true if test is in container, false otherwise.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
