/*
 * options.go, part of dockprep.
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

package align

import "runtime"

const (
	// ProteinSelection selects the atoms that can be part of the pocket.
	ProteinSelection = "protein and backbone and not element H"
	// LigandSelection selects the atoms that define the pocket, and the ones written
	// to the ligand output.
	LigandSelection = "not protein and not element H"
)

// Options contains the options for the Run function.
type Options struct {
	cutoff       float64 //nm
	reference    string
	output       string
	ligandOutput string
	plot         string
	proteinSel   string
	ligandSel    string
	suffix       string
	ligandSuffix string
	cpus         int
}

// DefaultOptions returns the options used by the alignpdb tool when no flag is given:
// a 1 nm cutoff, "model.pdb" as reference, per-input outputs and all logical CPUs.
func DefaultOptions() *Options {
	r := new(Options)
	r.cutoff = 1.0
	r.reference = "model.pdb"
	r.proteinSel = ProteinSelection
	r.ligandSel = LigandSelection
	r.suffix = "_aligned"
	r.ligandSuffix = "_ligand_aligned"
	r.cpus = runtime.NumCPU()
	return r
}

// Returns the pocket cutoff, in nm, and sets it to a new value, if given.
// A cutoff of 0 or less gives an empty pocket.
func (O *Options) Cutoff(c ...float64) float64 {
	if len(c) > 0 {
		O.cutoff = c[0]
	}
	return O.cutoff
}

// Returns the reference file pattern, and sets it to a new value, if given.
func (O *Options) Reference(pattern ...string) string {
	if len(pattern) > 0 && pattern[0] != "" {
		O.reference = pattern[0]
	}
	return O.reference
}

// Returns the name of the file where all the aligned frames will be written
// and sets it to a new value, if given. If empty, each input gets its own output.
func (O *Options) Output(name ...string) string {
	if len(name) > 0 {
		O.output = name[0]
	}
	return O.output
}

// Same as Output, for the aligned ligand.
func (O *Options) LigandOutput(name ...string) string {
	if len(name) > 0 {
		O.ligandOutput = name[0]
	}
	return O.ligandOutput
}

// Returns the name of the RMSD plot, and sets it to a new value, if given.
// No plot is produced if empty.
func (O *Options) Plot(name ...string) string {
	if len(name) > 0 {
		O.plot = name[0]
	}
	return O.plot
}

// Returns the selection for the atoms that can form the pocket,
// and sets it to a new value, if given.
func (O *Options) ProteinSel(sel ...string) string {
	if len(sel) > 0 && sel[0] != "" {
		O.proteinSel = sel[0]
	}
	return O.proteinSel
}

// Returns the selection for the ligand atoms, and sets it to a new value, if given.
func (O *Options) LigandSel(sel ...string) string {
	if len(sel) > 0 && sel[0] != "" {
		O.ligandSel = sel[0]
	}
	return O.ligandSel
}

// Returns the suffix added to the stem of each input to name its aligned output,
// and sets it to a new value, if given.
func (O *Options) Suffix(s ...string) string {
	if len(s) > 0 && s[0] != "" {
		O.suffix = s[0]
	}
	return O.suffix
}

// Same as Suffix, for the ligand outputs.
func (O *Options) LigandSuffix(s ...string) string {
	if len(s) > 0 && s[0] != "" {
		O.ligandSuffix = s[0]
	}
	return O.ligandSuffix
}

// Returns the number of gorutines to be used,
// and sets it to a new value, if given.
func (O *Options) Cpus(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	return O.cpus
}
