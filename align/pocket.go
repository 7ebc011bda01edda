/*
 * pocket.go, part of dockprep.
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

import (
	"errors"
	"fmt"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/sele"
	v3 "github.com/rmera/dockprep/v3"
)

// ErrNoProtein is returned when the reference has no atoms that can be part of the pocket.
var ErrNoProtein = errors.New("no protein backbone heavy atoms in the reference")

// Fallback tells whether, and why, the pocket was replaced by the whole backbone.
type Fallback int

const (
	// NoFallback means the pocket is the set of atoms close to the ligand.
	NoFallback Fallback = iota
	// NoLigand means the reference had no ligand atoms.
	NoLigand
	// EmptyPocket means no protein atom was within the cutoff of the ligand.
	EmptyPocket
)

func (F Fallback) String() string {
	switch F {
	case NoLigand:
		return "no ligand in the reference, using the whole backbone"
	case EmptyPocket:
		return "no backbone atoms within the cutoff of the ligand, using the whole backbone"
	}
	return "none"
}

// PocketResult contains the atoms of a reference structure used for the alignment.
type PocketResult struct {
	Indexes   []int //the atoms for the fit, sorted
	Protein   []int //all the atoms that could be part of the pocket
	Ligand    []int
	HasLigand bool
	Fallback  Fallback
}

// Pocket determines the pocket of the first frame of mol, using the default
// protein and ligand selections. cutoff is in A.
func Pocket(mol *chem.Molecule, cutoff float64) (*PocketResult, error) {
	return PocketSel(mol, cutoff, ProteinSelection, LigandSelection)
}

// PocketSel determines the pocket of the first frame of mol: the atoms in
// proteinSel closer than cutoff (A) to any atom in ligandSel. If there are no
// ligand atoms, or no atoms are close enough, all the proteinSel atoms are used.
func PocketSel(mol *chem.Molecule, cutoff float64, proteinSel, ligandSel string) (*PocketResult, error) {
	if mol == nil || mol.NFrames() == 0 {
		return nil, fmt.Errorf("Pocket: %w", chem.ErrNoAtoms)
	}
	protein, err := sele.Select(mol, proteinSel)
	if err != nil {
		return nil, fmt.Errorf("Pocket: protein selection: %w", err)
	}
	if len(protein) == 0 {
		return nil, ErrNoProtein
	}
	ligand, err := sele.Select(mol, ligandSel)
	if err != nil {
		return nil, fmt.Errorf("Pocket: ligand selection: %w", err)
	}
	r := &PocketResult{Protein: protein, Ligand: ligand, HasLigand: len(ligand) > 0}
	if !r.HasLigand {
		r.Indexes = protein
		r.Fallback = NoLigand
		return r, nil
	}
	r.Indexes = WithinCutoff(mol.Coords[0], protein, ligand, cutoff)
	if len(r.Indexes) == 0 {
		r.Indexes = protein
		r.Fallback = EmptyPocket
	}
	return r, nil
}

// WithinCutoff returns the elements of candidates whose distance to the closest
// atom in ligand is strictly smaller than cutoff, keeping their order.
func WithinCutoff(coords *v3.Matrix, candidates, ligand []int, cutoff float64) []int {
	ret := make([]int, 0, len(candidates)/4)
	if cutoff <= 0 || len(ligand) == 0 {
		return ret
	}
	for i, d := range chem.MinDistances(coords, candidates, ligand) {
		if d < cutoff {
			ret = append(ret, candidates[i])
		}
	}
	return ret
}
