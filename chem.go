/*
 * chem.go, part of dockprep.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package chem

import (
	"fmt"
	"sort"
	"strings"

	v3 "github.com/rmera/dockprep/v3"
)

/**Note: Some functions here panic instead of returning errors. If something goes wrong with them,
 * the program is most likely wrong and should crash. Those panics are related to
 * out of bounds indexes.**/

// Atom contains the atoms read except for the coordinates, which will be in a matrix
// and the b-factors, which are in a separate slice of float64.
type Atom struct {
	Name      string
	ID        int
	Tag       int //Just for something that someone might want to keep that is not a float.
	MolName   string
	MolName1  byte //the one letter name for residues
	MolID     int  //residue sequence number, as in the file
	InsCode   byte
	Chain     string
	Symbol    string
	Het       bool // is hetatm in the pdb file?
	Occupancy float64
	Charge    float64
	Char16    byte //alternate location

	index      int
	resIndex   int
	chainIndex int
}

//Atom methods

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	n := *A
	return &n
}

// Index returns the 0-based position of the atom in its topology.
func (A *Atom) Index() int { return A.index }

// ResIndex returns the 0-based ordinal of the atom's residue in its topology.
// It is not the residue number read from the file, which is MolID.
func (A *Atom) ResIndex() int { return A.resIndex }

// ChainIndex returns the 0-based ordinal of the atom's chain in its topology.
func (A *Atom) ChainIndex() int { return A.chainIndex }

// IsHydrogen returns true if the atom's element is hydrogen (or deuterium).
func (A *Atom) IsHydrogen() bool {
	s := strings.ToUpper(A.Symbol)
	return s == "H" || s == "D"
}

// IsProtein returns true if the atom belongs to an amino acid residue.
func (A *Atom) IsProtein() bool { return isProteinResidue(A.MolName) }

// IsBackbone returns true for the N, CA, C and O atoms of amino acid residues.
func (A *Atom) IsBackbone() bool {
	return A.IsProtein() && backboneNames[A.Name]
}

// IsNucleic returns true if the atom belongs to a nucleotide.
func (A *Atom) IsNucleic() bool { return isNucleicResidue(A.MolName) }

// IsWater returns true if the atom belongs to a water molecule.
func (A *Atom) IsWater() bool { return isWaterResidue(A.MolName) }

/*****Topology type***/

// Residue is a view of a group of consecutive atoms in a Topology
type Residue struct {
	Index      int //0-based ordinal
	Name       string
	SeqID      int //as read from the file
	InsCode    byte
	ChainIndex int
	Atoms      []int
}

// IsProtein returns true if the residue is an amino acid.
func (R Residue) IsProtein() bool { return isProteinResidue(R.Name) }

// IsNucleic returns true if the residue is a nucleotide.
func (R Residue) IsNucleic() bool { return isNucleicResidue(R.Name) }

// IsWater returns true if the residue is a water molecule.
func (R Residue) IsWater() bool { return isWaterResidue(R.Name) }

// Code returns the one-letter code for standard amino acids and
// their common variants, or 0 for anything else.
func (R Residue) Code() byte { return three2OneLetter[strings.ToUpper(R.Name)] }

// Chain is a view of a group of consecutive residues in a Topology.
type Chain struct {
	Index    int
	ID       string
	Residues []int
}

// Topology contains information about a molecule which is not expected to change in time
// (i.e. everything except for coordinates and b-factors)
type Topology struct {
	Atoms    []*Atom
	residues []Residue
	chains   []Chain
}

// NewTopology builds a topology from the given atoms. A new residue starts
// whenever the residue number, insertion code, residue name or chain of an atom
// differs from the previous atom, and a new chain whenever the chain identifier changes.
// The atoms are owned by the topology after the call.
func NewTopology(ats []*Atom) *Topology {
	return newTopology(ats, nil)
}

// newTopology is NewTopology, but atoms with indexes in breaks always start a new chain
// (for instance, after a TER record in a PDB file).
func newTopology(ats []*Atom, breaks map[int]bool) *Topology {
	T := &Topology{Atoms: ats}
	var prev *Atom
	for i, at := range ats {
		at.index = i
		newchain := prev == nil || breaks[i] || at.Chain != prev.Chain
		newres := newchain || at.MolID != prev.MolID || at.InsCode != prev.InsCode || at.MolName != prev.MolName
		if newchain {
			T.chains = append(T.chains, Chain{Index: len(T.chains), ID: at.Chain})
		}
		ch := &T.chains[len(T.chains)-1]
		if newres {
			T.residues = append(T.residues, Residue{
				Index:      len(T.residues),
				Name:       at.MolName,
				SeqID:      at.MolID,
				InsCode:    at.InsCode,
				ChainIndex: ch.Index,
			})
			ch.Residues = append(ch.Residues, len(T.residues)-1)
		}
		res := &T.residues[len(T.residues)-1]
		res.Atoms = append(res.Atoms, i)
		at.resIndex = res.Index
		at.chainIndex = ch.Index
		if at.MolName1 == 0 {
			at.MolName1 = three2OneLetter[strings.ToUpper(at.MolName)]
		}
		prev = at
	}
	return T
}

/*Topology methods*/

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() || i < 0 {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

// Residues returns the residues of the topology, in order.
func (T *Topology) Residues() []Residue { return T.residues }

// Chains returns the chains of the topology, in order.
func (T *Topology) Chains() []Chain { return T.chains }

// Residue returns the residue with ordinal i.
func (T *Topology) Residue(i int) Residue { return T.residues[i] }

// ChainIsProtein returns true if any residue in the ith chain is an amino acid.
func (T *Topology) ChainIsProtein(i int) bool {
	for _, r := range T.chains[i].Residues {
		if T.residues[r].IsProtein() {
			return true
		}
	}
	return false
}

// ChainLabel returns the identifier of the ith chain or, if the chain has
// none, a one-character label derived from its ordinal.
func (T *Topology) ChainLabel(i int) string {
	if id := T.chains[i].ID; id != "" {
		return id
	}
	return string(chainLetters[i%len(chainLetters)])
}

// Slice returns a new topology containing copies of the atoms with the given indexes.
// The indexes are sorted and duplicates ignored. Chains and residues
// keep their grouping, but are renumbered.
func (T *Topology) Slice(indexes []int) (*Topology, []int, error) {
	idx := sortedUnique(indexes)
	if len(idx) == 0 {
		return nil, nil, CError{"no atoms to slice", []string{"Slice"}}
	}
	ats := make([]*Atom, 0, len(idx))
	breaks := make(map[int]bool)
	prevchain := -1
	for i, v := range idx {
		if v < 0 || v >= T.Len() {
			return nil, nil, CError{fmt.Sprintf("atom index %d out of range (%d atoms)", v, T.Len()), []string{"Slice"}}
		}
		at := T.Atoms[v].Copy()
		if at.chainIndex != prevchain {
			breaks[i] = true
		}
		prevchain = at.chainIndex
		ats = append(ats, at)
	}
	return newTopology(ats, breaks), idx, nil
}

func sortedUnique(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	j := 0
	for i, v := range out {
		if i > 0 && v == out[j-1] {
			continue
		}
		out[j] = v
		j++
	}
	return out[:j]
}

/**Type Molecule**/

// Molecule contains all the info for a molecule in many states. The info that is expected to change between states,
// Coordinates and b-factors are stored separately from other atomic info.
type Molecule struct {
	*Topology
	Coords   []*v3.Matrix
	Bfactors [][]float64
}

// NewMolecule makes a molecule with ats atoms, coords coordinates, bfactors b-factors
// and returns it. It returns error if the number of atoms and coordinates don't match.
// bfactors can be nil.
func NewMolecule(coords []*v3.Matrix, top *Topology, bfactors [][]float64) (*Molecule, error) {
	if top == nil || len(coords) == 0 {
		return nil, CError{"nil topology or no coordinates", []string{"NewMolecule"}}
	}
	for i, c := range coords {
		if c.NVecs() != top.Len() {
			return nil, CError{fmt.Sprintf("frame %d has %d coordinates for %d atoms", i, c.NVecs(), top.Len()), []string{"NewMolecule"}}
		}
	}
	if bfactors != nil && len(bfactors) != len(coords) {
		return nil, CError{fmt.Sprintf("%d b-factor sets for %d frames", len(bfactors), len(coords)), []string{"NewMolecule"}}
	}
	return &Molecule{Topology: top, Coords: coords, Bfactors: bfactors}, nil
}

// NFrames returns the number of frames (models) in the molecule.
func (M *Molecule) NFrames() int {
	return len(M.Coords)
}

// Slice returns a new molecule containing only the atoms with the given indexes, in
// all frames.
func (M *Molecule) Slice(indexes []int) (*Molecule, error) {
	top, idx, err := M.Topology.Slice(indexes)
	if err != nil {
		return nil, errDecorate(err, "Molecule.Slice")
	}
	coords := make([]*v3.Matrix, len(M.Coords))
	for i, c := range M.Coords {
		coords[i] = v3.Zeros(len(idx))
		coords[i].SomeVecs(c, idx)
	}
	var bf [][]float64
	if M.Bfactors != nil {
		bf = make([][]float64, len(M.Bfactors))
		for i, b := range M.Bfactors {
			bf[i] = make([]float64, len(idx))
			for j, v := range idx {
				if v < len(b) {
					bf[i][j] = b[v]
				}
			}
		}
	}
	return NewMolecule(coords, top, bf)
}

// AppendFrames adds the frames (and b-factors, if both molecules have them) of
// other to M. The two molecules must have the same number of atoms.
func (M *Molecule) AppendFrames(other *Molecule) error {
	if other.Len() != M.Len() {
		return CError{fmt.Sprintf("can't append frames with %d atoms to a molecule with %d", other.Len(), M.Len()), []string{"AppendFrames"}}
	}
	if M.Bfactors != nil && other.Bfactors != nil {
		M.Bfactors = append(M.Bfactors, other.Bfactors...)
	} else {
		M.Bfactors = nil
	}
	M.Coords = append(M.Coords, other.Coords...)
	return nil
}
