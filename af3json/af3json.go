/*
 * af3json.go, part of dockprep.
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

package af3json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	chem "github.com/rmera/dockprep"
)

const (
	Dialect = "alphafold3"
	Version = 2
)

var (
	// ErrSequenceMismatch is returned when the number of protein sequences
	// doesn't match the number of protein chains.
	ErrSequenceMismatch = errors.New("mismatch between protein sequences and protein chains")
	// ErrEmpty is returned for structures with neither proteins nor ligands.
	ErrEmpty = errors.New("no protein, ligand or ion found")
)

// Protein is a protein entity, which can be present in several chains.
type Protein struct {
	ID       []string `json:"id"`
	Sequence string   `json:"sequence"`
}

// Ligand is a set of chemical component (CCD) codes, which can be present in several chains.
type Ligand struct {
	ID       []string `json:"id"`
	CCDCodes []string `json:"ccdCodes"`
}

// Sequence is one element of the "sequences" list. Only one of the fields is set.
type Sequence struct {
	Protein *Protein `json:"protein,omitempty"`
	Ligand  *Ligand  `json:"ligand,omitempty"`
}

// Input is an AlphaFold 3 input job.
type Input struct {
	Name            string     `json:"name"`
	ModelSeeds      []int      `json:"modelSeeds"`
	Sequences       []Sequence `json:"sequences"`
	BondedAtomPairs [][]any    `json:"bondedAtomPairs"`
	Dialect         string     `json:"dialect"`
	Version         int        `json:"version"`
}

// skipped are the residues never considered ligands.
var skipped = map[string]bool{"HOH": true, "WAT": true, "H2O": true}

// Sequences returns, for each chain of top, the one-letter sequence of its
// standard amino acids. Chains without amino acids give an empty string.
func Sequences(top *chem.Topology) []string {
	ret := make([]string, len(top.Chains()))
	for i, c := range top.Chains() {
		var b strings.Builder
		for _, r := range c.Residues {
			if code := top.Residue(r).Code(); code != 0 {
				b.WriteByte(code)
			}
		}
		ret[i] = b.String()
	}
	return ret
}

// FromMolecule builds an AlphaFold 3 input from the topology of mol.
// Identical protein sequences are grouped in one entity, and so are chains
// with the same set of ligands. If no seeds are given, a seed of 1 is used.
func FromMolecule(mol *chem.Molecule, name string, seeds ...int) (*Input, error) {
	top := mol.Topology
	var protChains []string
	var seqs []string
	for i, s := range Sequences(top) {
		if top.ChainIsProtein(i) {
			protChains = append(protChains, top.ChainLabel(i))
		}
		if s != "" {
			seqs = append(seqs, s)
		}
	}
	if len(seqs) > 0 && len(seqs) != len(protChains) {
		return nil, fmt.Errorf("%w: %d sequences, %d chains", ErrSequenceMismatch, len(seqs), len(protChains))
	}
	ret := &Input{
		Name:            name,
		ModelSeeds:      []int{1},
		Sequences:       make([]Sequence, 0, len(seqs)),
		BondedAtomPairs: [][]any{},
		Dialect:         Dialect,
		Version:         Version,
	}
	if len(seeds) > 0 {
		ret.ModelSeeds = append([]int(nil), seeds...)
	}
	//entities keep the order in which they were first seen.
	prots := make(map[string]*Protein)
	for i, s := range seqs {
		if p, ok := prots[s]; ok {
			p.ID = append(p.ID, protChains[i])
			continue
		}
		p := &Protein{ID: []string{protChains[i]}, Sequence: s}
		prots[s] = p
		ret.Sequences = append(ret.Sequences, Sequence{Protein: p})
	}
	var ligChains []string
	ligs := make(map[string]map[string]bool)
	for _, r := range top.Residues() {
		if r.IsProtein() {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(r.Name))
		if skipped[code] {
			continue
		}
		id := top.ChainLabel(r.ChainIndex)
		if ligs[id] == nil {
			ligs[id] = make(map[string]bool)
			ligChains = append(ligChains, id)
		}
		ligs[id][code] = true
	}
	groups := make(map[string]*Ligand)
	for _, id := range ligChains {
		codes := make([]string, 0, len(ligs[id]))
		for c := range ligs[id] {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		key := strings.Join(codes, " ")
		if l, ok := groups[key]; ok {
			l.ID = append(l.ID, id)
			continue
		}
		l := &Ligand{ID: []string{id}, CCDCodes: codes}
		groups[key] = l
		ret.Sequences = append(ret.Sequences, Sequence{Ligand: l})
	}
	if len(ret.Sequences) == 0 {
		return nil, ErrEmpty
	}
	for _, v := range ret.Sequences {
		if v.Protein != nil {
			sort.Strings(v.Protein.ID)
		} else {
			sort.Strings(v.Ligand.ID)
		}
	}
	return ret, nil
}

// Write writes the input as indented JSON to out.
func (I *Input) Write(out io.Writer) error {
	b, err := json.MarshalIndent(I, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = out.Write(b)
	return err
}

// WriteFile writes the input to the file name.
func WriteFile(name string, input *Input) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := f.Close(); err == nil {
			err = err2
		}
	}()
	return input.Write(f)
}

// OutputName returns the default output name for the input structure file name:
// the name with ".pdb" replaced by ".json" or, if the name contains no ".pdb",
// the stem of the name plus ".json", in the same directory.
func OutputName(input string) string {
	if strings.Contains(input, ".pdb") {
		return strings.ReplaceAll(input, ".pdb", ".json")
	}
	return filepath.Join(filepath.Dir(input), chem.Stem(input)+".json")
}

// JobName returns the job name for the given output file: its base name without extension.
func JobName(output string) string {
	base := filepath.Base(output)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
