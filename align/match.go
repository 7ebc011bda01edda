/*
 * match.go, part of dockprep.
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
	"fmt"
	"strings"

	chem "github.com/rmera/dockprep"
)

// AtomKey identifies an atom across structures with the same topology.
type AtomKey struct {
	Name    string
	ResName string
	Res     int //residue ordinal
	Chain   int //chain ordinal
}

func (K AtomKey) String() string {
	return fmt.Sprintf("%s/%s%d/chain %d", K.Name, K.ResName, K.Res, K.Chain)
}

// KeyOf returns the key of the atom.
func KeyOf(at *chem.Atom) AtomKey {
	return AtomKey{Name: at.Name, ResName: at.MolName, Res: at.ResIndex(), Chain: at.ChainIndex()}
}

// keyIndex maps each key in mol to its first atom, and returns the keys
// that appear more than once.
func keyIndex(mol chem.Atomer) (map[AtomKey]int, []AtomKey) {
	ret := make(map[AtomKey]int, mol.Len())
	var dups []AtomKey
	for i := 0; i < mol.Len(); i++ {
		k := KeyOf(mol.Atom(i))
		if _, ok := ret[k]; ok {
			dups = append(dups, k)
			continue
		}
		ret[k] = i
	}
	return ret, dups
}

// MatchAtoms returns, for each atom of ref in refIdx, the index of the atom in target
// with the same key. If several target atoms share a key, the first one is used.
// Atoms without a counterpart are dropped, so the returned slice may be shorter than refIdx.
func MatchAtoms(ref, target chem.Atomer, refIdx []int) []int {
	_, m, _ := match(ref, target, refIdx)
	return m
}

// MatchPairs is like MatchAtoms, but also returns the reference atoms that
// were matched, so the i-th elements of both slices correspond to each other.
func MatchPairs(ref, target chem.Atomer, refIdx []int) (refMatched, targetMatched []int) {
	r, t, _ := match(ref, target, refIdx)
	return r, t
}

// DuplicateKeys returns the keys shared by more than one atom of mol. Only the
// first of those atoms can be matched.
func DuplicateKeys(mol chem.Atomer) []AtomKey {
	_, d := keyIndex(mol)
	return d
}

// match returns the matched reference and target atoms, and the keys of the missing ones.
func match(ref, target chem.Atomer, refIdx []int) ([]int, []int, []AtomKey) {
	idx, _ := keyIndex(target)
	r := make([]int, 0, len(refIdx))
	t := make([]int, 0, len(refIdx))
	var missing []AtomKey
	for _, i := range refIdx {
		k := KeyOf(ref.Atom(i))
		if j, ok := idx[k]; ok {
			r = append(r, i)
			t = append(t, j)
			continue
		}
		missing = append(missing, k)
	}
	return r, t, missing
}

// MismatchError is returned when not all the reference atoms used
// for the alignment have a counterpart in the target.
type MismatchError struct {
	Expected int
	Found    int
	Missing  []AtomKey
}

func (E *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "atom mismatch: %d atoms selected in the reference, %d found in the target", E.Expected, E.Found)
	if len(E.Missing) > 0 {
		max := len(E.Missing)
		if max > 5 {
			max = 5
		}
		names := make([]string, max)
		for i, v := range E.Missing[:max] {
			names[i] = v.String()
		}
		fmt.Fprintf(&b, " (missing: %s", strings.Join(names, ", "))
		if len(E.Missing) > max {
			fmt.Fprintf(&b, " and %d more", len(E.Missing)-max)
		}
		b.WriteString(")")
	}
	return b.String()
}

// matchChecked is like MatchAtoms, but returns a *MismatchError if some atom has no counterpart.
func matchChecked(ref, target chem.Atomer, refIdx []int) ([]int, error) {
	_, m, missing := match(ref, target, refIdx)
	if len(m) != len(refIdx) {
		return nil, &MismatchError{Expected: len(refIdx), Found: len(m), Missing: missing}
	}
	return m, nil
}
