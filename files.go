/*
 * files.go, part of dockprep.
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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/rmera/dockprep/v3"
)

//PDB files

// PDBRead reads a PDB file from an io.Reader. Returns a Molecule. If there is one frame in the PDB
// the coordinates array will be of length 1. Only the first alternate location of each atom is kept.
// All the models in a multi-model file must contain the same atoms as the first one.
func PDBRead(pdb io.Reader) (*Molecule, error) {
	mol, err := pdbBufIORead(pdb)
	return mol, errDecorate(err, "PDBRead")
}

// pdbpad pads a PDB line to 80 columns, so fixed-column slicing is always safe.
func pdbpad(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 80 {
		line += strings.Repeat(" ", 80-len(line))
	}
	return line
}

func pdbParseAtom(line string) (*Atom, []float64, float64, error) {
	at := new(Atom)
	var err error
	at.Het = strings.HasPrefix(line, "HETATM")
	at.ID, err = strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		at.ID = -1 //hybrid-36 or garbage, renumbered later
	}
	at.Name = strings.TrimSpace(line[12:16])
	at.Char16 = line[16]
	at.MolName = strings.TrimSpace(line[17:21])
	at.Chain = strings.TrimSpace(line[21:22])
	at.MolID, err = strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("bad residue number %q: %w", line[22:26], err)
	}
	at.InsCode = line[26]
	coords := make([]float64, 3)
	for i := 0; i < 3; i++ {
		field := strings.TrimSpace(line[30+8*i : 38+8*i])
		coords[i], err = strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("bad coordinate %q: %w", field, err)
		}
	}
	at.Occupancy = 1.0
	if f := strings.TrimSpace(line[54:60]); f != "" {
		if occ, err := strconv.ParseFloat(f, 64); err == nil {
			at.Occupancy = occ
		}
	}
	var bfac float64
	if f := strings.TrimSpace(line[60:66]); f != "" {
		bfac, _ = strconv.ParseFloat(f, 64)
	}
	at.Symbol = normalizeSymbol(line[76:78])
	if at.Symbol == "" {
		at.Symbol = symbolFromName(at.Name, at.Het)
	}
	at.Charge = pdbParseCharge(line[78:80])
	return at, coords, bfac, nil
}

// pdbParseCharge reads charges in the "2+" format. Anything else is a 0.
func pdbParseCharge(s string) float64 {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return 0
	}
	n, err := strconv.Atoi(s[:1])
	if err != nil {
		return 0
	}
	if s[1] == '-' {
		return -float64(n)
	}
	return float64(n)
}

// altLocs keeps the first alternate location seen for each residue
// (chain, residue number and insertion code).
type altLocs map[string]byte

// skip returns true if at is in an alternate location other than the
// first one seen for its residue.
func (A altLocs) skip(at *Atom) bool {
	if at.Char16 == ' ' || at.Char16 == 0 {
		return false
	}
	key := fmt.Sprintf("%s|%d|%c", at.Chain, at.MolID, at.InsCode)
	first, ok := A[key]
	if !ok {
		A[key] = at.Char16
		return false
	}
	return first != at.Char16
}

func pdbBufIORead(pdb io.Reader) (*Molecule, error) {
	scanner := bufio.NewScanner(pdb)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	molecule := make([]*Atom, 0)
	breaks := make(map[int]bool)
	coords := [][]float64{make([]float64, 0, 300)}
	bfactors := [][]float64{make([]float64, 0, 100)}
	alts := make(altLocs)
	model := 0 //the index of the model being read
	pendingTER := false
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MODEL"):
			if len(coords[model]) > 0 {
				model++
				coords = append(coords, make([]float64, 0, 3*len(molecule)))
				bfactors = append(bfactors, make([]float64, 0, len(molecule)))
			}
			alts = make(altLocs)
			continue
		case strings.HasPrefix(line, "ENDMDL"):
			pendingTER = true
			continue
		case strings.HasPrefix(line, "TER"):
			pendingTER = true
			continue
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
		default:
			continue
		}
		at, c, b, err := pdbParseAtom(pdbpad(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		if alts.skip(at) {
			continue
		}
		if model == 0 {
			if pendingTER {
				breaks[len(molecule)] = true
			}
			molecule = append(molecule, at)
		} else if len(coords[model])/3 >= len(molecule) {
			return nil, CError{fmt.Sprintf("model %d has more atoms than the first one (%d)", model+1, len(molecule)), []string{"pdbBufIORead"}}
		}
		pendingTER = false
		coords[model] = append(coords[model], c...)
		bfactors[model] = append(bfactors[model], b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pdbBufIORead: %w", err)
	}
	if len(molecule) == 0 {
		return nil, ErrNoAtoms
	}
	//an empty trailing model (i.e. a MODEL record with nothing after it) is dropped
	if len(coords[model]) == 0 {
		coords = coords[:model]
		bfactors = bfactors[:model]
	}
	return buildMolecule(newTopology(molecule, breaks), coords, bfactors)
}

// buildMolecule puts together coordinates read as flat slices and a topology.
func buildMolecule(top *Topology, coords, bfactors [][]float64) (*Molecule, error) {
	frames := make([]*v3.Matrix, len(coords))
	var err error
	for i, c := range coords {
		if len(c) != 3*top.Len() {
			return nil, CError{fmt.Sprintf("model %d has %d atoms, the first one has %d", i+1, len(c)/3, top.Len()), []string{"buildMolecule"}}
		}
		frames[i], err = v3.NewMatrix(c)
		if err != nil {
			return nil, fmt.Errorf("buildMolecule: Couldn't transform coordinates from frame %d: %w", i, err)
		}
	}
	return NewMolecule(frames, top, bfactors)
}

/***End of PDB reading***/

/***PDB writing***/

const chainLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789abcdefghijklmnopqrstuvwxyz"

// pdbChainID returns the one character chain identifier used when writing at. Atoms
// with no identifier, or one that doesn't fit, get a letter derived from their chain ordinal.
func pdbChainID(at *Atom) string {
	if len(at.Chain) == 1 {
		return at.Chain
	}
	//longer mmCIF identifiers would collapse into one when truncated.
	return chainLetters[at.chainIndex%len(chainLetters) : at.chainIndex%len(chainLetters)+1]
}

// pdbAtomName aligns the atom name in the 4 column field: names
// of less than 4 characters with one-letter elements start in the second column.
func pdbAtomName(at *Atom) string {
	if len(at.Name) >= 4 {
		return at.Name[:4]
	}
	if len(at.Symbol) == 1 || at.Symbol == "" {
		return fmt.Sprintf(" %-3s", at.Name)
	}
	return fmt.Sprintf("%-4s", at.Name)
}

func pdbResName(name string) string {
	if len(name) > 3 {
		if len(name) > 4 {
			name = name[:4]
		}
		return name
	}
	return fmt.Sprintf("%3s ", name)
}

func pdbCharge(c float64) string {
	n := int(c)
	switch {
	case n > 0 && n < 10:
		return fmt.Sprintf("%d+", n)
	case n < 0 && n > -10:
		return fmt.Sprintf("%d-", -n)
	}
	return "  "
}

func printable(c byte) byte {
	if c == 0 {
		return ' '
	}
	return c
}

// PDBWrite writes the frames in coords, with the topology in mol, to out in PDB format.
// More than one frame produces a multi-model file. bfact can be nil.
// Atoms are renumbered from 1, a TER record closes every chain.
func PDBWrite(out io.Writer, mol Atomer, coords []*v3.Matrix, bfact [][]float64) error {
	w := bufio.NewWriter(out)
	for i, c := range coords {
		if c.NVecs() != mol.Len() {
			return CError{fmt.Sprintf("frame %d has %d coordinates for %d atoms", i, c.NVecs(), mol.Len()), []string{"PDBWrite"}}
		}
		if len(coords) > 1 {
			fmt.Fprintf(w, "MODEL     %4d\n", i+1)
		}
		serial := 1
		for j := 0; j < mol.Len(); j++ {
			at := mol.Atom(j)
			rec := "ATOM"
			if at.Het {
				rec = "HETATM"
			}
			bf := 0.0
			if len(bfact) > i && len(bfact[i]) > j {
				bf = bfact[i][j]
			}
			fmt.Fprintf(w, "%-6s%5d %-4s%c%s%1s%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%2s\n",
				rec, serial%100000, pdbAtomName(at), printable(at.Char16), pdbResName(at.MolName), pdbChainID(at),
				at.MolID%10000, printable(at.InsCode), c.At(j, 0), c.At(j, 1), c.At(j, 2),
				at.Occupancy, bf, strings.ToUpper(at.Symbol), pdbCharge(at.Charge))
			serial++
			if j == mol.Len()-1 || mol.Atom(j+1).ChainIndex() != at.ChainIndex() {
				fmt.Fprintf(w, "TER   %5d      %s%1s%4d%c\n", serial%100000, pdbResName(at.MolName), pdbChainID(at), at.MolID%10000, printable(at.InsCode))
				serial++
			}
		}
		if len(coords) > 1 {
			fmt.Fprintf(w, "ENDMDL\n")
		}
	}
	fmt.Fprintf(w, "END\n")
	return w.Flush()
}
