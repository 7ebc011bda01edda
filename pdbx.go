/*
 * pdbx.go, part of dockprep.
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

var tl func(string) string = strings.ToLower

// PDBxRead reads the _atom_site loop of the first data block of an mmCIF (PDBx) file.
// auth_* columns are preferred over their label_* counterparts. Each distinct
// pdbx_PDB_model_num gives a frame, all of them with the atoms of the first model.
func PDBxRead(cif io.Reader) (*Molecule, error) {
	mol, err := pdbxBufIORead(cif)
	return mol, errDecorate(err, "PDBxRead")
}

// pdbxmap maps the lower-case names of the _atom_site columns to their positions.
type pdbxmap map[string]int

// get returns the value for the column s in row, or the empty string if
// the column is absent or the value is one of the CIF null markers.
func (m pdbxmap) get(row []string, s string) string {
	i, ok := m["_atom_site."+s]
	if !ok || i >= len(row) {
		return ""
	}
	v := row[i]
	if v == "." || v == "?" {
		return ""
	}
	return v
}

// first returns the first non-empty value among the given columns.
func (m pdbxmap) first(row []string, cols ...string) string {
	for _, c := range cols {
		if v := m.get(row, c); v != "" {
			return v
		}
	}
	return ""
}

// cifFields splits a CIF line in tokens. Values can be delimited by single or
// double quotes, a quote only closes a value when followed by whitespace or
// the end of the line.
func cifFields(line string) []string {
	var out []string
	i := 0
	n := len(line)
	for i < n {
		for i < n && (line[i] == ' ' || line[i] == '\t' || line[i] == '\r' || line[i] == '\n') {
			i++
		}
		if i >= n {
			break
		}
		if q := line[i]; q == '\'' || q == '"' {
			j := i + 1
			for j < n {
				if line[j] == q && (j+1 == n || line[j+1] == ' ' || line[j+1] == '\t' || line[j+1] == '\r' || line[j+1] == '\n') {
					break
				}
				j++
			}
			out = append(out, line[i+1:min(j, n)])
			i = j + 1
			continue
		}
		j := i
		for j < n && line[j] != ' ' && line[j] != '\t' && line[j] != '\r' && line[j] != '\n' {
			j++
		}
		out = append(out, line[i:j])
		i = j
	}
	return out
}

type pdbxAtomSite struct {
	m      pdbxmap
	ncols  int
	atoms  []*Atom
	breaks map[int]bool
	coords [][]float64
	bfacs  [][]float64
	alts   altLocs
	models []string
	frame  int
}

func (p *pdbxAtomSite) row(row []string) error {
	m := p.m
	model := m.get(row, "pdbx_pdb_model_num")
	if len(p.models) == 0 {
		p.models = append(p.models, model)
	} else if model != p.models[len(p.models)-1] {
		p.models = append(p.models, model)
		p.frame++
		p.coords = append(p.coords, make([]float64, 0, 3*len(p.atoms)))
		p.bfacs = append(p.bfacs, make([]float64, 0, len(p.atoms)))
		p.alts = make(altLocs)
	}
	at := new(Atom)
	var err error
	at.Het = m.get(row, "group_pdb") == "HETATM"
	if id := m.get(row, "id"); id != "" {
		at.ID, _ = strconv.Atoi(id)
	}
	at.Name = m.first(row, "auth_atom_id", "label_atom_id")
	at.MolName = m.first(row, "auth_comp_id", "label_comp_id")
	at.Chain = m.first(row, "auth_asym_id", "label_asym_id")
	at.Char16 = ' '
	if alt := m.get(row, "label_alt_id"); alt != "" {
		at.Char16 = alt[0]
	}
	at.InsCode = ' '
	if ins := m.get(row, "pdbx_pdb_ins_code"); ins != "" {
		at.InsCode = ins[0]
	}
	if seq := m.first(row, "auth_seq_id", "label_seq_id"); seq != "" {
		at.MolID, err = strconv.Atoi(seq)
		if err != nil {
			return fmt.Errorf("Couldn't parse residue number from %s: %w", seq, err)
		}
	}
	at.Symbol = normalizeSymbol(m.get(row, "type_symbol"))
	if at.Symbol == "" {
		at.Symbol = symbolFromName(at.Name, at.Het)
	}
	at.Occupancy = 1.0
	if occ := m.get(row, "occupancy"); occ != "" {
		if f, err := strconv.ParseFloat(occ, 64); err == nil {
			at.Occupancy = f
		}
	}
	//Charge, but we won't do anything if we somehow can't read it.
	if ch := m.get(row, "pdbx_formal_charge"); ch != "" {
		if f, err := strconv.ParseFloat(ch, 64); err == nil {
			at.Charge = f
		}
	}
	c := make([]float64, 3)
	for j, v := range []string{"cartn_x", "cartn_y", "cartn_z"} {
		s := m.get(row, v)
		c[j], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("Couldn't parse %d th cartesian coordinate from %q: %w", j, s, err)
		}
	}
	var bf float64
	if b := m.get(row, "b_iso_or_equiv"); b != "" {
		bf, _ = strconv.ParseFloat(b, 64)
	}
	if p.alts.skip(at) {
		return nil
	}
	if p.frame == 0 {
		at.MolName1 = three2OneLetter[strings.ToUpper(at.MolName)]
		p.atoms = append(p.atoms, at)
	} else if len(p.coords[p.frame])/3 >= len(p.atoms) {
		return fmt.Errorf("model %s has more atoms than the first one (%d)", model, len(p.atoms))
	}
	p.coords[p.frame] = append(p.coords[p.frame], c...)
	p.bfacs[p.frame] = append(p.bfacs[p.frame], bf)
	return nil
}

func pdbxBufIORead(cif io.Reader) (*Molecule, error) {
	scanner := bufio.NewScanner(cif)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	hp := strings.HasPrefix
	p := &pdbxAtomSite{
		m:      make(pdbxmap),
		breaks: make(map[int]bool),
		coords: [][]float64{make([]float64, 0, 300)},
		bfacs:  [][]float64{make([]float64, 0, 100)},
		alts:   make(altLocs),
	}
	var inloop, header, reading, done, blockseen bool
	var pending []string
	for scanner.Scan() && !done {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		low := tl(trimmed)
		if trimmed == "" {
			continue
		}
		if hp(low, "data_") {
			if blockseen {
				break //only the first data block is read
			}
			blockseen = true
			continue
		}
		if reading {
			//the loop ends with a new item, loop or comment.
			if hp(trimmed, "_") || hp(low, "loop_") || hp(trimmed, "#") {
				done = true
				break
			}
			if hp(trimmed, ";") {
				continue
			}
			pending = append(pending, cifFields(trimmed)...)
			for len(pending) >= p.ncols {
				if err := p.row(pending[:p.ncols]); err != nil {
					return nil, fmt.Errorf("pdbxBufIORead: Couldn't read atom %d: %w", len(p.atoms)+1, err)
				}
				pending = pending[p.ncols:]
			}
			continue
		}
		if hp(low, "loop_") {
			inloop = true
			header = true
			p.m = make(pdbxmap)
			p.ncols = 0
			continue
		}
		if inloop && header {
			if hp(trimmed, "_") {
				name := strings.Fields(low)[0]
				p.m[name] = p.ncols
				p.ncols++
				continue
			}
			header = false
			if _, ok := p.m["_atom_site.cartn_x"]; ok {
				reading = true
				pending = append(pending, cifFields(trimmed)...)
				for len(pending) >= p.ncols {
					if err := p.row(pending[:p.ncols]); err != nil {
						return nil, fmt.Errorf("pdbxBufIORead: Couldn't read atom %d: %w", len(p.atoms)+1, err)
					}
					pending = pending[p.ncols:]
				}
				continue
			}
			inloop = false
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pdbxBufIORead: %w", err)
	}
	if len(p.atoms) == 0 {
		return nil, ErrNoAtoms
	}
	return buildMolecule(newTopology(p.atoms, p.breaks), p.coords, p.bfacs)
}

// cifQuote returns s as a valid CIF value, quoting it if needed.
func cifQuote(s string) string {
	if s == "" {
		return "."
	}
	if !strings.ContainsAny(s, " \t'\"") && !strings.ContainsAny(s[:1], "_#$;[]") {
		return s
	}
	if strings.Contains(s, "\"") {
		return "'" + s + "'"
	}
	return "\"" + s + "\""
}

// PDBxWrite writes the frames in coords, with the topology mol, to out as an mmCIF _atom_site loop.
// name is used for the data block.
func PDBxWrite(out io.Writer, mol Atomer, coords []*v3.Matrix, bfact [][]float64, name string) error {
	if name == "" {
		name = "dockprep"
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "data_%s\n#\n", strings.ReplaceAll(name, " ", "_"))
	cols := []string{"group_PDB", "id", "type_symbol", "label_atom_id", "label_alt_id", "label_comp_id",
		"label_asym_id", "label_seq_id", "pdbx_PDB_ins_code", "Cartn_x", "Cartn_y", "Cartn_z",
		"occupancy", "B_iso_or_equiv", "pdbx_formal_charge", "auth_seq_id", "auth_comp_id",
		"auth_asym_id", "auth_atom_id", "pdbx_PDB_model_num"}
	fmt.Fprintf(w, "loop_\n")
	for _, c := range cols {
		fmt.Fprintf(w, "_atom_site.%s\n", c)
	}
	for i, v := range coords {
		if v.NVecs() != mol.Len() {
			return CError{fmt.Sprintf("Reference (%d) and Coords (%d) don't have the same number of atoms", mol.Len(), v.NVecs()), []string{"PDBxWrite"}}
		}
		for j := 0; j < mol.Len(); j++ {
			a := mol.Atom(j)
			het := "ATOM"
			if a.Het {
				het = "HETATM"
			}
			alt := "."
			if a.Char16 != ' ' && a.Char16 != 0 {
				alt = string(a.Char16)
			}
			ins := "?"
			if a.InsCode != ' ' && a.InsCode != 0 {
				ins = string(a.InsCode)
			}
			chain := cifQuote(a.Chain)
			if a.Chain == "" {
				chain = pdbChainID(a)
			}
			bf := 0.0
			if len(bfact) > i && len(bfact[i]) > j {
				bf = bfact[i][j]
			}
			sym := a.Symbol
			if sym == "" {
				sym = "?"
			}
			nm := cifQuote(a.Name)
			rn := cifQuote(a.MolName)
			fmt.Fprintf(w, "%s %d %s %s %s %s %s %d %s %.3f %.3f %.3f %.2f %.2f %d %d %s %s %s %d\n",
				het, j+1, sym, nm, alt, rn, chain, a.MolID, ins,
				v.At(j, 0), v.At(j, 1), v.At(j, 2), a.Occupancy, bf, int(a.Charge),
				a.MolID, rn, chain, nm, i+1)
		}
	}
	fmt.Fprintf(w, "#\n")
	return w.Flush()
}
