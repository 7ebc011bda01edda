/*
 * atomicdata.go, part of dockprep.
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
	"strings"
	"unicode"
)

// A map for assigning mass to elements.
// Note that just common "bio-elements" and ions are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"D":  2.014,
	"Li": 6.94,
	"Be": 9.012,
	"B":  10.81,
	"C":  12.01,
	"N":  14.01,
	"O":  16.00,
	"F":  18.998,
	"Na": 22.99,
	"Mg": 24.30,
	"Al": 26.98,
	"Si": 28.08,
	"P":  30.97,
	"S":  32.06,
	"Cl": 35.45,
	"K":  39.1,
	"Ca": 40.08,
	"Cr": 51.996,
	"Mn": 54.94,
	"Fe": 55.84,
	"Co": 58.93,
	"Ni": 58.69,
	"Cu": 63.55,
	"Zn": 65.38,
	"Se": 78.96,
	"Br": 79.904,
	"Sr": 87.62,
	"Mo": 95.95,
	"Cd": 112.41,
	"I":  126.90,
	"Cs": 132.91,
	"Ba": 137.33,
	"Pt": 195.08,
	"Hg": 200.59,
}

// Mass returns the mass of the atom's element, or 0 if not known.
func (A *Atom) Mass() float64 { return symbolMass[A.Symbol] }

// backbone atom names for amino acids
var backboneNames = map[string]bool{
	"N":  true,
	"CA": true,
	"C":  true,
	"O":  true,
}

// three2OneLetter maps residue names to one letter codes. Protonation variants
// and alternative names used by simulation packages map to their parent residue.
var three2OneLetter = map[string]byte{
	"ALA": 'A',
	"ARG": 'R',
	"ARN": 'R',
	"ASN": 'N',
	"ASP": 'D',
	"ASH": 'D',
	"CYS": 'C',
	"CYX": 'C',
	"CYM": 'C',
	"GLN": 'Q',
	"GLU": 'E',
	"GLH": 'E',
	"GLY": 'G',
	"HIS": 'H',
	"HID": 'H',
	"HIE": 'H',
	"HIP": 'H',
	"HSD": 'H',
	"HSE": 'H',
	"HSP": 'H',
	"ILE": 'I',
	"LEU": 'L',
	"LYS": 'K',
	"LYN": 'K',
	"MET": 'M',
	"MSE": 'M',
	"PHE": 'F',
	"PRO": 'P',
	"SER": 'S',
	"THR": 'T',
	"TRP": 'W',
	"TYR": 'Y',
	"VAL": 'V',
	"SEC": 'U',
	"PYL": 'O',
}

// residues that count as protein but have no one-letter code
var proteinCaps = map[string]bool{
	"ACE": true,
	"NME": true,
	"NH2": true,
	"NMA": true,
}

var nucleicResidues = map[string]bool{
	"A": true, "C": true, "G": true, "U": true, "I": true,
	"DA": true, "DC": true, "DG": true, "DT": true, "DI": true, "DU": true,
	"RA": true, "RC": true, "RG": true, "RU": true,
	"A3": true, "A5": true, "C3": true, "C5": true, "G3": true, "G5": true, "U3": true, "U5": true,
	"DA3": true, "DA5": true, "DC3": true, "DC5": true, "DG3": true, "DG5": true, "DT3": true, "DT5": true,
}

var waterResidues = map[string]bool{
	"HOH": true,
	"WAT": true,
	"H2O": true,
	"SOL": true,
	"TIP": true,
	"TIP3": true,
	"SPC": true,
	"DOD": true,
}

func isProteinResidue(name string) bool {
	n := strings.ToUpper(name)
	_, ok := three2OneLetter[n]
	return ok || proteinCaps[n]
}

func isNucleicResidue(name string) bool { return nucleicResidues[strings.ToUpper(name)] }

func isWaterResidue(name string) bool { return waterResidues[strings.ToUpper(name)] }

// normalizeSymbol turns "CL" or "cl" into "Cl". It returns the empty string
// for empty input.
func normalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.TrimFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// symbolFromName guesses the element of an atom from its name, as
// used in PDB files. Hetero atoms whose whole name is a two-letter element (ions, mostly)
// get that element; otherwise, the first letter of the name is used.
func symbolFromName(name string, het bool) string {
	letters := strings.TrimFunc(strings.TrimSpace(name), func(r rune) bool { return !unicode.IsLetter(r) })
	if letters == "" {
		return ""
	}
	if het && len(letters) == 2 && letters == strings.TrimSpace(name) {
		s := normalizeSymbol(letters)
		if _, ok := symbolMass[s]; ok {
			return s
		}
	}
	return strings.ToUpper(letters[:1])
}
