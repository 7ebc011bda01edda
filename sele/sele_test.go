/*
 * sele_test.go, part of dockprep.
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
 */

package sele

import (
	"errors"
	"strings"
	"testing"

	chem "github.com/rmera/dockprep"
	"github.com/stretchr/testify/require"
)

const testPDB = `ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00 10.00           N
ATOM      2  CA  ALA A   1       1.458   0.000   0.000  1.00 10.00           C
ATOM      3  C   ALA A   1       2.009   1.420   0.000  1.00 10.00           C
ATOM      4  O   ALA A   1       1.251   2.390   0.000  1.00 10.00           O
ATOM      5  CB  ALA A   1       1.988  -0.773  -1.199  1.00 10.00           C
ATOM      6  H   ALA A   1      -0.500  -0.800   0.000  1.00 10.00           H
ATOM      7  N   GLY A   2       3.332   1.536   0.000  1.00 10.00           N
ATOM      8  CA  GLY A   2       3.988   2.839   0.000  1.00 10.00           C
ATOM      9  C   GLY A   2       5.504   2.693   0.000  1.00 10.00           C
ATOM     10  O   GLY A   2       6.044   1.583   0.000  1.00 10.00           O
TER
HETATM   11  C1  LIG B 101       4.000   4.000   4.000  1.00 20.00           C
HETATM   12  O1  LIG B 101       4.500   4.000   4.000  1.00 20.00           O
HETATM   13  H1  LIG B 101       4.000   4.800   4.000  1.00 20.00           H
HETATM   14 ZN    ZN C 102       6.000   6.000   6.000  1.00 20.00          ZN
HETATM   15  O   HOH D 201       8.000   8.000   8.000  1.00 30.00           O
END
`

func testMol(Te *testing.T) *chem.Molecule {
	mol, err := chem.PDBRead(strings.NewReader(testPDB))
	require.NoError(Te, err)
	require.Equal(Te, 15, mol.Len())
	return mol
}

func TestSelect(Te *testing.T) {
	mol := testMol(Te)
	cases := []struct {
		expr string
		want []int
	}{
		{"all", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}},
		{"none", []int{}},
		{"protein and backbone and not element H", []int{0, 1, 2, 3, 6, 7, 8, 9}},
		{"not protein and not element H", []int{10, 11, 13, 14}},
		{"not protein and not water and not element h", []int{10, 11, 13}},
		{"sidechain", []int{4}},
		{"water", []int{14}},
		{"hetero && !water", []int{10, 11, 12, 13}},
		{"resname LIG", []int{10, 11, 12}},
		{"resname LIG ZN", []int{10, 11, 12, 13}},
		{"name CA CB", []int{1, 4, 7}},
		{"name \"CA\"", []int{1, 7}},
		{"resid 1", []int{6, 7, 8, 9}},
		{"resid 2 to 3", []int{10, 11, 12, 13}},
		{"resid 2:3", []int{10, 11, 12, 13}},
		{"resSeq > 100", []int{10, 11, 12, 13, 14}},
		{"resnum ge 102", []int{13, 14}},
		{"index < 2", []int{0, 1}},
		{"serial 14", []int{13}},
		{"chainid 1", []int{10, 11, 12}},
		{"chain C D", []int{13, 14}},
		{"element zn", []int{13}},
		{"rescode G", []int{6, 7, 8, 9}},
		{"mass > 30", []int{13}},
		{"resname != LIG and chain B", []int{}},
		{"(name CA or name C) and resid 0", []int{1, 2}},
		{"name CA or name C and resid 0", []int{1, 2, 7}},
		{"NOT Protein AND Not Water", []int{10, 11, 12, 13}},
		{"not not water", []int{14}},
	}
	for _, c := range cases {
		got, err := Select(mol, c.expr)
		require.NoError(Te, err, c.expr)
		require.Equal(Te, c.want, got, c.expr)
	}
}

func TestSyntaxErrors(Te *testing.T) {
	mol := testMol(Te)
	for _, expr := range []string{
		"",
		"   ",
		"protein and",
		"(protein",
		"protein)",
		"foo",
		"name",
		"resid x",
		"resid 1 to",
		"resname < A",
		"name = CA",
		"name 'CA",
		"protein & water",
		"resid 1:b",
	} {
		_, err := Select(mol, expr)
		require.Error(Te, err, expr)
		var serr *SyntaxError
		require.True(Te, errors.As(err, &serr), expr)
		require.Equal(Te, expr, serr.Expr)
		require.GreaterOrEqual(Te, serr.Pos, 0)
		require.LessOrEqual(Te, serr.Pos, len(expr))
	}
	_, err := Select(mol, "protein and foo")
	var serr *SyntaxError
	require.True(Te, errors.As(err, &serr))
	require.Equal(Te, 12, serr.Pos)
}

func TestSelectNonEmpty(Te *testing.T) {
	mol := testMol(Te)
	_, err := SelectNonEmpty(mol, "resname XYZ")
	require.True(Te, errors.Is(err, ErrNoMatch))
	r, err := SelectNonEmpty(mol, "water")
	require.NoError(Te, err)
	require.Equal(Te, []int{14}, r)
}
