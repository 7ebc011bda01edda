/*
 * main_test.go, part of dockprep.
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

package main

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/cmd/util"
	"github.com/rmera/dockprep/sele"
	"github.com/stretchr/testify/require"
)

const testPDB = `MODEL        1
ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00 10.00           N
ATOM      2  CA  ALA A   1       1.458   0.000   0.000  1.00 10.00           C
ATOM      3  C   ALA A   1       2.009   1.420   0.000  1.00 10.00           C
ATOM      4  O   ALA A   1       1.251   2.390   0.000  1.00 10.00           O
TER
HETATM    5  C1  8PF B 101       4.000   4.000   4.000  1.00 20.00           C
HETATM    6  O   HOH C 201       8.000   8.000   8.000  1.00 30.00           O
ENDMDL
MODEL        2
ATOM      1  N   ALA A   1       0.100   0.000   0.000  1.00 10.00           N
ATOM      2  CA  ALA A   1       1.558   0.000   0.000  1.00 10.00           C
ATOM      3  C   ALA A   1       2.109   1.420   0.000  1.00 10.00           C
ATOM      4  O   ALA A   1       1.351   2.390   0.000  1.00 10.00           O
TER
HETATM    5  C1  8PF B 101       4.100   4.000   4.000  1.00 20.00           C
HETATM    6  O   HOH C 201       8.100   8.000   8.000  1.00 30.00           O
ENDMDL
END
`

func execute(args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := newCommand(util.NewConsole(&buf, &buf))
	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return buf.String(), err
}

func TestExtract(Te *testing.T) {
	dir := Te.TempDir()
	in := filepath.Join(dir, "complex.pdb")
	require.NoError(Te, os.WriteFile(in, []byte(testPDB), 0o644))

	out, err := execute("-s", "protein or resname '8PF'", "-r", in)
	require.NoError(Te, err)
	require.Contains(Te, out, "Total atoms included: 5")
	ext, err := chem.ReadFile(filepath.Join(dir, "complex_extracted.pdb"))
	require.NoError(Te, err)
	require.Equal(Te, 5, ext.Len())
	require.Equal(Te, 2, ext.NFrames())
	require.InDelta(Te, 4.1, ext.Coords[1].At(4, 0), 1e-6)

	custom := filepath.Join(dir, "water.pdb")
	_, err = execute("--selection", "water", "--ref", in, "--output", custom)
	require.NoError(Te, err)
	w, err := chem.ReadFile(custom)
	require.NoError(Te, err)
	require.Equal(Te, 1, w.Len())
}

func TestExtractErrors(Te *testing.T) {
	dir := Te.TempDir()
	in := filepath.Join(dir, "complex.pdb")
	require.NoError(Te, os.WriteFile(in, []byte(testPDB), 0o644))

	_, err := execute("-s", "protein", "-r", filepath.Join(dir, "missing.pdb"))
	require.True(Te, errors.Is(err, fs.ErrNotExist))
	require.Contains(Te, err.Error(), "missing.pdb")
	_, err = execute("-s", "protein and (", "-r", in)
	var serr *sele.SyntaxError
	require.True(Te, errors.As(err, &serr))
	_, err = execute("-s", "resname XYZ", "-r", in)
	require.True(Te, errors.Is(err, sele.ErrNoMatch))
	_, err = os.Stat(filepath.Join(dir, "complex_extracted.pdb"))
	require.Error(Te, err)
	_, err = execute("-r", in)
	require.Error(Te, err)
}

func TestDefaultOutput(Te *testing.T) {
	require.Equal(Te, filepath.Join("d", "x_extracted.pdb"), defaultOutput(filepath.Join("d", "x.pdb")))
	require.Equal(Te, filepath.Join("d", "x.cif_extracted.pdb"), defaultOutput(filepath.Join("d", "x.cif.gz")))
}
