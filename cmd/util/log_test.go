/*
 * log_test.go, part of dockprep.
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

package util

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestConsole(Te *testing.T) {
	color.NoColor = true
	var out, errout bytes.Buffer
	c := NewConsole(&out, &errout)
	c.Infof("read %d atoms", 12)
	c.Successf("done")
	c.Warnf("no ligand")
	c.Errorf("bad file %s", "x.pdb")
	require.Equal(Te, "read 12 atoms\ndone\n", out.String())
	require.Equal(Te, "WARNING: no ligand\nERROR: bad file x.pdb\n", errout.String())
	errout.Reset()
	require.False(Te, c.Warning(nil))
	require.True(Te, c.Warning(errors.New("boom"), "reading %s", "y.pdb"))
	require.Equal(Te, "WARNING: reading y.pdb: boom.\n", errout.String())
}
