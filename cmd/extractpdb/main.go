/*
 * main.go, part of dockprep.
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

// extractpdb writes the atoms of a structure that match a selection to a new PDB file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/cmd/util"
	"github.com/rmera/dockprep/sele"
	"github.com/spf13/cobra"
)

type extraction struct {
	selection string
	input     string
	output    string
}

// defaultOutput returns the input name without its extension, plus "_extracted.pdb".
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_extracted.pdb"
}

func (e *extraction) run(con *util.Console) error {
	if _, err := os.Stat(e.input); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	con.Infof("Loading: %s", e.input)
	mol, err := chem.ReadFile(e.input)
	if err != nil {
		return err
	}
	con.Infof("Applying selection: %s", e.selection)
	idx, err := sele.SelectNonEmpty(mol, e.selection)
	if err != nil {
		return err
	}
	sub, err := mol.Slice(idx)
	if err != nil {
		return err
	}
	out := e.output
	if out == "" {
		out = defaultOutput(e.input)
	}
	if err := chem.WriteFile(out, sub); err != nil {
		return err
	}
	con.Successf("Saved extracted structure: %s", out)
	con.Infof("   Selection used: %s", e.selection)
	con.Infof("   Total atoms included: %d", len(idx))
	return nil
}

func newCommand(con *util.Console) *cobra.Command {
	e := new(extraction)
	cmd := &cobra.Command{
		Use:   "extractpdb -s SELECTION -r FILE [-o OUTPUT]",
		Short: "Extract the atoms matching a selection from a structure",
		Long: `Writes the atoms of FILE that match SELECTION, in all its models, to OUTPUT
(by default, FILE without its extension plus "_extracted.pdb").

Selections use keywords like protein, backbone, water, name, resname, resid,
chain and element, combined with and, or, not and parentheses.`,
		Example: `  extractpdb -s protein -r 7AAI.pdb
  extractpdb -s "protein or resname '8PF' or resname MYR" -r complex.pdb -o complex_filtered.pdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.run(con)
		},
	}
	cmd.Flags().StringVarP(&e.selection, "selection", "s", "", "atom selection")
	cmd.Flags().StringVarP(&e.input, "ref", "r", "", "input structure file")
	cmd.Flags().StringVarP(&e.output, "output", "o", "", "output file")
	util.RequireFlags(cmd, "selection", "ref")
	return cmd
}

func main() {
	con := util.NewConsole(os.Stdout, os.Stderr)
	util.Execute(newCommand(con), con)
}
