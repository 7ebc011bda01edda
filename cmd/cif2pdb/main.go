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

// cif2pdb converts mmCIF files (for instance, AlphaFold 3 models) to PDB files,
// written next to each input.
package main

import (
	"fmt"
	"os"
	"strings"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/cmd/util"
	"github.com/spf13/cobra"
)

type converter struct {
	con    *util.Console
	format string
	force  bool
}

// outputName returns the name of the converted version of name.
func (c *converter) outputName(name string) string {
	return chem.Sibling(name, "", "."+c.format)
}

// convert converts one file, unless it has been converted already.
func (c *converter) convert(name string) error {
	out := c.outputName(name)
	if out == name {
		c.con.Infof("Skipping %s (already in %s format)", name, c.format)
		return nil
	}
	if _, err := os.Stat(out); err == nil && !c.force {
		c.con.Infof("Skipping %s (%s exists)", name, out)
		return nil
	}
	mol, err := chem.ReadFile(name)
	if err != nil {
		return err
	}
	if err := chem.WriteFile(out, mol); err != nil {
		return err
	}
	c.con.Successf("Converted: %s -> %s (%d atoms, %d models)", name, out, mol.Len(), mol.NFrames())
	return nil
}

// run converts every file matched by the patterns. A failure doesn't stop
// the processing of the remaining files, but makes run return an error.
func (c *converter) run(patterns []string) error {
	switch c.format {
	case "pdb", "cif":
	default:
		return fmt.Errorf("unknown output format %q, use pdb or cif", c.format)
	}
	files, err := chem.GlobAll(patterns...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		c.con.Warnf("No files found matching %s", strings.Join(patterns, " "))
		return nil
	}
	c.con.Infof("Found %d file(s) to convert", len(files))
	var failed int
	for _, f := range files {
		if err := c.convert(f); err != nil {
			c.con.Errorf("Failed to convert %s: %s", f, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(files))
	}
	return nil
}

func newCommand(con *util.Console) *cobra.Command {
	c := &converter{con: con}
	cmd := &cobra.Command{
		Use:   "cif2pdb PATTERN...",
		Short: "Convert mmCIF files to PDB",
		Long: `Converts every mmCIF file matching the patterns to PDB, writing <stem>.pdb in the
directory of each input. Patterns can contain "**" to match any number of directories.
Files already converted are skipped, unless --force is given.`,
		Example: `  cif2pdb "af3/*/model.cif"
  cif2pdb --force "runs/**/*.cif.gz"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(args)
		},
	}
	cmd.Flags().StringVarP(&c.format, "format", "f", "pdb", "output format: pdb or cif")
	cmd.Flags().BoolVar(&c.force, "force", false, "overwrite existing outputs")
	return cmd
}

func main() {
	con := util.NewConsole(os.Stdout, os.Stderr)
	util.Execute(newCommand(con), con)
}
