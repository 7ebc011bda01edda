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

// af3json writes an AlphaFold 3 input file with the proteins, ligands and ions of a structure.
package main

import (
	"os"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/af3json"
	"github.com/rmera/dockprep/cmd/util"
	"github.com/spf13/cobra"
)

func run(con *util.Console, input, output string, seeds []int) error {
	if output == "" {
		output = af3json.OutputName(input)
	}
	mol, err := chem.ReadFile(input)
	if err != nil {
		return err
	}
	job, err := af3json.FromMolecule(mol, af3json.JobName(output), seeds...)
	if err != nil {
		return err
	}
	if err := af3json.WriteFile(output, job); err != nil {
		return err
	}
	np, nl := 0, 0
	for _, v := range job.Sequences {
		if v.Protein != nil {
			np++
		} else {
			nl++
		}
	}
	con.Successf("AlphaFold 3 input saved: %s (%d protein and %d ligand entities)", output, np, nl)
	return nil
}

func newCommand(con *util.Console) *cobra.Command {
	var output string
	var seeds []int
	cmd := &cobra.Command{
		Use:   "af3json INPUT",
		Short: "Generate an AlphaFold 3 input JSON from a structure",
		Long: `Writes an AlphaFold 3 input with the protein chains of INPUT (identical
sequences grouped in one entity) and its ligands and ions, as CCD codes (chains with
the same set of codes grouped). Water is ignored. By default, the output is INPUT
with ".pdb" replaced by ".json".`,
		Example: `  af3json complex.pdb
  af3json complex.cif -o job.json --seed 1 --seed 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(con, args[0], output, seeds)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output JSON file")
	cmd.Flags().IntSliceVar(&seeds, "seed", nil, "model seeds (default 1)")
	return cmd
}

func main() {
	con := util.NewConsole(os.Stdout, os.Stderr)
	util.Execute(newCommand(con), con)
}
