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

// alignpdb superimposes structures on a reference using the backbone atoms
// around the reference's ligand, and reports the RMSDs.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rmera/dockprep/align"
	"github.com/rmera/dockprep/cmd/util"
	"github.com/spf13/cobra"
)

type flags struct {
	ref, output, ligand, plot string
	proteinSel, ligandSel     string
	cutoff                    float64
	cpus                      int
}

func (f *flags) options() *align.Options {
	o := align.DefaultOptions()
	o.Reference(f.ref)
	o.Cutoff(f.cutoff)
	o.Output(f.output)
	o.LigandOutput(f.ligand)
	o.Plot(f.plot)
	o.ProteinSel(f.proteinSel)
	o.LigandSel(f.ligandSel)
	o.Cpus(f.cpus)
	return o
}

func fmtRMSDs(v []align.FrameRMSD, pocket bool) string {
	s := make([]string, len(v))
	for i, f := range v {
		r := f.Backbone
		if pocket {
			r = f.Pocket
		}
		s[i] = fmt.Sprintf("%.5f", r)
	}
	return "[" + strings.Join(s, " ") + "]"
}

func run(con *util.Console, f *flags, targets []string) error {
	report, err := align.Run(f.options(), targets, con)
	if err != nil {
		return err
	}
	con.Infof("Pocket-aligned protein backbone RMSD: %s nm", fmtRMSDs(report.Frames, false))
	con.Infof("Pocket-aligned pocket RMSD: %s nm", fmtRMSDs(report.Frames, true))
	if len(report.Frames) > 1 {
		con.Infof("Backbone RMSD mean: %.4f nm, standard deviation: %.4f nm", report.Mean, report.StdDev)
	}
	con.Infof("Aligned structures:")
	for _, v := range report.Outputs {
		con.Infof(" - %s", v)
	}
	if len(report.LigandOutputs) > 0 {
		con.Infof("Aligned ligands:")
		for _, v := range report.LigandOutputs {
			con.Infof(" - %s", v)
		}
	}
	if report.Plot != "" {
		con.Infof("RMSD plot: %s", report.Plot)
	}
	con.Successf("Alignment complete.")
	return nil
}

func newCommand(con *util.Console) *cobra.Command {
	f := new(flags)
	def := align.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "alignpdb TARGET...",
		Short: "Align structures to a reference using the backbone atoms of its ligand pocket",
		Long: `Superimposes every model of the files matching the TARGET patterns on the reference,
using the protein backbone heavy atoms within --cutoff of the reference's ligand. If the
reference has no ligand, or no atom is close enough, the whole backbone is used.

By default, each input gets <stem>_aligned.pdb and, if the reference has a ligand,
<stem>_ligand_aligned.pdb in its directory. With -o (or --oligand) all the models go
to one multi-model file.`,
		Example: `  alignpdb "poses/**/*.pdb" --ref model.pdb --cutoff 0.8
  alignpdb "best_pose*/*.pdb" -o all_aligned.pdb --plot rmsd.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(con, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.ref, "ref", def.Reference(), "reference structure (glob patterns allowed, the first match is used)")
	fl.Float64Var(&f.cutoff, "cutoff", def.Cutoff(), "pocket cutoff distance, in nm")
	fl.StringVarP(&f.output, "output", "o", "", "write all the aligned models to this file")
	fl.StringVar(&f.ligand, "oligand", "", "write all the aligned ligands to this file")
	fl.StringVar(&f.plot, "plot", "", "plot the RMSD of each model to this file (png, svg, pdf)")
	fl.StringVar(&f.proteinSel, "pocket-sel", def.ProteinSel(), "selection of the atoms that can form the pocket")
	fl.StringVar(&f.ligandSel, "ligand-sel", def.LigandSel(), "selection of the ligand atoms")
	fl.IntVar(&f.cpus, "cpus", def.Cpus(), "number of models aligned concurrently")
	return cmd
}

func main() {
	con := util.NewConsole(os.Stdout, os.Stderr)
	util.Execute(newCommand(con), con)
}
