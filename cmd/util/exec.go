/*
 * exec.go, part of dockprep.
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

package util

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the command with the process arguments, and exits with status 1
// if it fails. Errors are printed by con, not by cobra.
func Execute(cmd *cobra.Command, con *Console) {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err != nil {
		con.Errorf("%s", err)
		os.Exit(1)
	}
}

// RequireFlags marks the named flags of cmd as required. It panics if a flag
// doesn't exist, which can only be a programming error.
func RequireFlags(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		if err := cmd.MarkFlagRequired(n); err != nil {
			panic(fmt.Sprintf("RequireFlags: %s: %v", n, err))
		}
	}
}
