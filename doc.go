/*
 * doc.go, part of dockprep.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*
Package chem is the main package of dockprep, a small set of tools to prepare and
post-process structures in a structure prediction and docking workflow. It provides
atom, residue, chain and molecule structures, and facilities to read and write the
files involved.

	**Capabilities**

	Reads/writes PDB and mmCIF (PDBx) files, including multi-model files,
	plain, gzip or zstd compressed.

	Keeps residues and chains as ordinals in the topology, so atoms can be
	identified across structures with the same topology.

	Superimposes sets of coordinates (Kabsch). The user specifies what atoms to use for the
	superimposing transformation calculation. Then all the atoms will be
	superimposed accordingly.

	Calculates RMSD between sets of coordinates.

	Allows to select atoms and coordinates by using a go slice of indexes,
	and, through the sele subpackage, with a text selection language.

The tools themselves are in cmd/: cif2pdb, extractpdb, alignpdb and af3json.

Coordinates are kept in Angstroms, in v3.Matrix objects (one row per atom),
which are based on gonum's mat.Dense.
*/
package chem
