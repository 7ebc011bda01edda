/*
 * align_test.go, part of dockprep.
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

package align

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/dockprep"
	v3 "github.com/rmera/dockprep/v3"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// testMolecule builds a 30-residue backbone-only "protein" on a helix-like path along x,
// and a 3-atom ligand on the -x side of its first residue.
func testMolecule(Te *testing.T) *chem.Molecule {
	names := []string{"N", "CA", "C", "O"}
	syms := []string{"N", "C", "C", "O"}
	var ats []*chem.Atom
	data := make([]float64, 0, 3*123)
	for k := 0; k < 120; k++ {
		ats = append(ats, &chem.Atom{Name: names[k%4], Symbol: syms[k%4], MolName: "ALA", MolID: k/4 + 1, Chain: "A", ID: k + 1, Occupancy: 1})
		fk := float64(k)
		data = append(data, 0.2*fk, 0.5*math.Sin(fk), 0.5*math.Cos(fk))
	}
	for i := 0; i < 3; i++ {
		ats = append(ats, &chem.Atom{Name: fmt.Sprintf("C%d", i+1), Symbol: "C", MolName: "LIG", MolID: 1, Chain: "B", Het: true, ID: 121 + i, Occupancy: 1})
		data = append(data, -0.05-float64(i), 0, 0)
	}
	c, err := v3.NewMatrix(data)
	require.NoError(Te, err)
	mol, err := chem.NewMolecule([]*v3.Matrix{c}, chem.NewTopology(ats), nil)
	require.NoError(Te, err)
	return mol
}

// moved returns a rotated and translated copy of c.
func moved(c *v3.Matrix, a, b float64) *v3.Matrix {
	rz := mat.NewDense(3, 3, []float64{math.Cos(a), -math.Sin(a), 0, math.Sin(a), math.Cos(a), 0, 0, 0, 1})
	rx := mat.NewDense(3, 3, []float64{1, 0, 0, 0, math.Cos(b), -math.Sin(b), 0, math.Sin(b), math.Cos(b)})
	var r mat.Dense
	r.Mul(rz, rx)
	out := v3.Zeros(c.NVecs())
	out.Mul(c, &r)
	t, _ := v3.NewMatrix([]float64{5, -3, 12})
	out.AddVec(out, t)
	return out
}

type recorder struct {
	infos, warns []string
}

func (r *recorder) Infof(f string, a ...any) { r.infos = append(r.infos, fmt.Sprintf(f, a...)) }
func (r *recorder) Warnf(f string, a ...any) { r.warns = append(r.warns, fmt.Sprintf(f, a...)) }

func TestPocket(Te *testing.T) {
	mol := testMolecule(Te)
	p, err := Pocket(mol, chem.Nm2A(1.0))
	require.NoError(Te, err)
	require.True(Te, p.HasLigand)
	require.Equal(Te, NoFallback, p.Fallback)
	require.Len(Te, p.Protein, 120)
	require.Equal(Te, []int{120, 121, 122}, p.Ligand)
	require.Len(Te, p.Indexes, 50)
	require.Equal(Te, 49, p.Indexes[49])

	//nothing is within a zero cutoff, so the whole backbone is used.
	p, err = Pocket(mol, 0)
	require.NoError(Te, err)
	require.True(Te, p.HasLigand)
	require.Equal(Te, EmptyPocket, p.Fallback)
	require.Len(Te, p.Indexes, 120)
	require.Empty(Te, WithinCutoff(mol.Coords[0], p.Protein, p.Ligand, 0))

	//the distance from atom 0 to the first ligand atom is exactly 0.5 A, the cutoff is strict.
	mol.Coords[0].Set(120, 0, 0)
	mol.Coords[0].Set(0, 1, 0)
	require.NotContains(Te, WithinCutoff(mol.Coords[0], []int{0}, []int{120}, 0.5), 0)
	require.Contains(Te, WithinCutoff(mol.Coords[0], []int{0}, []int{120}, 0.5001), 0)

	prot, err := mol.Slice(p.Protein)
	require.NoError(Te, err)
	p, err = Pocket(prot, 10)
	require.NoError(Te, err)
	require.False(Te, p.HasLigand)
	require.Equal(Te, NoLigand, p.Fallback)
	require.Len(Te, p.Indexes, 120)

	lig, err := mol.Slice([]int{120, 121, 122})
	require.NoError(Te, err)
	_, err = Pocket(lig, 10)
	require.True(Te, errors.Is(err, ErrNoProtein))

	_, err = PocketSel(mol, 10, "protein and", LigandSelection)
	require.Error(Te, err)
}

func TestMatch(Te *testing.T) {
	ref := testMolecule(Te)
	target := testMolecule(Te)
	p, err := Pocket(ref, 10)
	require.NoError(Te, err)
	m := MatchAtoms(ref, target, p.Indexes)
	require.Equal(Te, p.Indexes, m)
	require.Equal(Te, m, MatchAtoms(ref, target, p.Indexes))
	require.Empty(Te, DuplicateKeys(target))

	target.Atom(0).Name = "NX"
	m = MatchAtoms(ref, target, p.Indexes)
	require.Len(Te, m, len(p.Indexes)-1)
	r, t := MatchPairs(ref, target, p.Indexes)
	require.Equal(Te, p.Indexes[1:], r)
	require.Equal(Te, r, t)
	_, err = matchChecked(ref, target, p.Indexes)
	var merr *MismatchError
	require.True(Te, errors.As(err, &merr))
	require.Equal(Te, 50, merr.Expected)
	require.Equal(Te, 49, merr.Found)
	require.Equal(Te, "N", merr.Missing[0].Name)
	require.Contains(Te, merr.Error(), "missing: N/ALA0/chain 0")

	//the second atom with the same key is never matched.
	target.Atom(0).Name = "CA"
	require.Len(Te, DuplicateKeys(target), 1)
	require.Equal(Te, 0, MatchAtoms(ref, target, []int{1})[0])
}

func TestSortTargets(Te *testing.T) {
	names := []string{
		"/r/b/x.pdb",
		"/r/best_pose_2/x.pdb",
		"/r/a/x.pdb",
		"/r/best_pose_1/y.pdb",
		"/r/best_pose_1/x.pdb",
	}
	SortTargets(names)
	require.Equal(Te, []string{
		"/r/best_pose_1/x.pdb",
		"/r/best_pose_1/y.pdb",
		"/r/best_pose_2/x.pdb",
		"/r/a/x.pdb",
		"/r/b/x.pdb",
	}, names)
}

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	ref := testMolecule(Te)
	refname := filepath.Join(dir, "model.pdb")
	require.NoError(Te, chem.WriteFile(refname, ref))
	tg := testMolecule(Te)
	tg.Coords[0] = moved(tg.Coords[0], 0.7, 0.4)
	sub := filepath.Join(dir, "best_pose_1")
	require.NoError(Te, os.Mkdir(sub, 0o755))
	require.NoError(Te, chem.WriteFile(filepath.Join(sub, "pose.pdb"), tg))

	o := DefaultOptions()
	o.Reference(refname)
	o.Cpus(2)
	rec := new(recorder)
	report, err := Run(o, []string{filepath.Join(dir, "**", "pose.pdb")}, rec)
	require.NoError(Te, err)
	require.Empty(Te, rec.warns)
	require.Len(Te, report.Frames, 1)
	require.Len(Te, report.Pocket.Indexes, 50)
	require.InDelta(Te, 0, report.Frames[0].Backbone, 1e-3)
	require.InDelta(Te, 0, report.Frames[0].Pocket, 1e-3)
	require.InDelta(Te, report.Frames[0].Backbone, report.Mean, 1e-12)
	require.Equal(Te, 0.0, report.StdDev)
	require.Equal(Te, []string{filepath.Join(sub, "pose_aligned.pdb")}, report.Outputs)
	require.Equal(Te, []string{filepath.Join(sub, "pose_ligand_aligned.pdb")}, report.LigandOutputs)

	aligned, err := chem.ReadFile(report.Outputs[0])
	require.NoError(Te, err)
	require.Equal(Te, ref.Len(), aligned.Len())
	lig, err := chem.ReadFile(report.LigandOutputs[0])
	require.NoError(Te, err)
	require.Equal(Te, 3, lig.Len())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.InDelta(Te, ref.Coords[0].At(120+i, j), lig.Coords[0].At(i, j), 1e-2)
		}
	}
}

func TestRunSingleOutput(Te *testing.T) {
	dir := Te.TempDir()
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "model.pdb"), testMolecule(Te)))
	for i, d := range []string{"b", "a"} {
		tg := testMolecule(Te)
		tg.Coords[0] = moved(tg.Coords[0], float64(i+1), 0.3)
		require.NoError(Te, os.Mkdir(filepath.Join(dir, d), 0o755))
		require.NoError(Te, chem.WriteFile(filepath.Join(dir, d, "pose.pdb"), tg))
	}
	o := DefaultOptions()
	o.Reference(filepath.Join(dir, "model.p*"))
	o.Output(filepath.Join(dir, "all.pdb"))
	o.LigandOutput(filepath.Join(dir, "ligands.pdb"))
	o.Plot(filepath.Join(dir, "rmsd.png"))
	report, err := Run(o, []string{filepath.Join(dir, "*", "pose.pdb")}, nil)
	require.NoError(Te, err)
	require.Equal(Te, []string{filepath.Join(dir, "a", "pose.pdb"), filepath.Join(dir, "b", "pose.pdb")}, report.Targets)
	require.Len(Te, report.Frames, 2)
	require.InDelta(Te, 0, report.Mean, 1e-3)
	require.InDelta(Te, 0, report.StdDev, 1e-3)
	all, err := chem.ReadFile(filepath.Join(dir, "all.pdb"))
	require.NoError(Te, err)
	require.Equal(Te, 2, all.NFrames())
	ligs, err := chem.ReadFile(filepath.Join(dir, "ligands.pdb"))
	require.NoError(Te, err)
	require.Equal(Te, 2, ligs.NFrames())
	require.Equal(Te, 3, ligs.Len())
	_, err = os.Stat(filepath.Join(dir, "rmsd.png"))
	require.NoError(Te, err)
	require.Equal(Te, o.Plot(), report.Plot)
}

func TestRunNoLigand(Te *testing.T) {
	dir := Te.TempDir()
	mol := testMolecule(Te)
	prot, err := mol.Slice(allIndexes(120))
	require.NoError(Te, err)
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "model.pdb"), prot))
	mol.Coords[0] = moved(mol.Coords[0], 2, 1)
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "pose.pdb"), mol))
	o := DefaultOptions()
	o.Reference(filepath.Join(dir, "model.pdb"))
	rec := new(recorder)
	report, err := Run(o, []string{filepath.Join(dir, "pose.pdb")}, rec)
	require.NoError(Te, err)
	require.Equal(Te, NoLigand, report.Pocket.Fallback)
	require.Len(Te, rec.warns, 1)
	require.Empty(Te, report.LigandOutputs)
	require.InDelta(Te, 0, report.Frames[0].Backbone, 1e-3)
	_, err = os.Stat(filepath.Join(dir, "pose_ligand_aligned.pdb"))
	require.True(Te, errors.Is(err, fs.ErrNotExist))
}

func TestRunMismatch(Te *testing.T) {
	dir := Te.TempDir()
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "model.pdb"), testMolecule(Te)))
	tg := testMolecule(Te)
	tg.Atom(0).Name = "NX"
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "pose.pdb"), tg))
	o := DefaultOptions()
	o.Reference(filepath.Join(dir, "model.pdb"))
	_, err := Run(o, []string{filepath.Join(dir, "pose.pdb")}, nil)
	var merr *MismatchError
	require.True(Te, errors.As(err, &merr))
	_, err = os.Stat(filepath.Join(dir, "pose_aligned.pdb"))
	require.True(Te, errors.Is(err, fs.ErrNotExist))

	_, err = Run(o, []string{filepath.Join(dir, "nothing*.pdb")}, nil)
	require.True(Te, errors.Is(err, ErrNoFiles))
	o.Reference(filepath.Join(dir, "noref.pdb"))
	_, err = Run(o, []string{filepath.Join(dir, "pose.pdb")}, nil)
	require.True(Te, errors.Is(err, ErrNoFiles))
}

// reordered returns a copy of mol with its atoms in the given order.
func reordered(Te *testing.T, mol *chem.Molecule, order []int) *chem.Molecule {
	ats := make([]*chem.Atom, len(order))
	for i, v := range order {
		ats[i] = mol.Atom(v).Copy()
	}
	c := v3.Zeros(len(order))
	c.SomeVecs(mol.Coords[0], order)
	r, err := chem.NewMolecule([]*v3.Matrix{c}, chem.NewTopology(ats), nil)
	require.NoError(Te, err)
	return r
}

func TestRunReorderedTargets(Te *testing.T) {
	dir := Te.TempDir()
	ref := testMolecule(Te)
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "model.pdb"), ref))
	a := testMolecule(Te)
	a.Coords[0] = moved(a.Coords[0], 0.5, 0.2)
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "a.pdb"), a))
	//the same atoms, but in reverse order within each residue.
	var order []int
	for _, r := range ref.Residues() {
		for i := len(r.Atoms) - 1; i >= 0; i-- {
			order = append(order, r.Atoms[i])
		}
	}
	b := reordered(Te, ref, order)
	b.Coords[0] = moved(b.Coords[0], -1, 0.8)
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "b.pdb"), b))

	o := DefaultOptions()
	o.Reference(filepath.Join(dir, "model.pdb"))
	//one file for all the models needs the same atoms in the same order.
	o.Output(filepath.Join(dir, "all.pdb"))
	_, err := Run(o, []string{filepath.Join(dir, "?.pdb")}, nil)
	require.True(Te, errors.Is(err, ErrMixedTargets))
	for _, n := range []string{"all.pdb", "a_ligand_aligned.pdb", "b_ligand_aligned.pdb"} {
		_, err = os.Stat(filepath.Join(dir, n))
		require.True(Te, errors.Is(err, fs.ErrNotExist), n)
	}

	o.Output("")
	report, err := Run(o, []string{filepath.Join(dir, "?.pdb")}, nil)
	require.NoError(Te, err)
	require.Len(Te, report.Frames, 2)
	for _, f := range report.Frames {
		require.InDelta(Te, 0, f.Backbone, 1e-3, f.File)
		require.InDelta(Te, 0, f.Pocket, 1e-3, f.File)
	}
	lig, err := chem.ReadFile(filepath.Join(dir, "b_ligand_aligned.pdb"))
	require.NoError(Te, err)
	require.Equal(Te, 3, lig.Len())
	for i := 0; i < 3; i++ {
		at := lig.Atom(i)
		require.Equal(Te, "LIG", at.MolName)
		//C3, C2, C1
		refat := 122 - i
		require.Equal(Te, ref.Atom(refat).Name, at.Name)
		for j := 0; j < 3; j++ {
			require.InDelta(Te, ref.Coords[0].At(refat, j), lig.Coords[0].At(i, j), 1e-2)
		}
	}

	//moving the ligand chain first changes the chain and residue ordinals of every atom.
	order = append([]int{120, 121, 122}, allIndexes(120)...)
	c := reordered(Te, ref, order)
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "c.pdb"), c))
	for _, n := range []string{"a_aligned.pdb", "b_aligned.pdb", "b_ligand_aligned.pdb"} {
		require.NoError(Te, os.Remove(filepath.Join(dir, n)))
	}
	_, err = Run(o, []string{filepath.Join(dir, "?.pdb")}, nil)
	var merr *MismatchError
	require.True(Te, errors.As(err, &merr))
	require.Contains(Te, err.Error(), "c.pdb")
	_, err = os.Stat(filepath.Join(dir, "a_aligned.pdb"))
	require.True(Te, errors.Is(err, fs.ErrNotExist))
}

func TestRunMultiModel(Te *testing.T) {
	dir := Te.TempDir()
	ref := testMolecule(Te)
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "model.pdb"), ref))
	tg := testMolecule(Te)
	c := tg.Coords[0]
	tg.Coords = []*v3.Matrix{moved(c, 0.1, 0.2), moved(c, 1, 2), moved(c, -2, 0.5)}
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "pose.pdb"), tg))
	o := DefaultOptions()
	o.Reference(filepath.Join(dir, "model.pdb"))
	report, err := Run(o, []string{filepath.Join(dir, "pose.pdb")}, nil)
	require.NoError(Te, err)
	require.Len(Te, report.Frames, 3)
	for i, f := range report.Frames {
		require.Equal(Te, i, f.Model)
		require.InDelta(Te, 0, f.Pocket, 1e-3)
	}
	require.Equal(Te, []string{filepath.Join(dir, "pose_aligned.pdb")}, report.Outputs)
	aligned, err := chem.ReadFile(report.Outputs[0])
	require.NoError(Te, err)
	require.Equal(Te, 3, aligned.NFrames())
	ligs, err := chem.ReadFile(filepath.Join(dir, "pose_ligand_aligned.pdb"))
	require.NoError(Te, err)
	require.Equal(Te, 3, ligs.NFrames())
	require.Equal(Te, 3, ligs.Len())
	require.InDelta(Te, ligs.Coords[0].At(2, 0), ligs.Coords[2].At(2, 0), 1e-2)
}

func TestBackboneRefit(Te *testing.T) {
	dir := Te.TempDir()
	ref := testMolecule(Te)
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "model.pdb"), ref))
	//residues 21 to 30, far from the pocket, are displaced 2 A.
	tg := testMolecule(Te)
	for i := 80; i < 120; i++ {
		tg.Coords[0].Set(i, 1, tg.Coords[0].At(i, 1)+2)
	}
	require.NoError(Te, chem.WriteFile(filepath.Join(dir, "pose.pdb"), tg))
	o := DefaultOptions()
	o.Reference(filepath.Join(dir, "model.pdb"))
	report, err := Run(o, []string{filepath.Join(dir, "pose.pdb")}, nil)
	require.NoError(Te, err)
	f := report.Frames[0]
	require.InDelta(Te, 0, f.Pocket, 1e-3)
	require.InDelta(Te, chem.A2Nm(math.Sqrt(40*4/120.0)), f.BackbonePocketFit, 1e-3)

	bb := allIndexes(120)
	fitted := tg.Coords[0].Clone()
	_, err = chem.Super(fitted, ref.Coords[0], bb, bb)
	require.NoError(Te, err)
	want, err := chem.RMSDSome(fitted, ref.Coords[0], bb, bb)
	require.NoError(Te, err)
	require.InDelta(Te, chem.A2Nm(want), f.Backbone, 1e-3)
	require.Less(Te, f.Backbone, f.BackbonePocketFit-0.01)
}

func allIndexes(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}
