/*
 * align.go, part of dockprep.
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

// Package align superimposes predicted or docked structures on a reference, using only the
// protein backbone atoms around the reference's ligand (the pocket), and reports the
// resulting RMSDs.
package align

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/sele"
	v3 "github.com/rmera/dockprep/v3"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoFiles is returned when a reference or target pattern matches no file.
	ErrNoFiles = errors.New("no files matched")
	// ErrMixedTargets is returned when targets with different atoms are to be written to one file.
	ErrMixedTargets = errors.New("targets with different atoms can't share an output file")
)

// Reporter receives the progress messages of Run.
type Reporter interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopReporter struct{}

func (nopReporter) Infof(string, ...any) {}
func (nopReporter) Warnf(string, ...any) {}

// FrameRMSD contains the RMSDs, in nm, of one aligned frame.
type FrameRMSD struct {
	File              string
	Model             int     //the model number within File, from 0
	Backbone          float64 //after fitting the backbone itself
	BackbonePocketFit float64 //backbone, with the frame superimposed on the pocket
	Pocket            float64
}

// Report summarizes an alignment.
type Report struct {
	Reference     string
	Targets       []string
	Pocket        *PocketResult
	Frames        []FrameRMSD
	Mean          float64 //mean backbone RMSD, nm
	StdDev        float64 //0 if there is only one frame
	Outputs       []string
	LigandOutputs []string
	Plot          string
}

// target is one input file, its structure and its atoms matching the reference.
type target struct {
	name   string
	mol    *chem.Molecule
	fit    []int //pocket atoms, paired with the reference pocket
	refBB  []int
	testBB []int
	ligand []int
}

// SortTargets sorts the file names putting first the files in directories
// whose name starts with "best_pose", then lexicographically.
func SortTargets(names []string) {
	best := func(s string) bool {
		return strings.HasPrefix(filepath.Base(filepath.Dir(s)), "best_pose")
	}
	sort.SliceStable(names, func(i, j int) bool {
		bi, bj := best(names[i]), best(names[j])
		if bi != bj {
			return bi
		}
		return names[i] < names[j]
	})
}

// LoadReference reads the first file (in lexicographical order) matching pattern.
func LoadReference(pattern string) (string, *chem.Molecule, error) {
	files, err := chem.Glob(pattern)
	if err != nil {
		return "", nil, err
	}
	if len(files) == 0 {
		return "", nil, fmt.Errorf("reference %q: %w", pattern, ErrNoFiles)
	}
	mol, err := chem.ReadFile(files[0])
	if err != nil {
		return "", nil, fmt.Errorf("reference %s: %w", files[0], err)
	}
	return files[0], mol, nil
}

// loadTargets reads all the files matching the patterns. All of them must have the
// same number of atoms as the first one.
func loadTargets(patterns []string) ([]*target, error) {
	files, err := chem.GlobAll(patterns...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("targets %q: %w", strings.Join(patterns, " "), ErrNoFiles)
	}
	SortTargets(files)
	ret := make([]*target, 0, len(files))
	for _, f := range files {
		mol, err := chem.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", f, err)
		}
		if len(ret) > 0 && mol.Len() != ret[0].mol.Len() {
			return nil, fmt.Errorf("target %s has %d atoms, but %s has %d", f, mol.Len(), ret[0].name, ret[0].mol.Len())
		}
		ret = append(ret, &target{name: f, mol: mol})
	}
	return ret, nil
}

// Run aligns every frame of every file matched by the targets patterns on the reference given
// in o, using the pocket atoms, and writes the aligned structures (and ligands, if the reference
// had a ligand). Nothing is written if the pocket atoms can't be matched in every target.
// rep can be nil.
func Run(o *Options, targets []string, rep Reporter) (*Report, error) {
	if o == nil {
		o = DefaultOptions()
	}
	if rep == nil {
		rep = nopReporter{}
	}
	refname, ref, err := LoadReference(o.Reference())
	if err != nil {
		return nil, err
	}
	rep.Infof("Reference: %s (%d atoms, %d models)", refname, ref.Len(), ref.NFrames())
	tgts, err := loadTargets(targets)
	if err != nil {
		return nil, err
	}
	report := &Report{Reference: refname}
	nframes := 0
	for _, t := range tgts {
		report.Targets = append(report.Targets, t.name)
		nframes += t.mol.NFrames()
		rep.Infof("Target: %s (%d models)", t.name, t.mol.NFrames())
	}
	rep.Infof("%d models to align", nframes)
	pocket, err := PocketSel(ref, chem.Nm2A(o.Cutoff()), o.ProteinSel(), o.LigandSel())
	if err != nil {
		return nil, err
	}
	report.Pocket = pocket
	if pocket.Fallback != NoFallback {
		rep.Warnf("%s", pocket.Fallback)
	}
	rep.Infof("Pocket atoms: %d of %d backbone atoms", len(pocket.Indexes), len(pocket.Protein))
	//every target is matched on its own, and any mismatch stops everything before a file is written.
	for _, t := range tgts {
		if err := t.match(ref, pocket, o.LigandSel(), rep); err != nil {
			return nil, err
		}
	}
	if o.Output() != "" {
		if err := sameAtoms(tgts, nil); err != nil {
			return nil, err
		}
	}
	if pocket.HasLigand && o.LigandOutput() != "" {
		if err := sameAtoms(withLigand(tgts), func(t *target) []int { return t.ligand }); err != nil {
			return nil, err
		}
	}
	fit := &fitting{ref: ref.Coords[0], refFit: pocket.Indexes}
	report.Frames, err = fit.all(tgts, o.Cpus())
	if err != nil {
		return nil, err
	}
	bb := make([]float64, len(report.Frames))
	for i, v := range report.Frames {
		bb[i] = v.Backbone
	}
	if len(bb) > 1 {
		report.Mean, report.StdDev = stat.MeanStdDev(bb, nil)
	} else {
		report.Mean = bb[0]
	}
	if o.Plot() != "" {
		if err := PlotRMSD(report.Frames, chem.ExpandUser(o.Plot())); err != nil {
			rep.Warnf("Couldn't produce the RMSD plot %s: %v", o.Plot(), err)
		} else {
			report.Plot = o.Plot()
		}
	}
	report.Outputs, err = writeAll(tgts, nil, o.Output(), o.Suffix())
	if err != nil {
		return report, err
	}
	if !pocket.HasLigand {
		rep.Infof("No ligand in the reference, no ligand output written")
		return report, nil
	}
	ligs := withLigand(tgts)
	for _, t := range tgts {
		if len(t.ligand) == 0 {
			rep.Infof("The reference has a ligand but %s doesn't, no ligand output written for it", t.name)
		}
	}
	if len(ligs) == 0 {
		return report, nil
	}
	report.LigandOutputs, err = writeAll(ligs, func(t *target) []int { return t.ligand }, o.LigandOutput(), o.LigandSuffix())
	return report, err
}

// match finds the reference pocket and backbone atoms, and the ligand atoms,
// in the target. It is an error if any pocket atom is missing.
func (t *target) match(ref *chem.Molecule, pocket *PocketResult, ligandSel string, rep Reporter) error {
	if d := DuplicateKeys(t.mol); len(d) > 0 {
		rep.Warnf("%s: %d atoms share their name, residue and chain with a previous atom (first: %s). Only the first one is matched", t.name, len(d), d[0])
	}
	var err error
	t.fit, err = matchChecked(ref, t.mol, pocket.Indexes)
	if err != nil {
		return fmt.Errorf("target %s: %w", t.name, err)
	}
	t.refBB, t.testBB = MatchPairs(ref, t.mol, pocket.Protein)
	if len(t.refBB) != len(pocket.Protein) {
		rep.Warnf("Only %d of %d reference backbone atoms found in %s, its backbone RMSD uses those", len(t.refBB), len(pocket.Protein), t.name)
	}
	if !pocket.HasLigand {
		return nil
	}
	t.ligand, err = sele.Select(t.mol, ligandSel)
	return err
}

func withLigand(tgts []*target) []*target {
	var ret []*target
	for _, t := range tgts {
		if len(t.ligand) > 0 {
			ret = append(ret, t)
		}
	}
	return ret
}

// sameAtoms returns an error unless the atoms sel (all of them, if sel is nil) of every
// target have the same keys, in the same order, as those of the first target, which is
// needed to put them all in one file.
func sameAtoms(tgts []*target, sel func(*target) []int) error {
	keys := func(t *target) []AtomKey {
		var idx []int
		if sel != nil {
			idx = sel(t)
		} else {
			idx = allAtoms(t.mol.Len())
		}
		ret := make([]AtomKey, len(idx))
		for i, v := range idx {
			ret[i] = KeyOf(t.mol.Atom(v))
		}
		return ret
	}
	if len(tgts) < 2 {
		return nil
	}
	first := keys(tgts[0])
	for _, t := range tgts[1:] {
		k := keys(t)
		if len(k) != len(first) {
			return fmt.Errorf("%w: %s has %d atoms to write, %s has %d", ErrMixedTargets, t.name, len(k), tgts[0].name, len(first))
		}
		for i := range k {
			if k[i] != first[i] {
				return fmt.Errorf("%w: atom %d is %s in %s but %s in %s", ErrMixedTargets, i, k[i], t.name, first[i], tgts[0].name)
			}
		}
	}
	return nil
}

func allAtoms(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// fitting contains what's needed to superimpose and compare a frame with the reference.
type fitting struct {
	ref    *v3.Matrix
	refFit []int
}

// frame superimposes c, a frame of t, in place, on the reference using the pocket atoms.
// It returns the backbone RMSD after a separate fit of the backbone atoms, the backbone
// RMSD in the pocket superposition, and the pocket RMSD, all in nm.
func (F *fitting) frame(c *v3.Matrix, t *target) (bb, bbPocket, pocket float64, err error) {
	if _, err = chem.Super(c, F.ref, t.fit, F.refFit); err != nil {
		return
	}
	if len(t.refBB) > 0 {
		bbPocket, err = chem.RMSDSome(c, F.ref, t.testBB, t.refBB)
		if err != nil {
			return
		}
		bbc := c.Clone()
		if _, err = chem.Super(bbc, F.ref, t.testBB, t.refBB); err != nil {
			return
		}
		bb, err = chem.RMSDSome(bbc, F.ref, t.testBB, t.refBB)
		if err != nil {
			return
		}
	}
	pocket, err = chem.RMSDSome(c, F.ref, t.fit, F.refFit)
	if err != nil {
		return
	}
	return chem.A2Nm(bb), chem.A2Nm(bbPocket), chem.A2Nm(pocket), nil
}

type frameJob struct {
	n      int //position in the results
	coords *v3.Matrix
	t      *target
}

// all aligns every frame of the targets, using up to cpus goroutines, and returns the
// RMSDs in the order of the targets and their models.
func (F *fitting) all(tgts []*target, cpus int) ([]FrameRMSD, error) {
	var ret []FrameRMSD
	var jobs []frameJob
	for _, t := range tgts {
		for i, c := range t.mol.Coords {
			jobs = append(jobs, frameJob{n: len(ret), coords: c, t: t})
			ret = append(ret, FrameRMSD{File: t.name, Model: i})
		}
	}
	if cpus < 1 {
		cpus = 1
	}
	errs := make([]error, len(ret))
	jchan := make(chan frameJob)
	var wg sync.WaitGroup
	for i := 0; i < cpus; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jchan {
				//each job writes only its own element of the slices.
				r := &ret[j.n]
				r.Backbone, r.BackbonePocketFit, r.Pocket, errs[j.n] = F.frame(j.coords, j.t)
			}
		}()
	}
	for _, j := range jobs {
		jchan <- j
	}
	close(jchan)
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("aligning model %d of %s: %w", ret[i].Model, ret[i].File, err)
		}
	}
	return ret, nil
}

// writeAll writes the atoms sel returns for each target (all of them, if sel is nil),
// either all to the file output, or each to its own file, named after the target plus suffix.
// It returns the names of the files written.
func writeAll(tgts []*target, sel func(*target) []int, output, suffix string) ([]string, error) {
	mols := make([]*chem.Molecule, len(tgts))
	for i, t := range tgts {
		mols[i] = t.mol
		if sel != nil {
			var err error
			mols[i], err = t.mol.Slice(sel(t))
			if err != nil {
				return nil, err
			}
		}
	}
	if output != "" {
		output = chem.ExpandUser(output)
		all := &chem.Molecule{Topology: mols[0].Topology, Coords: append([]*v3.Matrix(nil), mols[0].Coords...)}
		if mols[0].Bfactors != nil {
			all.Bfactors = append([][]float64(nil), mols[0].Bfactors...)
		}
		for _, m := range mols[1:] {
			if err := all.AppendFrames(m); err != nil {
				return nil, err
			}
		}
		if err := chem.WriteFile(output, all); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}
	ret := make([]string, 0, len(tgts))
	for i, t := range tgts {
		name := chem.Sibling(t.name, suffix, ".pdb")
		if err := chem.WriteFile(name, mols[i]); err != nil {
			return ret, err
		}
		ret = append(ret, name)
	}
	return ret, nil
}
