/*
 * geometric.go, part of dockprep.
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

package chem

import (
	"fmt"
	"math"

	v3 "github.com/rmera/dockprep/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RotatorTranslatorToSuper determines the least-squares superposition of the set of cartesian
// coordinates given as the rows of the matrix test on the rows of the matrix templa (Kabsch).
// It returns the rotation matrix and 2 translation row vectors. In order to perform the superposition,
// the first translation vector has to be added first to the moving matrix, then the rotation must be performed
// and finally the second translation has to be added. No scaling is done, and the rotation
// is always proper (det=+1), even if the best fit would be a reflection.
func RotatorTranslatorToSuper(test, templa *v3.Matrix) (rotation, trans1, trans2 *v3.Matrix, err error) {
	tmr := templa.NVecs()
	tsr := test.NVecs()
	if tmr != tsr || tmr == 0 {
		return nil, nil, nil, CError{fmt.Sprintf("Ill-formed matrices: %d and %d vectors", tsr, tmr), []string{"RotatorTranslatorToSuper"}}
	}
	ctest := test.Clone()
	ctempla := templa.Clone()
	testcen := test.Centroid()
	templacen := templa.Centroid()
	ctest.SubVec(ctest, testcen)
	ctempla.SubVec(ctempla, templacen)
	//covariance matrix
	var cov mat.Dense
	cov.Mul(ctest.Dense.T(), ctempla.Dense)
	var svd mat.SVD
	if ok := svd.Factorize(&cov, mat.SVDFull); !ok {
		return nil, nil, nil, CError{"SVD factorization failed", []string{"RotatorTranslatorToSuper"}}
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	//A reflection is corrected by flipping the axis with the smallest singular value.
	d := 1.0
	if mat.Det(&U)*mat.Det(&V) < 0 {
		d = -1
	}
	D := mat.NewDiagDense(3, []float64{1, 1, d})
	var UD mat.Dense
	UD.Mul(&U, D)
	rot := mat.NewDense(3, 3, nil)
	rot.Mul(&UD, V.T())
	rotation = v3.Dense2Matrix(rot)
	testcen.Scale(-1, testcen.Dense)
	return rotation, testcen, templacen, nil
}

// Super determines the best rotation and translations to superimpose the coords in test
// listed in testlst on the coords of templa listed in templalst.
// It applies those rotation and translations to the whole test, in place, and returns it.
// testlst and templalst must have the same number of elements.
func Super(test, templa *v3.Matrix, testlst, templalst []int) (*v3.Matrix, error) {
	if len(templalst) != len(testlst) {
		return nil, CError{fmt.Sprintf("Mismatched template and test atom numbers: %d, %d", len(templalst), len(testlst)), []string{"Super"}}
	}
	if len(testlst) == 0 {
		return nil, CError{"No atoms to superimpose", []string{"Super"}}
	}
	ctest := v3.Zeros(len(testlst))
	if err := ctest.SomeVecsSafe(test, testlst); err != nil {
		return nil, errDecorate(err, "Super")
	}
	ctempla := v3.Zeros(len(templalst))
	if err := ctempla.SomeVecsSafe(templa, templalst); err != nil {
		return nil, errDecorate(err, "Super")
	}
	rotation, trans1, trans2, err := RotatorTranslatorToSuper(ctest, ctempla)
	if err != nil {
		return nil, errDecorate(err, "Super")
	}
	test.AddVec(test, trans1)
	rotated := v3.Zeros(test.NVecs())
	rotated.Mul(test, rotation)
	test.Copy(rotated.Dense)
	test.AddVec(test, trans2)
	return test, nil
}

// RMSD returns the RMSD (root of the mean square deviation) for the sets of cartesian
// coordinates in test and template. No superposition is performed.
func RMSD(test, template *v3.Matrix) (float64, error) {
	tmr := template.NVecs()
	tsr := test.NVecs()
	if tmr != tsr || tmr == 0 {
		return 0, CError{fmt.Sprintf("Ill formed matrices for RMSD calculation: %d and %d vectors", tsr, tmr), []string{"RMSD"}}
	}
	var sum float64
	for i := 0; i < tmr; i++ {
		d := floats.Distance(test.RawRowView(i), template.RawRowView(i), 2)
		sum += d * d
	}
	return math.Sqrt(sum / float64(tmr)), nil
}

// RMSDSome returns the RMSD between the atoms testlst of test and
// the atoms templalst of templa, which are paired in order.
func RMSDSome(test, templa *v3.Matrix, testlst, templalst []int) (float64, error) {
	if len(testlst) != len(templalst) || len(testlst) == 0 {
		return 0, CError{fmt.Sprintf("Mismatched template and test atom numbers: %d, %d", len(templalst), len(testlst)), []string{"RMSDSome"}}
	}
	ctest := v3.Zeros(len(testlst))
	if err := ctest.SomeVecsSafe(test, testlst); err != nil {
		return 0, errDecorate(err, "RMSDSome")
	}
	ctempla := v3.Zeros(len(templalst))
	if err := ctempla.SomeVecsSafe(templa, templalst); err != nil {
		return 0, errDecorate(err, "RMSDSome")
	}
	return RMSD(ctest, ctempla)
}

// MinDistances returns, for each atom in from, the smallest distance between it
// and the atoms in to. If to is empty, all the distances are +Inf.
func MinDistances(coords *v3.Matrix, from, to []int) []float64 {
	ret := make([]float64, len(from))
	for i, f := range from {
		ret[i] = math.Inf(1)
		a := coords.RawRowView(f)
		for _, t := range to {
			d := floats.Distance(a, coords.RawRowView(t), 2)
			if d < ret[i] {
				ret[i] = d
			}
		}
	}
	return ret
}
