/*
 * v3_test.go
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	if err == nil {
		Te.Error("a slice not divisible by 3 should not give a Matrix")
	}
	_, err = NewMatrix(nil)
	require.Error(Te, err)
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	require.Equal(Te, 2, A.NVecs())
	require.Equal(Te, 4.0, A.At(1, 0))
}

func TestSomeVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	A, err := NewMatrix(a)
	require.NoError(Te, err)
	B := Zeros(3)
	cind := []int{1, 3, 5}
	require.NoError(Te, B.SomeVecsSafe(A, cind))
	require.Equal(Te, 16.0, B.At(2, 0))
	require.Equal(Te, 11.0, B.At(1, 1))
	C := Zeros(2)
	require.Error(Te, C.SomeVecsSafe(A, []int{0, 9}))
}

func TestAddSubVec(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	row, err := NewMatrix([]float64{10, 20, 30})
	require.NoError(Te, err)
	A.AddVec(A, row)
	require.Equal(Te, 36.0, A.At(1, 2))
	A.SubVec(A, row)
	require.Equal(Te, 6.0, A.At(1, 2))
	c := A.Centroid()
	require.InDelta(Te, 2.5, c.At(0, 0), 1e-12)
	require.InDelta(Te, 4.5, c.At(0, 2), 1e-12)
	B := A.Clone()
	B.Set(0, 0, -1)
	require.Equal(Te, 1.0, A.At(0, 0))
}
