/*
 * formats.go, part of dockprep.
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

package chem

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/zstd"
)

// Format is a structure file format.
type Format int

const (
	PDB Format = iota
	PDBx
)

func (f Format) String() string {
	if f == PDBx {
		return "mmCIF"
	}
	return "PDB"
}

type compression int

const (
	plain compression = iota
	gz
	zst
)

var pdbExts = []string{".pdb", ".ent"}
var pdbxExts = []string{".cif", ".mmcif"}

func compressionOf(name string) compression {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return gz
	case ".zst", ".zstd":
		return zst
	}
	return plain
}

// FormatOf returns the structure format of the file name, judging by its extension.
// Compression extensions (.gz, .zst) are skipped.
func FormatOf(name string) (Format, error) {
	base := filepath.Base(name)
	if compressionOf(base) != plain {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	ext := strings.ToLower(filepath.Ext(base))
	switch {
	case isInString(pdbExts, ext):
		return PDB, nil
	case isInString(pdbxExts, ext):
		return PDBx, nil
	}
	return PDB, fmt.Errorf("%s: %w", name, ErrUnknownFormat)
}

// ReadFile reads a PDB or mmCIF file, possibly gzip or zstd compressed.
// Uncompressed files are memory-mapped.
func ReadFile(name string) (*Molecule, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	defer f.Close()
	var r io.Reader
	switch compressionOf(name) {
	case gz:
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, errDecorate(fmt.Errorf("%s: %w", name, err), "ReadFile")
		}
		defer zr.Close()
		r = zr
	case zst:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, errDecorate(fmt.Errorf("%s: %w", name, err), "ReadFile")
		}
		defer zr.Close()
		r = zr
	default:
		info, err := f.Stat()
		if err != nil {
			return nil, errDecorate(err, "ReadFile")
		}
		if info.Size() == 0 {
			return nil, errDecorate(fmt.Errorf("%s: %w", name, ErrNoAtoms), "ReadFile")
		}
		mm, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return nil, errDecorate(fmt.Errorf("%s: %w", name, err), "ReadFile")
		}
		defer mm.Unmap()
		r = bytes.NewReader(mm)
	}
	var mol *Molecule
	if format == PDBx {
		mol, err = PDBxRead(r)
	} else {
		mol, err = PDBRead(r)
	}
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %s: %w", name, err)
	}
	return mol, nil
}

// WriteFile writes all the frames of mol to name, in the format given by its
// extension, compressing with gzip or zstd if the name ends in .gz or .zst.
func WriteFile(name string, mol *Molecule) (err error) {
	format, err := FormatOf(name)
	if err != nil {
		return errDecorate(err, "WriteFile")
	}
	f, err := os.Create(name)
	if err != nil {
		return errDecorate(err, "WriteFile")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errDecorate(cerr, "WriteFile")
		}
	}()
	var w io.WriteCloser
	switch compressionOf(name) {
	case gz:
		w = gzip.NewWriter(f)
	case zst:
		w, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return errDecorate(err, "WriteFile")
		}
	default:
		w = nopCloser{f}
	}
	if format == PDBx {
		err = PDBxWrite(w, mol.Topology, mol.Coords, mol.Bfactors, Stem(name))
	} else {
		err = PDBWrite(w, mol.Topology, mol.Coords, mol.Bfactors)
	}
	if err != nil {
		w.Close()
		return errDecorate(err, "WriteFile")
	}
	return errDecorate(w.Close(), "WriteFile")
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
