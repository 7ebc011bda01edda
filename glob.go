/*
 * glob.go, part of dockprep.
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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandUser replaces a leading "~" in path with the user's home directory.
func ExpandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Glob returns the absolute paths of the files matching pattern, sorted
// lexicographically. The pattern may start with "~" and may contain "**",
// which matches any number of directories. Directories are not returned.
// A pattern without matches gives an empty slice and no error.
func Glob(pattern string) ([]string, error) {
	pattern = ExpandUser(pattern)
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errDecorate(err, "Glob")
	}
	ret := make([]string, 0, len(matches))
	for _, v := range matches {
		abs, err := filepath.Abs(v)
		if err != nil {
			return nil, errDecorate(err, "Glob")
		}
		ret = append(ret, abs)
	}
	sort.Strings(ret)
	return ret, nil
}

// GlobAll is like Glob for several patterns. A file matched by more than one
// pattern is returned only once, at the position of its first match.
func GlobAll(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var ret []string
	for _, p := range patterns {
		m, err := Glob(p)
		if err != nil {
			return nil, err
		}
		for _, v := range m {
			if !seen[v] {
				seen[v] = true
				ret = append(ret, v)
			}
		}
	}
	return ret, nil
}
