/*
 * files.go, part of gomlp.
 *
 * Copyright 2024 The gomlp Authors
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

package mlp

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ScanPolicy tells which occurrence of a marker wins when it appears
// more than once in a file.
type ScanPolicy int

const (
	FirstMatch ScanPolicy = iota
	LastMatch
)

func (p ScanPolicy) String() string {
	if p == LastMatch {
		return "last"
	}
	return "first"
}

// Lines is a text file loaded in memory, one whitespace-trimmed string per line.
type Lines struct {
	Name string
	l    []string
}

// NewLines reads all the lines from r. name is only used in error messages.
func NewLines(name string, r io.Reader) (*Lines, error) {
	ret := &Lines{Name: name, l: make([]string, 0, 256)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		ret.l = append(ret.l, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, NewError(ErrBadValue, err.Error(), name)
	}
	return ret, nil
}

// LinesFrom builds a Lines object from already split lines. The lines are trimmed.
func LinesFrom(name string, lines []string) *Lines {
	ret := &Lines{Name: name, l: make([]string, len(lines))}
	for i, v := range lines {
		ret.l[i] = strings.TrimSpace(v)
	}
	return ret
}

// ReadLines opens and reads the file at path. Files ending in .zst or .gz
// are decompressed on the fly. A missing file gives an ErrMissingFile error.
func ReadLines(path string) (*Lines, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FileError(path, err)
	}
	defer f.Close()
	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, NewError(ErrBadValue, err.Error(), path)
		}
		defer dec.Close()
		r = dec
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, NewError(ErrBadValue, err.Error(), path)
		}
		defer gz.Close()
		r = gz
	}
	return NewLines(path, r)
}

func (L *Lines) Len() int { return len(L.l) }

// Line returns the ith line. Panics if out of range.
func (L *Lines) Line(i int) string {
	if i < 0 || i >= len(L.l) {
		panic(ErrIndexOutOfRange)
	}
	return L.l[i]
}

// All returns the lines. The slice should not be modified.
func (L *Lines) All() []string { return L.l }

// Find returns the index of the line containing marker, the first or last one
// depending on policy. If no line contains it, a marker error is returned.
func (L *Lines) Find(marker string, policy ScanPolicy) (int, error) {
	return L.find(marker, policy, strings.Contains)
}

// FindExact is like Find, but the whole (trimmed) line must be equal to marker.
func (L *Lines) FindExact(marker string, policy ScanPolicy) (int, error) {
	return L.find(marker, policy, func(a, b string) bool { return a == b })
}

func (L *Lines) find(marker string, policy ScanPolicy, match func(string, string) bool) (int, error) {
	idx := -1
	for i, v := range L.l {
		if match(v, marker) {
			idx = i
			if policy == FirstMatch {
				break
			}
		}
	}
	if idx < 0 {
		return -1, MarkerError(marker, L.Name)
	}
	return idx, nil
}

// FindAll returns the indexes of all the lines containing marker, in order.
func (L *Lines) FindAll(marker string) []int {
	var ret []int
	for i, v := range L.l {
		if strings.Contains(v, marker) {
			ret = append(ret, i)
		}
	}
	return ret
}

// Contains returns true if any line contains marker.
func (L *Lines) Contains(marker string) bool {
	_, err := L.Find(marker, FirstMatch)
	return err == nil
}

// Block returns the n lines starting at start. It fails if the file is too short.
func (L *Lines) Block(start, n int) ([]string, error) {
	if start < 0 || n < 0 || start+n > len(L.l) {
		return nil, NewError(ErrBadValue, fmt.Sprintf("block of %d lines starting at line %d exceeds the file length %d", n, start+1, len(L.l)), L.Name)
	}
	return L.l[start : start+n], nil
}

// After returns the line offset lines after the one containing marker,
// chosen according to policy.
func (L *Lines) After(marker string, offset int, policy ScanPolicy) (string, error) {
	i, err := L.Find(marker, policy)
	if err != nil {
		return "", err
	}
	b, err := L.Block(i+offset, 1)
	if err != nil {
		return "", errDecorate(err, "After")
	}
	return b[0], nil
}

// Field returns the token at position i of line, counting from the end if
// i is negative (-1 is the last token).
func Field(line string, i int) (string, error) {
	f := strings.Fields(line)
	if i < 0 {
		i = len(f) + i
	}
	if i < 0 || i >= len(f) {
		return "", NewError(ErrBadValue, fmt.Sprintf("line %q has no field %d", line, i), "")
	}
	return f[i], nil
}

// FloatField is like Field, but parses the token as a float64.
func FloatField(line string, i int) (float64, error) {
	s, err := Field(line, i)
	if err != nil {
		return 0, err
	}
	ret, err := ParseFloat(s)
	if err != nil {
		return 0, errDecorate(err, "FloatField")
	}
	return ret, nil
}

// ParseFloat parses s, accepting Fortran-style D exponents.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	ret, err := strconv.ParseFloat(s, 64)
	if err != nil {
		ret, err = strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(s), 64)
		if err != nil {
			return 0, NewError(ErrBadValue, fmt.Sprintf("can't parse %q as a number", s), "")
		}
	}
	return ret, nil
}

// ParseFloats parses every element of fields.
func ParseFloats(fields []string) ([]float64, error) {
	ret := make([]float64, len(fields))
	for i, v := range fields {
		f, err := ParseFloat(v)
		if err != nil {
			return nil, errDecorate(err, "ParseFloats")
		}
		ret[i] = f
	}
	return ret, nil
}

// WriteLines writes lines to path, one per line, creating the parent directories.
func WriteLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, v := range lines {
		if _, err := w.WriteString(v + "\n"); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return w.Flush()
}

// Exists returns nil if path exists, or an ErrMissingFile error naming it.
func Exists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return FileError(path, err)
	}
	return nil
}

// CopyFile copies src to dst, creating the parent directories of dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return FileError(src, err)
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", dst)
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	return out.Close()
}

// CopyDir copies the directory tree src into dst. dst must not exist.
func CopyDir(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.Newf("destination %s already exists", dst)
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return FileError(path, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return CopyFile(path, target)
	})
}
