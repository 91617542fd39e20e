/*
 * errors.go, part of gomlp.
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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

//Error kinds. Every error returned by gomlp packages wraps one of these,
//so callers can tell them apart with errors.Is.
var (
	ErrMissingFile       = errors.New("missing file")
	ErrMarkerNotFound    = errors.New("marker not found")
	ErrJobIncomplete     = errors.New("job is not finished")
	ErrNotConverged      = errors.New("scf convergence not achieved")
	ErrUnreliableSCF     = errors.New("scf correction compared to forces is large")
	ErrInconsistent      = errors.New("inconsistent data")
	ErrEpochMismatch     = errors.New("epoch is not consistent")
	ErrUnknownSpecies    = errors.New("unknown species")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNotDimer          = errors.New("only available for dimer data")
	ErrNoNeighbors       = errors.New("there are no neighbors")
	ErrMissingSymbols    = errors.New("chemical symbols are not set")
	ErrBadValue          = errors.New("malformed value")

	//ErrAbsent is returned by parsers for optional fields (energy, forces,
	//magnetization) that the source does not carry.
	ErrAbsent = errors.New("field is absent")
)

// Error is the general structure for gomlp errors. It keeps the kind of
// error, the file involved, if any, and a decoration trail with the
// functions the error went through.
type Error struct {
	kind     error
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
}

// NewError returns an error of the given kind.
func NewError(kind error, message, filename string) *Error {
	return &Error{kind: kind, message: message, filename: filename}
}

// Error returns a string with an error message.
func (err *Error) Error() string {
	msg := err.message
	if msg == "" && err.kind != nil {
		msg = err.kind.Error()
	}
	if err.filename != "" {
		return fmt.Sprintf("%s: %s", err.filename, msg)
	}
	return msg
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice. An empty string only returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// FileName returns the name of the file involved in the error, if any.
func (err *Error) FileName() string { return err.filename }

// Unwrap returns the kind of the error.
func (err *Error) Unwrap() error { return err.kind }

// Trace returns the decoration trail, outermost caller last.
func (err *Error) Trace() string { return strings.Join(err.deco, " <- ") }

// FileError returns a missing-file error for path.
func FileError(path string, cause error) *Error {
	msg := "file not found"
	if cause != nil {
		msg = cause.Error()
	}
	return NewError(ErrMissingFile, msg, path)
}

// MarkerError returns a marker-not-found error naming the marker.
func MarkerError(marker, path string) *Error {
	return NewError(ErrMarkerNotFound, fmt.Sprintf("marker %q not found", marker), path)
}

// Decorate adds caller to the trail of err if err is a gomlp error. Other errors are
// wrapped with the caller name.
func Decorate(err error, caller string) error {
	return errDecorate(err, caller)
}

func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var err2 *Error
	if errors.As(err, &err2) {
		err2.Decorate(caller)
		return err
	}
	return errors.Wrap(err, caller)
}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrIndexOutOfRange = PanicMsg("gomlp: Index out of range")
)
