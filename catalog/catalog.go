/*
 * catalog.go, part of gomlp.
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

// Package catalog keeps an index of the DFT calculations of a material
// system in a SQLite database, so training sets can be assembled from them.
package catalog

import (
	"database/sql"
	_ "embed"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/cockroachdb/errors"
	mlp "github.com/gomlp/gomlp"
	"github.com/gomlp/gomlp/config"
	"github.com/gomlp/gomlp/logger"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// DBName is the name of the database file in a catalog directory.
const DBName = "structure.db"

// SQLiteBusyTimeoutMS is how long a connection waits for a lock.
const SQLiteBusyTimeoutMS = 5000

var (
	ErrNotFound = errors.New("structure not in catalog")
	ErrExists   = errors.New("structure already in catalog")
)

//go:embed schema.sql
var schema string

// Entry is one calculation in the catalog.
type Entry struct {
	ID              string
	OriginalPath    string
	StructureID     int
	StructureName   string
	CalculationType string
}

var trailingNumber = regexp.MustCompile(`(\d+)$`)

// EntryFromAtoms returns an entry for the calculation A was read from.
// The numeric part of the structure id ("mp-149" gives 149) is used as
// structure id, and the formula as name.
func EntryFromAtoms(A *mlp.Atoms) *Entry {
	E := &Entry{
		OriginalPath:    A.Path,
		StructureName:   A.Formula(),
		CalculationType: A.Info["calculation"],
	}
	if m := trailingNumber.FindString(A.StructureID); m != "" {
		E.StructureID, _ = strconv.Atoi(m)
	}
	return E
}

// Catalog is an open structure database.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open opens, and creates if needed, the catalog database at path.
func Open(path string) (*Catalog, error) {
	logger.Logger.Debugw("opening catalog", "path", path)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %s", path)
	}
	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = " + strconv.Itoa(SQLiteBusyTimeoutMS),
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "setting up catalog %s", path)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "creating schema in %s", path)
	}
	return &Catalog{db: db, path: path}, nil
}

// OpenSystem opens the catalog configured for system in C.
func OpenSystem(C *config.Config, system string) (*Catalog, error) {
	dir, err := C.CatalogDir(system)
	if err != nil {
		return nil, err
	}
	if err := mlp.Exists(dir); err != nil {
		return nil, mlp.Decorate(err, "catalog.OpenSystem")
	}
	return Open(filepath.Join(dir, DBName))
}

// Path returns the database file.
func (C *Catalog) Path() string { return C.path }

// Close closes the database.
func (C *Catalog) Close() error { return C.db.Close() }

// Add inserts E, giving it a new id if it has none. An entry with the same
// original path gives ErrExists.
func (C *Catalog) Add(E *Entry) error {
	if E.ID == "" {
		E.ID = uuid.NewString()
	}
	_, err := C.db.Exec(`INSERT INTO structure (id, original_path, structure_id, structure_name, calculation_type)
		VALUES (?, ?, ?, ?, ?)`, E.ID, E.OriginalPath, E.StructureID, E.StructureName, E.CalculationType)
	var se sqlite3.Error
	if errors.As(err, &se) && (se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return errors.Wrapf(ErrExists, "%s", E.OriginalPath)
	}
	if err != nil {
		return errors.Wrapf(err, "adding %s", E.OriginalPath)
	}
	logger.Logger.Debugw("added structure", "id", E.ID, "path", E.OriginalPath)
	return nil
}

const columns = "id, original_path, structure_id, structure_name, calculation_type"

func scan(row interface{ Scan(...any) error }) (*Entry, error) {
	E := new(Entry)
	var calc sql.NullString
	err := row.Scan(&E.ID, &E.OriginalPath, &E.StructureID, &E.StructureName, &calc)
	E.CalculationType = calc.String
	return E, err
}

// Get returns the entry with the given id.
func (C *Catalog) Get(id string) (*Entry, error) {
	E, err := scan(C.db.QueryRow("SELECT "+columns+" FROM structure WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	return E, errors.Wrapf(err, "getting %s", id)
}

// FindPath returns the entry for the calculation at path.
func (C *Catalog) FindPath(path string) (*Entry, error) {
	E, err := scan(C.db.QueryRow("SELECT "+columns+" FROM structure WHERE original_path = ?", path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "path %s", path)
	}
	return E, errors.Wrapf(err, "getting %s", path)
}

// List returns the entries, sorted by path. If a name is given, only the
// entries with that structure name are returned.
func (C *Catalog) List(name ...string) ([]*Entry, error) {
	q := "SELECT " + columns + " FROM structure"
	var args []any
	if len(name) > 0 && name[0] != "" {
		q += " WHERE structure_name = ?"
		args = append(args, name[0])
	}
	rows, err := C.db.Query(q+" ORDER BY original_path", args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing catalog")
	}
	defer rows.Close()
	var ret []*Entry
	for rows.Next() {
		E, err := scan(rows)
		if err != nil {
			return nil, errors.Wrap(err, "listing catalog")
		}
		ret = append(ret, E)
	}
	return ret, errors.Wrap(rows.Err(), "listing catalog")
}

// Delete removes the entry with the given id.
func (C *Catalog) Delete(id string) error {
	res, err := C.db.Exec("DELETE FROM structure WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "deleting %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}
