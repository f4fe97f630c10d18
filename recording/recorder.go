// Package recording stores harness output (check results, edge traces) in a
// SQLite database, one table per record type.
package recording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that records flat structs into named tables.
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of
	// sampleEntry. Every field must be of a scalar or string kind.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for a table created earlier.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered entries to the database.
	Flush()

	// Close flushes and releases the database.
	Close()
}

const insertBatchSize = 100000

// New creates a DataRecorder backed by a new SQLite file at path + ".sqlite3".
// An empty path picks a unique name. Creating over an existing file panics.
func New(path string) DataRecorder {
	if path == "" {
		path = "busbench_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("recording: file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "Recording session results to %s\n", filename)

	return NewWithDB(db)
}

// NewWithDB creates a DataRecorder over an existing database connection.
func NewWithDB(db *sql.DB) DataRecorder {
	r := &sqliteRecorder{
		db:     db,
		tables: make(map[string]*table),
	}

	atexit.Register(r.Flush)

	return r
}

type table struct {
	entryType reflect.Type
	pending   []any
}

type sqliteRecorder struct {
	db     *sql.DB
	tables map[string]*table

	pendingCount int
}

func (r *sqliteRecorder) CreateTable(tableName string, sampleEntry any) {
	mustHaveScalarFields(sampleEntry)

	columns := strings.Join(structs.Names(sampleEntry), ",\n\t")
	r.mustExec("CREATE TABLE " + tableName + " (\n\t" + columns + "\n);")

	r.tables[tableName] = &table{
		entryType: reflect.TypeOf(sampleEntry),
	}
}

func (r *sqliteRecorder) InsertData(tableName string, entry any) {
	t, ok := r.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("recording: table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.entryType {
		panic(fmt.Sprintf("recording: table %s expects entries of type %s",
			tableName, t.entryType))
	}

	t.pending = append(t.pending, entry)

	r.pendingCount++
	if r.pendingCount >= insertBatchSize {
		r.Flush()
	}
}

func (r *sqliteRecorder) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	return names
}

func (r *sqliteRecorder) Flush() {
	if r.pendingCount == 0 {
		return
	}

	r.mustExec("BEGIN TRANSACTION")
	defer r.mustExec("COMMIT TRANSACTION")

	for tableName, t := range r.tables {
		if len(t.pending) == 0 {
			continue
		}

		stmt := r.mustPrepareInsert(tableName, t.pending[0])

		for _, entry := range t.pending {
			v := reflect.ValueOf(entry)

			values := make([]any, 0, v.NumField())
			for i := 0; i < v.NumField(); i++ {
				values = append(values, v.Field(i).Interface())
			}

			if _, err := stmt.Exec(values...); err != nil {
				panic(err)
			}
		}

		t.pending = nil

		stmt.Close()
	}

	r.pendingCount = 0
}

func (r *sqliteRecorder) Close() {
	r.Flush()

	if err := r.db.Close(); err != nil {
		panic(err)
	}
}

func (r *sqliteRecorder) mustExec(query string) {
	if _, err := r.db.Exec(query); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}
}

func (r *sqliteRecorder) mustPrepareInsert(
	tableName string,
	sampleEntry any,
) *sql.Stmt {
	placeholders := structs.Names(sampleEntry)
	for i := range placeholders {
		placeholders[i] = "?"
	}

	stmt, err := r.db.Prepare("INSERT INTO " + tableName +
		" VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		panic(err)
	}

	return stmt
}

func mustHaveScalarFields(entry any) {
	t := reflect.TypeOf(entry)

	for i := 0; i < t.NumField(); i++ {
		switch t.Field(i).Type.Kind() {
		case reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16,
			reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16,
			reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64,
			reflect.String:
			continue
		default:
			panic(fmt.Sprintf("recording: field %s has unsupported kind %s",
				t.Field(i).Name, t.Field(i).Type.Kind()))
		}
	}
}
