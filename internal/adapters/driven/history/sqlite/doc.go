// Package sqlite persists upload-run reports to a local SQLite
// database so failed batch ranges can be inspected after the process
// exits.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. By default the database lives at
// ~/.codelime/data/history.db.
package sqlite
