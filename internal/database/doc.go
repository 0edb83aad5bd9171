// Package database provides SQLite-based run history for mojifix.
//
// Every document that is written back gets one row in the runs table:
// the path, SHA3-256 hashes of the text before and after, removal and
// insertion counts, the pre-fix snapshot, and the JSON summary. The
// snapshot lets `mojifix history --restore` undo a fix.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. The database is a single file under the XDG data directory
// 2. The CGO-free driver keeps cross-compilation easy
package database
