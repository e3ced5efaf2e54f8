// Package database provides SQLite-based storage for mailscout.
//
// The Store keeps two tables:
//   - request_log: one row per pipeline run with the number of sites it
//     processed, keyed by local calendar day. Today's counter is the sum of
//     today's rows, so the counter resets itself at midnight.
//   - runs: a summary and the full JSON report of every run, for the
//     history command.
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, with a
// single connection and WAL journaling. Concurrent mailscout processes can
// still race between ReadCounter and IncrementCounter; the check is not
// transactional.
package database
