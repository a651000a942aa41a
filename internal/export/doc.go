// Package export writes the merged movie table and the flat nomination
// records as CSV or XLSX files.
//
// Output paths may start with ~/ for the home directory. Parent
// directories are created as needed and files are replaced atomically,
// so an interrupted run never leaves a truncated table behind.
package export
