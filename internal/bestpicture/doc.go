// Package bestpicture parses the yearly Box Office Mojo best-picture listing.
//
// A listing page carries a "BEST PICTURE" text marker followed by a table of
// nominated movies with their gross and theatre figures before and after the
// nominations were announced. Rows are read by fixed column position and must
// have exactly ColumnCount cells. In lenient mode malformed rows are dropped and
// counted; in strict mode they fail the year with a typed error.
package bestpicture
