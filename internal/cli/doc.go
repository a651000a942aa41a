// Package cli implements the command-line interface for bom-oscars.
//
// The run command collects best-picture listings for a range of years,
// follows each movie to its nomination history and writes the joined
// table as CSV or XLSX. The noms command looks up free-text titles and
// reports their nominations. Settings come from flags, BOM_* environment
// variables, an optional .env file and bom-oscars.yaml (see package config).
package cli
