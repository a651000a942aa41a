// Package search looks up movies on Box Office Mojo by free-text title and
// picks the matching result.
//
// It is the fallback used when a listing row did not link to the movie's
// nomination page. An exact title match is selected automatically, as is a
// single result. When several results match loosely the choice is handed to a
// Resolver; TerminalResolver asks a person on the console.
package search
