// Package pipeline runs the full best-picture collection: for each year it
// parses the listing, extracts every listed movie's nominations, converts
// the figures, aggregates nominations per movie and joins the result.
//
// Work is sequential with one request in flight. Cancelling the context
// stops the run at the next fetch.
package pipeline
