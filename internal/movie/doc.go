// Package movie defines the records that flow through the bom-oscars pipeline.
//
// A BestPictureRecord is one row of a yearly best-picture listing with its
// figures still in source string form; a Movie is the same row after value
// normalization. A Nomination is one award category a movie was nominated in.
// Records are linked only by movie title: Key produces the normalized form used
// for lookups, and two productions sharing a title cannot be told apart.
package movie
