// Package fetcher issues HTTP GET requests against Box Office Mojo and parses
// the responses into goquery documents.
//
// A Fetcher performs exactly one request per call: it does not retry, does not
// cache, and by default sets no client timeout, so a hanging remote endpoint
// stalls the caller until its context is cancelled. Any transport failure or
// non-2xx status is returned to the caller as an error.
package fetcher
