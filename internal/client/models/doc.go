// Package models defines the request, draft, tab and response types of the
// fluxapi client together with the text codecs used at the storage edge.
//
// Persisted requests keep their structured facets (headers, query params,
// auth, body) as JSON text. Drafts hold the decoded form. Decoding is
// tolerant: a facet that cannot be parsed is replaced by its default and
// never fails the whole load.
package models
