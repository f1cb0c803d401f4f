// Package urlsync keeps view query state and the address bar's query string in step.
//
// Each resource has a codec that decodes URL parameters into a validated patch and
// encodes a query back into the minimal string that differs from the resource default.
// The Synchronizer runs the two-way protocol on top of a codec.
package urlsync

import "net/url"

// Codec maps a query object to and from its URL form.
type Codec[Q comparable] interface {
	// Resolve decodes values and merges the patch over the hard defaults.
	Resolve(values url.Values) Q
	// Encode renders only the fields that differ from the defaults, in schema order.
	Encode(q Q) string
	// Canonical substitutes the default for every unset field of q.
	Canonical(q Q) Q
}
