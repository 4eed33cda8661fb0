// Package bin defines the paste service abstraction: the Bin upload
// interface, per-service capability sets, the service registry, and
// feature negotiation.
//
// Each known service is one implementation of [Bin]. Capabilities are
// part of the interface rather than data looked up by name, so adding
// a service means adding a type, not extending conditionals.
//
// # Negotiation
//
// [Negotiate] reconciles the features a request asks for (private,
// authenticated pastes) against what the selected service supports:
//
//	outcome, err := bin.Negotiate(b, bin.NegotiateRequest{Private: true}, policy)
//
// Unsupported features either cancel the upload or are stripped with a
// warning, depending on the safety policy. Features a service mandates
// (for example Bitbucket snippets always require credentials) are never
// negotiated; they are simply forced on in the outcome.
package bin
