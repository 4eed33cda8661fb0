// Package upload runs the dispatch pipeline: safety gate, feature
// negotiation, then the network upload.
//
// The gate and negotiation complete for every file before any network
// call starts, so a rejected request never has partial side effects.
// Per-file uploads of an allowed request run concurrently; one file's
// failure never cancels its siblings, and the aggregate result reflects
// every outcome.
package upload
