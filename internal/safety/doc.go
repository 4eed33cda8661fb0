// Package safety implements the pre-upload check pipeline: file size
// limits, disallowed filename patterns, and disallowed content types.
//
// The gate is all-or-nothing per invocation: a violation on any file
// blocks the whole request, so a multi-file upload never partially
// succeeds. The force override reports violations without blocking.
//
// Stdin and --message content is ad hoc rather than a file on disk, so
// it is exempt from all checks.
//
//	gate := safety.NewGate(safety.GateOptions{
//	    SizeLimit: 1 << 20,
//	    Patterns:  patterns,
//	    Types:     []string{"PEM RSA private key"},
//	    Classifier: classify.New(),
//	})
//	verdict := gate.Check(files, force)
package safety
