package bin

import "fmt"

// Policy controls how negotiation reacts to a feature the selected
// service does not support.
type Policy struct {
	// CancelOnUnsupported aborts the upload. Takes precedence over
	// warning: a cancelled upload emits no warnings.
	CancelOnUnsupported bool

	// WarnOnUnsupported emits a warning when an unsupported feature
	// is stripped from the request.
	WarnOnUnsupported bool
}

// NegotiateRequest is the feature set a request asks for, after CLI
// overrides have been merged over configured defaults.
type NegotiateRequest struct {
	Private bool
	Authed  bool

	// Force downgrades a cancellation to a warning and proceeds with
	// the unsupported feature stripped.
	Force bool
}

// Outcome is the result of a successful negotiation.
type Outcome struct {
	// Private and Authed are the effective feature values to upload with.
	Private bool
	Authed  bool

	// Warnings lists features that were stripped, in evaluation order.
	Warnings []string
}

// UnsupportedFeatureError is returned when a requested feature is not
// supported by the selected service and the policy cancels the upload.
type UnsupportedFeatureError struct {
	Feature Feature
	Service string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s is not supported by %s", e.Feature, e.Service)
}

// Negotiate reconciles the requested features against the capabilities of b.
//
// For each requested feature: supported features stay enabled; unsupported
// features either cancel the upload (CancelOnUnsupported, unless forced) or
// are disabled in the outcome, with a warning when WarnOnUnsupported is set.
// Features b mandates are forced on in the outcome and never negotiated,
// even when the request asked for them (or asked them off).
func Negotiate(b Bin, req NegotiateRequest, pol Policy) (Outcome, error) {
	out := Outcome{
		Private: req.Private,
		Authed:  req.Authed,
	}

	type check struct {
		feature   Feature
		requested bool
		effective *bool
	}
	checks := []check{
		{Private, req.Private, &out.Private},
		{Auth, req.Authed, &out.Authed},
	}

	for _, c := range checks {
		if b.Mandates(c.feature) {
			// Not negotiable: the service applies it no matter what.
			*c.effective = true
			continue
		}
		if !c.requested || b.Supports(c.feature) {
			continue
		}

		if pol.CancelOnUnsupported && !req.Force {
			return Outcome{}, &UnsupportedFeatureError{Feature: c.feature, Service: b.Name()}
		}

		*c.effective = false
		switch {
		case pol.CancelOnUnsupported:
			out.Warnings = append(out.Warnings, fmt.Sprintf("forcing upload although %s is not supported by %s", c.feature, b.Name()))
		case pol.WarnOnUnsupported:
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s is not supported by %s, ignoring", c.feature, b.Name()))
		}
	}

	return out, nil
}
