package bin

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeBin is a service with arbitrary capabilities for negotiation tests.
type fakeBin struct {
	caps
	name string
}

func (f *fakeBin) Name() string { return f.name }

func (f *fakeBin) Upload(context.Context, UploadFile, UploadOptions) (PasteURL, error) {
	return PasteURL{}, errors.New("not implemented")
}

func TestNegotiateSupportedFeatures(t *testing.T) {
	b := &fakeBin{name: "full", caps: caps{private: true, auth: true}}

	out, err := Negotiate(b, NegotiateRequest{Private: true, Authed: true}, Policy{})
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if !out.Private || !out.Authed {
		t.Errorf("supported features must stay enabled: %+v", out)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}
}

func TestNegotiateCancelOnUnsupported(t *testing.T) {
	b := &fakeBin{name: "plain"}

	_, err := Negotiate(b, NegotiateRequest{Private: true}, Policy{CancelOnUnsupported: true})
	if err == nil {
		t.Fatal("expected cancellation")
	}

	var ufe *UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
	if ufe.Feature != Private || ufe.Service != "plain" {
		t.Errorf("unexpected error detail: %+v", ufe)
	}
}

func TestNegotiateCancelPrecedesWarn(t *testing.T) {
	// With both policies active, cancellation wins and no warnings are
	// emitted.
	b := &fakeBin{name: "plain"}

	out, err := Negotiate(b, NegotiateRequest{Private: true}, Policy{
		CancelOnUnsupported: true,
		WarnOnUnsupported:   true,
	})
	if err == nil {
		t.Fatal("expected cancellation")
	}
	if len(out.Warnings) != 0 {
		t.Errorf("cancelled negotiation must emit zero warnings: %v", out.Warnings)
	}
}

func TestNegotiateWarnAndStrip(t *testing.T) {
	b := &fakeBin{name: "plain"}

	out, err := Negotiate(b, NegotiateRequest{Private: true}, Policy{WarnOnUnsupported: true})
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if out.Private {
		t.Error("unsupported feature must be stripped")
	}
	if len(out.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", out.Warnings)
	}
	if out.Warnings[0] != "private is not supported by plain, ignoring" {
		t.Errorf("unexpected warning text: %q", out.Warnings[0])
	}
}

func TestNegotiateSilentStrip(t *testing.T) {
	b := &fakeBin{name: "plain"}

	out, err := Negotiate(b, NegotiateRequest{Private: true, Authed: true}, Policy{})
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if out.Private || out.Authed {
		t.Errorf("unsupported features must be stripped: %+v", out)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("warnings disabled by policy, got %v", out.Warnings)
	}
}

func TestNegotiateForceOverridesCancel(t *testing.T) {
	b := &fakeBin{name: "plain"}

	out, err := Negotiate(b, NegotiateRequest{Private: true, Force: true}, Policy{CancelOnUnsupported: true})
	if err != nil {
		t.Fatalf("force must override cancellation: %v", err)
	}
	if out.Private {
		t.Error("forced upload still strips the unsupported feature")
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "forcing") {
		t.Errorf("expected a forcing warning, got %v", out.Warnings)
	}
}

func TestNegotiateMandatedFeature(t *testing.T) {
	b := &fakeBin{name: "locked", caps: caps{forcesAuth: true}}

	// Requesting authed=false against a mandatory-auth service is not a
	// negotiable feature: no warning, no cancellation, auth forced on.
	out, err := Negotiate(b, NegotiateRequest{Authed: false}, Policy{
		CancelOnUnsupported: true,
		WarnOnUnsupported:   true,
	})
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if !out.Authed {
		t.Error("mandated feature must be forced on")
	}
	if len(out.Warnings) != 0 {
		t.Errorf("mandated feature must not warn: %v", out.Warnings)
	}

	// Same when explicitly requested.
	out, err = Negotiate(b, NegotiateRequest{Authed: true}, Policy{CancelOnUnsupported: true})
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if !out.Authed || len(out.Warnings) != 0 {
		t.Errorf("unexpected outcome: %+v", out)
	}
}

func TestNegotiateEvaluationOrder(t *testing.T) {
	b := &fakeBin{name: "plain"}

	out, err := Negotiate(b, NegotiateRequest{Private: true, Authed: true}, Policy{WarnOnUnsupported: true})
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if len(out.Warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", out.Warnings)
	}
	if !strings.HasPrefix(out.Warnings[0], "private") || !strings.HasPrefix(out.Warnings[1], "auth") {
		t.Errorf("warnings out of order: %v", out.Warnings)
	}
}
