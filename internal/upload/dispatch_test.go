package upload

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/jkcclemens/bins/internal/bin"
	"github.com/jkcclemens/bins/internal/safety"
	"github.com/jkcclemens/bins/internal/units"
)

// recordingBin counts network calls and can fail selected files.
// Uploads run concurrently, so all recorded state is synchronized.
type recordingBin struct {
	name       string
	private    bool
	auth       bool
	forcesAuth bool
	calls      atomic.Int32
	failFor    map[string]error

	mu       sync.Mutex
	lastOpts bin.UploadOptions
}

func (r *recordingBin) Name() string { return r.name }

func (r *recordingBin) Supports(f bin.Feature) bool {
	switch f {
	case bin.Private:
		return r.private
	case bin.Auth:
		return r.auth || r.forcesAuth
	}
	return false
}

func (r *recordingBin) Mandates(f bin.Feature) bool {
	return f == bin.Auth && r.forcesAuth
}

func (r *recordingBin) Upload(_ context.Context, f bin.UploadFile, opts bin.UploadOptions) (bin.PasteURL, error) {
	r.calls.Add(1)
	r.mu.Lock()
	r.lastOpts = opts
	r.mu.Unlock()
	if err := r.failFor[f.Name]; err != nil {
		return bin.PasteURL{}, err
	}
	return bin.PasteURL{File: f.Name, URL: "https://paste.test/" + f.Name}, nil
}

func (r *recordingBin) opts() bin.UploadOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastOpts
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func dispatcher(t *testing.T, b bin.Bin, gate *safety.Gate, policy bin.Policy) *Dispatcher {
	t.Helper()
	if gate == nil {
		gate = safety.NewGate(safety.GateOptions{})
	}
	return NewDispatcher(Options{
		Registry: bin.NewRegistry(b),
		Gate:     gate,
		Policy:   policy,
		Logger:   quietLogger(),
	})
}

func TestRunUploadsCleanRequest(t *testing.T) {
	b := &recordingBin{name: "test"}
	d := dispatcher(t, b, nil, bin.Policy{})

	result, err := d.Run(context.Background(), Request{
		Files:   []bin.UploadFile{{Name: "notes.txt", Content: []byte("hello")}},
		Service: "test",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	urls := result.URLs()
	if len(urls) != 1 || urls[0] != "https://paste.test/notes.txt" {
		t.Errorf("unexpected URLs: %v", urls)
	}
	if b.calls.Load() != 1 {
		t.Errorf("expected 1 upload call, got %d", b.calls.Load())
	}
}

func TestRunUnknownService(t *testing.T) {
	d := dispatcher(t, &recordingBin{name: "test"}, nil, bin.Policy{})

	_, err := d.Run(context.Background(), Request{Service: "nope"})
	if !errors.Is(err, bin.ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
}

func TestRunSafetyRejectionBlocksNetwork(t *testing.T) {
	// file_size_limit 1 MiB, file of 2 MiB: rejected, no network call.
	limit, err := units.ParseSize("1 MiB")
	if err != nil {
		t.Fatal(err)
	}
	b := &recordingBin{name: "test"}
	gate := safety.NewGate(safety.GateOptions{SizeLimit: limit})
	d := dispatcher(t, b, gate, bin.Policy{})

	result, err := d.Run(context.Background(), Request{
		Files:   []bin.UploadFile{{Name: "big.bin", Content: make([]byte, 2*1024*1024)}},
		Service: "test",
	})

	var se *SafetyError
	if !errors.As(err, &se) {
		t.Fatalf("expected SafetyError, got %v", err)
	}
	if b.calls.Load() != 0 {
		t.Errorf("rejected request must make no network calls, got %d", b.calls.Load())
	}
	if len(result.Verdict.Violations) != 1 || result.Verdict.Violations[0].Reason != safety.SizeExceeded {
		t.Errorf("unexpected verdict: %+v", result.Verdict)
	}
}

func TestRunForceProceedsAndReportsViolations(t *testing.T) {
	limit, err := units.ParseSize("1 MiB")
	if err != nil {
		t.Fatal(err)
	}
	b := &recordingBin{name: "test"}
	gate := safety.NewGate(safety.GateOptions{SizeLimit: limit})
	d := dispatcher(t, b, gate, bin.Policy{})

	result, err := d.Run(context.Background(), Request{
		Files:   []bin.UploadFile{{Name: "big.bin", Content: make([]byte, 2*1024*1024)}},
		Service: "test",
		Force:   true,
	})
	if err != nil {
		t.Fatalf("forced upload must proceed: %v", err)
	}
	if b.calls.Load() != 1 {
		t.Errorf("expected upload to run, got %d calls", b.calls.Load())
	}
	if len(result.Verdict.Violations) != 1 {
		t.Errorf("violations must still be reported under force: %+v", result.Verdict)
	}
}

func TestRunStripsUnsupportedFeatureWithWarning(t *testing.T) {
	// Service without private support, wants_private=true, warn-only
	// policy: upload proceeds with private off and one warning.
	b := &recordingBin{name: "test"}
	d := dispatcher(t, b, nil, bin.Policy{WarnOnUnsupported: true})

	result, err := d.Run(context.Background(), Request{
		Files:   []bin.UploadFile{{Name: "notes.txt", Content: []byte("x")}},
		Service: "test",
		Private: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Outcome.Private {
		t.Error("unsupported private must be stripped")
	}
	if b.opts().Private {
		t.Error("executor must see the stripped feature set")
	}
	if len(result.Outcome.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", result.Outcome.Warnings)
	}
}

func TestRunNegotiationCancelBlocksNetwork(t *testing.T) {
	b := &recordingBin{name: "test"}
	d := dispatcher(t, b, nil, bin.Policy{CancelOnUnsupported: true, WarnOnUnsupported: true})

	result, err := d.Run(context.Background(), Request{
		Files:   []bin.UploadFile{{Name: "notes.txt", Content: []byte("x")}},
		Service: "test",
		Private: true,
	})

	var ufe *bin.UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
	if b.calls.Load() != 0 {
		t.Errorf("cancelled negotiation must make no network calls, got %d", b.calls.Load())
	}
	if len(result.Outcome.Warnings) != 0 {
		t.Errorf("cancellation must emit zero warnings: %v", result.Outcome.Warnings)
	}
}

func TestRunSiblingFailuresCollected(t *testing.T) {
	failure := errors.New("boom")
	b := &recordingBin{
		name:    "test",
		failFor: map[string]error{"b.txt": failure},
	}
	d := dispatcher(t, b, nil, bin.Policy{})

	result, err := d.Run(context.Background(), Request{
		Files: []bin.UploadFile{
			{Name: "a.txt", Content: []byte("a")},
			{Name: "b.txt", Content: []byte("b")},
			{Name: "c.txt", Content: []byte("c")},
		},
		Service: "test",
	})

	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if len(ee.Failed) != 1 || ee.Failed[0].File != "b.txt" {
		t.Errorf("unexpected failures: %+v", ee.Failed)
	}
	// All three files ran despite the failure.
	if b.calls.Load() != 3 {
		t.Errorf("expected 3 upload calls, got %d", b.calls.Load())
	}
	if urls := result.URLs(); len(urls) != 2 {
		t.Errorf("expected 2 successful URLs, got %v", urls)
	}
}

// batchBin additionally implements MultiUploader.
type batchBin struct {
	recordingBin
	batchCalls atomic.Int32
}

func (b *batchBin) UploadAll(_ context.Context, files []bin.UploadFile, opts bin.UploadOptions) ([]bin.PasteURL, error) {
	b.batchCalls.Add(1)
	urls := make([]bin.PasteURL, len(files))
	for i, f := range files {
		urls[i] = bin.PasteURL{File: f.Name, URL: "https://paste.test/batch"}
	}
	return urls, nil
}

func TestRunPrefersBatchUpload(t *testing.T) {
	b := &batchBin{recordingBin: recordingBin{name: "test"}}
	d := dispatcher(t, b, nil, bin.Policy{})

	result, err := d.Run(context.Background(), Request{
		Files: []bin.UploadFile{
			{Name: "a.txt", Content: []byte("a")},
			{Name: "b.txt", Content: []byte("b")},
		},
		Service: "test",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b.batchCalls.Load() != 1 {
		t.Errorf("expected one batch call, got %d", b.batchCalls.Load())
	}
	if b.calls.Load() != 0 {
		t.Errorf("per-file upload must not run for batch services, got %d", b.calls.Load())
	}
	if len(result.Files) != 2 {
		t.Errorf("unexpected results: %+v", result.Files)
	}
}

func TestRunMandatedAuthNeverWarns(t *testing.T) {
	b := &recordingBin{name: "locked", forcesAuth: true, private: true}
	d := dispatcher(t, b, nil, bin.Policy{CancelOnUnsupported: true, WarnOnUnsupported: true})

	result, err := d.Run(context.Background(), Request{
		Files:   []bin.UploadFile{{Name: "notes.txt", Content: []byte("x")}},
		Service: "locked",
		Authed:  false,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Outcome.Authed {
		t.Error("mandated auth must be forced on")
	}
	if len(result.Outcome.Warnings) != 0 {
		t.Errorf("mandated feature must not warn: %v", result.Outcome.Warnings)
	}
}
