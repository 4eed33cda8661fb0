package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jkcclemens/bins/internal/bin"
	"github.com/jkcclemens/bins/internal/safety"
)

// Request is a fully resolved upload request: CLI flags already merged
// over configured defaults. It is never mutated by the pipeline.
type Request struct {
	// Files are the content buffers to upload.
	Files []bin.UploadFile

	// Service is the target service name.
	Service string

	// Private and Authed are the effective requested features.
	Private bool
	Authed  bool

	// Force reports violations and unsupported features without
	// blocking the upload.
	Force bool
}

// FileResult is the outcome of one file's upload.
type FileResult struct {
	File string
	URL  string
	Err  error
}

// Result aggregates everything the pipeline produced for a request.
type Result struct {
	// Verdict is the safety gate's decision, including violations
	// reported under force.
	Verdict safety.Verdict

	// Outcome is the negotiated effective feature set.
	Outcome bin.Outcome

	// Files holds one entry per uploaded file, in request order.
	Files []FileResult
}

// URLs returns the successful paste URLs, in request order.
func (r *Result) URLs() []string {
	var urls []string
	for _, f := range r.Files {
		if f.Err == nil && f.URL != "" {
			urls = append(urls, f.URL)
		}
	}
	return urls
}

// SafetyError is returned when the gate blocks a request.
type SafetyError struct {
	Verdict safety.Verdict
}

func (e *SafetyError) Error() string {
	var parts []string
	for _, v := range e.Verdict.Violations {
		parts = append(parts, v.String())
	}
	return "upload blocked: " + strings.Join(parts, "; ")
}

// ExecError is returned when one or more file uploads failed after the
// pipeline allowed the request.
type ExecError struct {
	Failed []FileResult
}

func (e *ExecError) Error() string {
	if len(e.Failed) == 1 {
		return fmt.Sprintf("upload failed: %s: %v", e.Failed[0].File, e.Failed[0].Err)
	}
	return fmt.Sprintf("upload failed for %d files", len(e.Failed))
}

// Options configures a Dispatcher.
type Options struct {
	// Registry resolves service names.
	Registry *bin.Registry

	// Gate is the safety gate.
	Gate *safety.Gate

	// Policy controls feature negotiation.
	Policy bin.Policy

	// Workers caps concurrent per-file uploads.
	// Default: 4
	Workers int

	// Logger receives negotiation warnings and forced-violation
	// reports. Default: the logrus standard logger.
	Logger *logrus.Logger
}

// Dispatcher runs requests through gate, negotiation, and upload.
type Dispatcher struct {
	opts Options
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Dispatcher{opts: opts}
}

// Run executes the pipeline for one request. The returned Result is
// non-nil whenever the request reached the gate, so callers can report
// violations and warnings even for failed requests.
func (d *Dispatcher) Run(ctx context.Context, req Request) (*Result, error) {
	b, err := d.opts.Registry.Get(req.Service)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	// Gate and negotiation both finish before any network call, for
	// every file: a rejected request has zero side effects.
	result.Verdict = d.opts.Gate.Check(req.Files, req.Force)
	for _, v := range result.Verdict.Violations {
		d.opts.Logger.Warn(v.String())
	}
	if !result.Verdict.Allowed {
		return result, &SafetyError{Verdict: result.Verdict}
	}

	outcome, err := bin.Negotiate(b, bin.NegotiateRequest{
		Private: req.Private,
		Authed:  req.Authed,
		Force:   req.Force,
	}, d.opts.Policy)
	if err != nil {
		return result, err
	}
	result.Outcome = outcome
	for _, w := range outcome.Warnings {
		d.opts.Logger.Warn(w)
	}

	opts := bin.UploadOptions{Private: outcome.Private, Authed: outcome.Authed}
	result.Files = d.execute(ctx, b, req.Files, opts)

	var failed []FileResult
	for _, f := range result.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	if len(failed) > 0 {
		return result, &ExecError{Failed: failed}
	}
	return result, nil
}

// execute performs the network uploads. Services that store several
// files in one paste get a single call; otherwise files upload
// concurrently, and every file runs to completion regardless of
// sibling failures.
func (d *Dispatcher) execute(ctx context.Context, b bin.Bin, files []bin.UploadFile, opts bin.UploadOptions) []FileResult {
	if len(files) > 1 {
		if multi, ok := b.(bin.MultiUploader); ok {
			urls, err := multi.UploadAll(ctx, files, opts)
			results := make([]FileResult, len(files))
			for i, f := range files {
				results[i] = FileResult{File: f.Name, Err: err}
				if err == nil {
					results[i].URL = urls[i].URL
				}
			}
			return results
		}
	}

	results := make([]FileResult, len(files))
	var g errgroup.Group
	g.SetLimit(d.opts.Workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			u, err := b.Upload(ctx, f, opts)
			results[i] = FileResult{File: f.Name, URL: u.URL, Err: err}
			// Errors are collected per file; returning nil keeps
			// sibling uploads running.
			return nil
		})
	}
	g.Wait()
	return results
}
