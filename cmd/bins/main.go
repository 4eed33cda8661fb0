package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/jkcclemens/bins/internal/bin"
	"github.com/jkcclemens/bins/internal/classify"
	"github.com/jkcclemens/bins/internal/clipboard"
	"github.com/jkcclemens/bins/internal/config"
	binshttp "github.com/jkcclemens/bins/internal/http"
	"github.com/jkcclemens/bins/internal/safety"
	"github.com/jkcclemens/bins/internal/upload"
)

// Exit codes
const (
	ExitSuccess            = 0
	ExitGeneralError       = 1
	ExitInvalidArgs        = 2
	ExitConfigError        = 3
	ExitSafetyViolation    = 4
	ExitUnsupportedFeature = 5
	ExitUnknownService     = 6
	ExitUploadFailed       = 7
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// cliFlags holds one invocation's parsed command line.
type cliFlags struct {
	bin      string
	private  bool
	public   bool
	auth     bool
	anon     bool
	copyURL  bool
	noCopy   bool
	force    bool
	message  string
	name     string
	listBins bool
	debug    bool
	paths    []string
}

func parseFlags(args []string) (cliFlags, error) {
	var cf cliFlags

	fs := flag.NewFlagSet("bins", flag.ContinueOnError)
	fs.StringVar(&cf.bin, "bin", "", "Service to upload to")
	fs.StringVar(&cf.bin, "b", "", "Service to upload to (shorthand)")
	fs.BoolVar(&cf.private, "private", false, "Request a private paste")
	fs.BoolVar(&cf.private, "p", false, "Request a private paste (shorthand)")
	fs.BoolVar(&cf.public, "public", false, "Request a public paste")
	fs.BoolVar(&cf.public, "P", false, "Request a public paste (shorthand)")
	fs.BoolVar(&cf.auth, "auth", false, "Upload with stored credentials")
	fs.BoolVar(&cf.auth, "a", false, "Upload with stored credentials (shorthand)")
	fs.BoolVar(&cf.anon, "anon", false, "Upload anonymously")
	fs.BoolVar(&cf.anon, "A", false, "Upload anonymously (shorthand)")
	fs.BoolVar(&cf.copyURL, "copy", false, "Copy the paste URL to the clipboard")
	fs.BoolVar(&cf.copyURL, "c", false, "Copy the paste URL to the clipboard (shorthand)")
	fs.BoolVar(&cf.noCopy, "no-copy", false, "Do not copy the paste URL to the clipboard")
	fs.BoolVar(&cf.noCopy, "C", false, "Do not copy the paste URL to the clipboard (shorthand)")
	fs.BoolVar(&cf.force, "force", false, "Upload despite safety violations and unsupported features")
	fs.BoolVar(&cf.force, "f", false, "Upload despite safety violations and unsupported features (shorthand)")
	fs.StringVar(&cf.message, "message", "", "Upload the given text instead of files")
	fs.StringVar(&cf.message, "m", "", "Upload the given text instead of files (shorthand)")
	fs.StringVar(&cf.name, "name", "", "File name for message or stdin input")
	fs.StringVar(&cf.name, "n", "", "File name for message or stdin input (shorthand)")
	fs.BoolVar(&cf.listBins, "list-bins", false, "List available services and exit")
	fs.BoolVar(&cf.listBins, "l", false, "List available services and exit (shorthand)")
	fs.BoolVar(&cf.debug, "debug", false, "Enable debug output")
	fs.BoolVar(&cf.debug, "d", false, "Enable debug output (shorthand)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: bins [options] [file ...]

Upload files, a message, or stdin to a paste service and print the URL.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cf, err
	}
	cf.paths = fs.Args()

	if err := cf.validate(); err != nil {
		fs.Usage()
		return cf, err
	}
	return cf, nil
}

func (cf *cliFlags) validate() error {
	if cf.private && cf.public {
		return errors.New("-private and -public are mutually exclusive")
	}
	if cf.auth && cf.anon {
		return errors.New("-auth and -anon are mutually exclusive")
	}
	if cf.copyURL && cf.noCopy {
		return errors.New("-copy and -no-copy are mutually exclusive")
	}
	if cf.listBins && (cf.bin != "" || cf.message != "" || len(cf.paths) > 0) {
		return errors.New("-list-bins takes no other arguments")
	}
	if cf.message != "" && len(cf.paths) > 0 {
		return errors.New("-message and file arguments are mutually exclusive")
	}
	if cf.name != "" && len(cf.paths) > 1 {
		return errors.New("-name applies to a single input only")
	}
	return nil
}

// resolve overlays the command line on top of configured defaults.
// Explicit flags always win; each toggle pair covers both directions.
func resolve(def bool, on, off bool) bool {
	if on {
		return true
	}
	if off {
		return false
	}
	return def
}

func run(args []string) int {
	cf, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	log := logrus.New()
	if cf.debug {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return ExitConfigError
	}

	client := binshttp.NewClient(binshttp.DefaultOptions())
	registry := bin.DefaultRegistry(client, bin.Credentials{
		GistToken:         cfg.Gist.AccessToken,
		PastebinAPIKey:    cfg.Pastebin.APIKey,
		PastebinUserKey:   cfg.Pastebin.UserKey,
		HastebinServer:    cfg.Hastebin.Server,
		BitbucketUsername: cfg.Bitbucket.Username,
		BitbucketPassword: cfg.Bitbucket.AppPassword,
		PasteGgAPIKey:     cfg.PasteGg.APIKey,
		BucketURL:         cfg.Bucket.URL,
	})

	if cf.listBins {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}
		return ExitSuccess
	}

	service := cf.bin
	if service == "" {
		service = cfg.Defaults.Bin
	}
	if service == "" {
		fmt.Fprintln(os.Stderr, "Error: no service selected; use -bin or set defaults.bin in the config file")
		return ExitInvalidArgs
	}

	files, err := gatherInputs(cf, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	gate, err := buildGate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return ExitConfigError
	}

	dispatcher := upload.NewDispatcher(upload.Options{
		Registry: registry,
		Gate:     gate,
		Policy: bin.Policy{
			CancelOnUnsupported: cfg.Safety.CancelOnUnsupported,
			WarnOnUnsupported:   cfg.Safety.WarnOnUnsupported,
		},
		Logger: log,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := dispatcher.Run(ctx, upload.Request{
		Files:   files,
		Service: service,
		Private: resolve(cfg.Defaults.Private, cf.private, cf.public),
		Authed:  resolve(cfg.Defaults.Authed, cf.auth, cf.anon),
		Force:   cf.force,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	urls := result.URLs()
	for _, u := range urls {
		fmt.Println(u)
	}

	if resolve(cfg.Defaults.Copy, cf.copyURL, cf.noCopy) && len(urls) > 0 {
		if err := clipboard.Copy(strings.Join(urls, "\n")); err != nil {
			log.Warnf("clipboard copy failed: %v", err)
		}
	}

	return ExitSuccess
}

// buildGate assembles the safety gate from configuration. Type
// checking runs only when types are configured and not disabled.
func buildGate(cfg config.Config) (*safety.Gate, error) {
	patterns, err := safety.CompilePatterns(cfg.Safety.DisallowedFilePatterns)
	if err != nil {
		return nil, err
	}

	var classifier classify.Classifier
	if !cfg.Safety.DisableTypeChecking && len(cfg.Safety.DisallowedFileTypes) > 0 {
		classifier = classify.New()
	}

	return safety.NewGate(safety.GateOptions{
		SizeLimit:  cfg.SizeLimit(),
		Patterns:   patterns,
		Types:      cfg.Safety.DisallowedFileTypes,
		Classifier: classifier,
	}), nil
}

func exitCodeFor(err error) int {
	var safetyErr *upload.SafetyError
	var featureErr *bin.UnsupportedFeatureError
	var execErr *upload.ExecError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, bin.ErrUnknownService):
		return ExitUnknownService
	case errors.As(err, &safetyErr):
		return ExitSafetyViolation
	case errors.As(err, &featureErr):
		return ExitUnsupportedFeature
	case errors.As(err, &execErr):
		return ExitUploadFailed
	default:
		return ExitGeneralError
	}
}
