// Package config defines configuration for the bins CLI.
//
// Configuration is read once at startup from a TOML file and is
// immutable for the process lifetime. The file is searched in order:
//
//   - $XDG_CONFIG_DIR/bins.cfg
//   - $HOME/.config/bins.cfg
//   - $HOME/.bins.cfg
//
// When no file exists, a commented default is written to the first
// writable location. Environment variables with a BINS_ prefix
// override file values.
//
// # Structure
//
//	[general]
//	file_size_limit = "1 MiB"
//
//	[safety]
//	disallowed_file_patterns = ["*.key"]
//	disallowed_file_types = ["PEM RSA private key"]
//	cancel_on_unsupported = false
//	warn_on_unsupported = true
//
//	[defaults]
//	private = true
//	authed = false
//	copy = false
//	bin = "gist"
//
// Per-service sections ([gist], [pastebin], ...) hold credentials and
// endpoints; they are opaque to the core and passed to the services.
package config
