package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a size string has no numeric prefix
// or carries an unrecognized unit suffix.
var ErrInvalidFormat = errors.New("units: invalid size format")

// multipliers maps lowercased unit suffixes to their byte multipliers.
// Decimal units are powers of 1000, binary units powers of 1024.
var multipliers = map[string]int64{
	"":    1,
	"b":   1,
	"kb":  1000,
	"mb":  1000 * 1000,
	"gb":  1000 * 1000 * 1000,
	"kib": 1024,
	"mib": 1024 * 1024,
	"gib": 1024 * 1024 * 1024,
}

// ParseSize parses a human-readable size string ("1 MiB", "500 kB", "1024")
// into an exact byte count. A bare number is taken as bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidFormat)
	}

	// Split the numeric prefix from the unit suffix.
	split := len(s)
	for i, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			split = i
			break
		}
	}

	num := s[:split]
	unit := strings.ToLower(strings.TrimSpace(s[split:]))

	if num == "" {
		return 0, fmt.Errorf("%w: no numeric prefix in %q", ErrInvalidFormat, s)
	}

	mult, ok := multipliers[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidFormat, unit)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidFormat, num)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: size cannot be negative", ErrInvalidFormat)
	}

	return int64(value * float64(mult)), nil
}

// FormatSize formats a byte count as a human-readable binary-unit string.
func FormatSize(n int64) string {
	const (
		kib = 1024
		mib = kib * 1024
		gib = mib * 1024
	)

	format := func(v int64, unit int64, suffix string) string {
		f := float64(v) / float64(unit)
		if f == float64(int64(f)) {
			return fmt.Sprintf("%d %s", int64(f), suffix)
		}
		return fmt.Sprintf("%.1f %s", f, suffix)
	}

	switch {
	case n >= gib:
		return format(n, gib, "GiB")
	case n >= mib:
		return format(n, mib, "MiB")
	case n >= kib:
		return format(n, kib, "KiB")
	default:
		return fmt.Sprintf("%d B", n)
	}
}
