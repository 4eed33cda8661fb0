// Package units parses and formats human-readable byte sizes.
//
// Decimal units (kB, MB, GB) are powers of 1000; binary units
// (KiB, MiB, GiB) are powers of 1024. Unit suffixes are matched
// case-insensitively, so "1mib" and "1 MiB" are equivalent.
//
//	n, err := units.ParseSize("1 MiB") // 1048576
//	s := units.FormatSize(1536)        // "1.5 KiB"
package units
