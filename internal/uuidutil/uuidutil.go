// Package uuidutil compares Bluetooth UUIDs in their short (4-hex) and
// long (8-4-4-4-12) forms and builds the full 128-bit form out of a short
// one. UUID position matters: a short id embedded at the wrong offset of
// a long UUID must never be mistaken for a match.
package uuidutil

import "strings"

const baseUUIDSuffix = "-0000-1000-8000-00805f9b34fb"

// ToFullUUID expands a 4-hex short UUID into the Bluetooth Base UUID form,
// e.g. "1826" -> "00001826-0000-1000-8000-00805f9b34fb". The result is
// always length 36, lowercase, and zero-padded.
func ToFullUUID(short string) string {
	short = strings.ToLower(short)
	for len(short) < 4 {
		short = "0" + short
	}
	return "0000" + short + baseUUIDSuffix
}

func isShortForm(u string) bool {
	return len(u) == 4
}

func isLongForm(u string) bool {
	if len(u) != 36 {
		return false
	}
	return u[8] == '-' && u[13] == '-' && u[18] == '-' && u[23] == '-'
}

// shortOf returns the 4-hex short id embedded at positions 4..8 of a
// well-formed long UUID.
func shortOf(long string) string {
	return long[4:8]
}

// Matches reports whether a and b identify the same Bluetooth UUID. Two
// UUIDs match iff either is exactly a short form equal to the other's
// short form (computed only for a well-formed long counterpart), or both
// are well-formed long forms whose embedded short ids are equal. A short
// id that happens to appear as a substring elsewhere in a long UUID never
// counts as a match.
func Matches(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return true
	}

	aShort, aIsShort := shortFormOf(a)
	bShort, bIsShort := shortFormOf(b)

	if aIsShort && bIsShort {
		return aShort == bShort
	}
	return false
}

// shortFormOf returns the short id a UUID string represents, whether it
// was given directly as a short form or embedded in a well-formed long
// form, and whether extraction succeeded at all.
func shortFormOf(u string) (string, bool) {
	if isShortForm(u) {
		return u, true
	}
	if isLongForm(u) {
		return shortOf(u), true
	}
	return "", false
}
