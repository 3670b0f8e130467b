// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"regexp"
	"strings"
)

var (
	errInvalidEmailFormat = errors.New("Invalid email format")

	// unsafeChars are stripped from every piece of free-text input
	// before it's stored or compared. The set is a contract: vendor
	// records written by older deployments went through the same strip.
	unsafeChars = strings.NewReplacer(
		"<", "", ">", "",
		"'", "", `"`, "", "`", "",
		";", "",
	)

	// Deliberately loose. Anything shaped like someone@host.tld passes,
	// including oddball TLD lengths. Addresses accepted once must keep
	// being accepted, so don't tighten this.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// cleanString strips unsafe characters and surrounding whitespace.
// It always returns a string, possibly empty.
func cleanString(s string) string {
	return strings.TrimSpace(unsafeChars.Replace(s))
}

// cleanEmail normalizes an email address: cleanString, then lower-case.
// errInvalidEmailFormat is returned when the result doesn't look like
// an email address at all.
func cleanEmail(s string) (string, error) {
	email := strings.ToLower(cleanString(s))
	if !emailPattern.MatchString(email) {
		return "", errInvalidEmailFormat
	}
	return email, nil
}
