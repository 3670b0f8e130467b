// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"testing"
)

func TestClean__string(t *testing.T) {
	cases := []struct {
		input, expected string
	}{
		{"", ""},
		{"  Jane Doe  ", "Jane Doe"},
		{"<script>alert(1)</script>", "scriptalert(1)/script"},
		{`Robert'); DROP TABLE users;--`, "Robert) DROP TABLE users--"},
		{"`backtick`; \"quoted\"", "backtick quoted"},
		{"plain text stays", "plain text stays"},
	}
	for i := range cases {
		if res := cleanString(cases[i].input); res != cases[i].expected {
			t.Errorf("input=%q, got %q", cases[i].input, res)
		}
	}
}

func TestClean__email(t *testing.T) {
	cases := []struct {
		input    string
		expected string
		valid    bool
	}{
		{"test@nagarmitra.in", "test@nagarmitra.in", true},
		{"A@B.com", "a@b.com", true},
		{"  Mixed.Case@Example.ORG ", "mixed.case@example.org", true},
		{"weird@tld.x", "weird@tld.x", true}, // short TLDs pass, on purpose
		{"", "", false},
		{"no-at-sign.com", "", false},
		{"missing@dot", "", false},
		{"two words@example.com", "", false},
	}
	for i := range cases {
		res, err := cleanEmail(cases[i].input)
		if cases[i].valid {
			if err != nil {
				t.Errorf("input=%q, err=%v", cases[i].input, err)
				continue
			}
			if res != cases[i].expected {
				t.Errorf("input=%q, got %q", cases[i].input, res)
			}
			for _, c := range []string{"<", ">", "'", `"`, "`", ";"} {
				if strings.Contains(res, c) {
					t.Errorf("input=%q, %q still contains %q", cases[i].input, res, c)
				}
			}
			continue
		}
		if err != errInvalidEmailFormat {
			t.Errorf("input=%q, expected errInvalidEmailFormat, got %v", cases[i].input, err)
		}
	}
}
