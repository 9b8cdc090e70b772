// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credential resolves the admin user key sent with every webhook request.
// A Provider is read on demand; nothing here caches the value between calls.
package credential

import (
	"os"
	"strings"
)

// CookieName is the cookie that carries the admin user key.
const CookieName = "adminUserKey"

// Provider returns the current admin user key, or "" when none is available.
type Provider func() string

// None is a Provider that never has a credential.
func None() string { return "" }

// Lookup extracts the admin user key from a serialized cookie list such as
// "theme=dark; adminUserKey=abc123". The first entry whose key is exactly
// adminUserKey wins and its value is everything after the first '='.
// Missing entries and empty values both yield "".
func Lookup(cookies string) string {
	for _, entry := range strings.Split(cookies, "; ") {
		key, value, found := strings.Cut(entry, "=")
		if !found || key != CookieName {
			continue
		}
		return value
	}
	return ""
}

// FromCookieString returns a Provider that looks the key up in a fixed cookie string.
func FromCookieString(cookies string) Provider {
	return func() string { return Lookup(cookies) }
}

// FromCookieFunc returns a Provider that reads the cookie string from fn on every call.
func FromCookieFunc(fn func() string) Provider {
	return func() string {
		if fn == nil {
			return ""
		}
		return Lookup(fn())
	}
}

// FromEnv returns a Provider that reads a cookie string from the named environment variable.
func FromEnv(name string) Provider {
	return FromCookieFunc(func() string { return os.Getenv(name) })
}

// Store is a persistent source of the admin user key and cookie string.
type Store interface {
	LoadAdminUserKey() (string, error)
	LoadCookie() (string, error)
}

// FromStore returns a Provider backed by a credential store. A stored key is
// preferred over a stored cookie string; store errors read as "no credential".
func FromStore(s Store) Provider {
	return func() string {
		if s == nil {
			return ""
		}
		if key, err := s.LoadAdminUserKey(); err == nil && key != "" {
			return key
		}
		if cookies, err := s.LoadCookie(); err == nil {
			return Lookup(cookies)
		}
		return ""
	}
}

// First returns a Provider yielding the first non-empty value among providers.
func First(providers ...Provider) Provider {
	return func() string {
		for _, p := range providers {
			if p == nil {
				continue
			}
			if v := p(); v != "" {
				return v
			}
		}
		return ""
	}
}
