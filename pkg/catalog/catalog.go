// Copyright 2025 kmdocs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog holds the data model for a remote documentation catalog:
// locales, book groups, books and their downloadable packages.
package catalog

import (
	"strings"
	"time"
)

// 🌍 Locale identifies one language-region catalog and where to fetch it
type Locale struct {
	Code        string // Language-region tag (e.g. "en-US")
	CatalogLink string // Relative link to this locale's book catalog
}

// 📚 BookGroup owns the books published under one product grouping
type BookGroup struct {
	Name  string
	Books []*Book
}

// 📖 Book is one selectable unit of documentation
type Book struct {
	Name        string
	Category    string // Grouping label for display only
	Description string

	// Wanted is caller-owned selection state. Only wanted books are fetched.
	Wanted bool

	Packages []*Package
}

// 📦 Package is the smallest downloadable unit backing one or more books
type Package struct {
	Name         string    // Identity is the case-insensitive name
	Link         string    // Relative download link
	Size         int64     // Expected size in bytes
	LastModified time.Time // Expected last-modified timestamp

	// State is written by the reconciler before a sync and by the sync
	// engine's own bookkeeping after a download.
	State PackageState
}

// 🔑 Key returns the identity key for dedup and cleanup comparisons.
// Remote names and local file names may differ in case.
func (p *Package) Key() string {
	return strings.ToUpper(p.Name)
}

// SameName reports whether two package names refer to the same package.
func SameName(a, b string) bool {
	return strings.EqualFold(a, b)
}
