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

package index

import (
	"path"
	"strings"

	"github.com/kmdocs/helpsync/pkg/catalog"
)

// 🗄️ On-disk names of generated artifacts. These are part of the contract
// with the external viewer and must stay byte-identical between runs.
const (
	// SetupIndexName is the single top-level index the viewer opens first.
	SetupIndexName = "HelpContentSetup.msha"

	// PackagesDirName is the subdirectory holding downloaded packages.
	PackagesDirName = "Packages"

	groupIndexSuffix  = ".group.html"
	bookIndexSuffix   = ".book.html"
	defaultPackageExt = ".cab"
)

// IndexFilePatterns matches every generated index file at the top level of
// the cache directory. Packages/ is never covered by these patterns.
var IndexFilePatterns = []string{
	SetupIndexName,
	"*" + groupIndexSuffix,
	"*" + bookIndexSuffix,
}

// sanitizeName maps an entity name onto a safe file name component.
// Anything outside [A-Za-z0-9._-] becomes '_'.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

// 📦 PackageFileName derives the on-disk file name for a package. Package
// names usually carry their own extension; a bare name gets the default one.
func PackageFileName(pkg *catalog.Package) string {
	name := sanitizeName(pkg.Name)
	if path.Ext(name) == "" {
		name += defaultPackageExt
	}
	return name
}

// 📖 BookFileName derives the on-disk file name for a book index.
func BookFileName(book *catalog.Book) string {
	return sanitizeName(book.Name) + bookIndexSuffix
}

// 📚 GroupFileName derives the on-disk file name for a group index.
func GroupFileName(group *catalog.BookGroup) string {
	return sanitizeName(group.Name) + groupIndexSuffix
}
