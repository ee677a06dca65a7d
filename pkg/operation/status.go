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

package operation

import (
	"github.com/kmdocs/helpsync/pkg/catalog"
)

// 📊 PackageReport describes one distinct package of a reconciled catalog
type PackageReport struct {
	Group   string
	Book    string
	Package string
	Size    int64
	State   catalog.PackageState
	Wanted  bool
}

// 🔍 Report summarizes a reconciled catalog without touching the cache:
// one entry per distinct package of the wanted books, in catalog order,
// plus the count of packages a sync would fetch.
func Report(groups []*catalog.BookGroup) (reports []PackageReport, pending int) {
	seen := catalog.NewPackageSet()

	for _, group := range groups {
		for _, book := range group.Books {
			if !book.Wanted {
				continue
			}
			for _, pkg := range book.Packages {
				if !seen.Add(pkg) {
					continue
				}
				reports = append(reports, PackageReport{
					Group:   group.Name,
					Book:    book.Name,
					Package: pkg.Name,
					Size:    pkg.Size,
					State:   pkg.State,
					Wanted:  book.Wanted,
				})
				if pkg.State.NeedsDownload() {
					pending++
				}
			}
		}
	}

	return reports, pending
}
