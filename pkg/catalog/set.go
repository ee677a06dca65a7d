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

package catalog

// 🗂️ PackageSet collects distinct packages keyed by their case-insensitive
// name. The first package added under a given key wins; later additions with
// the same key are dropped without comment, even if their link or size
// differ. Iteration order is insertion order so that a sync processes
// packages deterministically.
type PackageSet struct {
	keys     []string
	packages map[string]*Package
}

// 🏭 NewPackageSet creates an empty package set
func NewPackageSet() *PackageSet {
	return &PackageSet{packages: make(map[string]*Package)}
}

// Add inserts pkg unless a package with the same key is already present.
// It reports whether the package was inserted.
func (s *PackageSet) Add(pkg *Package) bool {
	key := pkg.Key()
	if _, ok := s.packages[key]; ok {
		return false
	}
	s.keys = append(s.keys, key)
	s.packages[key] = pkg
	return true
}

// Contains reports whether a package with the given name is in the set.
func (s *PackageSet) Contains(name string) bool {
	_, ok := s.packages[(&Package{Name: name}).Key()]
	return ok
}

// Get returns the package stored under the given name, if any.
func (s *PackageSet) Get(name string) (*Package, bool) {
	pkg, ok := s.packages[(&Package{Name: name}).Key()]
	return pkg, ok
}

// Len returns the number of distinct packages.
func (s *PackageSet) Len() int {
	return len(s.keys)
}

// Packages returns the distinct packages in insertion order.
func (s *PackageSet) Packages() []*Package {
	out := make([]*Package, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.packages[key])
	}
	return out
}
