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

// 📊 PackageState represents the cached state of a package
type PackageState int

const (
	StateNotDownloaded PackageState = iota // No file in the cache
	StateOutOfDate                         // File present, needs re-fetch
	StateReady                             // File present, left alone
)

// String returns a string representation of PackageState
func (s PackageState) String() string {
	switch s {
	case StateNotDownloaded:
		return "not-downloaded"
	case StateOutOfDate:
		return "out-of-date"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// NeedsDownload reports whether the sync engine has to fetch this state.
func (s PackageState) NeedsDownload() bool {
	return s == StateNotDownloaded || s == StateOutOfDate
}
