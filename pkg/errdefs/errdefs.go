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

// Package errdefs defines the error classes surfaced to callers. Wrap a
// class with errors.Errorf("%w: ...", errdefs.ErrX, ...) and match it with
// errors.Is.
package errdefs

import (
	"gitlab.com/tozd/go/errors"
)

var (
	// 🚫 ErrInvalidArgument marks a missing or empty required parameter
	ErrInvalidArgument = errors.Base("invalid argument")

	// 📄 ErrParse marks a malformed catalog payload
	ErrParse = errors.Base("malformed catalog payload")

	// 🌐 ErrNetwork marks a transport failure during fetch or download
	ErrNetwork = errors.Base("network failure")

	// 💾 ErrFilesystem marks a directory or file read/write failure
	ErrFilesystem = errors.Base("filesystem failure")

	// 🔏 ErrIntegrity marks a failed signature check on a downloaded package
	ErrIntegrity = errors.Base("integrity verification failed")
)
