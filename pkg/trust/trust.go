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

// Package trust decides whether a freshly downloaded package may stay in the
// cache. The verdict is authoritative; the sync engine never inspects
// package content itself.
package trust

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔏 Verifier is the trust predicate consulted once per downloaded file
type Verifier interface {
	// Verify reports whether the file at path is trusted. A false verdict
	// with a nil error is a definitive rejection.
	Verify(ctx context.Context, path string) (bool, error)
}

// VerifierFunc adapts a plain function to the Verifier interface.
type VerifierFunc func(ctx context.Context, path string) (bool, error)

func (f VerifierFunc) Verify(ctx context.Context, path string) (bool, error) {
	return f(ctx, path)
}

// ✅ AcceptAll trusts every file and logs that verification was skipped
func AcceptAll() Verifier {
	return VerifierFunc(func(ctx context.Context, path string) (bool, error) {
		zerolog.Ctx(ctx).Warn().Str("path", path).Msg("signature verification disabled, accepting package")
		return true, nil
	})
}

// 🧪 Static always returns the given verdict
func Static(verdict bool) Verifier {
	return VerifierFunc(func(ctx context.Context, path string) (bool, error) {
		return verdict, nil
	})
}

// 🔧 Command runs an external verification command with the file path as its
// final argument. Exit code zero means trusted; a non-zero exit is a
// rejection, not an error.
func Command(name string, args ...string) Verifier {
	return VerifierFunc(func(ctx context.Context, path string) (bool, error) {
		cmd := exec.CommandContext(ctx, name, append(append([]string(nil), args...), path)...)
		out, err := cmd.CombinedOutput()

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			zerolog.Ctx(ctx).Debug().
				Str("path", path).
				Int("exit_code", exitErr.ExitCode()).
				Bytes("output", out).
				Msg("verification command rejected package")
			return false, nil
		}
		if err != nil {
			return false, errors.Errorf("running verification command: %w", err)
		}
		return true, nil
	})
}
