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

// Package operation orchestrates catalog loading and cache synchronization:
// directory preparation, index regeneration, orphan cleanup, sequential
// package download with verification, and progress reporting.
package operation

import (
	"context"

	"github.com/kmdocs/helpsync/pkg/cachefs"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"github.com/kmdocs/helpsync/pkg/progress"
	"github.com/kmdocs/helpsync/pkg/trust"
	"gitlab.com/tozd/go/errors"
)

// 🌐 Fetcher is the transport surface the engine needs. *remote.Client
// implements it; tests substitute a stub.
type Fetcher interface {
	// FetchLocales returns the raw locales payload for a version token.
	FetchLocales(ctx context.Context, versionToken string) ([]byte, error)
	// FetchCatalog returns the raw book catalog payload behind a locale link.
	FetchCatalog(ctx context.Context, catalogLink string) ([]byte, error)
	// DownloadPackage streams one package to destPath, raising per-file
	// progress notifications on sink.
	DownloadPackage(ctx context.Context, link, fileName, destPath string, sink progress.Sink) error
}

// 🔧 Options contains the engine's collaborators
type Options struct {
	// Remote is the transport for catalog and package fetches.
	Remote Fetcher
	// Files mutates the cache directory.
	Files *cachefs.Manager
	// Verifier is consulted once per freshly downloaded package.
	Verifier trust.Verifier
	// Sink receives both progress signals. Defaults to a no-op sink.
	Sink progress.Sink
}

// 🎮 Engine drives one catalog load / sync sequence at a time. Exactly one
// engine may be active per cache directory; the cache is mutated without
// locking.
type Engine struct {
	remote   Fetcher
	files    *cachefs.Manager
	verifier trust.Verifier
	sink     progress.Sink
}

// 🏭 New creates an engine with the given options
func New(opts Options) (*Engine, error) {
	if opts.Remote == nil {
		return nil, errors.Errorf("%w: remote fetcher is required", errdefs.ErrInvalidArgument)
	}
	if opts.Files == nil {
		return nil, errors.Errorf("%w: cache file manager is required", errdefs.ErrInvalidArgument)
	}
	if opts.Verifier == nil {
		return nil, errors.Errorf("%w: trust verifier is required", errdefs.ErrInvalidArgument)
	}
	if opts.Sink == nil {
		opts.Sink = progress.NopSink{}
	}
	return &Engine{
		remote:   opts.Remote,
		files:    opts.Files,
		verifier: opts.Verifier,
		sink:     opts.Sink,
	}, nil
}

// 🧹 Clean removes the generated indices and the whole Packages tree
func (e *Engine) Clean(ctx context.Context) error {
	return e.files.RemoveAll(ctx)
}
