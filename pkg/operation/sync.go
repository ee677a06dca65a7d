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
	"context"
	"math"
	"strings"

	"github.com/kmdocs/helpsync/pkg/catalog"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"github.com/kmdocs/helpsync/pkg/index"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔄 SyncBooks mirrors every wanted book's packages into the cache and
// regenerates the index files. Each step is a commit point: on failure,
// everything written so far stays on disk.
//
// Steps, in order: ensure Packages/ exists; delete stale top-level index
// files; write the setup index; write group indices (always) and book
// indices (wanted books only) while collecting distinct packages; prune
// orphaned package files; download or skip each distinct package
// sequentially, verifying and timestamping every fresh download.
func (e *Engine) SyncBooks(ctx context.Context, groups []*catalog.BookGroup) error {
	if len(groups) == 0 {
		return errors.Errorf("%w: no book groups to sync", errdefs.ErrInvalidArgument)
	}

	if err := e.files.EnsurePackagesDir(ctx); err != nil {
		return err
	}
	if err := e.files.RemoveIndexFiles(ctx); err != nil {
		return err
	}

	if err := e.files.WriteIndexFile(ctx, index.SetupIndexName, index.RenderSetupIndex(groups)); err != nil {
		return errors.Errorf("writing setup index: %w", err)
	}

	wanted, err := e.writeIndices(ctx, groups)
	if err != nil {
		return err
	}

	e.pruneOrphans(ctx, wanted)

	return e.downloadPackages(ctx, wanted)
}

// writeIndices writes the group and book indices and collects every wanted
// book's packages, deduplicated by case-insensitive name.
func (e *Engine) writeIndices(ctx context.Context, groups []*catalog.BookGroup) (*catalog.PackageSet, error) {
	logger := zerolog.Ctx(ctx)
	wanted := catalog.NewPackageSet()

	for _, group := range groups {
		if err := e.files.WriteIndexFile(ctx, index.GroupFileName(group), index.RenderGroupIndex(group)); err != nil {
			return nil, errors.Errorf("writing group index for %q: %w", group.Name, err)
		}

		for _, book := range group.Books {
			if !book.Wanted {
				continue
			}

			if err := e.files.WriteIndexFile(ctx, index.BookFileName(book), index.RenderBookIndex(group, book)); err != nil {
				return nil, errors.Errorf("writing book index for %q: %w", book.Name, err)
			}

			for _, pkg := range book.Packages {
				if !wanted.Add(pkg) {
					logger.Debug().Str("package", pkg.Name).Msg("duplicate package name, keeping first occurrence")
				}
			}
		}
	}

	return wanted, nil
}

// pruneOrphans removes package files no wanted book references any more.
// Cleanup is advisory: individual delete failures never abort the sync.
func (e *Engine) pruneOrphans(ctx context.Context, wanted *catalog.PackageSet) {
	logger := zerolog.Ctx(ctx)

	keep := make(map[string]struct{}, wanted.Len())
	for _, pkg := range wanted.Packages() {
		keep[strings.ToUpper(index.PackageFileName(pkg))] = struct{}{}
	}

	removed, err := e.files.PruneOrphans(ctx, func(fileName string) bool {
		_, ok := keep[strings.ToUpper(fileName)]
		return ok
	})
	if err != nil {
		logger.Warn().Err(err).Msg("orphan cleanup skipped")
		return
	}
	if len(removed) > 0 {
		logger.Info().Strs("files", removed).Msg("pruned orphaned packages")
	}
}

// downloadPackages processes the distinct packages sequentially, advancing
// the aggregate progress once per package whether or not it was fetched.
func (e *Engine) downloadPackages(ctx context.Context, wanted *catalog.PackageSet) error {
	logger := zerolog.Ctx(ctx)

	packages := wanted.Packages()
	total := len(packages)

	for i, pkg := range packages {
		if pkg.State.NeedsDownload() {
			if err := e.downloadOne(ctx, pkg); err != nil {
				return err
			}
		} else {
			logger.Debug().Str("package", pkg.Name).Msg("package already in cache, skipping download")
		}

		e.sink.OverallProgress(int(math.Round(100 * float64(i+1) / float64(total))))
	}

	return nil
}

func (e *Engine) downloadOne(ctx context.Context, pkg *catalog.Package) error {
	logger := zerolog.Ctx(ctx)

	fileName := index.PackageFileName(pkg)
	destPath := e.files.PackagePath(fileName)

	if err := e.remote.DownloadPackage(ctx, pkg.Link, fileName, destPath, e.sink); err != nil {
		return errors.Errorf("downloading package %s: %w", pkg.Name, err)
	}

	ok, err := e.verifier.Verify(ctx, destPath)
	if err != nil {
		e.files.RemovePackage(ctx, fileName)
		return errors.Errorf("%w: verifying %s: %w", errdefs.ErrIntegrity, pkg.Name, err)
	}
	if !ok {
		if rmErr := e.files.RemovePackage(ctx, fileName); rmErr != nil {
			logger.Warn().Err(rmErr).Str("package", pkg.Name).Msg("could not remove rejected package")
		}
		return errors.Errorf("%w: package %s failed signature verification", errdefs.ErrIntegrity, pkg.Name)
	}

	// Stamp the recorded timestamp so the next reconciliation sees the
	// file's metadata as matching.
	if err := e.files.StampPackageTimes(ctx, fileName, pkg.LastModified); err != nil {
		return err
	}

	pkg.State = catalog.StateReady
	logger.Info().Str("package", pkg.Name).Int64("size", pkg.Size).Msg("package downloaded and verified")
	return nil
}
