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

// Package cachefs handles every file-system mutation of the local cache
// directory: index writes, package placement and cleanup.
package cachefs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"github.com/kmdocs/helpsync/pkg/index"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 Manager performs file operations rooted at one cache directory
type Manager struct {
	baseDir string
}

// 🏭 New creates a manager for the given cache directory
func New(baseDir string) *Manager {
	return &Manager{baseDir: filepath.Clean(baseDir)}
}

// BaseDir returns the cache directory this manager is rooted at.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// PackagesDir returns the directory downloaded packages live in.
func (m *Manager) PackagesDir() string {
	return filepath.Join(m.baseDir, index.PackagesDirName)
}

// PackagePath returns the on-disk path for a package file name.
func (m *Manager) PackagePath(fileName string) string {
	return filepath.Join(m.PackagesDir(), fileName)
}

// 📁 EnsurePackagesDir creates <cache>/Packages recursively if missing
func (m *Manager) EnsurePackagesDir(ctx context.Context) error {
	if err := os.MkdirAll(m.PackagesDir(), 0755); err != nil {
		return errors.Errorf("%w: creating packages directory: %w", errdefs.ErrFilesystem, err)
	}
	return nil
}

// 🗑️ RemoveIndexFiles deletes every generated index file at the top level
// of the cache directory. The Packages subdirectory is never touched.
func (m *Manager) RemoveIndexFiles(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(m.baseDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Errorf("%w: reading cache directory: %w", errdefs.ErrFilesystem, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !matchesIndexPattern(entry.Name()) {
			continue
		}
		path := filepath.Join(m.baseDir, entry.Name())
		if err := os.Remove(path); err != nil {
			return errors.Errorf("%w: removing stale index %s: %w", errdefs.ErrFilesystem, path, err)
		}
		logger.Debug().Str("path", path).Msg("removed stale index file")
	}

	return nil
}

func matchesIndexPattern(name string) bool {
	for _, pattern := range index.IndexFilePatterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// 📝 WriteIndexFile atomically writes one generated index file at the top
// level of the cache directory.
func (m *Manager) WriteIndexFile(ctx context.Context, name, content string) error {
	logger := zerolog.Ctx(ctx)

	path := filepath.Join(m.baseDir, name)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, []byte(content), 0644); err != nil {
		return errors.Errorf("%w: writing temp index file: %w", errdefs.ErrFilesystem, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("%w: renaming temp index file: %w", errdefs.ErrFilesystem, err)
	}

	logger.Debug().Str("path", path).Msg("wrote index file")
	return nil
}

// 🧹 PruneOrphans removes every file under Packages/ whose base name does
// not satisfy the keep predicate (compared case-insensitively by the
// caller). A failed delete is logged and skipped; cleanup is advisory.
func (m *Manager) PruneOrphans(ctx context.Context, keep func(fileName string) bool) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(m.PackagesDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Errorf("%w: reading packages directory: %w", errdefs.ErrFilesystem, err)
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() || keep(entry.Name()) {
			continue
		}
		path := filepath.Join(m.PackagesDir(), entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("could not remove orphaned package")
			continue
		}
		removed = append(removed, entry.Name())
		logger.Debug().Str("path", path).Msg("removed orphaned package")
	}

	return removed, nil
}

// ⏱️ StampPackageTimes sets a package file's access and modification times
// to the catalog's recorded last-modified timestamp so a later
// reconciliation sees the file as matching.
func (m *Manager) StampPackageTimes(ctx context.Context, fileName string, lastModified time.Time) error {
	path := m.PackagePath(fileName)
	if err := os.Chtimes(path, lastModified, lastModified); err != nil {
		return errors.Errorf("%w: stamping times on %s: %w", errdefs.ErrFilesystem, path, err)
	}
	return nil
}

// RemovePackage deletes one file under Packages/.
func (m *Manager) RemovePackage(ctx context.Context, fileName string) error {
	if err := os.Remove(m.PackagePath(fileName)); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("%w: removing package %s: %w", errdefs.ErrFilesystem, fileName, err)
	}
	return nil
}

// RemoveAll deletes the generated indices and the whole Packages tree.
func (m *Manager) RemoveAll(ctx context.Context) error {
	if err := m.RemoveIndexFiles(ctx); err != nil {
		return err
	}
	if err := os.RemoveAll(m.PackagesDir()); err != nil {
		return errors.Errorf("%w: removing packages directory: %w", errdefs.ErrFilesystem, err)
	}
	return nil
}
