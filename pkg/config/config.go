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

// Package config loads the helpsync configuration from YAML or HCL files.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kmdocs/helpsync/pkg/catalog"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔌 ProxyArgs configures an optional forward proxy for the transport
type ProxyArgs struct {
	URL      string `json:"url" yaml:"url" hcl:"url"`
	Username string `json:"username,omitempty" yaml:"username,omitempty" hcl:"username,optional"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" hcl:"password,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	// CatalogURL serves the locales list and the per-locale book catalogs.
	CatalogURL string `json:"catalog_url" yaml:"catalog_url" hcl:"catalog_url"`
	// DownloadURL serves package content.
	DownloadURL string `json:"download_url" yaml:"download_url" hcl:"download_url"`
	// Version is the catalog version token appended to catalogs/.
	Version string `json:"catalog_version,omitempty" yaml:"catalog_version,omitempty" hcl:"catalog_version,optional"`
	// Locale picks which book catalog to mirror.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty" hcl:"locale,optional"`
	// CacheDir is the local mirror directory.
	CacheDir string `json:"cache_dir" yaml:"cache_dir" hcl:"cache_dir"`

	// Books selects wanted books by doublestar pattern over "Group/Book".
	Books []string `json:"books,omitempty" yaml:"books,omitempty" hcl:"books,optional"`

	// VerifyCommand is an external command run against each downloaded
	// package; exit code zero means trusted. Empty disables verification.
	VerifyCommand []string `json:"verify_command,omitempty" yaml:"verify_command,omitempty" hcl:"verify_command,optional"`

	Proxy *ProxyArgs `json:"proxy,omitempty" yaml:"proxy,omitempty" hcl:"proxy,block"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: reading config file: %w", errdefs.ErrFilesystem, err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: no parser found for file: %s", errdefs.ErrInvalidArgument, path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.CatalogURL == "" {
		return errors.Errorf("%w: catalog_url is required", errdefs.ErrInvalidArgument)
	}
	if cfg.DownloadURL == "" {
		return errors.Errorf("%w: download_url is required", errdefs.ErrInvalidArgument)
	}
	if cfg.CacheDir == "" {
		return errors.Errorf("%w: cache_dir is required", errdefs.ErrInvalidArgument)
	}
	if cfg.Proxy != nil && cfg.Proxy.URL == "" {
		return errors.Errorf("%w: proxy.url is required when a proxy block is given", errdefs.ErrInvalidArgument)
	}

	cfg.CacheDir = filepath.Clean(cfg.CacheDir)

	if cfg.Version == "" {
		cfg.Version = "v1.0"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en-US"
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (%s, %s) -> %s", cfg.CatalogURL, cfg.Version, cfg.Locale, cfg.CacheDir)
}

// ✅ MarkWanted raises the wanted flag on every book whose "Group/Book"
// path matches one of the configured patterns. Flags already set (by the
// reconciler's pre-selection or by the caller) are left alone.
func (cfg *Config) MarkWanted(groups []*catalog.BookGroup) {
	if len(cfg.Books) == 0 {
		return
	}
	for _, group := range groups {
		for _, book := range group.Books {
			if book.Wanted {
				continue
			}
			path := group.Name + "/" + book.Name
			for _, pattern := range cfg.Books {
				if ok, err := doublestar.Match(pattern, path); err == nil && ok {
					book.Wanted = true
					break
				}
			}
		}
	}
}
