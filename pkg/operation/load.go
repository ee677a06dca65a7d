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
	"strings"

	"github.com/kmdocs/helpsync/pkg/catalog"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"github.com/kmdocs/helpsync/pkg/index"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🌍 LoadLocales fetches and parses the locales list for one version token
func (e *Engine) LoadLocales(ctx context.Context, versionToken string) ([]*catalog.Locale, error) {
	data, err := e.remote.FetchLocales(ctx, versionToken)
	if err != nil {
		return nil, errors.Errorf("fetching locales: %w", err)
	}

	locales, err := index.ParseLocales(data)
	if err != nil {
		return nil, errors.Errorf("parsing locales: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Int("count", len(locales)).Msg("loaded locales")
	return locales, nil
}

// 📚 LoadCatalog fetches and parses the book catalog for one locale. The
// model is rebuilt from scratch on every call; there is no merging with a
// previously loaded graph.
func (e *Engine) LoadCatalog(ctx context.Context, versionToken, localeCode string) ([]*catalog.BookGroup, error) {
	if localeCode == "" {
		return nil, errors.Errorf("%w: locale code is required", errdefs.ErrInvalidArgument)
	}

	locales, err := e.LoadLocales(ctx, versionToken)
	if err != nil {
		return nil, err
	}

	var locale *catalog.Locale
	for _, l := range locales {
		if strings.EqualFold(l.Code, localeCode) {
			locale = l
			break
		}
	}
	if locale == nil {
		return nil, errors.Errorf("%w: locale %q not in catalog", errdefs.ErrInvalidArgument, localeCode)
	}

	data, err := e.remote.FetchCatalog(ctx, locale.CatalogLink)
	if err != nil {
		return nil, errors.Errorf("fetching catalog for %s: %w", locale.Code, err)
	}

	groups, err := index.ParseCatalog(data)
	if err != nil {
		return nil, errors.Errorf("parsing catalog for %s: %w", locale.Code, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("locale", locale.Code).
		Int("groups", len(groups)).
		Msg("loaded catalog")
	return groups, nil
}
