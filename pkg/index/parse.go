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

// Package index parses remote catalog payloads into the catalog model and
// renders the model back into the index files the external viewer consumes.
// Every function here is a pure transformation; none perform I/O.
package index

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kmdocs/helpsync/pkg/catalog"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"gitlab.com/tozd/go/errors"
)

// 🌍 ParseLocales parses a locales payload into the ordered list of locales
// the remote catalog publishes.
func ParseLocales(data []byte) ([]*catalog.Locale, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("%w: reading locales payload: %w", errdefs.ErrParse, err)
	}

	root := doc.Find("body.locale-list")
	if root.Length() == 0 {
		return nil, errors.Errorf("%w: locales payload has no locale-list body", errdefs.ErrParse)
	}

	var locales []*catalog.Locale
	var parseErr error
	root.Find("div.locale").EachWithBreak(func(i int, s *goquery.Selection) bool {
		code := strings.TrimSpace(s.Find("span.name").First().Text())
		link, _ := s.Find("a.locale-link").First().Attr("href")
		if code == "" || link == "" {
			parseErr = errors.Errorf("%w: locale %d is missing name or link", errdefs.ErrParse, i)
			return false
		}
		locales = append(locales, &catalog.Locale{Code: code, CatalogLink: link})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return locales, nil
}

// 📚 ParseCatalog parses a book catalog payload into fully populated book
// groups, including each package's size and last-modified timestamp at the
// payload's own precision.
func ParseCatalog(data []byte) ([]*catalog.BookGroup, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("%w: reading catalog payload: %w", errdefs.ErrParse, err)
	}

	root := doc.Find("body.book-list")
	if root.Length() == 0 {
		return nil, errors.Errorf("%w: catalog payload has no book-list body", errdefs.ErrParse)
	}

	var groups []*catalog.BookGroup
	var parseErr error
	root.Find("div.book-group").EachWithBreak(func(i int, gs *goquery.Selection) bool {
		name := strings.TrimSpace(gs.ChildrenFiltered("span.name").First().Text())
		if name == "" {
			parseErr = errors.Errorf("%w: book group %d has no name", errdefs.ErrParse, i)
			return false
		}

		group := &catalog.BookGroup{Name: name}
		gs.Find("div.book").EachWithBreak(func(j int, bs *goquery.Selection) bool {
			book, err := parseBook(bs)
			if err != nil {
				parseErr = errors.Errorf("parsing book %d of group %q: %w", j, name, err)
				return false
			}
			group.Books = append(group.Books, book)
			return true
		})
		if parseErr != nil {
			return false
		}

		groups = append(groups, group)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return groups, nil
}

func parseBook(bs *goquery.Selection) (*catalog.Book, error) {
	name := strings.TrimSpace(bs.ChildrenFiltered("span.name").First().Text())
	if name == "" {
		return nil, errors.Errorf("%w: book has no name", errdefs.ErrParse)
	}

	book := &catalog.Book{
		Name:        name,
		Category:    strings.TrimSpace(bs.ChildrenFiltered("span.category").First().Text()),
		Description: strings.TrimSpace(bs.ChildrenFiltered("span.description").First().Text()),
	}

	var parseErr error
	bs.Find("div.package-list div.package").EachWithBreak(func(i int, ps *goquery.Selection) bool {
		pkg, err := parsePackage(ps)
		if err != nil {
			parseErr = errors.Errorf("parsing package %d of book %q: %w", i, name, err)
			return false
		}
		book.Packages = append(book.Packages, pkg)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return book, nil
}

func parsePackage(ps *goquery.Selection) (*catalog.Package, error) {
	name := strings.TrimSpace(ps.Find("span.name").First().Text())
	if name == "" {
		return nil, errors.Errorf("%w: package has no name", errdefs.ErrParse)
	}

	link, ok := ps.Find("a.current-link").First().Attr("href")
	if !ok || link == "" {
		return nil, errors.Errorf("%w: package %q has no download link", errdefs.ErrParse, name)
	}

	sizeText := strings.TrimSpace(ps.Find("span.package-size-bytes").First().Text())
	size, err := strconv.ParseInt(sizeText, 10, 64)
	if err != nil {
		return nil, errors.Errorf("%w: package %q has invalid size %q: %w", errdefs.ErrParse, name, sizeText, err)
	}

	modifiedText := strings.TrimSpace(ps.Find("span.last-modified").First().Text())
	lastModified, err := time.Parse(time.RFC3339, modifiedText)
	if err != nil {
		return nil, errors.Errorf("%w: package %q has invalid last-modified %q: %w", errdefs.ErrParse, name, modifiedText, err)
	}

	return &catalog.Package{
		Name:         name,
		Link:         link,
		Size:         size,
		LastModified: lastModified,
		State:        catalog.StateNotDownloaded,
	}, nil
}
