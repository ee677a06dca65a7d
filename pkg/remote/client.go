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

// Package remote is the HTTP transport for the catalog service: it fetches
// catalog payloads as opaque bytes and streams package downloads into the
// cache with progress reporting.
package remote

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/kmdocs/helpsync/pkg/errdefs"
	"github.com/kmdocs/helpsync/pkg/progress"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🌐 Client talks to the catalog and download endpoints
type Client struct {
	httpClient   *http.Client
	catalogBase  *url.URL
	downloadBase *url.URL
}

// Option configures a Client.
type Option func(*Client)

// 🔌 WithProxy routes all requests through a forward proxy. Credentials are
// attached to the proxy URL when given.
func WithProxy(proxyURL, username, password string) (Option, error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, errors.Errorf("%w: parsing proxy url: %w", errdefs.ErrInvalidArgument, err)
	}
	if username != "" {
		u.User = url.UserPassword(username, password)
	}
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
	}, nil
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// 🏭 NewClient creates a transport client for the given base addresses. The
// catalog base serves locales and book catalogs; the download base serves
// package content.
func NewClient(catalogBase, downloadBase string, opts ...Option) (*Client, error) {
	if catalogBase == "" || downloadBase == "" {
		return nil, errors.Errorf("%w: catalog and download base addresses are required", errdefs.ErrInvalidArgument)
	}

	cb, err := url.Parse(catalogBase)
	if err != nil {
		return nil, errors.Errorf("%w: parsing catalog base: %w", errdefs.ErrInvalidArgument, err)
	}
	db, err := url.Parse(downloadBase)
	if err != nil {
		return nil, errors.Errorf("%w: parsing download base: %w", errdefs.ErrInvalidArgument, err)
	}

	c := &Client{
		httpClient:   &http.Client{},
		catalogBase:  cb,
		downloadBase: db,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases idle transport connections. Call on every exit path once
// the client is no longer needed.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// 🌍 FetchLocales fetches the locales payload for one catalog version token
func (c *Client) FetchLocales(ctx context.Context, versionToken string) ([]byte, error) {
	if versionToken == "" {
		return nil, errors.Errorf("%w: version token is required", errdefs.ErrInvalidArgument)
	}
	return c.get(ctx, c.catalogBase.JoinPath("catalogs", versionToken))
}

// 📚 FetchCatalog fetches one locale's book catalog payload via the link
// embedded in its locale entry.
func (c *Client) FetchCatalog(ctx context.Context, catalogLink string) ([]byte, error) {
	if catalogLink == "" {
		return nil, errors.Errorf("%w: catalog link is required", errdefs.ErrInvalidArgument)
	}
	return c.get(ctx, c.catalogBase.JoinPath(catalogLink))
}

func (c *Client) get(ctx context.Context, u *url.URL) ([]byte, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("url", u.String()).Msg("fetching catalog payload")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Errorf("%w: creating request: %w", errdefs.ErrNetwork, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Errorf("%w: fetching %s: %w", errdefs.ErrNetwork, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%w: fetching %s: unexpected status %d", errdefs.ErrNetwork, u, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Errorf("%w: reading response body: %w", errdefs.ErrNetwork, err)
	}
	return data, nil
}

// 📥 DownloadPackage streams one package to destPath, raising the per-file
// start, tick and completion notifications on sink. The transfer lands in a
// uniquely named partial file first and is renamed into place only after it
// completed, so an aborted download never masquerades as a finished one.
func (c *Client) DownloadPackage(ctx context.Context, link, fileName, destPath string, sink progress.Sink) error {
	logger := zerolog.Ctx(ctx)

	if sink == nil {
		sink = progress.NopSink{}
	}
	sink.FileProgress(progress.StartEvent(fileName))

	u := c.downloadBase.JoinPath(link)
	logger.Debug().Str("url", u.String()).Str("dest", destPath).Msg("downloading package")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Errorf("%w: creating request: %w", errdefs.ErrNetwork, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Errorf("%w: downloading %s: %w", errdefs.ErrNetwork, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%w: downloading %s: unexpected status %d", errdefs.ErrNetwork, u, resp.StatusCode)
	}

	total := resp.ContentLength
	if total < 0 {
		total = progress.UnknownBytes
	}

	tempPath := destPath + ".partial-" + uuid.NewString()
	f, err := os.Create(tempPath)
	if err != nil {
		return errors.Errorf("%w: creating %s: %w", errdefs.ErrFilesystem, tempPath, err)
	}

	pw := progress.NewWriter(f, fileName, total, sink)
	if _, err := io.Copy(pw, resp.Body); err != nil {
		f.Close()
		os.Remove(tempPath)
		return errors.Errorf("%w: streaming %s: %w", errdefs.ErrNetwork, u, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("%w: closing %s: %w", errdefs.ErrFilesystem, tempPath, err)
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("%w: moving download into place: %w", errdefs.ErrFilesystem, err)
	}

	written := pw.BytesWritten()
	if total == progress.UnknownBytes {
		total = written
	}
	sink.FileProgress(progress.FileEvent{
		Filename:        fileName,
		Percent:         100,
		BytesDownloaded: written,
		BytesTotal:      total,
	})

	return nil
}
