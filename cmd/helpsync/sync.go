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

package main

import (
	"fmt"
	"strings"

	"github.com/kmdocs/helpsync/pkg/cache"
	"github.com/kmdocs/helpsync/pkg/cachefs"
	"github.com/kmdocs/helpsync/pkg/log"
	"github.com/kmdocs/helpsync/pkg/operation"
	"github.com/kmdocs/helpsync/pkg/progress"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the local cache with the remote catalog",
		Long: `Sync loads the remote catalog for the configured locale, compares it
against the local cache, regenerates the viewer index files, removes
orphaned packages, and downloads every missing or stale package of the
selected books.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := newConsole()
			if err := runSync(cmd, ui); err != nil {
				ui.Errorf("sync failed: %v", err)
				return err
			}
			return nil
		},
	}
}

func runSync(cmd *cobra.Command, ui *log.Logger) error {
	ctx, cfg, err := loadConfig(cmd, ui)
	if err != nil {
		return err
	}

	client, err := newRemote(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	sink := progress.NewChannelSink(256)
	engine, err := operation.New(operation.Options{
		Remote:   client,
		Files:    cachefs.New(cfg.CacheDir),
		Verifier: newVerifier(cfg),
		Sink:     sink,
	})
	if err != nil {
		return err
	}

	ui.Header("synchronizing documentation cache")
	ui.StartCatalogOperation(cfg.Locale, cfg.CacheDir)

	groups, err := engine.LoadCatalog(ctx, cfg.Version, cfg.Locale)
	if err != nil {
		return err
	}
	if err := cache.Reconcile(ctx, groups, cfg.CacheDir); err != nil {
		return err
	}
	cfg.MarkWanted(groups)

	before, _ := operation.Report(groups)
	fetched := map[string]bool{}
	for _, r := range before {
		if r.State.NeedsDownload() {
			fetched[strings.ToUpper(r.Package)] = true
		}
	}

	bar, _ := pterm.DefaultProgressbar.WithTotal(100).WithTitle("syncing").Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer sink.Close()
		return engine.SyncBooks(gctx, groups)
	})
	g.Go(func() error {
		overall, files := sink.OverallCh, sink.FileCh
		last := 0
		for overall != nil || files != nil {
			select {
			case p, ok := <-overall:
				if !ok {
					overall = nil
					continue
				}
				if p > last {
					bar.Add(p - last)
					last = p
				}
			case ev, ok := <-files:
				if !ok {
					files = nil
					continue
				}
				if ev.Percent >= 0 {
					bar.UpdateTitle(fmt.Sprintf("%s %d%%", ev.Filename, ev.Percent))
				} else {
					bar.UpdateTitle(ev.Filename)
				}
			}
		}
		return nil
	})

	err = g.Wait()
	bar.Stop()
	if err != nil {
		return err
	}

	after, _ := operation.Report(groups)
	for _, r := range after {
		ui.LogPackageOperation(log.PackageOperation{
			Name:       r.Package,
			State:      r.State,
			Size:       r.Size,
			Downloaded: fetched[strings.ToUpper(r.Package)],
		})
	}
	ui.Successf("%d packages in cache, %d downloaded", len(after), len(fetched))
	return nil
}
