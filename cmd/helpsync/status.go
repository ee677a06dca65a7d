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
	"github.com/kmdocs/helpsync/pkg/cache"
	"github.com/kmdocs/helpsync/pkg/cachefs"
	"github.com/kmdocs/helpsync/pkg/log"
	"github.com/kmdocs/helpsync/pkg/operation"
	"github.com/spf13/cobra"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cache state of every selected package",
		Long: `Status loads the remote catalog, compares it against the local cache,
and reports the state of every package of the selected books without
modifying anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := newConsole()
			if err := runStatus(cmd, ui); err != nil {
				ui.Errorf("status failed: %v", err)
				return err
			}
			return nil
		},
	}
}

func runStatus(cmd *cobra.Command, ui *log.Logger) error {
	ctx, cfg, err := loadConfig(cmd, ui)
	if err != nil {
		return err
	}

	client, err := newRemote(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	engine, err := operation.New(operation.Options{
		Remote:   client,
		Files:    cachefs.New(cfg.CacheDir),
		Verifier: newVerifier(cfg),
	})
	if err != nil {
		return err
	}

	ui.Header("checking documentation cache")
	ui.StartCatalogOperation(cfg.Locale, cfg.CacheDir)

	groups, err := engine.LoadCatalog(ctx, cfg.Version, cfg.Locale)
	if err != nil {
		return err
	}
	if err := cache.Reconcile(ctx, groups, cfg.CacheDir); err != nil {
		return err
	}
	cfg.MarkWanted(groups)

	reports, pending := operation.Report(groups)
	if len(reports) == 0 {
		ui.Warning("no books selected, nothing to report")
		return nil
	}

	for _, r := range reports {
		ui.LogPackageOperation(log.PackageOperation{
			Name:  r.Package,
			State: r.State,
			Size:  r.Size,
		})
	}

	if pending == 0 {
		ui.Successf("all %d packages present", len(reports))
	} else {
		ui.Warningf("%d of %d packages need download", pending, len(reports))
	}
	return nil
}
