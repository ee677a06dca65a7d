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
	"github.com/kmdocs/helpsync/pkg/cachefs"
	"github.com/spf13/cobra"
)

// newCleanCmd creates the clean command
func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the generated indices and all cached packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := newConsole()
			ctx, cfg, err := loadConfig(cmd, ui)
			if err != nil {
				ui.Errorf("clean failed: %v", err)
				return err
			}

			if err := cachefs.New(cfg.CacheDir).RemoveAll(ctx); err != nil {
				ui.Errorf("clean failed: %v", err)
				return err
			}

			ui.Successf("removed cache content under %s", cfg.CacheDir)
			return nil
		},
	}
}
