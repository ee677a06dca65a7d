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
	"context"
	"os"

	"github.com/kmdocs/helpsync/pkg/config"
	"github.com/kmdocs/helpsync/pkg/log"
	"github.com/kmdocs/helpsync/pkg/remote"
	"github.com/kmdocs/helpsync/pkg/trust"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Flags
	configFile string
	debug      bool
)

// newRootCmd creates the root command with all subcommands attached
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helpsync",
		Short: "Mirror a remote documentation catalog into a local cache",
		Long: `helpsync keeps a local documentation cache in step with a remote
catalog: it downloads missing or stale content packages, verifies them,
and regenerates the index files the local help viewer reads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".helpsync.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(
		newSyncCmd(),
		newStatusCmd(),
		newCleanCmd(),
		newVersionCmd(),
	)

	return cmd
}

// newConsole creates the user-facing logger honoring the debug flag
func newConsole() *log.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return log.New(os.Stdout, level)
}

// loadConfig reads the configured file and attaches the structured logger
// to the command context.
func loadConfig(cmd *cobra.Command, ui *log.Logger) (context.Context, *config.Config, error) {
	ctx := ui.Zerolog().WithContext(cmd.Context())

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, cfg, nil
}

// newRemote creates the transport client from the config, wiring the
// forward proxy when one is configured.
func newRemote(cfg *config.Config) (*remote.Client, error) {
	var opts []remote.Option
	if cfg.Proxy != nil {
		opt, err := remote.WithProxy(cfg.Proxy.URL, cfg.Proxy.Username, cfg.Proxy.Password)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return remote.NewClient(cfg.CatalogURL, cfg.DownloadURL, opts...)
}

// newVerifier picks the trust predicate: the configured external command,
// or accept-all when verification is disabled.
func newVerifier(cfg *config.Config) trust.Verifier {
	if len(cfg.VerifyCommand) > 0 {
		return trust.Command(cfg.VerifyCommand[0], cfg.VerifyCommand[1:]...)
	}
	return trust.AcceptAll()
}
