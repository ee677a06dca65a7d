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

// Package log renders user-facing console output for the CLI while
// mirroring everything into structured zerolog records.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/kmdocs/helpsync/pkg/catalog"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent package entries
	nameWidth  = 40 // base width for package name
	stateWidth = 16 // width for state text
)

// 📦 PackageOperation represents one package's outcome for logging
type PackageOperation struct {
	Name       string               // Package name
	State      catalog.PackageState // State after the operation
	Size       int64                // Expected size in bytes
	Downloaded bool                 // Whether the package was fetched this run
	Pruned     bool                 // Whether the file was removed as an orphan
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Zerolog returns the structured logger for context attachment.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// 📝 formatPackageOperation formats a package operation for display
func (l *Logger) formatPackageOperation(op PackageOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Pruned:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.Downloaded:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.State == catalog.StateReady:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", stateWidth, op.State.String())),
		color.New(color.Faint).Sprint(formatSize(op.Size)))
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// 📝 LogPackageOperation logs a package operation
func (l *Logger) LogPackageOperation(op PackageOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatPackageOperation(op))

	l.zlog.Info().
		Str("package", op.Name).
		Str("state", op.State.String()).
		Int64("size", op.Size).
		Bool("downloaded", op.Downloaded).
		Bool("pruned", op.Pruned).
		Msg("package operation")
}

// 📝 StartCatalogOperation prints the header for one catalog sync
func (l *Logger) StartCatalogOperation(locale, cacheDir string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "[mirroring %s]\n",
		color.New(color.FgCyan).Sprint(cacheDir))
	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(locale))

	l.zlog.Info().
		Str("locale", locale).
		Str("cache_dir", cacheDir).
		Msg("starting catalog operation")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("helpsync")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
