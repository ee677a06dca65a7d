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

// Package progress defines the notification contract between the sync engine
// and any observer. Two independent signals are exposed: an aggregate percent
// advanced once per package, and a per-file event stream raised at transfer
// start, on each transport tick and at completion. Notifications may fire
// from a background goroutine; observers that drive user-visible state must
// marshal onto their own presentation loop.
package progress

// 🔔 UnknownBytes is the byte-count value reported before a transfer has
// learned its size.
const UnknownBytes int64 = -1

// 📄 FileEvent describes the status of one file transfer
type FileEvent struct {
	Filename        string
	Percent         int   // 0-100
	BytesDownloaded int64 // UnknownBytes if not started
	BytesTotal      int64 // UnknownBytes if unknown
}

// 📈 Sink receives both progress signals from the sync engine
type Sink interface {
	// OverallProgress reports aggregate completion across all distinct
	// packages of the current sync, 0-100.
	OverallProgress(percent int)

	// FileProgress reports the status of one file transfer. Ordering per
	// file is start, then ticks, then completion.
	FileProgress(ev FileEvent)
}

// 🔇 NopSink discards every notification
type NopSink struct{}

func (NopSink) OverallProgress(int)    {}
func (NopSink) FileProgress(FileEvent) {}

// StartEvent builds the transfer-start notification for a file.
func StartEvent(filename string) FileEvent {
	return FileEvent{
		Filename:        filename,
		Percent:         0,
		BytesDownloaded: UnknownBytes,
		BytesTotal:      UnknownBytes,
	}
}
