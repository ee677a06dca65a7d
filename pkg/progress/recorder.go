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

package progress

import (
	"sync"
)

// 🧪 Recorder captures every notification for inspection in tests
type Recorder struct {
	mu      sync.Mutex
	overall []int
	files   []FileEvent
}

func (r *Recorder) OverallProgress(percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overall = append(r.overall, percent)
}

func (r *Recorder) FileProgress(ev FileEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, ev)
}

// Overall returns the aggregate percentages in emission order.
func (r *Recorder) Overall() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.overall...)
}

// Files returns the per-file events in emission order.
func (r *Recorder) Files() []FileEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FileEvent(nil), r.files...)
}

// FilesFor returns the events for one filename in emission order.
func (r *Recorder) FilesFor(filename string) []FileEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []FileEvent
	for _, ev := range r.files {
		if ev.Filename == filename {
			out = append(out, ev)
		}
	}
	return out
}

// 📬 ChannelSink forwards notifications into channels so that a presentation
// loop can consume them on its own goroutine. Events are dropped rather than
// blocking the engine when the consumer falls behind.
type ChannelSink struct {
	OverallCh chan int
	FileCh    chan FileEvent
}

// 🏭 NewChannelSink creates a channel sink with the given buffer size
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{
		OverallCh: make(chan int, buffer),
		FileCh:    make(chan FileEvent, buffer),
	}
}

func (s *ChannelSink) OverallProgress(percent int) {
	select {
	case s.OverallCh <- percent:
	default:
	}
}

func (s *ChannelSink) FileProgress(ev FileEvent) {
	select {
	case s.FileCh <- ev:
	default:
	}
}

// Close closes both channels. Call only after the engine has returned.
func (s *ChannelSink) Close() {
	close(s.OverallCh)
	close(s.FileCh)
}
