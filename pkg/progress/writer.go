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
	"io"
)

// ✍️ Writer wraps an io.Writer and raises a FileProgress tick for every
// chunk written through it.
type Writer struct {
	w        io.Writer
	filename string
	total    int64
	current  int64
	sink     Sink
}

// 🏭 NewWriter creates a progress-reporting writer for one file transfer.
// total may be UnknownBytes when the transport did not announce a length.
func NewWriter(w io.Writer, filename string, total int64, sink Sink) *Writer {
	return &Writer{w: w, filename: filename, total: total, sink: sink}
}

// Write implements io.Writer.
func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.current += int64(n)

	if pw.sink != nil {
		pw.sink.FileProgress(FileEvent{
			Filename:        pw.filename,
			Percent:         Percent(pw.current, pw.total),
			BytesDownloaded: pw.current,
			BytesTotal:      pw.total,
		})
	}

	return n, err
}

// BytesWritten returns the number of bytes written so far.
func (pw *Writer) BytesWritten() int64 {
	return pw.current
}

// Percent maps a current/total byte pair onto 0-100. Unknown totals report 0
// until completion is signalled explicitly.
func Percent(current, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(current * 100 / total)
	if p > 100 {
		p = 100
	}
	return p
}
