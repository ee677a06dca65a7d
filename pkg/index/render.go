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

package index

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/kmdocs/helpsync/pkg/catalog"
)

const xhtmlHeader = "<html xmlns=\"http://www.w3.org/1999/xhtml\">\n<head />\n"

// 🏠 RenderSetupIndex renders the top-level index referencing every book
// group's index file, regardless of selection state.
func RenderSetupIndex(groups []*catalog.BookGroup) string {
	var buf bytes.Buffer
	buf.WriteString(xhtmlHeader)
	buf.WriteString("<body class=\"product-list\">\n")
	for _, group := range groups {
		name := html.EscapeString(group.Name)
		fmt.Fprintf(&buf, "  <div class=\"product\">\n")
		fmt.Fprintf(&buf, "    <span class=\"name\">%s</span>\n", name)
		fmt.Fprintf(&buf, "    <a class=\"product-link\" href=\"%s\">%s</a>\n",
			html.EscapeString(GroupFileName(group)), name)
		fmt.Fprintf(&buf, "  </div>\n")
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.String()
}

// 📚 RenderGroupIndex renders one group's index referencing every book's
// display metadata, regardless of selection state.
func RenderGroupIndex(group *catalog.BookGroup) string {
	var buf bytes.Buffer
	buf.WriteString(xhtmlHeader)
	fmt.Fprintf(&buf, "<body class=\"book-list\">\n")
	fmt.Fprintf(&buf, "  <span class=\"name\">%s</span>\n", html.EscapeString(group.Name))
	for _, book := range group.Books {
		fmt.Fprintf(&buf, "  <div class=\"book\">\n")
		fmt.Fprintf(&buf, "    <span class=\"name\">%s</span>\n", html.EscapeString(book.Name))
		fmt.Fprintf(&buf, "    <span class=\"category\">%s</span>\n", html.EscapeString(book.Category))
		fmt.Fprintf(&buf, "    <span class=\"description\">%s</span>\n", html.EscapeString(book.Description))
		fmt.Fprintf(&buf, "    <a class=\"book-link\" href=\"%s\">%s</a>\n",
			html.EscapeString(BookFileName(book)), html.EscapeString(book.Name))
		fmt.Fprintf(&buf, "  </div>\n")
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.String()
}

// 📖 RenderBookIndex renders one book's index referencing its packages under
// the Packages directory. Only called for wanted books.
func RenderBookIndex(group *catalog.BookGroup, book *catalog.Book) string {
	var buf bytes.Buffer
	buf.WriteString(xhtmlHeader)
	fmt.Fprintf(&buf, "<body class=\"package-list\">\n")
	fmt.Fprintf(&buf, "  <span class=\"product\">%s</span>\n", html.EscapeString(group.Name))
	fmt.Fprintf(&buf, "  <span class=\"name\">%s</span>\n", html.EscapeString(book.Name))
	for _, pkg := range book.Packages {
		fmt.Fprintf(&buf, "  <div class=\"package\">\n")
		fmt.Fprintf(&buf, "    <span class=\"name\">%s</span>\n", html.EscapeString(pkg.Name))
		fmt.Fprintf(&buf, "    <span class=\"package-size-bytes\">%d</span>\n", pkg.Size)
		fmt.Fprintf(&buf, "    <span class=\"last-modified\">%s</span>\n",
			pkg.LastModified.UTC().Format(time.RFC3339Nano))
		fmt.Fprintf(&buf, "    <a class=\"package-link\" href=\"%s/%s\">%s</a>\n",
			PackagesDirName, html.EscapeString(PackageFileName(pkg)), html.EscapeString(pkg.Name))
		fmt.Fprintf(&buf, "  </div>\n")
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.String()
}
