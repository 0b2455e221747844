package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"predscan/internal/extract"
	"predscan/internal/model"
)

// Loader reads submission documents from a local directory. Each file is
// named <IDENTIFIER>.txt or <IDENTIFIER>.html; the basename is the document
// identifier. Files with other extensions or invalid identifiers are
// skipped.
type Loader struct {
	dir     string
	verbose bool
}

// NewLoader creates a loader for the given corpus directory
func NewLoader(dir string, verbose bool) *Loader {
	return &Loader{dir: dir, verbose: verbose}
}

// Load reads every corpus document, sorted by identifier. A file that
// exists but cannot be read yields a document with empty text: the
// identifier stays part of the corpus so citations to it still resolve,
// while its own outbound citations contribute nothing.
func (l *Loader) Load() ([]model.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	// .txt wins over .html when both exist for one identifier
	paths := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".txt" && ext != ".html" && ext != ".htm" {
			continue
		}

		id := extract.Normalize(strings.TrimSuffix(name, filepath.Ext(name)))
		if !extract.ValidIdentifier(id) {
			if l.verbose {
				fmt.Fprintf(os.Stderr, "corpus: skipping %s: not an identifier\n", name)
			}
			continue
		}

		existing, seen := paths[id]
		if seen && strings.HasSuffix(strings.ToLower(existing), ".txt") {
			continue
		}
		paths[id] = filepath.Join(l.dir, name)
	}

	ids := make([]string, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]model.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, l.read(id, paths[id]))
	}

	return docs, nil
}

func (l *Loader) read(id, path string) model.Document {
	data, err := os.ReadFile(path)
	if err != nil {
		if l.verbose {
			fmt.Fprintf(os.Stderr, "corpus: %s unavailable: %v\n", id, err)
		}
		return model.Document{ID: id}
	}

	text := string(data)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		text = stripHTML(text)
	}

	return model.Document{ID: id, Text: text}
}

// stripHTML extracts visible text from an HTML document, skipping
// scripts and styles. Offsets within the result are what zone and
// citation classification operate on.
func stripHTML(content string) string {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(root)
	return buf.String()
}
