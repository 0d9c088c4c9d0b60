// Package content provides the study text a level is built from: the bundled
// demo chapters and text files supplied by the user.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed data/chapters.yaml
var chaptersYAML []byte

// MaxFileBytes is the largest study file FromFile and FromReader accept.
const MaxFileBytes = 1 << 20

var (
	// ErrEmpty means the source held no text.
	ErrEmpty = errors.New("content: no text")

	// ErrTooLarge means the source exceeded MaxFileBytes.
	ErrTooLarge = errors.New("content: text too large")

	// ErrUnsupported means the file extension is not a known text format.
	ErrUnsupported = errors.New("content: unsupported file type")
)

// Chapter is a titled piece of study text.
type Chapter struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Subject    string `yaml:"subject"`
	ClassLevel string `yaml:"class_level"`
	Content    string `yaml:"content"`
}

// Summary is a one-line description for listings.
func (c Chapter) Summary() string {
	return fmt.Sprintf("%s · %s · %s", c.Title, c.Subject, c.ClassLevel)
}

var (
	loadOnce sync.Once
	chapters []Chapter
	loadErr  error
)

func load() ([]Chapter, error) {
	loadOnce.Do(func() {
		var doc struct {
			Chapters []Chapter `yaml:"chapters"`
		}
		if err := yaml.Unmarshal(chaptersYAML, &doc); err != nil {
			loadErr = fmt.Errorf("content: parse bundled chapters: %w", err)
			return
		}
		chapters = doc.Chapters
	})
	return chapters, loadErr
}

// Chapters returns the bundled demo chapters in library order.
func Chapters() []Chapter {
	list, err := load()
	if err != nil {
		// The file is embedded at build time; a parse failure is a bug.
		panic(err)
	}
	out := make([]Chapter, len(list))
	copy(out, list)
	return out
}

// ByID returns the chapter with the given ID.
func ByID(id string) (Chapter, bool) {
	for _, c := range Chapters() {
		if c.ID == id {
			return c, true
		}
	}
	return Chapter{}, false
}

// Search returns chapters whose title, subject or class level contains the
// query, ignoring case. An empty query matches everything.
func Search(query string) []Chapter {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Chapter
	for _, c := range Chapters() {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Title), q) ||
			strings.Contains(strings.ToLower(c.Subject), q) ||
			strings.Contains(strings.ToLower(c.ClassLevel), q) {
			out = append(out, c)
		}
	}
	return out
}

// FromFile reads a .txt or .md study file. The chapter title is taken from
// the first Markdown heading, or the file name.
func FromFile(path string) (Chapter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md", ".markdown", "":
	default:
		return Chapter{}, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return Chapter{}, fmt.Errorf("content: %w", err)
	}
	defer f.Close()

	text, err := read(f)
	if err != nil {
		return Chapter{}, err
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if h := firstHeading(text); h != "" {
		title = h
	}
	return Chapter{ID: "file:" + base, Title: title, Subject: "Notes", Content: text}, nil
}

// FromReader reads study text from r, typically standard input.
func FromReader(r io.Reader, title string) (Chapter, error) {
	text, err := read(r)
	if err != nil {
		return Chapter{}, err
	}
	if title == "" {
		title = "Pasted notes"
	}
	return Chapter{ID: "stdin", Title: title, Subject: "Notes", Content: text}, nil
}

func read(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileBytes+1))
	if err != nil {
		return "", fmt.Errorf("content: read: %w", err)
	}
	if len(data) > MaxFileBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, MaxFileBytes)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not UTF-8 text", ErrUnsupported)
	}
	text := Normalize(string(data))
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// Normalize converts line endings to \n, trims trailing spaces on each line
// and collapses runs of blank lines to one.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	blank := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			continue
		}
		if b.Len() > 0 {
			if blank > 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		blank = 0
		b.WriteString(line)
	}
	return b.String()
}

func firstHeading(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
