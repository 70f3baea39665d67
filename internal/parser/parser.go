// Package parser turns uploaded or local files into plain text for summarizing.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is the plain text content of a file.
type Document struct {
	Title string // From document metadata, else the file name without extension
	Text  string // Paragraphs separated by blank lines
}

// Parser converts raw file bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// Options tunes parser behavior.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// baseTitle strips the extension from a file name.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// paragraphs accumulates non-empty blocks of text.
type paragraphs struct {
	sb strings.Builder
}

func (p *paragraphs) add(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if p.sb.Len() > 0 {
		p.sb.WriteString("\n\n")
	}
	p.sb.WriteString(s)
}

func (p *paragraphs) String() string {
	return p.sb.String()
}
