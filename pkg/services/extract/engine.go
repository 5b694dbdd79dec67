package extract

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// Engine opens a PDF held in memory.
type Engine interface {
	Open(data []byte) (Document, error)
}

// Document gives page level access to an opened PDF. Pages are zero based.
// Implementations must be safe for concurrent PageFragments calls.
type Document interface {
	NumPages() int
	// PageFragments returns the text items of page i in source order.
	PageFragments(i int) ([]string, error)
	Close() error
}

// NewEngine returns the engine registered under name: "pdf" for the pure Go
// reader or "fitz" for MuPDF.
func NewEngine(name string) (Engine, error) {
	switch name {
	case "", "pdf":
		return PlainEngine{}, nil
	case "fitz":
		return FitzEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction engine %q", name)
	}
}

func splitFragments(text string) []string {
	var fragments []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fragments = append(fragments, line)
		}
	}
	return fragments
}

// PlainEngine reads the text layer with github.com/ledongthuc/pdf.
type PlainEngine struct{}

func (PlainEngine) Open(data []byte) (Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &plainDocument{reader: r}, nil
}

type plainDocument struct {
	// the reader shares parser state between pages
	mu     sync.Mutex
	reader *pdf.Reader
}

func (d *plainDocument) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reader.NumPage()
}

func (d *plainDocument) PageFragments(i int) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	page := d.reader.Page(i + 1)
	if page.V.IsNull() {
		return nil, nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d: %w", i+1, err)
	}
	return splitFragments(text), nil
}

func (d *plainDocument) Close() error {
	return nil
}

// FitzEngine reads the text layer with MuPDF through github.com/gen2brain/go-fitz.
type FitzEngine struct{}

func (FitzEngine) Open(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) NumPages() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) PageFragments(i int) ([]string, error) {
	text, err := d.doc.Text(i)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d: %w", i+1, err)
	}
	return splitFragments(text), nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
