// Package extract turns PDF bytes into plain text, page by page.
package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

const DefaultMinTextLength = 100

type Options struct {
	Engine Engine
	// MinTextLength is the trimmed length at or below which the text layer is
	// treated as missing and OCR is requested.
	MinTextLength int
	PageWorkers   int
}

type Extractor struct {
	engine        Engine
	minTextLength int
	workers       int
}

func NewExtractor(opts Options) *Extractor {
	e := &Extractor{
		engine:        opts.Engine,
		minTextLength: opts.MinTextLength,
		workers:       opts.PageWorkers,
	}
	if e.engine == nil {
		e.engine = PlainEngine{}
	}
	if e.workers <= 0 {
		e.workers = 1
	}
	return e
}

// Extract reads every page and joins the page texts in page order. It returns
// MethodOCRNeeded with empty text when the text layer is too short, and a
// domain extraction error when the document cannot be read at all.
func (e *Extractor) Extract(ctx context.Context, data []byte) (domain.ExtractionResult, error) {
	logger := zerolog.Ctx(ctx)

	doc, err := e.open(data)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open document")
		return domain.ExtractionResult{}, domain.ExtractionError(err.Error(), err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close document")
		}
	}()

	pages, err := e.pages(ctx, doc)
	if err != nil {
		logger.Error().Err(err).Msg("failed to extract text")
		return domain.ExtractionResult{}, domain.ExtractionError(err.Error(), err)
	}

	var sb strings.Builder
	for _, fragments := range pages {
		sb.WriteString(strings.Join(fragments, " "))
		sb.WriteString("\n")
	}
	text := sb.String()

	length := utf8.RuneCountInString(strings.TrimSpace(text))
	logger.Debug().Int("pages", len(pages)).Int("length", length).Msg("extracted text layer")

	if length <= e.minTextLength {
		return domain.ExtractionResult{Method: domain.MethodOCRNeeded, Pages: len(pages)}, nil
	}
	return domain.ExtractionResult{Text: text, Method: domain.MethodPDFText, Pages: len(pages)}, nil
}

func (e *Extractor) open(data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed document: %v", r)
		}
	}()
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return e.engine.Open(data)
}

func (e *Extractor) pages(ctx context.Context, doc Document) ([][]string, error) {
	n, err := numPages(doc)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	pages := make([][]string, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fragments, err := pageFragments(doc, i)
			if err != nil {
				return err
			}
			pages[i] = fragments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func numPages(doc Document) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed document: %v", r)
		}
	}()
	return doc.NumPages(), nil
}

func pageFragments(doc Document, i int) (fragments []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page %d: %v", i+1, r)
		}
	}()
	return doc.PageFragments(i)
}
