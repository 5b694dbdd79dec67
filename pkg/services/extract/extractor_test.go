package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

type fakeEngine struct {
	pages     [][]string
	openErr   error
	pageErr   map[int]error
	panicPage int
	delay     func(i int) time.Duration
}

func (f *fakeEngine) Open([]byte) (Document, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeDocument{engine: f}, nil
}

type fakeDocument struct {
	engine *fakeEngine
	closed bool
}

func (d *fakeDocument) NumPages() int { return len(d.engine.pages) }

func (d *fakeDocument) PageFragments(i int) ([]string, error) {
	if d.engine.delay != nil {
		time.Sleep(d.engine.delay(i))
	}
	if d.engine.panicPage == i+1 {
		panic("corrupt content stream")
	}
	if err := d.engine.pageErr[i]; err != nil {
		return nil, err
	}
	return d.engine.pages[i], nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

var longLine = strings.Repeat("Total Cholesterol 212 mg/dL ", 5)

func TestExtract_JoinsPagesInOrder(t *testing.T) {
	engine := &fakeEngine{
		pages: [][]string{
			{"page", "one", longLine},
			{"page", "two"},
			{"page", "three"},
		},
		// later pages finish first
		delay: func(i int) time.Duration { return time.Duration(3-i) * 10 * time.Millisecond },
	}
	e := NewExtractor(Options{Engine: engine, MinTextLength: DefaultMinTextLength, PageWorkers: 3})

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, domain.MethodPDFText, res.Method)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, "page one "+longLine+"\npage two\npage three\n", res.Text)
}

func TestExtract_ShortTextNeedsOCR(t *testing.T) {
	exactly100 := strings.Repeat("a", 100)

	tests := []struct {
		name  string
		pages [][]string
		want  domain.ExtractionMethod
	}{
		{name: "empty text layer", pages: [][]string{{}}, want: domain.MethodOCRNeeded},
		{name: "whitespace only", pages: [][]string{{"   ", "\t"}}, want: domain.MethodOCRNeeded},
		{name: "exactly at threshold", pages: [][]string{{exactly100}}, want: domain.MethodOCRNeeded},
		{name: "parseable but short", pages: [][]string{{"HDL 38 mg/dL"}}, want: domain.MethodOCRNeeded},
		{name: "one past threshold", pages: [][]string{{exactly100 + "b"}}, want: domain.MethodPDFText},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewExtractor(Options{Engine: &fakeEngine{pages: tc.pages}, MinTextLength: DefaultMinTextLength})

			res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Method)
			if tc.want == domain.MethodOCRNeeded {
				assert.Empty(t, res.Text)
				assert.True(t, res.NeedsOCR())
			}
		})
	}
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name   string
		engine *fakeEngine
		data   []byte
	}{
		{name: "open error", engine: &fakeEngine{openErr: errors.New("bad xref")}, data: []byte("x")},
		{name: "zero pages", engine: &fakeEngine{}, data: []byte("x")},
		{name: "empty input", engine: &fakeEngine{pages: [][]string{{longLine}}}},
		{
			name:   "page error",
			engine: &fakeEngine{pages: [][]string{{longLine}, {longLine}}, pageErr: map[int]error{1: errors.New("bad font")}},
			data:   []byte("x"),
		},
		{name: "panic", engine: &fakeEngine{pages: [][]string{{longLine}, {longLine}}, panicPage: 2}, data: []byte("x")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewExtractor(Options{Engine: tc.engine, MinTextLength: DefaultMinTextLength, PageWorkers: 2})

			res, err := e.Extract(context.Background(), tc.data)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorKindExtraction, domain.KindOf(err))
			assert.Empty(t, res.Text)

			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.NotEmpty(t, de.Detail)
		})
	}
}

func TestExtract_PlainEngineRejectsGarbage(t *testing.T) {
	e := NewExtractor(Options{Engine: PlainEngine{}, MinTextLength: DefaultMinTextLength})

	_, err := e.Extract(context.Background(), []byte("this is not a pdf at all"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindExtraction, domain.KindOf(err))
}

func TestExtract_PlainEngineReadsTextLayer(t *testing.T) {
	lines := []string{
		"Name: JANE DOE Age/Gender: 34 Y F",
		"Date: 16-06-2025",
		"Total Cholesterol 212 mg/dL",
		"HDL Cholesterol 38 mg/dL",
		"LDL Cholesterol 145 mg/dL",
	}
	e := NewExtractor(Options{Engine: PlainEngine{}, MinTextLength: DefaultMinTextLength})

	res, err := e.Extract(context.Background(), buildPDF(lines))
	require.NoError(t, err)

	assert.Equal(t, domain.MethodPDFText, res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "HDL Cholesterol 38 mg/dL")
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine("pdf")
	require.NoError(t, err)
	assert.IsType(t, PlainEngine{}, e)

	e, err = NewEngine("fitz")
	require.NoError(t, err)
	assert.IsType(t, FitzEngine{}, e)

	_, err = NewEngine("tesseract")
	assert.Error(t, err)
}

// buildPDF writes a single page PDF with one Helvetica text line per entry and
// a correct cross-reference table.
func buildPDF(lines []string) []byte {
	var content bytes.Buffer
	content.WriteString("BT /F1 12 Tf 14 TL 72 720 Td\n")
	for _, l := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", l)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
