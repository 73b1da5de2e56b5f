package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocument struct {
	pages  []string
	err    error
	closed bool
}

func (f *fakeDocument) NumPage() int { return len(f.pages) }

func (f *fakeDocument) PageText(i int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.pages[i-1], nil
}

func (f *fakeDocument) Close() error {
	f.closed = true
	return nil
}

// documentAt creates a placeholder file so the stat check passes and serves
// doc for it.
func documentAt(t *testing.T, doc *fakeDocument) (*DocumentTool, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	tool := &DocumentTool{Open: func(string) (Document, error) { return doc, nil }}
	return tool, path
}

func TestExtractThreePageScenario(t *testing.T) {
	doc := &fakeDocument{pages: []string{
		"Revenue: $10M\n\n\nNet Income: $2M",
		"Q1 2024",
		"",
	}}
	tool, path := documentAt(t, doc)

	text, err := tool.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "Revenue: $10M\nNet Income: $2M\nQ1 2024\n", text)
	assert.True(t, doc.closed)
}

// writePDF builds a minimal PDF with one Helvetica text line per page. An
// empty string yields a page with an empty content stream.
func writePDF(t *testing.T, pages ...string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var kids []string
	for _, text := range pages {
		pageObj := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageObj))
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "filing.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtractRealPDF(t *testing.T) {
	path := writePDF(t, "Revenue: $10M", "Q1 2024", "")

	doc, err := OpenPDF(path)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.NumPage())
	first, err := doc.PageText(1)
	require.NoError(t, err)
	assert.Equal(t, "Revenue: $10M", first)
	require.NoError(t, doc.Close())

	text, err := NewDocumentTool().Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "Revenue: $10M\nQ1 2024\n", text)
	assert.NoError(t, NewDocumentTool().Check(path))
}

func TestExtractOneBlockPerTextPage(t *testing.T) {
	doc := &fakeDocument{pages: []string{"a", "", "b\n\nc", "d"}}
	tool, path := documentAt(t, doc)

	text, err := tool.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\nd\n", text)
}

func TestExtractBlankDocumentIsEmpty(t *testing.T) {
	for name, pages := range map[string][]string{
		"no pages":   nil,
		"image only": {"", ""},
		"whitespace": {"  ", "\n\n"},
	} {
		t.Run(name, func(t *testing.T) {
			tool, path := documentAt(t, &fakeDocument{pages: pages})
			text, err := tool.Extract(path)
			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestExtractMissingFile(t *testing.T) {
	tool := NewDocumentTool()
	missing := filepath.Join(t.TempDir(), "nope.pdf")

	_, err := tool.Extract(missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileAccess)

	var fae *FileAccessError
	require.ErrorAs(t, err, &fae)
	assert.Equal(t, missing, fae.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.ErrorIs(t, tool.Check(missing), ErrFileAccess)
}

func TestExtractUnparseableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))
	tool := &DocumentTool{Open: func(string) (Document, error) { return nil, errors.New("malformed header") }}

	_, err := tool.Extract(path)
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestExtractPageError(t *testing.T) {
	tool, path := documentAt(t, &fakeDocument{pages: []string{"x"}, err: errors.New("bad stream")})
	_, err := tool.Extract(path)
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestDocumentToolExecuteUsesInputPath(t *testing.T) {
	tool, path := documentAt(t, &fakeDocument{pages: []string{"EPS 1.20"}})
	out, err := tool.Execute(context.Background(), "  "+path+"\n")
	require.NoError(t, err)
	assert.Equal(t, "EPS 1.20\n", out)
}

func TestNormalizeText(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"plain":            "plain",
		"a\nb":             "a\nb",
		"a\n\nb":           "a\nb",
		"a\n\n\n\n\nb":     "a\nb",
		"\n\n\nlead":       "\nlead",
		"x\n\ny\n\n\nz\n": "x\ny\nz\n",
	}
	for in, want := range tests {
		got := NormalizeText(in)
		assert.Equal(t, want, got, "NormalizeText(%q)", in)
		assert.Equal(t, got, NormalizeText(got), "NormalizeText must be idempotent for %q", in)
		assert.NotContains(t, got, "\n\n")
	}
}
