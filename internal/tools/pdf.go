package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	DocumentToolName = "read_financial_document"
	DefaultDocument  = "data/sample.pdf"
)

// Document is a paginated source of text.
type Document interface {
	NumPage() int
	// PageText returns the raw text of page i (1-based). An empty string
	// means the page carries no text.
	PageText(i int) (string, error)
	Close() error
}

// OpenFunc opens the document at path.
type OpenFunc func(path string) (Document, error)

// DocumentTool reads a financial document and returns its normalized text.
type DocumentTool struct {
	Open OpenFunc
}

// NewDocumentTool returns a tool reading PDF files from disk
func NewDocumentTool() *DocumentTool {
	return &DocumentTool{Open: OpenPDF}
}

func (d *DocumentTool) Name() string {
	return DocumentToolName
}

func (d *DocumentTool) Description() string {
	return fmt.Sprintf("Read and extract the text content of a financial PDF document. Input is the file path (defaults to '%s').", DefaultDocument)
}

func (d *DocumentTool) Execute(_ context.Context, input string) (string, error) {
	path := strings.TrimSpace(input)
	if path == "" {
		path = DefaultDocument
	}
	return d.Extract(path)
}

// Check verifies the document can be opened without extracting it.
func (d *DocumentTool) Check(path string) error {
	doc, err := d.open(path)
	if err != nil {
		return err
	}
	return doc.Close()
}

// Extract returns the whole document's normalized text. Pages without text
// are skipped; each contributing page is followed by a single newline.
func (d *DocumentTool) Extract(path string) (string, error) {
	doc, err := d.open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var report strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		text, err := doc.PageText(i)
		if err != nil {
			return "", &FileAccessError{Path: path, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		report.WriteString(NormalizeText(text))
		report.WriteString("\n")
	}

	return report.String(), nil
}

func (d *DocumentTool) open(path string) (Document, error) {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}

	open := d.Open
	if open == nil {
		open = OpenPDF
	}
	doc, err := open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return doc, nil
}

// NormalizeText collapses every run of consecutive newlines into one,
// repeating until nothing is left to collapse.
func NormalizeText(text string) string {
	for strings.Contains(text, "\n\n") {
		text = strings.ReplaceAll(text, "\n\n", "\n")
	}
	return text
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
}

// OpenPDF opens a PDF file for page-wise text extraction
func OpenPDF(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &pdfDocument{file: f, reader: r}, nil
}

func (p *pdfDocument) NumPage() int {
	return p.reader.NumPage()
}

func (p *pdfDocument) PageText(i int) (text string, err error) {
	page := p.reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	// The parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()
	text, err = page.GetPlainText(nil)
	// GetPlainText opens every page with a line break of its own.
	return strings.TrimLeft(text, "\n"), err
}

func (p *pdfDocument) Close() error {
	return p.file.Close()
}
