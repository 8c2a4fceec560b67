package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
)

// Document is the content read back from a .docx package.
type Document struct {
	Title string
	Text  string
}

// Ensure Reader implements the interface.
var _ driven.DocumentReader = (*Reader)(nil)

// Reader extracts text from .docx packages.
type Reader struct{}

// NewReader creates a new docx reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadText returns the body text of a .docx package.
func (r *Reader) ReadText(data []byte) (string, error) {
	doc, err := Read(data)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// Read parses a .docx package.
func Read(data []byte) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnsupportedFormat, err)
	}

	content, err := readPart(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fmt.Errorf("%w: missing word/document.xml", domain.ErrUnsupportedFormat)
	}

	doc := &Document{Text: parseDocumentXML(content)}

	if core, err := readPart(reader, "docProps/core.xml"); err == nil && core != nil {
		var props coreXML
		if err := xml.Unmarshal(core, &props); err == nil {
			doc.Title = strings.TrimSpace(props.Title)
		}
	}
	return doc, nil
}

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", domain.ErrUnsupportedFormat, name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrUnsupportedFormat, name, err)
		}
		return content, nil
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

// run keeps its children in document order so breaks land between texts.
type run struct {
	Items []runItem `xml:",any"`
}

type runItem struct {
	XMLName xml.Name
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, item := range r.Items {
				switch item.XMLName.Local {
				case "t":
					result.WriteString(item.Content)
				case "br", "cr":
					result.WriteString("\n")
				case "tab":
					result.WriteString("\t")
				}
			}
		}
	}

	return result.String()
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}
