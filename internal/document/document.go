// Package document turns uploaded study material into plain text.
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupported is returned for formats that cannot be read as text.
var ErrUnsupported = errors.New("unsupported document format")

const (
	wordNS   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	wordBody = "word/document.xml"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Text extracts the text of a document. name is only used for its
// extension; the content is sniffed as well, so stdin input works too.
// Word (.docx) documents yield one line per paragraph. PDF is rejected
// with ErrUnsupported. Anything else must be UTF-8 text.
func Text(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".pdf" || bytes.HasPrefix(data, pdfMagic):
		return "", fmt.Errorf("%w: PDF, save it as text or .docx first", ErrUnsupported)
	case ext == ".docx" || bytes.HasPrefix(data, zipMagic):
		return docxText(data)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not UTF-8 text", ErrUnsupported, displayName(name))
	}
	return string(data), nil
}

func displayName(name string) string {
	if name == "" || name == "-" {
		return "input"
	}
	return name
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a Word document: %v", ErrUnsupported, err)
	}
	for _, f := range zr.File {
		if f.Name != wordBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", wordBody, err)
		}
		defer rc.Close()
		return paragraphs(rc)
	}
	return "", fmt.Errorf("%w: Word document has no %s", ErrUnsupported, wordBody)
}

// paragraphs walks WordprocessingML and keeps the text runs, with tabs and
// breaks, one paragraph per line.
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		out    strings.Builder
		line   strings.Builder
		inText bool
		inTabs bool // tab stop definitions, not content
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read Word document: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "t":
				inText = true
			case "tabs":
				inTabs = true
			case "tab":
				if !inTabs {
					line.WriteByte('\t')
				}
			case "br", "cr":
				line.WriteByte('\n')
			}
		case xml.EndElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "t":
				inText = false
			case "tabs":
				inTabs = false
			case "p":
				out.WriteString(line.String())
				out.WriteByte('\n')
				line.Reset()
			}
		case xml.CharData:
			if inText {
				line.Write(el)
			}
		}
	}
	out.WriteString(line.String())
	return strings.TrimRight(out.String(), "\n"), nil
}
