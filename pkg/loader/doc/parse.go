package doc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// docxText collects the visible text of word/document.xml as lines. Each
// paragraph, manual line break and table row ends a line, so every line is
// also a sentence boundary for the chunker. Table cells are joined with " | ".
// Whitespace inside a line is collapsed and blank lines are dropped.
type docxText struct {
	lines   []string
	current strings.Builder
	cells   []string

	tableDepth int
	delDepth   int
	inText     bool
}

func (d *docxText) write(s string) {
	if d.delDepth == 0 {
		d.current.WriteString(s)
	}
}

func (d *docxText) take() string {
	text := strings.Join(strings.Fields(d.current.String()), " ")
	d.current.Reset()
	return text
}

func (d *docxText) endLine() {
	if text := d.take(); text != "" {
		d.lines = append(d.lines, text)
	}
}

// breakLine ends the line outside tables; inside a cell it only separates
// words, since a row is one line.
func (d *docxText) breakLine() {
	if d.tableDepth > 0 {
		d.write(" ")
		return
	}
	d.endLine()
}

func (d *docxText) endCell() {
	if text := d.take(); text != "" {
		d.cells = append(d.cells, text)
	}
}

func (d *docxText) endRow() {
	if len(d.cells) > 0 {
		d.lines = append(d.lines, strings.Join(d.cells, " | "))
	}
	d.cells = d.cells[:0]
}

func (d *docxText) start(name string) {
	switch name {
	case "del":
		d.delDepth++
	case "t":
		d.inText = true
	case "tab":
		d.write(" ")
	case "noBreakHyphen":
		d.write("-")
	case "br", "cr":
		if d.delDepth == 0 {
			d.breakLine()
		}
	case "tbl":
		if d.tableDepth == 0 {
			d.endLine()
		}
		d.tableDepth++
	}
}

func (d *docxText) end(name string) {
	switch name {
	case "t":
		d.inText = false
	case "del":
		if d.delDepth > 0 {
			d.delDepth--
		}
	case "p":
		d.breakLine()
	case "tc":
		if d.tableDepth == 1 {
			d.endCell()
		}
	case "tr":
		if d.tableDepth == 1 {
			d.endRow()
		}
	case "tbl":
		if d.tableDepth > 0 {
			d.tableDepth--
		}
	}
}

func (d *docxText) String() string {
	d.endLine()
	return strings.Join(d.lines, "\n")
}

// parseDocx extracts the text of a .docx archive, one line per paragraph or
// table row. Deleted revisions are skipped.
func parseDocx(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("document.xml not found in docx")
	}
	if docFile.UncompressedSize64 > docXMLMax {
		return nil, fmt.Errorf("document.xml too large: %d bytes", docFile.UncompressedSize64)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(io.LimitReader(rc, int64(docXMLMax)))
	text := &docxText{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			text.start(t.Name.Local)
		case xml.EndElement:
			text.end(t.Name.Local)
		case xml.CharData:
			if text.inText {
				text.write(string(t))
			}
		}
	}

	return []byte(text.String()), nil
}
