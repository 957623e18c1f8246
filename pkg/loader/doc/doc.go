package doc

import (
	"context"
	"io"

	"github.com/OFFIS-RIT/kgraph/pkg/loader"
)

const docXMLMax = 50 << 20

// DocGraphLoader extracts the text of Word documents (.docx) loaded by an
// underlying loader.
type DocGraphLoader struct {
	loader loader.DocumentLoader
	cache  *loader.Cache
}

// NewDocGraphLoader creates a document loader that extracts text directly from docx XML.
func NewDocGraphLoader(base loader.DocumentLoader) *DocGraphLoader {
	return &DocGraphLoader{
		loader: base,
		cache:  loader.NewCache(),
	}
}

// GetFileText extracts text content from a Word document.
func (l *DocGraphLoader) GetFileText(ctx context.Context, file loader.DocumentFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		content, err := l.loader.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}
		return parseDocx(content)
	})
}

// GetFileTextFromIO extracts text content from a Word document provided as an io.Reader.
func GetFileTextFromIO(input io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(input, docXMLMax))
	if err != nil {
		return nil, err
	}

	return parseDocx(content)
}
