package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
)

// DocumentFile is a source of document text for a graph run. The content is
// retrieved through the associated DocumentLoader.
type DocumentFile struct {
	ID       string
	FilePath string
	Language string
	Loader   DocumentLoader
}

// NewDocumentFileParams defines the input parameters for NewDocumentFile.
type NewDocumentFileParams struct {
	ID       string
	FilePath string
	Language string
	Loader   DocumentLoader
}

// NewDocumentFile creates a DocumentFile. The ID defaults to the file name
// without its extension.
func NewDocumentFile(params NewDocumentFileParams) DocumentFile {
	id := params.ID
	if id == "" {
		base := filepath.Base(params.FilePath)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return DocumentFile{
		ID:       id,
		FilePath: params.FilePath,
		Language: params.Language,
		Loader:   params.Loader,
	}
}

// GetText retrieves the raw text content of the file using its Loader.
func (f *DocumentFile) GetText(ctx context.Context) ([]byte, error) {
	if f.Loader == nil {
		return nil, fmt.Errorf("no loader for %s", f.FilePath)
	}
	return f.Loader.GetFileText(ctx, *f)
}

// Document loads the file and returns it as a graph input document.
func (f *DocumentFile) Document(ctx context.Context) (common.Document, error) {
	text, err := f.GetText(ctx)
	if err != nil {
		return common.Document{}, fmt.Errorf("failed to load %s: %w", f.FilePath, err)
	}
	if !utf8.Valid(text) {
		return common.Document{}, fmt.Errorf("%s is not valid UTF-8 text", f.FilePath)
	}
	return common.Document{
		ID:       f.ID,
		Name:     filepath.Base(f.FilePath),
		Text:     string(text),
		Language: f.Language,
	}, nil
}

// DocumentLoader defines the interface for loading the contents of a
// DocumentFile. Implementations may load files from disk, cloud storage,
// the web or wrap another loader to convert formats.
type DocumentLoader interface {
	GetFileText(ctx context.Context, file DocumentFile) ([]byte, error)
}

// LoadDocuments loads every file in order and stops at the first failure.
func LoadDocuments(ctx context.Context, files []DocumentFile) ([]common.Document, error) {
	docs := make([]common.Document, 0, len(files))
	for i := range files {
		doc, err := files[i].Document(ctx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
