package annotator

import (
	"context"
	"errors"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
)

// ErrEmptyText is returned when an annotation is requested for blank text.
var ErrEmptyText = errors.New("annotator: empty text")

// DefaultLanguage is used when a request carries no language.
const DefaultLanguage = "es"

// AnnotateRequest is a single chunk of text sent to the annotation service.
type AnnotateRequest struct {
	Text     string
	Language string // ISO 639-1 code, DefaultLanguage when empty
}

// Annotator returns the linguistic annotation of a text chunk: tokens,
// entity mentions, relation triples, dependencies and coreference chains.
//
// Implementations must be safe for concurrent use.
type Annotator interface {
	Annotate(ctx context.Context, req AnnotateRequest) (*common.Annotation, error)
}

// AnnotatorFunc adapts a function to the Annotator interface.
type AnnotatorFunc func(ctx context.Context, req AnnotateRequest) (*common.Annotation, error)

func (f AnnotatorFunc) Annotate(ctx context.Context, req AnnotateRequest) (*common.Annotation, error) {
	return f(ctx, req)
}

// LanguageOrDefault returns the request language or DefaultLanguage.
func (r AnnotateRequest) LanguageOrDefault() string {
	if r.Language == "" {
		return DefaultLanguage
	}
	return r.Language
}
