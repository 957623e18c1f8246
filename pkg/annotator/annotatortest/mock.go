// Package annotatortest provides test doubles for annotator.Annotator.
package annotatortest

import (
	"context"

	"github.com/OFFIS-RIT/kgraph/pkg/annotator"
	"github.com/OFFIS-RIT/kgraph/pkg/common"

	"github.com/stretchr/testify/mock"
)

// Mock is a testify mock of annotator.Annotator.
type Mock struct {
	mock.Mock
}

func (m *Mock) Annotate(ctx context.Context, req annotator.AnnotateRequest) (*common.Annotation, error) {
	args := m.Called(ctx, req)
	ann, _ := args.Get(0).(*common.Annotation)
	return ann, args.Error(1)
}

// Static returns an annotator that answers every request with the annotation
// registered for its text, or an empty annotation.
func Static(byText map[string]*common.Annotation) annotator.Annotator {
	return annotator.AnnotatorFunc(func(ctx context.Context, req annotator.AnnotateRequest) (*common.Annotation, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ann, ok := byText[req.Text]; ok {
			return ann, nil
		}
		return &common.Annotation{}, nil
	})
}

// ScenarioText is the two sentence document described by ScenarioAnnotation.
const ScenarioText = "Juan vive en Madrid. Juan trabaja para Acme."

// ScenarioAnnotation annotates ScenarioText: PERSON Juan, LOCATION Madrid,
// ORGANIZATION Acme and the dependency structure of both sentences.
func ScenarioAnnotation() *common.Annotation {
	return &common.Annotation{
		Sentences: []common.Sentence{
			{
				Index: 0,
				Tokens: []common.Token{
					{Word: "Juan", Lemma: "Juan", POS: "PROPN", NER: "PERSON"},
					{Word: "vive", Lemma: "vivir", POS: "VERB", NER: "O"},
					{Word: "en", Lemma: "en", POS: "ADP", NER: "O"},
					{Word: "Madrid", Lemma: "Madrid", POS: "PROPN", NER: "LOCATION"},
					{Word: ".", Lemma: ".", POS: "PUNCT", NER: "O"},
				},
				Mentions: []common.EntityMention{
					{Text: "Juan", NER: "PERSON", TokenBegin: 0, TokenEnd: 1},
					{Text: "Madrid", NER: "LOCATION", TokenBegin: 3, TokenEnd: 4},
				},
				Dependencies: []common.Dependency{
					{Type: "root", Governor: 0, Dependent: 2},
					{Type: "nsubj", Governor: 2, Dependent: 1},
					{Type: "obl", Governor: 2, Dependent: 4},
					{Type: "case", Governor: 4, Dependent: 3},
					{Type: "punct", Governor: 2, Dependent: 5},
				},
			},
			{
				Index: 1,
				Tokens: []common.Token{
					{Word: "Juan", Lemma: "Juan", POS: "PROPN", NER: "PERSON"},
					{Word: "trabaja", Lemma: "trabajar", POS: "VERB", NER: "O"},
					{Word: "para", Lemma: "para", POS: "ADP", NER: "O"},
					{Word: "Acme", Lemma: "Acme", POS: "PROPN", NER: "ORGANIZATION"},
					{Word: ".", Lemma: ".", POS: "PUNCT", NER: "O"},
				},
				Mentions: []common.EntityMention{
					{Text: "Juan", NER: "PERSON", TokenBegin: 0, TokenEnd: 1},
					{Text: "Acme", NER: "ORGANIZATION", TokenBegin: 3, TokenEnd: 4},
				},
				Dependencies: []common.Dependency{
					{Type: "root", Governor: 0, Dependent: 2},
					{Type: "nsubj", Governor: 2, Dependent: 1},
					{Type: "obl", Governor: 2, Dependent: 4},
					{Type: "case", Governor: 4, Dependent: 3},
					{Type: "punct", Governor: 2, Dependent: 5},
				},
			},
		},
	}
}
