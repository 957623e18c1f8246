package graph

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
)

// DocumentEntities lists the entity mentions found in one document.
type DocumentEntities struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Entities []string `json:"entities"`
}

// RelationTriple is an open-domain relation as found in the text.
type RelationTriple struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

// ListEntities annotates every document and returns its entity mention
// texts in first-seen order. Duplicates and mentions of a single character
// are dropped. Blank documents yield an empty list.
func (g *GraphClient) ListEntities(ctx context.Context, docs []common.Document) ([]DocumentEntities, error) {
	out := make([]DocumentEntities, 0, len(docs))
	for _, doc := range docs {
		entities := DocumentEntities{ID: doc.ID, Name: doc.Name, Entities: []string{}}

		annotations, err := g.annotateDocument(ctx, doc)
		if err != nil {
			return nil, err
		}

		seen := make(map[string]struct{})
		for _, ann := range annotations {
			if ann == nil {
				continue
			}
			for _, sentence := range ann.Sentences {
				for _, mention := range sentence.Mentions {
					text := strings.TrimSpace(mention.Text)
					if utf8.RuneCountInString(text) <= 1 {
						continue
					}
					if _, ok := seen[text]; ok {
						continue
					}
					seen[text] = struct{}{}
					entities.Entities = append(entities.Entities, text)
				}
			}
		}

		out = append(out, entities)
	}
	return out, nil
}

// ListRelations returns the open-domain relation triples of each text.
// Triples missing a subject, relation or object are dropped.
func (g *GraphClient) ListRelations(ctx context.Context, texts []string, language string) ([][]RelationTriple, error) {
	out := make([][]RelationTriple, 0, len(texts))
	for i, text := range texts {
		triples := []RelationTriple{}

		annotations, err := g.annotateDocument(ctx, common.Document{ID: "text-" + strconv.Itoa(i), Text: text, Language: language})
		if err != nil {
			return nil, err
		}

		for _, ann := range annotations {
			if ann == nil {
				continue
			}
			for _, sentence := range ann.Sentences {
				for _, rel := range sentence.OpenRelations {
					triple := RelationTriple{
						Subject:  strings.TrimSpace(rel.SubjectText),
						Relation: strings.TrimSpace(rel.RelationText),
						Object:   strings.TrimSpace(rel.ObjectText),
					}
					if triple.Subject == "" || triple.Relation == "" || triple.Object == "" {
						continue
					}
					triples = append(triples, triple)
				}
			}
		}

		out = append(out, triples)
	}
	return out, nil
}

// annotateDocument splits and annotates a document outside of a graph run.
func (g *GraphClient) annotateDocument(ctx context.Context, doc common.Document) ([]*common.Annotation, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, ctx.Err()
	}
	units, err := g.Chunker().Split(doc.ID, doc.Text)
	if err != nil {
		return nil, err
	}
	return g.annotateUnits(ctx, units, g.languageOf(doc))
}

func (g *GraphClient) languageOf(doc common.Document) string {
	if doc.Language == "" && g.detectLanguage != nil {
		return g.detectLanguage(doc.Text)
	}
	return doc.Language
}
