package graph

import "strings"

// extractOpenRelations links the subject and object of every open relation
// triple, labeled with the lemmas of the relation span. Copular lemmas
// collapse to their copula label.
func extractOpenRelations(sc *sentenceContext) {
	for _, rel := range sc.sentence.OpenRelations {
		subject, ok := sc.spanInfo(rel.Subject, rel.SubjectText)
		if !ok {
			continue
		}
		object, ok := sc.spanInfo(rel.Object, rel.ObjectText)
		if !ok {
			continue
		}
		label := sc.openRelationLabel(rel.Relation.Begin, rel.Relation.End, rel.RelationText)
		if label == "" {
			continue
		}

		sc.link(sc.node(subject), sc.node(object), label)
	}
}

func (sc *sentenceContext) openRelationLabel(begin, end int, text string) string {
	var lemmas []string
	if begin >= 0 && end > begin && end <= len(sc.sentence.Tokens) {
		for _, tok := range sc.sentence.Tokens[begin:end] {
			lemmas = append(lemmas, lemmaOf(tok))
		}
	} else {
		lemmas = strings.Fields(strings.ToLower(text))
	}

	for i, lemma := range lemmas {
		if label := sc.lexicon.CopulaLabel(lemma); label != "" {
			lemmas[i] = label
		}
	}
	return Normalize(strings.Join(lemmas, " "))
}

// extractStructuredRelations links structured relation triples, labeled
// through the relation code table.
func extractStructuredRelations(sc *sentenceContext) {
	for _, rel := range sc.sentence.StructuredRelations {
		code := strings.TrimSpace(rel.Code)
		if code == "" {
			continue
		}
		subject, ok := sc.spanInfo(rel.Subject, rel.SubjectText)
		if !ok {
			continue
		}
		object, ok := sc.spanInfo(rel.Object, rel.ObjectText)
		if !ok {
			continue
		}

		sc.link(sc.node(subject), sc.node(object), sc.lexicon.RelationLabel(code))
	}
}
