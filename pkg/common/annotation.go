package common

// Annotation is the linguistic analysis of one chunk of text as returned by
// the annotation service.
type Annotation struct {
	Sentences []Sentence   `json:"sentences"`
	Corefs    []CorefChain `json:"corefs,omitempty"`
}

// Sentence bundles every annotation layer of a single sentence.
// Token spans are 0-based and end-exclusive. Dependency indices are 1-based
// token positions where 0 denotes the artificial root.
type Sentence struct {
	Index               int                  `json:"index"`
	Tokens              []Token              `json:"tokens"`
	Mentions            []EntityMention      `json:"mentions,omitempty"`
	OpenRelations       []OpenRelation       `json:"open_relations,omitempty"`
	StructuredRelations []StructuredRelation `json:"structured_relations,omitempty"`
	Dependencies        []Dependency         `json:"dependencies,omitempty"`
}

type Token struct {
	Word  string `json:"word"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	NER   string `json:"ner"`
}

type EntityMention struct {
	Text       string `json:"text"`
	NER        string `json:"ner"`
	TokenBegin int    `json:"token_begin"`
	TokenEnd   int    `json:"token_end"`
}

// TokenSpan addresses tokens [Begin, End) of a sentence.
type TokenSpan struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Valid reports whether the span addresses at least one token of a sentence
// with n tokens.
func (s TokenSpan) Valid(n int) bool {
	return s.Begin >= 0 && s.End > s.Begin && s.End <= n
}

// OpenRelation is an open-domain (subject, relation, object) triple.
type OpenRelation struct {
	Subject      TokenSpan `json:"subject_span"`
	Relation     TokenSpan `json:"relation_span"`
	Object       TokenSpan `json:"object_span"`
	SubjectText  string    `json:"subject"`
	RelationText string    `json:"relation"`
	ObjectText   string    `json:"object"`
}

// StructuredRelation is a typed relation from a closed set of relation codes
// such as "org:city_of_headquarters".
type StructuredRelation struct {
	Subject     TokenSpan `json:"subject_span"`
	Code        string    `json:"code"`
	Object      TokenSpan `json:"object_span"`
	SubjectText string    `json:"subject"`
	ObjectText  string    `json:"object"`
}

type Dependency struct {
	Type      string `json:"type"`
	Governor  int    `json:"governor"`
	Dependent int    `json:"dependent"`
}

// CorefChain lists the mentions of one referent in text order.
type CorefChain struct {
	Mentions []CorefMention `json:"mentions"`
}

type CorefMention struct {
	Text     string `json:"text"`
	Sentence int    `json:"sentence"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}
