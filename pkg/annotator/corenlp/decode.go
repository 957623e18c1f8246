package corenlp

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/OFFIS-RIT/kgraph/pkg/annotator"
	"github.com/OFFIS-RIT/kgraph/pkg/common"
)

type document struct {
	Sentences []sentence                `json:"sentences"`
	Corefs    map[string][]corefMention `json:"corefs"`
}

type sentence struct {
	Index                        int             `json:"index"`
	Tokens                       []token         `json:"tokens"`
	EntityMentions               []entityMention `json:"entitymentions"`
	OpenIE                       []openIE        `json:"openie"`
	KBP                          []kbp           `json:"kbp"`
	EnhancedPlusPlusDependencies []dependency    `json:"enhancedPlusPlusDependencies"`
	EnhancedDependencies         []dependency    `json:"enhancedDependencies"`
	BasicDependencies            []dependency    `json:"basicDependencies"`
}

type token struct {
	Index int    `json:"index"`
	Word  string `json:"word"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	NER   string `json:"ner"`
}

type entityMention struct {
	Text       string `json:"text"`
	NER        string `json:"ner"`
	TokenBegin int    `json:"tokenBegin"`
	TokenEnd   int    `json:"tokenEnd"`
}

type openIE struct {
	Subject      string `json:"subject"`
	SubjectSpan  []int  `json:"subjectSpan"`
	Relation     string `json:"relation"`
	RelationSpan []int  `json:"relationSpan"`
	Object       string `json:"object"`
	ObjectSpan   []int  `json:"objectSpan"`
}

type kbp struct {
	Subject     string `json:"subject"`
	SubjectSpan []int  `json:"subjectSpan"`
	Relation    string `json:"relation"`
	Object      string `json:"object"`
	ObjectSpan  []int  `json:"objectSpan"`
}

type dependency struct {
	Dep       string `json:"dep"`
	Governor  int    `json:"governor"`
	Dependent int    `json:"dependent"`
}

type corefMention struct {
	Text       string `json:"text"`
	SentNum    int    `json:"sentNum"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
}

// Decode maps a CoreNLP JSON response to an annotation. Malformed JSON is
// repaired before decoding.
func Decode(body []byte) (*common.Annotation, error) {
	var doc document
	if err := annotator.UnmarshalFlexible(string(body), &doc); err != nil {
		return nil, fmt.Errorf("corenlp: failed to decode response: %w", err)
	}

	ann := &common.Annotation{
		Sentences: make([]common.Sentence, 0, len(doc.Sentences)),
		Corefs:    decodeCorefs(doc.Corefs),
	}
	for _, s := range doc.Sentences {
		ann.Sentences = append(ann.Sentences, s.toSentence())
	}
	return ann, nil
}

func (s sentence) toSentence() common.Sentence {
	out := common.Sentence{
		Index:  s.Index,
		Tokens: make([]common.Token, 0, len(s.Tokens)),
	}
	for _, t := range s.Tokens {
		out.Tokens = append(out.Tokens, common.Token{Word: t.Word, Lemma: t.Lemma, POS: t.POS, NER: t.NER})
	}
	for _, m := range s.EntityMentions {
		out.Mentions = append(out.Mentions, common.EntityMention{
			Text:       m.Text,
			NER:        m.NER,
			TokenBegin: m.TokenBegin,
			TokenEnd:   m.TokenEnd,
		})
	}
	for _, r := range s.OpenIE {
		out.OpenRelations = append(out.OpenRelations, common.OpenRelation{
			Subject:      span(r.SubjectSpan),
			Relation:     span(r.RelationSpan),
			Object:       span(r.ObjectSpan),
			SubjectText:  r.Subject,
			RelationText: r.Relation,
			ObjectText:   r.Object,
		})
	}
	for _, r := range s.KBP {
		out.StructuredRelations = append(out.StructuredRelations, common.StructuredRelation{
			Subject:     span(r.SubjectSpan),
			Code:        r.Relation,
			Object:      span(r.ObjectSpan),
			SubjectText: r.Subject,
			ObjectText:  r.Object,
		})
	}

	deps := s.EnhancedPlusPlusDependencies
	if len(deps) == 0 {
		deps = s.EnhancedDependencies
	}
	if len(deps) == 0 {
		deps = s.BasicDependencies
	}
	for _, d := range deps {
		out.Dependencies = append(out.Dependencies, common.Dependency{
			Type:      d.Dep,
			Governor:  d.Governor,
			Dependent: d.Dependent,
		})
	}
	return out
}

// span converts a [begin, end) pair; anything else is an invalid span.
func span(pair []int) common.TokenSpan {
	if len(pair) != 2 {
		return common.TokenSpan{Begin: -1, End: -1}
	}
	return common.TokenSpan{Begin: pair[0], End: pair[1]}
}

// decodeCorefs orders chains by their numeric id and mentions by sentence
// and start token.
func decodeCorefs(chains map[string][]corefMention) []common.CorefChain {
	if len(chains) == 0 {
		return nil
	}

	keys := make([]string, 0, len(chains))
	for k := range chains {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	out := make([]common.CorefChain, 0, len(keys))
	for _, k := range keys {
		mentions := chains[k]
		sorted := make([]corefMention, len(mentions))
		copy(sorted, mentions)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].SentNum != sorted[j].SentNum {
				return sorted[i].SentNum < sorted[j].SentNum
			}
			return sorted[i].StartIndex < sorted[j].StartIndex
		})

		chain := common.CorefChain{Mentions: make([]common.CorefMention, 0, len(sorted))}
		for _, m := range sorted {
			chain.Mentions = append(chain.Mentions, common.CorefMention{
				Text:     m.Text,
				Sentence: m.SentNum,
				Start:    m.StartIndex,
				End:      m.EndIndex,
			})
		}
		out = append(out, chain)
	}
	return out
}
