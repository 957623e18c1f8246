package graph

import (
	"strings"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/lexicon"
)

// nodeInfo is a candidate node derived from a span or token before it is
// inserted into the registry.
type nodeInfo struct {
	id       string
	name     string
	nodeType string
}

// strategy extracts candidate nodes and edges from one sentence.
type strategy func(sc *sentenceContext)

// extractor writes the output of every strategy into the run's registry and
// edge store. It is used by a single goroutine at a time.
type extractor struct {
	nodes            *NodeRegistry
	edges            *EdgeStore
	lexicon          *lexicon.Lexicon
	adjectiveAliases bool
	strategies       []strategy

	// renamed maps ids absorbed by containment merge to their new node.
	renamed map[string]string
}

func newExtractor(nodes *NodeRegistry, edges *EdgeStore, lex *lexicon.Lexicon, adjectiveAliases bool) *extractor {
	e := &extractor{
		nodes:            nodes,
		edges:            edges,
		lexicon:          lex,
		adjectiveAliases: adjectiveAliases,
		renamed:          make(map[string]string),
	}
	e.strategies = []strategy{
		extractOpenRelations,
		extractStructuredRelations,
		extractAdjectiveNouns,
		extractSubjectVerbObject,
		extractModifiers,
		extractCopulas,
		extractRelativeClauses,
		extractConcepts,
	}
	return e
}

// extractSentence runs every strategy over the sentence. Aliases created by
// the adjective-noun strategy live only for this call.
func (e *extractor) extractSentence(sentence common.Sentence, documentID string) {
	sc := newSentenceContext(e, sentence, documentID)
	for _, run := range e.strategies {
		run(sc)
	}
}

// canonical follows containment renames to the live node id.
func (e *extractor) canonical(id string) string {
	for i := 0; i < len(e.renamed); i++ {
		next, ok := e.renamed[id]
		if !ok {
			break
		}
		id = next
	}
	return id
}

type sentenceContext struct {
	*extractor
	sentence   common.Sentence
	documentID string

	aliases   map[string]nodeInfo
	children  map[int][]common.Dependency
	mentionOf []int
}

func newSentenceContext(e *extractor, sentence common.Sentence, documentID string) *sentenceContext {
	sc := &sentenceContext{
		extractor:  e,
		sentence:   sentence,
		documentID: documentID,
		aliases:    make(map[string]nodeInfo),
		children:   make(map[int][]common.Dependency),
		mentionOf:  make([]int, len(sentence.Tokens)),
	}
	for _, dep := range sentence.Dependencies {
		sc.children[dep.Governor] = append(sc.children[dep.Governor], dep)
	}
	for i := range sc.mentionOf {
		sc.mentionOf[i] = -1
	}
	for mi, mention := range sentence.Mentions {
		span := common.TokenSpan{Begin: mention.TokenBegin, End: mention.TokenEnd}
		if !span.Valid(len(sentence.Tokens)) {
			continue
		}
		for i := span.Begin; i < span.End; i++ {
			if sc.mentionOf[i] < 0 {
				sc.mentionOf[i] = mi
			}
		}
	}
	return sc
}

// node inserts the candidate, routed through a sentence alias when one
// exists, and returns the id of the node that absorbed it or "".
func (sc *sentenceContext) node(info nodeInfo) string {
	if alias, ok := sc.aliases[info.id]; ok {
		info = alias
	}
	id := sc.nodes.Upsert(info.id, info.name, info.nodeType, sc.documentID)
	for _, rename := range sc.nodes.TakeRenames() {
		sc.renamed[rename.From] = rename.To
		sc.edges.Redirect(rename.From, rename.To)
		for key, alias := range sc.aliases {
			if alias.id == rename.From {
				alias.id = rename.To
				sc.aliases[key] = alias
			}
		}
	}
	return id
}

func (sc *sentenceContext) link(source, target, relationship string) {
	if source == "" || target == "" {
		return
	}
	sc.edges.AddEdge(sc.canonical(source), sc.canonical(target), relationship)
}

// resolveSpan derives a candidate node from a token span. A span whose tokens
// all carry the same entity tag becomes that entity under its full text;
// otherwise the span is represented by the lemma of its last token.
func resolveSpan(tokens []common.Token) (nodeInfo, bool) {
	if len(tokens) == 0 {
		return nodeInfo{}, false
	}

	tag := tokens[0].NER
	consistent := isEntityTag(tag)
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.NER != tag {
			consistent = false
		}
		words = append(words, tok.Word)
	}
	if consistent {
		text := strings.Join(words, " ")
		id := Normalize(text)
		if id == "" {
			return nodeInfo{}, false
		}
		return nodeInfo{id: id, name: strings.TrimSpace(text), nodeType: tag}, true
	}

	last := tokens[len(tokens)-1]
	lemma := last.Lemma
	if strings.TrimSpace(lemma) == "" {
		lemma = last.Word
	}
	id := Normalize(lemma)
	if id == "" {
		return nodeInfo{}, false
	}
	nodeType := common.ConceptType
	if isEntityTag(last.NER) {
		nodeType = last.NER
	}
	return nodeInfo{id: id, name: strings.TrimSpace(last.Word), nodeType: nodeType}, true
}

// spanInfo resolves a span of the sentence, falling back to the plain text
// of the span when its token offsets are unusable.
func (sc *sentenceContext) spanInfo(span common.TokenSpan, text string) (nodeInfo, bool) {
	if span.Valid(len(sc.sentence.Tokens)) {
		return resolveSpan(sc.sentence.Tokens[span.Begin:span.End])
	}
	id := Normalize(text)
	if id == "" {
		return nodeInfo{}, false
	}
	return nodeInfo{id: id, name: strings.TrimSpace(text), nodeType: common.ConceptType}, true
}

// tokenInfo resolves the token at a 1-based dependency index. Tokens inside
// an entity mention resolve to the whole mention.
func (sc *sentenceContext) tokenInfo(index int) (nodeInfo, bool) {
	if index < 1 || index > len(sc.sentence.Tokens) {
		return nodeInfo{}, false
	}
	if mi := sc.mentionOf[index-1]; mi >= 0 {
		mention := sc.sentence.Mentions[mi]
		id := Normalize(mention.Text)
		if id != "" {
			nodeType := common.ConceptType
			if isEntityTag(mention.NER) {
				nodeType = mention.NER
			}
			return nodeInfo{id: id, name: strings.TrimSpace(mention.Text), nodeType: nodeType}, true
		}
	}
	return resolveSpan(sc.sentence.Tokens[index-1 : index])
}

func (sc *sentenceContext) token(index int) (common.Token, bool) {
	if index < 1 || index > len(sc.sentence.Tokens) {
		return common.Token{}, false
	}
	return sc.sentence.Tokens[index-1], true
}

func (sc *sentenceContext) sameMention(a, b int) bool {
	if a < 1 || b < 1 || a > len(sc.mentionOf) || b > len(sc.mentionOf) {
		return false
	}
	return sc.mentionOf[a-1] >= 0 && sc.mentionOf[a-1] == sc.mentionOf[b-1]
}

// dependents returns the dependents of a token whose relation base type is
// one of the given types.
func (sc *sentenceContext) dependents(governor int, types ...string) []int {
	var out []int
	for _, dep := range sc.children[governor] {
		base := depBase(dep.Type)
		for _, t := range types {
			if base == t {
				out = append(out, dep.Dependent)
				break
			}
		}
	}
	return out
}

// negated reports whether a token carries a negation dependent.
func (sc *sentenceContext) negated(index int) bool {
	for _, dep := range sc.children[index] {
		base := depBase(dep.Type)
		if base == "neg" {
			return true
		}
		if base != "advmod" {
			continue
		}
		tok, ok := sc.token(dep.Dependent)
		if ok && (sc.lexicon.IsNegation(tok.Word) || sc.lexicon.IsNegation(tok.Lemma)) {
			return true
		}
	}
	return false
}

var nonPrepositionSubtypes = map[string]struct{}{
	"arg": {}, "tmod": {}, "npmod": {}, "poss": {}, "pass": {}, "relcl": {},
	"lmod": {}, "agent": {}, "obj": {}, "gov": {}, "prt": {},
}

// preposition returns the lemma of the case marker attached to a dependency's
// dependent, or the preposition encoded in an enhanced relation subtype.
func (sc *sentenceContext) preposition(dep common.Dependency) string {
	for _, c := range sc.dependents(dep.Dependent, "case") {
		if tok, ok := sc.token(c); ok {
			lemma := tok.Lemma
			if strings.TrimSpace(lemma) == "" {
				lemma = tok.Word
			}
			if p := Normalize(lemma); p != "" {
				return p
			}
		}
	}
	_, subtype, ok := strings.Cut(strings.ToLower(dep.Type), ":")
	if !ok {
		return ""
	}
	if _, skip := nonPrepositionSubtypes[subtype]; skip {
		return ""
	}
	return Normalize(strings.ReplaceAll(subtype, "_", " "))
}

func depBase(relation string) string {
	base, _, _ := strings.Cut(strings.ToLower(relation), ":")
	switch base {
	case "nsubjpass":
		return "nsubj"
	case "dobj":
		return "obj"
	}
	return base
}

func isEntityTag(tag string) bool {
	return tag != "" && tag != common.OutsideTag
}

func isNoun(pos string) bool {
	return pos == "NOUN" || pos == "PROPN" || strings.HasPrefix(pos, "NN")
}

func isVerb(pos string) bool {
	return pos == "VERB" || strings.HasPrefix(pos, "VB")
}

func isAdjective(pos string) bool {
	return pos == "ADJ" || strings.HasPrefix(pos, "JJ")
}

func lemmaOf(tok common.Token) string {
	if strings.TrimSpace(tok.Lemma) != "" {
		return Normalize(tok.Lemma)
	}
	return Normalize(tok.Word)
}
