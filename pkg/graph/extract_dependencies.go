package graph

import (
	"strings"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
)

const (
	relatedToLabel  = "related to"
	appositionLabel = "is (description)"
	negationPrefix  = "no "
	copulaLabel     = "es"
)

// extractAdjectiveNouns creates a combined "<adjective> <noun>" node for each
// adjectival modifier and aliases the bare noun and adjective to it for the
// rest of the sentence.
func extractAdjectiveNouns(sc *sentenceContext) {
	if !sc.adjectiveAliases {
		return
	}

	for _, dep := range sc.sentence.Dependencies {
		if depBase(dep.Type) != "amod" || sc.sameMention(dep.Governor, dep.Dependent) {
			continue
		}
		noun, ok := sc.token(dep.Governor)
		if !ok || !isNoun(noun.POS) {
			continue
		}
		adjective, ok := sc.token(dep.Dependent)
		if !ok || (adjective.POS != "" && !isAdjective(adjective.POS)) {
			continue
		}

		nounInfo, ok := sc.tokenInfo(dep.Governor)
		if !ok {
			continue
		}
		adjectiveInfo, ok := sc.tokenInfo(dep.Dependent)
		if !ok {
			continue
		}

		name := strings.TrimSpace(adjective.Word) + " " + strings.TrimSpace(noun.Word)
		combined := nodeInfo{id: Normalize(name), name: name, nodeType: common.ConceptType}
		if isEntityTag(noun.NER) {
			combined.nodeType = noun.NER
		}

		id := sc.node(combined)
		if id == "" {
			continue
		}
		combined.id = id
		sc.aliases[nounInfo.id] = combined
		sc.aliases[adjectiveInfo.id] = combined
	}
}

// extractSubjectVerbObject links every subject of a verb to each of its
// objects, labeled with the verb.
func extractSubjectVerbObject(sc *sentenceContext) {
	for i, tok := range sc.sentence.Tokens {
		index := i + 1
		if !isVerb(tok.POS) {
			continue
		}
		subjects := sc.dependents(index, "nsubj")
		objects := sc.dependents(index, "obj", "iobj", "obl")
		if len(subjects) == 0 || len(objects) == 0 {
			continue
		}

		label := sc.lexicon.VerbLabel(lemmaOf(tok))
		if label == "" {
			continue
		}
		if sc.negated(index) {
			label = negationPrefix + label
		}

		subjectIDs := sc.resolveAll(subjects)
		if len(subjectIDs) == 0 {
			continue
		}
		for _, o := range sc.resolveAll(objects) {
			for _, s := range subjectIDs {
				sc.link(s, o, label)
			}
		}
	}
}

// extractModifiers links nominal modifiers through their preposition and
// appositions with a description marker.
func extractModifiers(sc *sentenceContext) {
	for _, dep := range sc.sentence.Dependencies {
		base := depBase(dep.Type)
		if base != "nmod" && base != "appos" {
			continue
		}
		if sc.sameMention(dep.Governor, dep.Dependent) {
			continue
		}
		governor, ok := sc.tokenInfo(dep.Governor)
		if !ok {
			continue
		}
		dependent, ok := sc.tokenInfo(dep.Dependent)
		if !ok {
			continue
		}

		label := appositionLabel
		if base == "nmod" {
			label = sc.preposition(dep)
			if label == "" {
				label = relatedToLabel
			}
		}

		sc.link(sc.node(governor), sc.node(dependent), label)
	}
}

// extractCopulas links the subject of a copular clause to its complement and
// to the oblique complements of that complement.
func extractCopulas(sc *sentenceContext) {
	for _, dep := range sc.sentence.Dependencies {
		if depBase(dep.Type) != "cop" {
			continue
		}
		complementIndex := dep.Governor
		complementToken, ok := sc.token(complementIndex)
		if !ok {
			continue
		}
		subjects := sc.dependents(complementIndex, "nsubj")
		if len(subjects) == 0 {
			continue
		}
		complement, ok := sc.tokenInfo(complementIndex)
		if !ok {
			continue
		}

		negation := ""
		if sc.negated(complementIndex) || sc.negated(dep.Dependent) {
			negation = negationPrefix
		}
		copula := copulaLabel
		if tok, ok := sc.token(dep.Dependent); ok {
			if label := sc.lexicon.CopulaLabel(lemmaOf(tok)); label != "" {
				copula = label
			}
		}

		subjectIDs := sc.resolveAll(subjects)
		if len(subjectIDs) == 0 {
			continue
		}
		complementID := sc.node(complement)
		for _, s := range subjectIDs {
			sc.link(s, complementID, negation+copula)
		}

		for _, obl := range sc.children[complementIndex] {
			if depBase(obl.Type) != "obl" {
				continue
			}
			info, ok := sc.tokenInfo(obl.Dependent)
			if !ok {
				continue
			}
			label := negation + lemmaOf(complementToken)
			if prep := sc.preposition(obl); prep != "" {
				label += " " + prep
			}
			objectID := sc.node(info)
			for _, s := range subjectIDs {
				sc.link(s, objectID, label)
			}
		}
	}
}

// extractRelativeClauses links the noun modified by a relative clause to the
// clause's object when the noun is the clause subject, or to the clause's
// subject with a passive label when the noun is the clause object.
func extractRelativeClauses(sc *sentenceContext) {
	for _, dep := range sc.sentence.Dependencies {
		if strings.ToLower(dep.Type) != "acl:relcl" {
			continue
		}
		modified, verbIndex := dep.Governor, dep.Dependent
		verb, ok := sc.token(verbIndex)
		if !ok {
			continue
		}
		modifiedInfo, ok := sc.tokenInfo(modified)
		if !ok {
			continue
		}

		negation := ""
		if sc.negated(verbIndex) {
			negation = negationPrefix
		}
		subjects := sc.dependents(verbIndex, "nsubj")

		if sc.refersTo(subjects, modified) {
			label := sc.lexicon.VerbLabel(lemmaOf(verb))
			if label == "" {
				continue
			}
			objects := sc.others(sc.dependents(verbIndex, "obj", "iobj", "obl"), modified)
			if len(objects) == 0 {
				continue
			}
			source := sc.node(modifiedInfo)
			for _, o := range sc.resolveAll(objects) {
				sc.link(source, o, negation+label)
			}
			continue
		}

		agents := sc.others(subjects, modified)
		if len(agents) == 0 {
			continue
		}
		label := negation + copulaLabel + " " + lemmaOf(verb) + " por"
		source := sc.node(modifiedInfo)
		for _, a := range sc.resolveAll(agents) {
			sc.link(source, a, label)
		}
	}
}

// extractConcepts registers untagged nouns that no other strategy produced.
// A noun already held by a containing node counts as produced.
func extractConcepts(sc *sentenceContext) {
	for i, tok := range sc.sentence.Tokens {
		if !isNoun(tok.POS) || isEntityTag(tok.NER) {
			continue
		}
		info, ok := resolveSpan(sc.sentence.Tokens[i : i+1])
		if !ok {
			continue
		}
		if _, aliased := sc.aliases[info.id]; aliased {
			continue
		}
		if _, exists := sc.nodes.Resolve(info.id); exists {
			continue
		}
		info.nodeType = common.ConceptType
		sc.node(info)
	}
}

// refersTo reports whether one of the indices is the modified noun itself or
// a relative pronoun standing in for it.
func (sc *sentenceContext) refersTo(indices []int, modified int) bool {
	for _, index := range indices {
		if index == modified {
			return true
		}
		if tok, ok := sc.token(index); ok && sc.isRelativePronoun(tok) {
			return true
		}
	}
	return false
}

// others drops the modified noun and relative pronouns from indices.
func (sc *sentenceContext) others(indices []int, modified int) []int {
	out := make([]int, 0, len(indices))
	for _, index := range indices {
		if index == modified {
			continue
		}
		if tok, ok := sc.token(index); ok && sc.isRelativePronoun(tok) {
			continue
		}
		out = append(out, index)
	}
	return out
}

func (sc *sentenceContext) isRelativePronoun(tok common.Token) bool {
	if tok.POS != "" && tok.POS != "PRON" && !strings.HasPrefix(tok.POS, "W") {
		return false
	}
	return sc.lexicon.IsRelativePronoun(tok.Word) || sc.lexicon.IsRelativePronoun(tok.Lemma)
}

// resolveAll inserts the nodes of the given token indices and returns the
// accepted ids.
func (sc *sentenceContext) resolveAll(indices []int) []string {
	ids := make([]string, 0, len(indices))
	for _, index := range indices {
		info, ok := sc.tokenInfo(index)
		if !ok {
			continue
		}
		if id := sc.node(info); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
