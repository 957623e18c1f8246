package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the closed word lists used during relation extraction.
// All entries are stored lowercased.
type Lexicon struct {
	Stopwords        map[string]struct{}
	Negations        map[string]struct{}
	RelativePronouns map[string]struct{}
	// Copulas maps copular verb lemmas to their relation label.
	Copulas map[string]string
	// VerbLabels rewrites verb lemmas used as relation labels.
	VerbLabels map[string]string
	// RelationLabels maps structured relation codes to readable labels.
	RelationLabels map[string]string
}

// File is the YAML layout of a lexicon override. Lists are added to the
// defaults, maps override individual keys.
type File struct {
	Stopwords        []string          `yaml:"stopwords"`
	Negations        []string          `yaml:"negations"`
	RelativePronouns []string          `yaml:"relative_pronouns"`
	Copulas          map[string]string `yaml:"copulas"`
	VerbLabels       map[string]string `yaml:"verb_labels"`
	RelationLabels   map[string]string `yaml:"relation_labels"`
	Replace          bool              `yaml:"replace"`
}

var defaultStopwords = []string{
	"el", "la", "los", "las", "un", "una", "unos", "unas", "lo", "al", "del",
	"de", "en", "a", "por", "para", "con", "sin", "sobre", "entre", "y", "o", "u",
	"e", "ni", "que", "se", "su", "sus", "le", "les", "me", "te", "nos", "mi", "tu",
	"este", "esta", "esto", "estos", "estas", "ese", "esa", "eso", "esos", "esas",
	"aquel", "aquella", "él", "ella", "ellos", "ellas", "yo", "tú", "usted",
	"ustedes", "nosotros", "vosotros", "quien", "cual", "cuyo", "donde", "cuando",
	"the", "an", "and", "or", "of", "to", "in", "on", "for", "with", "by", "at",
	"he", "she", "it", "they", "we", "i", "you", "him", "them", "this", "that",
	"these", "those", "his", "her", "its", "their", "there", "which", "who", "what",
}

var defaultNegations = []string{"no", "nunca", "jamás", "tampoco", "not", "never", "n't"}

var defaultRelativePronouns = []string{"que", "quien", "quienes", "cual", "cuales", "who", "which", "that", "whom"}

var defaultCopulas = map[string]string{
	"ser":   "es",
	"estar": "es",
}

var defaultVerbLabels = map[string]string{
	"haber": "tiene",
}

var defaultRelationLabels = map[string]string{
	"org:city_of_headquarters":            "based in",
	"org:country_of_headquarters":         "based in",
	"org:stateorprovince_of_headquarters": "based in",
	"org:founded_by":                      "founded by",
	"org:date_founded":                    "founded on",
	"org:top_members_employees":           "led by",
	"org:member_of":                       "member of",
	"org:members":                         "has member",
	"org:parents":                         "subsidiary of",
	"org:subsidiaries":                    "parent of",
	"org:alternate_names":                 "also known as",
	"org:website":                         "website",
	"per:city_of_residence":               "lives in",
	"per:country_of_residence":            "lives in",
	"per:stateorprovinces_of_residence":   "lives in",
	"per:city_of_birth":                   "born in",
	"per:country_of_birth":                "born in",
	"per:stateorprovince_of_birth":        "born in",
	"per:date_of_birth":                   "born on",
	"per:date_of_death":                   "died on",
	"per:cause_of_death":                  "died of",
	"per:employee_of":                     "works for",
	"per:title":                           "has title",
	"per:spouse":                          "married to",
	"per:children":                        "parent of",
	"per:parents":                         "child of",
	"per:siblings":                        "sibling of",
	"per:origin":                          "from",
	"per:schools_attended":                "studied at",
	"per:alternate_names":                 "also known as",
	"per:religion":                        "religion",
	"per:age":                             "aged",
}

// Default returns a fresh lexicon with the built-in Spanish and English lists.
func Default() *Lexicon {
	l := &Lexicon{
		Stopwords:        toSet(defaultStopwords),
		Negations:        toSet(defaultNegations),
		RelativePronouns: toSet(defaultRelativePronouns),
		Copulas:          copyMap(defaultCopulas),
		VerbLabels:       copyMap(defaultVerbLabels),
		RelationLabels:   copyMap(defaultRelationLabels),
	}
	return l
}

// Load reads a YAML lexicon file and applies it on top of the defaults.
// With `replace: true` the file's lists and maps replace the defaults instead.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML lexicon data and applies it on top of the defaults.
func Parse(data []byte) (*Lexicon, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	l := Default()
	if f.Replace {
		l = &Lexicon{
			Stopwords:        map[string]struct{}{},
			Negations:        map[string]struct{}{},
			RelativePronouns: map[string]struct{}{},
			Copulas:          map[string]string{},
			VerbLabels:       map[string]string{},
			RelationLabels:   map[string]string{},
		}
	}

	addAll(l.Stopwords, f.Stopwords)
	addAll(l.Negations, f.Negations)
	addAll(l.RelativePronouns, f.RelativePronouns)
	mergeInto(l.Copulas, f.Copulas)
	mergeInto(l.VerbLabels, f.VerbLabels)
	mergeInto(l.RelationLabels, f.RelationLabels)

	return l, nil
}

func (l *Lexicon) IsStopword(id string) bool {
	_, ok := l.Stopwords[strings.ToLower(id)]
	return ok
}

func (l *Lexicon) IsNegation(word string) bool {
	_, ok := l.Negations[strings.ToLower(word)]
	return ok
}

func (l *Lexicon) IsRelativePronoun(word string) bool {
	_, ok := l.RelativePronouns[strings.ToLower(word)]
	return ok
}

func (l *Lexicon) IsCopula(lemma string) bool {
	_, ok := l.Copulas[strings.ToLower(lemma)]
	return ok
}

// CopulaLabel returns the label of a copular lemma, or "" when the lemma is
// not a copula.
func (l *Lexicon) CopulaLabel(lemma string) string {
	return l.Copulas[strings.ToLower(strings.TrimSpace(lemma))]
}

// VerbLabel returns the relation label for a verb lemma: copulas collapse to
// their label, rewritten verbs to theirs, anything else stays as lowercased.
func (l *Lexicon) VerbLabel(lemma string) string {
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if label, ok := l.Copulas[lemma]; ok {
		return label
	}
	if label, ok := l.VerbLabels[lemma]; ok {
		return label
	}
	return lemma
}

// RelationLabel maps a structured relation code to its readable label,
// falling back to the code itself.
func (l *Lexicon) RelationLabel(code string) string {
	if label, ok := l.RelationLabels[strings.ToLower(strings.TrimSpace(code))]; ok {
		return label
	}
	return code
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	addAll(set, words)
	return set
}

func addAll(set map[string]struct{}, words []string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	mergeInto(out, m)
	return out
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		dst[k] = strings.TrimSpace(v)
	}
}
