package corenlp

import (
	"encoding/json"
	"fmt"
	"strings"
)

var pipelines = map[string]map[string]string{
	"es": {
		"annotators":        "tokenize,ssplit,mwt,pos,lemma,ner,depparse,kbp,natlog,openie",
		"tokenize.language": "es",
		"outputFormat":      "json",
	},
	"en": {
		"annotators":   "tokenize,ssplit,pos,lemma,ner,depparse,coref,kbp,natlog,openie",
		"outputFormat": "json",
	},
}

// Languages returns the supported language codes.
func Languages() []string {
	return []string{"en", "es"}
}

// Properties returns the server properties, JSON encoded, for a language.
func Properties(language string) (string, error) {
	props, ok := pipelines[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return "", fmt.Errorf("corenlp: unsupported language %q", language)
	}
	b, err := json.Marshal(props)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
