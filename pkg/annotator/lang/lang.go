package lang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Detector guesses the ISO 639-1 language of a text, restricted to the
// languages the annotation service has pipelines for.
type Detector struct {
	options  whatlanggo.Options
	fallback string
}

// NewDetector returns a Detector limited to the given ISO 639-1 codes.
// Unknown codes are ignored. The fallback is returned for text that cannot
// be classified reliably.
func NewDetector(languages []string, fallback string) *Detector {
	whitelist := make(map[whatlanggo.Lang]bool)
	for _, code := range languages {
		if l, ok := byCode(code); ok {
			whitelist[l] = true
		}
	}
	return &Detector{
		options:  whatlanggo.Options{Whitelist: whitelist},
		fallback: fallback,
	}
}

// Detect returns the language code of text or the fallback.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return d.fallback
	}
	info := whatlanggo.DetectWithOptions(text, d.options)
	if !info.IsReliable() {
		return d.fallback
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return d.fallback
	}
	return code
}

func byCode(code string) (whatlanggo.Lang, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for l := range whatlanggo.Langs {
		if l.Iso6391() == code {
			return l, true
		}
	}
	return 0, false
}
