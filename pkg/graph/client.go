package graph

import (
	"errors"
	"sync"

	"github.com/OFFIS-RIT/kgraph/pkg/annotator"
	"github.com/OFFIS-RIT/kgraph/pkg/lexicon"
)

// GraphClient builds knowledge graphs from documents. It splits documents
// into chunks, annotates them through an Annotator and accumulates the
// extractions into one graph per run.
//
// Runs on the same client are serialized. A GraphClient should be created
// using NewGraphClient.
type GraphClient struct {
	annotator      annotator.Annotator
	lexicon        *lexicon.Lexicon
	detectLanguage func(text string) string

	maxSentences        int
	tokenEncoder        string
	maxTokens           int
	parallelAnnotations int
	maxRetries          int

	containmentMerge     bool
	minContainmentLength int
	adjectiveAliases     bool
	scoring              ScoringPolicy
	minIsolatedFrequency int

	runMu sync.Mutex
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// MaxSentences bounds the sentences per chunk. TokenEncoder and MaxTokens
// add an optional token bound per chunk. ParallelAnnotations controls how
// many annotation calls per document run concurrently. DetectLanguage picks
// the language of documents that carry none.
type NewGraphClientParams struct {
	Annotator      annotator.Annotator
	Lexicon        *lexicon.Lexicon
	DetectLanguage func(text string) string

	MaxSentences        int
	TokenEncoder        string
	MaxTokens           int
	ParallelAnnotations int
	MaxRetries          int

	DisableContainmentMerge bool
	MinContainmentLength    int
	DisableAdjectiveAliases bool
	Scoring                 ScoringPolicy
	MinIsolatedFrequency    int
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	nlp, err := corenlp.NewClient(corenlp.NewClientParams{BaseURL: "http://localhost:9000"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
//		Annotator:    nlp,
//		MaxSentences: 10,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	if params.Annotator == nil {
		return nil, errors.New("graph: annotator is required")
	}
	if params.MaxTokens > 0 && params.TokenEncoder == "" {
		return nil, errors.New("graph: token encoder is required when max tokens is set")
	}

	scoring, err := ParseScoringPolicy(string(params.Scoring))
	if err != nil {
		return nil, err
	}

	lex := params.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}

	maxSentences := params.MaxSentences
	if maxSentences <= 0 {
		maxSentences = 10
	}
	parallel := params.ParallelAnnotations
	if parallel <= 0 {
		parallel = 1
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	minContainment := params.MinContainmentLength
	if minContainment <= 0 {
		minContainment = 3
	}
	minIsolated := params.MinIsolatedFrequency
	if minIsolated <= 0 {
		minIsolated = 2
	}

	g := &GraphClient{
		annotator:            params.Annotator,
		lexicon:              lex,
		detectLanguage:       params.DetectLanguage,
		maxSentences:         maxSentences,
		tokenEncoder:         params.TokenEncoder,
		maxTokens:            params.MaxTokens,
		parallelAnnotations:  parallel,
		maxRetries:           maxRetries,
		containmentMerge:     !params.DisableContainmentMerge,
		minContainmentLength: minContainment,
		adjectiveAliases:     !params.DisableAdjectiveAliases,
		scoring:              scoring,
		minIsolatedFrequency: minIsolated,
	}

	return g, nil
}

// Chunker returns the chunker used by this client.
func (g *GraphClient) Chunker() Chunker {
	return Chunker{
		MaxSentences: g.maxSentences,
		TokenEncoder: g.tokenEncoder,
		MaxTokens:    g.maxTokens,
	}
}
