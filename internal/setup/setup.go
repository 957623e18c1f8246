package setup

import (
	"fmt"
	"time"

	"github.com/OFFIS-RIT/kgraph/internal/util"
	"github.com/OFFIS-RIT/kgraph/pkg/annotator"
	"github.com/OFFIS-RIT/kgraph/pkg/annotator/cache"
	"github.com/OFFIS-RIT/kgraph/pkg/annotator/corenlp"
	"github.com/OFFIS-RIT/kgraph/pkg/annotator/lang"
	"github.com/OFFIS-RIT/kgraph/pkg/graph"
	"github.com/OFFIS-RIT/kgraph/pkg/lexicon"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"
)

// Config holds everything needed to build the annotation pipeline and the
// graph client.
type Config struct {
	CoreNLPURL      string
	CoreNLPKey      string
	CoreNLPTimeout  time.Duration
	CoreNLPParallel int64
	CacheSize       int

	MaxSentences         int
	TokenEncoder         string
	MaxTokens            int
	ParallelAnnotations  int
	MaxRetries           int
	ContainmentMerge     bool
	MinContainmentLength int
	AdjectiveAliases     bool
	Scoring              string
	MinIsolatedFrequency int

	LexiconPath string
}

// ConfigFromEnv reads the configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		CoreNLPURL:      util.GetEnvString("CORENLP_URL", "http://localhost:9000"),
		CoreNLPKey:      util.GetEnv("CORENLP_KEY"),
		CoreNLPTimeout:  util.GetEnvSeconds("CORENLP_TIMEOUT", 120),
		CoreNLPParallel: int64(util.GetEnvInt("CORENLP_PARALLEL_REQ", 8)),
		CacheSize:       util.GetEnvInt("ANNOTATOR_CACHE_SIZE", 256),

		MaxSentences:         util.GetEnvInt("GRAPH_MAX_SENTENCES", 10),
		TokenEncoder:         util.GetEnv("GRAPH_TOKEN_ENCODER"),
		MaxTokens:            util.GetEnvInt("GRAPH_MAX_TOKENS", 0),
		ParallelAnnotations:  util.GetEnvInt("GRAPH_PARALLEL_ANNOTATIONS", 4),
		MaxRetries:           util.GetEnvInt("GRAPH_MAX_RETRIES", 3),
		ContainmentMerge:     util.GetEnvBool("GRAPH_CONTAINMENT_MERGE", true),
		MinContainmentLength: util.GetEnvInt("GRAPH_MIN_CONTAINMENT_LENGTH", 3),
		AdjectiveAliases:     util.GetEnvBool("GRAPH_ADJECTIVE_ALIASES", true),
		Scoring:              util.GetEnvString("GRAPH_SCORING", string(graph.ScoringLog)),
		MinIsolatedFrequency: util.GetEnvInt("GRAPH_MIN_ISOLATED_FREQUENCY", 2),

		LexiconPath: util.GetEnv("LEXICON_PATH"),
	}
}

// Services is the wired annotation pipeline.
type Services struct {
	CoreNLP   *corenlp.Client
	Annotator annotator.Annotator
	Lexicon   *lexicon.Lexicon
	Graph     *graph.GraphClient
}

// NewServices builds the CoreNLP client, the optional annotation cache, the
// lexicon and the graph client.
func NewServices(cfg Config) (*Services, error) {
	client, err := corenlp.NewClient(corenlp.NewClientParams{
		BaseURL:               cfg.CoreNLPURL,
		ApiKey:                cfg.CoreNLPKey,
		Timeout:               cfg.CoreNLPTimeout,
		MaxConcurrentRequests: cfg.CoreNLPParallel,
	})
	if err != nil {
		return nil, err
	}

	return NewServicesWithAnnotator(cfg, client)
}

// NewServicesWithAnnotator wires the graph client around an existing
// CoreNLP client.
func NewServicesWithAnnotator(cfg Config, client *corenlp.Client) (*Services, error) {
	var ann annotator.Annotator = client
	if cfg.CacheSize > 0 {
		cached, err := cache.New(client, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		ann = cached
	}

	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		loaded, err := lexicon.Load(cfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		lex = loaded
		logger.Info("[Setup] Loaded lexicon", "path", cfg.LexiconPath)
	}

	scoring, err := graph.ParseScoringPolicy(cfg.Scoring)
	if err != nil {
		return nil, err
	}

	detector := lang.NewDetector(corenlp.Languages(), annotator.DefaultLanguage)

	g, err := graph.NewGraphClient(graph.NewGraphClientParams{
		Annotator:               ann,
		Lexicon:                 lex,
		DetectLanguage:          detector.Detect,
		MaxSentences:            cfg.MaxSentences,
		TokenEncoder:            cfg.TokenEncoder,
		MaxTokens:               cfg.MaxTokens,
		ParallelAnnotations:     cfg.ParallelAnnotations,
		MaxRetries:              cfg.MaxRetries,
		DisableContainmentMerge: !cfg.ContainmentMerge,
		MinContainmentLength:    cfg.MinContainmentLength,
		DisableAdjectiveAliases: !cfg.AdjectiveAliases,
		Scoring:                 scoring,
		MinIsolatedFrequency:    cfg.MinIsolatedFrequency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create graph client: %w", err)
	}

	return &Services{
		CoreNLP:   client,
		Annotator: ann,
		Lexicon:   lex,
		Graph:     g,
	}, nil
}
