// Package scoring turns a user profile into an intelligence report: an
// archetype classification, eight dimension scores and a set of rule-based
// descriptive sections. Everything here is a pure function of the input.
package scoring

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dotcommander/innerscope/internal/profile"
)

// AnalysisVersion identifies the rule tables a report was computed with.
const AnalysisVersion = "3.1"

// DefaultMaxCorpusBytes bounds the conversation text fed to the matchers.
const DefaultMaxCorpusBytes = 1 << 20

// reportNamespace seeds deterministic report IDs.
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("innerscope/intelligence-report"))

// Generator produces reports.
type Generator interface {
	Generate(in *profile.Input) Report
}

// Engine is the report generator. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	maxCorpusBytes int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxCorpusBytes caps the corpus length. Zero or less disables the cap.
func WithMaxCorpusBytes(n int) Option {
	return func(e *Engine) {
		e.maxCorpusBytes = n
	}
}

// NewEngine creates an Engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{maxCorpusBytes: DefaultMaxCorpusBytes}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate builds the full report. A nil input is treated as an empty profile.
func (e *Engine) Generate(in *profile.Input) Report {
	if in == nil {
		in = &profile.Input{}
	}
	corpus := e.corpus(in)
	formats := in.DistinctFormats()

	return Report{
		Metadata:          generateMetadata(in),
		Archetype:         ClassifyArchetype(corpus, in),
		Dimensions:        CalculateDimensions(corpus, in),
		Patterns:          identifyBehavioralPatterns(corpus),
		CognitiveStyle:    analyzeCognitiveStyle(corpus),
		EmotionalProfile:  analyzeEmotionalProcessing(),
		RelationshipStyle: analyzeRelationshipStyle(in),
		GrowthTrajectory:  predictGrowthPath(in),
		Predictions:       generatePredictions(),
		Recommendations:   generateRecommendations(),
		RiskFactors:       identifyRiskFactors(corpus, in),
		Strengths:         identifyStrengths(in, formats),
		NextLevel:         generateNextLevelInsights(),
	}
}

func (e *Engine) corpus(in *profile.Input) string {
	corpus := in.Corpus()
	if e.maxCorpusBytes <= 0 || len(corpus) <= e.maxCorpusBytes {
		return corpus
	}
	cut := e.maxCorpusBytes
	for cut > 0 && !utf8.RuneStart(corpus[cut]) {
		cut--
	}
	return corpus[:cut]
}

// ClassificationFor buckets a data point count.
func ClassificationFor(dataPoints int) Classification {
	switch {
	case dataPoints > 50:
		return ClassificationComprehensive
	case dataPoints > 20:
		return ClassificationDetailed
	default:
		return ClassificationEmerging
	}
}

// ConfidenceLevel grows with recorded conversations and completed
// assessments and saturates at 95.
func ConfidenceLevel(totalConversations, assessments int) int {
	return min(metadataConfidenceCap,
		metadataConfidenceBase+totalConversations*confidencePerStat+assessments*confidencePerAssessment)
}

func generateMetadata(in *profile.Input) Metadata {
	dataPoints := in.DataPoints()
	return Metadata{
		GeneratedAt:     in.AsOf,
		DataPoints:      dataPoints,
		AnalysisVersion: AnalysisVersion,
		ConfidenceLevel: ConfidenceLevel(in.UserStats.TotalConversations, len(in.Assessments)),
		ReportID:        ReportID(in),
		Classification:  ClassificationFor(dataPoints),
	}
}

// ReportID derives a stable identifier from the input content, so the same
// profile always maps to the same report.
func ReportID(in *profile.Input) string {
	if in == nil {
		in = &profile.Input{}
	}
	canonical, err := json.Marshal(in)
	if err != nil {
		// Input holds only strings, ints and times, which always encode.
		canonical = []byte(in.UserID)
	}
	return "IA-" + uuid.NewSHA1(reportNamespace, append([]byte(AnalysisVersion+"\x00"), canonical...)).String()
}
