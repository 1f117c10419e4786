package scoring

import (
	"math"
	"slices"

	"github.com/dotcommander/innerscope/internal/profile"
)

// DimensionSpec holds the fixed parameters of one dimension calculator.
// No dimension can reach 100: every ceiling sits below it.
type DimensionSpec struct {
	Name    string
	Base    float64
	Ceiling int
	Rules   []Rule
}

func weighted(weight float64, groups ...[]string) []Rule {
	rules := make([]Rule, len(groups))
	for i, g := range groups {
		rules[i] = Rule{Pattern: MustPattern(g...), Weight: weight}
	}
	return rules
}

var (
	selfAwarenessSpec = DimensionSpec{
		Name: "selfAwareness", Base: 40, Ceiling: 98,
		Rules: weighted(2,
			[]string{"i realize", "i notice", "i understand", "i recognize", "i see that"},
			[]string{"my pattern", "my tendency", "my habit", "my behavior"},
			[]string{"i feel", "i think", "i believe", "i value"},
			[]string{"reflection", "introspection", "self-aware", "mindful"},
		),
	}
	emotionalIntelligenceSpec = DimensionSpec{
		Name: "emotionalIntelligence", Base: 45, Ceiling: 97,
		Rules: weighted(1.5,
			[]string{"feel", "emotion", "emotional", "mood", "sentiment"},
			[]string{"empathy", "compassion", "understanding", "support"},
			[]string{"anger", "joy", "sadness", "fear", "surprise", "disgust"},
			[]string{"regulate", "manage", "cope", "handle", "process"},
		),
	}
	cognitiveComplexitySpec = DimensionSpec{
		Name: "cognitiveComplexity", Base: 50, Ceiling: 96,
		Rules: weighted(3,
			[]string{"however", "although", "despite", "nevertheless", "on the other hand"},
			[]string{"complex", "nuanced", "multifaceted", "intricate", "sophisticated"},
			[]string{"perspective", "viewpoint", "angle", "dimension", "aspect"},
			[]string{"paradox", "contradiction", "irony", "ambiguity"},
		),
	}
	relationshipIntelligenceSpec = DimensionSpec{
		Name: "relationshipIntelligence", Base: 45, Ceiling: 95,
		Rules: weighted(2,
			[]string{"relationship", "friend", "family", "partner", "colleague"},
			[]string{"communicate", "listen", "understand", "connect", "bond"},
			[]string{"conflict", "resolution", "compromise", "negotiate"},
			[]string{"trust", "intimacy", "vulnerability", "openness"},
		),
	}
	adaptabilitySpec = DimensionSpec{
		Name: "adaptability", Base: 50, Ceiling: 94,
		Rules: weighted(2,
			[]string{"adapt", "adjust", "flexible", "change", "evolve"},
			[]string{"learn", "grow", "develop", "improve", "progress"},
			[]string{"challenge", "difficulty", "obstacle", "problem"},
			[]string{"solution", "alternative", "option", "approach"},
		),
	}
	creativityIndexSpec = DimensionSpec{
		Name: "creativityIndex", Base: 40, Ceiling: 93,
		Rules: weighted(2,
			[]string{"create", "creative", "imagine", "envision", "invent"},
			[]string{"art", "artistic", "design", "aesthetic", "beautiful"},
			[]string{"novel", "unique", "original", "innovative", "fresh"},
			[]string{"inspiration", "muse", "spark", "idea", "vision"},
		),
	}
	resilienceSpec = DimensionSpec{
		Name: "resilience", Base: 50, Ceiling: 92,
		Rules: weighted(3,
			[]string{"overcome", "persevere", "persist", "endure", "survive"},
			[]string{"strength", "courage", "brave", "resilient", "tough"},
			[]string{"bounce back", "recover", "heal", "rebuild"},
			[]string{"learned", "grew", "stronger", "wiser"},
		),
	}
	authenticityScoreSpec = DimensionSpec{
		Name: "authenticityScore", Base: 55, Ceiling: 91,
		Rules: weighted(2.5,
			[]string{"authentic", "genuine", "real", "true", "honest"},
			[]string{"values", "beliefs", "principles", "integrity"},
			[]string{"myself", "who i am", "my identity", "my truth"},
			[]string{"vulnerable", "open", "transparent", "raw"},
		),
	}
)

// DimensionSpecs returns the parameters of all eight dimensions in report order.
func DimensionSpecs() []DimensionSpec {
	return []DimensionSpec{
		selfAwarenessSpec,
		emotionalIntelligenceSpec,
		cognitiveComplexitySpec,
		relationshipIntelligenceSpec,
		adaptabilitySpec,
		creativityIndexSpec,
		resilienceSpec,
		authenticityScoreSpec,
	}
}

// Per-unit bonuses from auxiliary input.
const (
	selfAwarenessPerAssessment = 5
	selfAwarenessPerStory      = 3
	cognitivePerFormat         = 2
	creativityPerFormat        = 4
	authenticityPerStory       = 2
	emotionalComponentCap      = 95
)

// presenceBonus adds points when an assessment of Kind has been completed.
type presenceBonus struct {
	Kind   string
	Points float64
}

var emotionalPresenceBonuses = []presenceBonus{
	{profile.KindAttachment, 10},
	{profile.KindLoveLanguage, 8},
}

var relationshipPresenceBonuses = []presenceBonus{
	{profile.KindAttachment, 15},
	{profile.KindLoveLanguage, 12},
	{profile.KindCommunicationStyle, 10},
}

var stressResponseBonuses = map[string]float64{
	"fight":  5,
	"flight": 3,
	"freeze": 7,
	"fawn":   4,
}

func presence(in *profile.Input, bonuses []presenceBonus) float64 {
	var total float64
	for _, b := range bonuses {
		if in.HasAssessment(b.Kind) {
			total += b.Points
		}
	}
	return total
}

// raw returns base plus the pattern contributions of spec.
func (spec DimensionSpec) raw(corpus string) float64 {
	return spec.Base + ScoreRules(corpus, spec.Rules)
}

// CalculateDimensions runs all eight calculators.
func CalculateDimensions(corpus string, in *profile.Input) Dimensions {
	formats := in.DistinctFormats()
	return Dimensions{
		SelfAwareness:            calculateSelfAwareness(corpus, in),
		EmotionalIntelligence:    calculateEmotionalIntelligence(corpus, in),
		CognitiveComplexity:      calculateCognitiveComplexity(corpus, formats),
		RelationshipIntelligence: calculateRelationshipIntelligence(corpus, in),
		Adaptability:             calculateAdaptability(corpus),
		CreativityIndex:          calculateCreativity(corpus, formats),
		Resilience:               calculateResilience(corpus, in),
		AuthenticityScore:        calculateAuthenticity(corpus, in),
	}
}

func calculateSelfAwareness(corpus string, in *profile.Input) SelfAwareness {
	score := selfAwarenessSpec.raw(corpus)
	score += float64(len(in.Assessments) * selfAwarenessPerAssessment)
	score += float64(len(in.Stories) * selfAwarenessPerStory)
	return SelfAwareness{
		Score:    clampScore(score, selfAwarenessSpec.Ceiling),
		Level:    LevelFor(score, selfAwarenessLevels, "Beginning"),
		Insights: slices.Clone(pickBand(score, selfAwarenessInsights, selfAwarenessInsightsFallback)),
		NextStep: LevelFor(score, selfAwarenessNextSteps, "Start with simple emotion naming exercises"),
	}
}

func calculateEmotionalIntelligence(corpus string, in *profile.Input) EmotionalIntelligence {
	score := emotionalIntelligenceSpec.raw(corpus) + presence(in, emotionalPresenceBonuses)
	component := func(offset float64) int {
		return int(math.Floor(math.Min(emotionalComponentCap, score+offset)))
	}
	return EmotionalIntelligence{
		Score: clampScore(score, emotionalIntelligenceSpec.Ceiling),
		Level: LevelFor(score, emotionalIntelligenceLevels, "Emerging"),
		Components: EmotionalComponents{
			SelfRegulation: component(-5),
			Empathy:        component(3),
			SocialSkills:   component(-2),
			Motivation:     component(1),
		},
	}
}

func calculateCognitiveComplexity(corpus string, formats []string) CognitiveComplexity {
	score := cognitiveComplexitySpec.raw(corpus) + float64(len(formats)*cognitivePerFormat)
	return CognitiveComplexity{
		Score:           clampScore(score, cognitiveComplexitySpec.Ceiling),
		Level:           LevelFor(score, cognitiveComplexityLevels, "Linear"),
		Characteristics: CollectTiers(score, cognitiveCharacteristics),
	}
}

func calculateRelationshipIntelligence(corpus string, in *profile.Input) RelationshipIntelligence {
	score := relationshipIntelligenceSpec.raw(corpus) + presence(in, relationshipPresenceBonuses)
	return RelationshipIntelligence{
		Score:       clampScore(score, relationshipIntelligenceSpec.Ceiling),
		Strengths:   CollectTiers(score, relationshipStrengths),
		GrowthAreas: collectBelow(score, relationshipGrowthAreas),
	}
}

func calculateAdaptability(corpus string) Adaptability {
	score := adaptabilitySpec.raw(corpus)
	return Adaptability{
		Score:      clampScore(score, adaptabilitySpec.Ceiling),
		Indicators: CollectTiers(score, adaptabilityIndicators),
	}
}

func calculateCreativity(corpus string, formats []string) CreativityIndex {
	score := creativityIndexSpec.Base + float64(len(formats)*creativityPerFormat)
	score += ScoreRules(corpus, creativityIndexSpec.Rules)
	return CreativityIndex{
		Score:       clampScore(score, creativityIndexSpec.Ceiling),
		Expressions: slices.Clone(formats),
		Style:       LevelFor(score, creativeStyles, "Traditional and conventional"),
	}
}

func calculateResilience(corpus string, in *profile.Input) Resilience {
	score := resilienceSpec.raw(corpus)
	if a, ok := in.Assessment(profile.KindStressResponse); ok {
		score += stressResponseBonuses[a.Result]
	}
	return Resilience{
		Score:   clampScore(score, resilienceSpec.Ceiling),
		Factors: CollectTiers(score, resilienceFactors),
	}
}

func calculateAuthenticity(corpus string, in *profile.Input) AuthenticityScore {
	score := authenticityScoreSpec.raw(corpus) + float64(len(in.Stories)*authenticityPerStory)
	return AuthenticityScore{
		Score:      clampScore(score, authenticityScoreSpec.Ceiling),
		Indicators: CollectTiers(score, authenticityIndicators),
	}
}
