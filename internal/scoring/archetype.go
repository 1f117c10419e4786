package scoring

import (
	"slices"
	"sort"
	"strings"

	"github.com/dotcommander/innerscope/internal/profile"
)

// Archetype names in declaration order. The order breaks probability ties.
const (
	DeepThinker        = "The Deep Thinker"
	ConnectedEmpath    = "The Connected Empath"
	CreativeExplorer   = "The Creative Explorer"
	PracticalAdapter   = "The Practical Adapter"
	IndependentAnalyst = "The Independent Analyst"
	IntuitiveGuide     = "The Intuitive Guide"
)

const (
	primaryConfidenceFloor = 60
	primaryConfidenceCap   = 95
	secondaryThreshold     = 3
	secondaryInfluenceCap  = 40
	defaultBlend           = "Unique Blend"
)

// Archetype is immutable reference data for one personality archetype.
type Archetype struct {
	Name            string
	Traits          []string
	Description     string
	Color           string
	Icon            string
	Characteristics []string
	Rules           []Rule
}

var archetypes = []Archetype{
	{
		Name:        DeepThinker,
		Traits:      []string{"analytical", "introspective", "philosophical", "pattern-seeking"},
		Description: "You process experiences through deep reflection and abstract thinking",
		Color:       "purple",
		Icon:        "🧠",
		Characteristics: []string{
			"Prefers depth over breadth in conversations",
			"Seeks underlying patterns and meanings",
			"Values intellectual discourse",
			"Processes emotions cognitively",
		},
		Rules: []Rule{
			{MustPattern("think", "analyze", "consider", "reflect", "ponder", "philosophical", "abstract"), 3},
			{MustPattern("why", "because", "therefore", "thus", "hence", "logic"), 2},
			{MustPattern("pattern", "system", "structure", "framework", "concept"), 2},
		},
	},
	{
		Name:        ConnectedEmpath,
		Traits:      []string{"empathetic", "relationship-focused", "emotionally aware", "collaborative"},
		Description: "You understand the world through emotional connections and relationships",
		Color:       "pink",
		Icon:        "💝",
		Characteristics: []string{
			"Naturally attuned to others' emotions",
			"Values harmony and connection",
			"Processes information through relational lens",
			"Strong interpersonal intelligence",
		},
		Rules: []Rule{
			{MustPattern("feel", "emotion", "heart", "love", "relationship", "connection", "together"), 3},
			{MustPattern("empathy", "understand", "compassion", "care", "support", "help"), 2},
			{MustPattern("we", "us", "together", "harmony", "community", "share"), 2},
		},
	},
	{
		Name:        CreativeExplorer,
		Traits:      []string{"innovative", "curious", "artistic", "possibility-focused"},
		Description: "You see possibilities everywhere and express insights creatively",
		Color:       "orange",
		Icon:        "🎨",
		Characteristics: []string{
			"Thrives on novelty and innovation",
			"Sees connections others miss",
			"Values creative self-expression",
			"Comfortable with ambiguity",
		},
		Rules: []Rule{
			{MustPattern("create", "art", "imagine", "dream", "possibility", "new", "innovative"), 3},
			{MustPattern("explore", "discover", "adventure", "curious", "wonder", "what if"), 2},
			{MustPattern("inspiration", "vision", "creative", "original", "unique"), 2},
		},
	},
	{
		Name:        PracticalAdapter,
		Traits:      []string{"pragmatic", "flexible", "solution-oriented", "resourceful"},
		Description: "You navigate life through practical wisdom and adaptability",
		Color:       "green",
		Icon:        "⚖️",
		Characteristics: []string{
			"Focuses on actionable solutions",
			"Adapts quickly to changing circumstances",
			"Values efficiency and results",
			"Balances multiple perspectives",
		},
		Rules: []Rule{
			{MustPattern("practical", "solution", "work", "adapt", "flexible", "realistic"), 3},
			{MustPattern("balance", "manage", "organize", "plan", "efficient", "effective"), 2},
			{MustPattern("change", "adjust", "modify", "improve", "fix", "resolve"), 2},
		},
	},
	{
		Name:        IndependentAnalyst,
		Traits:      []string{"self-reliant", "logical", "objective", "systematic"},
		Description: "You approach life with systematic thinking and independence",
		Color:       "blue",
		Icon:        "🔍",
		Characteristics: []string{
			"Values autonomy and self-direction",
			"Approaches problems systematically",
			"Seeks objective truth",
			"Comfortable working independently",
		},
		Rules: []Rule{
			{MustPattern("independent", "alone", "self", "objective", "data", "evidence", "fact"), 3},
			{MustPattern("analyze", "research", "study", "investigate", "examine"), 2},
			{MustPattern("logical", "rational", "systematic", "methodical", "precise"), 2},
		},
	},
	{
		Name:        IntuitiveGuide,
		Traits:      []string{"intuitive", "wise", "spiritually-aware", "synthesizing"},
		Description: "You understand life through inner wisdom and intuitive insights",
		Color:       "indigo",
		Icon:        "🌟",
		Characteristics: []string{
			"Trusts inner knowing and intuition",
			"Sees bigger picture patterns",
			"Values meaning and purpose",
			"Integrates multiple ways of knowing",
		},
		Rules: []Rule{
			{MustPattern("intuition", "spiritual", "wisdom", "insight", "inner", "soul"), 3},
			{MustPattern("meaning", "purpose", "deeper", "transcend", "transform"), 2},
			{MustPattern("guide", "mentor", "teach", "inspire", "enlighten"), 2},
		},
	},
}

// assessmentBonus adds fixed points to one archetype when an assessment
// result matches.
type assessmentBonus struct {
	Kind      string
	Matches   func(result string) bool
	Archetype string
	Points    int
}

func resultIs(want string) func(string) bool {
	return func(got string) bool { return got == want }
}

func resultContains(sub string) func(string) bool {
	return func(got string) bool { return strings.Contains(got, sub) }
}

var archetypeBonuses = []assessmentBonus{
	{profile.KindAttachment, resultIs("secure"), ConnectedEmpath, 5},
	{profile.KindAttachment, resultIs("avoidant"), IndependentAnalyst, 5},
	{profile.KindAttachment, resultIs("anxious"), ConnectedEmpath, 3},
	{profile.KindLoveLanguage, resultContains("touch"), ConnectedEmpath, 3},
	{profile.KindLoveLanguage, resultContains("words"), DeepThinker, 3},
	{profile.KindLoveLanguage, resultContains("quality time"), ConnectedEmpath, 2},
}

var blendProfiles = map[[2]string]string{
	{DeepThinker, ConnectedEmpath}:         "Emotionally Intelligent Analyst",
	{DeepThinker, CreativeExplorer}:        "Visionary Philosopher",
	{DeepThinker, IndependentAnalyst}:      "Systematic Theorist",
	{ConnectedEmpath, CreativeExplorer}:    "Empathetic Innovator",
	{ConnectedEmpath, PracticalAdapter}:    "Harmonious Problem-Solver",
	{CreativeExplorer, IntuitiveGuide}:     "Inspired Visionary",
	{PracticalAdapter, IndependentAnalyst}: "Strategic Optimizer",
	{IndependentAnalyst, IntuitiveGuide}:   "Insightful Strategist",
}

// Archetypes returns the archetype reference table in declaration order.
func Archetypes() []Archetype {
	return slices.Clone(archetypes)
}

// BlendProfile names the combination of a primary and secondary archetype.
// The pair is ordered; unknown pairs yield "Unique Blend".
func BlendProfile(primary, secondary string) string {
	if name, ok := blendProfiles[[2]string{primary, secondary}]; ok {
		return name
	}
	return defaultBlend
}

// ArchetypeProbabilities scores every archetype against the corpus and the
// assessment bonuses. The result is keyed by archetype name.
func ArchetypeProbabilities(corpus string, in *profile.Input) map[string]int {
	probs := make(map[string]int, len(archetypes))
	for _, a := range archetypes {
		probs[a.Name] = int(ScoreRules(corpus, a.Rules))
	}
	for _, b := range archetypeBonuses {
		a, ok := in.Assessment(b.Kind)
		if !ok {
			continue
		}
		if b.Matches(a.Result) {
			probs[b.Archetype] += b.Points
		}
	}
	return probs
}

type rankedArchetype struct {
	archetype   Archetype
	probability int
}

// ClassifyArchetype picks the primary archetype and, when strong enough, a
// secondary one. With no signal at all the first declared archetype wins at
// the confidence floor.
func ClassifyArchetype(corpus string, in *profile.Input) ArchetypeResult {
	probs := ArchetypeProbabilities(corpus, in)

	ranked := make([]rankedArchetype, len(archetypes))
	for i, a := range archetypes {
		ranked[i] = rankedArchetype{archetype: a, probability: probs[a.Name]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].probability > ranked[j].probability
	})

	primary, runnerUp := ranked[0], ranked[1]
	result := ArchetypeResult{
		Primary: PrimaryArchetype{
			Name:       primary.archetype.Name,
			Details:    details(primary),
			Confidence: min(primaryConfidenceCap, primaryConfidenceFloor+primary.probability*2),
		},
		BlendProfile: BlendProfile(primary.archetype.Name, runnerUp.archetype.Name),
	}
	if runnerUp.probability > secondaryThreshold {
		result.Secondary = &SecondaryArchetype{
			Name:      runnerUp.archetype.Name,
			Details:   details(runnerUp),
			Influence: min(secondaryInfluenceCap, runnerUp.probability*3),
		}
	}
	return result
}

func details(r rankedArchetype) ArchetypeDetails {
	return ArchetypeDetails{
		Traits:          slices.Clone(r.archetype.Traits),
		Description:     r.archetype.Description,
		Color:           r.archetype.Color,
		Icon:            r.archetype.Icon,
		Probability:     r.probability,
		Characteristics: slices.Clone(r.archetype.Characteristics),
	}
}
