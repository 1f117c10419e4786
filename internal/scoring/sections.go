package scoring

import (
	"slices"
	"strings"

	"github.com/dotcommander/innerscope/internal/profile"
)

var (
	decisionPattern     = MustPattern("decision", "choose", "option", "alternative")
	relationshipPattern = MustPattern("relationship", "friend", "family")
)

const (
	decisionPatternMin      = 5
	relationshipPatternMin  = 10
	socialIsolationMax      = 5
	paralysisMessageMin     = 20
	paralysisStoryMax       = 3
	reflectionMessageMin    = 10
	versatilityFormatMin    = 5
	growthCompletionCap     = 89
	growthCompletionBase    = 60
	growthPerAssessment     = 5
	metadataConfidenceCap   = 95
	metadataConfidenceBase  = 60
	confidencePerStat       = 2
	confidencePerAssessment = 5
)

func identifyBehavioralPatterns(corpus string) []BehaviorPattern {
	patterns := []BehaviorPattern{}
	if strings.Contains(corpus, "i think") && strings.Contains(corpus, "i feel") {
		patterns = append(patterns, BehaviorPattern{
			Type:        "Balanced Processing",
			Description: "You integrate both thinking and feeling in your communication",
			Frequency:   "High",
			Implication: "Indicates emotional intelligence and cognitive balance",
		})
	}
	if CountMatches(corpus, decisionPattern) > decisionPatternMin {
		patterns = append(patterns, BehaviorPattern{
			Type:        "Deliberate Decision-Maker",
			Description: "You carefully consider options before making decisions",
			Frequency:   "Consistent",
			Implication: "Shows conscientiousness and risk awareness",
		})
	}
	if CountMatches(corpus, relationshipPattern) > relationshipPatternMin {
		patterns = append(patterns, BehaviorPattern{
			Type:        "Relationship-Oriented",
			Description: "You frequently think about and discuss relationships",
			Frequency:   "High",
			Implication: "Strong social orientation and empathy",
		})
	}
	return patterns
}

type cognitiveMode struct {
	Name            string
	Pattern         Pattern
	Description     string
	Recommendations []string
}

var cognitiveModes = []cognitiveMode{
	{
		Name:            "analytical",
		Pattern:         MustPattern("analyze", "think", "logic", "reason"),
		Description:     "You prefer structured, logical approaches to problem-solving",
		Recommendations: []string{"Use frameworks and systems", "Break down complex problems", "Create logical sequences"},
	},
	{
		Name:            "intuitive",
		Pattern:         MustPattern("feel", "sense", "intuition", "gut"),
		Description:     "You rely on gut feelings and holistic understanding",
		Recommendations: []string{"Trust your instincts", "Use metaphors and analogies", "Practice mindfulness"},
	},
	{
		Name:            "visual",
		Pattern:         MustPattern("see", "picture", "imagine", "visualize"),
		Description:     "You think in images and spatial relationships",
		Recommendations: []string{"Create mind maps and diagrams", "Use visual aids", "Imagine scenarios"},
	},
	{
		Name:            "verbal",
		Pattern:         MustPattern("words", "say", "tell", "communicate"),
		Description:     "You process information through language and communication",
		Recommendations: []string{"Discuss ideas with others", "Write to think", "Use storytelling"},
	},
}

// analyzeCognitiveStyle picks the mode with the most matches. A mode only
// keeps the lead while strictly ahead, so later modes win ties.
func analyzeCognitiveStyle(corpus string) CognitiveStyle {
	scores := make(map[string]int, len(cognitiveModes))
	best := 0
	for i, m := range cognitiveModes {
		scores[m.Name] = CountMatches(corpus, m.Pattern)
		if i > 0 && scores[m.Name] >= scores[cognitiveModes[best].Name] {
			best = i
		}
	}
	mode := cognitiveModes[best]
	return CognitiveStyle{
		Primary:                 mode.Name,
		Scores:                  scores,
		Description:             mode.Description,
		LearningRecommendations: slices.Clone(mode.Recommendations),
	}
}

func analyzeEmotionalProcessing() EmotionalProfile {
	return EmotionalProfile{
		PrimaryMode:         "Reflective",
		EmotionalVocabulary: "Advanced",
		RegulationSkills:    "Developing",
		Expressions:         []string{"Verbal", "Creative", "Introspective"},
	}
}

func analyzeRelationshipStyle(in *profile.Input) RelationshipStyle {
	attachment := "Unknown"
	if r := in.AssessmentResult(profile.KindAttachment); r != "" {
		attachment = r
	}
	return RelationshipStyle{
		AttachmentStyle:         attachment,
		CommunicationPreference: "Thoughtful and deliberate",
		ConflictStyle:           "Collaborative",
		IntimacyComfort:         "Moderate to High",
	}
}

func predictGrowthPath(in *profile.Input) GrowthTrajectory {
	return GrowthTrajectory{
		CurrentPhase: "Self-Discovery",
		NextPhase:    "Integration",
		Timeline:     "6-12 months",
		KeyMilestones: []string{
			"Complete major assessments",
			"Develop consistent self-reflection practice",
			"Share insights with others",
			"Mentor someone else",
		},
		CompletionPercentage: min(growthCompletionCap, growthCompletionBase+len(in.Assessments)*growthPerAssessment),
	}
}

func generatePredictions() []Prediction {
	return []Prediction{
		{
			Category:   "Behavioral",
			Prediction: "You will likely develop a more structured approach to personal growth",
			Confidence: 78,
			Timeframe:  "3-6 months",
		},
		{
			Category:   "Relationship",
			Prediction: "Your communication skills will improve, leading to deeper connections",
			Confidence: 84,
			Timeframe:  "2-4 months",
		},
		{
			Category:   "Career",
			Prediction: "You may seek roles that allow for more creative expression",
			Confidence: 72,
			Timeframe:  "6-12 months",
		},
	}
}

func generateRecommendations() Recommendations {
	return Recommendations{
		Immediate: []string{
			"Complete remaining personality assessments",
			"Start a daily reflection practice",
			"Share one insight with a trusted friend",
		},
		ShortTerm: []string{
			"Explore creative expression formats",
			"Practice vulnerability in safe relationships",
			"Set up regular check-ins with yourself",
		},
		LongTerm: []string{
			"Consider becoming a mentor or guide for others",
			"Develop your unique approach to personal growth",
			"Create a personal development framework",
		},
	}
}

func identifyRiskFactors(corpus string, in *profile.Input) []RiskFactor {
	factors := []RiskFactor{}
	if len(in.Conversations) > paralysisMessageMin && len(in.Stories) < paralysisStoryMax {
		factors = append(factors, RiskFactor{
			Factor:      "Analysis Paralysis",
			Risk:        "Medium",
			Description: "High thinking, low action ratio",
			Mitigation:  "Set weekly action goals",
		})
	}
	if CountMatches(corpus, relationshipPattern) < socialIsolationMax {
		factors = append(factors, RiskFactor{
			Factor:      "Social Isolation",
			Risk:        "Low-Medium",
			Description: "Limited discussion of relationships",
			Mitigation:  "Actively engage in social activities",
		})
	}
	return factors
}

func identifyStrengths(in *profile.Input, formats []string) []Strength {
	strengths := []Strength{}
	if len(in.Conversations) > reflectionMessageMin {
		strengths = append(strengths, Strength{
			Strength:    "Deep Self-Reflection",
			Level:       "High",
			Description: "Consistent engagement in introspective dialogue",
			Leverage:    "Use this skill to help others grow",
		})
	}
	if len(formats) > versatilityFormatMin {
		strengths = append(strengths, Strength{
			Strength:    "Creative Versatility",
			Level:       "Advanced",
			Description: "Ability to express insights in multiple formats",
			Leverage:    "Develop this into a signature approach",
		})
	}
	return strengths
}

func generateNextLevelInsights() NextLevel {
	return NextLevel{
		ReadinessScore: 75,
		NextCapability: "Emotional Pattern Recognition",
		Requirements: []string{
			"Complete 2 more major assessments",
			"Create 5 additional stories",
			"Engage in 10 more reflective conversations",
		},
		Unlocks: []string{
			"Advanced relationship dynamics analysis",
			"Predictive behavioral modeling",
			"Personal archetype evolution tracking",
		},
		EstimatedTime: "4-6 weeks",
	}
}
