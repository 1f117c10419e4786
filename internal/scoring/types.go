package scoring

import (
	"maps"
	"slices"
	"time"
)

// Report is the complete intelligence report for one user profile.
type Report struct {
	Metadata          Metadata          `json:"metadata"`
	Archetype         ArchetypeResult   `json:"archetype"`
	Dimensions        Dimensions        `json:"dimensions"`
	Patterns          []BehaviorPattern `json:"patterns"`
	CognitiveStyle    CognitiveStyle    `json:"cognitiveStyle"`
	EmotionalProfile  EmotionalProfile  `json:"emotionalProfile"`
	RelationshipStyle RelationshipStyle `json:"relationshipStyle"`
	GrowthTrajectory  GrowthTrajectory  `json:"growthTrajectory"`
	Predictions       []Prediction      `json:"predictions"`
	Recommendations   Recommendations   `json:"recommendations"`
	RiskFactors       []RiskFactor      `json:"riskFactors"`
	Strengths         []Strength        `json:"strengths"`
	NextLevel         NextLevel         `json:"nextLevel"`
}

// Classification buckets the amount of data a report was built from.
type Classification string

const (
	ClassificationComprehensive Classification = "COMPREHENSIVE"
	ClassificationDetailed      Classification = "DETAILED"
	ClassificationEmerging      Classification = "EMERGING"
)

// Metadata describes how a report was produced.
type Metadata struct {
	GeneratedAt     time.Time      `json:"generatedAt"`
	DataPoints      int            `json:"dataPoints"`
	AnalysisVersion string         `json:"analysisVersion"`
	ConfidenceLevel int            `json:"confidenceLevel"` // 60-95
	ReportID        string         `json:"reportId"`
	Classification  Classification `json:"classification"`
}

// ArchetypeResult holds the primary and optional secondary archetype.
type ArchetypeResult struct {
	Primary      PrimaryArchetype    `json:"primary"`
	Secondary    *SecondaryArchetype `json:"secondary"`
	BlendProfile string              `json:"blendProfile"`
}

// PrimaryArchetype is the best-scoring archetype.
type PrimaryArchetype struct {
	Name       string           `json:"name"`
	Details    ArchetypeDetails `json:"details"`
	Confidence int              `json:"confidence"`
}

// SecondaryArchetype is the runner-up, reported only above the influence threshold.
type SecondaryArchetype struct {
	Name      string           `json:"name"`
	Details   ArchetypeDetails `json:"details"`
	Influence int              `json:"influence"`
}

// ArchetypeDetails is the reference data of an archetype together with the
// probability computed for this report.
type ArchetypeDetails struct {
	Traits          []string `json:"traits"`
	Description     string   `json:"description"`
	Color           string   `json:"color"`
	Icon            string   `json:"icon"`
	Probability     int      `json:"probability"`
	Characteristics []string `json:"characteristics"`
}

// Dimensions holds the eight dimension scores.
type Dimensions struct {
	SelfAwareness            SelfAwareness            `json:"selfAwareness"`
	EmotionalIntelligence    EmotionalIntelligence    `json:"emotionalIntelligence"`
	CognitiveComplexity      CognitiveComplexity      `json:"cognitiveComplexity"`
	RelationshipIntelligence RelationshipIntelligence `json:"relationshipIntelligence"`
	Adaptability             Adaptability             `json:"adaptability"`
	CreativityIndex          CreativityIndex          `json:"creativityIndex"`
	Resilience               Resilience               `json:"resilience"`
	AuthenticityScore        AuthenticityScore        `json:"authenticityScore"`
}

// Scores returns every dimension score keyed by its json name.
func (d Dimensions) Scores() map[string]int {
	return map[string]int{
		"selfAwareness":            d.SelfAwareness.Score,
		"emotionalIntelligence":    d.EmotionalIntelligence.Score,
		"cognitiveComplexity":      d.CognitiveComplexity.Score,
		"relationshipIntelligence": d.RelationshipIntelligence.Score,
		"adaptability":             d.Adaptability.Score,
		"creativityIndex":          d.CreativityIndex.Score,
		"resilience":               d.Resilience.Score,
		"authenticityScore":        d.AuthenticityScore.Score,
	}
}

type SelfAwareness struct {
	Score    int      `json:"score"`
	Level    string   `json:"level"`
	Insights []string `json:"insights"`
	NextStep string   `json:"nextStep"`
}

type EmotionalIntelligence struct {
	Score      int                 `json:"score"`
	Level      string              `json:"level"`
	Components EmotionalComponents `json:"components"`
}

// EmotionalComponents are fixed offsets from the emotional intelligence score.
type EmotionalComponents struct {
	SelfRegulation int `json:"selfRegulation"`
	Empathy        int `json:"empathy"`
	SocialSkills   int `json:"socialSkills"`
	Motivation     int `json:"motivation"`
}

type CognitiveComplexity struct {
	Score           int      `json:"score"`
	Level           string   `json:"level"`
	Characteristics []string `json:"characteristics"`
}

type RelationshipIntelligence struct {
	Score       int      `json:"score"`
	Strengths   []string `json:"strengths"`
	GrowthAreas []string `json:"growthAreas"`
}

type Adaptability struct {
	Score      int      `json:"score"`
	Indicators []string `json:"indicators"`
}

type CreativityIndex struct {
	Score       int      `json:"score"`
	Expressions []string `json:"expressions"`
	Style       string   `json:"style"`
}

type Resilience struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

type AuthenticityScore struct {
	Score      int      `json:"score"`
	Indicators []string `json:"indicators"`
}

// BehaviorPattern is a recurring behavior detected in conversations.
type BehaviorPattern struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Implication string `json:"implication"`
}

// CognitiveStyle describes the dominant way a user processes information.
type CognitiveStyle struct {
	Primary                 string         `json:"primary"`
	Scores                  map[string]int `json:"scores"`
	Description             string         `json:"description"`
	LearningRecommendations []string       `json:"learningRecommendations"`
}

type EmotionalProfile struct {
	PrimaryMode         string   `json:"primaryMode"`
	EmotionalVocabulary string   `json:"emotionalVocabulary"`
	RegulationSkills    string   `json:"regulationSkills"`
	Expressions         []string `json:"expressions"`
}

type RelationshipStyle struct {
	AttachmentStyle         string `json:"attachmentStyle"`
	CommunicationPreference string `json:"communicationPreference"`
	ConflictStyle           string `json:"conflictStyle"`
	IntimacyComfort         string `json:"intimacyComfort"`
}

type GrowthTrajectory struct {
	CurrentPhase         string   `json:"currentPhase"`
	NextPhase            string   `json:"nextPhase"`
	Timeline             string   `json:"timeline"`
	KeyMilestones        []string `json:"keyMilestones"`
	CompletionPercentage int      `json:"completionPercentage"`
}

type Prediction struct {
	Category   string `json:"category"`
	Prediction string `json:"prediction"`
	Confidence int    `json:"confidence"`
	Timeframe  string `json:"timeframe"`
}

type Recommendations struct {
	Immediate []string `json:"immediate"`
	ShortTerm []string `json:"shortTerm"`
	LongTerm  []string `json:"longTerm"`
}

type RiskFactor struct {
	Factor      string `json:"factor"`
	Risk        string `json:"risk"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation"`
}

type Strength struct {
	Strength    string `json:"strength"`
	Level       string `json:"level"`
	Description string `json:"description"`
	Leverage    string `json:"leverage"`
}

type NextLevel struct {
	ReadinessScore int      `json:"readinessScore"`
	NextCapability string   `json:"nextCapability"`
	Requirements   []string `json:"requirements"`
	Unlocks        []string `json:"unlocks"`
	EstimatedTime  string   `json:"estimatedTime"`
}

// Clone returns a deep copy of r. Nil slices and maps stay nil.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	c := *r

	c.Archetype.Primary.Details = r.Archetype.Primary.Details.clone()
	if r.Archetype.Secondary != nil {
		sec := *r.Archetype.Secondary
		sec.Details = sec.Details.clone()
		c.Archetype.Secondary = &sec
	}

	d := &c.Dimensions
	d.SelfAwareness.Insights = slices.Clone(d.SelfAwareness.Insights)
	d.CognitiveComplexity.Characteristics = slices.Clone(d.CognitiveComplexity.Characteristics)
	d.RelationshipIntelligence.Strengths = slices.Clone(d.RelationshipIntelligence.Strengths)
	d.RelationshipIntelligence.GrowthAreas = slices.Clone(d.RelationshipIntelligence.GrowthAreas)
	d.Adaptability.Indicators = slices.Clone(d.Adaptability.Indicators)
	d.CreativityIndex.Expressions = slices.Clone(d.CreativityIndex.Expressions)
	d.Resilience.Factors = slices.Clone(d.Resilience.Factors)
	d.AuthenticityScore.Indicators = slices.Clone(d.AuthenticityScore.Indicators)

	c.Patterns = slices.Clone(r.Patterns)
	c.CognitiveStyle.Scores = maps.Clone(r.CognitiveStyle.Scores)
	c.CognitiveStyle.LearningRecommendations = slices.Clone(r.CognitiveStyle.LearningRecommendations)
	c.EmotionalProfile.Expressions = slices.Clone(r.EmotionalProfile.Expressions)
	c.GrowthTrajectory.KeyMilestones = slices.Clone(r.GrowthTrajectory.KeyMilestones)
	c.Predictions = slices.Clone(r.Predictions)
	c.Recommendations.Immediate = slices.Clone(r.Recommendations.Immediate)
	c.Recommendations.ShortTerm = slices.Clone(r.Recommendations.ShortTerm)
	c.Recommendations.LongTerm = slices.Clone(r.Recommendations.LongTerm)
	c.RiskFactors = slices.Clone(r.RiskFactors)
	c.Strengths = slices.Clone(r.Strengths)
	c.NextLevel.Requirements = slices.Clone(r.NextLevel.Requirements)
	c.NextLevel.Unlocks = slices.Clone(r.NextLevel.Unlocks)
	return &c
}

func (a ArchetypeDetails) clone() ArchetypeDetails {
	a.Traits = slices.Clone(a.Traits)
	a.Characteristics = slices.Clone(a.Characteristics)
	return a
}
