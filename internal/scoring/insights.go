package scoring

// Level ladders. Bands are checked top-down against the raw score.

var selfAwarenessLevels = []Band{
	{85, "Advanced"},
	{70, "Developing"},
	{50, "Emerging"},
}

var emotionalIntelligenceLevels = []Band{
	{85, "Highly Developed"},
	{70, "Well-Developed"},
	{50, "Developing"},
}

var cognitiveComplexityLevels = []Band{
	{85, "Highly Complex"},
	{70, "Moderately Complex"},
	{50, "Developing"},
}

var creativeStyles = []Band{
	{80, "Highly innovative and experimental"},
	{60, "Creative with structured approach"},
	{40, "Emerging creative expression"},
}

var selfAwarenessNextSteps = []Band{
	{85, "Focus on helping others develop self-awareness"},
	{70, "Practice mindfulness and body awareness"},
	{50, "Keep a daily reflection journal"},
}

// listBand selects a whole list of items; only the first matching band applies.
type listBand struct {
	Above float64
	Items []string
}

func pickBand(score float64, bands []listBand, fallback []string) []string {
	for _, b := range bands {
		if score > b.Above {
			return b.Items
		}
	}
	return fallback
}

var selfAwarenessInsights = []listBand{
	{85, []string{"Exceptional metacognitive abilities", "Strong pattern recognition in behavior", "Advanced emotional literacy"}},
	{70, []string{"Good self-reflection skills", "Growing awareness of patterns", "Developing emotional vocabulary"}},
	{50, []string{"Emerging self-awareness", "Beginning to notice patterns", "Basic emotional recognition"}},
}

var selfAwarenessInsightsFallback = []string{
	"Limited self-reflection",
	"Reactive rather than responsive",
	"Opportunity for growth in awareness",
}

// Cumulative ladders: every tier the score exceeds contributes.

var cognitiveCharacteristics = []Tier{
	{80, []string{"Systems thinking", "Paradoxical reasoning", "Integrative perspective"}},
	{60, []string{"Multiple perspective taking", "Nuanced understanding", "Context sensitivity"}},
	{40, []string{"Binary thinking patterns", "Clear categorization", "Linear processing"}},
}

var relationshipStrengths = []Tier{
	{80, []string{"Exceptional empathy", "Conflict resolution skills", "Deep intimacy capacity"}},
	{60, []string{"Good communication skills", "Emotional attunement", "Trust building"}},
	{40, []string{"Basic social skills", "Some emotional awareness", "Developing connections"}},
}

var adaptabilityIndicators = []Tier{
	{80, []string{"Rapid adjustment to change", "Thrives in uncertainty", "Flexible problem-solving"}},
	{60, []string{"Moderate flexibility", "Learns from setbacks", "Open to new approaches"}},
	{40, []string{"Some resistance to change", "Prefers familiar patterns", "Gradual adaptation"}},
}

var resilienceFactors = []Tier{
	{80, []string{"Strong emotional regulation", "Growth mindset", "Social support network"}},
	{60, []string{"Moderate stress tolerance", "Learning orientation", "Some support systems"}},
	{40, []string{"Basic coping skills", "Limited stress management", "Developing resilience"}},
}

var authenticityIndicators = []Tier{
	{80, []string{"Strong self-knowledge", "Values-driven behavior", "Comfortable with vulnerability"}},
	{60, []string{"Growing self-awareness", "Mostly authentic expression", "Developing confidence"}},
	{40, []string{"Some self-awareness", "Occasional authentic moments", "Building identity"}},
}

// belowTier contributes its items when the score is strictly below Below.
type belowTier struct {
	Below float64
	Items []string
}

var relationshipGrowthAreas = []belowTier{
	{50, []string{"Emotional vocabulary", "Active listening", "Boundary setting"}},
	{70, []string{"Conflict navigation", "Vulnerability practice", "Attachment security"}},
	{85, []string{"Advanced empathy", "Leadership in relationships", "Mentoring others"}},
}

func collectBelow(score float64, tiers []belowTier) []string {
	out := []string{}
	for _, t := range tiers {
		if score < t.Below {
			out = append(out, t.Items...)
		}
	}
	return out
}
