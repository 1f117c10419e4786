package profile

// KnownFormats lists the story formats the story service can produce.
var KnownFormats = []string{
	// social
	"x", "linkedin", "instagram", "facebook",
	// creative
	"poem", "song", "reel", "fairytale",
	// professional
	"article", "blog_post", "presentation", "newsletter", "podcast", "letter",
	// therapeutic
	"reflection", "insights", "growth_summary", "journal_entry",
	// compilation
	"book_chapter",
}

var knownFormatIndex = func() map[string]bool {
	m := make(map[string]bool, len(KnownFormats))
	for _, f := range KnownFormats {
		m[f] = true
	}
	return m
}()

// NormalizeFormat maps legacy format names to their current name.
func NormalizeFormat(format string) string {
	if format == "short_story" {
		return "fairytale"
	}
	return format
}

// IsKnownFormat reports whether format (after normalization) is in the catalogue.
func IsKnownFormat(format string) bool {
	return knownFormatIndex[NormalizeFormat(format)]
}
