package phase

import (
	"regexp"
	"strings"
)

// Detection vocabularies. Loaded once at init and shared by every Machine;
// none of the detectors hold per-conversation state.

var knownCities = []string{
	"new york", "nyc", "los angeles", "la", "chicago", "houston", "phoenix",
	"philadelphia", "san antonio", "san diego", "dallas", "san jose",
	"austin", "jacksonville", "fort worth", "columbus", "charlotte",
	"san francisco", "indianapolis", "seattle", "denver", "washington",
	"boston", "nashville", "detroit", "portland", "memphis", "oklahoma city",
	"las vegas", "louisville", "baltimore", "milwaukee", "albuquerque",
	"tucson", "fresno", "sacramento", "kansas city", "atlanta", "miami",
	"tampa", "orlando", "minneapolis", "cleveland", "new orleans", "pittsburgh",
}

var cityPattern = regexp.MustCompile(`\b(` + strings.Join(knownCities, "|") + `)\b`)

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:i'?m\s+)?(?:from|live\s+in|based\s+in)\s+(\w+(?:\s+\w+)?)`),
	regexp.MustCompile(`(\w+(?:\s+\w+)?)\s+(?:area|city)`),
	regexp.MustCompile(`i\s+live\s+(?:in|near)\s+(\w+(?:\s+\w+)?)`),
}

// locationJunk filters pattern captures that are clearly not places.
var locationJunk = map[string]bool{
	"good": true, "great": true, "okay": true, "fine": true,
}

var meetupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:let'?s?|we\s+should|can\s+we|wanna)\s+(?:meet|hang|link|chill|grab\s+drinks?)`),
	regexp.MustCompile(`(?:take\s+you|bring\s+you)\s+(?:out|to\s+dinner)`),
	regexp.MustCompile(`(?:get|grab)\s+(?:dinner|lunch|drinks?|coffee|food)`),
	regexp.MustCompile(`(?:show\s+you\s+around|hang\s+out|link\s+up)`),
	regexp.MustCompile(`when\s+(?:can|will)\s+(?:i|we)\s+(?:see|meet)\s+you`),
	regexp.MustCompile(`(?:come\s+)?\bover\b`),
	regexp.MustCompile(`let\s+me\s+(?:take|see)\s+you`),
}

var explicitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`send\s+(?:me\s+)?(?:a\s+)?(?:pic|photo|nudes?|something\s+sexy)`),
	regexp.MustCompile(`(?:got|have)\s+(?:any\s+)?(?:more\s+)?pics?`),
	regexp.MustCompile(`show\s+me\s+(?:something|more)`),
	regexp.MustCompile(`what\s+(?:are\s+you|r\s+u)\s+wearing`),
}

var sexualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:so\s+)?(?:hot|sexy|fine|beautiful|gorgeous)`),
	regexp.MustCompile(`(?:your\s+)?body`),
	regexp.MustCompile(`naked`),
	regexp.MustCompile(`bedroom`),
	regexp.MustCompile(`(?:what\s+would\s+you|wanna)\s+do\s+(?:to\s+me|together)`),
}

// revealPatterns detect the premium-page mention in a self-authored reply.
var revealPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bpremium\b`),
	regexp.MustCompile(`\bsubscribe\b`),
	regexp.MustCompile(`\bsub\b`),
	regexp.MustCompile(`my\s+page`),
}

// subscribedPatterns detect the peer reporting a conversion.
var subscribedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:i\s+)?(?:just\s+)?(?:subbed|subscribed)`),
	regexp.MustCompile(`(?:i\s+)?signed\s+up`),
	regexp.MustCompile(`bought\s+(?:it|your|the)\s+(?:premium|subscription)`),
	regexp.MustCompile(`got\s+(?:your|the)\s+(?:premium|subscription)`),
	regexp.MustCompile(`joined\s+(?:your|the)?\s*(?:premium|page)`),
}

// ackPatterns detect a self-authored reply acknowledging the peer's location.
var ackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`visiting`),
	regexp.MustCompile(`just\s+here`),
	regexp.MustCompile(`in\s+the\s+area`),
	regexp.MustCompile(`in\s+town`),
}

func anyMatch(patterns []*regexp.Regexp, msg string) bool {
	for _, p := range patterns {
		if p.MatchString(msg) {
			return true
		}
	}
	return false
}

// detectLocation returns the place a lowercased message mentions, or "".
// Known cities win over the generic patterns; generic captures are dropped
// when too short or on the junk list.
func detectLocation(msg string) string {
	if m := cityPattern.FindString(msg); m != "" {
		return title(m)
	}
	for _, p := range locationPatterns {
		m := p.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		loc := strings.TrimSpace(m[1])
		if len(loc) > 2 && !locationJunk[loc] {
			return title(loc)
		}
	}
	return ""
}

func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
