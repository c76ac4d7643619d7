package intent

import (
	"fmt"
	"regexp"
	"sync"
)

// Rule binds a label to its pattern sources. Rules are matched in slice
// order; within a rule, patterns are tried in order.
type Rule struct {
	Label    Label
	Patterns []string
}

// defaultRules is the classification table in priority order. Hard signals
// (conversion, hostility, objection) must outrank softer ones like a generic
// compliment when several patterns could match the same text.
var defaultRules = []Rule{
	{LabelSubscribed, []string{
		`(?:i\s+)?(?:just\s+)?(?:subbed|subscribed)`,
		`(?:i\s+)?signed\s+up`,
		`(?:bought|got|joined)\s+(?:your|ur|the)\s+(?:premium|page|sub(?:scription)?)`,
		`im\s+(?:on\s+)?(?:your|ur)\s+(?:premium|page)\s+now`,
	}},
	{LabelHostile, []string{
		`(?:fuck|screw)\s+(?:this|that|u|you|off)`,
		`block(?:ed|ing)?`,
		`bye\s+(?:bitch|fake)`,
		`waste\s+of\s+time`,
		`im\s+(?:out|done|leaving)`,
		`(?:go|fuck)\s+away`,
	}},
	{LabelObjection, []string{
		`(?:not|no[t]?)\s+(?:paying|subscribing|gonna\s+(?:pay|sub)|going\s+to\s+(?:pay|sub))`,
		`(?:nah|no)\s+(?:i'?m|im)\s+(?:good|ok(?:ay)?|alright)`,
		`i'?m\s+(?:good|okay|alright)\s+(?:on\s+that|thanks?|thx)`,
		`maybe\s+later`,
		`(?:that'?s|thats?)\s+(?:too\s+)?(?:expensive|much|pricey)`,
		`(?:too\s+)?(?:expensive|pricey)`,
		`(?:no\s+thanks?|hard\s+pass)`,
		`(?:can'?t|cant)\s+afford`,
		`(?:not|no)\s+(?:interested|into\s+(?:that|paying))`,
		`i\s+don'?t\s+pay\s+for`,
		`(?:broke|no\s+money)`,
		`(?:i'?ll|ill)\s+(?:think\s+about\s+it|pass)`,
		`not\s+sub(?:b?ing|scrib)`,
		`(?:any|got)\s+free`,
		`free\s+(?:pics?|vids?|teasers?|stuff|content|preview)`,
	}},
	{LabelExplicitReq, []string{
		`send\s+(?:me\s+)?(?:a\s+)?(?:pic|photo|pics|nudes?|something|more|one|vid)`,
		`(?:got|have|show)\s+(?:any\s+)?(?:more\s+)?pics?`,
		`show\s+me`,
		`let\s+me\s+see`,
		`can\s+i\s+see`,
		`(?:more|another)\s+pic`,
		`just\s+(?:one|a)\s+(?:pic|nude)`,
		`gimme\s+(?:a\s+)?(?:pic|nudes?)`,
		`(?:pics?|nudes?)\s+(?:plz|pls|please|now|\?)`,
	}},
	{LabelSexual, []string{
		`what\s+(?:are\s+)?(?:you|u)\s+wearing`,
		`send\s+(?:me\s+)?nudes?`,
		`(?:wanna|want\s+to)\s+(?:fuck|bang|smash|hook\s*up)`,
		`(?:so\s+)?(?:horny|hard|wet)`,
		`naked`,
		`come\s+sit\s+on`,
		`(?:ur|your)\s+(?:tits?|ass|body)`,
		`(?:naughty|dirty|freaky)`,
	}},
	{LabelMeetupReq, []string{
		`(?:let'?s?|we\s+should|can\s+we|wanna)\s+(?:meet|hang|chill|link|grab)`,
		`(?:take|bring)\s+(?:you|u)\s+out`,
		`(?:get|grab)\s+(?:dinner|lunch|drinks?|coffee|food)`,
		`come\s+(?:over|thru|through)`,
		`pull\s+up`,
		`when\s+can\s+(?:i|we)\s+(?:see|meet)\s+(?:you|u)`,
		`(?:free|available|down)\s+(?:tonight|later|this\s+weekend|to\s+hang)`,
		`(?:wanna|want\s+to)\s+(?:see|meet)\s+(?:you|u)`,
		`hang\s*out`,
		`link\s*up`,
	}},
	{LabelSkeptical, []string{
		`(?:are\s+)?(?:you|u)\s+(?:a\s+)?(?:bot|real|fake)`,
		`prove\s+(?:it|(?:you'?re?|ur|u\s+are)\s+real)`,
		`send\s+(?:a\s+)?vid`,
		`catfish`,
		`too\s+good\s+to\s+be`,
		`(?:you|u)\s+(?:a\s+)?(?:bot|scam)`,
		`is\s+this\s+(?:actually\s+)?(?:you|u)`,
		`how\s+do\s+i\s+know\s+(?:you'?re?|ur)\s+real`,
	}},
	{LabelContactReq, []string{
		`(?:what'?s?|give\s+me)\s+(?:your|ur)\s+(?:snap|snapchat|number|insta|ig)`,
		`add\s+me\s+on\s+snap`,
		`(?:got|have)\s+(?:snap|snapchat)`,
		`snap\s*(?:me|chat)?[\s\?]`,
		`(?:whats?|give)\s+(?:ur|your)\s+(?:number|#)`,
	}},
	{LabelOfferQuestion, []string{
		`(?:what'?s?|how\s+much)\s+(?:is\s+)?(?:your|ur|the)\s+(?:premium|page|sub(?:scription)?)`,
		`what\s+(?:do\s+)?(?:you|u)\s+post\s+(?:on\s+)?(?:there|it)`,
		`is\s+(?:it|your\s+page)\s+worth`,
		`what'?s?\s+on\s+(?:your|ur)\s+page`,
		`(?:do\s+)?(?:you|u)\s+(?:have|got)\s+(?:a\s+)?(?:premium|page)`,
	}},
	{LabelEmotional, []string{
		`(?:rough|bad|hard|shit+y?)\s+(?:day|week|time)`,
		`(?:feeling|feel)\s+(?:down|sad|lonely|depressed|empty|lost)`,
		`no\s+one\s+(?:gets|understands)`,
		`(?:need|want)\s+(?:someone\s+)?to\s+talk`,
		`going\s+through\s+(?:a\s+lot|some\s+stuff|shit)`,
		`(?:stressed|anxious|worried)`,
	}},
	{LabelCompliment, []string{
		`(?:you'?re?|ur)\s+(?:so\s+)?(?:hot|sexy|beautiful|gorgeous|fine|cute|pretty|stunning|fire|insane)`,
		`(?:damn|omg|wow)\s+(?:you'?re?|ur)`,
		`(?:nice|great|amazing)\s+(?:pics?|body)`,
		`(?:you|u)\s+(?:look|are)\s+(?:incredible|amazing|perfect)`,
		`i\s+(?:like|love)\s+(?:your|ur)`,
		`(?:body|pics?)\s+(?:is|are|looks?)\s+(?:fire|insane|perfect|hot|amazing)`,
		`(?:fire|insane|perf|perfect)\s*$`,
	}},
	{LabelLocationShare, []string{
		`(?:i'?m|im)\s+(?:from|in|at)\s+\w+`,
		`i\s+live\s+(?:in|near)\s+\w+`,
		`(?:from|based\s+in)\s+\w+(?:\s+\w+)?`,
	}},
	{LabelLocationAsk, []string{
		`where\s+(?:are\s+)?(?:you|u)\s+(?:at|from|located)`,
		`(?:you|u)\s+(?:near|close|around)`,
		`what\s+(?:city|area|state)`,
	}},
	{LabelGreeting, []string{
		`^hey+\s*$`,
		`^hi+\s*$`,
		`^hello+\s*$`,
		`^sup\s*$`,
		`^yo+\s*$`,
		`^what'?s?\s*up`,
		`^wyd\s*$`,
		`^how'?s?\s*it\s*going`,
		`^how\s+(?:are\s+)?(?:you|u)`,
	}},
}

type compiledRule struct {
	label    Label
	patterns []*regexp.Regexp
}

// Ruleset is an immutable compiled classification table. Build one at
// startup and share it; Classify does no locking.
type Ruleset struct {
	rules []compiledRule
}

// NewRuleset compiles a rule table, preserving priority order.
func NewRuleset(rules []Rule) (*Ruleset, error) {
	rs := &Ruleset{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{label: r.Label, patterns: make([]*regexp.Regexp, 0, len(r.Patterns))}
		for _, p := range r.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("intent: bad pattern for %s: %w", r.Label, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		rs.rules = append(rs.rules, cr)
	}
	return rs, nil
}

var (
	defaultRulesetOnce sync.Once
	defaultRuleset     *Ruleset
)

// DefaultRuleset returns the built-in table, compiled once.
func DefaultRuleset() *Ruleset {
	defaultRulesetOnce.Do(func() {
		rs, err := NewRuleset(defaultRules)
		if err != nil {
			panic(err)
		}
		defaultRuleset = rs
	})
	return defaultRuleset
}
