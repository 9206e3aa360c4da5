package guardrail

import (
	"regexp"

	"github.com/estatewise/sentinel/pkg/domain/security"
)

// Pattern tables for the default classifier, tuned for a real-estate
// assistant. Inbound tables screen user messages, outbound tables screen
// model responses.

type patternGroup struct {
	level    security.RiskLevel
	category string
	patterns []*regexp.Regexp
}

var inboundGroups = []patternGroup{
	{
		level:    security.Critical,
		category: "harmful",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(hack|exploit|bypass|inject|sql|script|xss)`),
			regexp.MustCompile(`(?i)(password|token|api[_\s]?key|secret)`),
			regexp.MustCompile(`(?i)(delete|drop|truncate|alter)\s+(table|database)`),
			regexp.MustCompile(`(?i)(exec|execute|eval|system|shell|cmd)`),
		},
	},
	{
		level:    security.High,
		category: "harmful",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(fraud|scam|money\s+laundering|illegal)`),
			regexp.MustCompile(`(?i)(discriminat\w+|racist|sexist|harassment)`),
			regexp.MustCompile(`(?i)(personal\s+information|social\s+security|credit\s+card)`),
			regexp.MustCompile(`(?i)(fake|forged|counterfeit)\s+(document|license|permit)`),
		},
	},
	{
		level:    security.High,
		category: "inappropriate",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(illegal|unlawful|criminal)\s+(activity|practice|scheme)`),
			regexp.MustCompile(`(?i)(housing|rental)\s+(discrimination|bias)`),
			regexp.MustCompile(`(?i)(personal|private)\s+.{0,10}(information|data|details)`),
			regexp.MustCompile(`(?i)(bypass|circumvent|avoid)\s+(screening|background\s+check)`),
		},
	},
	{
		level:    security.Medium,
		category: "harmful",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(off\s*the\s*books|under\s*the\s*table|cash\s*only)`),
			regexp.MustCompile(`(?i)(avoid|evade)\s+(tax|regulation|law)`),
			regexp.MustCompile(`(?i)(insider\s+information|market\s+manipulation)`),
			regexp.MustCompile(`(?i)(brib\w+|kickback|payoff)`),
		},
	},
	{
		level:    security.Medium,
		category: "spam",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(visit|click|buy|sell)\s+.{0,20}(now|today|here)`),
			regexp.MustCompile(`(?i)(earn|make)\s+\$?\d+.{0,20}(quickly|fast|easy)`),
			regexp.MustCompile(`(?i)(limited\s+time|act\s+now|don't\s+miss)`),
		},
	},
	{
		level:    security.Low,
		category: "pressure",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(urgent|emergency|immediate|asap)\s*.{0,20}(respond|reply|answer)`),
			regexp.MustCompile(`(?i)repeatedly\s+.{0,10}(ask|request|demand)`),
		},
	},
}

var outboundGroups = []patternGroup{
	{
		level:    security.Critical,
		category: "unsafe_advice",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(guarantee|promise|certain).{0,30}(profit|return|investment)`),
			regexp.MustCompile(`(?i)(illegal|unlawful|fraudulent)\s+(advice|recommendation)`),
			regexp.MustCompile(`(?i)(no\s+inspection|skip\s+inspection|avoid\s+inspection)`),
			regexp.MustCompile(`(?i)(fake|forge|falsify)\s+(document|signature|information)`),
		},
	},
	{
		level:    security.High,
		category: "unsafe_advice",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(discriminat\w+|bias|prejudice)\s+.{0,20}(tenant|buyer|seller)`),
			regexp.MustCompile(`(?i)(hide|conceal|omit)\s+.{0,20}(defect|problem|issue)`),
			regexp.MustCompile(`(?i)(lie|mislead|deceive)\s+.{0,20}(client|customer|buyer)`),
			regexp.MustCompile(`(?i)(under\s+the\s+table|off\s+the\s+books|cash\s+deal)`),
		},
	},
	{
		level:    security.High,
		category: "compliance",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(personal|private|confidential)\s+.{0,20}(information|data)`),
			regexp.MustCompile(`(?i)(ssn|social\s+security|credit\s+score)`),
			regexp.MustCompile(`(?i)(exact|specific)\s+.{0,20}(address|location)\s+of\s+.{0,20}(person|individual)`),
			regexp.MustCompile(`(?i)(contact|call|text)\s+.{0,20}\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`),
			regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		},
	},
	{
		level:    security.Medium,
		category: "unsafe_advice",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(definite|certain|guaranteed)\s+.{0,20}(appreciation|value\s+increase)`),
			regexp.MustCompile(`(?i)(can't\s+lose|risk\s*-?\s*free|sure\s+thing)`),
			regexp.MustCompile(`(?i)(medical|health|safety)\s+.{0,20}(advice|recommendation)`),
			regexp.MustCompile(`(?i)(legal|tax|financial)\s+advice\b`),
		},
	},
	{
		level:    security.Medium,
		category: "misinformation",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(market\s+will\s+definitely|prices\s+will\s+certainly)`),
			regexp.MustCompile(`(?i)(never|always)\s+.{0,20}(appreciate|depreciate)`),
			regexp.MustCompile(`(?i)(government\s+conspiracy|market\s+manipulation)`),
			regexp.MustCompile(`(?i)(insider\s+information|secret\s+knowledge)`),
		},
	},
	{
		level:    security.Low,
		category: "unsafe_advice",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(should|must|need\s+to)\s+(buy|sell|invest)\s+.{0,20}(now|immediately)`),
			regexp.MustCompile(`(?i)(always|never)\s+.{0,20}(invest|buy|sell)`),
		},
	},
}

var confidenceWords = regexp.MustCompile(`(?i)(definitely|certainly|guarantee|promise|sure|always|never)`)
