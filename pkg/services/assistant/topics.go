package assistant

import (
	"strings"
	"unicode"
)

type Topic string

const (
	TopicCost           Topic = "cost"
	TopicOptimization   Topic = "optimization"
	TopicRecommendation Topic = "recommendation"
	TopicTrend          Topic = "trend"
	TopicConversational Topic = "conversational"
	TopicGeneral        Topic = "general"
)

// substantiveTopics is also the order in which answer sections are written.
var substantiveTopics = []Topic{TopicCost, TopicTrend, TopicOptimization, TopicRecommendation}

var lexicon = map[string]Topic{
	"cost": TopicCost, "costs": TopicCost, "spend": TopicCost, "spending": TopicCost,
	"spent": TopicCost, "bill": TopicCost, "billing": TopicCost, "invoice": TopicCost,
	"expensive": TopicCost, "price": TopicCost, "pricing": TopicCost, "budget": TopicCost,
	"charges": TopicCost, "paying": TopicCost,

	"optimize": TopicOptimization, "optimise": TopicOptimization, "optimization": TopicOptimization,
	"optimisation": TopicOptimization, "save": TopicOptimization, "saving": TopicOptimization,
	"savings": TopicOptimization, "reduce": TopicOptimization, "cut": TopicOptimization,
	"lower": TopicOptimization, "cheaper": TopicOptimization, "waste": TopicOptimization,
	"rightsize": TopicOptimization, "rightsizing": TopicOptimization, "opportunities": TopicOptimization,
	"opportunity": TopicOptimization, "efficiency": TopicOptimization,

	"recommend": TopicRecommendation, "recommendation": TopicRecommendation,
	"recommendations": TopicRecommendation, "suggest": TopicRecommendation,
	"suggestion": TopicRecommendation, "suggestions": TopicRecommendation, "advice": TopicRecommendation,
	"should": TopicRecommendation, "action": TopicRecommendation, "actions": TopicRecommendation,

	"trend": TopicTrend, "trends": TopicTrend, "forecast": TopicTrend, "projection": TopicTrend,
	"timeline": TopicTrend, "history": TopicTrend, "week": TopicTrend, "weekly": TopicTrend,
	"daily": TopicTrend, "peak": TopicTrend, "growth": TopicTrend, "increase": TopicTrend,
	"spike": TopicTrend, "changed": TopicTrend,

	"hi": TopicConversational, "hello": TopicConversational, "hey": TopicConversational,
	"thanks": TopicConversational, "thank": TopicConversational, "bye": TopicConversational,
	"goodbye": TopicConversational, "cheers": TopicConversational,
}

// Classify maps a prompt to the topics it touches. Substantive topics win over
// conversational ones; a prompt matching nothing is general.
func Classify(prompt string) []Topic {
	found := make(map[Topic]bool)
	words := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if topic, ok := lexicon[w]; ok {
			found[topic] = true
		}
	}

	var topics []Topic
	for _, t := range substantiveTopics {
		if found[t] {
			topics = append(topics, t)
		}
	}
	if len(topics) > 0 {
		return topics
	}
	if found[TopicConversational] {
		return []Topic{TopicConversational}
	}
	return []Topic{TopicGeneral}
}
