package domain

type ReferenceKind string

const (
	ReferenceAggregate      ReferenceKind = "agg"
	ReferenceRecommendation ReferenceKind = "rec"
)

// ReferenceToken is a typed citation. Textual form is "<kind>:<id>", inline form
// wraps it as "[REF:<kind>:<id>]".
type ReferenceToken struct {
	Kind ReferenceKind
	ID   string
}

func AggregateRef(id string) ReferenceToken {
	return ReferenceToken{Kind: ReferenceAggregate, ID: id}
}

func RecommendationRef(id string) ReferenceToken {
	return ReferenceToken{Kind: ReferenceRecommendation, ID: id}
}

func (t ReferenceToken) String() string {
	return string(t.Kind) + ":" + t.ID
}

func (t ReferenceToken) Inline() string {
	return "[REF:" + t.String() + "]"
}
