package domain

import "time"

type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "Low"
	ImpactMedium ImpactLevel = "Medium"
	ImpactHigh   ImpactLevel = "High"
)

type RecommendationStatus string

const (
	StatusPrototype  RecommendationStatus = "Prototype"
	StatusComingSoon RecommendationStatus = "ComingSoon"
	StatusFuture     RecommendationStatus = "Future"
)

type CallToAction string

const (
	CTATryNow      CallToAction = "try_now"
	CTANotifyMe    CallToAction = "notify_me"
	CTAViewRoadmap CallToAction = "view_roadmap"
)

// CTA returns the affordance offered for a recommendation in this status.
func (s RecommendationStatus) CTA() CallToAction {
	switch s {
	case StatusPrototype:
		return CTATryNow
	case StatusComingSoon:
		return CTANotifyMe
	default:
		return CTAViewRoadmap
	}
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type RecommendationStub struct {
	ID               string // slug, unique within a batch
	ReferenceID      string // uuid, payload of the rec: token
	Title            string
	ShortDescription string
	ImpactLevel      ImpactLevel
	Status           RecommendationStatus
	Category         string
	DisplayOrder     int
	RationalePreview string

	EstimatedMonthlySavingsMinor int64 // cents
	Currency                     string
	RiskLevel                    RiskLevel
	AccountScope                 string
}

func (r RecommendationStub) Ref() ReferenceToken {
	return RecommendationRef(r.ReferenceID)
}

type MetricType string

const (
	MetricSpend       MetricType = "Spend"
	MetricPerformance MetricType = "Performance"
	MetricProjection  MetricType = "Projection"
	MetricOther       MetricType = "Other"
)

type DataPoint struct {
	Timestamp time.Time
	Value     float64
}

type TimelineBlock struct {
	ID             string
	Title          string
	MetricType     MetricType
	TimeRange      string
	DataPoints     []DataPoint
	DisclaimerFlag bool
}

// Aggregate is a precomputed summary metric addressed by an agg: token.
type Aggregate struct {
	ID          string // 2025-09-19, 2025-09-19T10, 2025-09:ec2
	Label       string
	Metric      string // daily_spend, peak_hour_spend, month_to_date_spend
	Service     string
	AmountMinor int64
	Currency    string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (a Aggregate) Ref() ReferenceToken {
	return AggregateRef(a.ID)
}

// Content is everything generated for one tenant on one calendar day.
type Content struct {
	TenantID        string
	Day             CalendarDay
	Recommendations []RecommendationStub
	Timelines       []TimelineBlock
	Aggregates      []Aggregate
}
