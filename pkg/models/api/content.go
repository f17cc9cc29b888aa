package api

import "time"

type RecommendationStub struct {
	ID                           string `json:"id"`
	ReferenceID                  string `json:"referenceId"`
	Reference                    string `json:"reference"`
	Title                        string `json:"title"`
	ShortDescription             string `json:"shortDescription"`
	ImpactLevel                  string `json:"impactLevel"`
	Status                       string `json:"status"`
	CTA                          string `json:"cta"`
	Category                     string `json:"category,omitempty"`
	DisplayOrder                 int    `json:"displayOrder,omitempty"`
	RationalePreview             string `json:"rationalePreview,omitempty"`
	EstimatedMonthlySavingsMinor int64  `json:"estimatedMonthlySavingsMinor"`
	Currency                     string `json:"currency"`
	RiskLevel                    string `json:"riskLevel"`
	AccountScope                 string `json:"accountScope"`
}

type ContentMeta struct {
	RequestID  string `json:"requestId"`
	TenantID   string `json:"tenantId"`
	Day        string `json:"day"`
	DataSource string `json:"dataSource,omitempty"`
}

type RecommendationsResponse struct {
	Recommendations            []RecommendationStub `json:"recommendations"`
	TotalPotentialSavingsMinor int64                `json:"totalPotentialSavingsMinor"`
	Currency                   string               `json:"currency,omitempty"`
	Meta                       ContentMeta          `json:"meta"`
}

type DataPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type TimelineBlock struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	MetricType     string      `json:"metricType"`
	TimeRange      string      `json:"timeRange"`
	DataPoints     []DataPoint `json:"dataPoints"`
	DisclaimerFlag bool        `json:"disclaimerFlag"`
}

type TimelinesResponse struct {
	Blocks []TimelineBlock `json:"blocks"`
	Meta   ContentMeta     `json:"meta"`
}

type KPICard struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	ValueMinor    int64    `json:"valueMinor"`
	Currency      string   `json:"currency"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	References    []string `json:"references"`
}

type DashboardResponse struct {
	Cards []KPICard   `json:"cards"`
	Meta  ContentMeta `json:"meta"`
}
