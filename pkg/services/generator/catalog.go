package generator

import "github.com/de-tools/blocks/pkg/models/domain"

type RecommendationTemplate struct {
	Slug            string
	Titles          []string
	Description     string
	Category        string
	Impact          domain.ImpactLevel
	Risk            domain.RiskLevel
	Rationale       string
	MinSavingsMinor int64
	MaxSavingsMinor int64
}

type TimelineTemplate struct {
	Slug       string
	Title      string
	MetricType domain.MetricType
	Base       float64
	Trend      float64 // relative change per point
	Noise      float64 // relative noise amplitude
	Forward    bool    // points lie after the generation day
	Disclaimer bool
}

type statusWeight struct {
	status domain.RecommendationStatus
	weight int
}

// statusDistribution is the declared share of each status among generated stubs.
var statusDistribution = []statusWeight{
	{status: domain.StatusPrototype, weight: 40},
	{status: domain.StatusComingSoon, weight: 35},
	{status: domain.StatusFuture, weight: 25},
}

var defaultServices = []string{"ec2", "s3", "rds", "lambda", "cloudwatch"}

var defaultAccountScopes = []string{"production", "staging", "shared-services"}

var defaultRecommendations = []RecommendationTemplate{
	{
		Slug:            "rightsize-ec2",
		Titles:          []string{"Rightsize over-provisioned EC2 instances", "Downsize idle EC2 capacity"},
		Description:     "Several instances average under 15% CPU over the last two weeks.",
		Category:        "compute",
		Impact:          domain.ImpactHigh,
		Risk:            domain.RiskMedium,
		Rationale:       "Lower instance sizes keep the observed peak load under 70% utilisation.",
		MinSavingsMinor: 40_000,
		MaxSavingsMinor: 180_000,
	},
	{
		Slug:            "delete-unattached-ebs",
		Titles:          []string{"Delete unattached EBS volumes", "Clean up orphaned EBS volumes"},
		Description:     "Volumes in the available state have not been attached for 30 days.",
		Category:        "storage",
		Impact:          domain.ImpactMedium,
		Risk:            domain.RiskLow,
		Rationale:       "Unattached volumes are billed at full provisioned capacity.",
		MinSavingsMinor: 5_000,
		MaxSavingsMinor: 45_000,
	},
	{
		Slug:            "s3-lifecycle",
		Titles:          []string{"Move cold S3 objects to Infrequent Access", "Add S3 lifecycle rules for cold data"},
		Description:     "Most objects in large buckets were not read in the last 90 days.",
		Category:        "storage",
		Impact:          domain.ImpactMedium,
		Risk:            domain.RiskLow,
		Rationale:       "Infrequent Access storage costs roughly 45% less per GB-month.",
		MinSavingsMinor: 8_000,
		MaxSavingsMinor: 60_000,
	},
	{
		Slug:            "compute-savings-plan",
		Titles:          []string{"Commit to a Compute Savings Plan", "Cover steady compute with a Savings Plan"},
		Description:     "Baseline compute usage has been stable for the last three months.",
		Category:        "commitments",
		Impact:          domain.ImpactHigh,
		Risk:            domain.RiskMedium,
		Rationale:       "A one year no-upfront plan discounts covered usage by up to 30%.",
		MinSavingsMinor: 90_000,
		MaxSavingsMinor: 400_000,
	},
	{
		Slug:            "rds-reserved",
		Titles:          []string{"Reserve long-running RDS instances", "Buy RDS reserved capacity"},
		Description:     "Production databases have run continuously for over a year.",
		Category:        "database",
		Impact:          domain.ImpactHigh,
		Risk:            domain.RiskLow,
		Rationale:       "Reserved instances are cheaper than on-demand for always-on databases.",
		MinSavingsMinor: 30_000,
		MaxSavingsMinor: 150_000,
	},
	{
		Slug:            "nat-gateway-endpoints",
		Titles:          []string{"Route S3 traffic through VPC endpoints", "Cut NAT gateway data processing"},
		Description:     "A large share of NAT gateway traffic goes to S3 and DynamoDB.",
		Category:        "network",
		Impact:          domain.ImpactMedium,
		Risk:            domain.RiskLow,
		Rationale:       "Gateway endpoints carry no per-GB processing charge.",
		MinSavingsMinor: 10_000,
		MaxSavingsMinor: 70_000,
	},
	{
		Slug:            "spot-batch",
		Titles:          []string{"Run batch workloads on Spot", "Shift interruptible jobs to Spot capacity"},
		Description:     "Nightly batch jobs tolerate interruption and retry automatically.",
		Category:        "compute",
		Impact:          domain.ImpactHigh,
		Risk:            domain.RiskHigh,
		Rationale:       "Spot capacity is typically 60-90% cheaper than on-demand.",
		MinSavingsMinor: 25_000,
		MaxSavingsMinor: 200_000,
	},
	{
		Slug:            "lambda-memory",
		Titles:          []string{"Tune Lambda memory settings", "Right-size Lambda memory allocation"},
		Description:     "Functions use well under half of their configured memory.",
		Category:        "serverless",
		Impact:          domain.ImpactLow,
		Risk:            domain.RiskLow,
		Rationale:       "Lambda is billed per GB-second of configured memory.",
		MinSavingsMinor: 1_000,
		MaxSavingsMinor: 15_000,
	},
	{
		Slug:            "log-retention",
		Titles:          []string{"Set CloudWatch log retention", "Expire old CloudWatch log groups"},
		Description:     "Log groups without retention keep growing indefinitely.",
		Category:        "observability",
		Impact:          domain.ImpactLow,
		Risk:            domain.RiskLow,
		Rationale:       "A 30 day retention policy removes most stored log volume.",
		MinSavingsMinor: 2_000,
		MaxSavingsMinor: 25_000,
	},
	{
		Slug:            "graviton-migration",
		Titles:          []string{"Migrate to Graviton instances", "Adopt ARM-based Graviton instances"},
		Description:     "Container workloads already publish multi-arch images.",
		Category:        "compute",
		Impact:          domain.ImpactMedium,
		Risk:            domain.RiskMedium,
		Rationale:       "Graviton instances offer up to 20% lower price per vCPU.",
		MinSavingsMinor: 20_000,
		MaxSavingsMinor: 120_000,
	},
}

var defaultTimelines = []TimelineTemplate{
	{
		Slug:       "daily-spend",
		Title:      "Daily spend",
		MetricType: domain.MetricSpend,
	},
	{
		Slug:       "p95-latency",
		Title:      "API p95 latency (ms)",
		MetricType: domain.MetricPerformance,
		Base:       180,
		Trend:      -0.01,
		Noise:      0.08,
	},
	{
		Slug:       "spend-projection",
		Title:      "Daily spend projection",
		MetricType: domain.MetricProjection,
		Base:       2_500,
		Trend:      0.015,
		Noise:      0.02,
		Forward:    true,
		Disclaimer: true,
	},
	{
		Slug:       "cpu-utilisation",
		Title:      "Average CPU utilisation (%)",
		MetricType: domain.MetricPerformance,
		Base:       34,
		Trend:      0.005,
		Noise:      0.12,
	},
	{
		Slug:       "idle-resources",
		Title:      "Idle resources detected",
		MetricType: domain.MetricOther,
		Base:       12,
		Trend:      -0.03,
		Noise:      0.2,
	},
}
