// Package awsce serves cost aggregates from AWS Cost Explorer.
package awsce

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/blocks/pkg/models/domain"
	"github.com/de-tools/blocks/pkg/services/cost"
)

const (
	dateLayout = "2006-01-02"
	dailyDays  = 7
	metric     = "UnblendedCost"
)

var serviceSlugs = map[string]string{
	"Amazon Elastic Compute Cloud - Compute": "ec2",
	"Amazon Simple Storage Service":          "s3",
	"Amazon Relational Database Service":     "rds",
	"AWS Lambda":                             "lambda",
	"AmazonCloudWatch":                       "cloudwatch",
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// CostExplorerAPI is the part of the Cost Explorer client the source uses.
type CostExplorerAPI interface {
	GetCostAndUsage(
		ctx context.Context,
		params *costexplorer.GetCostAndUsageInput,
		optFns ...func(*costexplorer.Options),
	) (*costexplorer.GetCostAndUsageOutput, error)
}

type source struct {
	client CostExplorerAPI
}

func SourceFactory(ctx context.Context, settings cost.Settings) (cost.AggregateSource, error) {
	cfg, err := LoadConfig(ctx, settings.AWSProfile, settings.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return NewSource(costexplorer.NewFromConfig(*cfg)), nil
}

func NewSource(client CostExplorerAPI) cost.AggregateSource {
	return &source{client: client}
}

func (s *source) Name() string {
	return cost.AWSSourceName
}

// Aggregates returns the daily spend of the seven days ending at day followed
// by month-to-date spend per service. The tenant maps to the account behind
// the configured profile.
func (s *source) Aggregates(ctx context.Context, _ string, day domain.CalendarDay) ([]domain.Aggregate, error) {
	end := day.AddDays(1)

	daily, err := s.client.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(day.AddDays(-(dailyDays - 1)).String()),
			End:   aws.String(end.String()),
		},
		Granularity: types.GranularityDaily,
		Metrics:     []string{metric},
		Filter:      excludeCredits(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get daily cost and usage: %w", err)
	}

	aggs, err := dailyAggregates(daily)
	if err != nil {
		return nil, err
	}

	monthStart := domain.CalendarDay{Year: day.Year, Month: day.Month, Day: 1}
	monthly, err := s.client.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(monthStart.String()),
			End:   aws.String(end.String()),
		},
		Granularity: types.GranularityMonthly,
		Metrics:     []string{metric},
		Filter:      excludeCredits(),
		GroupBy: []types.GroupDefinition{
			{
				Type: types.GroupDefinitionTypeDimension,
				Key:  aws.String("SERVICE"),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly cost by service: %w", err)
	}

	return append(aggs, serviceAggregates(monthly, monthStart, end)...), nil
}

func excludeCredits() *types.Expression {
	return &types.Expression{
		Not: &types.Expression{
			Dimensions: &types.DimensionValues{
				Key:    types.DimensionRecordType,
				Values: []string{"Credit", "Refund"},
			},
		},
	}
}

func dailyAggregates(out *costexplorer.GetCostAndUsageOutput) ([]domain.Aggregate, error) {
	var aggs []domain.Aggregate
	for _, result := range out.ResultsByTime {
		start, err := time.Parse(dateLayout, aws.ToString(result.TimePeriod.Start))
		if err != nil {
			return nil, fmt.Errorf("failed to parse start time: %w", err)
		}
		endTime, err := time.Parse(dateLayout, aws.ToString(result.TimePeriod.End))
		if err != nil {
			return nil, fmt.Errorf("failed to parse end time: %w", err)
		}

		amount, currency := minorUnits(result.Total[metric])
		d := domain.DayOf(start)
		aggs = append(aggs, domain.Aggregate{
			ID:          d.String(),
			Label:       fmt.Sprintf("Spend on %s", d),
			Metric:      "daily_spend",
			AmountMinor: amount,
			Currency:    currency,
			PeriodStart: start,
			PeriodEnd:   endTime,
		})
	}
	return aggs, nil
}

func serviceAggregates(out *costexplorer.GetCostAndUsageOutput, monthStart, end domain.CalendarDay) []domain.Aggregate {
	totals := make(map[string]int64)
	currencies := make(map[string]string)
	var order []string

	for _, result := range out.ResultsByTime {
		for _, group := range result.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			svc := serviceSlug(group.Keys[0])
			amount, currency := minorUnits(group.Metrics[metric])
			if _, ok := totals[svc]; !ok {
				order = append(order, svc)
			}
			totals[svc] += amount
			currencies[svc] = currency
		}
	}

	aggs := make([]domain.Aggregate, 0, len(order))
	for _, svc := range order {
		aggs = append(aggs, domain.Aggregate{
			ID:          fmt.Sprintf("%04d-%02d:%s", monthStart.Year, int(monthStart.Month), svc),
			Label:       fmt.Sprintf("Month-to-date %s spend", svc),
			Metric:      "month_to_date_spend",
			Service:     svc,
			AmountMinor: totals[svc],
			Currency:    currencies[svc],
			PeriodStart: monthStart.Time(),
			PeriodEnd:   end.Time(),
		})
	}
	return aggs
}

func minorUnits(v types.MetricValue) (int64, string) {
	currency := aws.ToString(v.Unit)
	if currency == "" {
		currency = "USD"
	}
	amount, err := strconv.ParseFloat(aws.ToString(v.Amount), 64)
	if err != nil {
		return 0, currency
	}
	return int64(math.Round(amount * 100)), currency
}

func serviceSlug(name string) string {
	if slug, ok := serviceSlugs[name]; ok {
		return slug
	}
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
