package domain

// KPICard is a single headline figure on the dashboard. References holds the
// reference tokens of every fact the value was derived from.
type KPICard struct {
	ID            string
	Title         string
	ValueMinor    int64
	Currency      string
	ChangePercent *float64
	References    []string
}

type Dashboard struct {
	TenantID   string
	Day        CalendarDay
	DataSource string
	Cards      []KPICard
}
