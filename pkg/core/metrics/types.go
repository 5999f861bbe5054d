// Package metrics computes every financial figure locally and
// deterministically. The language model downstream only interprets the
// numbers produced here; it never does arithmetic.
package metrics

// TrendDirection classifies the revenue trend over the comparison window.
type TrendDirection string

const (
	TrendGrowing          TrendDirection = "growing"
	TrendStable           TrendDirection = "stable"
	TrendDeclining        TrendDirection = "declining"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// PeriodSummary is the per-period projection used for display and for the
// prompt payload.
type PeriodSummary struct {
	Period    string  `json:"period"`
	Revenue   float64 `json:"revenue"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"margin_pct"`
}

// Snapshot is the immutable result of one engine run. Optional figures are
// pointers: a category absent from the whole dataset yields nil, never zero.
type Snapshot struct {
	AvgRevenue            float64  `json:"avg_revenue"`
	AvgCOGS               *float64 `json:"avg_cogs,omitempty"`
	AvgGrossProfit        *float64 `json:"avg_gross_profit,omitempty"`
	AvgGrossMarginPct     *float64 `json:"avg_gross_margin_pct,omitempty"`
	AvgOperatingProfit    float64  `json:"avg_operating_profit"`
	AvgOperatingMarginPct float64  `json:"avg_operating_margin_pct"`

	RevenueTrendPct       float64        `json:"revenue_trend_pct"`
	RevenueTrendDirection TrendDirection `json:"revenue_trend_direction"`

	COGSSharePct      *float64 `json:"cogs_share_pct,omitempty"`
	RentSharePct      *float64 `json:"rent_share_pct,omitempty"`
	PayrollSharePct   *float64 `json:"payroll_share_pct,omitempty"`
	MarketingSharePct *float64 `json:"marketing_share_pct,omitempty"`
	OtherSharePct     *float64 `json:"other_share_pct,omitempty"`

	Anomalies []string        `json:"anomalies"`
	ByPeriod  []PeriodSummary `json:"by_period"`
}
