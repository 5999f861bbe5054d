package metrics

import (
	"fmt"
	"math"
	"time"

	"finlens/pkg/core/table"
)

// Config holds the thresholds the engine works with. Passed explicitly at
// construction so tests can vary them; immutable afterwards.
type Config struct {
	TrendMinPeriods     int     `yaml:"trend_min_periods"`
	TrendWindow         int     `yaml:"trend_window"`
	TrendBandPct        float64 `yaml:"trend_band_pct"`
	AnomalyThresholdPct float64 `yaml:"anomaly_threshold_pct"`
	MaxAnomalies        int     `yaml:"max_anomalies"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		TrendMinPeriods:     6,
		TrendWindow:         3,
		TrendBandPct:        5,
		AnomalyThresholdPct: 30,
		MaxAnomalies:        5,
	}
}

// Engine derives a Snapshot from cleaned rows. Pure: no I/O, no randomness.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Compute runs the full metric suite over rows already sorted by period.
func (e *Engine) Compute(rows []table.PeriodRow) *Snapshot {
	revenues := make([]float64, len(rows))
	for i, r := range rows {
		revenues[i] = r.Revenue
	}
	avgRevenue := mean(revenues)

	// Gross profit figures exist only where cost of goods was reported.
	var cogsValues []float64
	for _, r := range rows {
		if r.COGS != nil {
			cogsValues = append(cogsValues, *r.COGS)
		}
	}
	var avgCOGS, avgGrossProfit, avgGrossMarginPct *float64
	if len(cogsValues) > 0 {
		c := round0(mean(cogsValues))
		gp := round0(avgRevenue - mean(cogsValues))
		avgCOGS, avgGrossProfit = &c, &gp
		if avgRevenue != 0 {
			gm := round1((avgRevenue - mean(cogsValues)) / avgRevenue * 100)
			avgGrossMarginPct = &gm
		}
	}

	profits := make([]float64, len(rows))
	for i := range rows {
		profits[i] = operatingProfit(&rows[i])
	}
	avgOperatingProfit := mean(profits)
	avgOperatingMarginPct := 0.0
	if avgRevenue != 0 {
		avgOperatingMarginPct = avgOperatingProfit / avgRevenue * 100
	}

	trendPct, trendDir := e.trend(revenues)

	byPeriod := make([]PeriodSummary, len(rows))
	for i, r := range rows {
		byPeriod[i] = PeriodSummary{
			Period:    r.Period.Format("2006-01-02"),
			Revenue:   r.Revenue,
			Profit:    profits[i],
			MarginPct: round1(profits[i] / r.Revenue * 100),
		}
	}

	return &Snapshot{
		AvgRevenue:            round0(avgRevenue),
		AvgCOGS:               avgCOGS,
		AvgGrossProfit:        avgGrossProfit,
		AvgGrossMarginPct:     avgGrossMarginPct,
		AvgOperatingProfit:    round0(avgOperatingProfit),
		AvgOperatingMarginPct: round1(avgOperatingMarginPct),
		RevenueTrendPct:       round1(trendPct),
		RevenueTrendDirection: trendDir,
		COGSSharePct:          avgShare(rows, func(r *table.PeriodRow) *float64 { return r.COGS }),
		RentSharePct:          avgShare(rows, func(r *table.PeriodRow) *float64 { return r.Rent }),
		PayrollSharePct:       avgShare(rows, func(r *table.PeriodRow) *float64 { return r.Payroll }),
		MarketingSharePct:     avgShare(rows, func(r *table.PeriodRow) *float64 { return r.Marketing }),
		OtherSharePct:         avgShare(rows, func(r *table.PeriodRow) *float64 { return r.OtherExpenses }),
		Anomalies:             e.detectAnomalies(rows),
		ByPeriod:              byPeriod,
	}
}

// operatingProfit is revenue minus every reported expense. Absent categories
// contribute nothing; an explicit zero still counts as reported.
func operatingProfit(r *table.PeriodRow) float64 {
	expenses := 0.0
	for _, v := range r.Expenses() {
		if v != nil {
			expenses += *v
		}
	}
	return r.Revenue - expenses
}

// trend compares the mean of the most recent window against the window
// immediately before it. Below the minimum period count the trend is
// unreliable and reported as insufficient data.
func (e *Engine) trend(values []float64) (float64, TrendDirection) {
	if len(values) < e.cfg.TrendMinPeriods {
		return 0, TrendInsufficientData
	}

	w := e.cfg.TrendWindow
	recent := mean(values[len(values)-w:])
	prior := mean(values[len(values)-2*w : len(values)-w])
	if prior == 0 {
		return 0, TrendStable
	}

	change := (recent - prior) / prior * 100
	switch {
	case change > e.cfg.TrendBandPct:
		return change, TrendGrowing
	case change < -e.cfg.TrendBandPct:
		return change, TrendDeclining
	default:
		return change, TrendStable
	}
}

// avgShare averages the per-period ratio of one category to that period's
// revenue. Averaging ratios, not the ratio of averages: the latter biases
// toward high-revenue periods. Returns nil when no period qualifies.
func avgShare(rows []table.PeriodRow, get func(*table.PeriodRow) *float64) *float64 {
	var shares []float64
	for i := range rows {
		if v := get(&rows[i]); v != nil && rows[i].Revenue > 0 {
			shares = append(shares, *v/rows[i].Revenue)
		}
	}
	if len(shares) == 0 {
		return nil
	}
	s := round1(mean(shares) * 100)
	return &s
}

// anomalyFields is the fixed scan order; it is not severity-ranked.
var anomalyFields = []struct {
	label string
	get   func(*table.PeriodRow) *float64
}{
	{"revenue", func(r *table.PeriodRow) *float64 { return &r.Revenue }},
	{"cost of goods", func(r *table.PeriodRow) *float64 { return r.COGS }},
	{"marketing", func(r *table.PeriodRow) *float64 { return r.Marketing }},
	{"payroll", func(r *table.PeriodRow) *float64 { return r.Payroll }},
	{"rent", func(r *table.PeriodRow) *float64 { return r.Rent }},
}

// detectAnomalies flags period-over-period jumps beyond the threshold,
// walking consecutive present values per field and collecting at most
// MaxAnomalies flags.
func (e *Engine) detectAnomalies(rows []table.PeriodRow) []string {
	anomalies := []string{}
	if len(rows) < 2 {
		return anomalies
	}

	for _, field := range anomalyFields {
		type point struct {
			period time.Time
			value  float64
		}
		var series []point
		for i := range rows {
			if v := field.get(&rows[i]); v != nil {
				series = append(series, point{rows[i].Period, *v})
			}
		}

		for i := 1; i < len(series); i++ {
			prev, curr := series[i-1], series[i]
			if prev.value == 0 {
				continue
			}
			change := (curr.value - prev.value) / prev.value * 100
			if math.Abs(change) <= e.cfg.AnomalyThresholdPct {
				continue
			}
			direction := "up"
			if change < 0 {
				direction = "down"
			}
			anomalies = append(anomalies, fmt.Sprintf("%s in %s went %s by %d%%",
				field.label, curr.period.Format("2006-01"), direction, int(math.Round(math.Abs(change)))))
			if len(anomalies) >= e.cfg.MaxAnomalies {
				return anomalies
			}
		}
	}
	return anomalies
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round0(v float64) float64 {
	return math.Round(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
