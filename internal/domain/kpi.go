package domain

import "github.com/montanaflynn/stats"

// DefaultReportingDays is the period the daily average is computed over.
const DefaultReportingDays = 30

// KPIs are the summary figures shown on the dashboard cards. Every field is
// zero for an empty view.
type KPIs struct {
	Total        int     `json:"total"`
	DailyAverage int     `json:"daily_average"`
	Open         int     `json:"open"`
	InProgress   int     `json:"in_progress"`
	Resolved     int     `json:"resolved"`
	AverageRisk  float64 `json:"average_risk"`
	MedianRisk   float64 `json:"median_risk"`
	P90Risk      float64 `json:"p90_risk"`
}

// ComputeKPIs summarizes records. The daily average is the integer total
// divided by reportingDays, or 0 when reportingDays is not positive.
func ComputeKPIs(records []Record, reportingDays int) KPIs {
	if len(records) == 0 {
		return KPIs{}
	}

	k := KPIs{Total: len(records)}
	if reportingDays > 0 {
		k.DailyAverage = k.Total / reportingDays
	}

	risks := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		switch r.Status {
		case StatusOpen:
			k.Open++
		case StatusInProgress:
			k.InProgress++
		case StatusClosed:
			k.Resolved++
		}
		risks = append(risks, float64(r.Risk))
	}

	k.AverageRisk = roundedStat(risks.Mean)
	k.MedianRisk = roundedStat(risks.Median)
	k.P90Risk = roundedStat(func() (float64, error) { return risks.Percentile(90) })
	return k
}

// roundedStat evaluates f and rounds to two decimals, returning 0 on error.
func roundedStat(f func() (float64, error)) float64 {
	v, err := f()
	if err != nil {
		return 0
	}
	rounded, err := stats.Round(v, 2)
	if err != nil {
		return 0
	}
	return rounded
}
