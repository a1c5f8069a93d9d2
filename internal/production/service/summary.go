package service

import (
	"fmt"
	"sort"
	"time"

	"cooplog/internal/models"
)

// MonthWindow is the trailing aggregation span in calendar months,
// including the current month.
const MonthWindow = 6

// WindowStart returns the first day of the calendar month that opens the
// trailing window ending at now's month. With now in August 2024 the
// window start is March 1st 2024: six months, March through August.
func WindowStart(now time.Time) time.Time {
	u := now.UTC()
	firstOfMonth := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -(MonthWindow - 1), 0)
}

// SummarizeMonthly groups records by the calendar month of their date and
// returns totals plus the number of recorded days per month, most recent
// month first. It is a pure function of its input: no side effects, fully
// reproducible from raw records. Months without records are simply absent.
func SummarizeMonthly(records []models.EggProductionRecord) []models.MonthlyAggregate {
	groups := make(map[string]*models.MonthlyAggregate)
	for _, record := range records {
		// Group on the stored calendar date only; no timezone shift may
		// push a record into an adjacent month.
		date := record.Date.UTC()
		key := fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
		agg, ok := groups[key]
		if !ok {
			agg = &models.MonthlyAggregate{MonthKey: key}
			groups[key] = agg
		}
		agg.TotalCount += record.Count
		agg.DaysRecorded++
	}

	result := make([]models.MonthlyAggregate, 0, len(groups))
	for _, agg := range groups {
		result = append(result, *agg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MonthKey > result[j].MonthKey
	})
	return result
}
