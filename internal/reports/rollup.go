package reports

import (
	"time"

	"github.com/aaditya574/ledgelogger/internal/ledger"
)

// DateFormat is the wire format for report dates.
const DateFormat = "2006-01-02"

// DailyReport carries the ledger entries of one day plus their totals.
type DailyReport struct {
	StartDate          string                 `json:"startDate"`
	EndDate            string                 `json:"endDate"`
	Buyings            []ledger.BuyingRecord  `json:"buyings"`
	TotalBuyingAmount  float64                `json:"totalBuyingAmount"`
	Sellings           []ledger.SellingRecord `json:"sellings"`
	TotalSellingAmount float64                `json:"totalSellingAmount"`
	NetProfitLoss      float64                `json:"netProfitLoss"`
}

// DayRollup is one day's totals inside a monthly report.
type DayRollup struct {
	Date               string  `json:"date"`
	TotalBuyingAmount  float64 `json:"totalBuyingAmount"`
	TotalSellingAmount float64 `json:"totalSellingAmount"`
	NetProfitLoss      float64 `json:"netProfitLoss"`
}

// MonthRollup is one month's totals inside a yearly report.
type MonthRollup struct {
	Month              string  `json:"month"`
	TotalBuyingAmount  float64 `json:"totalBuyingAmount"`
	TotalSellingAmount float64 `json:"totalSellingAmount"`
	NetProfitLoss      float64 `json:"netProfitLoss"`
}

// Summarize totals the raw buying and selling prices of the given records.
func Summarize(buyings []ledger.BuyingRecord, sellings []ledger.SellingRecord) (totalBuying, totalSelling, net float64) {
	for _, b := range buyings {
		totalBuying += b.BuyingPrice
	}
	for _, s := range sellings {
		totalSelling += s.SellingPrice
	}
	return totalBuying, totalSelling, totalSelling - totalBuying
}

// BuildDaily assembles the daily report for one UTC day.
func BuildDaily(day time.Time, buyings []ledger.BuyingRecord, sellings []ledger.SellingRecord) DailyReport {
	if buyings == nil {
		buyings = []ledger.BuyingRecord{}
	}
	if sellings == nil {
		sellings = []ledger.SellingRecord{}
	}
	totalBuying, totalSelling, net := Summarize(buyings, sellings)
	date := day.UTC().Format(DateFormat)
	return DailyReport{
		StartDate:          date,
		EndDate:            date,
		Buyings:            buyings,
		TotalBuyingAmount:  totalBuying,
		Sellings:           sellings,
		TotalSellingAmount: totalSelling,
		NetProfitLoss:      net,
	}
}

// BuildMonthly buckets one month's records into per-day rollups. The result
// always holds exactly the number of days in the month, ascending, with
// zero-valued entries for inactive days, so that the sum of the entries
// equals the whole-month totals.
func BuildMonthly(year int, month time.Month, buyings []ledger.BuyingRecord, sellings []ledger.SellingRecord) []DayRollup {
	days := daysInMonth(year, month)
	rollups := make([]DayRollup, days)
	for i := range rollups {
		rollups[i].Date = time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC).Format(DateFormat)
	}
	for _, b := range buyings {
		if i, ok := dayIndex(b.TransactionDate, year, month, days); ok {
			rollups[i].TotalBuyingAmount += b.BuyingPrice
		}
	}
	for _, s := range sellings {
		if i, ok := dayIndex(s.TransactionDate, year, month, days); ok {
			rollups[i].TotalSellingAmount += s.SellingPrice
		}
	}
	for i := range rollups {
		rollups[i].NetProfitLoss = rollups[i].TotalSellingAmount - rollups[i].TotalBuyingAmount
	}
	return rollups
}

// BuildYearly buckets one year's records into twelve per-month rollups.
func BuildYearly(year int, buyings []ledger.BuyingRecord, sellings []ledger.SellingRecord) []MonthRollup {
	rollups := make([]MonthRollup, 12)
	for i := range rollups {
		rollups[i].Month = time.Month(i + 1).String()
	}
	for _, b := range buyings {
		if t := b.TransactionDate.UTC(); t.Year() == year {
			rollups[t.Month()-1].TotalBuyingAmount += b.BuyingPrice
		}
	}
	for _, s := range sellings {
		if t := s.TransactionDate.UTC(); t.Year() == year {
			rollups[t.Month()-1].TotalSellingAmount += s.SellingPrice
		}
	}
	for i := range rollups {
		rollups[i].NetProfitLoss = rollups[i].TotalSellingAmount - rollups[i].TotalBuyingAmount
	}
	return rollups
}

// daysInMonth exploits time.Date day-zero normalization: day 0 of the next
// month is the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dayIndex(t time.Time, year int, month time.Month, days int) (int, bool) {
	t = t.UTC()
	if t.Year() != year || t.Month() != month {
		return 0, false
	}
	i := t.Day() - 1
	if i < 0 || i >= days {
		return 0, false
	}
	return i, true
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
