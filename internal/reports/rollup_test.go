package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaditya574/ledgelogger/internal/ledger"
)

func buyingAt(t time.Time, price float64) ledger.BuyingRecord {
	return ledger.BuyingRecord{OwnerID: 1, ItemID: 20, VendorID: 10, Units: 1, BuyingPrice: price, TransactionDate: t}
}

func sellingAt(t time.Time, price float64) ledger.SellingRecord {
	return ledger.SellingRecord{OwnerID: 1, ItemID: 20, BuyerID: 30, Units: 1, SellingPrice: price, TransactionDate: t}
}

func TestBuildDailyTotalsRawPrices(t *testing.T) {
	day := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	buyings := []ledger.BuyingRecord{
		buyingAt(day.Add(9*time.Hour), 30),
		buyingAt(day.Add(14*time.Hour), 20),
	}
	sellings := []ledger.SellingRecord{
		sellingAt(day.Add(16*time.Hour), 80),
	}

	report := BuildDaily(day, buyings, sellings)

	assert.Equal(t, "2025-03-05", report.StartDate)
	assert.Equal(t, "2025-03-05", report.EndDate)
	assert.Equal(t, 50.0, report.TotalBuyingAmount)
	assert.Equal(t, 80.0, report.TotalSellingAmount)
	assert.Equal(t, 30.0, report.NetProfitLoss)
}

func TestBuildDailyEmptyDayHasEmptySlices(t *testing.T) {
	report := BuildDaily(time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), nil, nil)

	require.NotNil(t, report.Buyings)
	require.NotNil(t, report.Sellings)
	assert.Empty(t, report.Buyings)
	assert.Empty(t, report.Sellings)
	assert.Zero(t, report.NetProfitLoss)
}

func TestBuildMonthlyZeroFillsInactiveDays(t *testing.T) {
	first := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	buyings := []ledger.BuyingRecord{buyingAt(first, 100)}
	sellings := []ledger.SellingRecord{sellingAt(first, 150)}

	rollups := BuildMonthly(2025, time.April, buyings, sellings)

	require.Len(t, rollups, 30)
	assert.Equal(t, "2025-04-01", rollups[0].Date)
	assert.Equal(t, 50.0, rollups[0].NetProfitLoss)
	for _, day := range rollups[1:] {
		assert.Zero(t, day.TotalBuyingAmount)
		assert.Zero(t, day.TotalSellingAmount)
		assert.Zero(t, day.NetProfitLoss)
	}
}

func TestBuildMonthlyLeapFebruary(t *testing.T) {
	leap := time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)
	rollups := BuildMonthly(2024, time.February, []ledger.BuyingRecord{buyingAt(leap, 10)}, nil)

	require.Len(t, rollups, 29)
	assert.Equal(t, "2024-02-29", rollups[28].Date)
	assert.Equal(t, 10.0, rollups[28].TotalBuyingAmount)

	require.Len(t, BuildMonthly(2025, time.February, nil, nil), 28)
}

func TestBuildMonthlyIgnoresOutOfRangeRecords(t *testing.T) {
	buyings := []ledger.BuyingRecord{
		buyingAt(time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC), 40),
		buyingAt(time.Date(2025, time.April, 2, 12, 0, 0, 0, time.UTC), 60),
	}

	rollups := BuildMonthly(2025, time.April, buyings, nil)

	total := 0.0
	for _, day := range rollups {
		total += day.TotalBuyingAmount
	}
	assert.Equal(t, 60.0, total)
}

func TestBuildYearlyTwelveMonthsNamed(t *testing.T) {
	rollups := BuildYearly(2025, nil, nil)

	require.Len(t, rollups, 12)
	assert.Equal(t, "January", rollups[0].Month)
	assert.Equal(t, "December", rollups[11].Month)
}

// The sum of the monthly day buckets must equal the yearly month bucket for
// the same records, and both must equal the flat totals.
func TestRollupAdditivity(t *testing.T) {
	year, month := 2025, time.June
	var buyings []ledger.BuyingRecord
	var sellings []ledger.SellingRecord
	for day := 1; day <= daysInMonth(year, month); day++ {
		at := time.Date(year, month, day, 11, 0, 0, 0, time.UTC)
		buyings = append(buyings, buyingAt(at, float64(day)))
		if day%3 == 0 {
			sellings = append(sellings, sellingAt(at, float64(day)*2))
		}
	}
	totalBuying, totalSelling, net := Summarize(buyings, sellings)

	var monthlyBuying, monthlySelling, monthlyNet float64
	for _, day := range BuildMonthly(year, month, buyings, sellings) {
		monthlyBuying += day.TotalBuyingAmount
		monthlySelling += day.TotalSellingAmount
		monthlyNet += day.NetProfitLoss
	}
	assert.Equal(t, totalBuying, monthlyBuying)
	assert.Equal(t, totalSelling, monthlySelling)
	assert.Equal(t, net, monthlyNet)

	yearly := BuildYearly(year, buyings, sellings)
	assert.Equal(t, totalBuying, yearly[month-1].TotalBuyingAmount)
	assert.Equal(t, totalSelling, yearly[month-1].TotalSellingAmount)
	assert.Equal(t, net, yearly[month-1].NetProfitLoss)
}

func TestStartOfDayTruncatesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	at := time.Date(2025, time.March, 6, 2, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), startOfDay(at))
}
