package services

import (
	"context"
	"log"
	"time"

	"ricemill-backend/internal/cache"
	"ricemill-backend/internal/models"
	"ricemill-backend/internal/timeutil"
)

// StatsCache caches JSON-encodable report payloads. A nil cache disables
// caching without changing behavior.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type StatsService struct {
	Stats    StatsStore
	Cache    StatsCache
	CacheTTL time.Duration
}

func NewStatsService(stats StatsStore, cache StatsCache, cacheTTL time.Duration) *StatsService {
	return &StatsService{Stats: stats, Cache: cache, CacheTTL: cacheTTL}
}

const dashboardCacheKey = "stats:dashboard"

// invalidateDashboard drops the cached dashboard after a write that changes
// the numbers behind it. Writers call it once their transaction has
// committed so a concurrent read cannot refill the cache with stale totals.
func invalidateDashboard(ctx context.Context) {
	cache.Invalidate(ctx, dashboardCacheKey)
}

func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	if s.Cache != nil {
		var cached models.DashboardStats
		hit, err := s.Cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			log.Printf("[Stats] cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.Stats.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, dashboardCacheKey, stats, s.CacheTTL); err != nil {
			log.Printf("[Stats] cache write failed: %v", err)
		}
	}
	return stats, nil
}

// MonthlyTrends returns purchase cost, revenue and net profit per month for
// one year. Every month 1 through 12 appears, zero-filled when no rows exist.
func (s *StatsService) MonthlyTrends(ctx context.Context, year int) ([]models.MonthlyTrend, error) {
	purchases, err := s.Stats.MonthlyPurchaseCosts(ctx, year)
	if err != nil {
		return nil, err
	}
	sales, err := s.Stats.MonthlySaleTotals(ctx, year)
	if err != nil {
		return nil, err
	}

	trends := make([]models.MonthlyTrend, 0, 12)
	for month := 1; month <= 12; month++ {
		trend := models.MonthlyTrend{Month: month}
		trend.PurchaseCost = Round2(purchases[month])
		if totals, ok := sales[month]; ok {
			trend.Revenue = Round2(totals[0])
			trend.NetProfit = Round2(totals[1])
		}
		trends = append(trends, trend)
	}
	return trends, nil
}

func (s *StatsService) TopSuppliers(ctx context.Context, n int) ([]models.TopSupplier, error) {
	if n < 1 {
		n = 5
	}
	return s.Stats.TopSuppliers(ctx, n)
}

func (s *StatsService) TopCustomers(ctx context.Context, n int) ([]models.TopCustomer, error) {
	if n < 1 {
		n = 5
	}
	return s.Stats.TopCustomers(ctx, n)
}

var agingBuckets = []struct {
	label   string
	minDays int
	maxDays int // inclusive, -1 means open-ended
}{
	{"current", -1 << 31, 0},
	{"1-30", 1, 30},
	{"31-60", 31, 60},
	{"61-90", 61, 90},
	{"90+", 91, -1},
}

// AgingReport buckets unpaid invoices by days past due as of now. All five
// buckets are always present, zero-filled when empty. An invoice due today
// or later counts as current.
func (s *StatsService) AgingReport(ctx context.Context) (*models.AgingReport, error) {
	invoices, err := s.Stats.UnpaidInvoices(ctx)
	if err != nil {
		return nil, err
	}

	asOf := timeutil.Now()
	today := timeutil.StartOfDay(asOf)

	report := &models.AgingReport{AsOf: asOf}
	for _, b := range agingBuckets {
		report.Buckets = append(report.Buckets, models.AgingBucket{Bucket: b.label})
	}

	for _, inv := range invoices {
		overdue := int(today.Sub(timeutil.StartOfDay(timeutil.ToWIB(inv.DueDate))).Hours() / 24)
		for i, b := range agingBuckets {
			if overdue < b.minDays {
				continue
			}
			if b.maxDays >= 0 && overdue > b.maxDays {
				continue
			}
			report.Buckets[i].Count++
			report.Buckets[i].Amount = Round2(report.Buckets[i].Amount + inv.Amount)
			report.TotalUnpaid = Round2(report.TotalUnpaid + inv.Amount)
			break
		}
	}

	if report.TotalUnpaid > 0 {
		for i := range report.Buckets {
			report.Buckets[i].Percentage = Round1(report.Buckets[i].Amount / report.TotalUnpaid * 100)
		}
	}
	return report, nil
}

// InventoryTurnover reports remaining stock per purchase, oldest first
func (s *StatsService) InventoryTurnover(ctx context.Context) ([]models.InventoryTurnover, error) {
	return s.Stats.InventoryTurnover(ctx)
}
