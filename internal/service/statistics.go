package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// StatisticsStore defines the DB aggregations behind the dashboard.
// Satisfied by *database.Queries.
type StatisticsStore interface {
	GetTotalSales(ctx context.Context, branchID pgtype.UUID) (database.GetTotalSalesRow, error)
	GetTopItems(ctx context.Context, branchID pgtype.UUID) ([]database.GetTopItemsRow, error)
	GetTopAreas(ctx context.Context, branchID pgtype.UUID) ([]database.GetTopAreasRow, error)
	GetMonthlySales(ctx context.Context, arg database.SalesBucketParams) ([]database.GetMonthlySalesRow, error)
	GetWeeklySales(ctx context.Context, arg database.SalesBucketParams) ([]database.GetWeeklySalesRow, error)
}

// StatsCache keeps serialized snapshots per scope. Satisfied by
// *cache.StatsCache.
type StatsCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, scope string) ([]byte, bool, error)
	Set(ctx context.Context, gen int64, scope string, data []byte) error
	Invalidate(ctx context.Context) error
}

// Statistics summarizes completed orders. Money fields are fixed two-decimal
// strings.
type Statistics struct {
	TotalSales   string         `json:"totalSales"`
	OrderCount   int64          `json:"orderCount"`
	TopItems     []TopItem      `json:"topItems"`
	TopAreas     []TopArea      `json:"topAreas"`
	MonthlySales []MonthlySales `json:"monthlySales"`
	WeeklySales  []WeeklySales  `json:"weeklySales"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}

type TopItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Occurrences  int64  `json:"occurrences"`
	QuantitySold int64  `json:"quantitySold"`
	TotalRevenue string `json:"totalRevenue"`
}

type TopArea struct {
	Name         string `json:"name"`
	OrderCount   int64  `json:"orderCount"`
	TotalRevenue string `json:"totalRevenue"`
}

type MonthlySales struct {
	Year       int32  `json:"year"`
	Month      int32  `json:"month"`
	Label      string `json:"label"`
	OrderCount int64  `json:"orderCount"`
	TotalSales string `json:"totalSales"`
}

type WeeklySales struct {
	Year       int32  `json:"year"`
	Week       int32  `json:"week"`
	Label      string `json:"label"`
	OrderCount int64  `json:"orderCount"`
	TotalSales string `json:"totalSales"`
}

// StatisticsService computes dashboard statistics, reading through the cache
// when one is configured.
type StatisticsService struct {
	store    StatisticsStore
	cache    StatsCache
	timeZone string
	now      func() time.Time
}

// NewStatisticsService creates a StatisticsService. cache may be nil.
// timeZone is the IANA zone used for monthly and weekly buckets.
func NewStatisticsService(store StatisticsStore, cache StatsCache, timeZone string) *StatisticsService {
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &StatisticsService{store: store, cache: cache, timeZone: timeZone, now: time.Now}
}

// Get returns statistics for one branch, or for all branches when branchID is
// empty. Cache failures fall back to the database.
func (s *StatisticsService) Get(ctx context.Context, branchID string) (*Statistics, error) {
	var (
		id     uuid.UUID
		branch pgtype.UUID
	)
	if branchID != "" {
		var err error
		id, err = parseID(branchID, "branch")
		if err != nil {
			return nil, err
		}
		branch = pgtype.UUID{Bytes: id, Valid: true}
	}
	scope := scopeFor(id)

	// The generation is read before computing. If an order changes meanwhile,
	// Invalidate advances it and this snapshot is stored where no reader looks.
	cache := s.cache
	var gen int64
	if cache != nil {
		var err error
		if gen, err = cache.Generation(ctx); err != nil {
			log.Printf("WARN: read statistics cache generation: %v", err)
			cache = nil
		}
	}

	if cache != nil {
		data, ok, err := cache.Get(ctx, gen, scope)
		if err != nil {
			log.Printf("WARN: read statistics cache: %v", err)
		}
		if ok {
			var stats Statistics
			decodeErr := json.Unmarshal(data, &stats)
			if decodeErr == nil {
				return &stats, nil
			}
			log.Printf("WARN: decode cached statistics for %s: %v", scope, decodeErr)
		}
	}

	stats, err := s.compute(ctx, branch)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		data, err := json.Marshal(stats)
		if err == nil {
			err = cache.Set(ctx, gen, scope, data)
		}
		if err != nil {
			log.Printf("WARN: write statistics cache: %v", err)
		}
	}
	return stats, nil
}

// Invalidate drops cached snapshots after an order changes.
func (s *StatisticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("WARN: invalidate statistics cache: %v", err)
	}
}

func (s *StatisticsService) compute(ctx context.Context, branch pgtype.UUID) (*Statistics, error) {
	total, err := s.store.GetTotalSales(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("total sales: %w", err)
	}
	topItems, err := s.store.GetTopItems(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	topAreas, err := s.store.GetTopAreas(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("top areas: %w", err)
	}
	buckets := database.SalesBucketParams{BranchID: branch, TimeZone: s.timeZone}
	monthly, err := s.store.GetMonthlySales(ctx, buckets)
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}
	weekly, err := s.store.GetWeeklySales(ctx, buckets)
	if err != nil {
		return nil, fmt.Errorf("weekly sales: %w", err)
	}

	stats := &Statistics{
		TotalSales:   database.NumericString(total.TotalSales),
		OrderCount:   total.OrderCount,
		TopItems:     make([]TopItem, 0, len(topItems)),
		TopAreas:     make([]TopArea, 0, len(topAreas)),
		MonthlySales: make([]MonthlySales, 0, len(monthly)),
		WeeklySales:  make([]WeeklySales, 0, len(weekly)),
		GeneratedAt:  s.now().UTC(),
	}
	for _, r := range topItems {
		stats.TopItems = append(stats.TopItems, TopItem{
			ID:           r.ItemID,
			Name:         r.Name,
			Occurrences:  r.Occurrences,
			QuantitySold: r.QuantitySold,
			TotalRevenue: database.NumericString(r.TotalRevenue),
		})
	}
	for _, r := range topAreas {
		stats.TopAreas = append(stats.TopAreas, TopArea{
			Name:         r.Name,
			OrderCount:   r.OrderCount,
			TotalRevenue: database.NumericString(r.TotalRevenue),
		})
	}
	for _, r := range monthly {
		stats.MonthlySales = append(stats.MonthlySales, MonthlySales{
			Year:       r.Year,
			Month:      r.Month,
			Label:      fmt.Sprintf("%04d-%02d", r.Year, r.Month),
			OrderCount: r.OrderCount,
			TotalSales: database.NumericString(r.TotalSales),
		})
	}
	for _, r := range weekly {
		stats.WeeklySales = append(stats.WeeklySales, WeeklySales{
			Year:       r.Year,
			Week:       r.Week,
			Label:      fmt.Sprintf("%04d-W%02d", r.Year, r.Week),
			OrderCount: r.OrderCount,
			TotalSales: database.NumericString(r.TotalSales),
		})
	}
	return stats, nil
}

// scopeFor is the cache scope of a branch filter.
func scopeFor(branchID uuid.UUID) string {
	if branchID == uuid.Nil {
		return "all"
	}
	return branchID.String()
}
