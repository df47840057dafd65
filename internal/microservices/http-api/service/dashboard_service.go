package service

import (
	"context"
	"fmt"
	"time"

	"financehub/internal/cache"
	"financehub/internal/microservices/http-api/dto"
	"financehub/internal/microservices/http-api/models"
	"financehub/internal/microservices/http-api/repository"
	"financehub/pkg/timeserver"

	"github.com/shopspring/decimal"
)

const (
	overviewMonths = 6
	recentLimit    = 6
)

type DashboardService interface {
	Summary(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	transactionRepo repository.TransactionRepository
	cache           *cache.Cache
	cacheTTL        time.Duration
}

func NewDashboardService(transactionRepo repository.TransactionRepository, c *cache.Cache, cacheTTL time.Duration) DashboardService {
	return &dashboardService{
		transactionRepo: transactionRepo,
		cache:           c,
		cacheTTL:        cacheTTL,
	}
}

func (s *dashboardService) Summary(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:%s", userID)

	var cached dto.DashboardResponse
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	now := timeserver.Now()

	cards, err := s.buildCards(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	overview, err := s.buildOverview(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	recent, err := s.buildRecent(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		CardData:           cards,
		MonthlyOverview:    overview,
		RecentTransactions: recent,
	}

	_ = s.cache.SetJSON(ctx, cacheKey, resp, s.cacheTTL)
	return resp, nil
}

func (s *dashboardService) buildCards(ctx context.Context, userID string, now time.Time) ([]dto.CardData, error) {
	totalIncome, err := s.transactionRepo.SumByUserType(ctx, userID, models.TypeIncome)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.transactionRepo.SumByUserType(ctx, userID, models.TypeExpense)
	if err != nil {
		return nil, err
	}

	curFrom, curTo := timeserver.MonthWindow(now)
	prevFrom, prevTo := timeserver.MonthWindow(now.AddDate(0, -1, 0))

	curIncome, err := s.transactionRepo.SumByUserTypeBetween(ctx, userID, models.TypeIncome, curFrom, curTo.Add(-time.Second))
	if err != nil {
		return nil, err
	}
	prevIncome, err := s.transactionRepo.SumByUserTypeBetween(ctx, userID, models.TypeIncome, prevFrom, prevTo.Add(-time.Second))
	if err != nil {
		return nil, err
	}
	curExpense, err := s.transactionRepo.SumByUserTypeBetween(ctx, userID, models.TypeExpense, curFrom, curTo.Add(-time.Second))
	if err != nil {
		return nil, err
	}
	prevExpense, err := s.transactionRepo.SumByUserTypeBetween(ctx, userID, models.TypeExpense, prevFrom, prevTo.Add(-time.Second))
	if err != nil {
		return nil, err
	}

	incomePct, incomeDir := percentChange(curIncome, prevIncome)
	expensePct, expenseDir := percentChange(curExpense, prevExpense)

	return []dto.CardData{
		{Title: "Total Balance", Value: totalIncome.Sub(totalExpense)},
		{Title: "Monthly Income", Value: curIncome, Percentage: incomePct, Type: incomeDir},
		{Title: "Monthly Expenses", Value: curExpense, Percentage: expensePct, Type: expenseDir},
	}, nil
}

// percentChange compares this month against last. A nil result means
// last month had nothing to compare against.
func percentChange(current, previous decimal.Decimal) (*string, *string) {
	if previous.IsZero() {
		return nil, nil
	}
	pct := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1)
	direction := "plus"
	if pct.IsNegative() {
		direction = "minus"
		pct = pct.Abs()
	}
	label := pct.String() + "%"
	return &label, &direction
}

func (s *dashboardService) buildOverview(ctx context.Context, userID string, now time.Time) ([]dto.MonthOverview, error) {
	overview := make([]dto.MonthOverview, 0, overviewMonths)
	for i := overviewMonths - 1; i >= 0; i-- {
		from, to := timeserver.MonthWindow(now.AddDate(0, -i, 0))
		income, err := s.transactionRepo.SumByUserTypeBetween(ctx, userID, models.TypeIncome, from, to.Add(-time.Second))
		if err != nil {
			return nil, err
		}
		expense, err := s.transactionRepo.SumByUserTypeBetween(ctx, userID, models.TypeExpense, from, to.Add(-time.Second))
		if err != nil {
			return nil, err
		}
		overview = append(overview, dto.MonthOverview{
			Month:    from.Format("Jan"),
			Income:   income,
			Expenses: expense,
		})
	}
	return overview, nil
}

func (s *dashboardService) buildRecent(ctx context.Context, userID string) ([]dto.RecentTransaction, error) {
	transactions, err := s.transactionRepo.RecentByUser(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}

	recent := make([]dto.RecentTransaction, 0, len(transactions))
	for _, t := range transactions {
		allocationName := ""
		if t.Allocation != nil {
			allocationName = t.Allocation.Name
		}
		amount := t.Amount
		if t.Type == models.TypeExpense {
			amount = amount.Neg()
		}
		recent = append(recent, dto.RecentTransaction{
			Date:           t.Date.In(timeserver.Zone()).Format("2006-01-02"),
			AllocationName: allocationName,
			Amount:         amount,
			Description:    t.Description,
		})
	}
	return recent, nil
}
