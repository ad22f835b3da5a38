package sqlite

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
)

// Amounts are stored as decimal text so SQLite never rounds them through REAL.

type transactionModel struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Amount      decimal.Decimal `gorm:"type:text;not null"`
	Category    string          `gorm:"size:64;index;not null"`
	Description string          `gorm:"size:200;not null"`
	Date        time.Time       `gorm:"index;not null"`
	Type        string          `gorm:"size:16;not null"`
}

func (transactionModel) TableName() string { return "transactions" }

func newTransactionModel(tx *domain.Transaction) *transactionModel {
	return &transactionModel{
		ID:          tx.ID.String(),
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		Type:        string(tx.Type),
	}
}

func (m *transactionModel) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.MustParse(m.ID),
		Amount:      m.Amount,
		Category:    m.Category,
		Description: m.Description,
		Date:        m.Date,
		Type:        domain.TransactionType(m.Type),
	}
}

type budgetModel struct {
	ID       string          `gorm:"primaryKey;size:36"`
	Category string          `gorm:"size:64;uniqueIndex;not null"`
	Amount   decimal.Decimal `gorm:"type:text;not null"`
	Spent    decimal.Decimal `gorm:"type:text;not null"`
	Period   string          `gorm:"size:16;not null"`
	Color    string          `gorm:"size:16"`
}

func (budgetModel) TableName() string { return "budgets" }

func newBudgetModel(b *domain.Budget) *budgetModel {
	return &budgetModel{
		ID:       b.ID.String(),
		Category: b.Category,
		Amount:   b.Limit,
		Spent:    b.Spent,
		Period:   string(b.Period),
		Color:    b.Color,
	}
}

func (m *budgetModel) toDomain() *domain.Budget {
	return &domain.Budget{
		ID:       uuid.MustParse(m.ID),
		Category: m.Category,
		Limit:    m.Amount,
		Spent:    m.Spent,
		Period:   domain.BudgetPeriod(m.Period),
		Color:    m.Color,
	}
}

type goalModel struct {
	ID                  string              `gorm:"primaryKey;size:36"`
	Name                string              `gorm:"size:100;not null"`
	TargetAmount        decimal.Decimal     `gorm:"type:text;not null"`
	CurrentAmount       decimal.Decimal     `gorm:"type:text;not null"`
	Deadline            time.Time           `gorm:"index;not null"`
	Category            string              `gorm:"size:16;not null"`
	Priority            string              `gorm:"size:8;not null"`
	MonthlyContribution decimal.NullDecimal `gorm:"type:text"`
	Color               string              `gorm:"size:16"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (goalModel) TableName() string { return "goals" }

func newGoalModel(g *domain.Goal) *goalModel {
	m := &goalModel{
		ID:            g.ID.String(),
		Name:          g.Name,
		TargetAmount:  g.Target,
		CurrentAmount: g.Current,
		Deadline:      g.Deadline,
		Category:      string(g.Category),
		Priority:      string(g.Priority),
		Color:         g.Color,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
	if g.MonthlyContribution != nil {
		m.MonthlyContribution = decimal.NewNullDecimal(*g.MonthlyContribution)
	}
	return m
}

func (m *goalModel) toDomain() *domain.Goal {
	g := &domain.Goal{
		ID:        uuid.MustParse(m.ID),
		Name:      m.Name,
		Target:    m.TargetAmount,
		Current:   m.CurrentAmount,
		Deadline:  m.Deadline,
		Category:  domain.GoalCategory(m.Category),
		Priority:  domain.GoalPriority(m.Priority),
		Color:     m.Color,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.MonthlyContribution.Valid {
		c := m.MonthlyContribution.Decimal
		g.MonthlyContribution = &c
	}
	return g
}

type holdingModel struct {
	ID                 string          `gorm:"primaryKey;size:36"`
	Symbol             string          `gorm:"size:16;index;not null"`
	Name               string          `gorm:"size:128"`
	Shares             decimal.Decimal `gorm:"type:text;not null"`
	AvgCost            decimal.Decimal `gorm:"type:text;not null"`
	CurrentPrice       decimal.Decimal `gorm:"type:text;not null"`
	DayChange          decimal.Decimal `gorm:"type:text;not null"`
	DayChangePercent   float64
	Sector             string `gorm:"size:64"`
	AssetClass         string `gorm:"size:16;not null"`
	LastUpdated        time.Time
	MarketValue        decimal.Decimal `gorm:"type:text;not null"`
	TotalReturn        decimal.Decimal `gorm:"type:text;not null"`
	TotalReturnPercent float64
	Allocation         float64
}

func (holdingModel) TableName() string { return "holdings" }

func newHoldingModel(h *domain.Holding) *holdingModel {
	return &holdingModel{
		ID:                 h.ID.String(),
		Symbol:             h.Symbol,
		Name:               h.Name,
		Shares:             h.Shares,
		AvgCost:            h.AvgCost,
		CurrentPrice:       h.CurrentPrice,
		DayChange:          h.DayChange,
		DayChangePercent:   h.DayChangePercent,
		Sector:             h.Sector,
		AssetClass:         string(h.AssetClass),
		LastUpdated:        h.LastUpdated,
		MarketValue:        h.MarketValue,
		TotalReturn:        h.TotalReturn,
		TotalReturnPercent: h.TotalReturnPercent,
		Allocation:         h.Allocation,
	}
}

func (m *holdingModel) toDomain() *domain.Holding {
	return &domain.Holding{
		ID:                 uuid.MustParse(m.ID),
		Symbol:             m.Symbol,
		Name:               m.Name,
		Shares:             m.Shares,
		AvgCost:            m.AvgCost,
		CurrentPrice:       m.CurrentPrice,
		DayChange:          m.DayChange,
		DayChangePercent:   m.DayChangePercent,
		Sector:             m.Sector,
		AssetClass:         domain.AssetClass(m.AssetClass),
		LastUpdated:        m.LastUpdated,
		MarketValue:        m.MarketValue,
		TotalReturn:        m.TotalReturn,
		TotalReturnPercent: m.TotalReturnPercent,
		Allocation:         m.Allocation,
	}
}

type valuePointModel struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Date        time.Time       `gorm:"index;not null"`
	MarketValue decimal.Decimal `gorm:"type:text;not null"`
	CostBasis   decimal.Decimal `gorm:"type:text;not null"`
}

func (valuePointModel) TableName() string { return "portfolio_value_history" }

func newValuePointModel(p *domain.ValuePoint) *valuePointModel {
	return &valuePointModel{
		ID:          p.ID.String(),
		Date:        p.Date,
		MarketValue: p.MarketValue,
		CostBasis:   p.CostBasis,
	}
}

func (m *valuePointModel) toDomain() *domain.ValuePoint {
	return &domain.ValuePoint{
		ID:          uuid.MustParse(m.ID),
		Date:        m.Date,
		MarketValue: m.MarketValue,
		CostBasis:   m.CostBasis,
	}
}
