package sqlite

import (
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/shopspring/decimal"
)

// Calendar dates are stored as YYYY-MM-DD text so they sort, compare and group as plain strings.
// Money is stored as decimal text. SQLite would coerce a DECIMAL column to a float.

type goalModel struct {
	ID             int32           `gorm:"primaryKey;autoIncrement"`
	Name           string          `gorm:"not null"`
	Description    string          `gorm:"not null;default:''"`
	TargetAmount   decimal.Decimal `gorm:"type:text;not null"`
	CurrentAmount  decimal.Decimal `gorm:"type:text;not null"`
	StartDate      string          `gorm:"type:text;not null"`
	TargetDate     string          `gorm:"type:text;not null;index"`
	Currency       string          `gorm:"not null"`
	CurrencySymbol string          `gorm:"not null"`
	IconName       string          `gorm:"not null"`
	IsCompleted    bool            `gorm:"not null;default:false;index"`
	CompletedDate  *string         `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Entries []ledgerEntryModel `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
}

func (goalModel) TableName() string { return "saving_goals" }

type ledgerEntryModel struct {
	ID        int32           `gorm:"primaryKey;autoIncrement"`
	GoalID    int32           `gorm:"not null;index"`
	Amount    decimal.Decimal `gorm:"type:text;not null"`
	Date      string          `gorm:"type:text;not null;index"`
	Note      string          `gorm:"not null;default:''"`
	Kind      string          `gorm:"not null;index"`
	CreatedAt time.Time
}

func (ledgerEntryModel) TableName() string { return "ledger_entries" }

type badgeModel struct {
	ID          int32  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null"`
	Description string `gorm:"not null"`
	IconName    string `gorm:"not null"`
	Category    string `gorm:"not null;index"`
	EarnedDate  time.Time
}

func (badgeModel) TableName() string { return "badges" }

type profileModel struct {
	ID              int32 `gorm:"primaryKey;autoIncrement:false"`
	Name            string
	Country         string
	Currency        string
	CurrencySymbol  string
	MonthlyIncome   decimal.Decimal `gorm:"type:text;not null"`
	MonthlyExpenses decimal.Decimal `gorm:"type:text;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (profileModel) TableName() string { return "user_profiles" }

type settingModel struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (settingModel) TableName() string { return "settings" }

func formatDate(t time.Time) string {
	return util.FormatDate(t)
}

func parseDate(s string) time.Time {
	t, err := util.ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func goalToModel(g *domain.SavingGoal) *goalModel {
	m := &goalModel{
		ID:             g.ID,
		Name:           g.Name,
		Description:    g.Description,
		TargetAmount:   g.TargetAmount,
		CurrentAmount:  g.CurrentAmount,
		StartDate:      formatDate(g.StartDate),
		TargetDate:     formatDate(g.TargetDate),
		Currency:       g.Currency,
		CurrencySymbol: g.CurrencySymbol,
		IconName:       g.IconName,
		IsCompleted:    g.IsCompleted,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
	if g.CompletedDate != nil {
		d := formatDate(*g.CompletedDate)
		m.CompletedDate = &d
	}
	return m
}

func (m *goalModel) toDomain() *domain.SavingGoal {
	g := &domain.SavingGoal{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		TargetAmount:   m.TargetAmount,
		CurrentAmount:  m.CurrentAmount,
		StartDate:      parseDate(m.StartDate),
		TargetDate:     parseDate(m.TargetDate),
		Currency:       m.Currency,
		CurrencySymbol: m.CurrencySymbol,
		IconName:       m.IconName,
		IsCompleted:    m.IsCompleted,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.CompletedDate != nil {
		d := parseDate(*m.CompletedDate)
		g.CompletedDate = &d
	}
	return g
}

func goalsToDomain(models []goalModel) []*domain.SavingGoal {
	goals := make([]*domain.SavingGoal, 0, len(models))
	for i := range models {
		goals = append(goals, models[i].toDomain())
	}
	return goals
}

func entryToModel(e *domain.LedgerEntry) *ledgerEntryModel {
	return &ledgerEntryModel{
		ID:     e.ID,
		GoalID: e.GoalID,
		Amount: e.Amount,
		Date:   formatDate(e.Date),
		Note:   e.Note,
		Kind:   string(e.Kind),
	}
}

func (m *ledgerEntryModel) toDomain() *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:        m.ID,
		GoalID:    m.GoalID,
		Amount:    m.Amount,
		Date:      parseDate(m.Date),
		Note:      m.Note,
		Kind:      domain.EntryKind(m.Kind),
		CreatedAt: m.CreatedAt,
	}
}

func entriesToDomain(models []ledgerEntryModel) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, 0, len(models))
	for i := range models {
		entries = append(entries, models[i].toDomain())
	}
	return entries
}

func (m *badgeModel) toDomain() *domain.Badge {
	return &domain.Badge{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		IconName:    m.IconName,
		Category:    domain.BadgeCategory(m.Category),
		EarnedDate:  m.EarnedDate,
	}
}

func (m *profileModel) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		ID:              m.ID,
		Name:            m.Name,
		Country:         m.Country,
		Currency:        m.Currency,
		CurrencySymbol:  m.CurrencySymbol,
		MonthlyIncome:   m.MonthlyIncome,
		MonthlyExpenses: m.MonthlyExpenses,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
