package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/shopspring/decimal"
)

// MockGoalRepository is a mock implementation of domain.GoalRepository.
// Goals are copied on the way in and out so callers never share state with the store.
type MockGoalRepository struct {
	Goals  map[int32]*domain.SavingGoal
	NextID int32
	// Ledger, when set, has its entries removed alongside a deleted goal
	Ledger *MockLedgerRepository

	GetByIDFn   func(id int32) (*domain.SavingGoal, error)
	GetAllFn    func() ([]*domain.SavingGoal, error)
	GetActiveFn func() ([]*domain.SavingGoal, error)
	UpdateFn    func(goal *domain.SavingGoal) (*domain.SavingGoal, error)
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals:  make(map[int32]*domain.SavingGoal),
		NextID: 1,
	}
}

// Create stores a new goal
func (m *MockGoalRepository) Create(goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	stored := cloneGoal(goal)
	stored.ID = m.NextID
	m.NextID++
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Goals[stored.ID] = stored
	return cloneGoal(stored), nil
}

// GetByID retrieves a goal by ID
func (m *MockGoalRepository) GetByID(id int32) (*domain.SavingGoal, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	if goal, ok := m.Goals[id]; ok {
		return cloneGoal(goal), nil
	}
	return nil, domain.ErrGoalNotFound
}

// GetAll retrieves all goals, newest first
func (m *MockGoalRepository) GetAll() ([]*domain.SavingGoal, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	goals := m.filter(func(*domain.SavingGoal) bool { return true })
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID > goals[j].ID })
	return goals, nil
}

// GetActive retrieves goals that are not completed, soonest target date first
func (m *MockGoalRepository) GetActive() ([]*domain.SavingGoal, error) {
	if m.GetActiveFn != nil {
		return m.GetActiveFn()
	}
	goals := m.filter(func(g *domain.SavingGoal) bool { return !g.IsCompleted })
	sort.Slice(goals, func(i, j int) bool { return goals[i].TargetDate.Before(goals[j].TargetDate) })
	return goals, nil
}

// GetCompleted retrieves completed goals, most recently completed first
func (m *MockGoalRepository) GetCompleted() ([]*domain.SavingGoal, error) {
	goals := m.filter(func(g *domain.SavingGoal) bool { return g.IsCompleted })
	sort.Slice(goals, func(i, j int) bool { return goals[i].CompletedDate.After(*goals[j].CompletedDate) })
	return goals, nil
}

// Update replaces an existing goal, keeping its stored balance
func (m *MockGoalRepository) Update(goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(goal)
	}
	existing, ok := m.Goals[goal.ID]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	stored := cloneGoal(goal)
	stored.CurrentAmount = existing.CurrentAmount
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	m.Goals[goal.ID] = stored
	return cloneGoal(stored), nil
}

// Delete removes a goal and its ledger entries
func (m *MockGoalRepository) Delete(id int32) error {
	if _, ok := m.Goals[id]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	if m.Ledger != nil {
		for entryID, e := range m.Ledger.Entries {
			if e.GoalID == id {
				delete(m.Ledger.Entries, entryID)
			}
		}
	}
	return nil
}

// CountCompleted counts completed goals
func (m *MockGoalRepository) CountCompleted() (int, error) {
	return len(m.filter(func(g *domain.SavingGoal) bool { return g.IsCompleted })), nil
}

// AddGoal adds a goal to the mock repository as is (helper for tests)
func (m *MockGoalRepository) AddGoal(goal *domain.SavingGoal) {
	m.Goals[goal.ID] = cloneGoal(goal)
	if goal.ID >= m.NextID {
		m.NextID = goal.ID + 1
	}
}

func (m *MockGoalRepository) filter(keep func(*domain.SavingGoal) bool) []*domain.SavingGoal {
	goals := make([]*domain.SavingGoal, 0, len(m.Goals))
	for _, g := range m.Goals {
		if keep(g) {
			goals = append(goals, cloneGoal(g))
		}
	}
	return goals
}

func cloneGoal(g *domain.SavingGoal) *domain.SavingGoal {
	c := *g
	if g.CompletedDate != nil {
		d := *g.CompletedDate
		c.CompletedDate = &d
	}
	return &c
}

// MockLedgerRepository is a mock implementation of domain.LedgerRepository
type MockLedgerRepository struct {
	Goals   *MockGoalRepository
	Entries map[int32]*domain.LedgerEntry
	NextID  int32

	ApplyFn          func(change *domain.BalanceChange) (*domain.SavingGoal, *domain.LedgerEntry, error)
	AverageDepositFn func(goalID int32) (decimal.Decimal, error)
}

// NewMockLedgerRepository creates a new MockLedgerRepository bound to goals
func NewMockLedgerRepository(goals *MockGoalRepository) *MockLedgerRepository {
	m := &MockLedgerRepository{
		Goals:   goals,
		Entries: make(map[int32]*domain.LedgerEntry),
		NextID:  1,
	}
	goals.Ledger = m
	return m
}

// Apply updates the goal balance and records the entry
func (m *MockLedgerRepository) Apply(change *domain.BalanceChange) (*domain.SavingGoal, *domain.LedgerEntry, error) {
	if m.ApplyFn != nil {
		return m.ApplyFn(change)
	}
	goal, ok := m.Goals.Goals[change.GoalID]
	if !ok {
		return nil, nil, domain.ErrGoalNotFound
	}

	goal.CurrentAmount = change.NewAmount
	if change.Complete && !goal.IsCompleted {
		completed := change.CompletedDate
		goal.IsCompleted = true
		goal.CompletedDate = &completed
	}
	if change.NewTargetDate != nil {
		goal.TargetDate = *change.NewTargetDate
	}
	goal.UpdatedAt = time.Now()

	entry := *change.Entry
	entry.ID = m.NextID
	entry.GoalID = change.GoalID
	entry.CreatedAt = time.Now()
	m.NextID++
	m.Entries[entry.ID] = &entry

	stored := entry
	return cloneGoal(goal), &stored, nil
}

// GetByID retrieves an entry by ID
func (m *MockLedgerRepository) GetByID(id int32) (*domain.LedgerEntry, error) {
	if e, ok := m.Entries[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, domain.ErrEntryNotFound
}

// GetByGoal retrieves a goal's entries, newest date first
func (m *MockLedgerRepository) GetByGoal(goalID int32) ([]*domain.LedgerEntry, error) {
	return m.filter(func(e *domain.LedgerEntry) bool { return e.GoalID == goalID }), nil
}

// GetByGoalAndDateRange retrieves a goal's entries dated within [from, to]
func (m *MockLedgerRepository) GetByGoalAndDateRange(goalID int32, from, to time.Time) ([]*domain.LedgerEntry, error) {
	from, to = util.DateOf(from), util.DateOf(to)
	return m.filter(func(e *domain.LedgerEntry) bool {
		d := util.DateOf(e.Date)
		return e.GoalID == goalID && !d.Before(from) && !d.After(to)
	}), nil
}

// GetByDate retrieves entries of all goals dated on the given day
func (m *MockLedgerRepository) GetByDate(date time.Time) ([]*domain.LedgerEntry, error) {
	day := util.DateOf(date)
	return m.filter(func(e *domain.LedgerEntry) bool { return util.DateOf(e.Date).Equal(day) }), nil
}

// GetDeposits retrieves deposits of all goals
func (m *MockLedgerRepository) GetDeposits() ([]*domain.LedgerEntry, error) {
	return m.filter(func(e *domain.LedgerEntry) bool { return e.Kind == domain.EntryKindDeposit }), nil
}

// Delete removes an entry
func (m *MockLedgerRepository) Delete(id int32) error {
	if _, ok := m.Entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.Entries, id)
	return nil
}

// SumByKind sums a goal's entries of one kind
func (m *MockLedgerRepository) SumByKind(goalID int32, kind domain.EntryKind) (decimal.Decimal, error) {
	entries, _ := m.GetByGoal(goalID)
	return domain.SumEntries(entries, kind), nil
}

// AverageDeposit averages a goal's deposits
func (m *MockLedgerRepository) AverageDeposit(goalID int32) (decimal.Decimal, error) {
	if m.AverageDepositFn != nil {
		return m.AverageDepositFn(goalID)
	}
	entries, _ := m.GetByGoal(goalID)
	return domain.AverageDepositAmount(entries), nil
}

// CountDepositDays counts distinct days with a deposit for a goal
func (m *MockLedgerRepository) CountDepositDays(goalID int32) (int, error) {
	entries, _ := m.GetByGoal(goalID)
	return domain.DistinctDepositDays(entries), nil
}

// DailyNetTotals returns a goal's net amount per day
func (m *MockLedgerRepository) DailyNetTotals(goalID int32, limit int) ([]domain.DailyTotal, error) {
	entries, _ := m.GetByGoal(goalID)
	return domain.DailyNetTotals(entries, limit), nil
}

// AddEntry adds an entry to the mock repository as is (helper for tests)
func (m *MockLedgerRepository) AddEntry(entry *domain.LedgerEntry) {
	if entry.ID == 0 {
		entry.ID = m.NextID
	}
	if entry.ID >= m.NextID {
		m.NextID = entry.ID + 1
	}
	c := *entry
	m.Entries[entry.ID] = &c
}

func (m *MockLedgerRepository) filter(keep func(*domain.LedgerEntry) bool) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, 0)
	for _, e := range m.Entries {
		if keep(e) {
			c := *e
			entries = append(entries, &c)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Date.After(entries[j].Date)
	})
	return entries
}

// MockBadgeRepository is a mock implementation of domain.BadgeRepository
type MockBadgeRepository struct {
	Badges   map[int32]*domain.Badge
	NextID   int32
	CreateFn func(badge *domain.Badge) (*domain.Badge, error)
}

// NewMockBadgeRepository creates a new MockBadgeRepository
func NewMockBadgeRepository() *MockBadgeRepository {
	return &MockBadgeRepository{
		Badges: make(map[int32]*domain.Badge),
		NextID: 1,
	}
}

// Create stores a new badge
func (m *MockBadgeRepository) Create(badge *domain.Badge) (*domain.Badge, error) {
	if m.CreateFn != nil {
		return m.CreateFn(badge)
	}
	stored := *badge
	stored.ID = m.NextID
	m.NextID++
	m.Badges[stored.ID] = &stored
	c := stored
	return &c, nil
}

// GetAll retrieves all badges, most recently earned first
func (m *MockBadgeRepository) GetAll() ([]*domain.Badge, error) {
	return m.filter(func(*domain.Badge) bool { return true }), nil
}

// GetByCategory retrieves badges of one category
func (m *MockBadgeRepository) GetByCategory(category domain.BadgeCategory) ([]*domain.Badge, error) {
	return m.filter(func(b *domain.Badge) bool { return b.Category == category }), nil
}

// GetByID retrieves a badge by ID
func (m *MockBadgeRepository) GetByID(id int32) (*domain.Badge, error) {
	if b, ok := m.Badges[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, domain.ErrBadgeNotFound
}

// Delete removes a badge
func (m *MockBadgeRepository) Delete(id int32) error {
	if _, ok := m.Badges[id]; !ok {
		return domain.ErrBadgeNotFound
	}
	delete(m.Badges, id)
	return nil
}

// Count counts all badges
func (m *MockBadgeRepository) Count() (int, error) {
	return len(m.Badges), nil
}

// CountByCategory counts badges of one category
func (m *MockBadgeRepository) CountByCategory(category domain.BadgeCategory) (int, error) {
	return len(m.filter(func(b *domain.Badge) bool { return b.Category == category })), nil
}

// Exists reports whether a badge with the category and name has been earned
func (m *MockBadgeRepository) Exists(category domain.BadgeCategory, name string) (bool, error) {
	return len(m.filter(func(b *domain.Badge) bool { return b.Category == category && b.Name == name })) > 0, nil
}

func (m *MockBadgeRepository) filter(keep func(*domain.Badge) bool) []*domain.Badge {
	badges := make([]*domain.Badge, 0)
	for _, b := range m.Badges {
		if keep(b) {
			c := *b
			badges = append(badges, &c)
		}
	}
	sort.Slice(badges, func(i, j int) bool {
		if badges[i].EarnedDate.Equal(badges[j].EarnedDate) {
			return badges[i].ID > badges[j].ID
		}
		return badges[i].EarnedDate.After(badges[j].EarnedDate)
	})
	return badges
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	Profile *domain.UserProfile
	SaveFn  func(profile *domain.UserProfile) (*domain.UserProfile, error)
}

// NewMockProfileRepository creates a new MockProfileRepository with no profile
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{}
}

// Get retrieves the profile
func (m *MockProfileRepository) Get() (*domain.UserProfile, error) {
	if m.Profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	c := *m.Profile
	return &c, nil
}

// Save inserts or replaces the profile
func (m *MockProfileRepository) Save(profile *domain.UserProfile) (*domain.UserProfile, error) {
	if m.SaveFn != nil {
		return m.SaveFn(profile)
	}
	stored := *profile
	stored.ID = domain.ProfileID
	now := time.Now()
	if m.Profile != nil {
		stored.CreatedAt = m.Profile.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.Profile = &stored
	c := stored
	return &c, nil
}

// UpdateMonthlyIncome sets the profile's monthly income
func (m *MockProfileRepository) UpdateMonthlyIncome(amount decimal.Decimal) (*domain.UserProfile, error) {
	if m.Profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	m.Profile.MonthlyIncome = amount
	return m.Get()
}

// UpdateMonthlyExpenses sets the profile's monthly expenses
func (m *MockProfileRepository) UpdateMonthlyExpenses(amount decimal.Decimal) (*domain.UserProfile, error) {
	if m.Profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	m.Profile.MonthlyExpenses = amount
	return m.Get()
}

// Delete removes the profile
func (m *MockProfileRepository) Delete() error {
	m.Profile = nil
	return nil
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	mu     sync.Mutex
	Values map[string]string
	SetErr error
}

// NewMockSettingsRepository creates a new empty MockSettingsRepository
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Values: make(map[string]string)}
}

// Get retrieves one value
func (m *MockSettingsRepository) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Values[key]
	return v, ok, nil
}

// GetAll retrieves every value
func (m *MockSettingsRepository) GetAll() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.Values))
	for k, v := range m.Values {
		out[k] = v
	}
	return out, nil
}

// Set writes one value
func (m *MockSettingsRepository) Set(key, value string) error {
	return m.SetMany(map[string]string{key: value})
}

// SetMany writes several values
func (m *MockSettingsRepository) SetMany(values map[string]string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.Values[k] = v
	}
	return nil
}

// Clear removes every value
func (m *MockSettingsRepository) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Values = make(map[string]string)
	return nil
}
