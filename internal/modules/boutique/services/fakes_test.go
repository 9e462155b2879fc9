package services

import (
	"context"
	"errors"
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/google/uuid"
)

// stubProvider replays canned model outputs in order. Each call records both
// arguments so tests can assert how often the model was consulted and what
// it was sent.
type stubProvider struct {
	replies []string
	err     error

	prompts      []string
	userMessages []string
}

func (s *stubProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	s.prompts = append(s.prompts, systemPrompt)
	s.userMessages = append(s.userMessages, userMessage)
	if s.err != nil {
		return "", s.err
	}
	if len(s.prompts) > len(s.replies) {
		return "", errors.New("stub exhausted")
	}
	return s.replies[len(s.prompts)-1], nil
}

func (s *stubProvider) GetProviderName() string {
	return "stub"
}

type fakeProductRepo struct {
	catalog       []models.Product
	lowStock      []models.Product
	lowStockCount int64
	err           error
}

func (f *fakeProductRepo) Catalog(uuid.UUID, int) ([]models.Product, error) {
	return f.catalog, f.err
}

func (f *fakeProductRepo) LowStock(uuid.UUID, int) ([]models.Product, error) {
	return f.lowStock, nil
}

func (f *fakeProductRepo) CountLowStock(uuid.UUID) (int64, error) {
	return f.lowStockCount, nil
}

type fakeSaleRepo struct {
	createErr error
	created   []*models.Sale
	sumFn     func(since time.Time) (int64, error)
	recent    []models.Sale
}

func (f *fakeSaleRepo) CreateWithStockDecrement(sale *models.Sale) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, sale)
	return nil
}

func (f *fakeSaleRepo) SumSince(_ uuid.UUID, since time.Time) (int64, error) {
	if f.sumFn != nil {
		return f.sumFn(since)
	}
	return 0, nil
}

func (f *fakeSaleRepo) Recent(uuid.UUID, int) ([]models.Sale, error) {
	return f.recent, nil
}

type fakeExpenseRepo struct {
	createErr error
	created   []*models.Expense
	sumFn     func(since time.Time) (int64, error)
}

func (f *fakeExpenseRepo) Create(expense *models.Expense) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, expense)
	return nil
}

func (f *fakeExpenseRepo) SumSince(_ uuid.UUID, since time.Time) (int64, error) {
	if f.sumFn != nil {
		return f.sumFn(since)
	}
	return 0, nil
}

type fakeDebtRepo struct {
	createErr     error
	created       []*models.Debt
	openTotal     int64
	open          []models.Debt
	criticalCount int64
}

func (f *fakeDebtRepo) Create(debt *models.Debt) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, debt)
	return nil
}

func (f *fakeDebtRepo) OpenTotal(uuid.UUID) (int64, error) {
	return f.openTotal, nil
}

func (f *fakeDebtRepo) ListOpen(uuid.UUID, int) ([]models.Debt, error) {
	return f.open, nil
}

func (f *fakeDebtRepo) CountOpenOlderThan(uuid.UUID, time.Time) (int64, error) {
	return f.criticalCount, nil
}

type fakeChatLogRepo struct {
	created   []*models.ChatLog
	turnCount int64
	autoCount int64
	recent    []models.ChatLog
	cleared   int64
}

func (f *fakeChatLogRepo) Create(log *models.ChatLog) error {
	f.created = append(f.created, log)
	return nil
}

func (f *fakeChatLogRepo) CountSince(uuid.UUID, time.Time) (int64, error) {
	return f.turnCount, nil
}

func (f *fakeChatLogRepo) CountAutoRecordedSince(uuid.UUID, time.Time) (int64, error) {
	return f.autoCount, nil
}

func (f *fakeChatLogRepo) Recent(uuid.UUID, int) ([]models.ChatLog, error) {
	return f.recent, nil
}

func (f *fakeChatLogRepo) Clear(uuid.UUID) (int64, error) {
	return f.cleared, nil
}

func (f *fakeChatLogRepo) DeleteOlderThan(time.Time) (int64, error) {
	return 0, nil
}

type auditEntry struct {
	action   string
	entity   string
	entityID string
	source   string
}

type fakeAuditLogger struct {
	entries []auditEntry
	err     error
}

func (f *fakeAuditLogger) LogChange(_ context.Context, _ uuid.UUID, action, entity, entityID, source string, _, _ interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, auditEntry{action: action, entity: entity, entityID: entityID, source: source})
	return nil
}

func strPtr(s string) *string     { return &s }
func floatPtr(v float64) *float64 { return &v }
