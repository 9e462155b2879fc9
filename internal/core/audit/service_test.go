package audit

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuditDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ddl := `CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY,
		boutique_id TEXT NOT NULL,
		action TEXT NOT NULL,
		entity TEXT NOT NULL,
		entity_id TEXT,
		source TEXT NOT NULL DEFAULT 'manual',
		old_value TEXT,
		new_value TEXT,
		description TEXT,
		created_at DATETIME
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	return db
}

func TestGetEntityHistory(t *testing.T) {
	db := newAuditDB(t)
	s := NewService(db)
	ctx := context.Background()

	boutiqueID := uuid.New()
	saleID := uuid.New().String()
	now := time.Now().UTC()

	entries := []*AuditLog{
		{BoutiqueID: boutiqueID, Action: "create_auto", Entity: "sales", EntityID: saleID, Source: SourceAssistant, CreatedAt: now.Add(-2 * time.Hour)},
		{BoutiqueID: boutiqueID, Action: "update", Entity: "sales", EntityID: saleID, Source: SourceManual, CreatedAt: now.Add(-1 * time.Hour)},
		// noise that must be filtered out
		{BoutiqueID: boutiqueID, Action: "create", Entity: "debts", EntityID: uuid.New().String(), Source: SourceManual, CreatedAt: now},
		{BoutiqueID: uuid.New(), Action: "create", Entity: "sales", EntityID: saleID, Source: SourceManual, CreatedAt: now},
	}
	for _, e := range entries {
		if err := s.Log(ctx, e); err != nil {
			t.Fatalf("log entry: %v", err)
		}
	}

	logs, err := s.GetEntityHistory(boutiqueID, "sales", saleID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d entries, want 2", len(logs))
	}
	if logs[0].Action != "update" || logs[1].Action != "create_auto" {
		t.Errorf("order = %s, %s; want newest first", logs[0].Action, logs[1].Action)
	}
	for _, l := range logs {
		if l.Entity != "sales" || l.EntityID != saleID || l.BoutiqueID != boutiqueID {
			t.Errorf("entry %s leaked outside the requested scope", l.ID)
		}
	}
}

func TestLogChangeSerializesNewValue(t *testing.T) {
	db := newAuditDB(t)
	s := NewService(db)

	boutiqueID := uuid.New()
	entityID := uuid.New().String()
	err := s.LogChange(context.Background(), boutiqueID, "create_auto", "expenses", entityID, SourceAssistant,
		nil, map[string]interface{}{"amount": 1500, "category": "Transport"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logs, err := s.GetEntityHistory(boutiqueID, "expenses", entityID)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d entries, want 1", len(logs))
	}
	if logs[0].OldValue != nil {
		t.Errorf("old value = %s, want empty", logs[0].OldValue)
	}
	if len(logs[0].NewValue) == 0 {
		t.Error("new value must carry the recorded state")
	}
}

func TestDeleteOldLogs(t *testing.T) {
	db := newAuditDB(t)
	s := NewService(db)
	ctx := context.Background()

	boutiqueID := uuid.New()
	staleID := uuid.New().String()
	freshID := uuid.New().String()
	now := time.Now().UTC()

	stale := &AuditLog{BoutiqueID: boutiqueID, Action: "create", Entity: "sales", EntityID: staleID, Source: SourceManual, CreatedAt: now.AddDate(0, 0, -120)}
	fresh := &AuditLog{BoutiqueID: boutiqueID, Action: "create", Entity: "sales", EntityID: freshID, Source: SourceManual, CreatedAt: now}
	for _, e := range []*AuditLog{stale, fresh} {
		if err := s.Log(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DeleteOldLogs(90); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if logs, _ := s.GetEntityHistory(boutiqueID, "sales", staleID); len(logs) != 0 {
		t.Error("stale entry must be purged")
	}
	if logs, _ := s.GetEntityHistory(boutiqueID, "sales", freshID); len(logs) != 1 {
		t.Error("fresh entry must survive the purge")
	}

	if err := s.DeleteOldLogs(0); err == nil {
		t.Error("retention below one day must be rejected")
	}
}
