package retention

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// purgeSchedule runs the nightly cleanup while traffic is low.
const purgeSchedule = "0 3 * * *"

type ChatPurger interface {
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type AuditPurger interface {
	DeleteOldLogs(daysToKeep int) error
}

// Service purges chat and audit history past the retention window on a
// nightly schedule.
type Service struct {
	cron  *cron.Cron
	chat  ChatPurger
	audit AuditPurger
	days  int
}

func NewService(chat ChatPurger, audit AuditPurger, retentionDays int) *Service {
	if retentionDays < 1 {
		retentionDays = 90
	}
	return &Service{
		cron:  cron.New(),
		chat:  chat,
		audit: audit,
		days:  retentionDays,
	}
}

// Start schedules the nightly purge.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(purgeSchedule, s.Purge); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("⏰ Retention purge scheduled (%d days)", s.days)
	return nil
}

// Stop stops the scheduler.
func (s *Service) Stop() {
	s.cron.Stop()
	log.Println("⏰ Retention purge stopped")
}

// Purge runs one cleanup round immediately.
func (s *Service) Purge() {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.days)

	if deleted, err := s.chat.DeleteOlderThan(cutoff); err != nil {
		log.Printf("❌ Chat log purge failed: %v", err)
	} else if deleted > 0 {
		log.Printf("🧹 Purged %d chat logs older than %d days", deleted, s.days)
	}

	if err := s.audit.DeleteOldLogs(s.days); err != nil {
		log.Printf("❌ Audit log purge failed: %v", err)
	}
}
