package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatLog persists one assistant turn. The bot response doubles as the
// auto-record audit trail: confirmations carry a fixed marker
// ("enregistrée:" / "recorded:") that the abuse guard counts over its
// trailing window.
type ChatLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BoutiqueID uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_logs_boutique,priority:1" json:"boutique_id"`

	UserMessage    string `gorm:"type:text;not null" json:"user_message"`
	BotResponse    string `gorm:"type:text;not null" json:"bot_response"`
	Success        bool   `gorm:"type:boolean;default:true" json:"success"`
	ResponseTimeMs int    `gorm:"type:integer" json:"response_time_ms,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chat_logs_boutique,priority:2" json:"created_at"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}

func (c *ChatLog) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ChatTurn is one prior exchange passed back by the client for reply context.
type ChatTurn struct {
	Sender string `json:"sender"` // "user" or "assistant"
	Text   string `json:"text"`
}

// ChatRequest is the single entry point the chat endpoint accepts.
type ChatRequest struct {
	Message                string     `json:"message"`
	ConversationHistory    []ChatTurn `json:"conversation_history,omitempty"`
	Language               string     `json:"language,omitempty"` // "fr" (default) or "en"
	AutoRecordTransactions bool       `json:"auto_record_transactions"`
}

// RecordedTransaction describes a commit performed during the turn. It is
// returned to the caller and never persisted as such.
type RecordedTransaction struct {
	Type    string                 `json:"type"` // vente, depense, dette
	Details map[string]interface{} `json:"details"`
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
}

// ChatResponse is the composed reply for one turn. TransactionRecorded and a
// feedback string appended to Response are mutually exclusive.
type ChatResponse struct {
	Response            string               `json:"response"`
	Suggestions         []string             `json:"suggestions"`
	TransactionRecorded *RecordedTransaction `json:"transaction_recorded,omitempty"`
	ProactiveAdvice     string               `json:"proactive_advice,omitempty"`
	QuotaRemaining      *int                 `json:"quota_remaining,omitempty"`
}
