package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/core/llm"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/google/uuid"
)

const chatReply = `{"response": "Bonjour ! Tout va bien.", "suggestions": ["Voir mes ventes"], "proactive_advice": null}`

type assistantFixture struct {
	provider *stubProvider
	products *fakeProductRepo
	sales    *fakeSaleRepo
	expenses *fakeExpenseRepo
	debts    *fakeDebtRepo
	chatLogs *fakeChatLogRepo
	audit    *fakeAuditLogger
	svc      *AssistantService
}

func newAssistantFixture(provider *stubProvider) *assistantFixture {
	f := &assistantFixture{
		provider: provider,
		products: &fakeProductRepo{catalog: testCatalog()},
		sales:    &fakeSaleRepo{},
		expenses: &fakeExpenseRepo{},
		debts:    &fakeDebtRepo{},
		chatLogs: &fakeChatLogRepo{},
		audit:    &fakeAuditLogger{},
	}

	llmService := llm.NewServiceWithProvider(provider)
	committer := NewCommitter(f.sales, f.expenses, f.debts, f.audit)
	f.svc = NewAssistantService(f.products, f.sales, f.expenses, f.debts, f.chatLogs, llmService, committer)
	return f
}

// salesSum and expensesSum pin the aggregate every window query returns.
func (f *assistantFixture) salesSum(v int64) {
	f.sales.sumFn = func(time.Time) (int64, error) { return v, nil }
}

func (f *assistantFixture) expensesSum(v int64) {
	f.expenses.sumFn = func(time.Time) (int64, error) { return v, nil }
}

func TestHandleMessageQuotaReached(t *testing.T) {
	f := newAssistantFixture(&stubProvider{})
	f.chatLogs.turnCount = ChatQuotaPerMonth

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{Message: "bonjour"})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(resp.Response, "quota de messages") {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.QuotaRemaining == nil || *resp.QuotaRemaining != 0 {
		t.Errorf("quota remaining = %v, want 0", resp.QuotaRemaining)
	}
	if len(f.provider.prompts) != 0 {
		t.Error("model must not be consulted past the quota")
	}
	if len(f.chatLogs.created) != 0 {
		t.Error("refused turns are not logged")
	}
}

func TestHandleMessagePlainReply(t *testing.T) {
	f := newAssistantFixture(&stubProvider{replies: []string{chatReply}})

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{Message: "ça va ?"})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Response != "Bonjour ! Tout va bien." {
		t.Errorf("response = %q", resp.Response)
	}
	if len(resp.Suggestions) != 1 || resp.Suggestions[0] != "Voir mes ventes" {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}
	if resp.TransactionRecorded != nil {
		t.Error("no transaction expected")
	}
	if resp.QuotaRemaining == nil || *resp.QuotaRemaining != ChatQuotaPerMonth-1 {
		t.Errorf("quota remaining = %v", resp.QuotaRemaining)
	}

	if len(f.provider.prompts) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(f.provider.prompts))
	}
	if !strings.Contains(f.provider.prompts[0], "ça va ?") {
		t.Error("user message missing from composed prompt")
	}
	if f.provider.userMessages[0] != "" {
		t.Errorf("user turn = %q, message must ride in the prompt only", f.provider.userMessages[0])
	}

	if len(f.chatLogs.created) != 1 {
		t.Fatalf("expected 1 chat log, got %d", len(f.chatLogs.created))
	}
	entry := f.chatLogs.created[0]
	if !entry.Success || entry.UserMessage != "ça va ?" || entry.BotResponse != resp.Response {
		t.Errorf("chat log = %+v", entry)
	}
}

func TestHandleMessageKeepsPlainTextReply(t *testing.T) {
	f := newAssistantFixture(&stubProvider{replies: []string{"Bonne journée !"}})

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{Message: "merci"})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Response != "Bonne journée !" {
		t.Errorf("response = %q", resp.Response)
	}
	if len(resp.Suggestions) == 0 {
		t.Error("expected fallback suggestions")
	}
}

func TestHandleMessageAutoRecordsSale(t *testing.T) {
	intentReply := `{"has_transaction": true, "transaction_type": "vente", "details": {"produit_nom": "savon", "quantite": 2}, "confidence": 0.92}`
	f := newAssistantFixture(&stubProvider{replies: []string{chatReply, intentReply}})

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{
		Message:                "j'ai vendu 2 savons",
		AutoRecordTransactions: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(f.sales.created) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(f.sales.created))
	}
	if f.sales.created[0].TotalAmount != 1000 {
		t.Errorf("total = %d, want 1000", f.sales.created[0].TotalAmount)
	}

	if resp.TransactionRecorded == nil || resp.TransactionRecorded.Type != "vente" {
		t.Fatalf("recorded = %+v", resp.TransactionRecorded)
	}
	want := "C'est noté ! Vente enregistrée: 2x Savon = 1 000 FCFA 💪"
	if resp.Response != want {
		t.Errorf("response = %q, want %q", resp.Response, want)
	}

	// Stored reply carries the marker the burst guard counts.
	if len(f.chatLogs.created) != 1 || !strings.Contains(f.chatLogs.created[0].BotResponse, "enregistrée:") {
		t.Errorf("chat log = %+v", f.chatLogs.created)
	}
}

func TestHandleMessageBurstGuard(t *testing.T) {
	f := newAssistantFixture(&stubProvider{replies: []string{chatReply}})
	f.chatLogs.autoCount = MaxAutoRecordsPerWindow

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{
		Message:                "vendu 3 savons",
		AutoRecordTransactions: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(f.provider.prompts) != 1 {
		t.Errorf("extractor must not run past the guard, got %d model calls", len(f.provider.prompts))
	}
	if len(f.sales.created) != 0 {
		t.Error("no sale may be recorded past the guard")
	}
	if resp.TransactionRecorded != nil {
		t.Error("no transaction expected")
	}
	if !strings.Contains(resp.Response, "💡 Trop de transactions automatiques") {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestHandleMessageLowConfidenceDiscarded(t *testing.T) {
	intentReply := `{"has_transaction": true, "transaction_type": "vente", "details": {"produit_nom": "savon", "quantite": 2}, "confidence": 0.5}`
	f := newAssistantFixture(&stubProvider{replies: []string{chatReply, intentReply}})

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{
		Message:                "je crois avoir vendu des savons",
		AutoRecordTransactions: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(f.sales.created) != 0 {
		t.Error("low-confidence intent must not commit")
	}
	if resp.TransactionRecorded != nil {
		t.Error("no transaction expected")
	}
	if resp.Response != "Bonjour ! Tout va bien." {
		t.Errorf("reply must stay untouched, got %q", resp.Response)
	}
}

func TestHandleMessageAppendsValidationFeedback(t *testing.T) {
	intentReply := `{"has_transaction": true, "transaction_type": "vente", "details": {"produit_nom": "tomate", "quantite": 2}, "confidence": 0.9}`
	f := newAssistantFixture(&stubProvider{replies: []string{chatReply, intentReply}})

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{
		Message:                "vendu 2 tomates",
		AutoRecordTransactions: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.TransactionRecorded != nil {
		t.Error("no transaction expected")
	}
	if !strings.HasPrefix(resp.Response, "Bonjour ! Tout va bien.") {
		t.Errorf("model reply must be kept, got %q", resp.Response)
	}
	if !strings.Contains(resp.Response, "💡 Produit 'tomate' non trouvé") {
		t.Errorf("feedback missing from %q", resp.Response)
	}
}

func TestHandleMessageProactiveAdvice(t *testing.T) {
	f := newAssistantFixture(&stubProvider{replies: []string{chatReply}})
	f.salesSum(1000)
	f.expensesSum(5000)

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{Message: "ça va ?"})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(resp.ProactiveAdvice, "dépassent tes ventes") {
		t.Errorf("proactive advice = %q", resp.ProactiveAdvice)
	}
	if !strings.Contains(resp.ProactiveAdvice, "5 000 FCFA") || !strings.Contains(resp.ProactiveAdvice, "1 000 FCFA") {
		t.Errorf("advice must carry both figures: %q", resp.ProactiveAdvice)
	}
}

func TestHandleMessageKeepsModelAdvice(t *testing.T) {
	reply := `{"response": "Ok.", "suggestions": ["a"], "proactive_advice": "Pense à recouvrer tes dettes."}`
	f := newAssistantFixture(&stubProvider{replies: []string{reply}})
	f.salesSum(1000)
	f.expensesSum(5000)

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{Message: "ok"})
	if err != nil {
		t.Fatal(err)
	}

	if resp.ProactiveAdvice != "Pense à recouvrer tes dettes." {
		t.Errorf("model advice must win, got %q", resp.ProactiveAdvice)
	}
}

func TestHandleMessageModelFailure(t *testing.T) {
	f := newAssistantFixture(&stubProvider{err: errors.New("upstream 503")})

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{Message: "bonjour"})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(resp.Response, "problème technique") {
		t.Errorf("response = %q", resp.Response)
	}
	if len(f.chatLogs.created) != 1 || f.chatLogs.created[0].Success {
		t.Errorf("expected one failed chat log, got %+v", f.chatLogs.created)
	}
}

func TestHistoryIsChronological(t *testing.T) {
	f := newAssistantFixture(&stubProvider{})
	f.chatLogs.recent = []models.ChatLog{
		{UserMessage: "troisième"},
		{UserMessage: "deuxième"},
		{UserMessage: "première"},
	}

	logs, err := f.svc.History(uuid.New(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if logs[0].UserMessage != "première" || logs[2].UserMessage != "troisième" {
		t.Errorf("history out of order: %v", logs)
	}
}

func TestHandleMessageEnglish(t *testing.T) {
	intentReply := `{"has_transaction": true, "transaction_type": "dette", "details": {"client_nom": "Mamadou", "montant_total": 5000}, "confidence": 0.9}`
	f := newAssistantFixture(&stubProvider{replies: []string{chatReply, intentReply}})

	resp, err := f.svc.HandleMessage(context.Background(), uuid.New(), &models.ChatRequest{
		Message:                "Mamadou owes me 5000",
		Language:               "en",
		AutoRecordTransactions: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := "Got it! Debt recorded: Mamadou owes 5 000 FCFA 📋"
	if resp.Response != want {
		t.Errorf("response = %q, want %q", resp.Response, want)
	}
	if len(f.debts.created) != 1 {
		t.Fatalf("expected 1 debt, got %d", len(f.debts.created))
	}
}
