package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/core/llm"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/repositories"
	"github.com/AmaraKouassi/djassa-coach-be/internal/shared/utils"
	"github.com/google/uuid"
)

const (
	// ChatQuotaPerMonth caps assistant turns per boutique per calendar month.
	ChatQuotaPerMonth = 50

	// MaxAutoRecordsPerWindow caps auto-recorded transactions over the
	// trailing autoRecordWindow; past it the turn still answers but refuses
	// to write to the ledger.
	MaxAutoRecordsPerWindow = 10
	autoRecordWindow        = 5 * time.Minute

	catalogSnapshotLimit = 30
	historyTurns         = 5
	replyTimeout         = 30 * time.Second
)

// replyPayload is the JSON shape the conversational prompt asks the model
// to answer with.
type replyPayload struct {
	Response        string   `json:"response"`
	Suggestions     []string `json:"suggestions"`
	ProactiveAdvice string   `json:"proactive_advice"`
}

// AssistantService runs one assistant turn end to end: quota, briefing,
// model reply, optional auto-recording, reply composition, persistence.
type AssistantService struct {
	products repositories.ProductRepo
	sales    repositories.SaleRepo
	expenses repositories.ExpenseRepo
	debts    repositories.DebtRepo
	chatLogs repositories.ChatLogRepo

	llm       *llm.Service
	extractor *IntentExtractor
	committer *Committer
}

func NewAssistantService(
	products repositories.ProductRepo,
	sales repositories.SaleRepo,
	expenses repositories.ExpenseRepo,
	debts repositories.DebtRepo,
	chatLogs repositories.ChatLogRepo,
	llmService *llm.Service,
	committer *Committer,
) *AssistantService {
	return &AssistantService{
		products:  products,
		sales:     sales,
		expenses:  expenses,
		debts:     debts,
		chatLogs:  chatLogs,
		llm:       llmService,
		extractor: NewIntentExtractor(llmService),
		committer: committer,
	}
}

// HandleMessage processes one chat turn. Model and ledger failures degrade
// to an apology reply rather than an error; only broken inputs and context
// queries surface errors to the handler.
func (s *AssistantService) HandleMessage(ctx context.Context, boutiqueID uuid.UUID, req *models.ChatRequest) (*models.ChatResponse, error) {
	start := time.Now()
	now := start.UTC()
	loc := localeFor(req.Language)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	turnCount, err := s.chatLogs.CountSince(boutiqueID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("count chat turns: %w", err)
	}

	if turnCount >= ChatQuotaPerMonth {
		zero := 0
		return &models.ChatResponse{
			Response:       loc.quotaReached(ChatQuotaPerMonth),
			Suggestions:    loc.quotaSuggestions(),
			QuotaRemaining: &zero,
		}, nil
	}

	fctx, err := s.buildFinancialContext(boutiqueID, now)
	if err != nil {
		return nil, fmt.Errorf("build financial context: %w", err)
	}

	// The composed prompt embeds the user message; passing it again would
	// duplicate it in the provider payload.
	prompt := composeChatPrompt(fctx, req.ConversationHistory, req.Message, now, loc)

	llmCtx, cancel := context.WithTimeout(ctx, replyTimeout)
	raw, err := s.llm.GenerateResponse(llmCtx, prompt, "")
	cancel()
	if err != nil {
		utils.LogError("Assistant reply generation failed", err, map[string]interface{}{
			"boutique_id": boutiqueID.String(),
		})
		s.persistTurn(boutiqueID, req.Message, "Erreur LLM: "+err.Error(), false, start)
		return &models.ChatResponse{
			Response:    loc.technicalApology(),
			Suggestions: loc.defaultSuggestions(),
		}, nil
	}

	payload, ok := decodeReplyPayload(raw)
	if !ok {
		s.persistTurn(boutiqueID, req.Message, "Réponse JSON invalide", false, start)
		return &models.ChatResponse{
			Response:    loc.technicalApology(),
			Suggestions: loc.defaultSuggestions(),
		}, nil
	}
	if len(payload.Suggestions) == 0 {
		payload.Suggestions = loc.defaultSuggestions()
	}
	if len(payload.Suggestions) > 3 {
		payload.Suggestions = payload.Suggestions[:3]
	}

	resp := &models.ChatResponse{
		Response:        payload.Response,
		Suggestions:     payload.Suggestions,
		ProactiveAdvice: payload.ProactiveAdvice,
	}

	if req.AutoRecordTransactions {
		if err := s.autoRecord(ctx, boutiqueID, req.Message, req.Language, now, loc, resp); err != nil {
			utils.LogError("Auto-record failed", err, map[string]interface{}{
				"boutique_id": boutiqueID.String(),
			})
			s.persistTurn(boutiqueID, req.Message, "Erreur d'enregistrement: "+err.Error(), false, start)
			return &models.ChatResponse{
				Response:    loc.technicalRetry(),
				Suggestions: loc.defaultSuggestions(),
			}, nil
		}
	}

	if fctx.ExpensesWeek > fctx.SalesWeek && resp.ProactiveAdvice == "" {
		resp.ProactiveAdvice = loc.expensesExceedSales(fctx.ExpensesWeek, fctx.SalesWeek)
	}

	remaining := ChatQuotaPerMonth - int(turnCount) - 1
	if remaining < 0 {
		remaining = 0
	}
	resp.QuotaRemaining = &remaining

	s.persistTurn(boutiqueID, req.Message, resp.Response, true, start)

	return resp, nil
}

// autoRecord runs the guarded recording pipeline and mutates resp in place.
// A commit replaces the model's reply; validation feedback is appended to it.
func (s *AssistantService) autoRecord(ctx context.Context, boutiqueID uuid.UUID, message, language string, now time.Time, loc locale, resp *models.ChatResponse) error {
	recentAutoTx, err := s.chatLogs.CountAutoRecordedSince(boutiqueID, now.Add(-autoRecordWindow))
	if err != nil {
		return fmt.Errorf("count recent auto transactions: %w", err)
	}

	var feedback string

	if recentAutoTx >= MaxAutoRecordsPerWindow {
		feedback = loc.tooManyAutoTransactions()
	} else {
		catalog, err := s.products.Catalog(boutiqueID, catalogSnapshotLimit)
		if err != nil {
			return fmt.Errorf("load catalog snapshot: %w", err)
		}

		intent := s.extractor.Extract(ctx, message, catalog, language)
		if intent.ShouldCommit() {
			recorded, fb, err := s.committer.Commit(ctx, boutiqueID, intent, catalog, loc)
			if err != nil {
				return err
			}
			feedback = fb

			if recorded != nil {
				resp.TransactionRecorded = recorded
				resp.Response = loc.noted(recorded.Message, confirmationEmoji(IntentKind(recorded.Type)))
			}
		}
	}

	if feedback != "" && resp.TransactionRecorded == nil {
		if resp.Response != "" {
			resp.Response = resp.Response + "\n\n💡 " + feedback
		} else {
			resp.Response = feedback
		}
	}

	return nil
}

func (s *AssistantService) buildFinancialContext(boutiqueID uuid.UUID, now time.Time) (*FinancialContext, error) {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := todayStart.AddDate(0, 0, -7)

	fctx := &FinancialContext{}
	var err error

	if fctx.SalesToday, err = s.sales.SumSince(boutiqueID, todayStart); err != nil {
		return nil, err
	}
	if fctx.ExpensesToday, err = s.expenses.SumSince(boutiqueID, todayStart); err != nil {
		return nil, err
	}
	if fctx.SalesWeek, err = s.sales.SumSince(boutiqueID, weekStart); err != nil {
		return nil, err
	}
	if fctx.ExpensesWeek, err = s.expenses.SumSince(boutiqueID, weekStart); err != nil {
		return nil, err
	}
	if fctx.OpenDebtTotal, err = s.debts.OpenTotal(boutiqueID); err != nil {
		return nil, err
	}
	if fctx.CriticalDebts, err = s.debts.CountOpenOlderThan(boutiqueID, now.Add(-criticalDebtAge)); err != nil {
		return nil, err
	}
	if fctx.LowStockCount, err = s.products.CountLowStock(boutiqueID); err != nil {
		return nil, err
	}
	if fctx.OpenDebts, err = s.debts.ListOpen(boutiqueID, 10); err != nil {
		return nil, err
	}
	if fctx.RecentSales, err = s.sales.Recent(boutiqueID, 5); err != nil {
		return nil, err
	}
	if fctx.LowStock, err = s.products.LowStock(boutiqueID, 5); err != nil {
		return nil, err
	}

	return fctx, nil
}

// persistTurn writes the ChatLog row for the turn. A write failure is logged
// and swallowed so the user still gets the reply.
func (s *AssistantService) persistTurn(boutiqueID uuid.UUID, userMessage, botResponse string, success bool, start time.Time) {
	entry := &models.ChatLog{
		BoutiqueID:     boutiqueID,
		UserMessage:    userMessage,
		BotResponse:    botResponse,
		Success:        success,
		ResponseTimeMs: int(time.Since(start).Milliseconds()),
	}
	if err := s.chatLogs.Create(entry); err != nil {
		utils.LogError("Chat log write failed", err, map[string]interface{}{
			"boutique_id": boutiqueID.String(),
		})
	}
}

// History returns the most recent stored turns in chronological order.
func (s *AssistantService) History(boutiqueID uuid.UUID, limit int) ([]models.ChatLog, error) {
	logs, err := s.chatLogs.Recent(boutiqueID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// ClearHistory deletes every stored turn for the boutique.
func (s *AssistantService) ClearHistory(boutiqueID uuid.UUID) (int64, error) {
	return s.chatLogs.Clear(boutiqueID)
}

func confirmationEmoji(kind IntentKind) string {
	switch kind {
	case IntentExpense:
		return "📝"
	case IntentDebt:
		return "📋"
	default:
		return "💪"
	}
}

// decodeReplyPayload parses the model's conversational answer. Replies that
// carry no JSON at all are kept verbatim as plain text; replies that carry
// broken JSON are rejected.
func decodeReplyPayload(raw string) (replyPayload, bool) {
	obj, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return replyPayload{Response: strings.TrimSpace(raw)}, raw != ""
	}

	var payload replyPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return replyPayload{}, false
	}
	return payload, true
}

func composeChatPrompt(fctx *FinancialContext, history []models.ChatTurn, message string, now time.Time, loc locale) string {
	contextBlock := fctx.Render(now)

	var historyBlock strings.Builder
	turns := history
	if len(turns) > historyTurns {
		turns = turns[len(turns)-historyTurns:]
	}
	for _, t := range turns {
		role := "Utilisateur"
		if loc.english {
			role = "User"
		}
		if t.Sender != "user" {
			role = "Cécile"
		}
		fmt.Fprintf(&historyBlock, "%s: %s\n", role, t.Text)
	}

	if loc.english {
		return fmt.Sprintf(`You are Cécile, an intelligent financial assistant for Djassa Coach, an app for Ivorian merchants.

%s

YOUR ROLE:
- Help merchants manage their business
- Respond in simple, accessible English
- Be friendly, encouraging and proactive
- Give actionable advice
- Use emojis sparingly (1-2 max)
- Offer concrete suggestions

STYLE:
- Reply briefly (2-3 sentences max unless detailed analysis requested)
- Be positive and motivating
- Avoid complex financial jargon

RECENT HISTORY:
%s

NEW USER MESSAGE:
%s

INSTRUCTIONS:
1. Respond naturally and conversationally
2. If user asks for numbers, use the context stats
3. If needed, suggest 2-3 quick actions
4. Maintain an encouraging and professional tone

RESPONSE (JSON format):
{
    "response": "your response here",
    "suggestions": ["suggestion 1", "suggestion 2", "suggestion 3"],
    "proactive_advice": "optional proactive advice if situation warrants it or null"
}`, contextBlock, historyBlock.String(), message)
	}

	return fmt.Sprintf(`Tu es Cécile, l'assistante financière intelligente de Djassa Coach pour les commerçants ivoiriens.

%s

TON RÔLE :
- Aide le commerçant à gérer son business
- Réponds en français simple et accessible
- Sois amicale, encourageante et proactive
- Donne des conseils actionnables
- Utilise des emojis avec parcimonie (1-2 max)
- Propose des suggestions concrètes

STYLE :
- Réponds brièvement (2-3 phrases max sauf si analyse demandée)
- Tutoie l'utilisateur
- Sois positive et motivante
- Évite le jargon financier complexe

HISTORIQUE RÉCENT :
%s

NOUVEAU MESSAGE UTILISATEUR :
%s

INSTRUCTIONS :
1. Réponds de manière naturelle et conversationnelle
2. Si l'utilisateur demande des chiffres, utilise les stats du contexte
3. Si nécessaire, propose 2-3 suggestions d'actions rapides
4. Garde un ton encourageant et professionnel
5. Si les dépenses dépassent les ventes cette semaine, donne un conseil proactif

RÉPONSE (format JSON) :
{
    "response": "ta réponse ici",
    "suggestions": ["suggestion 1", "suggestion 2", "suggestion 3"],
    "proactive_advice": "conseil proactif optionnel si la situation le justifie ou null"
}`, contextBlock, historyBlock.String(), message)
}
