package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/core/llm"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/AmaraKouassi/djassa-coach-be/internal/shared/utils"
)

const extractionTimeout = 20 * time.Second

// IntentExtractor asks the model whether a chat message carries a recordable
// transaction. Extraction never fails the turn: any model or decode problem
// degrades to "no transaction detected".
type IntentExtractor struct {
	llm     *llm.Service
	timeout time.Duration
}

func NewIntentExtractor(llmService *llm.Service) *IntentExtractor {
	return &IntentExtractor{llm: llmService, timeout: extractionTimeout}
}

// Extract runs one extraction round over the message against the catalog
// snapshot. The same snapshot must be handed to the resolver afterwards so
// the names the model saw are the names looked up.
func (e *IntentExtractor) Extract(ctx context.Context, message string, catalog []models.Product, language string) TransactionIntent {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// The prompt already quotes the message; sending it again as the user
	// turn would make the model see it twice.
	prompt := buildIntentPrompt(message, catalog, language)

	raw, err := e.llm.GenerateResponse(ctx, prompt, "")
	if err != nil {
		utils.LogWarn("Intent extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return TransactionIntent{}
	}

	intent, err := ParseIntentPayload(raw)
	if err != nil {
		utils.LogWarn("Intent payload rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return TransactionIntent{}
	}

	return intent
}

func catalogLine(catalog []models.Product) string {
	entries := make([]string, 0, len(catalog))
	for i, p := range catalog {
		if i >= 30 {
			break
		}
		entries = append(entries, fmt.Sprintf("%s (%d FCFA)", p.Name, p.UnitPrice))
	}
	return strings.Join(entries, ", ")
}

func buildIntentPrompt(message string, catalog []models.Product, language string) string {
	products := catalogLine(catalog)

	if language == "en" {
		return fmt.Sprintf(`You are an expert assistant at extracting transaction intents.
Analyze this message and determine if it contains an intent to record a transaction (sale, expense, debt).

Message: "%s"

Products available in the shop:
%s

Respond ONLY with valid JSON in this exact format:
{
    "has_transaction": true/false,
    "transaction_type": "vente" | "depense" | "dette" | null,
    "details": {
        "produit_nom": "exact product name or null",
        "quantite": number or null,
        "prix_unitaire": price in FCFA or null,
        "montant_total": total amount or null,
        "client_nom": "client name for debt or null",
        "description": "expense description or null",
        "categorie": "expense category or null"
    },
    "confidence": 0.0-1.0,
    "missing_info": ["list of missing info"]
}

Examples:
- "Sold 2 bags of rice at 15000" -> sale, product: rice, quantity: 2, price: 15000
- "I sold 3 soaps" -> sale, product: soap, quantity: 3
- "Expense electricity 20000 FCFA" -> expense, description: electricity, amount: 20000
- "Mamadou owes me 5000 francs" -> debt, client: Mamadou, amount: 5000
- "What's my profit?" -> has_transaction: false

JSON:`, message, products)
	}

	return fmt.Sprintf(`Tu es un assistant expert en extraction d'intentions de transaction.
Analyse ce message et détermine s'il contient une intention d'enregistrer une transaction (vente, dépense, dette).

Message: "%s"

Produits disponibles dans la boutique:
%s

Réponds UNIQUEMENT en JSON valide avec ce format:
{
    "has_transaction": true/false,
    "transaction_type": "vente" | "depense" | "dette" | null,
    "details": {
        "produit_nom": "nom du produit ou null",
        "quantite": nombre ou null,
        "prix_unitaire": prix en FCFA ou null,
        "montant_total": montant total ou null,
        "client_nom": "nom du client pour dette ou null",
        "description": "description de la dépense ou null",
        "categorie": "categorie de dépense ou null"
    },
    "confidence": 0.0-1.0,
    "missing_info": ["liste des infos manquantes"]
}

Exemples:
- "Vendu 2 sacs de riz à 15000" -> vente, produit: riz, quantite: 2, prix: 15000
- "J'ai vendu 3 savons" -> vente, produit: savon, quantite: 3
- "Dépense électricité 20000 FCFA" -> dépense, description: électricité, montant: 20000
- "Mamadou me doit 5000 francs" -> dette, client: Mamadou, montant: 5000
- "Quel est mon bénéfice?" -> has_transaction: false

JSON:`, message, products)
}
