package services

import (
	"encoding/json"
	"fmt"

	"github.com/AmaraKouassi/djassa-coach-be/internal/core/llm"
)

// IntentKind is the closed set of transaction types the extractor may emit.
// The wire values are the French nouns the prompt asks the model for.
type IntentKind string

const (
	IntentNone    IntentKind = ""
	IntentSale    IntentKind = "vente"
	IntentExpense IntentKind = "depense"
	IntentDebt    IntentKind = "dette"
)

// CommitConfidenceThreshold is the minimum extractor confidence below which
// a detected intent is discarded without side effects.
const CommitConfidenceThreshold = 0.8

// IntentDetails carries the slots the model filled in. Every field is a
// pointer so "absent" and "zero" stay distinguishable.
type IntentDetails struct {
	ProductName *string  `json:"produit_nom"`
	Quantity    *float64 `json:"quantite"`
	UnitPrice   *float64 `json:"prix_unitaire"`
	TotalAmount *float64 `json:"montant_total"`
	ClientName  *string  `json:"client_nom"`
	Description *string  `json:"description"`
	Category    *string  `json:"categorie"`
}

type TransactionIntent struct {
	HasTransaction bool          `json:"has_transaction"`
	Kind           IntentKind    `json:"transaction_type"`
	Details        IntentDetails `json:"details"`
	Confidence     float64       `json:"confidence"`
	MissingInfo    []string      `json:"missing_info"`
}

// ShouldCommit reports whether the intent clears the confidence gate.
func (t TransactionIntent) ShouldCommit() bool {
	return t.HasTransaction && t.Kind != IntentNone && t.Confidence >= CommitConfidenceThreshold
}

// ParseIntentPayload decodes the extractor's raw model output. Fenced or
// prose-wrapped JSON is tolerated; an unknown transaction_type on a positive
// detection is an error, not a silent pass-through.
func ParseIntentPayload(raw string) (TransactionIntent, error) {
	var intent TransactionIntent

	payload, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return intent, fmt.Errorf("no JSON object in model output")
	}

	if err := json.Unmarshal([]byte(payload), &intent); err != nil {
		return TransactionIntent{}, fmt.Errorf("decode intent payload: %w", err)
	}

	switch intent.Kind {
	case IntentNone, IntentSale, IntentExpense, IntentDebt:
	default:
		return TransactionIntent{}, fmt.Errorf("unknown transaction type %q", intent.Kind)
	}

	if intent.HasTransaction && intent.Kind == IntentNone {
		return TransactionIntent{}, fmt.Errorf("transaction detected but no type given")
	}

	return intent, nil
}
