package services

import (
	"context"
	"errors"
	"strings"

	"github.com/AmaraKouassi/djassa-coach-be/internal/core/audit"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/repositories"
	"github.com/AmaraKouassi/djassa-coach-be/internal/shared/utils"
	"github.com/google/uuid"
)

const defaultExpenseCategory = "Autre"

type auditLogger interface {
	LogChange(ctx context.Context, boutiqueID uuid.UUID, action, entity, entityID, source string, oldValue, newValue interface{}) error
}

// Committer turns a gated intent into a ledger mutation. Validation failures
// come back as user feedback, persistence failures as errors; exactly one of
// the three results is set.
type Committer struct {
	sales    repositories.SaleRepo
	expenses repositories.ExpenseRepo
	debts    repositories.DebtRepo
	audit    auditLogger
}

func NewCommitter(sales repositories.SaleRepo, expenses repositories.ExpenseRepo, debts repositories.DebtRepo, auditLog auditLogger) *Committer {
	return &Committer{sales: sales, expenses: expenses, debts: debts, audit: auditLog}
}

// Commit applies one transaction intent against the boutique's ledger.
// The catalog must be the same snapshot the extractor prompt was built from.
func (c *Committer) Commit(ctx context.Context, boutiqueID uuid.UUID, intent TransactionIntent, catalog []models.Product, loc locale) (*models.RecordedTransaction, string, error) {
	switch intent.Kind {
	case IntentSale:
		return c.commitSale(ctx, boutiqueID, intent.Details, catalog, loc)
	case IntentExpense:
		return c.commitExpense(ctx, boutiqueID, intent.Details, loc)
	case IntentDebt:
		return c.commitDebt(ctx, boutiqueID, intent.Details, loc)
	default:
		return nil, "", nil
	}
}

func (c *Committer) commitSale(ctx context.Context, boutiqueID uuid.UUID, details IntentDetails, catalog []models.Product, loc locale) (*models.RecordedTransaction, string, error) {
	name := strings.TrimSpace(strVal(details.ProductName))
	if len([]rune(name)) < 2 {
		return nil, loc.specifyProduct(), nil
	}

	if details.Quantity == nil || *details.Quantity < 1 {
		return nil, loc.specifyQuantity(), nil
	}
	quantity := int(*details.Quantity)

	product := ResolveProduct(catalog, name)
	if product == nil {
		return nil, loc.productNotFound(name), nil
	}

	sale := &models.Sale{
		BoutiqueID:  boutiqueID,
		ProductID:   product.ID,
		Quantity:    quantity,
		UnitPrice:   product.UnitPrice,
		TotalAmount: quantity * product.UnitPrice,
	}

	err := c.sales.CreateWithStockDecrement(sale)
	if errors.Is(err, repositories.ErrInsufficientStock) {
		return nil, loc.insufficientStock(product.Name, product.Stock), nil
	}
	if err != nil {
		return nil, "", err
	}

	c.logAudit(ctx, boutiqueID, "sales", sale.ID.String(), map[string]interface{}{
		"produit":  product.Name,
		"quantite": quantity,
	})

	msg := loc.saleRecorded(quantity, product.Name, int64(sale.TotalAmount))
	return &models.RecordedTransaction{
		Type: string(IntentSale),
		Details: map[string]interface{}{
			"produit":  product.Name,
			"quantite": quantity,
			"montant":  sale.TotalAmount,
		},
		Success: true,
		Message: msg,
	}, "", nil
}

func (c *Committer) commitExpense(ctx context.Context, boutiqueID uuid.UUID, details IntentDetails, loc locale) (*models.RecordedTransaction, string, error) {
	if details.TotalAmount == nil || *details.TotalAmount < models.MinAutoExpenseAmount {
		return nil, loc.specifyExpenseAmount(), nil
	}
	amount := int(*details.TotalAmount)

	category := strings.TrimSpace(strVal(details.Category))
	if len([]rune(category)) < 2 {
		category = defaultExpenseCategory
	}

	expense := &models.Expense{
		BoutiqueID:  boutiqueID,
		Category:    category,
		Amount:      amount,
		Description: truncateRunes(strVal(details.Description), 500),
	}

	if err := c.expenses.Create(expense); err != nil {
		return nil, "", err
	}

	c.logAudit(ctx, boutiqueID, "expenses", expense.ID.String(), map[string]interface{}{
		"categorie": category,
		"montant":   amount,
	})

	msg := loc.expenseRecorded(int64(amount), category)
	return &models.RecordedTransaction{
		Type: string(IntentExpense),
		Details: map[string]interface{}{
			"categorie": category,
			"montant":   amount,
		},
		Success: true,
		Message: msg,
	}, "", nil
}

func (c *Committer) commitDebt(ctx context.Context, boutiqueID uuid.UUID, details IntentDetails, loc locale) (*models.RecordedTransaction, string, error) {
	client := strings.TrimSpace(strVal(details.ClientName))
	if len([]rune(client)) < 2 {
		return nil, loc.specifyClientName(), nil
	}
	client = truncateRunes(client, 100)

	if details.TotalAmount == nil || *details.TotalAmount < models.MinAutoDebtAmount {
		return nil, loc.specifyDebtAmount(), nil
	}
	amount := int(*details.TotalAmount)

	debt := &models.Debt{
		BoutiqueID:      boutiqueID,
		ClientName:      client,
		InitialAmount:   amount,
		RemainingAmount: amount,
		Status:          models.DebtStatusOpen,
	}

	if err := c.debts.Create(debt); err != nil {
		return nil, "", err
	}

	c.logAudit(ctx, boutiqueID, "debts", debt.ID.String(), map[string]interface{}{
		"client":  client,
		"montant": amount,
	})

	msg := loc.debtRecorded(client, int64(amount))
	return &models.RecordedTransaction{
		Type: string(IntentDebt),
		Details: map[string]interface{}{
			"client":  client,
			"montant": amount,
		},
		Success: true,
		Message: msg,
	}, "", nil
}

// logAudit records the mutation trail. The ledger write already succeeded,
// so an audit failure is logged rather than surfaced.
func (c *Committer) logAudit(ctx context.Context, boutiqueID uuid.UUID, entity, entityID string, newValue map[string]interface{}) {
	utils.LogInfo("Transaction auto-recorded", map[string]interface{}{
		"boutique_id": boutiqueID.String(),
		"entity":      entity,
		"entity_id":   entityID,
	})

	if err := c.audit.LogChange(ctx, boutiqueID, "create_auto", entity, entityID, audit.SourceAssistant, nil, newValue); err != nil {
		utils.LogWarn("Audit log write failed", map[string]interface{}{
			"entity": entity,
			"error":  err.Error(),
		})
	}
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
