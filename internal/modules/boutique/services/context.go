package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/models"
)

// criticalDebtAge is how long a debt may stay open before it counts as
// overdue in the assistant's briefing.
const criticalDebtAge = 15 * 24 * time.Hour

// FinancialContext is the snapshot of the boutique's numbers injected into
// the conversational prompt so the model answers with real figures.
type FinancialContext struct {
	SalesToday    int64
	ExpensesToday int64
	SalesWeek     int64
	ExpensesWeek  int64

	OpenDebtTotal int64
	CriticalDebts int64
	LowStockCount int64

	OpenDebts   []models.Debt
	RecentSales []models.Sale
	LowStock    []models.Product
}

// Render formats the snapshot as the context block of the system prompt.
// The block stays in French regardless of the reply language; the model
// reads it fine either way.
func (f *FinancialContext) Render(now time.Time) string {
	var b strings.Builder

	b.WriteString("DONNÉES DU JOUR :\n")
	fmt.Fprintf(&b, "- Ventes aujourd'hui : %s\n", FormatFCFA(f.SalesToday))
	fmt.Fprintf(&b, "- Dépenses aujourd'hui : %s\n", FormatFCFA(f.ExpensesToday))
	fmt.Fprintf(&b, "- Bénéfice aujourd'hui : %s\n\n", FormatFCFA(f.SalesToday-f.ExpensesToday))

	b.WriteString("BILAN DE LA SEMAINE :\n")
	fmt.Fprintf(&b, "- Ventes 7 jours : %s\n", FormatFCFA(f.SalesWeek))
	fmt.Fprintf(&b, "- Dépenses 7 jours : %s\n", FormatFCFA(f.ExpensesWeek))
	fmt.Fprintf(&b, "- Bénéfice net : %s\n\n", FormatFCFA(f.SalesWeek-f.ExpensesWeek))

	fmt.Fprintf(&b, "DETTES EN COURS (%d clients):\n", len(f.OpenDebts))
	if len(f.OpenDebts) == 0 {
		b.WriteString("  Aucune dette en cours\n")
	}
	for _, d := range f.OpenDebts {
		fmt.Fprintf(&b, "  - %s: %s (depuis %d jours)\n", d.ClientName, FormatFCFA(int64(d.RemainingAmount)), d.AgeDays(now))
	}
	fmt.Fprintf(&b, "Total dettes: %s (%d en retard > 15 jours)\n\n", FormatFCFA(f.OpenDebtTotal), f.CriticalDebts)

	b.WriteString("VENTES RÉCENTES:\n")
	if len(f.RecentSales) == 0 {
		b.WriteString("  Aucune vente récente\n")
	}
	for _, s := range f.RecentSales {
		fmt.Fprintf(&b, "  - %s: %dx = %s\n", s.Product.Name, s.Quantity, FormatFCFA(int64(s.TotalAmount)))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "ALERTES STOCK (%d produits):\n", f.LowStockCount)
	if len(f.LowStock) == 0 {
		b.WriteString("  Tout le stock est OK\n")
	}
	for _, p := range f.LowStock {
		fmt.Fprintf(&b, "  - %s: %d restant(s)\n", p.Name, p.Stock)
	}

	return b.String()
}
