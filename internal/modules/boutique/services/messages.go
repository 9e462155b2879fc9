package services

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatFCFA renders an amount with space-separated thousands, the usual
// francophone notation (15000 -> "15 000 FCFA").
func FormatFCFA(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(s[i])
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + " FCFA"
}

// locale holds every user-facing string in both supported languages. French
// is the default, English is opt-in per request.
type locale struct {
	english bool
}

func localeFor(lang string) locale {
	return locale{english: lang == "en"}
}

func (l locale) defaultSuggestions() []string {
	if l.english {
		return []string{"My sales today", "Savings tips", "Overdue debts"}
	}
	return []string{"Mes ventes aujourd'hui", "Conseils pour économiser", "Mes dettes en retard"}
}

func (l locale) quotaSuggestions() []string {
	if l.english {
		return []string{"View my sales", "Manage my stock", "My debts"}
	}
	return []string{"Voir mes ventes", "Gérer mon stock", "Mes dettes"}
}

func (l locale) quotaReached(quota int) string {
	if l.english {
		return fmt.Sprintf("You've reached your message quota (%d/month). Go Premium for more conversations! 💎", quota)
	}
	return fmt.Sprintf("Tu as atteint ton quota de messages (%d/mois). Passe Premium pour plus de conversations ! 💎", quota)
}

func (l locale) technicalApology() string {
	if l.english {
		return "Sorry, I ran into a technical problem. Could you rephrase your question? 🙏"
	}
	return "Désolée, j'ai rencontré un problème technique. Pouvez-vous reformuler votre question ? 🙏"
}

func (l locale) technicalRetry() string {
	if l.english {
		return "Sorry, I ran into a technical problem. Could you try again? 🙏"
	}
	return "Désolée, j'ai rencontré un problème technique. Pouvez-vous réessayer ? 🙏"
}

func (l locale) tooManyAutoTransactions() string {
	if l.english {
		return "Too many recent automatic transactions. Please use the forms to continue."
	}
	return "Trop de transactions automatiques récentes. Utilisez les formulaires pour continuer."
}

func (l locale) specifyProduct() string {
	if l.english {
		return "Specify the product (e.g., 'sold 3 soaps')."
	}
	return "Précisez le produit (ex: 'vendu 3 savons')."
}

func (l locale) specifyQuantity() string {
	if l.english {
		return "Specify the quantity (e.g., '2 bags of rice')."
	}
	return "Précisez la quantité (ex: '2 sacs de riz')."
}

func (l locale) productNotFound(name string) string {
	if l.english {
		return fmt.Sprintf("Product '%s' not found. Add it to stock first.", name)
	}
	return fmt.Sprintf("Produit '%s' non trouvé. Ajoutez-le dans le stock d'abord.", name)
}

func (l locale) insufficientStock(name string, available int) string {
	if l.english {
		return fmt.Sprintf("Insufficient stock for %s (%d available). Add stock first.", name, available)
	}
	return fmt.Sprintf("Stock insuffisant pour %s (%d disponible). Ajoutez du stock d'abord.", name, available)
}

func (l locale) specifyExpenseAmount() string {
	if l.english {
		return "Specify the expense amount (minimum 100 FCFA)."
	}
	return "Précisez le montant de la dépense (minimum 100 FCFA)."
}

func (l locale) specifyDebtAmount() string {
	if l.english {
		return "Specify the debt amount (minimum 500 FCFA)."
	}
	return "Précisez le montant de la dette (minimum 500 FCFA)."
}

func (l locale) specifyClientName() string {
	if l.english {
		return "Specify the client's name."
	}
	return "Précisez le nom du client."
}

func (l locale) saleRecorded(quantity int, product string, total int64) string {
	if l.english {
		return fmt.Sprintf("Sale recorded: %dx %s = %s", quantity, product, FormatFCFA(total))
	}
	return fmt.Sprintf("Vente enregistrée: %dx %s = %s", quantity, product, FormatFCFA(total))
}

func (l locale) expenseRecorded(amount int64, category string) string {
	if l.english {
		return fmt.Sprintf("Expense recorded: %s (%s)", FormatFCFA(amount), category)
	}
	return fmt.Sprintf("Dépense enregistrée: %s (%s)", FormatFCFA(amount), category)
}

func (l locale) debtRecorded(client string, amount int64) string {
	if l.english {
		return fmt.Sprintf("Debt recorded: %s owes %s", client, FormatFCFA(amount))
	}
	return fmt.Sprintf("Dette enregistrée: %s doit %s", client, FormatFCFA(amount))
}

// noted wraps a confirmation into the reply that replaces the model's text
// after an auto-recorded commit. The emoji varies per kind.
func (l locale) noted(msg, emoji string) string {
	if l.english {
		return fmt.Sprintf("Got it! %s %s", msg, emoji)
	}
	return fmt.Sprintf("C'est noté ! %s %s", msg, emoji)
}

func (l locale) expensesExceedSales(weekExpenses, weekSales int64) string {
	if l.english {
		return fmt.Sprintf("⚠️ Warning: your expenses this week (%s) exceed your sales (%s). Try to reduce non-essential expenses.",
			FormatFCFA(weekExpenses), FormatFCFA(weekSales))
	}
	return fmt.Sprintf("⚠️ Attention: tes dépenses cette semaine (%s) dépassent tes ventes (%s). Essaie de réduire les dépenses non essentielles.",
		FormatFCFA(weekExpenses), FormatFCFA(weekSales))
}
