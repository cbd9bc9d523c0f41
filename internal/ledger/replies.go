package ledger

import (
	"fmt"
	"strings"

	"ezba/internal/core"
)

const divider = "──────────────"

const deniedReply = "⛔ Not authorized."

const smallTalkReply = "I keep the farm ledger. I can record income and expenses and answer totals.\n" +
	"Try: \"sold eggs for 200\" or \"how much profit this month?\""

const clarifyReply = "❓ I did not understand. Try:\n" +
	"• \"sold eggs for 200\"\n" +
	"• \"spent 800 on feed\"\n" +
	"• \"how much profit this month?\"\n" +
	"• \"recent transactions\"\n" +
	"or send /help"

const clarifyRecordReply = "❌ Specify the item and the amount.\n" +
	"Example: sold eggs for 200"

const clarifyCategoryReply = "❌ Specify the category or item.\n" +
	"Example: how much income from eggs? or how much did we spend on feed?"

const ledgerUnavailableReply = "⚠️ Could not read the ledger. Please try again."

const helpReply = `🌾 Farm ledger bot – what I understand:

💰 Record income:
  • sold eggs for 200
  • sold 2 goats for 4699

📤 Record expense:
  • spent 800 on feed
  • paid electricity bill 350

📊 Questions:
  • how much profit this month?
  • total income?
  • how much did we spend on feed?
  • recent transactions

⚙️ Commands:
  /report – today and month summary
  /inventory – current stock
  /stock <item> <±count> – adjust stock`

func recordedReply(r core.Record, totals core.Totals) string {
	var b strings.Builder

	title := "✅ Expense recorded"
	if r.Direction == core.Income {
		title = "✅ Income recorded"
	}

	fmt.Fprintf(&b, "%s\n%s\n", divider, title)
	fmt.Fprintf(&b, "Item: %s\n", r.Item)
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Amount: %s AED\n", core.FormatAmount(r.Amount))
	fmt.Fprintf(&b, "By: %s\n", r.Actor)
	fmt.Fprintf(&b, "%s\n", divider)
	fmt.Fprintf(&b, "📊 This month:\n")
	fmt.Fprintf(&b, "  income: %s | expense: %s | net: %s",
		core.FormatAmount(totals.Income),
		core.FormatAmount(totals.Expense),
		core.FormatAmount(core.Money{Cents: totals.Income.Cents - totals.Expense.Cents}))

	if r.Direction == core.Expense && totals.Expense.Cents > totals.Income.Cents {
		b.WriteString("\n⚠️ Expenses exceed income!")
	}
	return b.String()
}

// recordedNoTotalsReply is used when the append succeeded but the
// follow-up totals read did not.
func recordedNoTotalsReply(r core.Record) string {
	title := "✅ Expense recorded"
	if r.Direction == core.Income {
		title = "✅ Income recorded"
	}
	return fmt.Sprintf("%s\n%s\nItem: %s\nAmount: %s AED\nBy: %s\n%s\n(month totals unavailable right now)",
		divider, title, r.Item, core.FormatAmount(r.Amount), r.Actor, divider)
}

// persistenceFailedReply keeps the understood content in the reply so
// the user can retry without re-describing the transaction.
func persistenceFailedReply(r core.Record) string {
	return fmt.Sprintf("⚠️ Could not save the record. Nothing was written.\n"+
		"Understood: %s, %s, %s AED\n"+
		"Please send it again.",
		r.Direction, r.Item, core.FormatAmount(r.Amount))
}

func totalReply(icon, label string, w core.PeriodWindow, amount core.Money) string {
	return fmt.Sprintf("%s\n%s %s (%s): %s AED\n%s",
		divider, icon, label, w.Label, core.FormatAmount(amount), divider)
}

func profitReply(w core.PeriodWindow, totals core.Totals) string {
	net := core.Money{Cents: totals.Income.Cents - totals.Expense.Cents}
	icon := "📈"
	if net.Cents < 0 {
		icon = "📉"
	}
	return fmt.Sprintf("%s\n💰 Summary (%s)\nIncome:  %s AED\nExpense: %s AED\n%s Net: %s AED\n%s",
		divider, w.Label,
		core.FormatAmount(totals.Income),
		core.FormatAmount(totals.Expense),
		icon, core.FormatAmount(net), divider)
}

func categoryTotalReply(label string, w core.PeriodWindow, amount core.Money) string {
	return fmt.Sprintf("%s\n📊 Total for %s (%s): %s AED\n%s",
		divider, label, w.Label, core.FormatAmount(amount), divider)
}

func recentReply(records []core.Record) string {
	if len(records) == 0 {
		return "No transactions recorded yet."
	}
	lines := []string{divider, "🕐 Recent transactions"}
	for _, r := range records {
		sign := "-"
		if r.Direction == core.Income {
			sign = "+"
		}
		lines = append(lines, fmt.Sprintf("%s  %s%s AED  %s",
			r.Timestamp.Format("2006-01-02"), sign, core.FormatAmount(r.Amount), r.Item))
	}
	lines = append(lines, divider)
	return strings.Join(lines, "\n")
}

func inventoryReply(items []core.InventoryRecord) string {
	if len(items) == 0 {
		return "📋 Inventory is empty."
	}
	lines := []string{divider, "📦 Current stock"}
	for _, it := range items {
		kind := it.Kind
		if kind == "" {
			kind = "-"
		}
		lines = append(lines, fmt.Sprintf("  %s (%s): %d", it.Item, kind, it.Quantity))
	}
	lines = append(lines, divider)
	return strings.Join(lines, "\n")
}

func stockAdjustedReply(item string, qty int) string {
	return fmt.Sprintf("%s\n✅ Stock updated\n%s: %d\n%s", divider, item, qty, divider)
}

func reportReply(date string, today, month core.Totals, breakdown []core.CategoryAmount, items []core.InventoryRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n📋 Daily report — %s\n%s\n", divider, date, divider)
	fmt.Fprintf(&b, "📅 Today\n  income: %s | expense: %s | net: %s\n",
		core.FormatAmount(today.Income),
		core.FormatAmount(today.Expense),
		core.FormatAmount(core.Money{Cents: today.Income.Cents - today.Expense.Cents}))
	fmt.Fprintf(&b, "%s\n📆 This month\n  income: %s | expense: %s | net: %s\n",
		divider,
		core.FormatAmount(month.Income),
		core.FormatAmount(month.Expense),
		core.FormatAmount(core.Money{Cents: month.Income.Cents - month.Expense.Cents}))

	if len(breakdown) > 0 {
		fmt.Fprintf(&b, "%s\n📊 Month expenses by category\n", divider)
		for _, c := range breakdown {
			fmt.Fprintf(&b, "  %s: %s AED\n", c.Name, core.FormatAmount(c.Amount))
		}
	}

	fmt.Fprintf(&b, "%s\n📦 Current stock\n", divider)
	if len(items) == 0 {
		b.WriteString("  none\n")
	} else {
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, fmt.Sprintf("%s: %d", it.Item, it.Quantity))
		}
		fmt.Fprintf(&b, "  %s\n", strings.Join(parts, " | "))
	}
	b.WriteString(divider)
	return b.String()
}
