package nlu

import "fmt"

// promptVersion tracks the classifier contract. Bump it whenever the
// wire schema or the instructions below change, so logs can tell which
// contract produced a given classification.
const promptVersion = 2

// buildPrompt renders the full classifier prompt for one message. The
// model must answer with a single JSON object and nothing else; the
// resolver validates the object against the closed schema regardless.
func buildPrompt(text, actorHint string) string {
	return fmt.Sprintf(`You are the bookkeeping assistant of a small farm. Users report income
and expenses, or ask aggregate questions, in informal language (English,
Gulf Arabic, or a mix).

Convert the user's message into exactly one JSON object of this shape,
with no extra fields, no markdown and no commentary:

{
  "intent": "",
  "direction": "in | out | none",
  "item": "",
  "category": "",
  "amount": 0,
  "period": "today | week | month | all"
}

intent (choose exactly one):
- "add_income"     : a new income is being reported (sold something, money came in)
- "add_expense"    : a new expense is being reported (bought, paid, spent, salary, bill)
- "income_total"   : asking for total income
- "expense_total"  : asking for total spending
- "profit"         : asking for net profit or loss
- "category_total" : asking for the total of one item or category ("how much on feed?")
- "recent"         : asking for the latest transactions
- "smalltalk"      : greeting or a question about the bot itself, with no numbers
- "clarify"        : the message cannot be mapped to any intent above

direction: "in" for income reports, "out" for expense reports, "none" for
questions and smalltalk.

item: the thing as stated ("feed", "eggs", "electricity bill", "بيض", "أعلاف").

category: a short grouping label ("feed", "salaries", "bills", "livestock
sales"). Leave empty when nothing obvious fits; do not invent one.

amount: the reported amount as a plain number. 0 when no amount was given.
Never guess an amount.

period: for questions only. "today" for today, "week" for the last seven
days, "month" for this month (the usual default), "all" for everything
since the beginning.

Arabic cues: "بعت", "بعنا", "وردة", "دخل" usually mean income; "اشترينا",
"صرفنا", "دفعنا", "راتب", "فاتورة" usually mean an expense; "صرف" and
"مصروف" are the expense words, "دخل" the income word.

Reporting user: %s
Message: %s`, actorHint, text)
}
