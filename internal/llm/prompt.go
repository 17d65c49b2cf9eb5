package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/lootlog/internal/model"
)

// systemPrompt lists the canonical vocabulary so that replies need as little
// alias resolution as possible. Replies are validated like any other input.
func systemPrompt() string {
	var b strings.Builder

	b.WriteString(`You are a data extraction assistant for a video game purchase tracker.
Parse free-form text and extract structured game purchase transactions.

For each transaction you find, return a JSON object with these fields:
- title (string, required): the game or item name
`)
	fmt.Fprintf(&b, "- type (string): one of: %s. Default: %q\n", join(model.TransactionTypes), model.DefaultType)
	b.WriteString("- price (number): the price as a number. Handle comma decimals (29,99 is 29.99). Default: 0\n")
	fmt.Fprintf(&b, "- currency (string): one of: %s. Infer from symbols (€=EUR, $=USD, £=GBP, ¥=JPY). Default: %q\n",
		join(model.Currencies), model.DefaultCurrency)
	fmt.Fprintf(&b, "- platform (string): one of: %s. Default: %q\n", join(model.Platforms), model.DefaultPlatform)
	fmt.Fprintf(&b, "- genre (string): one of: %s. Default: %q\n", join(model.Genres), model.DefaultGenre)
	b.WriteString("- store (string): the store name if mentioned (e.g. Steam, Amazon, Epic Games). Default: \"\"\n")
	fmt.Fprintf(&b, "- status (string): one of: %s. Default: %q\n", join(model.Statuses), model.DefaultStatus)
	b.WriteString(`- purchase_date (string): YYYY-MM-DD if a date is mentioned. Read DD/MM/YYYY as day first. Default: today's date
- notes (string): any extra info. Default: ""
- parent_game_name (string): for DLC, skins and passes, the game they belong to. Default: ""

Rules:
- Extract ALL transactions mentioned in the text
- If something looks like a game purchase, include it
- Handle both French and English input
- For ambiguous currencies, use EUR for French text and USD for English text
- Return ONLY a JSON object with a "transactions" array, no other text
- If there is nothing to extract, return {"transactions": []}

Example output:
{"transactions": [{"title": "Elden Ring", "type": "game", "price": 49.99, "currency": "EUR", "platform": "PS5", "store": "Steam", "status": "Backlog", "purchase_date": "2024-01-15", "genre": "RPG", "notes": ""}]}`)

	return b.String()
}

// userPrompt frames the text with the language hint and today's date.
func userPrompt(language, today, text string) string {
	return fmt.Sprintf("Language: %s\nToday's date: %s\n\nText to parse:\n%s", language, today, text)
}

// truncate keeps at most limit runes of text.
func truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := 0
	for i := range text {
		if runes == limit {
			return text[:i]
		}
		runes++
	}
	return text
}

func join[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}
