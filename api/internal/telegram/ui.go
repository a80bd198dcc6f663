package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"credit-bot/api/internal/review"
)

func progressLine(s review.Stage) string {
	if s == review.StageDone {
		return "✅ " + s.Label()
	}
	return "⏳ " + s.Label() + "…"
}

// badge renders the per-field confidence marker. A field the student edited
// shows as verified regardless of what the extractor thought of it.
func badge(f *review.Form, name string) string {
	if f.Verified(name) {
		return "✔️ verified"
	}
	switch f.LevelFor(name) {
	case review.LevelHigh:
		return "✅"
	case review.LevelMedium:
		return "⚠️ needs verification"
	case review.LevelLow:
		return "❗ needs verification"
	default:
		return ""
	}
}

func bannerLine(b review.Banner) string {
	switch b {
	case review.BannerAllHigh:
		return "✅ All fields extracted with high confidence."
	case review.BannerAttention:
		return "⚠️ Some fields need your attention — edit them before submitting."
	default:
		return ""
	}
}

// renderForm builds the form message: one line per field with its badge,
// plus the aggregate banner. Pure, so it is testable without a bot.
func renderForm(f *review.Form, uploadID string) string {
	var b strings.Builder
	b.WriteString("📋 Internship credit form")
	if uploadID != "" {
		b.WriteString(" (upload " + shortID(uploadID) + ")")
	}
	b.WriteString("\n")
	if line := bannerLine(f.Banner()); line != "" {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	for _, name := range review.ScoredFields {
		writeFieldLine(&b, f, name)
	}
	for _, name := range review.PassthroughFields {
		writeFieldLine(&b, f, name)
	}

	b.WriteString("\nTap a field to change it, then press Submit.")
	return b.String()
}

func writeFieldLine(b *strings.Builder, f *review.Form, name string) {
	val := f.Value(name)
	if val == "" {
		val = "—"
	}
	fmt.Fprintf(b, "%s: %s", review.FieldLabel(name), val)
	if mark := badge(f, name); mark != "" {
		b.WriteString("  " + mark)
	}
	b.WriteString("\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "…"
	}
	return id
}

// makeFormKeyboard lays out one edit button per field plus Submit.
func makeFormKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	all := append(append([]string{}, review.ScoredFields...), review.PassthroughFields...)
	for i := 0; i < len(all); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+review.FieldLabel(all[i]), "edit:"+all[i]),
		}
		if i+1 < len(all) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("✏️ "+review.FieldLabel(all[i+1]), "edit:"+all[i+1]))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📤 Submit", "submit"),
	))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func makeSubmitConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	yes := tgbotapi.NewInlineKeyboardButtonData("Submit anyway", "confirm_yes")
	no := tgbotapi.NewInlineKeyboardButtonData("Keep editing", "confirm_no")
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(yes, no))
}
