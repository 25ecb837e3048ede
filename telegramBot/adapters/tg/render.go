package tg

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Agrayne/Ranobot/telegramBot/core"
)

const (
	textNoResults = "No results found"
	textOverflow  = "More than 5800 results. Be more specific with the search terms."
	textFailure   = "Something went wrong while talking to the catalog. Please try again later."
	textExpired   = "These results are no longer available. Please search again."

	maxDescription = 2500
	maxButtonTitle = 60
)

func trackName(locale string) string {
	switch locale {
	case "ja":
		return "JP"
	case "en":
		return "EN"
	default:
		return strings.ToUpper(locale)
	}
}

func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// renderPage formats one result page and its inline keyboard.
func renderPage(res core.SearchResponse, n int) (string, tgbotapi.InlineKeyboardMarkup, bool) {
	page, ok := res.Page(n)
	if !ok {
		return "", tgbotapi.InlineKeyboardMarkup{}, false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Found %d results*\n\n", res.Total)
	for _, e := range page.Entries {
		fmt.Fprintf(&sb, "%d. %s\n", e.Serial, md(e.Title))
	}
	fmt.Fprintf(&sb, "\nPage %d/%d", page.Page, len(res.Pages))

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, e := range page.Entries {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(e.Serial), selectData(e.Serial)))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []tgbotapi.InlineKeyboardButton
	if n > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀", pageData(n-1)))
	}
	if n < len(res.Pages) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("▶", pageData(n+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// renderSeries formats the series card with its release projections.
func renderSeries(s core.SeriesResponse) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s*\n", md(s.Title))
	switch {
	case s.Locale == "ja" && s.Romaji != "":
		fmt.Fprintf(&sb, "_%s_\n", md(s.Romaji))
	case s.OriginalTitle != "" && s.OriginalRomaji != "":
		fmt.Fprintf(&sb, "_%s | %s_\n", md(s.OriginalTitle), md(s.OriginalRomaji))
	case s.OriginalTitle != "":
		fmt.Fprintf(&sb, "_%s_\n", md(s.OriginalTitle))
	}
	sb.WriteString("\n")

	if s.Status != "" {
		fmt.Fprintf(&sb, "Status: %s\n", md(cases.Title(language.Und).String(s.Status)))
	}
	if s.FirstReleased != nil {
		fmt.Fprintf(&sb, "First release: %s (%s)\n", s.FirstReleased.Date, trackName(s.FirstReleased.Locale))
	}
	if s.LatestReleased != nil {
		fmt.Fprintf(&sb, "Latest release: %s (%s)\n", s.LatestReleased.Date, trackName(s.LatestReleased.Locale))
	}
	if s.Licensed {
		sb.WriteString("Licensed in English\n")
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", md(strings.Join(s.Tags, ", ")))
	}
	if s.StoreURL != "" {
		fmt.Fprintf(&sb, "Store: %s\n", s.StoreURL)
	}

	if d := strings.TrimSpace(s.Description); d != "" {
		fmt.Fprintf(&sb, "\n%s\n", md(truncate(d, maxDescription)))
	}

	if len(s.Projections) > 0 {
		sb.WriteString("\n")
		sb.WriteString(renderProjections(s))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderProjections(s core.SeriesResponse) string {
	latest := make(map[string]string, len(s.Timeline))
	for _, tr := range s.Timeline {
		latest[tr.Locale] = tr.Latest
	}

	var sb strings.Builder
	for _, p := range s.Projections {
		name := trackName(p.Track)
		switch {
		case p.Stats == nil && p.Reason == core.ReasonUnorderedDates:
			fmt.Fprintf(&sb, "Average monthly gap — %s: Release dates are out of order\n", name)
		case p.Stats == nil:
			fmt.Fprintf(&sb, "Average monthly gap — %s: Not enough data\n", name)
		default:
			fmt.Fprintf(&sb, "Average monthly gap — %s: %.2f\n", name, p.Stats.MeanMonths)
		}
		if l := latest[p.Track]; l != "" {
			fmt.Fprintf(&sb, "Latest release — %s: %s\n", name, md(l))
		}
		if p.Forecast != nil {
			fmt.Fprintf(&sb, "Predicted next volume — %s: %s on %s\n", name, md(p.Forecast.Label), p.Forecast.Date)
		}
	}
	return sb.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}

// parseSearchArgs splits "title | sort | license".
func parseSearchArgs(args string) (core.SearchRequest, bool) {
	parts := strings.Split(args, "|")
	req := core.SearchRequest{Title: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		req.Sort = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		req.License = strings.TrimSpace(parts[2])
	}
	return req, req.Title != "" && len(parts) <= 3
}

func pageData(n int) string {
	return "p:" + strconv.Itoa(n)
}

func selectData(serial int) string {
	return "s:" + strconv.Itoa(serial)
}

// parseCallback decodes "p:<n>" and "s:<serial>" callback data.
func parseCallback(data string) (kind string, n int, ok bool) {
	kind, num, found := strings.Cut(data, ":")
	if !found || (kind != "p" && kind != "s") {
		return "", 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return "", 0, false
	}
	return kind, n, true
}

func helpText() string {
	return `Available commands:
/start - greeting
/help - this list
/search <title> [| sort | licensed] - search light novels

Sort orders: Relevance desc (default), Relevance asc, Title asc, Title desc, Release date asc, Release date desc.
License filter: any (default), licensed, unlicensed.

Any plain text is searched as a title.
Example: /search mushoku | Release date desc | licensed`
}
