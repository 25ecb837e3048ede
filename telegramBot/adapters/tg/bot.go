package tg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Agrayne/Ranobot/telegramBot/core"
)

const (
	btnSearch = "🔎 Search"
	btnHelp   = "ℹ️ Help"

	maxStoredResults = 1000
)

type API interface {
	Search(ctx context.Context, sr core.SearchRequest) (core.SearchResponse, error)
	Series(ctx context.Context, id int) (core.SeriesResponse, error)
}

type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// resultKey identifies the results message a callback came from.
type resultKey struct {
	chatID    int64
	messageID int
}

type Bot struct {
	log     *slog.Logger
	api     API
	tg      messenger
	botAPI  *tgbotapi.BotAPI
	timeout time.Duration

	mu      sync.Mutex
	results map[resultKey]core.SearchResponse
	order   []resultKey
}

func NewBot(token string, apiClient API, timeout time.Duration, debug bool, log *slog.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("cannot create bot: %w", err)
	}
	botAPI.Debug = debug
	log.Info("authorized", "account", botAPI.Self.UserName)

	b := newBot(botAPI, apiClient, timeout, log)
	b.botAPI = botAPI
	return b, nil
}

func newBot(tg messenger, apiClient API, timeout time.Duration, log *slog.Logger) *Bot {
	return &Bot{
		log:     log,
		api:     apiClient,
		tg:      tg,
		timeout: timeout,
		results: make(map[resultKey]core.SearchResponse),
	}
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.botAPI.GetUpdatesChan(u)
	defer b.botAPI.StopReceivingUpdates()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) sendMenu(chatID int64) {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSearch),
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	)
	kb.ResizeKeyboard = true

	m := tgbotapi.NewMessage(chatID, "Menu:")
	m.ReplyMarkup = kb
	if _, err := b.tg.Send(m); err != nil {
		b.log.Error("send menu failed", "chat", chatID, "error", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch strings.TrimSpace(msg.Text) {
	case btnHelp:
		b.send(chatID, helpText())
		return
	case btnSearch:
		b.send(chatID, "Send a title to search, for example: mushoku tensei")
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.send(chatID, "Hi! I search light novels on RanobeDB and predict when the next volume comes out.\nUse the menu or /help.")
			b.sendMenu(chatID)
		case "help":
			b.send(chatID, helpText())
			b.sendMenu(chatID)
		case "search":
			b.handleSearch(ctx, chatID, msg.CommandArguments())
		default:
			b.send(chatID, "Unknown command. Use /help.")
		}
		return
	}

	// любой текст без слеша считаем поисковым запросом
	if strings.TrimSpace(msg.Text) != "" {
		b.handleSearch(ctx, chatID, msg.Text)
	}
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, args string) {
	sr, ok := parseSearchArgs(args)
	if !ok {
		b.send(chatID, "Usage: /search <title> [| sort | licensed]")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	res, err := b.api.Search(ctx, sr)
	if err != nil {
		b.log.Error("search failed", "chat", chatID, "title", sr.Title, "error", err)
		if errors.Is(err, core.ErrBadRequest) {
			b.send(chatID, "Cannot search: "+err.Error()+"\nSee /help for accepted options.")
			return
		}
		b.send(chatID, textFailure)
		return
	}

	switch res.Kind {
	case core.KindEmpty:
		b.send(chatID, textNoResults)
	case core.KindOverflow:
		b.send(chatID, textOverflow)
	case core.KindSingle:
		if res.Series == nil {
			b.send(chatID, textFailure)
			return
		}
		b.sendSeries(chatID, *res.Series)
	case core.KindPaginated:
		text, kb, ok := renderPage(res, 1)
		if !ok {
			b.send(chatID, textNoResults)
			return
		}
		m := tgbotapi.NewMessage(chatID, text)
		m.ParseMode = tgbotapi.ModeMarkdown
		m.ReplyMarkup = kb
		m.DisableWebPagePreview = true
		sent, err := b.tg.Send(m)
		if err != nil {
			b.log.Error("send results failed", "chat", chatID, "error", err)
			return
		}
		// кнопки страницы ссылаются на своё сообщение, а не на последний поиск
		b.remember(resultKey{chatID: chatID, messageID: sent.MessageID}, res)
	default:
		b.log.Error("unknown search outcome", "kind", res.Kind)
		b.send(chatID, textFailure)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// снимаем "часики" с кнопки
	if _, err := b.tg.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Debug("callback ack failed", "error", err)
	}
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID

	kind, n, ok := parseCallback(cq.Data)
	if !ok {
		b.log.Debug("unknown callback data", "data", cq.Data)
		return
	}

	res, ok := b.result(resultKey{chatID: chatID, messageID: messageID})
	if !ok {
		b.send(chatID, textExpired)
		return
	}

	switch kind {
	case "p":
		text, kb, ok := renderPage(res, n)
		if !ok {
			b.send(chatID, textExpired)
			return
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.tg.Send(edit); err != nil {
			b.log.Error("edit page failed", "chat", chatID, "error", err)
		}

	case "s":
		entry, ok := res.Lookup(n)
		if !ok {
			b.send(chatID, textExpired)
			return
		}

		ctx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()

		series, err := b.api.Series(ctx, entry.ID)
		if err != nil {
			b.log.Error("series failed", "chat", chatID, "id", entry.ID, "error", err)
			b.send(chatID, textFailure)
			return
		}
		b.sendSeries(chatID, series)
	}
}

func (b *Bot) sendSeries(chatID int64, s core.SeriesResponse) {
	text := renderSeries(s)
	if s.ImageURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(s.ImageURL))
		photo.Caption = md(s.Title)
		photo.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.tg.Send(photo); err != nil {
			b.log.Debug("send cover failed", "chat", chatID, "url", s.ImageURL, "error", err)
		}
	}
	b.sendMarkdown(chatID, text)
}

// remember stores results for a sent message, dropping the oldest entries
// beyond maxStoredResults.
func (b *Bot) remember(key resultKey, res core.SearchResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.results[key]; !ok {
		b.order = append(b.order, key)
	}
	b.results[key] = res
	for len(b.order) > maxStoredResults {
		delete(b.results, b.order[0])
		b.order = b.order[1:]
	}
}

func (b *Bot) result(key resultKey) (core.SearchResponse, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	res, ok := b.results[key]
	return res, ok
}

func (b *Bot) send(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// sendMarkdown expects text with user content already escaped.
func (b *Bot) sendMarkdown(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	b.sendMessage(m)
}

func (b *Bot) sendMessage(m tgbotapi.MessageConfig) {
	m.DisableWebPagePreview = true
	if _, err := b.tg.Send(m); err != nil {
		b.log.Error("send failed", "chat", m.ChatID, "error", err)
	}
}
