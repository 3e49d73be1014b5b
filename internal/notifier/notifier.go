package notifier

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-agents/internal/logger"
	"github.com/kovalyov-valentin/news-agents/internal/model"
)

// Подпись к фото в телеграме ограничена 1024 символами
const captionLimit = 1024

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier анонсирует сохраненные новости в телеграм канал
type Notifier struct {
	bot sender
	// id канала куда мы будем постить новости
	channelID int64
	// Адрес сайта, ссылка на новость: <siteURL>/news/<slug>
	siteURL string
}

func New(bot *tgbotapi.BotAPI, channelID int64, siteURL string) *Notifier {
	return newNotifier(bot, channelID, siteURL)
}

func newNotifier(bot sender, channelID int64, siteURL string) *Notifier {
	return &Notifier{
		bot:       bot,
		channelID: channelID,
		siteURL:   strings.TrimRight(siteURL, "/"),
	}
}

// Announce отправляет новость: фото с подписью, если есть картинка, иначе текст
func (n *Notifier) Announce(_ context.Context, item model.NewsItem) error {
	text := n.format(item)

	var msg tgbotapi.Chattable

	if strings.HasPrefix(item.ImageURL, "http") && utf8.RuneCountInString(text) <= captionLimit {
		photo := tgbotapi.NewPhoto(n.channelID, tgbotapi.FileURL(item.ImageURL))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		msg = photo
	} else {
		m := tgbotapi.NewMessage(n.channelID, text)
		m.ParseMode = tgbotapi.ModeMarkdownV2
		msg = m
	}

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send announcement for %s: %w", item.Slug, err)
	}

	logger.Get().Info().
		Str("slug", item.Slug).
		Int64("channel", n.channelID).
		Msg("news announced")

	return nil
}

// Сначала жирным заголовок, потом выдержка, потом ссылка на сайт
func (n *Notifier) format(item model.NewsItem) string {
	var b strings.Builder

	b.WriteString("*" + escapeMarkdown(item.Title) + "*")

	if item.Excerpt != "" {
		b.WriteString("\n\n" + escapeMarkdown(item.Excerpt))
	}

	if n.siteURL != "" && item.Slug != "" {
		b.WriteString("\n\n" + escapeMarkdown(n.siteURL+"/news/"+item.Slug))
	}

	return b.String()
}
