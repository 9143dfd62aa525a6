package telegram

import (
	"fmt"
	"strings"

	"github.com/Kerhoff/MealMate/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Bot wraps the Telegram bot API for outgoing messages
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
}

// NewBot creates a new Telegram bot instance
func NewBot(token string, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	return newBot(api, logger), nil
}

func newBot(api *tgbotapi.BotAPI, logger *logrus.Logger) *Bot {
	logger.Infof("Authorized on account %s", api.Self.UserName)
	return &Bot{api: api, logger: logger}
}

// SendMessage sends a Markdown message to a chat
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	_, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// ShareShoppingList sends the rendered list to a chat
func (b *Bot) ShareShoppingList(chatID int64, items []*models.ShoppingItem) error {
	return b.SendMessage(chatID, FormatShoppingList(items))
}

// FormatShoppingList renders unbought items grouped by category, in the order
// categories first appear.
func FormatShoppingList(items []*models.ShoppingItem) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n")

	if len(items) == 0 {
		sb.WriteString("\n_Nothing left to buy._")
		return sb.String()
	}

	var order []string
	groups := make(map[string][]*models.ShoppingItem)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "Other"
		}
		if _, ok := groups[category]; !ok {
			order = append(order, category)
		}
		groups[category] = append(groups[category], item)
	}

	for _, category := range order {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", escape(category)))
		for _, item := range groups[category] {
			quantityDisplay := ""
			if item.Quantity != "" {
				quantityDisplay = fmt.Sprintf(" (x%s)", escape(item.Quantity))
			}
			sb.WriteString(fmt.Sprintf("⬜ %s%s\n", escape(item.Name), quantityDisplay))
		}
	}

	sb.WriteString(fmt.Sprintf("\n_%d to buy_", len(items)))
	return sb.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
