package services

import (
	"context"

	"github.com/streakhub/server/utils"
)

// GroupNotifier delivers reminders to the community's Telegram group.
type GroupNotifier struct {
	tg     *utils.TelegramClient
	chatID int64
}

// NewGroupNotifier creates a notifier bound to the configured chat.
func NewGroupNotifier(tg *utils.TelegramClient, chatID int64) *GroupNotifier {
	return &GroupNotifier{tg: tg, chatID: chatID}
}

// Notify posts the text to the group chat.
func (n *GroupNotifier) Notify(ctx context.Context, text string) error {
	return n.tg.SendMessage(ctx, n.chatID, text)
}
