package services

import (
	"context"

	"github.com/streakhub/server/utils"
)

// Membership is the oracle deciding who may use the service at all. Core
// operations assume the caller has already passed this gate.
type Membership interface {
	IsMember(ctx context.Context, userID int64) bool
}

// GroupMembership answers membership questions against one fixed Telegram
// group. Any lookup failure counts as "not a member".
type GroupMembership struct {
	tg      *utils.TelegramClient
	groupID int64
}

// NewGroupMembership creates the oracle for the configured group.
func NewGroupMembership(tg *utils.TelegramClient, groupID int64) *GroupMembership {
	return &GroupMembership{tg: tg, groupID: groupID}
}

// IsMember reports whether the user belongs to the allowed group.
func (m *GroupMembership) IsMember(ctx context.Context, userID int64) bool {
	status, err := m.tg.GetChatMemberStatus(ctx, m.groupID, userID)
	if err != nil {
		utils.Sugar.Warnf("membership lookup failed for user %d: %v", userID, err)
		return false
	}
	switch status {
	case "creator", "administrator", "member":
		return true
	default:
		return false
	}
}
