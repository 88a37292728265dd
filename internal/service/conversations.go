package service

import "github.com/arnabdutta04/estate-backend/internal/model"

// AggregateConversations group messages by conversation partner.
//
// Input must be sorted by createdAt DESC: the first message seen for a
// partner is the most recent one and seeds lastMessage/lastMessageTime.
// unreadCount counts every message addressed to the viewer that is still
// unread, regardless of position. Output keeps first-seen order, i.e. the
// most recently active conversation comes first. Pure function, inputs are
// not mutated.
func AggregateConversations(messages []model.MessageWithUsers, viewerID string) []model.Conversation {
	conversations := []model.Conversation{}
	index := map[string]int{} // partnerID → позиция в conversations

	for _, msg := range messages {
		partnerID := msg.SenderID
		partnerName := msg.SenderName
		partnerRole := msg.SenderRole
		if msg.SenderID == viewerID {
			partnerID = msg.ReceiverID
			partnerName = msg.ReceiverName
			partnerRole = msg.ReceiverRole
		}

		pos, seen := index[partnerID]
		if !seen {
			index[partnerID] = len(conversations)
			pos = len(conversations)
			conversations = append(conversations, model.Conversation{
				PartnerID:       partnerID,
				PartnerName:     partnerName,
				PartnerRole:     partnerRole,
				LastMessage:     msg.Body,
				LastMessageTime: msg.CreatedAt,
			})
		}

		if msg.ReceiverID == viewerID && !msg.IsRead {
			conversations[pos].UnreadCount++
		}
	}
	return conversations
}
