package respond

import (
	"encoding/json"
	"testing"

	"parkhya_chat_server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestParseMessageID(t *testing.T) {
	id, ok := ParseMessageID("1795324712345")
	assert.True(t, ok)
	assert.Equal(t, int64(1795324712345), id)

	for _, raw := range []string{"", "abc", "-3", "0"} {
		_, ok := ParseMessageID(raw)
		assert.False(t, ok, raw)
	}
}

func TestMessageRespondJSON(t *testing.T) {
	receiver := "u2"
	msg := &model.Message{
		ID:         42,
		Content:    "hi",
		Type:       model.MessageTypePrivate,
		SenderID:   "u1",
		ReceiverID: &receiver,
		Sender:     model.User{ID: "u1", FullName: "A", Email: "a@example.com", Password: "hash"},
		SeenBy:     []model.MessageSeen{{UserID: "u2"}},
		Reactions:  []model.MessageReaction{{UserID: "u2", Emoji: "👍"}},
	}

	raw, err := json.Marshal(NewMessageRespond(msg))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "42", body["id"])
	assert.Equal(t, "u2", body["receiverId"])
	assert.Nil(t, body["channelId"])
	assert.Equal(t, []any{"u2"}, body["seenBy"])
	assert.NotContains(t, string(raw), "hash")
}

func TestChannelRespondMembers(t *testing.T) {
	ch := &model.Channel{
		ID:   "c1",
		Name: "general",
		Members: []model.ChannelMember{
			{UserID: "u1", Role: model.RoleAdmin, User: model.User{ID: "u1", FullName: "A"}},
		},
	}
	raw, err := json.Marshal(NewChannelRespond(ch))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"members":[{"id":"u1","fullName":"A","email":"","avatar":null,"isOnline":false,"role":"admin"}]`)
}
