package repository_test

import (
	"context"
	"testing"

	"parkhya_chat_server/internal/dao/mysql/dbtest"
	"parkhya_chat_server/internal/dao/mysql/repository"
	"parkhya_chat_server/internal/model"
	"parkhya_chat_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newUser(t *testing.T, repos *repository.Repositories, email, name string) *model.User {
	t.Helper()
	u := &model.User{Email: email, FullName: name, RawPassword: "secret123"}
	require.NoError(t, repos.User.Create(context.Background(), u))
	return u
}

func TestUserCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)

	u := &model.User{Email: "  Alice@Example.com ", FullName: "Alice", RawPassword: "secret123", MobileNumber: strPtr("5550001")}
	require.NoError(t, repos.User.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, u.CheckPassword("secret123"))

	got, err := repos.User.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = repos.User.FindByMobile(ctx, "5550001")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repos.User.FindByID(ctx, "missing")
	assert.True(t, errorx.IsNotFound(err))
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestUserDuplicateEmailIsConflict(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	newUser(t, repos, "bob@example.com", "Bob")

	err := repos.User.Create(ctx, &model.User{Email: "bob@example.com", RawPassword: "x"})
	require.Error(t, err)
	assert.True(t, errorx.IsConflict(err))
}

func TestUserListSearchAndPaging(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	newUser(t, repos, "ann@example.com", "Ann Smith")
	newUser(t, repos, "bert@example.com", "Bert Jones")
	newUser(t, repos, "cat@example.com", "Cat Smith")

	users, total, err := repos.User.List(ctx, "SMITH", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = repos.User.List(ctx, "", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "bert@example.com", users[0].Email)
}

func TestUserUpdateOnline(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	u := newUser(t, repos, "dan@example.com", "Dan")

	require.NoError(t, repos.User.UpdateOnline(ctx, u.ID, true))
	require.NoError(t, repos.User.UpdateOnline(ctx, u.ID, true))
	got, err := repos.User.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOnline)

	err = repos.User.UpdateOnline(ctx, "nobody", true)
	assert.True(t, errorx.IsNotFound(err))
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	u := newUser(t, repos, "eve@example.com", "Eve")

	require.NoError(t, repos.User.Delete(ctx, u.ID))
	assert.True(t, errorx.IsNotFound(repos.User.Delete(ctx, u.ID)))
}

func TestChannelMembership(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	owner := newUser(t, repos, "owner@example.com", "Owner")
	guest := newUser(t, repos, "guest@example.com", "Guest")

	ch := &model.Channel{Name: "general", CreatedBy: owner.ID}
	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Channel.Create(ctx, ch); err != nil {
			return err
		}
		return tx.ChannelMember.Create(ctx, &model.ChannelMember{ChannelID: ch.ID, UserID: owner.ID, Role: model.RoleAdmin})
	})
	require.NoError(t, err)

	require.NoError(t, repos.ChannelMember.Create(ctx, &model.ChannelMember{ChannelID: ch.ID, UserID: guest.ID, Role: model.RoleMember}))
	err = repos.ChannelMember.Create(ctx, &model.ChannelMember{ChannelID: ch.ID, UserID: guest.ID, Role: model.RoleMember})
	assert.True(t, errorx.IsConflict(err))

	got, err := repos.Channel.FindByID(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 2)
	assert.Equal(t, owner.ID, got.Members[0].UserID)
	assert.True(t, got.Members[0].IsAdmin())
	assert.Equal(t, "Guest", got.Members[1].User.FullName)

	mine, err := repos.Channel.ListByMember(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ch.ID, mine[0].ID)

	require.NoError(t, repos.ChannelMember.Delete(ctx, ch.ID, guest.ID))
	count, err := repos.ChannelMember.Count(ctx, ch.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = repos.ChannelMember.Find(ctx, ch.ID, guest.ID)
	assert.True(t, errorx.IsNotFound(err))
}

func TestChannelTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	owner := newUser(t, repos, "owner@example.com", "Owner")

	ch := &model.Channel{Name: "doomed", CreatedBy: owner.ID}
	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Channel.Create(ctx, ch); err != nil {
			return err
		}
		return errorx.ErrForbidden
	})
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	_, err = repos.Channel.FindByID(ctx, ch.ID)
	assert.True(t, errorx.IsNotFound(err))
}

func TestChannelUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	owner := newUser(t, repos, "owner@example.com", "Owner")
	ch := &model.Channel{Name: "old", CreatedBy: owner.ID}
	require.NoError(t, repos.Channel.Create(ctx, ch))

	ch.Name = "new"
	ch.IsPrivate = true
	require.NoError(t, repos.Channel.UpdateFields(ctx, ch))
	got, err := repos.Channel.FindByID(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.True(t, got.IsPrivate)

	require.NoError(t, repos.Channel.Delete(ctx, ch.ID))
	assert.True(t, errorx.IsNotFound(repos.Channel.Delete(ctx, ch.ID)))
}

func TestMessageListFilters(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	a := newUser(t, repos, "a@example.com", "A")
	b := newUser(t, repos, "b@example.com", "B")
	c := newUser(t, repos, "c@example.com", "C")

	msgs := []*model.Message{
		{Content: "Hello world", Type: model.MessageTypePublic, SenderID: a.ID},
		{Content: "hi b", Type: model.MessageTypePrivate, SenderID: a.ID, ReceiverID: &b.ID},
		{Content: "hi a", Type: model.MessageTypePrivate, SenderID: b.ID, ReceiverID: &a.ID},
		{Content: "hi c", Type: model.MessageTypePrivate, SenderID: a.ID, ReceiverID: &c.ID},
		{Content: "hello again", Type: model.MessageTypePublic, SenderID: b.ID},
	}
	for _, m := range msgs {
		require.NoError(t, repos.Message.Create(ctx, m))
	}

	thread, total, err := repos.Message.List(ctx, repository.MessageQuery{
		Type: model.MessageTypePrivate, UserID: a.ID, PeerID: b.ID, Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, thread, 2)
	assert.Equal(t, "hi b", thread[0].Content)
	assert.Equal(t, "A", thread[0].Sender.FullName)

	all, total, err := repos.Message.List(ctx, repository.MessageQuery{
		Type: model.MessageTypePrivate, UserID: c.ID, Limit: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "hi c", all[0].Content)

	public, total, err := repos.Message.List(ctx, repository.MessageQuery{
		Type: model.MessageTypePublic, Content: "HELLO", Offset: 1, Limit: 1,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, public, 1)
	assert.Equal(t, "hello again", public[0].Content)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	a := newUser(t, repos, "a_b@example.com", "A")
	newUser(t, repos, "axb@example.com", "B")

	for _, content := range []string{"50% off", "500 things", "a_b", "axb", "rate 1!2"} {
		require.NoError(t, repos.Message.Create(ctx, &model.Message{
			Content: content, Type: model.MessageTypePublic, SenderID: a.ID,
		}))
	}

	cases := []struct {
		keyword string
		want    []string
	}{
		{"50%", []string{"50% off"}},
		{"a_b", []string{"a_b"}},
		{"1!2", []string{"rate 1!2"}},
	}
	for _, tc := range cases {
		t.Run(tc.keyword, func(t *testing.T) {
			got, total, err := repos.Message.List(ctx, repository.MessageQuery{
				Type: model.MessageTypePublic, Content: tc.keyword, Limit: 20,
			})
			require.NoError(t, err)
			assert.EqualValues(t, len(tc.want), total)
			contents := make([]string, 0, len(got))
			for _, m := range got {
				contents = append(contents, m.Content)
			}
			assert.ElementsMatch(t, tc.want, contents)
		})
	}

	users, total, err := repos.User.List(ctx, "a_b", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "a_b@example.com", users[0].Email)
}

func TestMessageUpdateSeenDelete(t *testing.T) {
	ctx := context.Background()
	repos := dbtest.Open(t)
	a := newUser(t, repos, "a@example.com", "A")
	b := newUser(t, repos, "b@example.com", "B")
	msg := &model.Message{Content: "draft", Type: model.MessageTypePublic, SenderID: a.ID}
	require.NoError(t, repos.Message.Create(ctx, msg))
	assert.NotZero(t, msg.ID)

	require.NoError(t, repos.Message.UpdateContent(ctx, msg.ID, "final"))
	require.NoError(t, repos.Message.UpdateContent(ctx, msg.ID, "final"))
	assert.True(t, errorx.IsNotFound(repos.Message.UpdateContent(ctx, 42, "x")))

	added, err := repos.Delivery.AddSeen(ctx, msg.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = repos.Delivery.AddSeen(ctx, msg.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, added)
	require.NoError(t, repos.Message.MarkSeen(ctx, msg.ID))

	added, err = repos.Delivery.AddReaction(ctx, &model.MessageReaction{MessageID: msg.ID, UserID: b.ID, Emoji: "👍"})
	require.NoError(t, err)
	assert.True(t, added)
	added, err = repos.Delivery.AddReaction(ctx, &model.MessageReaction{MessageID: msg.ID, UserID: b.ID, Emoji: "👍"})
	require.NoError(t, err)
	assert.False(t, added)

	got, err := repos.Message.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content)
	assert.True(t, got.Seen)
	require.Len(t, got.SeenBy, 1)
	require.Len(t, got.Reactions, 1)

	seen, err := repos.Delivery.SeenUsers(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, b.ID, seen[0].ID)

	err = repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Delivery.DeleteByMessage(ctx, msg.ID); err != nil {
			return err
		}
		return tx.Message.Delete(ctx, msg.ID)
	})
	require.NoError(t, err)

	_, err = repos.Message.FindByID(ctx, msg.ID)
	assert.True(t, errorx.IsNotFound(err))
	reactions, err := repos.Delivery.Reactions(ctx, msg.ID)
	require.NoError(t, err)
	assert.Empty(t, reactions)
}
