package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-chatrelay-be/internal/dto"
	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/pkg/apperr"
	"ai-chatrelay-be/pkg/events"
	"ai-chatrelay-be/pkg/oracle"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServiceForTest(t *testing.T, fake *fakeOracle) (IChatService, *fakeFactory) {
	t.Helper()
	factory := newFakeFactory()
	bus := events.NewBus(watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })
	return NewChatService(factory, fake, bus, noopLogger{}), factory
}

func TestStartSessionAssignsTitleOnce(t *testing.T) {
	oracleFake := &fakeOracle{
		titleFn: func(seed string) (string, error) { return "Trip Planning", nil },
	}
	svc, _ := newChatServiceForTest(t, oracleFake)
	tenantId := uuid.New()

	resp, err := svc.StartSession(context.Background(), tenantId, &dto.StartChatRequest{Message: "help me plan a trip"})
	require.NoError(t, err)
	require.NotNil(t, resp.Session.Title)
	assert.Equal(t, "Trip Planning", *resp.Session.Title)

	// Further turns never retitle.
	_, err = svc.SendChat(context.Background(), tenantId, &dto.SendChatRequest{
		ChatSessionId: resp.Session.Id,
		Message:       "somewhere warm",
	})
	require.NoError(t, err)
	assert.Len(t, oracleFake.titleCalls, 1)
}

func TestTitleFallsBackToDefaultOnFailure(t *testing.T) {
	oracleFake := &fakeOracle{
		titleFn: func(seed string) (string, error) { return "", errors.New("model unavailable") },
	}
	svc, _ := newChatServiceForTest(t, oracleFake)

	resp, err := svc.StartSession(context.Background(), uuid.New(), &dto.StartChatRequest{Message: "hello"})
	require.NoError(t, err)
	require.NotNil(t, resp.Session.Title)
	assert.Equal(t, DefaultTitle, *resp.Session.Title)
}

func TestTitleFallsBackToDefaultOnEmpty(t *testing.T) {
	oracleFake := &fakeOracle{
		titleFn: func(seed string) (string, error) { return "  \n", nil },
	}
	svc, _ := newChatServiceForTest(t, oracleFake)

	resp, err := svc.StartSession(context.Background(), uuid.New(), &dto.StartChatRequest{Message: "hello"})
	require.NoError(t, err)
	require.NotNil(t, resp.Session.Title)
	assert.Equal(t, DefaultTitle, *resp.Session.Title)
}

func TestProcessTurnOrderingAndRoles(t *testing.T) {
	oracleFake := &fakeOracle{}
	svc, _ := newChatServiceForTest(t, oracleFake)
	tenantId := uuid.New()

	resp, err := svc.StartSession(context.Background(), tenantId, &dto.StartChatRequest{Message: "A"})
	require.NoError(t, err)

	_, err = svc.SendChat(context.Background(), tenantId, &dto.SendChatRequest{
		ChatSessionId: resp.Session.Id,
		Message:       "B",
	})
	require.NoError(t, err)

	history, err := svc.GetChatHistory(context.Background(), tenantId, resp.Session.Id)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, entity.SenderUser, history[0].Sender)
	assert.Equal(t, "A", history[0].Content)
	assert.Equal(t, entity.SenderBot, history[1].Sender)
	assert.Equal(t, "reply to: A", history[1].Content)
	assert.Equal(t, entity.SenderUser, history[2].Sender)
	assert.Equal(t, "B", history[2].Content)
	assert.Equal(t, entity.SenderBot, history[3].Sender)
	assert.Equal(t, "reply to: B", history[3].Content)

	// The second call sees the first exchange as prior context, with
	// senders mapped onto roles, and the new message only as the current
	// input.
	require.Len(t, oracleFake.replyCalls, 2)
	second := oracleFake.replyCalls[1]
	require.Len(t, second.prior, 2)
	assert.Equal(t, oracle.Turn{Role: oracle.RoleUser, Text: "A"}, second.prior[0])
	assert.Equal(t, oracle.Turn{Role: oracle.RoleModel, Text: "reply to: A"}, second.prior[1])
	assert.Equal(t, "B", second.current)
}

func TestEmptyOracleReplyUsesPlaceholder(t *testing.T) {
	oracleFake := &fakeOracle{
		replyFn: func(prior []oracle.Turn, current string) (string, error) { return "   \n", nil },
	}
	svc, _ := newChatServiceForTest(t, oracleFake)
	tenantId := uuid.New()

	resp, err := svc.StartSession(context.Background(), tenantId, &dto.StartChatRequest{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, EmptyReplyPlaceholder, resp.Reply.Content)

	history, err := svc.GetChatHistory(context.Background(), tenantId, resp.Session.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, EmptyReplyPlaceholder, history[1].Content)
}

func TestStartSessionRollsBackWhenAppendFails(t *testing.T) {
	svc, factory := newChatServiceForTest(t, &fakeOracle{})

	factory.state.mu.Lock()
	factory.state.messageCreateErr = errors.New("disk full")
	factory.state.mu.Unlock()

	_, err := svc.StartSession(context.Background(), uuid.New(), &dto.StartChatRequest{Message: "hello"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))

	// The seed writes roll back together; no empty session row survives.
	factory.state.mu.Lock()
	defer factory.state.mu.Unlock()
	assert.Empty(t, factory.state.sessions)
	assert.Empty(t, factory.state.messages)
}

func TestStartSessionOracleErrorKeepsSeedWrites(t *testing.T) {
	oracleFake := &fakeOracle{
		replyFn: func(prior []oracle.Turn, current string) (string, error) {
			return "", errors.New("upstream timeout")
		},
	}
	svc, factory := newChatServiceForTest(t, oracleFake)

	_, err := svc.StartSession(context.Background(), uuid.New(), &dto.StartChatRequest{Message: "hello"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindOracle, apperr.KindOf(err))

	// A model failure is not a storage failure: the session and its user
	// turn commit so a retry continues the same conversation.
	factory.state.mu.Lock()
	defer factory.state.mu.Unlock()
	require.Len(t, factory.state.sessions, 1)
	require.Len(t, factory.state.messages, 1)
	assert.Equal(t, entity.SenderUser, factory.state.messages[0].Sender)
}

func TestOracleErrorLeavesUserTurnPersisted(t *testing.T) {
	calls := 0
	oracleFake := &fakeOracle{
		replyFn: func(prior []oracle.Turn, current string) (string, error) {
			calls++
			if calls > 1 {
				return "", errors.New("upstream timeout")
			}
			return "first reply", nil
		},
	}
	svc, _ := newChatServiceForTest(t, oracleFake)
	tenantId := uuid.New()

	resp, err := svc.StartSession(context.Background(), tenantId, &dto.StartChatRequest{Message: "first"})
	require.NoError(t, err)

	_, err = svc.SendChat(context.Background(), tenantId, &dto.SendChatRequest{
		ChatSessionId: resp.Session.Id,
		Message:       "second",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindOracle, apperr.KindOf(err))

	// The failed turn keeps its user message; no bot message follows it.
	history, err := svc.GetChatHistory(context.Background(), tenantId, resp.Session.Id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.SenderUser, history[2].Sender)
	assert.Equal(t, "second", history[2].Content)
}

func TestCrossTenantSessionHidden(t *testing.T) {
	svc, _ := newChatServiceForTest(t, &fakeOracle{})
	owner := uuid.New()
	stranger := uuid.New()

	resp, err := svc.StartSession(context.Background(), owner, &dto.StartChatRequest{Message: "private"})
	require.NoError(t, err)

	_, err = svc.SendChat(context.Background(), stranger, &dto.SendChatRequest{
		ChatSessionId: resp.Session.Id,
		Message:       "intrusion",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.GetChatHistory(context.Background(), stranger, resp.Session.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUnknownSessionNotFound(t *testing.T) {
	svc, _ := newChatServiceForTest(t, &fakeOracle{})

	_, err := svc.SendChat(context.Background(), uuid.New(), &dto.SendChatRequest{
		ChatSessionId: uuid.New(),
		Message:       "anyone there",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetAllSessionsScopedWithPreview(t *testing.T) {
	svc, _ := newChatServiceForTest(t, &fakeOracle{})
	tenantA := uuid.New()
	tenantB := uuid.New()

	first, err := svc.StartSession(context.Background(), tenantA, &dto.StartChatRequest{Message: "one"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.StartSession(context.Background(), tenantA, &dto.StartChatRequest{Message: "two"})
	require.NoError(t, err)
	_, err = svc.StartSession(context.Background(), tenantB, &dto.StartChatRequest{Message: "other tenant"})
	require.NoError(t, err)

	sessions, err := svc.GetAllSessions(context.Background(), tenantA, nil)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	// Newest first, each with its latest message as preview.
	assert.Equal(t, second.Session.Id, sessions[0].Id)
	assert.Equal(t, first.Session.Id, sessions[1].Id)
	require.NotNil(t, sessions[0].LastMessage)
	assert.Equal(t, entity.SenderBot, sessions[0].LastMessage.Sender)
	assert.Equal(t, "reply to: two", sessions[0].LastMessage.Content)

	// Pagination trims after ordering.
	paged, err := svc.GetAllSessions(context.Background(), tenantA, &dto.ListSessionsQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first.Session.Id, paged[0].Id)
}
