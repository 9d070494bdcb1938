package service

import (
	"context"
	"strings"
	"time"

	"ai-chatrelay-be/internal/dto"
	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/pkg/apperr"
	"ai-chatrelay-be/internal/pkg/logger"
	"ai-chatrelay-be/internal/repository/specification"
	"ai-chatrelay-be/internal/repository/unitofwork"
	"ai-chatrelay-be/pkg/events"
	"ai-chatrelay-be/pkg/oracle"

	"github.com/google/uuid"
)

const (
	// DefaultTitle is used when title generation fails; titling never
	// blocks conversation progress.
	DefaultTitle = "New Chat"

	// EmptyReplyPlaceholder is persisted when the model returns no usable
	// text. Once the user turn is committed, a bot turn always follows.
	EmptyReplyPlaceholder = "No response text"
)

// senderToRole translates the store's sender vocabulary into the Oracle's
// role vocabulary. The two are independent; this table is the only place
// they meet.
var senderToRole = map[string]string{
	entity.SenderUser: oracle.RoleUser,
	entity.SenderBot:  oracle.RoleModel,
}

// IChatService owns the session lifecycle and the conversation-replay
// flow: append the user turn, rebuild the transcript, ask the Oracle,
// append the bot turn.
type IChatService interface {
	StartSession(ctx context.Context, tenantId uuid.UUID, request *dto.StartChatRequest) (*dto.StartChatResponse, error)
	SendChat(ctx context.Context, tenantId uuid.UUID, request *dto.SendChatRequest) (*dto.ChatMessageResponse, error)
	GetAllSessions(ctx context.Context, tenantId uuid.UUID, query *dto.ListSessionsQuery) ([]*dto.SessionResponse, error)
	GetChatHistory(ctx context.Context, tenantId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	oracle     oracle.Oracle
	bus        *events.Bus
	logger     logger.ILogger
	locks      *sessionLocks
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	oracleClient oracle.Oracle,
	bus *events.Bus,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		oracle:     oracleClient,
		bus:        bus,
		logger:     sysLogger,
		locks:      newSessionLocks(),
	}
}

// StartSession creates an untitled session for the tenant and processes
// the opening message as its first turn. The seed writes run in one
// transaction: a storage failure on the first append rolls the session
// row back with it, so no empty session survives. An Oracle failure is
// not a storage failure; the session and its user turn commit anyway.
func (cs *chatService) StartSession(ctx context.Context, tenantId uuid.UUID, request *dto.StartChatRequest) (*dto.StartChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Persistence(err)
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		TenantId:  tenantId,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		_ = uow.Rollback()
		return nil, apperr.Persistence(err)
	}

	reply, turnErr := cs.processTurn(ctx, uow, &session, request.Message)
	if turnErr != nil && apperr.KindOf(turnErr) == apperr.KindPersistence {
		_ = uow.Rollback()
		return nil, turnErr
	}
	if err := uow.Commit(); err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := cs.bus.Publish(events.NewSessionStarted(tenantId, session.Id)); err != nil {
		cs.logger.Warn("CHAT", "Failed to publish SESSION_STARTED event", map[string]interface{}{"error": err.Error()})
	}

	if turnErr != nil {
		return nil, turnErr
	}

	return &dto.StartChatResponse{
		Session: &dto.SessionResponse{
			Id:        session.Id,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
		},
		Reply: messageToResponse(reply),
	}, nil
}

// SendChat appends one user turn to an existing session and returns the
// resulting bot turn.
func (cs *chatService) SendChat(ctx context.Context, tenantId uuid.UUID, request *dto.SendChatRequest) (*dto.ChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.authorize(ctx, uow, tenantId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	reply, err := cs.processTurn(ctx, uow, session, request.Message)
	if err != nil {
		return nil, err
	}

	return messageToResponse(reply), nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, tenantId uuid.UUID, query *dto.ListSessionsQuery) ([]*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.TenantOwnedBy{TenantID: tenantId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if query != nil && query.Limit > 0 {
		specs = append(specs, specification.Pagination{Limit: query.Limit, Offset: query.Offset})
	}

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	sessionIds := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		sessionIds[i] = s.Id
	}

	latest, err := uow.ChatMessageRepository().FindLatestBySessionIds(ctx, sessionIds)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	response := make([]*dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		item := &dto.SessionResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
		}
		if msg, ok := latest[s.Id]; ok {
			item.LastMessage = &dto.MessagePreview{
				Sender:    msg.Sender,
				Content:   msg.Content,
				CreatedAt: msg.CreatedAt,
			}
		}
		response = append(response, item)
	}

	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, tenantId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.authorize(ctx, uow, tenantId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	response := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, messageToResponse(msg))
	}
	return response, nil
}

// authorize loads the session scoped to the tenant. A session that is
// absent and a session owned by someone else produce the same answer.
func (cs *chatService) authorize(ctx context.Context, uow unitofwork.UnitOfWork, tenantId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.TenantOwnedBy{TenantID: tenantId},
	)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if session == nil {
		return nil, apperr.NotFound("session not found")
	}
	return session, nil
}

// processTurn drives one request/response cycle: title the session if
// needed, persist the user turn, replay the history to the Oracle,
// persist the reply.
func (cs *chatService) processTurn(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, userText string) (*entity.ChatMessage, error) {
	cs.locks.lock(session.Id)
	defer cs.locks.unlock(session.Id)

	if session.Title == nil {
		cs.ensureTitled(ctx, uow, session, userText)
	}

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Sender:        entity.SenderUser,
		Content:       userText,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		// No user turn, no Oracle call.
		return nil, apperr.Persistence(err)
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	// The last transcript entry is the user turn just appended; it goes
	// to the Oracle once, as the current input, never inside the prior
	// context.
	transcript := make([]oracle.Turn, 0, len(history))
	for _, msg := range history {
		transcript = append(transcript, oracle.Turn{
			Role: senderToRole[msg.Sender],
			Text: msg.Content,
		})
	}

	priorContext := transcript[:len(transcript)-1]
	currentTurn := transcript[len(transcript)-1].Text

	replyText, err := cs.oracle.GenerateReply(ctx, priorContext, currentTurn)
	if err != nil {
		// The user turn stays persisted; the session is consistent but
		// conversationally incomplete.
		return nil, apperr.Oracle(err)
	}
	if strings.TrimSpace(replyText) == "" {
		replyText = EmptyReplyPlaceholder
	}

	botMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Sender:        entity.SenderBot,
		Content:       replyText,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &botMessage); err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := cs.bus.Publish(events.NewTurnCompleted(session.Id, userMessage.Id, botMessage.Id)); err != nil {
		cs.logger.Warn("CHAT", "Failed to publish TURN_COMPLETED event", map[string]interface{}{"error": err.Error()})
	}

	return &botMessage, nil
}

// ensureTitled assigns the session title from its first user message.
// Best effort: any failure degrades to the default title, and a title
// already set (possibly by a concurrent turn) is never overwritten.
func (cs *chatService) ensureTitled(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, firstUserMessage string) {
	title, err := cs.oracle.GenerateTitle(ctx, firstUserMessage)
	if err != nil {
		cs.logger.Warn("CHAT", "Title generation failed, using default", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		title = DefaultTitle
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	updated, err := uow.ChatSessionRepository().UpdateTitleIfUnset(ctx, session.Id, title)
	if err != nil {
		cs.logger.Warn("CHAT", "Failed to persist session title", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		return
	}
	if updated {
		session.Title = &title
	}
}

func messageToResponse(msg *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        msg.Id,
		Sender:    msg.Sender,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
