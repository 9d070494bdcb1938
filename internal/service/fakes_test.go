package service

import (
	"context"
	"sort"
	"sync"

	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/repository/contract"
	"ai-chatrelay-be/internal/repository/specification"
	"ai-chatrelay-be/internal/repository/unitofwork"
	"ai-chatrelay-be/pkg/oracle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory store shared by every unit of work a fake factory hands out.
// Specifications are interpreted by type, mirroring what the gorm
// implementations do with SQL.

type fakeState struct {
	mu       sync.Mutex
	tenants  []*entity.Tenant
	sessions []*entity.ChatSession
	messages []*entity.ChatMessage
	nextSeq  int64

	messageCreateErr error
}

type fakeFactory struct {
	state *fakeState
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{state: &fakeState{}}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{state: f.state}
}

type fakeUow struct {
	state *fakeState
	snap  *fakeSnapshot
}

// fakeSnapshot captures the store at Begin so Rollback can restore it.
type fakeSnapshot struct {
	tenants  []*entity.Tenant
	sessions []*entity.ChatSession
	messages []*entity.ChatMessage
	nextSeq  int64
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	sessions := make([]*entity.ChatSession, len(u.state.sessions))
	for i, s := range u.state.sessions {
		cp := *s
		sessions[i] = &cp
	}
	u.snap = &fakeSnapshot{
		tenants:  append([]*entity.Tenant(nil), u.state.tenants...),
		sessions: sessions,
		messages: append([]*entity.ChatMessage(nil), u.state.messages...),
		nextSeq:  u.state.nextSeq,
	}
	return nil
}

func (u *fakeUow) Commit() error {
	u.snap = nil
	return nil
}

func (u *fakeUow) Rollback() error {
	if u.snap == nil {
		return nil
	}
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	u.state.tenants = u.snap.tenants
	u.state.sessions = u.snap.sessions
	u.state.messages = u.snap.messages
	u.state.nextSeq = u.snap.nextSeq
	u.snap = nil
	return nil
}

func (u *fakeUow) TenantRepository() contract.TenantRepository {
	return &fakeTenantRepo{state: u.state}
}

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{state: u.state}
}

func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{state: u.state}
}

// --- Tenant repo ---

type fakeTenantRepo struct {
	state *fakeState
}

func (r *fakeTenantRepo) Create(ctx context.Context, tenant *entity.Tenant) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, t := range r.state.tenants {
		if t.Token == tenant.Token {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *tenant
	r.state.tenants = append(r.state.tenants, &cp)
	return nil
}

func (r *fakeTenantRepo) Update(ctx context.Context, tenant *entity.Tenant) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for i, t := range r.state.tenants {
		if t.Id == tenant.Id {
			cp := *tenant
			r.state.tenants[i] = &cp
			return nil
		}
	}
	return nil
}

func tenantMatches(t *entity.Tenant, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if t.Id != s.ID {
				return false
			}
		case specification.ByToken:
			if t.Token != s.Token {
				return false
			}
		case specification.ActiveOnly:
			if !t.Active {
				return false
			}
		}
	}
	return true
}

func (r *fakeTenantRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tenant, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, t := range r.state.tenants {
		if tenantMatches(t, specs) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTenantRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var out []*entity.Tenant
	for _, t := range r.state.tenants {
		if tenantMatches(t, specs) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTenantRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- Session repo ---

type fakeSessionRepo struct {
	state *fakeState
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	cp := *session
	r.state.sessions = append(r.state.sessions, &cp)
	return nil
}

func (r *fakeSessionRepo) UpdateTitleIfUnset(ctx context.Context, id uuid.UUID, title string) (bool, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, s := range r.state.sessions {
		if s.Id == id {
			if s.Title != nil {
				return false, nil
			}
			t := title
			s.Title = &t
			return true, nil
		}
	}
	return false, nil
}

func sessionMatches(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.TenantOwnedBy:
			if s.TenantId != sp.TenantID {
				return false
			}
		}
	}
	return true
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, s := range r.state.sessions {
		if sessionMatches(s, specs) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var out []*entity.ChatSession
	for _, s := range r.state.sessions {
		if sessionMatches(s, specs) {
			cp := *s
			out = append(out, &cp)
		}
	}
	for _, spec := range specs {
		if ord, ok := spec.(specification.OrderBy); ok && ord.Field == "created_at" {
			sort.SliceStable(out, func(i, j int) bool {
				if ord.Desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}
	for _, spec := range specs {
		if page, ok := spec.(specification.Pagination); ok {
			if page.Offset >= len(out) {
				return nil, nil
			}
			out = out[page.Offset:]
			if page.Limit < len(out) {
				out = out[:page.Limit]
			}
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- Message repo ---

type fakeMessageRepo struct {
	state *fakeState
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if r.state.messageCreateErr != nil {
		return r.state.messageCreateErr
	}
	r.state.nextSeq++
	message.Seq = r.state.nextSeq
	cp := *message
	r.state.messages = append(r.state.messages, &cp)
	return nil
}

func messageMatches(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if m.Id != sp.ID {
				return false
			}
		case specification.ByChatSessionID:
			if m.ChatSessionId != sp.ChatSessionID {
				return false
			}
		}
	}
	return true
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, m := range r.state.messages {
		if messageMatches(m, specs) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.state.messages {
		if messageMatches(m, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	for _, spec := range specs {
		if ord, ok := spec.(specification.OrderBy); ok && ord.Field == "seq" {
			sort.SliceStable(out, func(i, j int) bool {
				if ord.Desc {
					return out[i].Seq > out[j].Seq
				}
				return out[i].Seq < out[j].Seq
			})
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) FindLatestBySessionIds(ctx context.Context, sessionIds []uuid.UUID) (map[uuid.UUID]*entity.ChatMessage, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(sessionIds))
	for _, id := range sessionIds {
		wanted[id] = true
	}
	latest := make(map[uuid.UUID]*entity.ChatMessage)
	for _, m := range r.state.messages {
		if !wanted[m.ChatSessionId] {
			continue
		}
		if cur, ok := latest[m.ChatSessionId]; !ok || m.Seq > cur.Seq {
			cp := *m
			latest[m.ChatSessionId] = &cp
		}
	}
	return latest, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- Oracle fake ---

type oracleCall struct {
	prior   []oracle.Turn
	current string
}

type fakeOracle struct {
	mu         sync.Mutex
	replyFn    func(prior []oracle.Turn, current string) (string, error)
	titleFn    func(seed string) (string, error)
	replyCalls []oracleCall
	titleCalls []string
}

func (f *fakeOracle) GenerateReply(ctx context.Context, prior []oracle.Turn, current string) (string, error) {
	f.mu.Lock()
	f.replyCalls = append(f.replyCalls, oracleCall{prior: prior, current: current})
	f.mu.Unlock()
	if f.replyFn != nil {
		return f.replyFn(prior, current)
	}
	return "reply to: " + current, nil
}

func (f *fakeOracle) GenerateTitle(ctx context.Context, seed string) (string, error) {
	f.mu.Lock()
	f.titleCalls = append(f.titleCalls, seed)
	f.mu.Unlock()
	if f.titleFn != nil {
		return f.titleFn(seed)
	}
	return "Test Title", nil
}

// --- Logger fake ---

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
