package session

import (
	"context"
	"testing"
	"time"

	"support-chat-be/internal/constant"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{}) {}
func (nopLogger) Warn(module, message string, details map[string]interface{}) {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeSessionRepo struct {
	rows map[uuid.UUID]*entity.ChatSession
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	f.rows[session.Id] = session
	return nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	f.rows[session.Id] = session
	return nil
}

func (f *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return f.rows[byID.ID], nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	return nil, nil
}

func (f *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.rows)), nil
}

// fakeMessageRepo returns stored rows as the repository would: newest first.
type fakeMessageRepo struct {
	created     []*entity.ChatMessage
	newestFirst []*entity.ChatMessage
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	f.created = append(f.created, message)
	return nil
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return f.newestFirst, nil
}

func (f *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.newestFirst)), nil
}

type fakeWidgetRepo struct {
	widget *entity.Widget
}

func (f *fakeWidgetRepo) Create(ctx context.Context, widget *entity.Widget) error { return nil }
func (f *fakeWidgetRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Widget, error) {
	return f.widget, nil
}

type fakeUow struct {
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	widgets  *fakeWidgetRepo
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }
func (f *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return f.sessions }
func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return f.messages }
func (f *fakeUow) ContextRuleRepository() contract.ContextRuleRepository { return nil }
func (f *fakeUow) WidgetRepository() contract.WidgetRepository           { return f.widgets }
func (f *fakeUow) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return nil
}
func (f *fakeUow) InteractionLogRepository() contract.InteractionLogRepository { return nil }

type fakeFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func (f *fakeUow) created() []*entity.ChatMessage { return f.messages.created }

func newTestManager(uow *fakeUow, historyLimit int, idleTTL time.Duration) *Manager {
	return NewManager(memory.NewSessionRepository(), &fakeFactory{uow: uow}, nopLogger{}, historyLimit, idleTTL)
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		sessions: &fakeSessionRepo{rows: map[uuid.UUID]*entity.ChatSession{}},
		messages: &fakeMessageRepo{},
		widgets:  &fakeWidgetRepo{},
	}
}

func TestResumeCreatesSessionWithWelcome(t *testing.T) {
	uow := newFakeUow()
	widgetID := uuid.New()
	uow.widgets.widget = &entity.Widget{Id: widgetID, IsActive: true, WelcomeMessage: "Hi! How can we help?"}
	m := newTestManager(uow, 20, time.Hour)

	sess, created, err := m.Resume(context.Background(), "", &widgetID, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if !created {
		t.Error("created = false, want true for a fresh session")
	}
	if len(uow.sessions.rows) != 1 {
		t.Errorf("durable sessions = %d, want 1", len(uow.sessions.rows))
	}
	if len(uow.created()) != 1 {
		t.Fatalf("persisted messages = %d, want exactly one welcome", len(uow.created()))
	}
	if uow.created()[0].Role != constant.ChatMessageRoleAssistant {
		t.Errorf("welcome role = %q, want assistant", uow.created()[0].Role)
	}
	if len(sess.History) != 1 || sess.History[0].Content != "Hi! How can we help?" {
		t.Errorf("history = %v, want the welcome message seeded", sess.History)
	}
}

func TestResumeIsIdempotent(t *testing.T) {
	uow := newFakeUow()
	widgetID := uuid.New()
	uow.widgets.widget = &entity.Widget{Id: widgetID, IsActive: true, WelcomeMessage: "Welcome!"}
	m := newTestManager(uow, 20, time.Hour)

	first, created, err := m.Resume(context.Background(), "", &widgetID, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if !created {
		t.Fatal("first Resume should create")
	}

	second, created, err := m.Resume(context.Background(), first.ID, &widgetID, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if created {
		t.Error("created = true on reconnect, want false")
	}
	if second != first {
		t.Error("reconnect should return the same live session")
	}
	if len(uow.created()) != 1 {
		t.Errorf("persisted messages = %d, welcome must be synthesized once", len(uow.created()))
	}
}

func TestResumeRebuildsHistoryFromDurableLog(t *testing.T) {
	uow := newFakeUow()
	sessionID := uuid.New()
	uow.sessions.rows[sessionID] = &entity.ChatSession{Id: sessionID, CreatedAt: time.Now().Add(-time.Hour)}
	uow.messages.newestFirst = []*entity.ChatMessage{
		{ChatSessionId: sessionID, Role: constant.ChatMessageRoleAssistant, Content: "second"},
		{ChatSessionId: sessionID, Role: constant.ChatMessageRoleUser, Content: "first"},
	}
	m := newTestManager(uow, 20, time.Hour)

	sess, created, err := m.Resume(context.Background(), sessionID.String(), nil, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if created {
		t.Error("created = true, want false for an existing durable session")
	}
	if len(sess.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(sess.History))
	}
	if sess.History[0].Content != "first" || sess.History[1].Content != "second" {
		t.Errorf("history = %v, want oldest first", sess.History)
	}
}

func TestAppendLocalBoundsHistory(t *testing.T) {
	uow := newFakeUow()
	m := newTestManager(uow, 3, time.Hour)

	sess, _, err := m.Resume(context.Background(), "", nil, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	for _, content := range []string{"a", "b", "c", "d", "e"} {
		m.AppendLocal(sess.ID, constant.ChatMessageRoleUser, content)
	}

	history := m.History(sess.ID)
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].Content != "c" || history[2].Content != "e" {
		t.Errorf("history = %v, want the newest three entries", history)
	}
}

func TestEvictIdleDropsOnlyStaleSessions(t *testing.T) {
	uow := newFakeUow()
	m := newTestManager(uow, 20, 30*time.Minute)

	stale, _, err := m.Resume(context.Background(), "", nil, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	fresh, _, err := m.Resume(context.Background(), "", nil, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	if got, ok := m.Get(stale.ID); !ok || got == nil {
		t.Fatal("stale session missing before sweep")
	}

	// Age only the first session past the TTL.
	stale.LastActivity = time.Now().Add(-time.Hour)

	evicted := m.EvictIdle(time.Now())
	if evicted != 1 {
		t.Errorf("evicted = %d, want 1", evicted)
	}
	if _, ok := m.Get(stale.ID); ok {
		t.Error("stale session still live after sweep")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("fresh session evicted")
	}

	// The durable row survives eviction, so the session resumes.
	resumed, created, err := m.Resume(context.Background(), stale.ID, nil, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if created {
		t.Error("created = true, eviction must not lose the durable session")
	}
	if resumed.ID != stale.ID {
		t.Errorf("resumed id = %s, want %s", resumed.ID, stale.ID)
	}
}

func TestEvictIdleRunsTheEvictionHook(t *testing.T) {
	uow := newFakeUow()
	m := newTestManager(uow, 20, 30*time.Minute)

	var released []string
	m.OnEvict(func(sessionID string) { released = append(released, sessionID) })

	stale, _, err := m.Resume(context.Background(), "", nil, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	fresh, _, err := m.Resume(context.Background(), "", nil, nil)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	stale.LastActivity = time.Now().Add(-time.Hour)
	m.EvictIdle(time.Now())

	if len(released) != 1 || released[0] != stale.ID {
		t.Errorf("hook calls = %v, want exactly [%s]", released, stale.ID)
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("fresh session must survive the sweep")
	}
}
