package session

import (
	"context"
	"sync"
	"time"

	"support-chat-be/internal/constant"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/llm"
	"support-chat-be/pkg/store"

	"github.com/google/uuid"
)

// Manager owns the live session cache on top of the durable session rows.
// Resume is idempotent for a given session id: the welcome message is
// synthesized only when the durable row is first created, never on reconnect.
type Manager struct {
	live         *memory.SessionRepository
	uowFactory   unitofwork.RepositoryFactory
	log          logger.ILogger
	historyLimit int
	idleTTL      time.Duration

	// mu guards mutation of live Session fields. The per-session pipeline
	// serialization lives in the orchestrator; this lock only covers the
	// eviction sweep racing AppendLocal and Touch.
	mu sync.Mutex

	// onEvict, when set, runs for each session the sweep drops. Lets the
	// orchestrator release per-session state tied to the live entry.
	onEvict func(sessionID string)

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewManager(
	live *memory.SessionRepository,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
	historyLimit int,
	idleTTL time.Duration,
) *Manager {
	return &Manager{
		live:         live,
		uowFactory:   uowFactory,
		log:          log,
		historyLimit: historyLimit,
		idleTTL:      idleTTL,
	}
}

// Resume returns the live session for sessionID, rebuilding it from the
// durable log when it fell out of the cache, or creating a new session when
// the id is unknown, blank, or not a valid uuid. The returned bool is true
// only when a new durable row was created this call.
func (m *Manager) Resume(ctx context.Context, sessionID string, widgetID, userID *uuid.UUID) (*store.Session, bool, error) {
	now := time.Now()

	if sessionID != "" {
		if live, found := m.live.Get(sessionID); found {
			m.mu.Lock()
			live.Touch(now)
			m.mu.Unlock()
			return live, false, nil
		}
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		id = uuid.New()
	}

	uow := m.uowFactory.NewUnitOfWork(ctx)

	if err == nil {
		row, ferr := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
		if ferr != nil {
			return nil, false, ferr
		}
		if row != nil {
			return m.rebuild(ctx, uow, row, now)
		}
	}

	return m.create(ctx, uow, id, widgetID, userID, now)
}

// rebuild reconstructs the live state from the durable row plus the most
// recent messages, oldest first.
func (m *Manager) rebuild(ctx context.Context, uow unitofwork.UnitOfWork, row *entity.ChatSession, now time.Time) (*store.Session, bool, error) {
	history, err := m.loadHistory(ctx, uow, row.Id)
	if err != nil {
		return nil, false, err
	}

	sess := &store.Session{
		ID:           row.Id.String(),
		UserID:       row.UserId,
		WidgetID:     row.WidgetId,
		CreatedAt:    row.CreatedAt,
		LastActivity: now,
		History:      history,
	}

	row.LastActivityAt = now
	if err := uow.ChatSessionRepository().Update(ctx, row); err != nil {
		m.log.Warn("SessionManager", "Failed to refresh session activity", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
	}

	m.live.Save(sess)
	return sess, false, nil
}

func (m *Manager) create(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, widgetID, userID *uuid.UUID, now time.Time) (*store.Session, bool, error) {
	row := &entity.ChatSession{
		Id:             id,
		UserId:         userID,
		WidgetId:       widgetID,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := uow.ChatSessionRepository().Create(ctx, row); err != nil {
		return nil, false, err
	}

	sess := &store.Session{
		ID:           id.String(),
		UserID:       userID,
		WidgetID:     widgetID,
		CreatedAt:    now,
		LastActivity: now,
	}

	if welcome := m.welcomeFor(ctx, uow, widgetID); welcome != "" {
		msg := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: id,
			Content:       welcome,
			Role:          constant.ChatMessageRoleAssistant,
			CreatedAt:     now,
		}
		if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
			m.log.Warn("SessionManager", "Failed to persist welcome message", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
		} else {
			sess.Append(llm.Message{Role: constant.ChatMessageRoleAssistant, Content: welcome}, m.historyLimit)
		}
	}

	m.live.Save(sess)
	m.log.Info("SessionManager", "Created chat session", map[string]interface{}{
		"session_id": sess.ID,
		"anonymous":  userID == nil,
	})
	return sess, true, nil
}

func (m *Manager) welcomeFor(ctx context.Context, uow unitofwork.UnitOfWork, widgetID *uuid.UUID) string {
	if widgetID == nil {
		return ""
	}
	widget, err := uow.WidgetRepository().FindOne(ctx, specification.ByID{ID: *widgetID})
	if err != nil {
		m.log.Warn("SessionManager", "Failed to load widget", map[string]interface{}{
			"widget_id": widgetID.String(),
			"error":     err.Error(),
		})
		return ""
	}
	if widget == nil || !widget.IsActive {
		return ""
	}
	return widget.WelcomeMessage
}

// loadHistory fetches the newest historyLimit messages and returns them oldest
// first, the order the model context expects.
func (m *Manager) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionID uuid.UUID) ([]llm.Message, error) {
	rows, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionID},
		specification.OrderBy{Field: "seq", Desc: true},
		specification.Pagination{Limit: m.historyLimit},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, len(rows))
	for i, row := range rows {
		history[len(rows)-1-i] = llm.Message{Role: row.Role, Content: row.Content}
	}
	return history, nil
}

func (m *Manager) Get(sessionID string) (*store.Session, bool) {
	return m.live.Get(sessionID)
}

// AppendLocal adds a message to the live bounded window. The durable write is
// the orchestrator's job; a session that already fell out of the cache is a
// no-op here.
func (m *Manager) AppendLocal(sessionID, role, content string) {
	sess, found := m.live.Get(sessionID)
	if !found {
		return
	}
	m.mu.Lock()
	sess.Append(llm.Message{Role: role, Content: content}, m.historyLimit)
	sess.Touch(time.Now())
	m.mu.Unlock()
}

// History returns a copy of the live window, oldest first.
func (m *Manager) History(sessionID string) []llm.Message {
	sess, found := m.live.Get(sessionID)
	if !found {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Message, len(sess.History))
	copy(out, sess.History)
	return out
}

// EvictIdle drops live sessions whose last activity is older than the idle
// TTL. Only the in-memory state goes away; the durable rows and message log
// remain, so an evicted session can still be resumed.
func (m *Manager) EvictIdle(now time.Time) int {
	evicted := 0
	for _, sess := range m.live.All() {
		m.mu.Lock()
		idle := now.Sub(sess.LastActivity) > m.idleTTL
		m.mu.Unlock()
		if idle {
			m.live.Delete(sess.ID)
			if m.onEvict != nil {
				m.onEvict(sess.ID)
			}
			evicted++
		}
	}
	if evicted > 0 {
		m.log.Info("SessionManager", "Evicted idle sessions", map[string]interface{}{
			"count":     evicted,
			"remaining": m.live.Len(),
		})
	}
	return evicted
}

// OnEvict registers the eviction callback. Set before StartSweep.
func (m *Manager) OnEvict(fn func(sessionID string)) {
	m.onEvict = fn
}

// StartSweep runs the eviction sweep on a fixed interval until Stop.
func (m *Manager) StartSweep(interval time.Duration) {
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.EvictIdle(time.Now())
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Manager) Stop() {
	if m.stop == nil {
		return
	}
	close(m.stop)
	m.wg.Wait()
}
