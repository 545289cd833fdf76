package policy

import (
	"context"
	"time"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const resolveCacheTTL = 5 * time.Minute

// Store resolves context rules for the pipeline. Rules are read-heavy and
// written rarely, so resolved rules sit in a small TTL cache. An inactive or
// missing rule resolves to nil without an error: the pipeline degrades to
// unfiltered behavior instead of failing the message.
//
// A cached rule keeps serving for up to the TTL after it is deactivated; the
// surface that flips IsActive must call Invalidate for immediate effect.
type Store struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.Cache
}

func NewStore(uowFactory unitofwork.RepositoryFactory) *Store {
	return &Store{
		uowFactory: uowFactory,
		cache:      cache.New(resolveCacheTTL, 10*time.Minute),
	}
}

func (s *Store) Resolve(ctx context.Context, ruleId uuid.UUID) (*entity.ContextRule, error) {
	key := ruleId.String()
	if x, found := s.cache.Get(key); found {
		return x.(*entity.ContextRule), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rule, err := uow.ContextRuleRepository().FindOne(ctx,
		specification.ByID{ID: ruleId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		// Not cached: a rule activated later should resolve promptly.
		return nil, nil
	}

	s.cache.Set(key, rule, cache.DefaultExpiration)
	return rule, nil
}

// Invalidate drops a cached rule, e.g. after the management API updates it.
func (s *Store) Invalidate(ruleId uuid.UUID) {
	s.cache.Delete(ruleId.String())
}
