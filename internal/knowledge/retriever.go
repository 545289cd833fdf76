package knowledge

import (
	"context"
	"sort"
	"strings"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Snippet is one ranked retrieval result. Score is a placeholder constant so
// callers and analytics have a stable field; ranking never consults it.
type Snippet struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// Retriever ranks knowledge documents for a query. A document is eligible when
// the query is a case-insensitive substring of its content or its title.
// Ordering: title matches first, then shorter content, then id for
// determinism. No eligible documents means an empty result, not an error.
type Retriever struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewRetriever(uowFactory unitofwork.RepositoryFactory) *Retriever {
	return &Retriever{uowFactory: uowFactory}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, knowledgeBaseIds []uuid.UUID, limit int) ([]Snippet, error) {
	if len(knowledgeBaseIds) == 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.KnowledgeDocumentRepository().FindAll(ctx,
		specification.ByKnowledgeBaseIDs{KnowledgeBaseIDs: knowledgeBaseIds},
	)
	if err != nil {
		return nil, err
	}

	return Rank(query, docs, limit), nil
}

// Rank applies the eligibility and ordering contract to an in-memory document
// set. Split out from Retrieve so it can be exercised without a database.
func Rank(query string, docs []*entity.KnowledgeDocument, limit int) []Snippet {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	type candidate struct {
		doc        *entity.KnowledgeDocument
		titleMatch bool
	}

	candidates := make([]candidate, 0, len(docs))
	for _, doc := range docs {
		titleMatch := strings.Contains(strings.ToLower(doc.Title), needle)
		contentMatch := strings.Contains(strings.ToLower(doc.Content), needle)
		if !titleMatch && !contentMatch {
			continue
		}
		candidates = append(candidates, candidate{doc: doc, titleMatch: titleMatch})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.titleMatch != b.titleMatch {
			return a.titleMatch
		}
		if len(a.doc.Content) != len(b.doc.Content) {
			return len(a.doc.Content) < len(b.doc.Content)
		}
		return a.doc.Id.String() < b.doc.Id.String()
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	snippets := make([]Snippet, len(candidates))
	for i, c := range candidates {
		source := c.doc.Title
		if source == "" {
			source = c.doc.Id.String()
		}
		snippets[i] = Snippet{
			Content: c.doc.Content,
			Source:  source,
			Score:   1.0,
		}
	}
	return snippets
}
