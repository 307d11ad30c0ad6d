package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"grocerylist-api/internal/models"
	"grocerylist-api/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrKeywordTooShort = errors.New("keyword must be at least 3 characters")
	ErrInvalidCategory = errors.New("invalid category")
)

// learnRequest is a single keyword promotion waiting in the learning queue
type learnRequest struct {
	keyword   string
	category  models.Category
	learnedBy *uuid.UUID
}

type categoryService struct {
	keywordRepo       repositories.KeywordRepositoryInterface
	staticKeywords    map[string]models.Category
	staticOrder       []string
	circuitBreaker    CircuitBreakerInterface
	metrics           MetricsRecorderInterface
	promoteStaticHits bool
	learnQueue        chan learnRequest
	maxWorkers        int
	workerSemaphore   chan struct{}
	logger            *slog.Logger
}

// NewCategoryService creates the categorization engine. queueSize bounds the
// background learning queue; maxWorkers bounds concurrent keyword writes.
func NewCategoryService(
	keywordRepo repositories.KeywordRepositoryInterface,
	circuitBreaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	queueSize int,
	maxWorkers int,
	promoteStaticHits bool,
) CategoryServiceInterface {
	staticKeywords := initStaticKeywords()

	return &categoryService{
		keywordRepo:       keywordRepo,
		staticKeywords:    staticKeywords,
		staticOrder:       orderStaticKeywords(staticKeywords),
		circuitBreaker:    circuitBreaker,
		metrics:           metrics,
		promoteStaticHits: promoteStaticHits,
		learnQueue:        make(chan learnRequest, queueSize),
		maxWorkers:        maxWorkers,
		workerSemaphore:   make(chan struct{}, maxWorkers),
		logger:            slog.Default(),
	}
}

// CategorizeItem determines the category for an item name. Learned
// associations take precedence over the built-in table: exact learned match,
// learned substring match, built-in word match, built-in substring match,
// then unknown. A hit on the built-in table is promoted into the learned
// store in the background, so the household's own store layout wins on the
// next lookup.
func (s *categoryService) CategorizeItem(itemName string) *models.CategorizationResult {
	normalized := normalizeItemName(itemName)
	if normalized == "" {
		return s.record(&models.CategorizationResult{
			Category: models.CategoryUnknown,
			Source:   models.CategorizationSourceDefault,
		})
	}

	if result := s.lookupLearned(normalized); result != nil {
		return s.record(result)
	}

	if result := s.lookupStatic(normalized); result != nil {
		if s.promoteStaticHits {
			s.enqueueLearn(learnRequest{keyword: result.MatchedKeyword, category: result.Category})
		}
		return s.record(result)
	}

	return s.record(&models.CategorizationResult{
		Category: models.CategoryUnknown,
		Source:   models.CategorizationSourceDefault,
	})
}

// lookupLearned consults the learned keyword store. Any storage error falls
// through to the built-in table: categorization must answer even when the
// database is down.
func (s *categoryService) lookupLearned(normalized string) *models.CategorizationResult {
	if s.circuitBreaker.IsOpen() {
		s.metrics.IncrementCounter("circuit_breaker.open", map[string]string{
			"service": "keyword_store",
		})
		return nil
	}

	category, err := s.keywordRepo.FindExact(normalized)
	if err == nil {
		s.circuitBreaker.RecordSuccess()
		return &models.CategorizationResult{
			Category:       category,
			Source:         models.CategorizationSourceLearnedExact,
			MatchedKeyword: normalized,
		}
	}
	if !errors.Is(err, repositories.ErrKeywordNotFound) {
		s.circuitBreaker.RecordFailure()
		s.logger.Error("keyword lookup failed, falling back to built-in table",
			slog.String("error", err.Error()),
		)
		return nil
	}

	assocs, err := s.keywordRepo.FindAll()
	if err != nil {
		s.circuitBreaker.RecordFailure()
		s.logger.Error("keyword scan failed, falling back to built-in table",
			slog.String("error", err.Error()),
		)
		return nil
	}
	s.circuitBreaker.RecordSuccess()

	// Associations arrive longest keyword first, so the most specific
	// learned keyword wins ("pineapple" before "apple").
	for _, assoc := range assocs {
		if strings.Contains(normalized, assoc.Keyword) {
			return &models.CategorizationResult{
				Category:       assoc.CategoryID,
				Source:         models.CategorizationSourceLearnedSubstring,
				MatchedKeyword: assoc.Keyword,
			}
		}
	}

	return nil
}

// lookupStatic consults the built-in keyword table: whole words first, then
// substrings longest keyword first.
func (s *categoryService) lookupStatic(normalized string) *models.CategorizationResult {
	for _, word := range strings.Fields(normalized) {
		if category, ok := s.staticKeywords[word]; ok {
			return &models.CategorizationResult{
				Category:       category,
				Source:         models.CategorizationSourceStaticWord,
				MatchedKeyword: word,
			}
		}
	}

	for _, keyword := range s.staticOrder {
		if strings.Contains(normalized, keyword) {
			return &models.CategorizationResult{
				Category:       s.staticKeywords[keyword],
				Source:         models.CategorizationSourceStaticSubstring,
				MatchedKeyword: keyword,
			}
		}
	}

	return nil
}

func (s *categoryService) record(result *models.CategorizationResult) *models.CategorizationResult {
	s.metrics.IncrementCounter("categorization.performed", map[string]string{
		"source":   result.Source,
		"category": string(result.Category),
	})
	return result
}

// LearnKeyword stores a keyword to category association. Learning an already
// known pair is a no-op, not an error, so concurrent learners never conflict.
func (s *categoryService) LearnKeyword(keyword string, category models.Category, learnedBy *uuid.UUID) error {
	normalized := strings.ToLower(strings.TrimSpace(keyword))
	if len(normalized) < models.MinKeywordLength {
		return ErrKeywordTooShort
	}

	if !models.IsValidCategory(category) {
		return ErrInvalidCategory
	}

	assoc := &models.KeywordAssociation{
		Keyword:    normalized,
		CategoryID: category,
		CreatedBy:  learnedBy,
	}

	if err := s.keywordRepo.Create(assoc); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKeyword) {
			return nil
		}
		return fmt.Errorf("failed to store keyword association: %w", err)
	}

	s.metrics.IncrementCounter("keyword.learned", map[string]string{
		"category": string(category),
	})

	return nil
}

// LearnItemCategorization learns the full trimmed item name plus each word of
// at least three characters. Storage failures are logged and swallowed so a
// manual category assignment never fails because learning did.
func (s *categoryService) LearnItemCategorization(itemName string, category models.Category, learnedBy *uuid.UUID) {
	trimmed := strings.TrimSpace(itemName)
	if trimmed == "" {
		return
	}

	s.learnQuietly(trimmed, category, learnedBy)

	for _, word := range strings.Fields(strings.ToLower(trimmed)) {
		if len(word) >= models.MinKeywordLength {
			s.learnQuietly(word, category, learnedBy)
		}
	}
}

func (s *categoryService) learnQuietly(keyword string, category models.Category, learnedBy *uuid.UUID) {
	err := s.LearnKeyword(keyword, category, learnedBy)
	if err != nil && !errors.Is(err, ErrKeywordTooShort) {
		s.logger.Warn("failed to learn keyword",
			slog.String("keyword", keyword),
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
	}
}

// enqueueLearn hands a promotion to the background loop without blocking the
// categorization path. When the queue is full the promotion is dropped; the
// same static hit will come around again.
func (s *categoryService) enqueueLearn(req learnRequest) {
	select {
	case s.learnQueue <- req:
		s.metrics.RecordGauge("learning.queue_depth", float64(len(s.learnQueue)), nil)
	default:
		s.metrics.IncrementCounter("learning.dropped", map[string]string{
			"category": string(req.category),
		})
		s.logger.Warn("learning queue full, dropping promotion",
			slog.String("keyword", req.keyword),
			slog.String("category", string(req.category)),
		)
	}
}

// StartLearning runs the background promotion loop until ctx is cancelled
func (s *categoryService) StartLearning(ctx context.Context) {
	s.logger.Info("starting keyword learning loop",
		slog.Int("max_workers", s.maxWorkers),
		slog.Int("queue_size", cap(s.learnQueue)),
	)

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("learning loop shutting down, waiting for workers to complete")
			wg.Wait()
			s.logger.Info("learning loop stopped")
			return

		case req := <-s.learnQueue:
			wg.Add(1)
			go s.processLearnRequestAsync(req, &wg)
		}
	}
}

func (s *categoryService) processLearnRequestAsync(req learnRequest, wg *sync.WaitGroup) {
	defer wg.Done()

	s.workerSemaphore <- struct{}{}
	defer func() { <-s.workerSemaphore }()

	s.learnQuietly(req.keyword, req.category, req.learnedBy)
	s.metrics.RecordGauge("learning.queue_depth", float64(len(s.learnQueue)), nil)
}

// QueueDepth reports how many learning requests are waiting
func (s *categoryService) QueueDepth() int {
	return len(s.learnQueue)
}

// ListCategories returns all category definitions in shopping aisle order
func (s *categoryService) ListCategories() []models.CategoryDefinition {
	return models.CategoryDefinitions()
}

// ListKeywords returns learned associations, optionally filtered by category
func (s *categoryService) ListKeywords(category models.Category, offset, limit int) ([]models.KeywordAssociation, int64, error) {
	if category != "" && !models.IsValidCategory(category) {
		return nil, 0, ErrInvalidCategory
	}

	return s.keywordRepo.ListByCategory(category, offset, limit)
}

// normalizeItemName lowercases and trims an item name for matching
func normalizeItemName(itemName string) string {
	return strings.ToLower(strings.TrimSpace(itemName))
}
