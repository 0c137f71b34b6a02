package services

import (
	"context"
	"errors"
	"log"

	"pressroom/internal/caching"
	"pressroom/internal/common"
	"pressroom/internal/models"
	"pressroom/internal/repositories"
	"pressroom/internal/tree"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrVocabularyNotFound    = errors.New("vocabulary not found")
	ErrTermNotFound          = errors.New("term not found")
	ErrTermSelfParent        = errors.New("term cannot be its own parent")
	ErrParentTermNotFound    = errors.New("parent term not found")
	ErrParentWrongVocabulary = errors.New("parent term belongs to a different vocabulary")
)

type TaxonomyService interface {
	CreateVocabulary(ctx context.Context, userID uuid.UUID, vocabulary *models.Vocabulary) error
	GetVocabulary(ctx context.Context, id uuid.UUID) (*models.Vocabulary, error)
	UpdateVocabulary(ctx context.Context, userID uuid.UUID, vocabulary *models.Vocabulary) error
	DeleteVocabulary(ctx context.Context, id uuid.UUID) error
	ListVocabularies(ctx context.Context, limit, offset int) ([]*models.Vocabulary, error)

	CreateTerm(ctx context.Context, userID uuid.UUID, term *models.Term, position *int) error
	GetTerm(ctx context.Context, id uuid.UUID) (*models.Term, error)
	UpdateTerm(ctx context.Context, userID uuid.UUID, term *models.Term) error
	DeleteTerm(ctx context.Context, id uuid.UUID) error

	GetTree(ctx context.Context, vocabularyID uuid.UUID) ([]*models.Term, error)
	GetTrees(ctx context.Context, vocabularyIDs []uuid.UUID) (map[uuid.UUID][]*models.Term, error)
}

type taxonomyService struct {
	vocabularyRepo repositories.VocabularyRepository
	cacheSvc       caching.CacheService
}

func NewTaxonomyService(vocabularyRepo repositories.VocabularyRepository, cacheSvc caching.CacheService) TaxonomyService {
	return &taxonomyService{
		vocabularyRepo: vocabularyRepo,
		cacheSvc:       cacheSvc,
	}
}

func (s *taxonomyService) CreateVocabulary(ctx context.Context, userID uuid.UUID, vocabulary *models.Vocabulary) error {
	if err := common.ValidateRequiredString(vocabulary.Name, "vocabulary name"); err != nil {
		return err
	}

	vocabulary.ID = uuid.New()
	vocabulary.Slug = common.Slugify(vocabulary.Name)
	if vocabulary.Metadata == nil {
		vocabulary.Metadata = map[string]interface{}{}
	}
	vocabulary.CreatedBy = userID
	vocabulary.UpdatedBy = userID

	return s.vocabularyRepo.CreateVocabulary(ctx, vocabulary)
}

func (s *taxonomyService) GetVocabulary(ctx context.Context, id uuid.UUID) (*models.Vocabulary, error) {
	vocabulary, err := s.vocabularyRepo.GetVocabularyByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVocabularyNotFound
	}
	return vocabulary, err
}

func (s *taxonomyService) UpdateVocabulary(ctx context.Context, userID uuid.UUID, vocabulary *models.Vocabulary) error {
	if err := common.ValidateRequiredString(vocabulary.Name, "vocabulary name"); err != nil {
		return err
	}

	existing, err := s.GetVocabulary(ctx, vocabulary.ID)
	if err != nil {
		return err
	}

	if vocabulary.Name != existing.Name {
		vocabulary.Slug = common.Slugify(vocabulary.Name)
	} else {
		vocabulary.Slug = existing.Slug
	}
	if vocabulary.Metadata == nil {
		vocabulary.Metadata = map[string]interface{}{}
	}
	vocabulary.UpdatedBy = userID

	return s.vocabularyRepo.UpdateVocabulary(ctx, vocabulary)
}

func (s *taxonomyService) DeleteVocabulary(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetVocabulary(ctx, id); err != nil {
		return err
	}
	if err := s.vocabularyRepo.DeleteVocabulary(ctx, id); err != nil {
		return err
	}
	s.invalidateTree(ctx, id)
	return nil
}

func (s *taxonomyService) ListVocabularies(ctx context.Context, limit, offset int) ([]*models.Vocabulary, error) {
	return s.vocabularyRepo.ListVocabularies(ctx, limit, offset)
}

func (s *taxonomyService) CreateTerm(ctx context.Context, userID uuid.UUID, term *models.Term, position *int) error {
	if err := common.ValidateRequiredString(term.Label, "term label"); err != nil {
		return err
	}
	if _, err := s.GetVocabulary(ctx, term.VocabularyID); err != nil {
		return err
	}
	if err := s.validateParent(ctx, term.VocabularyID, uuid.Nil, term.ParentID); err != nil {
		return err
	}

	resolved, err := s.resolvePosition(ctx, term.VocabularyID, term.ParentID, position)
	if err != nil {
		return err
	}
	term.Position = resolved

	term.ID = uuid.New()
	if term.Metadata == nil {
		term.Metadata = map[string]interface{}{}
	}
	if term.VisibilityRoles == nil {
		term.VisibilityRoles = []string{}
	}
	term.CreatedBy = userID
	term.UpdatedBy = userID

	if err := s.vocabularyRepo.CreateTerm(ctx, term); err != nil {
		return err
	}
	s.invalidateTree(ctx, term.VocabularyID)
	return nil
}

func (s *taxonomyService) GetTerm(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	term, err := s.vocabularyRepo.GetTermByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTermNotFound
	}
	return term, err
}

func (s *taxonomyService) UpdateTerm(ctx context.Context, userID uuid.UUID, term *models.Term) error {
	if err := common.ValidateRequiredString(term.Label, "term label"); err != nil {
		return err
	}

	existing, err := s.GetTerm(ctx, term.ID)
	if err != nil {
		return err
	}
	// The owning vocabulary never changes after creation.
	term.VocabularyID = existing.VocabularyID

	if err := s.validateParent(ctx, term.VocabularyID, term.ID, term.ParentID); err != nil {
		return err
	}

	if term.Metadata == nil {
		term.Metadata = map[string]interface{}{}
	}
	if term.VisibilityRoles == nil {
		term.VisibilityRoles = []string{}
	}
	term.UpdatedBy = userID

	if err := s.vocabularyRepo.UpdateTerm(ctx, term); err != nil {
		return err
	}
	s.invalidateTree(ctx, term.VocabularyID)
	return nil
}

func (s *taxonomyService) DeleteTerm(ctx context.Context, id uuid.UUID) error {
	term, err := s.GetTerm(ctx, id)
	if err != nil {
		return err
	}
	if err := s.vocabularyRepo.DeleteTerm(ctx, id); err != nil {
		return err
	}
	s.invalidateTree(ctx, term.VocabularyID)
	return nil
}

func (s *taxonomyService) GetTree(ctx context.Context, vocabularyID uuid.UUID) ([]*models.Term, error) {
	if cached, err := s.cacheSvc.GetTermTree(ctx, vocabularyID); err == nil && cached != nil {
		return cached, nil
	}

	if _, err := s.GetVocabulary(ctx, vocabularyID); err != nil {
		return nil, err
	}

	terms, err := s.vocabularyRepo.ListTermsByVocabularyIDs(ctx, []uuid.UUID{vocabularyID})
	if err != nil {
		return nil, err
	}
	if err := tree.ValidateEntries(terms); err != nil {
		return nil, err
	}

	roots := tree.Build(terms)
	if err := s.cacheSvc.SetTermTree(ctx, vocabularyID, roots, treeCacheTTL); err != nil {
		log.Printf("WARN: failed to cache term tree %s: %v", vocabularyID, err)
	}
	return roots, nil
}

func (s *taxonomyService) GetTrees(ctx context.Context, vocabularyIDs []uuid.UUID) (map[uuid.UUID][]*models.Term, error) {
	terms, err := s.vocabularyRepo.ListTermsByVocabularyIDs(ctx, vocabularyIDs)
	if err != nil {
		return nil, err
	}
	if err := tree.ValidateEntries(terms); err != nil {
		return nil, err
	}

	grouped := tree.GroupByContainer(terms)
	forests := make(map[uuid.UUID][]*models.Term, len(vocabularyIDs))
	for _, vocabularyID := range vocabularyIDs {
		forests[vocabularyID] = tree.Build(grouped[vocabularyID])
	}
	return forests, nil
}

func (s *taxonomyService) validateParent(ctx context.Context, vocabularyID, termID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if termID != uuid.Nil && *parentID == termID {
		return ErrTermSelfParent
	}

	parent, err := s.vocabularyRepo.GetTermByID(ctx, *parentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrParentTermNotFound
	}
	if err != nil {
		return err
	}
	if parent.VocabularyID != vocabularyID {
		return ErrParentWrongVocabulary
	}
	return nil
}

func (s *taxonomyService) resolvePosition(ctx context.Context, vocabularyID uuid.UUID, parentID *uuid.UUID, position *int) (int, error) {
	if position != nil {
		return *position, nil
	}
	max, err := s.vocabularyRepo.MaxSiblingPosition(ctx, vocabularyID, parentID)
	if err != nil {
		return 0, err
	}
	return max + 10, nil
}

func (s *taxonomyService) invalidateTree(ctx context.Context, vocabularyID uuid.UUID) {
	if err := s.cacheSvc.DeleteTermTree(ctx, vocabularyID); err != nil {
		log.Printf("WARN: failed to invalidate term tree cache %s: %v", vocabularyID, err)
	}
}
