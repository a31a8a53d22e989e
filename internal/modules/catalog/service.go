package catalog

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"

	"gorm.io/gorm"
)

const maxIngredientResults = 100

type Service struct {
	tags        *repository.TagRepository
	ingredients *repository.IngredientRepository
}

func NewService(tags *repository.TagRepository, ingredients *repository.IngredientRepository) *Service {
	return &Service{tags: tags, ingredients: ingredients}
}

func (s *Service) Tags(ctx context.Context) ([]domain.Tag, error) {
	return s.tags.List(ctx)
}

func (s *Service) TagByID(ctx context.Context, id int64) (*domain.Tag, error) {
	t, err := s.tags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return t, nil
}

// CreateTag валидирует цвет и слаг до записи. Снаружи ручки нет,
// тэги заводит сидер.
func (s *Service) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, ErrInvalidTag
	}

	t := &domain.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Ingredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	return s.ingredients.List(ctx, name, maxIngredientResults)
}

func (s *Service) IngredientByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ing, nil
}
