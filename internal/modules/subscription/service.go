package subscription

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/relation"
	"foodgram/internal/repository"

	"gorm.io/gorm"
)

const maxRecipesPreview = 100

type Service struct {
	users     *repository.UserRepository
	recipes   *repository.RecipeRepository
	relations *relation.Service
}

func NewService(users *repository.UserRepository, recipes *repository.RecipeRepository, relations *relation.Service) *Service {
	return &Service{users: users, recipes: recipes, relations: relations}
}

// Users — список пользователей с флагом is_subscribed для зрителя.
// Аноним (viewerID == 0) видит все флаги false.
func (s *Service) Users(ctx context.Context, viewerID int64, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	followed, err := s.followedSet(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		_, sub := followed[users[i].ID]
		out = append(out, toUserResponse(&users[i], sub))
	}
	return out, total, nil
}

func (s *Service) UserByID(ctx context.Context, viewerID, id int64) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscribed := false
	if viewerID > 0 {
		subscribed, err = s.relations.Exists(ctx, relation.KindFollow, viewerID, id)
		if err != nil {
			return nil, err
		}
	}

	resp := toUserResponse(user, subscribed)
	return &resp, nil
}

// Subscriptions — авторы, на которых подписан пользователь, с превью
// рецептов. recipesLimit ограничивает превью; отсутствующее или
// некорректное значение схлопывается в потолок maxRecipesPreview.
func (s *Service) Subscriptions(ctx context.Context, userID int64, page, limit, recipesLimit int) ([]UserWithRecipesResponse, int64, error) {
	if recipesLimit <= 0 || recipesLimit > maxRecipesPreview {
		recipesLimit = maxRecipesPreview
	}

	authors, total, err := s.users.ListFollowedBy(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]UserWithRecipesResponse, 0, len(authors))
	for i := range authors {
		entry, err := s.withRecipes(ctx, &authors[i], true, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *entry)
	}
	return out, total, nil
}

// Subscribe подписывает пользователя на автора и возвращает автора
// с превью рецептов — то, что фронт показывает сразу после клика.
func (s *Service) Subscribe(ctx context.Context, userID, targetID int64) (*UserWithRecipesResponse, error) {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.relations.Add(ctx, relation.KindFollow, userID, targetID); err != nil {
		switch {
		case errors.Is(err, relation.ErrSelfFollow):
			return nil, ErrSelfSubscribe
		case errors.Is(err, relation.ErrAlreadyExists):
			return nil, ErrAlreadySubscribed
		default:
			return nil, err
		}
	}

	return s.withRecipes(ctx, target, true, maxRecipesPreview)
}

func (s *Service) Unsubscribe(ctx context.Context, userID, targetID int64) error {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.relations.Remove(ctx, relation.KindFollow, userID, targetID); err != nil {
		if errors.Is(err, relation.ErrNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	return nil
}

func (s *Service) withRecipes(ctx context.Context, author *domain.User, subscribed bool, recipesLimit int) (*UserWithRecipesResponse, error) {
	items, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	brief := make([]recipe.BriefResponse, 0, len(items))
	for i := range items {
		brief = append(brief, recipe.ToBriefResponse(&items[i]))
	}

	return &UserWithRecipesResponse{
		UserResponse: toUserResponse(author, subscribed),
		Recipes:      brief,
		RecipesCount: count,
	}, nil
}

func (s *Service) followedSet(ctx context.Context, viewerID int64) (map[int64]struct{}, error) {
	if viewerID <= 0 {
		return map[int64]struct{}{}, nil
	}
	return s.relations.TargetIDs(ctx, relation.KindFollow, viewerID)
}
