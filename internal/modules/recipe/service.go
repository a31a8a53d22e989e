package recipe

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/modules/relation"
	"foodgram/internal/repository"

	"gorm.io/gorm"
)

// View — рецепт вместе с производными флагами относительно вызывающего.
// Для анонимного запроса все флаги false и ни одного обращения к базе
// ради них не делается.
type View struct {
	Recipe         *domain.Recipe
	Favorited      bool
	InCart         bool
	AuthorFollowed bool
}

type ListFilters struct {
	TagSlugs         []string
	AuthorID         int64
	IsFavorited      bool
	IsInShoppingCart bool
	Page             int
	Limit            int
}

type Service struct {
	recipes     *repository.RecipeRepository
	ingredients *repository.IngredientRepository
	tags        *repository.TagRepository
	relations   *relation.Service
	images      *ImageStore
}

func NewService(
	recipes *repository.RecipeRepository,
	ingredients *repository.IngredientRepository,
	tags *repository.TagRepository,
	relations *relation.Service,
	images *ImageStore,
) *Service {
	return &Service{
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		relations:   relations,
		images:      images,
	}
}

// viewerSets — id-множества вызывающего, выбираются один раз на запрос
// и дальше используются как in-memory lookup при сериализации страницы.
type viewerSets struct {
	favorites map[int64]struct{}
	cart      map[int64]struct{}
	following map[int64]struct{}
}

func (s *Service) loadViewerSets(ctx context.Context, viewerID int64) (*viewerSets, error) {
	if viewerID <= 0 {
		return &viewerSets{}, nil
	}

	fav, err := s.relations.TargetIDs(ctx, relation.KindFavorite, viewerID)
	if err != nil {
		return nil, err
	}
	cart, err := s.relations.TargetIDs(ctx, relation.KindCart, viewerID)
	if err != nil {
		return nil, err
	}
	following, err := s.relations.TargetIDs(ctx, relation.KindFollow, viewerID)
	if err != nil {
		return nil, err
	}
	return &viewerSets{favorites: fav, cart: cart, following: following}, nil
}

func (vs *viewerSets) view(r *domain.Recipe) View {
	v := View{Recipe: r}
	if vs.favorites != nil {
		_, v.Favorited = vs.favorites[r.ID]
	}
	if vs.cart != nil {
		_, v.InCart = vs.cart[r.ID]
	}
	if vs.following != nil {
		_, v.AuthorFollowed = vs.following[r.AuthorID]
	}
	return v
}

// List отдаёт страницу рецептов. Фильтры "в избранном"/"в корзине"
// включаются только для аутентифицированного вызывающего; хендлер
// молча игнорирует их для анонимов.
func (s *Service) List(ctx context.Context, viewerID int64, f ListFilters) ([]View, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}

	rf := repository.RecipeFilters{
		TagSlugs: f.TagSlugs,
		AuthorID: f.AuthorID,
		Limit:    f.Limit,
		Offset:   (f.Page - 1) * f.Limit,
	}
	if viewerID > 0 {
		if f.IsFavorited {
			rf.FavoritedBy = viewerID
		}
		if f.IsInShoppingCart {
			rf.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipes.List(ctx, rf)
	if err != nil {
		return nil, 0, err
	}

	sets, err := s.loadViewerSets(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}

	views := make([]View, len(recipes))
	for i := range recipes {
		views[i] = sets.view(&recipes[i])
	}
	return views, total, nil
}

func (s *Service) Get(ctx context.Context, viewerID, id int64) (*View, error) {
	r, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sets, err := s.loadViewerSets(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	v := sets.view(r)
	return &v, nil
}

// validateWrite проверяет список ингредиентов и тэгов до каких-либо
// записей: количества в диапазоне, id не дублируются и существуют.
func (s *Service) validateWrite(ctx context.Context, req WriteRecipeRequest) ([]domain.RecipeIngredient, []domain.RecipeTag, error) {
	if req.CookingTime < 1 {
		return nil, nil, ErrInvalidCookingTime
	}
	if len(req.Ingredients) == 0 {
		return nil, nil, ErrNoIngredients
	}
	if len(req.Tags) == 0 {
		return nil, nil, ErrNoTags
	}

	seen := make(map[int64]struct{}, len(req.Ingredients))
	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if item.Amount < 1 || item.Amount > 1000 {
			return nil, nil, ErrInvalidAmount
		}
		if _, dup := seen[item.ID]; dup {
			return nil, nil, ErrDuplicateIngredient
		}
		seen[item.ID] = struct{}{}
		ingredientIDs = append(ingredientIDs, item.ID)
	}

	found, err := s.ingredients.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(found) != len(ingredientIDs) {
		return nil, nil, ErrIngredientNotFound
	}

	tagSeen := make(map[int64]struct{}, len(req.Tags))
	tagIDs := make([]int64, 0, len(req.Tags))
	for _, id := range req.Tags {
		if _, dup := tagSeen[id]; dup {
			continue
		}
		tagSeen[id] = struct{}{}
		tagIDs = append(tagIDs, id)
	}
	foundTags, err := s.tags.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(foundTags) != len(tagIDs) {
		return nil, nil, ErrTagNotFound
	}

	rows := make([]domain.RecipeIngredient, len(req.Ingredients))
	for i, item := range req.Ingredients {
		rows[i] = domain.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount}
	}
	tagRows := make([]domain.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		tagRows[i] = domain.RecipeTag{TagID: id}
	}
	return rows, tagRows, nil
}

// Create валидирует payload и пишет рецепт со связками одной
// транзакцией: либо рецепт появляется целиком, либо не появляется вовсе.
func (s *Service) Create(ctx context.Context, authorID int64, req WriteRecipeRequest) (*View, error) {
	rows, tagRows, err := s.validateWrite(ctx, req)
	if err != nil {
		return nil, err
	}

	imagePath, err := s.images.SaveBase64(req.Image)
	if err != nil {
		return nil, err
	}

	r := &domain.Recipe{
		AuthorID:          authorID,
		Name:              req.Name,
		Image:             imagePath,
		Text:              req.Text,
		CookingTime:       req.CookingTime,
		RecipeIngredients: rows,
		RecipeTags:        tagRows,
	}
	if err := s.recipes.Create(ctx, r); err != nil {
		return nil, err
	}

	return s.Get(ctx, authorID, r.ID)
}

// Update доступен автору (и админу); payload полный, связки
// пересобираются атомарно.
func (s *Service) Update(ctx context.Context, actorID int64, isAdmin bool, id int64, req WriteRecipeRequest) (*View, error) {
	existing, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if existing.AuthorID != actorID && !isAdmin {
		return nil, ErrForbidden
	}

	rows, tagRows, err := s.validateWrite(ctx, req)
	if err != nil {
		return nil, err
	}

	imagePath := existing.Image
	if req.Image != "" {
		imagePath, err = s.images.SaveBase64(req.Image)
		if err != nil {
			return nil, err
		}
	}

	existing.Name = req.Name
	existing.Image = imagePath
	existing.Text = req.Text
	existing.CookingTime = req.CookingTime
	existing.RecipeIngredients = rows
	existing.RecipeTags = tagRows

	if err := s.recipes.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.Get(ctx, actorID, id)
}

func (s *Service) Delete(ctx context.Context, actorID int64, isAdmin bool, id int64) error {
	existing, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if existing.AuthorID != actorID && !isAdmin {
		return ErrForbidden
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Toggle включает/выключает избранное или корзину для рецепта.
// Неизвестный рецепт — not found до любых мутаций; конфликтные
// состояния пробрасываются из relation-сервиса как есть.
func (s *Service) Toggle(ctx context.Context, kind relation.Kind, userID, recipeID int64, add bool) (*domain.Recipe, error) {
	r, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if add {
		err = s.relations.Add(ctx, kind, userID, recipeID)
	} else {
		err = s.relations.Remove(ctx, kind, userID, recipeID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}
