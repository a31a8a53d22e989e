package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// RecipeFilters — параметры выборки списка рецептов.
// FavoritedBy / InCartOf равные нулю означают "фильтр выключен";
// хендлер не включает их для анонимных запросов.
type RecipeFilters struct {
	TagSlugs    []string
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
	Limit       int
	Offset      int
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) DB() *gorm.DB { return r.db }

// Create пишет рецепт вместе со строками-связками. gorm создаёт
// вложенные ассоциации в одной транзакции — частичная запись
// (рецепт без ингредиентов) наружу не видна.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// Update заменяет поля рецепта и полностью пересобирает его
// ингредиенты и тэги одной транзакцией.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&domain.RecipeTag{}).Error; err != nil {
			return err
		}

		for i := range recipe.RecipeIngredients {
			recipe.RecipeIngredients[i].ID = 0
			recipe.RecipeIngredients[i].RecipeID = recipe.ID
		}
		for i := range recipe.RecipeTags {
			recipe.RecipeTags[i].ID = 0
			recipe.RecipeTags[i].RecipeID = recipe.ID
		}

		if len(recipe.RecipeIngredients) > 0 {
			if err := tx.Create(&recipe.RecipeIngredients).Error; err != nil {
				return err
			}
		}
		if len(recipe.RecipeTags) > 0 {
			if err := tx.Create(&recipe.RecipeTags).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete удаляет рецепт и все зависящие от него строки. Связки чистятся
// явно: на sqlite каскадные constraints не всегда включены.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&domain.RecipeIngredient{},
			&domain.RecipeTag{},
			&domain.Favorite{},
			&domain.Purchase{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&domain.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("RecipeIngredients.Ingredient").
		Preload("RecipeTags.Tag").
		First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepository) List(ctx context.Context, f RecipeFilters) ([]domain.Recipe, int64, error) {
	var recipes []domain.Recipe
	var total int64

	// запрос собирается дважды: gorm-билдер нельзя делить между
	// Count и Find, условия накапливаются в одном statement
	build := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Recipe{})
		if len(f.TagSlugs) > 0 {
			q = q.
				Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs)
		}
		if f.AuthorID > 0 {
			q = q.Where("recipes.author_id = ?", f.AuthorID)
		}
		if f.FavoritedBy > 0 {
			q = q.Joins(
				"JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?",
				f.FavoritedBy,
			)
		}
		if f.InCartOf > 0 {
			q = q.Joins(
				"JOIN purchases ON purchases.recipe_id = recipes.id AND purchases.user_id = ?",
				f.InCartOf,
			)
		}
		return q
	}

	if err := build().Distinct("recipes.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := build().Distinct().
		Preload("Author").
		Preload("RecipeIngredients.Ingredient").
		Preload("RecipeTags.Tag").
		Order("recipes.created_at DESC, recipes.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor — рецепты автора для страницы подписок; limit >= 0,
// ноль отдаёт все (recipes_limit не задан).
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&recipes).Error
	return recipes, err
}

func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
