package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// List ищет ингредиенты по названию: сперва совпадения по префиксу,
// затем по подстроке. Без параметра поиска отдаёт весь справочник.
func (r *IngredientRepository) List(ctx context.Context, name string, limit int) ([]domain.Ingredient, error) {
	var items []domain.Ingredient

	q := r.db.WithContext(ctx).Model(&domain.Ingredient{})
	if name != "" {
		q = q.Where("name LIKE ? OR name LIKE ?", name+"%", "%"+name+"%").
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:                "CASE WHEN name LIKE ? THEN 0 ELSE 1 END, name",
				Vars:               []interface{}{name + "%"},
				WithoutParentheses: true,
			}})
	} else {
		q = q.Order("name")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *IngredientRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	var items []domain.Ingredient
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}
