package cart

import (
	"context"

	"gorm.io/gorm"
)

// Item — одна позиция списка покупок: ингредиент с просуммированным
// количеством по всем рецептам корзины.
type Item struct {
	Name   string `json:"name"`
	Unit   string `json:"measurement_unit"`
	Amount int    `json:"amount"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ShoppingList собирает количества ингредиентов по всем рецептам в
// корзине пользователя, группируя по (название, единица измерения).
// Один и тот же ингредиент из разных рецептов суммируется в одну строку.
// Порядок — по названию, затем по единице: отчёт воспроизводим.
func (s *Service) ShoppingList(ctx context.Context, userID int64) ([]Item, error) {
	var items []Item

	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN purchases ON purchases.recipe_id = recipe_ingredients.recipe_id").
		Where("purchases.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return items, nil
}
