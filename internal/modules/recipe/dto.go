package recipe

import "foodgram/internal/domain"

// IngredientAmount — позиция ингредиента в запросе на создание рецепта.
type IngredientAmount struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount" binding:"required,min=1,max=1000"`
}

// WriteRecipeRequest используется и для POST, и для PATCH:
// оригинальный API требует полный payload в обоих случаях.
type WriteRecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"max=1000"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time" binding:"required,min=1"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []int64            `json:"tags" binding:"required,min=1"`
}

type AuthorResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// IngredientInRecipe — ингредиент в ответе рецепта; id здесь —
// id ингредиента из каталога, не id строки-связки.
type IngredientInRecipe struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                `json:"id"`
	Author           AuthorResponse       `json:"author"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	Ingredients      []IngredientInRecipe `json:"ingredients"`
	Tags             []TagResponse        `json:"tags"`
	CookingTime      int                  `json:"cooking_time"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
}

// BriefResponse — укороченное представление рецепта для ответов
// избранного/корзины и списков на странице подписок.
type BriefResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func ToBriefResponse(r *domain.Recipe) BriefResponse {
	return BriefResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func toRecipeResponse(v View) RecipeResponse {
	r := v.Recipe

	resp := RecipeResponse{
		ID:               r.ID,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		IsFavorited:      v.Favorited,
		IsInShoppingCart: v.InCart,
		Ingredients:      make([]IngredientInRecipe, 0, len(r.RecipeIngredients)),
		Tags:             make([]TagResponse, 0, len(r.RecipeTags)),
	}

	if r.Author != nil {
		resp.Author = AuthorResponse{
			ID:           r.Author.ID,
			Email:        r.Author.Email,
			Username:     r.Author.Username,
			FirstName:    r.Author.FirstName,
			LastName:     r.Author.LastName,
			IsSubscribed: v.AuthorFollowed,
		}
	}

	for _, ri := range r.RecipeIngredients {
		item := IngredientInRecipe{
			ID:     ri.IngredientID,
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		resp.Ingredients = append(resp.Ingredients, item)
	}
	for _, rt := range r.RecipeTags {
		if rt.Tag == nil {
			continue
		}
		resp.Tags = append(resp.Tags, TagResponse{
			ID:    rt.Tag.ID,
			Name:  rt.Tag.Name,
			Color: rt.Tag.Color,
			Slug:  rt.Tag.Slug,
		})
	}

	return resp
}

func toRecipeListResponse(views []View) []RecipeResponse {
	items := make([]RecipeResponse, len(views))
	for i, v := range views {
		items[i] = toRecipeResponse(v)
	}
	return items
}
