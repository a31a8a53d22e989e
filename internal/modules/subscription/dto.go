package subscription

import (
	"foodgram/internal/domain"
	"foodgram/internal/modules/recipe"
)

type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// UserWithRecipesResponse — автор с превью его рецептов. Отдаётся
// в списке подписок и в ответе на subscribe.
type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []recipe.BriefResponse `json:"recipes"`
	RecipesCount int64                  `json:"recipes_count"`
}

func toUserResponse(u *domain.User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
