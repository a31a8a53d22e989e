package domain

import "time"

// Follow представляет подписку пользователя на автора.
// Уникальный индекс на паре (user_id, following_id) — гонка двух
// одновременных подписок упирается в constraint, а не в application-check.
type Follow struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_follow_user_following"`
	FollowingID int64     `json:"following_id" gorm:"not null;index;uniqueIndex:idx_follow_user_following"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	User      *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Following *User `json:"following,omitempty" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string { return "follows" }

// Favorite — рецепт в избранном пользователя.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string { return "favorites" }

// Purchase — рецепт в корзине покупок пользователя.
type Purchase struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_purchase_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_purchase_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Purchase) TableName() string { return "purchases" }
