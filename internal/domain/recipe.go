package domain

import "time"

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null;index"`
	Image       string    `json:"image" gorm:"size:500"`
	Text        string    `json:"text" gorm:"size:1000"`
	CookingTime int       `json:"cooking_time" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	// Строки-связки; рецепт владеет ими, удаление рецепта каскадно
	// удаляет количества ингредиентов и привязки тэгов.
	RecipeIngredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	RecipeTags        []RecipeTag        `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string { return "recipes" }

// RecipeIngredient — связка рецепт/ингредиент с количеством.
// Один ингредиент встречается в рецепте не больше одного раза.
type RecipeIngredient struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	RecipeID     int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64     `json:"ingredient_id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	Amount       int       `json:"amount" gorm:"not null"`
	CreatedAt    time.Time `json:"-" gorm:"autoCreateTime"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

type RecipeTag struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_recipe_tag"`
	TagID     int64     `json:"tag_id" gorm:"not null;index;uniqueIndex:idx_recipe_tag"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`

	Tag *Tag `json:"tag,omitempty" gorm:"foreignKey:TagID"`
}

func (RecipeTag) TableName() string { return "recipe_tags" }
