package domain

import "time"

// Ingredient — справочник ингредиентов. Пара (название, единица измерения)
// уникальна: "сахар, г" и "сахар, кг" — разные позиции каталога.
type Ingredient struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:200;not null;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string    `json:"measurement_unit" gorm:"size:200;uniqueIndex:idx_ingredient_name_unit"`
	CreatedAt       time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"-" gorm:"autoUpdateTime"`
}

func (Ingredient) TableName() string { return "ingredients" }

// Tag — справочник тэгов. Цвет хранится как hex-код (#RGB или #RRGGBB).
type Tag struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Color     string    `json:"color" gorm:"size:7"`
	Slug      string    `json:"slug" gorm:"size:200;not null;uniqueIndex"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`
}

func (Tag) TableName() string { return "tags" }
