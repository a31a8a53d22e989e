package catalog

// CreateTagRequest — payload для добавления тэга (сидер и админ-сценарии).
// Цвет — hex (#RGB или #RRGGBB), слаг — латиница/цифры/дефис/подчёркивание.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}
