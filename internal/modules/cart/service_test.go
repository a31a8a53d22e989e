package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"foodgram/internal/domain"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Ingredient{},
		&domain.Recipe{}, &domain.RecipeIngredient{}, &domain.Purchase{},
	); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(db), db
}

func seedRecipeWithIngredient(t *testing.T, db *gorm.DB, authorID, ingredientID int64, amount int) int64 {
	t.Helper()
	recipe := domain.Recipe{AuthorID: authorID, Name: fmt.Sprintf("recipe-%d-%d", ingredientID, amount), CookingTime: 10}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	ri := domain.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredientID, Amount: amount}
	if err := db.Create(&ri).Error; err != nil {
		t.Fatalf("failed to seed recipe ingredient: %v", err)
	}
	return recipe.ID
}

func TestShoppingListSumsSameIngredientAcrossRecipes(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := domain.User{Email: "u@example.com", Username: "u", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	sugar := domain.Ingredient{Name: "Сахар", MeasurementUnit: "г"}
	if err := db.Create(&sugar).Error; err != nil {
		t.Fatalf("failed to seed ingredient: %v", err)
	}

	r1 := seedRecipeWithIngredient(t, db, user.ID, sugar.ID, 100)
	r2 := seedRecipeWithIngredient(t, db, user.ID, sugar.ID, 50)
	for _, rid := range []int64{r1, r2} {
		if err := db.Create(&domain.Purchase{UserID: user.ID, RecipeID: rid}).Error; err != nil {
			t.Fatalf("failed to seed purchase: %v", err)
		}
	}

	items, err := svc.ShoppingList(ctx, user.ID)
	if err != nil {
		t.Fatalf("ShoppingList returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected single aggregated line, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Сахар" || items[0].Unit != "г" || items[0].Amount != 150 {
		t.Fatalf("expected Сахар (г) 150, got %+v", items[0])
	}
}

func TestShoppingListKeepsDifferentUnitsApart(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	user := domain.User{Email: "u@example.com", Username: "u", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	grams := domain.Ingredient{Name: "Мука", MeasurementUnit: "г"}
	spoons := domain.Ingredient{Name: "Мука", MeasurementUnit: "ст. л."}
	if err := db.Create(&grams).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&spoons).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	r1 := seedRecipeWithIngredient(t, db, user.ID, grams.ID, 200)
	r2 := seedRecipeWithIngredient(t, db, user.ID, spoons.ID, 3)
	for _, rid := range []int64{r1, r2} {
		if err := db.Create(&domain.Purchase{UserID: user.ID, RecipeID: rid}).Error; err != nil {
			t.Fatalf("failed to seed purchase: %v", err)
		}
	}

	items, err := svc.ShoppingList(ctx, user.ID)
	if err != nil {
		t.Fatalf("ShoppingList returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lines for different units, got %d", len(items))
	}
}

func TestShoppingListEmptyCartIsError(t *testing.T) {
	svc, db := setupTestService(t)

	user := domain.User{Email: "empty@example.com", Username: "empty", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	_, err := svc.ShoppingList(context.Background(), user.ID)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestShoppingListScopedToUser(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	users := []domain.User{
		{Email: "a@example.com", Username: "a", PasswordHash: "x"},
		{Email: "b@example.com", Username: "b", PasswordHash: "x"},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}
	salt := domain.Ingredient{Name: "Соль", MeasurementUnit: "г"}
	if err := db.Create(&salt).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	rid := seedRecipeWithIngredient(t, db, users[0].ID, salt.ID, 5)
	if err := db.Create(&domain.Purchase{UserID: users[0].ID, RecipeID: rid}).Error; err != nil {
		t.Fatalf("failed to seed purchase: %v", err)
	}

	if _, err := svc.ShoppingList(ctx, users[1].ID); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart for other user, got %v", err)
	}
}

func TestRenderTextFormat(t *testing.T) {
	out := string(RenderText([]Item{
		{Name: "Сахар", Unit: "г", Amount: 150},
		{Name: "Яйцо", Unit: "шт", Amount: 3},
	}))

	if !strings.HasPrefix(out, "Список покупок\n") {
		t.Fatalf("expected header line, got %q", out)
	}
	if !strings.Contains(out, "Сахар (г) - 150\n") {
		t.Fatalf("expected aggregated sugar line, got %q", out)
	}
	if !strings.Contains(out, "Яйцо (шт) - 3\n") {
		t.Fatalf("expected egg line, got %q", out)
	}
}

func TestRenderPDFProducesDocument(t *testing.T) {
	data, err := RenderPDF([]Item{{Name: "Сахар", Unit: "г", Amount: 150}})
	if err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Fatalf("expected PDF header, got %d bytes", len(data))
	}
}
