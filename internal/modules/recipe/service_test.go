package recipe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/modules/relation"
	"foodgram/internal/repository"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	svc       *Service
	relations *relation.Service
	db        *gorm.DB
	author    domain.User
	reader    domain.User
	sugar     domain.Ingredient
	flour     domain.Ingredient
	dinner    domain.Tag
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:recipe_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Ingredient{}, &domain.Tag{},
		&domain.Recipe{}, &domain.RecipeIngredient{}, &domain.RecipeTag{},
		&domain.Follow{}, &domain.Favorite{}, &domain.Purchase{},
	); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	env := &testEnv{
		db:        db,
		relations: relation.NewService(db),
		author:    domain.User{Email: "author@example.com", Username: "author", PasswordHash: "x"},
		reader:    domain.User{Email: "reader@example.com", Username: "reader", PasswordHash: "x"},
		sugar:     domain.Ingredient{Name: "Сахар", MeasurementUnit: "г"},
		flour:     domain.Ingredient{Name: "Мука", MeasurementUnit: "г"},
		dinner:    domain.Tag{Name: "Ужин", Color: "#ff0000", Slug: "dinner"},
	}
	for _, seed := range []any{&env.author, &env.reader, &env.sugar, &env.flour, &env.dinner} {
		if err := db.Create(seed).Error; err != nil {
			t.Fatalf("failed to seed %T: %v", seed, err)
		}
	}

	env.svc = NewService(
		repository.NewRecipeRepository(db),
		repository.NewIngredientRepository(db),
		repository.NewTagRepository(db),
		env.relations,
		NewImageStore(t.TempDir()),
	)
	return env
}

func (e *testEnv) writeRequest() WriteRecipeRequest {
	return WriteRecipeRequest{
		Name:        "Пирог",
		Text:        "Смешать и запечь",
		CookingTime: 45,
		Ingredients: []IngredientAmount{
			{ID: e.sugar.ID, Amount: 100},
			{ID: e.flour.ID, Amount: 300},
		},
		Tags: []int64{e.dinner.ID},
	}
}

func rowCount(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func TestCreateRecipe(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	view, err := env.svc.Create(ctx, env.author.ID, env.writeRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if view.Recipe.AuthorID != env.author.ID {
		t.Fatalf("expected author %d, got %d", env.author.ID, view.Recipe.AuthorID)
	}
	if len(view.Recipe.RecipeIngredients) != 2 {
		t.Fatalf("expected 2 ingredient rows, got %d", len(view.Recipe.RecipeIngredients))
	}
	if len(view.Recipe.RecipeTags) != 1 {
		t.Fatalf("expected 1 tag row, got %d", len(view.Recipe.RecipeTags))
	}
}

func TestCreateRejectsDuplicateIngredientAtomically(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	req := env.writeRequest()
	req.Ingredients = []IngredientAmount{
		{ID: env.sugar.ID, Amount: 100},
		{ID: env.sugar.ID, Amount: 50},
	}

	_, err := env.svc.Create(ctx, env.author.ID, req)
	if !errors.Is(err, ErrDuplicateIngredient) {
		t.Fatalf("expected ErrDuplicateIngredient, got %v", err)
	}

	// ничего не записалось: ни рецепта, ни связок
	if got := rowCount(t, env.db, &domain.Recipe{}); got != 0 {
		t.Fatalf("expected 0 recipes, got %d", got)
	}
	if got := rowCount(t, env.db, &domain.RecipeIngredient{}); got != 0 {
		t.Fatalf("expected 0 recipe_ingredients, got %d", got)
	}
	if got := rowCount(t, env.db, &domain.RecipeTag{}); got != 0 {
		t.Fatalf("expected 0 recipe_tags, got %d", got)
	}
}

func TestCreateRejectsBadAmountAndUnknownIDs(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	req := env.writeRequest()
	req.Ingredients[0].Amount = 0
	if _, err := env.svc.Create(ctx, env.author.ID, req); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	req = env.writeRequest()
	req.Ingredients[0].ID = 9999
	if _, err := env.svc.Create(ctx, env.author.ID, req); !errors.Is(err, ErrIngredientNotFound) {
		t.Fatalf("expected ErrIngredientNotFound, got %v", err)
	}

	req = env.writeRequest()
	req.Tags = []int64{9999}
	if _, err := env.svc.Create(ctx, env.author.ID, req); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected ErrTagNotFound, got %v", err)
	}

	if got := rowCount(t, env.db, &domain.Recipe{}); got != 0 {
		t.Fatalf("expected no recipes persisted, got %d", got)
	}
}

func TestUpdateOnlyByAuthor(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	view, err := env.svc.Create(ctx, env.author.ID, env.writeRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	req := env.writeRequest()
	req.Name = "Чужой пирог"
	if _, err := env.svc.Update(ctx, env.reader.ID, false, view.Recipe.ID, req); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}

	updated, err := env.svc.Update(ctx, env.author.ID, false, view.Recipe.ID, req)
	if err != nil {
		t.Fatalf("Update by author returned error: %v", err)
	}
	if updated.Recipe.Name != "Чужой пирог" {
		t.Fatalf("expected updated name, got %q", updated.Recipe.Name)
	}
}

func TestUpdateReplacesIngredientRows(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	view, err := env.svc.Create(ctx, env.author.ID, env.writeRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	req := env.writeRequest()
	req.Ingredients = []IngredientAmount{{ID: env.flour.ID, Amount: 500}}
	updated, err := env.svc.Update(ctx, env.author.ID, false, view.Recipe.ID, req)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(updated.Recipe.RecipeIngredients) != 1 {
		t.Fatalf("expected 1 ingredient row after update, got %d", len(updated.Recipe.RecipeIngredients))
	}
	if updated.Recipe.RecipeIngredients[0].Amount != 500 {
		t.Fatalf("expected amount 500, got %d", updated.Recipe.RecipeIngredients[0].Amount)
	}
	if got := rowCount(t, env.db, &domain.RecipeIngredient{}); got != 1 {
		t.Fatalf("expected old rows gone, got %d rows", got)
	}
}

func TestDeleteCascadesEdges(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	view, err := env.svc.Create(ctx, env.author.ID, env.writeRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	id := view.Recipe.ID

	if err := env.relations.Add(ctx, relation.KindFavorite, env.reader.ID, id); err != nil {
		t.Fatalf("Add favorite returned error: %v", err)
	}
	if err := env.relations.Add(ctx, relation.KindCart, env.reader.ID, id); err != nil {
		t.Fatalf("Add cart returned error: %v", err)
	}

	if err := env.svc.Delete(ctx, env.author.ID, false, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	for _, m := range []any{
		&domain.Recipe{}, &domain.RecipeIngredient{}, &domain.RecipeTag{},
		&domain.Favorite{}, &domain.Purchase{},
	} {
		if got := rowCount(t, env.db, m); got != 0 {
			t.Fatalf("expected 0 rows of %T after delete, got %d", m, got)
		}
	}
}

func TestDerivedFlagsAnonymousAlwaysFalse(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	view, err := env.svc.Create(ctx, env.author.ID, env.writeRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := env.relations.Add(ctx, relation.KindFavorite, env.reader.ID, view.Recipe.ID); err != nil {
		t.Fatalf("Add favorite returned error: %v", err)
	}

	// viewerID = 0 — аноним; флаги false несмотря на существующие рёбра
	views, _, err := env.svc.List(ctx, 0, ListFilters{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	for _, v := range views {
		if v.Favorited || v.InCart || v.AuthorFollowed {
			t.Fatalf("expected all flags false for anonymous viewer, got %+v", v)
		}
	}
}

func TestDerivedFlagsScopedToViewer(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, env.author.ID, env.writeRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second := env.writeRequest()
	second.Name = "Блины"
	other, err := env.svc.Create(ctx, env.author.ID, second)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := env.relations.Add(ctx, relation.KindFavorite, env.reader.ID, first.Recipe.ID); err != nil {
		t.Fatalf("Add favorite returned error: %v", err)
	}
	if err := env.relations.Add(ctx, relation.KindCart, env.reader.ID, other.Recipe.ID); err != nil {
		t.Fatalf("Add cart returned error: %v", err)
	}

	views, _, err := env.svc.List(ctx, env.reader.ID, ListFilters{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(views))
	}

	byID := map[int64]View{}
	for _, v := range views {
		byID[v.Recipe.ID] = v
	}
	if v := byID[first.Recipe.ID]; !v.Favorited || v.InCart {
		t.Fatalf("recipe %d: expected favorited-only, got %+v", first.Recipe.ID, v)
	}
	if v := byID[other.Recipe.ID]; v.Favorited || !v.InCart {
		t.Fatalf("recipe %d: expected in-cart-only, got %+v", other.Recipe.ID, v)
	}
}

func TestListFilters(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	breakfast := domain.Tag{Name: "Завтрак", Color: "#00ff00", Slug: "breakfast"}
	if err := env.db.Create(&breakfast).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}

	tagged := env.writeRequest()
	tagged.Name = "Каша"
	tagged.Tags = []int64{breakfast.ID}
	kasha, err := env.svc.Create(ctx, env.author.ID, tagged)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := env.svc.Create(ctx, env.reader.ID, env.writeRequest()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	views, total, err := env.svc.List(ctx, 0, ListFilters{TagSlugs: []string{"breakfast"}})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || len(views) != 1 || views[0].Recipe.ID != kasha.Recipe.ID {
		t.Fatalf("expected only tagged recipe, got total=%d len=%d", total, len(views))
	}

	views, total, err = env.svc.List(ctx, 0, ListFilters{AuthorID: env.reader.ID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || views[0].Recipe.AuthorID != env.reader.ID {
		t.Fatalf("expected reader's recipe only, got total=%d", total)
	}

	// фильтр "в избранном" учитывается только для аутентифицированного
	if err := env.relations.Add(ctx, relation.KindFavorite, env.reader.ID, kasha.Recipe.ID); err != nil {
		t.Fatalf("Add favorite returned error: %v", err)
	}
	_, total, err = env.svc.List(ctx, env.reader.ID, ListFilters{IsFavorited: true})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 favorited recipe, got %d", total)
	}
	_, total, err = env.svc.List(ctx, 0, ListFilters{IsFavorited: true})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected filter ignored for anonymous, got total=%d", total)
	}
}

func TestToggleUnknownRecipe(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.Toggle(context.Background(), relation.KindFavorite, env.reader.ID, 9999, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := rowCount(t, env.db, &domain.Favorite{}); got != 0 {
		t.Fatalf("expected no favorite rows, got %d", got)
	}
}
