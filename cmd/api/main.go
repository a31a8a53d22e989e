package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/cart"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/relation"
	"foodgram/internal/modules/subscription"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	tagRepo := repository.NewTagRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	relationService := relation.NewService(db)
	imageStore := recipe.NewImageStore(cfg.MediaDir)

	authService := auth.NewService(userRepo, userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(tagRepo, ingredientRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	recipeService := recipe.NewService(recipeRepo, ingredientRepo, tagRepo, relationService, imageStore)
	recipeHandler := recipe.NewHandler(recipeService)

	cartService := cart.NewService(db)
	cartHandler := cart.NewHandler(cartService)

	subscriptionService := subscription.NewService(userRepo, recipeRepo, relationService)
	subscriptionHandler := subscription.NewHandler(subscriptionService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())
	r.Static("/media", cfg.MediaDir)

	api := r.Group("/api")
	{
		// public: аноним видит списки, флаги считаются по токену если он есть
		public := api.Group("/")
		public.Use(middleware.OptionalAuth(j))
		{
			authHandler.RegisterPublicRoutes(public)
			catalogHandler.RegisterRoutes(public)
			recipeHandler.RegisterPublicRoutes(public)
			subscriptionHandler.RegisterPublicRoutes(public)
		}

		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			// download_shopping_cart регистрируется до /recipes/:id маршрутов
			cartHandler.RegisterRoutes(protected)
			recipeHandler.RegisterProtectedRoutes(protected)
			subscriptionHandler.RegisterProtectedRoutes(protected)
			authHandler.RegisterProtectedRoutes(protected)
		}
	}

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
