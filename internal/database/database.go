package database

import (
	"log"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	// DriverName "sqlite" подключает pure-Go драйвер modernc, CGO не нужен.
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate приводит схему к актуальному виду. Порядок важен:
// сперва справочники и пользователи, затем рецепты, затем связки.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Ingredient{},
		&domain.Tag{},
		&domain.Recipe{},
		&domain.RecipeIngredient{},
		&domain.RecipeTag{},
		&domain.Follow{},
		&domain.Favorite{},
		&domain.Purchase{},
	)
}
