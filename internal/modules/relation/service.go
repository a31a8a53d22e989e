package relation

import (
	"context"
	"errors"
	"strings"

	"foodgram/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind — вид toggle-связи. Все три вида живут по одним правилам:
// одна строка на пару (актор, цель), повторное создание — конфликт.
type Kind string

const (
	KindFollow   Kind = "follow"   // user -> user
	KindFavorite Kind = "favorite" // user -> recipe
	KindCart     Kind = "cart"     // user -> recipe
)

// descriptor описывает, как вид связи хранится и валидируется.
// preValidate — точка для kind-специфичных проверок (self-follow).
type descriptor struct {
	model       func() any
	newEdge     func(actorID, targetID int64) any
	actorCol    string
	targetCol   string
	preValidate func(actorID, targetID int64) error
}

var descriptors = map[Kind]descriptor{
	KindFollow: {
		model: func() any { return &domain.Follow{} },
		newEdge: func(a, t int64) any {
			return &domain.Follow{UserID: a, FollowingID: t}
		},
		actorCol:  "user_id",
		targetCol: "following_id",
		preValidate: func(a, t int64) error {
			if a == t {
				return ErrSelfFollow
			}
			return nil
		},
	},
	KindFavorite: {
		model: func() any { return &domain.Favorite{} },
		newEdge: func(a, t int64) any {
			return &domain.Favorite{UserID: a, RecipeID: t}
		},
		actorCol:  "user_id",
		targetCol: "recipe_id",
	},
	KindCart: {
		model: func() any { return &domain.Purchase{} },
		newEdge: func(a, t int64) any {
			return &domain.Purchase{UserID: a, RecipeID: t}
		},
		actorCol:  "user_id",
		targetCol: "recipe_id",
	},
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add создаёт связь (актор, цель). Повторное создание — ErrAlreadyExists.
// Предварительная проверка существования даёт понятную ошибку в обычном
// случае; гонку двух одновременных Add ловит уникальный индекс, и его
// нарушение схлопывается в тот же ErrAlreadyExists.
func (s *Service) Add(ctx context.Context, kind Kind, actorID, targetID int64) error {
	d, ok := descriptors[kind]
	if !ok {
		return ErrUnknownKind
	}
	if d.preValidate != nil {
		if err := d.preValidate(actorID, targetID); err != nil {
			return err
		}
	}

	exists, err := s.Exists(ctx, kind, actorID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}

	if err := s.db.WithContext(ctx).Create(d.newEdge(actorID, targetID)).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Remove удаляет связь. Отсутствующая связь — ErrNotFound, строки не трогаются.
func (s *Service) Remove(ctx context.Context, kind Kind, actorID, targetID int64) error {
	d, ok := descriptors[kind]
	if !ok {
		return ErrUnknownKind
	}

	res := s.db.WithContext(ctx).
		Where(d.actorCol+" = ? AND "+d.targetCol+" = ?", actorID, targetID).
		Delete(d.model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Exists(ctx context.Context, kind Kind, actorID, targetID int64) (bool, error) {
	d, ok := descriptors[kind]
	if !ok {
		return false, ErrUnknownKind
	}

	var count int64
	err := s.db.WithContext(ctx).Model(d.model()).
		Where(d.actorCol+" = ? AND "+d.targetCol+" = ?", actorID, targetID).
		Count(&count).Error
	return count > 0, err
}

// TargetIDs отдаёт все цели актора одним запросом. Списки рецептов
// используют это для флагов is_favorited/is_in_shopping_cart: два
// запроса на страницу вместо пары запросов на каждый рецепт.
func (s *Service) TargetIDs(ctx context.Context, kind Kind, actorID int64) (map[int64]struct{}, error) {
	d, ok := descriptors[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	var ids []int64
	err := s.db.WithContext(ctx).Model(d.model()).
		Where(d.actorCol+" = ?", actorID).
		Pluck(d.targetCol, &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Count — количество связей актора данного вида.
func (s *Service) Count(ctx context.Context, kind Kind, actorID int64) (int64, error) {
	d, ok := descriptors[kind]
	if !ok {
		return 0, ErrUnknownKind
	}

	var count int64
	err := s.db.WithContext(ctx).Model(d.model()).
		Where(d.actorCol+" = ?", actorID).
		Count(&count).Error
	return count, err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key value violates unique constraint") ||
		strings.Contains(s, "SQLSTATE 23505") ||
		strings.Contains(s, "UNIQUE constraint failed")
}
