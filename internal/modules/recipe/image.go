package recipe

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore раскладывает загруженные картинки рецептов по media-каталогу.
// Клиент шлёт data:image/...;base64 строку, наружу уходит относительный путь.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

// SaveBase64 декодирует data-URI и пишет файл с uuid-именем.
// Пустая строка — рецепт без картинки, это не ошибка.
func (s *ImageStore) SaveBase64(data string) (string, error) {
	if data == "" {
		return "", nil
	}
	if !strings.HasPrefix(data, "data:image/") {
		return "", ErrInvalidImage
	}

	meta, payload, ok := strings.Cut(data, ";base64,")
	if !ok {
		return "", ErrInvalidImage
	}
	ext := strings.TrimPrefix(meta, "data:image/")
	if ext == "" || strings.ContainsAny(ext, "/\\.") {
		return "", ErrInvalidImage
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}

	rel := filepath.Join("recipes", uuid.NewString()+"."+ext)
	full := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, raw, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}
