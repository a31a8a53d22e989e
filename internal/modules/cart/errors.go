package cart

import "errors"

// ErrEmptyCart — пустая корзина это клиентская ошибка,
// а не успешно скачанный пустой файл.
var ErrEmptyCart = errors.New("shopping cart is empty")
