package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound — промах поиска записи (объявление, запуск краулера).
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists — проигранная гонка вставки: другой процесс успел
// создать запись с тем же ключом. Слияние обязано повторить попытку
// как обновление, а не отдавать ошибку наружу.
var ErrAlreadyExists = errors.New("record already exists")

// NavigationError — источник недоступен или первая страница не загрузилась.
// Фатально для запуска этого источника, но не для соседних.
type NavigationError struct {
	Source string
	URL    string
	Err    error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed for %s (%s): %v", e.Source, e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ExtractionError — страницу не удалось разобрать в записи.
// Не фатально для запуска, если это не первая страница.
type ExtractionError struct {
	Source string
	Page   int
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s page %d: %v", e.Source, e.Page, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TranslationError — ответ языковой модели не удалось привести к критериям.
// Пробрасывается вызывающему, без отката к пустому фильтру.
type TranslationError struct {
	Reason string
	Err    error
}

func (e *TranslationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query translation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("query translation failed: %s", e.Reason)
}

func (e *TranslationError) Unwrap() error { return e.Err }
