package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument возвращается, когда операция отклонена до любых изменений состояния:
	// пустой ключ, отрицательный порог, некорректный документ восстановления.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound означает отсутствие явной записи для ключа.
	// Get-методы движка сообщают об отсутствии флагом ok, сентинел используют вызывающие слои.
	ErrNotFound = errors.New("not found")

	// ErrHookFailure означает, что хук подсветки завершился ошибкой или паникой.
	// Запись, вызвавшая хук, при этом уже применена.
	ErrHookFailure = errors.New("highlight hook failed")
)

// HookError описывает сбой хука подсветки для конкретной записи.
type HookError struct {
	Key   string
	Value int64
	Level string
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("highlight hook failed for %q (value %d, level %s): %v", e.Key, e.Value, e.Level, e.Err)
}

// Is позволяет сравнивать ошибку с ErrHookFailure через errors.Is.
func (e *HookError) Is(target error) bool {
	return target == ErrHookFailure
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// BatchError сообщает, на каком ключе остановилась пакетная операция
// и какие ключи успели примениться. Применённые записи не откатываются.
type BatchError struct {
	Applied []string
	Key     string
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch stopped at %q after %d applied: %v", e.Key, len(e.Applied), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
