// Package pool предоставляет обобщённый пул объектов T, ограниченных Reset().
// Используется для буферов, через которые сервер и клиент кодируют и сжимают тела запросов.
// Пример использования:
//
//	bufs := pool.New(func() *bytes.Buffer { return new(bytes.Buffer) })
//	buf := bufs.Get()
//	// использовать buf
//	bufs.Put(buf)
package pool

import (
	"sync"
)

// DefaultLimit ограничивает число объектов, которые пул держит между вызовами.
const DefaultLimit = 64

// Resettable ограничивает тип тем, у кого есть метод Reset()
type Resettable interface {
	Reset()
}

// Pool хранит объекты типа T, ограниченных Resettable.
// T обычно является указателем, например *bytes.Buffer.
type Pool[T Resettable] struct {
	mu      sync.Mutex
	items   []T
	Factory func() T
	// Limit задаёт максимальный размер пула. Лишние объекты при Put отбрасываются.
	Limit int
}

// New создаёт новый Pool[T] с лимитом DefaultLimit. Фабрика должна возвращать новый экземпляр T.
func New[T Resettable](factory func() T) *Pool[T] {
	return &Pool[T]{Factory: factory, Limit: DefaultLimit}
}

// Get возвращает объект из пула. Если пул пуст, создаёт новый через фабрику.
func (p *Pool[T]) Get() T {
	p.mu.Lock()
	n := len(p.items)
	if n > 0 {
		v := p.items[n-1]
		p.items = p.items[:n-1]
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()

	if p.Factory != nil {
		return p.Factory()
	}
	var zero T
	return zero
}

// Put возвращает объект обратно в пул после вызова Reset().
func (p *Pool[T]) Put(v T) {
	v.Reset()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Limit > 0 && len(p.items) >= p.Limit {
		return
	}
	p.items = append(p.items, v)
}

// Len возвращает число объектов, ожидающих повторного использования.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
