package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedMap хранит пары ключ-значение в порядке первой вставки.
// Повторная запись существующего ключа обновляет значение, но не меняет его позицию.
//
// Нулевое значение готово к использованию. Сериализуется в JSON-объект
// с сохранением порядка ключей, что нужно для воспроизводимого вывода get_all_*.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap создаёт пустую упорядоченную карту.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Set записывает значение по ключу. Новый ключ добавляется в конец.
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get возвращает значение и признак его наличия.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if m == nil || m.values == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has сообщает, есть ли ключ в карте.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len возвращает количество ключей.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys возвращает копию списка ключей в порядке вставки.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return []string{}
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Range обходит карту в порядке вставки, пока fn возвращает true.
func (m *OrderedMap[V]) Range(fn func(key string, value V) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone возвращает поверхностную копию карты.
func (m *OrderedMap[V]) Clone() *OrderedMap[V] {
	out := NewOrderedMap[V]()
	m.Range(func(k string, v V) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// MarshalJSON кодирует карту как JSON-объект с ключами в порядке вставки.
func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal value for %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON читает JSON-объект, сохраняя порядок ключей из документа.
// null даёт пустую карту.
func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	m.keys = nil
	m.values = make(map[string]V)

	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("failed to decode value for %q: %w", key, err)
		}
		m.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
