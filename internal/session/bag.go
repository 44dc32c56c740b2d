// Package session holds the per-user attribute bag that carries dialogue
// state, playback and listening progress between stateless requests.
//
// The bag is owned by a single user's conversation. It is not safe for
// concurrent use: the hosting platform delivers at most one in-flight request
// per user, and callers rely on that instead of locking.
package session

import (
	"encoding/json"
	"maps"
)

// KV is the key-value accessor the core reads and writes attributes through.
// Storage engines only ever see the serialized Bag.
type KV interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, value json.RawMessage)
	Delete(key string)
}

// Bag is the in-memory attribute set for one user. Its JSON form is the
// persisted attribute layout.
type Bag map[string]json.RawMessage

var _ KV = Bag(nil)

// NewBag returns an empty bag.
func NewBag() Bag {
	return make(Bag)
}

// ParseBag decodes a persisted bag. Empty input yields an empty bag.
func ParseBag(data []byte) (Bag, error) {
	b := NewBag()
	if len(data) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if b == nil {
		b = NewBag()
	}
	return b, nil
}

func (b Bag) Get(key string) (json.RawMessage, bool) {
	v, ok := b[key]
	return v, ok
}

func (b Bag) Set(key string, value json.RawMessage) {
	b[key] = value
}

func (b Bag) Delete(key string) {
	delete(b, key)
}

// Clone returns a shallow copy; values are immutable byte slices by convention.
func (b Bag) Clone() Bag {
	if b == nil {
		return NewBag()
	}
	return maps.Clone(b)
}

// Encode serializes the bag for storage.
func (b Bag) Encode() ([]byte, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]json.RawMessage(b))
}
