// Package trie implements a generic character-keyed trie used to index
// string prefixes against arbitrary values.
package trie

const asciiSize = 128

// noNode marks an absent transition in a node's ASCII table.
const noNode = ^uint32(0)

type node[V any] struct {
	ascii    [asciiSize]uint32
	extended map[rune]uint32
	values   []V
}

func newNode[V any]() node[V] {
	n := node[V]{}
	for i := range n.ascii {
		n.ascii[i] = noNode
	}
	return n
}

func (n *node[V]) child(c rune) (uint32, bool) {
	if uint32(c) < asciiSize {
		v := n.ascii[c]
		return v, v != noNode
	}
	if n.extended == nil {
		return 0, false
	}
	id, ok := n.extended[c]
	return id, ok
}

// Trie maps string keys to lists of values and supports prefix queries:
// given an input string, it reports every value whose key is a prefix of
// that input. Storage is arena-based (a single node slice addressed by
// uint32 index) to keep insertion and lookup allocation-free on the hot
// path.
type Trie[V any] struct {
	nodes          []node[V]
	emptyKeyValues []V
	hasKeys        bool
}

// New creates an empty trie.
func New[V any]() *Trie[V] {
	return &Trie[V]{
		nodes: []node[V]{newNode[V]()}, // root = index 0
	}
}

// IsEmpty reports whether the trie contains no entries at all, including
// values inserted under the empty key.
func (t *Trie[V]) IsEmpty() bool {
	return !t.hasKeys && len(t.emptyKeyValues) == 0
}

// Insert associates value with key. Repeated inserts of the same key
// accumulate; no existing value is ever overwritten.
func (t *Trie[V]) Insert(key string, value V) {
	t.hasKeys = true
	if key == "" {
		t.emptyKeyValues = append(t.emptyKeyValues, value)
		return
	}
	var current uint32
	for _, c := range key {
		current = t.childOrCreate(current, c)
	}
	t.nodes[current].values = append(t.nodes[current].values, value)
}

func (t *Trie[V]) childOrCreate(parent uint32, c rune) uint32 {
	if uint32(c) < asciiSize {
		if existing := t.nodes[parent].ascii[c]; existing != noNode {
			return existing
		}
		newID := uint32(len(t.nodes))
		t.nodes = append(t.nodes, newNode[V]())
		t.nodes[parent].ascii[c] = newID
		return newID
	}
	if t.nodes[parent].extended == nil {
		t.nodes[parent].extended = make(map[rune]uint32, 4)
	}
	if id, ok := t.nodes[parent].extended[c]; ok {
		return id
	}
	newID := uint32(len(t.nodes))
	t.nodes = append(t.nodes, newNode[V]())
	t.nodes[parent].extended[c] = newID
	return newID
}

// FindPrefixesOf invokes callback once for every value whose key is a
// prefix of input, in the order: empty-key values first, then increasingly
// long prefixes as the walk advances through input. The walk stops as soon
// as no further transition exists; it never resets to the root.
func (t *Trie[V]) FindPrefixesOf(input string, callback func(V)) {
	for _, v := range t.emptyKeyValues {
		callback(v)
	}
	var current uint32
	for _, c := range input {
		next, ok := t.nodes[current].child(c)
		if !ok {
			return
		}
		current = next
		for _, v := range t.nodes[current].values {
			callback(v)
		}
	}
}

// FindPrefixesOfRunes is the []rune equivalent of FindPrefixesOf, useful
// when the caller already holds a decoded rune slice (e.g. a reversed
// string built byte-by-byte would be wrong for multi-byte runes; callers
// needing rune-correct reversal should decode once and use this instead).
func (t *Trie[V]) FindPrefixesOfRunes(input []rune, callback func(V)) {
	for _, v := range t.emptyKeyValues {
		callback(v)
	}
	var current uint32
	for _, c := range input {
		next, ok := t.nodes[current].child(c)
		if !ok {
			return
		}
		current = next
		for _, v := range t.nodes[current].values {
			callback(v)
		}
	}
}

// FindPrefixesOfCollect returns every value whose key is a prefix of input.
func (t *Trie[V]) FindPrefixesOfCollect(input string) []V {
	var result []V
	t.FindPrefixesOf(input, func(v V) {
		result = append(result, v)
	})
	return result
}

// InsertBytes is the byte-oriented counterpart to Insert: it walks key one
// raw byte at a time instead of decoding UTF-8 runes. Callers building keys
// from byte-reversed strings (e.g. EndsWith's reversed host/path values)
// must use this so a split multi-byte UTF-8 sequence doesn't get decoded as
// replacement characters during the walk.
func (t *Trie[V]) InsertBytes(key []byte, value V) {
	t.hasKeys = true
	if len(key) == 0 {
		t.emptyKeyValues = append(t.emptyKeyValues, value)
		return
	}
	var current uint32
	for _, b := range key {
		current = t.childOrCreate(current, rune(b))
	}
	t.nodes[current].values = append(t.nodes[current].values, value)
}

// FindPrefixesOfBytes is the byte-oriented counterpart to FindPrefixesOf.
func (t *Trie[V]) FindPrefixesOfBytes(input []byte, callback func(V)) {
	for _, v := range t.emptyKeyValues {
		callback(v)
	}
	var current uint32
	for _, b := range input {
		next, ok := t.nodes[current].child(rune(b))
		if !ok {
			return
		}
		current = next
		for _, v := range t.nodes[current].values {
			callback(v)
		}
	}
}
