// Package ahocorasick implements a generic Aho-Corasick automaton for
// multi-pattern substring matching, used by the rule index to accelerate
// Contains conditions.
package ahocorasick

const asciiSize = 128

// noState marks an absent transition during the build phase.
const noState = ^uint32(0)

type buildNode[V any] struct {
	ascii    [asciiSize]uint32
	extended map[rune]uint32
	output   []V
}

// AhoCorasick is a two-phase multi-pattern matcher: patterns are inserted
// into a trie-shaped build representation, then Build converts it into a
// goto-only DFA so that Search performs exactly one table lookup per input
// byte/rune with no failure-chain walk at search time.
//
// Insert after Build, or Search before Build, is a programmer error and
// panics, mirroring the build/search split of the reference automaton this
// was ported from.
type AhoCorasick[V any] struct {
	buildNodes         []buildNode[V]
	emptyPatternValues []V
	hasPatterns        bool

	gotoTable    [][asciiSize]uint32
	extendedGoto []map[rune]uint32
	output       [][]V
	built        bool
}

// New creates an empty automaton.
func New[V any]() *AhoCorasick[V] {
	root := buildNode[V]{}
	for i := range root.ascii {
		root.ascii[i] = noState
	}
	return &AhoCorasick[V]{
		buildNodes: []buildNode[V]{root},
	}
}

// IsEmpty reports whether no patterns have been inserted.
func (a *AhoCorasick[V]) IsEmpty() bool {
	return !a.hasPatterns && len(a.emptyPatternValues) == 0
}

// Insert adds pattern with an associated value. Panics if called after
// Build.
func (a *AhoCorasick[V]) Insert(pattern string, value V) {
	if a.built {
		panic("ahocorasick: cannot insert after Build()")
	}
	a.hasPatterns = true

	if pattern == "" {
		a.emptyPatternValues = append(a.emptyPatternValues, value)
		return
	}

	var state uint32
	for _, c := range pattern {
		next := getGotoBuild(a.buildNodes, state, c)
		if next == noState {
			newID := uint32(len(a.buildNodes))
			setGotoBuild(a.buildNodes, state, c, newID)
			node := buildNode[V]{}
			for i := range node.ascii {
				node.ascii[i] = noState
			}
			a.buildNodes = append(a.buildNodes, node)
			state = newID
		} else {
			state = next
		}
	}
	a.buildNodes[state].output = append(a.buildNodes[state].output, value)
}

// Build computes failure links and completes the DFA so that Search never
// needs to walk a failure chain.
func (a *AhoCorasick[V]) Build() {
	nodes := a.buildNodes
	a.buildNodes = nil
	stateCount := len(nodes)

	gotoTable := make([][asciiSize]uint32, stateCount)
	extended := make([]map[rune]uint32, stateCount)
	output := make([][]V, stateCount)
	for i, n := range nodes {
		gotoTable[i] = n.ascii
		extended[i] = n.extended
		output[i] = n.output
	}

	failure := make([]uint32, stateCount)
	var queue []uint32

	// Phase 1: init depth-1 states.
	for c := 0; c < asciiSize; c++ {
		child := gotoTable[0][c]
		if child == noState {
			gotoTable[0][c] = 0 // self-loop on root
		} else {
			failure[child] = 0
			queue = append(queue, child)
		}
	}
	for _, child := range extended[0] {
		failure[child] = 0
		queue = append(queue, child)
	}

	// Phase 2: compute failure links.
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		cur := int(current)

		for c := 0; c < asciiSize; c++ {
			child := gotoTable[cur][c]
			if child != noState {
				f := followFailure(gotoTable, extended, failure, current, rune(c))
				failure[child] = f
				mergeOutput(output, int(child), int(f))
				queue = append(queue, child)
			}
		}

		for c, child := range extended[cur] {
			f := followFailure(gotoTable, extended, failure, current, c)
			failure[child] = f
			mergeOutput(output, int(child), int(f))
			queue = append(queue, child)
		}
	}

	// Phase 3: complete the DFA, seeded with root's children.
	queue = queue[:0]
	for c := 0; c < asciiSize; c++ {
		child := gotoTable[0][c]
		if child != 0 {
			queue = append(queue, child)
		}
	}
	for _, child := range extended[0] {
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		cur := int(current)
		fail := int(failure[cur])

		for c := 0; c < asciiSize; c++ {
			if gotoTable[cur][c] == noState {
				gotoTable[cur][c] = gotoTable[fail][c] // inherit from failure
			} else {
				queue = append(queue, gotoTable[cur][c])
			}
		}

		for _, child := range extended[cur] {
			if child != 0 {
				queue = append(queue, child)
			}
		}

		if failExt := extended[fail]; failExt != nil {
			if extended[cur] == nil {
				extended[cur] = make(map[rune]uint32, 4)
			}
			for c, target := range failExt {
				if _, exists := extended[cur][c]; !exists {
					extended[cur][c] = target
				}
			}
		}
	}

	a.gotoTable = gotoTable
	a.extendedGoto = extended
	a.output = output
	a.built = true
}

// Search scans text and invokes callback for every matching value, in
// order of discovery. Panics if Build has not been called.
func (a *AhoCorasick[V]) Search(text string, callback func(V)) {
	if !a.built {
		panic("ahocorasick: must call Build() before Search()")
	}
	for _, v := range a.emptyPatternValues {
		callback(v)
	}
	var state uint32
	for _, c := range text {
		state = a.nextState(state, c)
		for _, v := range a.output[state] {
			callback(v)
		}
	}
}

// SearchBytes iterates text's bytes directly, using the goto table for
// bytes < 128 and resetting to the root state for bytes >= 128. This is
// the fast path for ASCII-only pattern sets.
func (a *AhoCorasick[V]) SearchBytes(text string, callback func(V)) {
	if !a.built {
		panic("ahocorasick: must call Build() before SearchBytes()")
	}
	for _, v := range a.emptyPatternValues {
		callback(v)
	}
	var state uint32
	for i := 0; i < len(text); i++ {
		b := text[i]
		if b < 128 {
			state = a.gotoTable[state][b]
		} else {
			state = 0
		}
		for _, v := range a.output[state] {
			callback(v)
		}
	}
}

// SearchCollect scans text and returns all matching values.
func (a *AhoCorasick[V]) SearchCollect(text string) []V {
	var result []V
	a.Search(text, func(v V) {
		result = append(result, v)
	})
	return result
}

func getGotoBuild[V any](nodes []buildNode[V], state uint32, c rune) uint32 {
	if uint32(c) < asciiSize {
		return nodes[state].ascii[c]
	}
	if nodes[state].extended == nil {
		return noState
	}
	if id, ok := nodes[state].extended[c]; ok {
		return id
	}
	return noState
}

func setGotoBuild[V any](nodes []buildNode[V], state uint32, c rune, target uint32) {
	if uint32(c) < asciiSize {
		nodes[state].ascii[c] = target
		return
	}
	if nodes[state].extended == nil {
		nodes[state].extended = make(map[rune]uint32, 4)
	}
	nodes[state].extended[c] = target
}

func followFailure(gotoTable [][asciiSize]uint32, extended []map[rune]uint32, failure []uint32, parent uint32, c rune) uint32 {
	state := failure[parent]
	for state != 0 && getGotoSearch(gotoTable, extended, state, c) == noState {
		state = failure[state]
	}
	target := getGotoSearch(gotoTable, extended, state, c)
	if target != noState {
		return target
	}
	return 0
}

func getGotoSearch(gotoTable [][asciiSize]uint32, extended []map[rune]uint32, state uint32, c rune) uint32 {
	if uint32(c) < asciiSize {
		return gotoTable[state][c]
	}
	if extended[state] == nil {
		return noState
	}
	if id, ok := extended[state][c]; ok {
		return id
	}
	return noState
}

func mergeOutput[V any](output [][]V, state, failState int) {
	if len(output[failState]) == 0 {
		return
	}
	output[state] = append(output[state], output[failState]...)
}

func (a *AhoCorasick[V]) nextState(state uint32, c rune) uint32 {
	if uint32(c) < asciiSize {
		return a.gotoTable[state][c]
	}
	if a.extendedGoto[state] == nil {
		return 0
	}
	if id, ok := a.extendedGoto[state][c]; ok {
		return id
	}
	return 0
}
