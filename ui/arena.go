package ui

// Frame is a bump-allocated arena of Nodes for one UI frame. Two Frames
// are owned by a Context and their roles (current/previous) rotate each
// call to Reset, giving O(1) amortised per-frame allocation while keeping
// the previous frame's tree alive for hit-testing and retained-state
// lookup.
type Frame struct {
	nodes []Node

	roots      []int32 // document root(s) in insertion order (normally one)
	floaters   []int32 // floating root nodes, positioned after document layout

	nodeMap   []int32 // open-addressed ID -> node index, built by Finalize
	mapShift  uint
	mapMask   int32
}

func newFrame(nodeCapacity int) *Frame {
	return &Frame{nodes: make([]Node, 0, nodeCapacity)}
}

// reset clears the frame for reuse, retaining the backing array's
// capacity.
func (f *Frame) reset() {
	f.nodes = f.nodes[:0]
	f.roots = f.roots[:0]
	f.floaters = f.floaters[:0]
	f.nodeMap = nil
}

func (f *Frame) alloc(kind NodeKind, id uint64, parent int32) int32 {
	idx := int32(len(f.nodes))
	f.nodes = append(f.nodes, Node{
		ID:          id,
		Parent:      parent,
		FirstChild:  nilIdx,
		LastChild:   nilIdx,
		PrevSib:     nilIdx,
		NextSib:     nilIdx,
		StackParent: parent,
		Kind:        kind,
	})
	if parent >= 0 {
		p := &f.nodes[parent]
		if p.FirstChild == nilIdx {
			p.FirstChild = idx
		} else {
			f.nodes[p.LastChild].NextSib = idx
			f.nodes[idx].PrevSib = p.LastChild
		}
		p.LastChild = idx
	} else {
		f.roots = append(f.roots, idx)
	}
	return idx
}

// Node returns a pointer to the node at idx. Valid only within the frame
// it belongs to.
func (f *Frame) Node(idx int32) *Node { return &f.nodes[idx] }

// NodeCount returns the number of nodes allocated so far this frame.
func (f *Frame) NodeCount() int { return len(f.nodes) }

// Children iterates a node's children in insertion order.
func (f *Frame) Children(idx int32) []int32 {
	var out []int32
	for c := f.nodes[idx].FirstChild; c != nilIdx; c = f.nodes[c].NextSib {
		out = append(out, c)
	}
	return out
}

// buildNodeMap constructs the open-addressed ID->index hash table sized
// to 2^ceil(log2(4*node_count)), using the top `width` bits of the ID
// (shift = 64-width) as the starting probe slot, with linear probing on
// collision.
func (f *Frame) buildNodeMap() {
	n := len(f.nodes)
	if n == 0 {
		f.nodeMap = nil
		return
	}
	size := int32(1)
	width := uint(0)
	for size < int32(4*n) {
		size <<= 1
		width++
	}
	if width == 0 {
		width = 1
		size = 2
	}
	f.mapShift = 64 - width
	f.mapMask = size - 1

	table := make([]int32, size)
	for i := range table {
		table[i] = nilIdx
	}
	for idx := range f.nodes {
		slot := int32(f.nodes[idx].ID>>f.mapShift) & f.mapMask
		for table[slot] != nilIdx {
			slot = (slot + 1) & f.mapMask
		}
		table[slot] = int32(idx)
	}
	f.nodeMap = table
}

// lookup returns the node index for id in this frame's map, or nilIdx if
// absent. Only valid after buildNodeMap has run (i.e. on the previous
// frame, after its own Finalize).
func (f *Frame) lookup(id uint64) int32 {
	if len(f.nodeMap) == 0 {
		return nilIdx
	}
	slot := int32(id>>f.mapShift) & f.mapMask
	for {
		idx := f.nodeMap[slot]
		if idx == nilIdx {
			return nilIdx
		}
		if f.nodes[idx].ID == id {
			return idx
		}
		slot = (slot + 1) & f.mapMask
	}
}
