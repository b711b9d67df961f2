package exception

import (
	"fmt"
	"sort"
	"strings"
)

// Tree is a scoped node in the collector. The zero value is a valid, empty
// root node.
type Tree struct {
	parent   *Tree
	key      string
	messages []string
	children map[string]*Tree
}

// New returns a fresh root collector.
func New() *Tree {
	return &Tree{}
}

// At returns the child collector scoped under key, creating it if this is
// the first reference. Repeated calls with the same key return the same
// child, so messages recorded through separately obtained handles land in
// the same place.
func (t *Tree) At(key string) *Tree {
	if t == nil {
		return nil
	}
	if t.children == nil {
		t.children = make(map[string]*Tree)
	}
	child, ok := t.children[key]
	if !ok {
		child = &Tree{parent: t, key: key}
		t.children[key] = child
	}
	return child
}

// AtIndex is At for array positions, formatting the key as the raw index
// text so a path segment reads e.g. "3" under an array parent.
func (t *Tree) AtIndex(i int) *Tree {
	return t.At(fmt.Sprintf("%d", i))
}

// Message appends a formatted message at this node.
func (t *Tree) Message(format string, args ...any) {
	if t == nil {
		return
	}
	t.messages = append(t.messages, fmt.Sprintf(format, args...))
}

// Push attaches an already-built sub-tree, merging its messages and
// children into this node as if they had been recorded directly here.
func (t *Tree) Push(child *Tree) {
	if t == nil || child == nil {
		return
	}
	t.messages = append(t.messages, child.messages...)
	for key, grandchild := range child.children {
		t.At(key).Push(grandchild)
	}
}

// HasException reports whether this node or any descendant carries a
// message.
func (t *Tree) HasException() bool {
	if t == nil {
		return false
	}
	if len(t.messages) > 0 {
		return true
	}
	for _, child := range t.children {
		if child.HasException() {
			return true
		}
	}
	return false
}

// Path reconstructs the slash-separated path of keys from the root down to
// this node.
func (t *Tree) Path() string {
	if t == nil || t.parent == nil {
		return "/"
	}
	var segments []string
	for n := t; n.parent != nil; n = n.parent {
		segments = append([]string{n.key}, segments...)
	}
	return "/" + strings.Join(segments, "/")
}

// Entry is a single flattened message with its fully qualified path.
type Entry struct {
	Path    string
	Message string
}

// Entries flattens the tree into a deterministically ordered list of
// path/message pairs, sorted by path then by message order.
func (t *Tree) Entries() []Entry {
	var out []Entry
	t.collect(&out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

func (t *Tree) collect(out *[]Entry) {
	if t == nil {
		return
	}
	path := t.Path()
	for _, msg := range t.messages {
		*out = append(*out, Entry{Path: path, Message: msg})
	}
	for _, child := range t.children {
		child.collect(out)
	}
}

// String renders every message with its path, one per line. It is a plain
// debugging aid, not the pretty-printer described in the surrounding
// project.
func (t *Tree) String() string {
	entries := t.Entries()
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s\n", e.Path, e.Message)
	}
	return b.String()
}
