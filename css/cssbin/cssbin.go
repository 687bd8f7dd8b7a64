// Package cssbin reads and writes a compiled-stylesheet cache format:
// a parsed css.Rule chain plus the FNV-1a hash of the source it was
// parsed from, so a caller can skip re-parsing when the source file on
// disk hasn't changed.
//
// The encoding interns every string that appears in the tree (selector
// names, property names, value text, condition keys/values) into a
// single pool written once, then encodes the node tree as indices into
// that pool. Sticky-error reader/writer wrappers mirror the
// classfile-style binary reader this is adapted from: every read/write
// method is a no-op once the first error occurs, so call sites don't
// need to check an error after every field.
package cssbin

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"

	"github.com/dhamidi/cssbox/css"
)

const (
	magic         = "CSSB"
	formatVersion = 1
)

// Metadata is the cache header, readable without decoding the whole
// tree.
type Metadata struct {
	Version    uint8
	SourceHash uint64
}

func hashSource(source []byte) uint64 {
	h := fnv.New64a()
	h.Write(source)
	return h.Sum64()
}

// Stale reports whether a cache built from meta no longer matches
// source.
func (m Metadata) Stale(source []byte) bool {
	return m.Version != formatVersion || m.SourceHash != hashSource(source)
}

// Write encodes rule's chain into w, keyed on source's hash.
func Write(w io.Writer, source []byte, rule *css.Rule) error {
	pool, order := internStrings(rule)

	ww := &writer{w: w}
	ww.writeBytes([]byte(magic))
	ww.writeU8(formatVersion)
	ww.writeU64(hashSource(source))

	var rules []*css.Rule
	for r := rule; r != nil; r = r.Next {
		rules = append(rules, r)
	}
	ww.writeU32(uint32(len(rules)))

	ww.writeU32(uint32(len(order)))
	for _, s := range order {
		ww.writeString(s)
	}

	for _, r := range rules {
		ww.writeSelectorChain(r.Selector, pool)
		ww.writePropertyChain(r.Declaration, pool)
	}

	if ww.err != nil {
		return fmt.Errorf("write compiled stylesheet: %w", ww.err)
	}
	return nil
}

// ReadMetadata reads just the header, for a staleness check before
// paying for a full decode.
func ReadMetadata(r io.Reader) (Metadata, error) {
	rr := &reader{r: r}
	magicBytes := rr.readBytes(len(magic))
	if rr.err != nil {
		return Metadata{}, fmt.Errorf("read compiled stylesheet header: %w", rr.err)
	}
	if string(magicBytes) != magic {
		return Metadata{}, fmt.Errorf("not a compiled stylesheet (bad magic)")
	}
	meta := Metadata{
		Version:    rr.readU8(),
		SourceHash: rr.readU64(),
	}
	if rr.err != nil {
		return Metadata{}, fmt.Errorf("read compiled stylesheet header: %w", rr.err)
	}
	return meta, nil
}

// Read decodes a full rule chain from r. Callers that only need to
// check staleness should use ReadMetadata instead.
func Read(r io.Reader) (*css.Rule, Metadata, error) {
	rr := &reader{r: r}
	magicBytes := rr.readBytes(len(magic))
	if rr.err != nil {
		return nil, Metadata{}, fmt.Errorf("read compiled stylesheet: %w", rr.err)
	}
	if string(magicBytes) != magic {
		return nil, Metadata{}, fmt.Errorf("not a compiled stylesheet (bad magic)")
	}
	meta := Metadata{
		Version:    rr.readU8(),
		SourceHash: rr.readU64(),
	}
	if meta.Version != formatVersion {
		return nil, meta, fmt.Errorf("unsupported compiled stylesheet version %d", meta.Version)
	}

	ruleCount := rr.readU32()
	poolSize := rr.readU32()
	if rr.err != nil {
		return nil, meta, fmt.Errorf("read compiled stylesheet: %w", rr.err)
	}

	pool := make([]string, poolSize)
	for i := range pool {
		pool[i] = rr.readString()
	}
	if rr.err != nil {
		return nil, meta, fmt.Errorf("read compiled stylesheet string pool: %w", rr.err)
	}

	var head, tail *css.Rule
	for i := uint32(0); i < ruleCount; i++ {
		rule := &css.Rule{}
		rule.Selector = rr.readSelectorChain(pool)
		rule.Declaration = rr.readPropertyChain(pool)
		if rr.err != nil {
			return nil, meta, fmt.Errorf("read compiled stylesheet rule %d: %w", i, rr.err)
		}
		if head == nil {
			head, tail = rule, rule
		} else {
			tail.Next = rule
			tail = rule
		}
	}

	return head, meta, nil
}

// internStrings walks rule's whole chain and returns a string->index
// map plus the strings in first-seen order, ready to be written as the
// pool section.
func internStrings(rule *css.Rule) (map[string]uint32, []string) {
	pool := map[string]uint32{}
	var order []string
	intern := func(s string) {
		if _, ok := pool[s]; ok {
			return
		}
		pool[s] = uint32(len(order))
		order = append(order, s)
	}

	var walkValue func(v *css.Value)
	walkValue = func(v *css.Value) {
		for ; v != nil; v = v.Next {
			intern(v.Data)
			walkValue(v.Args)
		}
	}
	var walkCondition func(c *css.Condition)
	walkCondition = func(c *css.Condition) {
		for ; c != nil; c = c.Next {
			intern(c.Key)
			intern(c.Val)
		}
	}
	var walkSelector func(s *css.Selector)
	walkSelector = func(s *css.Selector) {
		for ; s != nil; s = s.Next {
			intern(s.Name)
			walkCondition(s.Cond)
			walkSelector(s.Left)
			walkSelector(s.Right)
		}
	}
	var walkProperty func(p *css.Property)
	walkProperty = func(p *css.Property) {
		for ; p != nil; p = p.Next {
			intern(p.Name)
			walkValue(p.Value)
		}
	}

	for r := rule; r != nil; r = r.Next {
		walkSelector(r.Selector)
		walkProperty(r.Declaration)
	}

	return pool, order
}

// writer is a sticky-error binary writer: once err is set, every
// subsequent write method becomes a no-op.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) writeBytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *writer) writeU8(v uint8) {
	w.writeBytes([]byte{v})
}

func (w *writer) writeU32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.writeBytes(buf[:])
}

func (w *writer) writeU64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.writeBytes(buf[:])
}

func (w *writer) writeString(s string) {
	w.writeU32(uint32(len(s)))
	w.writeBytes([]byte(s))
}

func (w *writer) writeIndex(pool map[string]uint32, s string) {
	w.writeU32(pool[s])
}

func (w *writer) writePresence(present bool) {
	if present {
		w.writeU8(1)
	} else {
		w.writeU8(0)
	}
}

func (w *writer) writeSelectorChain(sel *css.Selector, pool map[string]uint32) {
	w.writePresence(sel != nil)
	if sel == nil {
		return
	}
	w.writeU8(sel.Combine)
	w.writePresence(sel.HasName)
	w.writeIndex(pool, sel.Name)
	w.writeConditionChain(sel.Cond, pool)
	w.writeSelectorChain(sel.Left, pool)
	w.writeSelectorChain(sel.Right, pool)
	w.writeSelectorChain(sel.Next, pool)
}

func (w *writer) writeConditionChain(cond *css.Condition, pool map[string]uint32) {
	w.writePresence(cond != nil)
	if cond == nil {
		return
	}
	w.writeU8(cond.Type)
	w.writeIndex(pool, cond.Key)
	w.writePresence(cond.HasVal)
	w.writeIndex(pool, cond.Val)
	w.writeConditionChain(cond.Next, pool)
}

func (w *writer) writePropertyChain(prop *css.Property, pool map[string]uint32) {
	w.writePresence(prop != nil)
	if prop == nil {
		return
	}
	w.writeIndex(pool, prop.Name)
	w.writeValueChain(prop.Value, pool)
	w.writePropertyChain(prop.Next, pool)
}

func (w *writer) writeValueChain(val *css.Value, pool map[string]uint32) {
	w.writePresence(val != nil)
	if val == nil {
		return
	}
	w.writeU32(uint32(val.Type))
	w.writeIndex(pool, val.Data)
	w.writeValueChain(val.Args, pool)
	w.writeValueChain(val.Next, pool)
}

// reader is a sticky-error binary reader: once err is set, every
// subsequent read method returns the zero value.
type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) readU8() uint8 {
	b := r.readBytes(1)
	if r.err != nil {
		return 0
	}
	return b[0]
}

func (r *reader) readU32() uint32 {
	b := r.readBytes(4)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *reader) readU64() uint64 {
	b := r.readBytes(8)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *reader) readString() string {
	n := r.readU32()
	b := r.readBytes(int(n))
	if r.err != nil {
		return ""
	}
	return string(b)
}

func (r *reader) readPresence() bool {
	return r.readU8() != 0
}

func (r *reader) readIndex(pool []string) string {
	i := r.readU32()
	if r.err != nil || int(i) >= len(pool) {
		return ""
	}
	return pool[i]
}

func (r *reader) readSelectorChain(pool []string) *css.Selector {
	if !r.readPresence() || r.err != nil {
		return nil
	}
	sel := &css.Selector{
		Combine: r.readU8(),
	}
	sel.HasName = r.readPresence()
	sel.Name = r.readIndex(pool)
	sel.Cond = r.readConditionChain(pool)
	sel.Left = r.readSelectorChain(pool)
	sel.Right = r.readSelectorChain(pool)
	sel.Next = r.readSelectorChain(pool)
	return sel
}

func (r *reader) readConditionChain(pool []string) *css.Condition {
	if !r.readPresence() || r.err != nil {
		return nil
	}
	cond := &css.Condition{
		Type: r.readU8(),
		Key:  r.readIndex(pool),
	}
	cond.HasVal = r.readPresence()
	cond.Val = r.readIndex(pool)
	cond.Next = r.readConditionChain(pool)
	return cond
}

func (r *reader) readPropertyChain(pool []string) *css.Property {
	if !r.readPresence() || r.err != nil {
		return nil
	}
	prop := &css.Property{
		Name: r.readIndex(pool),
	}
	prop.Value = r.readValueChain(pool)
	prop.Next = r.readPropertyChain(pool)
	return prop
}

func (r *reader) readValueChain(pool []string) *css.Value {
	if !r.readPresence() || r.err != nil {
		return nil
	}
	val := &css.Value{
		Type: css.TokenKind(r.readU32()),
		Data: r.readIndex(pool),
	}
	val.Args = r.readValueChain(pool)
	val.Next = r.readValueChain(pool)
	return val
}
