package model

// Header is an ordered string-keyed mapping of front-matter values. It
// keeps insertion order (spec.md §3's "ordered mapping" wording).
// pkg/frontmatter inserts parsed keys in sorted order, so a parsed header's
// key order is alphabetical, not the order the keys are written in the file.
type Header struct {
	keys   []string
	values map[string]interface{}
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{values: make(map[string]interface{})}
}

// Get returns the value for key and whether it was present.
func (h *Header) Get(key string) (interface{}, bool) {
	if h == nil || h.values == nil {
		return nil, false
	}
	v, ok := h.values[key]
	return v, ok
}

// Set inserts or overwrites key, appending it to the key order on first
// insertion.
func (h *Header) Set(key string, value interface{}) {
	if h.values == nil {
		h.values = make(map[string]interface{})
	}
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Delete removes key.
func (h *Header) Delete(key string) {
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in declaration order.
func (h *Header) Keys() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// Map returns a shallow copy of the header as a plain map, for handing to
// the template engine.
func (h *Header) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}

// Clone returns a deep-enough copy suitable for defaults merging: nested
// maps are cloned, scalars and slices are shared (defaults merging replaces
// slices wholesale rather than mutating them in place).
func (h *Header) Clone() *Header {
	clone := NewHeader()
	for _, k := range h.keys {
		clone.Set(k, cloneValue(h.values[k]))
	}
	return clone
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}

// MergeFrom deep-merges src into h: nested maps merge key-wise, scalars and
// sequences are replaced. Keys already in h are NOT overwritten unless
// overwrite is true — callers control precedence by choosing merge order
// and this flag (see pkg/defaults).
func (h *Header) MergeFrom(src *Header, overwrite bool) {
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		existing, has := h.Get(k)
		if !has {
			h.Set(k, cloneValue(v))
			continue
		}
		if !overwrite {
			// still attempt a nested-map merge so partial scopes compose
			if em, ok := existing.(map[string]interface{}); ok {
				if nm, ok := v.(map[string]interface{}); ok {
					h.Set(k, mergeMaps(nm, em))
					continue
				}
			}
			continue
		}
		if em, ok := existing.(map[string]interface{}); ok {
			if nm, ok := v.(map[string]interface{}); ok {
				h.Set(k, mergeMaps(em, nm))
				continue
			}
		}
		h.Set(k, cloneValue(v))
	}
}

// mergeMaps deep-merges override into base (override wins), returning a new
// map. Used for nested-mapping front-matter values per spec.md §4.4.
func mergeMaps(base, override map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		out[k] = cloneValue(v)
	}
	for k, v := range override {
		if bv, ok := out[k]; ok {
			if bm, ok := bv.(map[string]interface{}); ok {
				if ov, ok := v.(map[string]interface{}); ok {
					out[k] = mergeMaps(bm, ov)
					continue
				}
			}
		}
		out[k] = cloneValue(v)
	}
	return out
}
