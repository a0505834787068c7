// internal/record/record.go
package record

import "sort"

// Record is the cached key-value tool configuration. It is not safe
// for concurrent use; the lifecycle controller confines it to the
// scheduler turn it runs on.
type Record struct {
	fields map[string]Value
}

// New returns an empty record.
func New() *Record {
	return &Record{fields: make(map[string]Value)}
}

// FromMap builds a record over the given fields. The map is adopted,
// not copied.
func FromMap(fields map[string]Value) *Record {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return &Record{fields: fields}
}

func (r *Record) Len() int { return len(r.fields) }

func (r *Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

func (r *Record) Set(key string, v Value) {
	r.fields[key] = v
}

// SetDefault stores def under key only if the key is absent, and
// returns the value now present.
func (r *Record) SetDefault(key string, def Value) Value {
	if v, ok := r.fields[key]; ok {
		return v
	}
	r.fields[key] = def
	return def
}

func (r *Record) Delete(key string) {
	delete(r.fields, key)
}

// Keys returns the record's keys in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy sharing no mutable state with the
// original. It is what the controller snapshots for dirty comparison.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	fields := make(map[string]Value, len(r.fields))
	for k, v := range r.fields {
		fields[k] = v.Clone()
	}
	return &Record{fields: fields}
}

// Equal reports structural equality of two records. A nil record is
// only equal to another nil record.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if len(r.fields) != len(o.fields) {
		return false
	}
	for k, v := range r.fields {
		ov, ok := o.fields[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// AsMap converts the record to plain Go types for display.
func (r *Record) AsMap() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v.Interface()
	}
	return out
}
