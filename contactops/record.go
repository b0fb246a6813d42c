package contactops

// Record is a candidate data row built by one extractor. Empty values are
// never stored, so a record that received nothing stays empty and is dropped
// before it reaches a batch.
type Record struct {
	kind   Kind
	values Values
}

// NewRecord starts an empty record of the given kind.
func NewRecord(kind Kind) *Record {
	return &Record{kind: kind}
}

// Kind returns the record kind.
func (r *Record) Kind() Kind {
	return r.kind
}

// PutString stores value under key unless value is empty.
func (r *Record) PutString(key, value string) {
	if value == "" {
		return
	}
	r.values.set(key, value)
}

// PutInt stores value under key. Zero is a meaningful code and is stored.
func (r *Record) PutInt(key string, value int) {
	r.values.set(key, value)
}

// PutBytes stores value under key unless it is nil or zero length.
func (r *Record) PutBytes(key string, value []byte) {
	if len(value) == 0 {
		return
	}
	r.values.set(key, value)
}

// IsEmpty reports whether no attribute was stored.
func (r *Record) IsEmpty() bool {
	return r.values.Len() == 0
}

// Materialize returns the record's attributes with the kind attached under
// the mimetype column. An empty record materializes to empty values.
func (r *Record) Materialize() Values {
	if r.IsEmpty() {
		return Values{}
	}
	out := r.values.clone()
	out.set(ColumnMimeType, string(r.kind))
	return out
}
