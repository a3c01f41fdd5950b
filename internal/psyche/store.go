package psyche

import (
	"errors"

	"gopkg.in/yaml.v3"

	"cortexd/internal/store"
)

const metaKey = "psyche:state"

// Save persists p to the durable store as a single YAML-encoded record.
func Save(st *store.Store, p Psyche) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return &MarshalError{Err: err}
	}
	return st.PutMeta(metaKey, data)
}

// Load reads a previously saved psyche back from the durable store. A
// missing record is not an error — callers should fall back to Default().
func Load(st *store.Store) (Psyche, bool, error) {
	data, err := st.GetMeta(metaKey)
	if err != nil {
		var nf *store.NotFoundError
		if errors.As(err, &nf) {
			return Psyche{}, false, nil
		}
		return Psyche{}, false, err
	}
	var p Psyche
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Psyche{}, false, &MarshalError{Err: err}
	}
	return p, true, nil
}
