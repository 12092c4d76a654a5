package db

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// JSONBackend keeps the whole user mapping in a single JSON file, rewritten
// on every save.
type JSONBackend struct {
	Path string
}

func (b *JSONBackend) Load() (map[int64]*UserState, error) {
	data, err := os.ReadFile(b.Path)
	if os.IsNotExist(err) {
		return make(map[int64]*UserState), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed reading state file")
	}

	users := make(map[int64]*UserState)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, errors.Wrap(err, "failed unmarshalling state file")
	}
	return users, nil
}

func (b *JSONBackend) Save(users map[int64]*UserState) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed marshalling user data")
	}

	if dir := filepath.Dir(b.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed creating state directory")
		}
	}

	return errors.Wrap(os.WriteFile(b.Path, data, 0o644), "failed writing state file")
}
