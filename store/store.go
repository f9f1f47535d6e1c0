package store

import (
	"encoding/json"
	"errors"

	"github.com/openroll/songpipe/model"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// Store is a last-write-wins key-value sink for normalized songs and
// their per-song settings. No ordering guarantees beyond last write wins.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// SettingsKey addresses the per-song settings blob owned by the UI layer.
func SettingsKey(id string) string {
	return id + "/settings"
}

func SaveSong(s Store, id string, sng *model.Song) error {
	data, err := json.Marshal(sng)
	if err != nil {
		return err
	}
	return s.Set(id, data)
}

func LoadSong(s Store, id string) (*model.Song, error) {
	data, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	var sng model.Song
	if err := json.Unmarshal(data, &sng); err != nil {
		return nil, err
	}
	return &sng, nil
}
