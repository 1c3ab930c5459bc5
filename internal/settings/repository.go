package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/storage"
)

// BlobKey is the storage key of the settings blob.
const BlobKey = "settings"

// ErrNotStored is returned by a Repository when nothing has been saved yet.
var ErrNotStored = errors.New("settings: not stored")

// configJSON is the persisted wire form.
type configJSON struct {
	ActiveStart          string `json:"activeStart"`
	ActiveEnd            string `json:"activeEnd"`
	IntervalMinutes      int    `json:"intervalMinutes"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

// BlobRepository stores the Config as a JSON blob.
type BlobRepository struct {
	blobs storage.Blobs
}

// NewBlobRepository returns a Repository backed by blobs.
func NewBlobRepository(blobs storage.Blobs) *BlobRepository {
	return &BlobRepository{blobs: blobs}
}

// LoadConfig decodes the stored blob. Missing data yields ErrNotStored.
func (r *BlobRepository) LoadConfig() (Config, error) {
	data, err := r.blobs.Get(BlobKey)
	if errors.Is(err, storage.ErrNotFound) {
		return Config{}, ErrNotStored
	}
	if err != nil {
		return Config{}, err
	}
	return Decode(data)
}

// SaveConfig encodes and stores cfg.
func (r *BlobRepository) SaveConfig(cfg Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	return r.blobs.Put(BlobKey, data)
}

// Encode renders cfg in the persisted wire form.
func Encode(cfg Config) ([]byte, error) {
	data, err := json.MarshalIndent(configJSON{
		ActiveStart:          cfg.ActiveStart.String(),
		ActiveEnd:            cfg.ActiveEnd.String(),
		IntervalMinutes:      cfg.IntervalMinutes,
		NotificationsEnabled: cfg.NotificationsEnabled,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("settings: marshal: %w", err)
	}
	return data, nil
}

// Decode parses the persisted wire form. It does not validate the interval;
// Store.Load does.
func Decode(data []byte) (Config, error) {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("settings: parse: %w", err)
	}
	start, err := ParseTimeOfDay(raw.ActiveStart)
	if err != nil {
		return Config{}, err
	}
	end, err := ParseTimeOfDay(raw.ActiveEnd)
	if err != nil {
		return Config{}, err
	}
	return Config{
		ActiveStart:          start,
		ActiveEnd:            end,
		IntervalMinutes:      raw.IntervalMinutes,
		NotificationsEnabled: raw.NotificationsEnabled,
	}, nil
}
