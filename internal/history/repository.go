package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/storage"
)

// BlobKey is the storage key of the history blob.
const BlobKey = "history"

// ErrNotStored is returned by a Repository when nothing has been saved yet.
var ErrNotStored = errors.New("history: not stored")

// recordJSON is the persisted wire form; timestamps are Unix milliseconds.
type recordJSON struct {
	ID          int64   `json:"id"`
	Timestamp   int64   `json:"timestamp"`
	ItemLabel   string  `json:"itemLabel"`
	SavedAmount float64 `json:"savedAmount"`
}

// BlobRepository stores the record sequence as one JSON array.
type BlobRepository struct {
	blobs storage.Blobs
}

// NewBlobRepository returns a Repository backed by blobs.
func NewBlobRepository(blobs storage.Blobs) *BlobRepository {
	return &BlobRepository{blobs: blobs}
}

// LoadRecords decodes the stored sequence. Missing data yields ErrNotStored.
func (r *BlobRepository) LoadRecords() ([]Record, error) {
	data, err := r.blobs.Get(BlobKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotStored
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// SaveRecords encodes and stores the whole sequence in one Put.
func (r *BlobRepository) SaveRecords(recs []Record) error {
	data, err := Encode(recs)
	if err != nil {
		return err
	}
	return r.blobs.Put(BlobKey, data)
}

// Encode renders recs in the persisted wire form, preserving order.
func Encode(recs []Record) ([]byte, error) {
	raw := make([]recordJSON, len(recs))
	for i, rec := range recs {
		raw[i] = recordJSON{
			ID:          rec.ID,
			Timestamp:   rec.Timestamp.UnixMilli(),
			ItemLabel:   rec.ItemLabel,
			SavedAmount: rec.SavedAmount,
		}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("history: marshal: %w", err)
	}
	return data, nil
}

// Decode parses the persisted wire form.
func Decode(data []byte) ([]Record, error) {
	var raw []recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("history: parse: %w", err)
	}
	recs := make([]Record, len(raw))
	for i, r := range raw {
		recs[i] = Record{
			ID:          r.ID,
			Timestamp:   time.UnixMilli(r.Timestamp),
			ItemLabel:   r.ItemLabel,
			SavedAmount: r.SavedAmount,
		}
	}
	return recs, nil
}
