package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/pebble"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iseefortune/go-verifier/verifier"
)

var ErrNotFound = errors.New("store resource not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type AuditStore struct {
	db     *pebble.DB
	logger *zap.Logger
}

func NewAuditStore(storageFolder string, logger *zap.Logger) (*AuditStore, error) {
	db, err := pebble.Open(filepath.Join(storageFolder, "audit"), &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "opening audit db")
	}

	return &AuditStore{db: db, logger: logger}, nil
}

// PutResult records a successful verification. A record for the same slot,
// modulus and blockhash is overwritten.
func (s *AuditStore) PutResult(ctx context.Context, source string, res verifier.Result) error {
	record := resultToRecord(source, res, time.Now())

	return s.PutRecord(ctx, record)
}

func (s *AuditStore) PutRecord(ctx context.Context, record AuditRecord) error {
	key := recordKey(record.Slot, record.Modulus, record.Blockhash)
	value, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshalling audit record")
	}

	err = s.db.Set(key, value, pebble.Sync)
	if err != nil {
		return errors.Wrapf(err, "storing audit record for slot %d", record.Slot)
	}

	s.logger.Debug("stored audit record", zap.Uint64("slot", record.Slot), zap.String("source", record.Source))

	return nil
}

func (s *AuditStore) GetRecord(ctx context.Context, slot, modulus uint64, blockhash string) (AuditRecord, error) {
	key := recordKey(slot, modulus, blockhash)
	value, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return AuditRecord{}, ErrNotFound
		}

		return AuditRecord{}, errors.Wrapf(err, "getting audit record for slot %d", slot)
	}
	defer closer.Close()

	var record AuditRecord
	err = json.Unmarshal(value, &record)
	if err != nil {
		return AuditRecord{}, errors.Wrap(err, "unmarshalling audit record")
	}

	return record, nil
}

func (s *AuditStore) GetRecordsForSlot(ctx context.Context, slot uint64) ([]AuditRecord, error) {
	prefix := slotPrefix(slot)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating iterator")
	}
	defer iter.Close()

	records := make([]AuditRecord, 0)
	for iter.First(); iter.Valid(); iter.Next() {
		var record AuditRecord
		err = json.Unmarshal(iter.Value(), &record)
		if err != nil {
			return nil, errors.Wrap(err, "unmarshalling audit record")
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}

	return records, nil
}

func (s *AuditStore) SetLastRun(ctx context.Context, summary RunSummary) error {
	key := []byte{lastRunKey}
	value, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "marshalling run summary")
	}

	err = s.db.Set(key, value, pebble.Sync)
	if err != nil {
		return errors.Wrap(err, "storing run summary")
	}

	return nil
}

func (s *AuditStore) GetLastRun(ctx context.Context) (RunSummary, error) {
	key := []byte{lastRunKey}
	value, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return RunSummary{}, ErrNotFound
		}

		return RunSummary{}, errors.Wrap(err, "getting run summary")
	}
	defer closer.Close()

	var summary RunSummary
	err = json.Unmarshal(value, &summary)
	if err != nil {
		return RunSummary{}, errors.Wrap(err, "unmarshalling run summary")
	}

	return summary, nil
}

func (s *AuditStore) Close() error {
	return s.db.Close()
}
