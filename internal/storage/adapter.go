package storage

import (
	"fmt"

	"github.com/matheus3301/localchat/internal/model"
	"go.uber.org/zap"
)

// Record key namespace shared with the original browser client.
const (
	ProfilePrefix   = "chatapp_user_"
	ActiveKeyRecord = "chatapp_current_user"
)

// ProfileSummary is the identity part of a stored profile.
type ProfileSummary struct {
	Key      string
	Username string
}

// Adapter persists whole profiles and the active-user pointer in the records table.
type Adapter struct {
	db             *DB
	maxRecordBytes int
	logger         *zap.Logger
}

// NewAdapter creates an adapter. maxRecordBytes <= 0 disables the quota.
func NewAdapter(db *DB, maxRecordBytes int, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{db: db, maxRecordBytes: maxRecordBytes, logger: logger}
}

// GenerateKey returns a fresh user key.
func (a *Adapter) GenerateKey() (string, error) {
	return GenerateKey()
}

func profileRecordKey(key string) string {
	return ProfilePrefix + key
}

// Load returns the stored profile for key, or nil if it is missing or corrupt.
// The returned profile carries the row version for a later conditional Save.
func (a *Adapter) Load(key string) (*model.Profile, error) {
	rec, err := a.db.GetRecord(profileRecordKey(key))
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", key, err)
	}
	if rec == nil {
		return nil, nil
	}
	p, err := model.Decode([]byte(rec.Value))
	if err != nil {
		a.logger.Warn("ignoring corrupt profile record", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	p.Version = rec.Version
	return p, nil
}

// Save writes the whole profile. A profile with Version 0 is written
// unconditionally; otherwise the write only succeeds if the stored row is
// still at that version. On success p.Version is advanced.
func (a *Adapter) Save(key string, p *model.Profile) error {
	data, err := model.Encode(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w: %v", key, ErrSerialization, err)
	}
	if a.maxRecordBytes > 0 && len(data) > a.maxRecordBytes {
		return fmt.Errorf("profile %s is %d bytes, limit %d: %w", key, len(data), a.maxRecordBytes, ErrQuotaExceeded)
	}

	var version int64
	if p.Version == 0 {
		version, err = a.db.PutRecord(profileRecordKey(key), string(data))
	} else {
		version, err = a.db.PutRecordIfVersion(profileRecordKey(key), string(data), p.Version)
	}
	if err != nil {
		return fmt.Errorf("save profile %s: %w", key, err)
	}
	p.Version = version
	a.logger.Debug("profile saved", zap.String("key", key), zap.Int64("version", version), zap.Int("bytes", len(data)))
	return nil
}

// Exists reports whether a readable profile is stored under key.
func (a *Adapter) Exists(key string) (bool, error) {
	p, err := a.Load(key)
	return p != nil, err
}

// SetActiveKey points the active-user record at key.
func (a *Adapter) SetActiveKey(key string) error {
	if _, err := a.db.PutRecord(ActiveKeyRecord, key); err != nil {
		return fmt.Errorf("set active key: %w", err)
	}
	return nil
}

// ActiveKey returns the active user key, or "" if nobody is signed in.
func (a *Adapter) ActiveKey() (string, error) {
	rec, err := a.db.GetRecord(ActiveKeyRecord)
	if err != nil {
		return "", fmt.Errorf("get active key: %w", err)
	}
	if rec == nil {
		return "", nil
	}
	return rec.Value, nil
}

// ClearActiveKey removes the active-user pointer. Profiles are kept.
func (a *Adapter) ClearActiveKey() error {
	if err := a.db.DeleteRecord(ActiveKeyRecord); err != nil {
		return fmt.Errorf("clear active key: %w", err)
	}
	return nil
}

// ListProfiles scans every stored profile. Unreadable records are skipped.
func (a *Adapter) ListProfiles() ([]ProfileSummary, error) {
	records, err := a.db.ScanPrefix(ProfilePrefix)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	summaries := make([]ProfileSummary, 0, len(records))
	for _, rec := range records {
		p, err := model.Decode([]byte(rec.Value))
		if err != nil {
			a.logger.Debug("skipping corrupt profile record", zap.String("record", rec.Key), zap.Error(err))
			continue
		}
		summaries = append(summaries, ProfileSummary{
			Key:      rec.Key[len(ProfilePrefix):],
			Username: p.Username,
		})
	}
	return summaries, nil
}
