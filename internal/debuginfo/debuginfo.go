// Package debuginfo is a content-addressed store of DebugInfo::File records
// (spec.md §4.4.1) plus the resolver's per-declaration SizeInfo layout
// cache (spec.md §4.3.2), backed by gorm the way the teacher's db/sqlite.go
// and models/models.go use it: a pure-Go sqlite dialector, JSON columns for
// structured payloads, and AutoMigrate-based schema setup.
package debuginfo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// File is one content-addressed debug-info record: the compilation unit's
// path, its content hash (the addressing key), and its cached aggregate
// size/alignment table, reused across compilation units that include the
// same file (spec.md §4.4.1's "DebugInfo::File", generalized beyond a
// single translation unit to the whole build session).
type File struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Path        string `gorm:"type:text;not null;index"`
	ContentHash string `gorm:"type:varchar(64);uniqueIndex;not null"`

	// LayoutCache maps a declaration's mangled name to its resolved
	// SizeInfo, serialized as JSON so the resolver's decl.SizeInfo cache
	// survives across process runs without needing its own migration.
	LayoutCache datatypes.JSON `gorm:"type:jsonb"`

	SessionID string `gorm:"type:varchar(36);index"`
}

func (File) TableName() string { return "debug_files" }

// Store wraps a *gorm.DB scoped to the debuginfo schema.
type Store struct {
	db *gorm.DB
}

// Open connects to (and creates if absent) a sqlite database at path and
// applies migrations, mirroring the teacher's db.Connect + db.Migrate pair.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("debuginfo: creating directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("debuginfo: connecting: %w", err)
	}
	if err := db.AutoMigrate(&File{}); err != nil {
		return nil, fmt.Errorf("debuginfo: migrating: %w", err)
	}
	return &Store{db: db}, nil
}

// ContentHash computes the blake2b-256 content-address for src, the key
// under which a File record is looked up or inserted.
func ContentHash(src []byte) (string, error) {
	sum := blake2b.Sum256(src)
	return fmt.Sprintf("%x", sum), nil
}

// Lookup returns the File record for the given content hash, if a prior
// compilation already stored one.
func (s *Store) Lookup(contentHash string) (*File, bool, error) {
	var f File
	err := s.db.Where("content_hash = ?", contentHash).First(&f).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("debuginfo: lookup: %w", err)
	}
	return &f, true, nil
}

// Put inserts or updates the record for path/contentHash, storing
// layoutCacheJSON as its serialized SizeInfo table. sessionID groups
// records from the same build session (spec.md's MIR Module sessions).
func (s *Store) Put(path, contentHash string, layoutCacheJSON []byte, sessionID string) (*File, error) {
	existing, found, err := s.Lookup(contentHash)
	if err != nil {
		return nil, err
	}
	if found {
		existing.LayoutCache = datatypes.JSON(layoutCacheJSON)
		if err := s.db.Save(existing).Error; err != nil {
			return nil, fmt.Errorf("debuginfo: updating: %w", err)
		}
		return existing, nil
	}

	f := &File{
		ID:          uuid.NewString(),
		Path:        path,
		ContentHash: contentHash,
		LayoutCache: datatypes.JSON(layoutCacheJSON),
		SessionID:   sessionID,
	}
	if err := s.db.Create(f).Error; err != nil {
		return nil, fmt.Errorf("debuginfo: inserting: %w", err)
	}
	return f, nil
}

// NewSessionID returns a fresh build-session identifier, the companion ID
// space spec.md's MIR Module uses to distinguish one compilation run's
// debug-info records from another's (grounded on the teacher's opaque
// generated-ID convention in internal/db).
func NewSessionID() string {
	return uuid.NewString()
}

// Close releases the underlying *sql.DB handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
