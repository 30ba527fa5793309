package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// KVEntry: kv_entries 테이블 행
type KVEntry struct {
	Key       string    `gorm:"column:key;primaryKey;type:text"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (KVEntry) TableName() string { return "kv_entries" }

// SQLite: 명단 JSON을 SQLite kv_entries 테이블의 한 행에 저장한다.
type SQLite struct {
	db  *gorm.DB
	key string
	now func() time.Time
}

// OpenSQLiteDB: 파일 경로(또는 ":memory:")로 SQLite DB를 연다.
func OpenSQLiteDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s failed: %w", path, err)
	}
	if path == ":memory:" {
		// 커넥션마다 별도 DB가 생기므로 하나만 사용한다
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db failed: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewSQLite: 테이블을 준비하고 SQLite 저장소를 생성합니다.
func NewSQLite(ctx context.Context, db *gorm.DB, key string) (*SQLite, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := db.WithContext(ctx).AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries failed: %w", err)
	}
	return &SQLite{db: db, key: key, now: time.Now}, nil
}

func (s *SQLite) Read(ctx context.Context) ([]byte, bool, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: s.key}).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, ReadError{Backend: BackendSQLite, Key: s.key, Err: err}
	}
	return []byte(entry.Value), true, nil
}

func (s *SQLite) Write(ctx context.Context, payload []byte) error {
	entry := KVEntry{Key: s.key, Value: string(payload), UpdatedAt: s.now()}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error; err != nil {
		return WriteError{Backend: BackendSQLite, Key: s.key, Err: err}
	}
	return nil
}

// Close: 내부 DB 연결을 닫는다.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db failed: %w", err)
	}
	return sqlDB.Close()
}
