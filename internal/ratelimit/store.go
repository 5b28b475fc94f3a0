// Package ratelimit implements RateLimiter: a persisted sliding-window hit
// counter keyed by "addr:<hex20>" and "ip:<clientIP>", per spec §4.5.
// Persistence is a GORM-backed SQLite table, grounded on
// universalClient/db.OpenFileDB's WAL-mode dial and universalClient/store's
// gorm.Model-based schema style.
package ratelimit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	storeDirPermissions = 0o750
)

// hit is one recorded timestamp against a rate-limit key family.
type hit struct {
	gorm.Model
	Key       string `gorm:"index:idx_key_ts"`
	TimestampMS int64 `gorm:"index:idx_key_ts"`
}

// TableName pins the table name regardless of struct renames.
func (hit) TableName() string {
	return "rate_limit_hits"
}

// Limiter is the single-writer-serialized, concurrent-read RateLimiter.
// Writes (Record) are serialized with mu; reads (Check) take a read lock,
// matching §4.5's "single-writer serialization, concurrent reads"
// concurrency note.
type Limiter struct {
	db  *gorm.DB
	mu  sync.RWMutex
	log zerolog.Logger

	addrWindow time.Duration
	addrLimit  int
	ipWindow   time.Duration
	ipLimit    int
}

// Config bundles the per-family window/limit pairs.
type Config struct {
	AddrWindow time.Duration
	AddrLimit  int
	IPWindow   time.Duration
	IPLimit    int
}

// Open opens (or creates) the SQLite-backed hit store at storePath.
func Open(storePath string, cfg Config, log zerolog.Logger) (*Limiter, error) {
	dsn, err := prepareDSN(storePath)
	if err != nil {
		return nil, errors.Wrap(err, "prepare ratelimit store path")
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.Wrap(err, "open ratelimit sqlite store")
	}
	if err := db.AutoMigrate(&hit{}); err != nil {
		return nil, errors.Wrap(err, "migrate ratelimit schema")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get underlying sql.DB")
	}
	sqlDB.SetMaxOpenConns(1)

	return &Limiter{
		db:         db,
		log:        log.With().Str("component", "ratelimit").Logger(),
		addrWindow: cfg.AddrWindow,
		addrLimit:  cfg.AddrLimit,
		ipWindow:   cfg.IPWindow,
		ipLimit:    cfg.IPLimit,
	}, nil
}

// Close releases the underlying database handle.
func (l *Limiter) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AddrKey builds the "addr:<hex20>" key family.
func AddrKey(hex20 string) string {
	return "addr:" + strings.ToLower(hex20)
}

// IPKey builds the "ip:<clientIP>" key family.
func IPKey(clientIP string) string {
	return "ip:" + clientIP
}

// Decision is the outcome of a Check call.
type Decision struct {
	Allowed bool
	RetryAt time.Time
}

// Check reports whether both the address and IP key families are within
// their configured window/limit, per §4.5: "allowed iff the number of hits
// within the window is less than the limit, for every key family checked".
// It returns the later of the two RetryAt times when blocked.
func (l *Limiter) Check(addrKey, ipKey string, now time.Time) (Decision, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	addrDecision, err := l.checkFamily(addrKey, l.addrWindow, l.addrLimit, now)
	if err != nil {
		return Decision{}, err
	}
	ipDecision, err := l.checkFamily(ipKey, l.ipWindow, l.ipLimit, now)
	if err != nil {
		return Decision{}, err
	}

	if addrDecision.Allowed && ipDecision.Allowed {
		return Decision{Allowed: true}, nil
	}
	retryAt := addrDecision.RetryAt
	if ipDecision.RetryAt.After(retryAt) {
		retryAt = ipDecision.RetryAt
	}
	return Decision{Allowed: false, RetryAt: retryAt}, nil
}

func (l *Limiter) checkFamily(key string, window time.Duration, limit int, now time.Time) (Decision, error) {
	cutoffMS := now.Add(-window).UnixMilli()

	var count int64
	if err := l.db.Model(&hit{}).Where("key = ? AND timestamp_ms >= ?", key, cutoffMS).Count(&count).Error; err != nil {
		return Decision{}, errors.Wrap(err, "count rate limit hits")
	}
	if int(count) < limit {
		return Decision{Allowed: true}, nil
	}

	var oldest hit
	if err := l.db.Model(&hit{}).Where("key = ? AND timestamp_ms >= ?", key, cutoffMS).
		Order("timestamp_ms asc").First(&oldest).Error; err != nil {
		return Decision{}, errors.Wrap(err, "find oldest rate limit hit")
	}
	retryAt := time.UnixMilli(oldest.TimestampMS).Add(window)
	return Decision{Allowed: false, RetryAt: retryAt}, nil
}

// Record appends a hit at now for both key families and compacts
// timestamps older than the wider of the two windows. Called only after a
// successful dispense, per §4.5.
func (l *Limiter) Record(addrKey, ipKey string, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	nowMS := now.UnixMilli()
	rows := []hit{
		{Key: addrKey, TimestampMS: nowMS},
		{Key: ipKey, TimestampMS: nowMS},
	}
	if err := l.db.Create(&rows).Error; err != nil {
		return errors.Wrap(err, "record rate limit hit")
	}

	window := l.addrWindow
	if l.ipWindow > window {
		window = l.ipWindow
	}
	cutoffMS := now.Add(-window).UnixMilli()
	if err := l.db.Where("key IN ? AND timestamp_ms < ?", []string{addrKey, ipKey}, cutoffMS).Delete(&hit{}).Error; err != nil {
		l.log.Warn().Err(err).Msg("rate limit compaction failed, continuing")
	}
	return nil
}

func prepareDSN(storePath string) (string, error) {
	dir := filepath.Dir(storePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, storeDirPermissions); err != nil {
			return "", fmt.Errorf("create ratelimit store directory: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("stat ratelimit store directory: %w", err)
	}
	return storePath + "?_journal_mode=WAL&_busy_timeout=5000", nil
}
