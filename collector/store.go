// This file is part of Traceboy.
//
// Traceboy is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Traceboy is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Traceboy.  If not, see <https://www.gnu.org/licenses/>.

package collector

import (
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jetsetilly/traceboy/curated"
)

// Sentinal error patterns.
const (
	StoreError = "collector: store: %v"
)

// Record is a single trace window as stored in the database.
type Record struct {
	ID         string `gorm:"primaryKey;size:36"`
	Connection string `gorm:"index:idx_connection_sequence;size:36"`
	Sequence   int    `gorm:"index:idx_connection_sequence"`
	Received   time.Time

	ContentFingerprint    uint32 `gorm:"index"`
	StartStateFingerprint uint32
	EndStateFingerprint   uint32

	StartState []byte
	Inputs     []byte
	Frames     int

	Verification Verification `gorm:"size:16"`
	Detail       string
}

// TableName implements the gorm tabler interface.
func (Record) TableName() string {
	return "records"
}

// Store is the database of records. It is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

// OpenStore opens the database at the specified path, creating it if
// necessary. An empty path is an in-memory database.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	// sqlite allows only one writer. an in-memory database only exists for
	// as long as its connection
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, curated.Errorf(StoreError, err)
		}
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	return &Store{db: db}, nil
}

// Close the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return curated.Errorf(StoreError, err)
	}
	if err := sqlDB.Close(); err != nil {
		return curated.Errorf(StoreError, err)
	}
	return nil
}

// Add a record to the database.
func (s *Store) Add(rec *Record) error {
	if err := s.db.Create(rec).Error; err != nil {
		return curated.Errorf(StoreError, err)
	}
	return nil
}

// Count returns the number of records in the database.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&Record{}).Count(&n).Error; err != nil {
		return 0, curated.Errorf(StoreError, err)
	}
	return n, nil
}

// Records returns every record from the connection in sequence order.
func (s *Store) Records(connection string) ([]Record, error) {
	var recs []Record
	err := s.db.Where("connection = ?", connection).Order("sequence").Find(&recs).Error
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}
	return recs, nil
}

// Chain summarises the records from a single connection.
type Chain struct {
	Connection string
	Records    int

	// number of consecutive pairs where the start state of the second record
	// is the end state of the first
	Links int

	// number of consecutive pairs that are not linked. a break is expected
	// after a reset, a reload or a lost record
	Breaks int

	// counts of each verification outcome
	Verified   int
	Mismatched int
}

// chainRow is a record without the state and input data
type chainRow struct {
	Connection            string
	Sequence              int
	StartStateFingerprint uint32
	EndStateFingerprint   uint32
	Verification          Verification
}

// Chains returns a Chain for every connection, ordered by connection ID.
func (s *Store) Chains() ([]Chain, error) {
	var rows []chainRow
	err := s.db.Model(&Record{}).
		Select("connection", "sequence", "start_state_fingerprint", "end_state_fingerprint", "verification").
		Order("connection, sequence").
		Find(&rows).Error
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	var chains []Chain
	idx := make(map[string]int)
	last := make(map[string]chainRow)

	for _, r := range rows {
		i, ok := idx[r.Connection]
		if !ok {
			i = len(chains)
			idx[r.Connection] = i
			chains = append(chains, Chain{Connection: r.Connection})
		}

		c := &chains[i]
		c.Records++

		switch r.Verification {
		case Verified:
			c.Verified++
		case Mismatch:
			c.Mismatched++
		}

		if prev, ok := last[r.Connection]; ok {
			if prev.EndStateFingerprint == r.StartStateFingerprint {
				c.Links++
			} else {
				c.Breaks++
			}
		}
		last[r.Connection] = r
	}

	return chains, nil
}
