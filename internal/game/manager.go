package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/playmatatu/tablescore/internal/access"
	"github.com/playmatatu/tablescore/internal/billiards"
	"github.com/playmatatu/tablescore/internal/config"
	"github.com/playmatatu/tablescore/internal/roster"
)

// TableManager holds every open table in memory.
type TableManager struct {
	tables    map[string]*Table
	rules     config.Rules
	config    *config.Config
	publisher Publisher
	newRand   func() *mrand.Rand
	mu        sync.RWMutex
}

// CreateRequest describes a new table.
type CreateRequest struct {
	Names        []string
	PIN          string
	TeamsPerSide int
	StartingSide *billiards.Side
	AutoContinue *bool
}

var (
	// Global table manager instance
	Manager *TableManager
)

// InitializeManager sets up the global manager and starts the expiry checker.
func InitializeManager(ctx context.Context, cfg *config.Config, rules config.Rules, pub Publisher) {
	Manager = NewTableManager(cfg, rules, pub)
	go Manager.StartExpiryChecker(ctx)
}

// NewTableManager creates an empty manager. pub may be nil.
func NewTableManager(cfg *config.Config, rules config.Rules, pub Publisher) *TableManager {
	return &TableManager{
		tables:    make(map[string]*Table),
		rules:     rules,
		config:    cfg,
		publisher: pub,
		newRand: func() *mrand.Rand {
			return mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))
		},
	}
}

// Rules returns the house rules new tables are created with.
func (tm *TableManager) Rules() config.Rules {
	return tm.rules
}

// GetConfig returns the application config.
func (tm *TableManager) GetConfig() *config.Config {
	return tm.config
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateTableID generates a unique table ID
func generateTableID() string {
	return "tbl_" + generateToken(8)
}

// CreateTable validates the roster, deals teams and opens a table.
func (tm *TableManager) CreateTable(req CreateRequest) (*Table, error) {
	names, err := roster.Validate(req.Names, tm.rules.MinNameLength)
	if err != nil {
		return nil, err
	}
	pinHash, err := access.HashPIN(req.PIN)
	if err != nil {
		return nil, err
	}

	rules := tm.rules
	if req.AutoContinue != nil {
		rules.AutoContinue = *req.AutoContinue
	}
	if req.TeamsPerSide > 0 {
		rules.TeamsPerSide = req.TeamsPerSide
	}

	teams := roster.Assign(names, rules.TeamsPerSide, tm.newRand())
	var opts []billiards.TurnOption
	if req.StartingSide != nil {
		opts = append(opts, billiards.WithStartingSide(*req.StartingSide))
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if limit := tm.maxTables(); limit > 0 && len(tm.tables) >= limit {
		return nil, ErrTooManyTables
	}

	t, err := newTable(generateTableID(), teams, rules, pinHash, opts...)
	if err != nil {
		return nil, err
	}
	t.notify = tm.publish
	tm.tables[t.ID] = t

	log.Printf("[TABLE] Created %s: %d players in %d teams, %s breaks", t.ID, len(names), len(teams), t.turns.CurrentTurn().Player)
	return t, nil
}

func (tm *TableManager) maxTables() int {
	if tm.config == nil {
		return 0
	}
	return tm.config.MaxTables
}

// GetTable returns an open table.
func (tm *TableManager) GetTable(id string) (*Table, error) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	t, ok := tm.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t, nil
}

// EndTable finishes and discards a table.
func (tm *TableManager) EndTable(id string) error {
	tm.mu.Lock()
	t, ok := tm.tables[id]
	if ok {
		delete(tm.tables, id)
	}
	tm.mu.Unlock()
	if !ok {
		return ErrTableNotFound
	}

	snap := t.Finish()
	log.Printf("[TABLE] Ended %s after %d game(s)", id, snap.GameNumber)
	return nil
}

// ActiveCount returns the number of open tables.
func (tm *TableManager) ActiveCount() int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return len(tm.tables)
}

func (tm *TableManager) publish(ev Event) {
	if tm.publisher == nil {
		return
	}
	if err := tm.publisher.Publish(context.Background(), ev); err != nil {
		log.Printf("[TABLE] Failed to publish %s for %s: %v", ev.Type, ev.TableID, err)
	}
}

// StartExpiryChecker discards tables that have been idle too long.
func (tm *TableManager) StartExpiryChecker(ctx context.Context) {
	interval := 60 * time.Second
	if tm.config != nil && tm.config.ExpiryCheckSeconds > 0 {
		interval = time.Duration(tm.config.ExpiryCheckSeconds) * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[EXPIRY] Table expiry checker started (every %s)", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("[EXPIRY] Table expiry checker stopping")
			return
		case now := <-ticker.C:
			if n := tm.checkExpiredTables(now); n > 0 {
				log.Printf("[EXPIRY] Discarded %d idle table(s)", n)
			}
		}
	}
}

// checkExpiredTables ends every table idle longer than TableIdleMinutes.
func (tm *TableManager) checkExpiredTables(now time.Time) int {
	if tm.config == nil || tm.config.TableIdleMinutes <= 0 {
		return 0
	}
	maxIdle := time.Duration(tm.config.TableIdleMinutes) * time.Minute

	// Collect candidates under read lock
	tm.mu.RLock()
	var expired []string
	for id, t := range tm.tables {
		if t.IdleSince(now) > maxIdle {
			expired = append(expired, id)
		}
	}
	tm.mu.RUnlock()

	count := 0
	for _, id := range expired {
		if err := tm.EndTable(id); err == nil {
			count++
		}
	}
	return count
}
