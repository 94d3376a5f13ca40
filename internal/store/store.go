// Package store persists the domain collections as whole-collection JSON
// snapshots under fixed keys in the key-value storage. Every mutation loads
// the full collection, mutates it in memory, and writes it back; the last
// writer wins. Missing or malformed snapshots load as empty collections.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/interfaces"
)

// Fixed storage keys, one JSON string per logical collection.
const (
	keyPortfolio    = "portfolio"
	keyTransactions = "transactions"
	keyExpenses     = "expenses"
	keyGoals        = "goals"
	keyCart         = "cart"
	keySettings     = "settings"
)

// base carries the snapshot plumbing shared by every collection store.
type base struct {
	kv     interfaces.KeyValueStorage
	logger *common.Logger
}

func newBase(kv interfaces.KeyValueStorage, logger *common.Logger) base {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return base{kv: kv, logger: logger}
}

// loadJSON reads the snapshot under key into v. A missing key or malformed
// JSON leaves v untouched (the caller's empty default) and is logged only;
// parse failures never propagate.
func (b base) loadJSON(key string, v any) {
	raw, err := b.kv.Get(context.Background(), key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			b.logger.Warn().Str("key", key).Str("error", err.Error()).Msg("failed to read collection, using empty default")
		}
		return
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		b.logger.Warn().Str("key", key).Str("error", err.Error()).Msg("malformed collection snapshot, using empty default")
	}
}

// saveJSON writes the whole collection snapshot. Failures are logged and
// reported as false; callers do not retry.
func (b base) saveJSON(key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Error().Str("key", key).Str("error", err.Error()).Msg("failed to marshal collection")
		return false
	}
	if err := b.kv.Set(context.Background(), key, string(data)); err != nil {
		b.logger.Error().Str("key", key).Str("error", err.Error()).Msg("failed to persist collection")
		return false
	}
	return true
}

// NewID generates a record ID combining the current timestamp with a random
// suffix. Collisions are practically impossible within a session; there is
// no cross-session uniqueness guarantee.
func NewID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
