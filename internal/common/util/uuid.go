package util

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

var (
	entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	m       sync.Mutex
)

// NewULID returns a lower-cased, monotonically increasing ULID.
func NewULID() string {
	return ULIDAt(time.Now())
}

// ULIDAt returns a lower-cased ULID whose timestamp component is t.
func ULIDAt(t time.Time) string {
	m.Lock()
	defer m.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}
