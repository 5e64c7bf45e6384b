// Package idgen generates the prefixed short identifiers used for every
// entity, e.g. "FL-48213" or "RES-90411". The numeric part is five random
// digits, so uniqueness is probabilistic; callers that insert into a store
// retry on collision.
package idgen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	rng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// New returns an identifier of the form "PREFIX-NNNNN" where NNNNN is a
// random number in [10000, 99999].
func New(prefix string) string {
	mu.Lock()
	n := 10000 + rng.Intn(90000)
	mu.Unlock()
	return fmt.Sprintf("%s-%d", prefix, n)
}
