package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// OrderNumberGenerator issues human-readable order IDs of the form
// PREFIX-YYYYMMDDhhmmss-SSSSRRRRRR: a per-process sequence (S) followed by
// random hex (R), so IDs stay distinct within a process and across replicas.
type OrderNumberGenerator struct {
	prefix string
	seq    atomic.Uint32
	now    func() time.Time
}

// NewOrderNumberGenerator creates a generator using prefix.
func NewOrderNumberGenerator(prefix string) *OrderNumberGenerator {
	return &OrderNumberGenerator{prefix: prefix, now: time.Now}
}

// Next returns a new order ID. Safe for concurrent use.
func (g *OrderNumberGenerator) Next() string {
	seq := g.seq.Add(1) & 0xFFFF
	rnd := uuid.New()
	return fmt.Sprintf("%s-%s-%04X%s",
		g.prefix,
		g.now().UTC().Format("20060102150405"),
		seq,
		strings.ToUpper(fmt.Sprintf("%x", rnd[:3])),
	)
}
