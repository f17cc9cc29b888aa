package generator

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math/rand/v2"

	"github.com/de-tools/blocks/pkg/models/domain"
)

// Seed is derived from a tenant and a calendar day. It is recomputed on every
// request and never stored.
type Seed struct {
	hi, lo uint64
}

func NewSeed(tenantID string, day domain.CalendarDay) Seed {
	sum := sha256.Sum256([]byte(tenantID + "|" + day.String()))
	return Seed{
		hi: binary.BigEndian.Uint64(sum[0:8]),
		lo: binary.BigEndian.Uint64(sum[8:16]),
	}
}

// Rand returns a fresh pseudo-random stream positioned at the start of the seed.
func (s Seed) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(s.hi, s.lo))
}

func (s Seed) String() string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], s.hi)
	binary.BigEndian.PutUint64(b[8:16], s.lo)
	return hex.EncodeToString(b[:])
}
