// Package identifier allocates ids for doctors, patients, beds, invoices,
// medicines and service line items.
//
// Doctor ids keep the front desk's readable "<code><3 digits>" shape and are
// drawn at random from the 900-slot space 100..999. Every other kind uses a
// per-kind monotonic sequence, so those ids never collide within a process.
package identifier

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidIdentifierFormat = errors.New("invalid identifier format")
	ErrDuplicateIdentifier     = errors.New("duplicate identifier")
	// ErrAllocationExhausted means every doctor slot for a code is in use.
	// Callers should fall back to manual id entry.
	ErrAllocationExhausted = errors.New("identifier space exhausted")
)

const (
	DefaultDoctorAttempts = 50

	doctorSlotMin = 100
	doctorSlotMax = 999
)

var codePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// Kind names a sequence-backed entity kind.
type Kind string

const (
	KindPatient  Kind = "patient"
	KindBed      Kind = "bed"
	KindInvoice  Kind = "invoice"
	KindMedicine Kind = "medicine"
)

type format struct {
	prefix string
	width  int
}

var formats = map[Kind]format{
	KindPatient:  {prefix: "P", width: 6},
	KindBed:      {prefix: "B", width: 4},
	KindInvoice:  {prefix: "INV", width: 4},
	KindMedicine: {prefix: "M", width: 3},
}

// ServiceItemPrefix marks service line item ids.
const ServiceItemPrefix = "S-"

// Allocator hands out identifiers. The zero value is not usable; call New.
type Allocator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	now       func() time.Time
	attempts  int
	seqs      map[Kind]int
	lastStamp int64
	log       zerolog.Logger
}

type Option func(*Allocator)

// WithRand sets the random source used for doctor ids.
func WithRand(r *rand.Rand) Option { return func(a *Allocator) { a.rng = r } }

// WithClock sets the clock used for the time-derived doctor id candidate.
func WithClock(now func() time.Time) Option { return func(a *Allocator) { a.now = now } }

// WithAttempts sets how many random doctor ids are tried before falling back.
func WithAttempts(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.attempts = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(a *Allocator) { a.log = l } }

func New(opts ...Option) *Allocator {
	a := &Allocator{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		attempts: DefaultDoctorAttempts,
		seqs:     make(map[Kind]int),
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// -- Doctor ids --

// DoctorID returns a doctor id for code that is not in existing.
//
// It draws up to the configured number of random candidates, then tries one
// candidate derived from a monotonic millisecond clock, folded into the
// slot range. That candidate has no uniqueness guarantee of its own and is only
// used when free. If both fail, the slot space is scanned in order, and
// ErrAllocationExhausted is returned only when all 900 slots are taken.
func (a *Allocator) DoctorID(code string, existing []string) (string, error) {
	if !codePattern.MatchString(code) {
		return "", fmt.Errorf("%w: specialization code %q", ErrInvalidIdentifierFormat, code)
	}
	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}
	free := func(id string) bool {
		_, ok := taken[id]
		return !ok
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < a.attempts; i++ {
		n := doctorSlotMin + a.rng.Intn(doctorSlotMax-doctorSlotMin+1)
		if id := doctorID(code, n); free(id) {
			return id, nil
		}
	}

	fallback := doctorID(code, doctorSlotMin+int(a.stamp()%(doctorSlotMax-doctorSlotMin+1)))
	if free(fallback) {
		a.log.Warn().Str("code", code).Str("id", fallback).Msg("doctor id taken from clock fallback")
		return fallback, nil
	}

	for n := doctorSlotMin; n <= doctorSlotMax; n++ {
		if id := doctorID(code, n); free(id) {
			a.log.Warn().Str("code", code).Str("id", id).Msg("doctor id taken from slot scan")
			return id, nil
		}
	}
	a.log.Error().Str("code", code).Int("existing", len(existing)).Msg("doctor id space exhausted")
	return "", fmt.Errorf("%w: no free %s id", ErrAllocationExhausted, code)
}

// ValidateDoctorID checks a manually entered id against code and existing.
func (a *Allocator) ValidateDoctorID(id, code string, existing []string) error {
	return ValidateDoctorID(id, code, existing)
}

// ValidateDoctorID checks that id is code followed by exactly three digits
// and that it is not already in existing.
func ValidateDoctorID(id, code string, existing []string) error {
	if !codePattern.MatchString(code) || !doctorPattern(code).MatchString(id) {
		return fmt.Errorf("%w: must be %s followed by 3 digits (e.g. %s123), got %q",
			ErrInvalidIdentifierFormat, code, code, id)
	}
	for _, e := range existing {
		if e == id {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, id)
		}
	}
	return nil
}

func doctorPattern(code string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(code) + `\d{3}$`)
}

func doctorID(code string, n int) string {
	return code + strconv.Itoa(n)
}

// stamp returns a strictly increasing millisecond reading.
func (a *Allocator) stamp() int64 {
	ts := a.now().UnixMilli()
	if ts <= a.lastStamp {
		ts = a.lastStamp + 1
	}
	a.lastStamp = ts
	return ts
}

// -- Sequences --

// Next returns the next id for kind, e.g. "P000003" or "INV0042".
func (a *Allocator) Next(kind Kind) string {
	f, ok := formats[kind]
	if !ok {
		panic(fmt.Sprintf("identifier: unknown kind %q", kind))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seqs[kind]++
	return fmt.Sprintf("%s%0*d", f.prefix, f.width, a.seqs[kind])
}

// Observe advances the kind's sequence past an id that already exists, such
// as one loaded from seed data. Ids that do not carry the kind's prefix and a
// numeric suffix are ignored.
func (a *Allocator) Observe(kind Kind, id string) {
	f, ok := formats[kind]
	if !ok {
		return
	}
	digits, ok := strings.CutPrefix(id, f.prefix)
	if !ok || digits == "" {
		return
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if n > a.seqs[kind] {
		a.seqs[kind] = n
	}
}

// ServiceItemID returns a prefixed random UUID for a ledger line item.
func (a *Allocator) ServiceItemID() string {
	return ServiceItemPrefix + uuid.NewString()
}
