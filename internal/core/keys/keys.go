// Package keys generates opaque surrogate keys for dimension rows
//
// Keys are unique within a run and carry no meaning: they are not derived from
// natural keys and change on every run.
package keys

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	perr "factsongs/internal/platform/errors"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator produces one opaque id per call
type Generator interface {
	New() (string, error)
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func() (string, error)

// New implements Generator
func (f GeneratorFunc) New() (string, error) { return f() }

// UUID returns random (v4) UUID strings
func UUID() Generator {
	return GeneratorFunc(func() (string, error) {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", err
		}
		return id.String(), nil
	})
}

// ULID returns ULIDs with fresh crypto/rand entropy per id
// ids minted in the same millisecond share a prefix but their random part is
// unrelated to call order
func ULID() Generator {
	return GeneratorFunc(func() (string, error) {
		id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
		if err != nil {
			return "", err
		}
		return strings.ToLower(id.String()), nil
	})
}

// Generator names accepted by ByName
const (
	KindUUID = "uuid"
	KindULID = "ulid"
)

// ByName picks a generator from config
func ByName(name string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", KindUUID:
		return UUID(), nil
	case KindULID:
		return ULID(), nil
	default:
		return nil, perr.InvalidArgf("keys: unknown generator %q", name)
	}
}

// maxRetries bounds regeneration after a collision within one Assigner
const maxRetries = 8

// Assigner hands out ids that are distinct across every call in one run
type Assigner struct {
	gen  Generator
	used map[string]struct{}
}

// NewAssigner starts a fresh run-scoped assigner
func NewAssigner(gen Generator) *Assigner {
	if gen == nil {
		gen = UUID()
	}
	return &Assigner{gen: gen, used: make(map[string]struct{})}
}

// Next returns an id not previously returned by this assigner
func (a *Assigner) Next() (string, error) {
	for range maxRetries {
		id, err := a.gen.New()
		if err != nil {
			return "", fmt.Errorf("keys: generate: %w", err)
		}
		if _, dup := a.used[id]; dup {
			continue
		}
		a.used[id] = struct{}{}
		return id, nil
	}
	return "", perr.Internalf("keys: %d consecutive collisions", maxRetries)
}

// Assign returns n distinct ids in one call
func (a *Assigner) Assign(n int) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		id, err := a.Next()
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
