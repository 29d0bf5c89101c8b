// Package idgen supplies the fresh-identifier capability used by the room and
// message stores.
package idgen

import (
	"fmt"
	"strings"
)

// Generator produces globally unique string identifiers.
type Generator interface {
	Generate() (string, error)
}

// Kinds understood by New.
const (
	KindUUID   = "uuid"
	KindULID   = "ulid"
	KindKSUID  = "ksuid"
	KindNanoID = "nanoid"
	KindCUID2  = "cuid2"
)

// Options tunes the generators that accept parameters.
type Options struct {
	NanoIDSize  int
	CUID2Length int
}

// New returns the generator registered under kind. An empty kind means uuid.
func New(kind string, opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindUUID, "":
		return UUID(), nil
	case KindULID:
		return NewULIDGenerator(), nil
	case KindKSUID:
		return KSUID(), nil
	case KindNanoID:
		return NanoID(orDefault(opts.NanoIDSize, DefaultNanoIDSize))
	case KindCUID2:
		return CUID2(orDefault(opts.CUID2Length, DefaultCUID2Length))
	default:
		return nil, fmt.Errorf("unsupported id generator kind: %s", kind)
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Func adapts a plain function to Generator.
type Func func() (string, error)

func (f Func) Generate() (string, error) { return f() }
