package idgen

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nrednav/cuid2"
	"github.com/segmentio/ksuid"
)

const (
	DefaultNanoIDSize  = 21
	DefaultCUID2Length = 24
	nanoIDAlphabet     = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxNanoIDSize      = 256
	minCUID2, maxCUID2 = 2, 32
)

// UUID yields random version 4 UUIDs in canonical form.
func UUID() Generator {
	return Func(func() (string, error) {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("uuid: %w", err)
		}
		return id.String(), nil
	})
}

// KSUID yields 27-character ids that sort by creation second.
func KSUID() Generator {
	return Func(func() (string, error) {
		id, err := ksuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("ksuid: %w", err)
		}
		return id.String(), nil
	})
}

// NanoID yields URL-safe ids of the given length.
func NanoID(size int) (Generator, error) {
	if size < 1 || size > maxNanoIDSize {
		return nil, fmt.Errorf("nanoid size must be between 1 and %d, got %d", maxNanoIDSize, size)
	}
	return Func(func() (string, error) {
		id, err := gonanoid.Generate(nanoIDAlphabet, size)
		if err != nil {
			return "", fmt.Errorf("nanoid: %w", err)
		}
		return id, nil
	}), nil
}

// CUID2 yields collision-resistant ids of the given length.
func CUID2(length int) (Generator, error) {
	if length < minCUID2 || length > maxCUID2 {
		return nil, fmt.Errorf("cuid2 length must be between %d and %d, got %d", minCUID2, maxCUID2, length)
	}
	next, err := cuid2.Init(cuid2.WithLength(length))
	if err != nil {
		return nil, fmt.Errorf("cuid2: %w", err)
	}
	return Func(func() (string, error) { return next(), nil }), nil
}
