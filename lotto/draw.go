// Package lotto draws 6-of-45 lottery numbers plus a bonus ball and renders
// them as a terminal ticket or a PNG card.
package lotto

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

const (
	MinNumber = 1
	MaxNumber = 45
	Picks     = 6
)

var ErrInvalidDraw = errors.New("invalid draw")

// Draw is one result: six distinct numbers in ascending order and a bonus
// number that is not among them.
type Draw struct {
	Numbers [Picks]int
	Bonus   int
}

// NewRand returns a generator seeded from seed, or from crypto/rand when
// seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed != 0 {
		return rand.New(rand.NewPCG(seed, seed))
	}
	var key [32]byte
	if _, err := crand.Read(key[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewChaCha8(key))
}

// Generate draws Picks+1 distinct numbers uniformly from [MinNumber, MaxNumber]
// with a partial Fisher-Yates shuffle. The first six are sorted into
// Numbers; the seventh becomes the bonus.
func Generate(rng *rand.Rand) Draw {
	var pool [MaxNumber - MinNumber + 1]int
	for i := range pool {
		pool[i] = MinNumber + i
	}
	for i := 0; i <= Picks; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	var d Draw
	copy(d.Numbers[:], pool[:Picks])
	slices.Sort(d.Numbers[:])
	d.Bonus = pool[Picks]
	return d
}

// Validate checks range, ordering and bonus uniqueness.
func (d Draw) Validate() error {
	for i, n := range d.Numbers {
		if n < MinNumber || n > MaxNumber {
			return fmt.Errorf("%w: number %d out of range", ErrInvalidDraw, n)
		}
		if i > 0 && d.Numbers[i-1] >= n {
			return fmt.Errorf("%w: numbers not strictly increasing at %d", ErrInvalidDraw, i)
		}
		if n == d.Bonus {
			return fmt.Errorf("%w: bonus %d repeats a main number", ErrInvalidDraw, n)
		}
	}
	if d.Bonus < MinNumber || d.Bonus > MaxNumber {
		return fmt.Errorf("%w: bonus %d out of range", ErrInvalidDraw, d.Bonus)
	}
	return nil
}

// String formats the draw as "3 11 19 27 33 42 + 7".
func (d Draw) String() string {
	parts := make([]string, 0, Picks+2)
	for _, n := range d.Numbers {
		parts = append(parts, strconv.Itoa(n))
	}
	parts = append(parts, "+", strconv.Itoa(d.Bonus))
	return strings.Join(parts, " ")
}
