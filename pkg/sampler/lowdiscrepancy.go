package sampler

import (
	"math/bits"
	"math/rand/v2"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PrimeTableSize is the number of prime bases available for radical inverses
const PrimeTableSize = 1000

// permutationSeed fixes the digit permutations so every run scrambles identically
const permutationSeed = 0x5eed

var (
	primes     = firstPrimes(PrimeTableSize)
	primeSums  = prefixSums(primes)
	permOnce   sync.Once
	digitPerms []uint16
)

// firstPrimes returns the first n primes using a sieve
func firstPrimes(n int) []uint64 {
	limit := 8192
	for {
		composite := make([]bool, limit)
		result := make([]uint64, 0, n)
		for i := 2; i < limit && len(result) < n; i++ {
			if composite[i] {
				continue
			}
			result = append(result, uint64(i))
			for j := i * i; j < limit; j += i {
				composite[j] = true
			}
		}
		if len(result) == n {
			return result
		}
		limit *= 2
	}
}

func prefixSums(values []uint64) []uint64 {
	sums := make([]uint64, len(values)+1)
	for i, v := range values {
		sums[i+1] = sums[i] + v
	}
	return sums
}

// Prime returns the prime used as base for dimension baseIndex
func Prime(baseIndex int) uint64 {
	return primes[baseIndex%PrimeTableSize]
}

// RadicalInverse mirrors the digits of a in the prime base for baseIndex around the radix point
func RadicalInverse(baseIndex int, a uint64) float64 {
	if baseIndex == 0 {
		return min(float64(bits.Reverse64(a))*0x1p-64, core.OneMinusEpsilon)
	}
	base := Prime(baseIndex)
	invBase := 1.0 / float64(base)
	var reversedDigits uint64
	invBaseN := 1.0
	for a != 0 {
		next := a / base
		digit := a - next*base
		reversedDigits = reversedDigits*base + digit
		invBaseN *= invBase
		a = next
	}
	return min(float64(reversedDigits)*invBaseN, core.OneMinusEpsilon)
}

// InverseRadicalInverse recovers the integer whose first nDigits reversed base digits are inverse
func InverseRadicalInverse(base, inverse uint64, nDigits int) uint64 {
	var index uint64
	for i := 0; i < nDigits; i++ {
		digit := inverse % base
		inverse /= base
		index = index*base + digit
	}
	return index
}

// ScrambledRadicalInverse is RadicalInverse with every digit passed through perm,
// including the infinite tail of zero digits
func ScrambledRadicalInverse(baseIndex int, a uint64, perm []uint16) float64 {
	base := Prime(baseIndex)
	invBase := 1.0 / float64(base)
	var reversedDigits uint64
	invBaseN := 1.0
	for a != 0 {
		next := a / base
		digit := a - next*base
		reversedDigits = reversedDigits*base + uint64(perm[digit])
		invBaseN *= invBase
		a = next
	}
	tail := invBase * float64(perm[0]) / (1 - invBase)
	return min(invBaseN*(float64(reversedDigits)+tail), core.OneMinusEpsilon)
}

// PermutationForDimension returns the digit permutation for a dimension's base.
// Dimensions past the prime table reuse it modulo its size.
// The permutations are computed once per process and shared by all samplers.
func PermutationForDimension(dim int) []uint16 {
	permOnce.Do(computePermutations)
	i := dim % PrimeTableSize
	return digitPerms[primeSums[i]:primeSums[i+1]]
}

func computePermutations() {
	rng := rand.New(rand.NewPCG(permutationSeed, permutationSeed))
	digitPerms = make([]uint16, primeSums[PrimeTableSize])
	for i := range primes {
		perm := digitPerms[primeSums[i]:primeSums[i+1]]
		for j := range perm {
			perm[j] = uint16(j)
		}
		Shuffle(perm, rng)
	}
}

// extendedGCD returns x, y with a*x + b*y = gcd(a, b)
func extendedGCD(a, b int64) (int64, int64) {
	if b == 0 {
		return 1, 0
	}
	d := a / b
	xp, yp := extendedGCD(b, a%b)
	return yp, xp - d*yp
}

func mod(a, b int64) int64 {
	r := a - (a/b)*b
	if r < 0 {
		return r + b
	}
	return r
}

// multiplicativeInverse returns x with a*x = 1 (mod n)
func multiplicativeInverse(a, n int64) int64 {
	x, _ := extendedGCD(a, n)
	return mod(x, n)
}
