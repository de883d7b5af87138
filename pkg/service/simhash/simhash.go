package simhash

import (
	"crypto/md5" // #nosec G501 - non-cryptographic feature hashing
	"encoding/binary"
	"math/bits"
	"strings"

	"github.com/corpus-tools/textreuse/pkg/service/segment"
)

// Bits is the fingerprint width.
const Bits = 64

// Fingerprint computes a 64-bit SimHash signature over overlapping
// word n-grams of the normalized sentence text. Sentences sharing many
// n-grams differ in few bits, which is the property the LSH bands and
// Hamming verification exploit. Deterministic for fixed input.
func Fingerprint(norm string, ngram int) uint64 {
	toks := segment.Tokenize(norm)
	feats := ngrams(toks, ngram)
	if len(feats) == 0 {
		return 0
	}

	counts := make(map[string]int, len(feats))
	for _, f := range feats {
		counts[f]++
	}

	var v [Bits]int
	for feat, w := range counts {
		hv := featureHash(feat)
		for i := 0; i < Bits; i++ {
			if hv>>uint(i)&1 == 1 {
				v[i] += w
			} else {
				v[i] -= w
			}
		}
	}

	var sig uint64
	for i := 0; i < Bits; i++ {
		// tie resolves to 1
		if v[i] >= 0 {
			sig |= 1 << uint(i)
		}
	}
	return sig
}

// Hamming returns the number of differing bits between two signatures.
func Hamming(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// ngrams returns contiguous word n-grams; sentences with fewer tokens
// than n degrade to their unigrams so every non-empty sentence still
// yields a deterministic fingerprint.
func ngrams(toks []string, n int) []string {
	if len(toks) < n {
		return toks
	}
	out := make([]string, 0, len(toks)-n+1)
	for i := 0; i+n <= len(toks); i++ {
		out = append(out, strings.Join(toks[i:i+n], " "))
	}
	return out
}

// featureHash maps an n-gram into the 64-bit fingerprint domain using
// the first 8 bytes of its MD5 digest, big-endian.
func featureHash(s string) uint64 {
	sum := md5.Sum([]byte(s)) // #nosec G401
	return binary.BigEndian.Uint64(sum[:8])
}
