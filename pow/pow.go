// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pow implements the proof of work scheme securing message
// submission. The score of a message is the number of trailing zero bits
// of a double BLAKE2b-256 hash over the message, normalized by message
// size; mining searches the 64-bit nonce space in parallel for a nonce
// meeting a target score.
package pow

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"math/bits"
	"runtime"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// NonceBytes is the size of the nonce occupying the final bytes of a
// serialized message
const NonceBytes = 8

// DefaultMineTimeout bounds a single nonce search unless overridden with
// WithTimeout
const DefaultMineTimeout = 60 * time.Second

// ErrPowTimeout is returned when a nonce search exceeds the configured
// time bound before reaching the target score
var ErrPowTimeout = errors.New("proof of work timed out")

// Score returns the proof of work score of a fully serialized message,
// including its trailing nonce. The score is 2^z divided by the message
// size, where z is the number of trailing zero bits of
// BLAKE2b-256(BLAKE2b-256(message without nonce) || nonce)
func Score(msg []byte) float64 {
	if len(msg) < NonceBytes {
		panic("pow: message shorter than nonce")
	}
	digest := blake2b.Sum256(msg[:len(msg)-NonceBytes])
	z := trailingZeros(powHash(digest[:], msg[len(msg)-NonceBytes:]))
	return math.Pow(2, float64(z)) / float64(len(msg))
}

func powHash(digest []byte, nonce []byte) []byte {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		panic("unexpected error creating empty blake2b hasher: " + err.Error())
	}
	hasher.Write(digest)
	hasher.Write(nonce)
	return hasher.Sum(nil)
}

// trailingZeros counts the zero bits at the least significant end of a
// hash interpreted as a big-endian integer
func trailingZeros(hash []byte) int {
	z := 0
	for i := len(hash) - 1; i >= 0; i-- {
		if hash[i] == 0 {
			z += 8
			continue
		}
		z += bits.TrailingZeros8(hash[i])
		break
	}
	return z
}

// requiredTrailingZeros returns the smallest trailing zero count whose
// score meets the target for the given full message size
func requiredTrailingZeros(targetScore float64, msgSize int) int {
	required := 0
	for required < 256 &&
		math.Pow(2, float64(required)) < targetScore*float64(msgSize) {
		required++
	}
	return required
}

// Miner searches the nonce space for a nonce meeting a target score
type Miner struct {
	workerCount int
	timeout     time.Duration
	logger      *slog.Logger
}

// MinerOptionFunc represents a function used to modify the Miner config
type MinerOptionFunc func(*Miner)

// NewMiner returns a new Miner object with the provided options
func NewMiner(options ...MinerOptionFunc) *Miner {
	m := &Miner{
		workerCount: runtime.NumCPU(),
		timeout:     DefaultMineTimeout,
	}
	// Apply provided options functions
	for _, option := range options {
		option(m)
	}
	if m.workerCount < 1 {
		m.workerCount = 1
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// WithWorkerCount specifies the number of parallel nonce search workers
func WithWorkerCount(count int) MinerOptionFunc {
	return func(m *Miner) {
		m.workerCount = count
	}
}

// WithTimeout specifies the upper bound on a single nonce search
func WithTimeout(timeout time.Duration) MinerOptionFunc {
	return func(m *Miner) {
		m.timeout = timeout
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) MinerOptionFunc {
	return func(m *Miner) {
		m.logger = logger
	}
}

// Mine returns a nonce for the serialized message prefix (the message
// without its trailing nonce) such that appending the nonce yields a
// message whose Score meets targetScore. The nonce space is split into
// one sub-range per worker; the first hit wins and cancels the rest. The
// search fails with ErrPowTimeout when the configured time bound elapses
// first, or with the context error when ctx is cancelled
func (m *Miner) Mine(
	ctx context.Context,
	data []byte,
	targetScore float64,
) (uint64, error) {
	digest := blake2b.Sum256(data)
	required := requiredTrailingZeros(targetScore, len(data)+NonceBytes)
	m.logger.Debug(
		"starting nonce search",
		"component", "pow",
		"workers", m.workerCount,
		"target_score", targetScore,
		"required_trailing_zeros", required,
	)
	mineCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	results := make(chan uint64, m.workerCount)
	var wg sync.WaitGroup
	chunk := math.MaxUint64 / uint64(m.workerCount)
	started := time.Now()
	for i := 0; i < m.workerCount; i++ {
		start := uint64(i) * chunk
		end := start + chunk
		if i == m.workerCount-1 {
			end = math.MaxUint64
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			mineWorker(mineCtx, digest[:], start, end, required, results)
		}()
	}
	var nonce uint64
	var err error
	select {
	case nonce = <-results:
	case <-mineCtx.Done():
		if ctx.Err() != nil {
			// The caller's context ended, not our own time bound
			err = ctx.Err()
		} else {
			err = ErrPowTimeout
		}
	}
	cancel()
	wg.Wait()
	if err != nil {
		return 0, err
	}
	m.logger.Debug(
		"found nonce",
		"component", "pow",
		"nonce", nonce,
		"elapsed", time.Since(started),
	)
	return nonce, nil
}

// checkBatchSize bounds the number of nonces hashed between cancellation
// checks
const checkBatchSize = 2048

func mineWorker(
	ctx context.Context,
	digest []byte,
	start uint64,
	end uint64,
	required int,
	results chan<- uint64,
) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		panic("unexpected error creating empty blake2b hasher: " + err.Error())
	}
	var nonceBuf [NonceBytes]byte
	var sumBuf [blake2b.Size256]byte
	for nonce := start; nonce < end; {
		for i := 0; i < checkBatchSize && nonce < end; i++ {
			binary.LittleEndian.PutUint64(nonceBuf[:], nonce)
			hasher.Reset()
			hasher.Write(digest)
			hasher.Write(nonceBuf[:])
			sum := hasher.Sum(sumBuf[:0])
			if trailingZeros(sum) >= required {
				// Non-blocking send in case another worker won already
				select {
				case results <- nonce:
				default:
				}
				return
			}
			nonce++
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
