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

package pow

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTrailingZeros(t *testing.T) {
	testDefs := []struct {
		name     string
		hash     []byte
		expected int
	}{
		{
			name:     "no zeros",
			hash:     []byte{0x12, 0x34, 0x01},
			expected: 0,
		},
		{
			name:     "partial final byte",
			hash:     []byte{0x12, 0x34, 0x80},
			expected: 7,
		},
		{
			name:     "full final byte",
			hash:     []byte{0x12, 0x01, 0x00},
			expected: 8,
		},
		{
			name:     "spanning bytes",
			hash:     []byte{0x12, 0x40, 0x00, 0x00},
			expected: 22,
		},
		{
			name:     "all zero",
			hash:     bytes.Repeat([]byte{0x00}, 32),
			expected: 256,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Equal(t, testDef.expected, trailingZeros(testDef.hash))
		})
	}
}

func TestRequiredTrailingZeros(t *testing.T) {
	testDefs := []struct {
		name        string
		targetScore float64
		msgSize     int
		expected    int
	}{
		{
			name:        "zero target",
			targetScore: 0,
			msgSize:     100,
			expected:    0,
		},
		{
			name:        "exact power of two",
			targetScore: 1024,
			msgSize:     4,
			expected:    12,
		},
		{
			name:        "rounds up",
			targetScore: 1025,
			msgSize:     4,
			expected:    13,
		},
		{
			name:        "typical mainnet target",
			targetScore: 1500,
			msgSize:     100,
			expected:    18,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Equal(
				t,
				testDef.expected,
				requiredTrailingZeros(testDef.targetScore, testDef.msgSize),
			)
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	msg := make([]byte, 64)
	for i := range msg {
		msg[i] = byte(i)
	}
	assert.Equal(t, Score(msg), Score(msg))
}

func TestScorePanicsOnShortMessage(t *testing.T) {
	assert.Panics(t, func() {
		Score(make([]byte, NonceBytes-1))
	})
}

func TestMineMeetsTarget(t *testing.T) {
	defer goleak.VerifyNone(t)
	miner := NewMiner(WithWorkerCount(2))
	data := []byte("a message waiting for its nonce")
	const targetScore = 100
	nonce, err := miner.Mine(context.Background(), data, targetScore)
	require.NoError(t, err)

	msg := make([]byte, 0, len(data)+NonceBytes)
	msg = append(msg, data...)
	msg = binary.LittleEndian.AppendUint64(msg, nonce)
	assert.GreaterOrEqual(t, Score(msg), float64(targetScore))
}

func TestMineSingleWorker(t *testing.T) {
	defer goleak.VerifyNone(t)
	miner := NewMiner(WithWorkerCount(1))
	nonce, err := miner.Mine(context.Background(), []byte("solo"), 64)
	require.NoError(t, err)
	msg := binary.LittleEndian.AppendUint64([]byte("solo"), nonce)
	assert.GreaterOrEqual(t, Score(msg), float64(64))
}

func TestMineCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)
	miner := NewMiner(WithWorkerCount(2))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	started := time.Now()
	// An unreachable target keeps the workers busy until cancellation
	_, err := miner.Mine(ctx, []byte("never found"), 1e60)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestMineTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	miner := NewMiner(
		WithWorkerCount(2),
		WithTimeout(100*time.Millisecond),
	)
	started := time.Now()
	_, err := miner.Mine(context.Background(), []byte("never found"), 1e60)
	assert.ErrorIs(t, err, ErrPowTimeout)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestMinerDefaults(t *testing.T) {
	miner := NewMiner()
	assert.GreaterOrEqual(t, miner.workerCount, 1)
	assert.Equal(t, DefaultMineTimeout, miner.timeout)
	assert.NotNil(t, miner.logger)

	clamped := NewMiner(WithWorkerCount(0))
	assert.Equal(t, 1, clamped.workerCount)
}
