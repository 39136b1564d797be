package animal_test

import (
	"testing"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/animal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test 1: 新紀錄分數為 0，ID 去除空白
func TestNewAnimalScore(t *testing.T) {
	a, err := animal.NewAnimalScore("  panda-01 ")

	require.NoError(t, err)
	assert.Equal(t, "panda-01", a.AnimalID())
	assert.Equal(t, 0, a.Score())
}

// Test 2: 空 ID 無效
func TestNewAnimalScore_EmptyID(t *testing.T) {
	_, err := animal.NewAnimalScore("   ")

	assert.ErrorIs(t, err, animal.ErrInvalidAnimalID)
}

// Test 3: 加分
func TestAnimalScore_AddPoints(t *testing.T) {
	a, err := animal.ReconstructAnimalScore("panda-01", 41, time.Now())
	require.NoError(t, err)

	require.NoError(t, a.AddPoints(1))

	assert.Equal(t, 42, a.Score())
}

// Test 4: 非正數增量被拒絕且不改變分數
func TestAnimalScore_AddPoints_NonPositive(t *testing.T) {
	a, err := animal.NewAnimalScore("panda-01")
	require.NoError(t, err)

	assert.ErrorIs(t, a.AddPoints(0), animal.ErrInvalidIncrement)
	assert.ErrorIs(t, a.AddPoints(-2), animal.ErrInvalidIncrement)
	assert.Equal(t, 0, a.Score())
}

// Test 5: 負分數視為損壞
func TestReconstructAnimalScore_Negative(t *testing.T) {
	_, err := animal.ReconstructAnimalScore("panda-01", -1, time.Now())

	assert.ErrorIs(t, err, animal.ErrCorruptedScore)
}
