package shared_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 測試用標記類型
type testWalletMarker struct{}
type testGoodMarker struct{}

type testWalletID = shared.EntityID[testWalletMarker]

var errInvalidTestID = &shared.DomainError{Code: "TEST_ID_INVALID", Message: "invalid test id"}

// Test 1: NewEntityID 生成唯一 UUID
func TestNewEntityID_GeneratesUniqueUUIDs(t *testing.T) {
	// Act
	id1 := shared.NewEntityID[testWalletMarker]()
	id2 := shared.NewEntityID[testWalletMarker]()

	// Assert
	assert.False(t, id1.IsEmpty())
	assert.NotEqual(t, id1.String(), id2.String(), "每次生成的 UUID 應該不同")
}

// Test 2: 解析有效 UUID，並正規化為小寫
func TestEntityIDFromString_ValidUUID_Normalized(t *testing.T) {
	// Act
	id, err := shared.EntityIDFromString[testWalletMarker]("550E8400-E29B-41D4-A716-446655440000", errInvalidTestID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
}

// Test 3: 無效輸入返回帶上下文的 DomainError
func TestEntityIDFromString_InvalidInput_ReturnsDomainError(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"空字串", ""},
		{"不是 UUID 格式", "not-a-uuid"},
		{"部分 UUID", "550e8400-e29b"},
		{"零值 UUID", "00000000-0000-0000-0000-000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			id, err := shared.EntityIDFromString[testWalletMarker](tt.value, errInvalidTestID)

			// Assert
			require.Error(t, err)
			assert.True(t, id.IsEmpty(), "解析失敗應該返回空 ID")
			assert.ErrorIs(t, err, errInvalidTestID)

			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.value, domainErr.Context["input"])
		})
	}
}

// Test 4: 不支援 WithContext 的錯誤直接返回
func TestEntityIDFromString_PlainError_ReturnedAsIs(t *testing.T) {
	plain := errors.New("plain")

	_, err := shared.EntityIDFromString[testGoodMarker]("bad", plain)

	assert.Equal(t, plain, err)
}

// Test 5: Compare 與字串順序一致
func TestEntityID_Compare_FollowsStringOrder(t *testing.T) {
	a, _ := shared.EntityIDFromString[testWalletMarker]("11111111-1111-4111-8111-111111111111", errInvalidTestID)
	b, _ := shared.EntityIDFromString[testWalletMarker]("22222222-2222-4222-8222-222222222222", errInvalidTestID)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(b))
}

// Test 6: 零值為空 ID
func TestEntityID_ZeroValueIsEmpty(t *testing.T) {
	var id testWalletID
	assert.True(t, id.IsEmpty())
}

// Test 7: 並發生成 ID 不重複
func TestEntityID_ConcurrentGeneration_Unique(t *testing.T) {
	const goroutines = 100
	ids := make([]testWalletID, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			ids[index] = shared.NewEntityID[testWalletMarker]()
		}(i)
	}
	wg.Wait()

	unique := make(map[string]struct{}, goroutines)
	for _, id := range ids {
		unique[id.String()] = struct{}{}
	}
	assert.Len(t, unique, goroutines)
}
