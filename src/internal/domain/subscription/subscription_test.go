package subscription_test

import (
	"testing"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recurringPlan(t *testing.T) *subscription.Plan {
	t.Helper()
	p, err := subscription.NewPlan("sb1", "月額 1000", decimal.NewFromInt(1000), 15, subscription.TermRecurring, 0)
	require.NoError(t, err)
	return p
}

func fixedPlan(t *testing.T, months int) *subscription.Plan {
	t.Helper()
	p, err := subscription.NewPlan("by1", "買い切り", decimal.NewFromInt(3000), 40, subscription.TermFixed, months)
	require.NoError(t, err)
	return p
}

// Test 1: 閏年 1/31 加入月額方案 → 到期日 2/29
func TestJoin_RecurringLeapYear(t *testing.T) {
	s, err := subscription.Join(wallet.NewMemberID(), recurringPlan(t), "panda-01", date(2024, 1, 31))

	require.NoError(t, err)
	assert.True(t, s.IsActive())
	assert.Equal(t, date(2024, 2, 29), s.EndDate())
	assert.Equal(t, 1, s.ElapsedMonths())
	assert.Equal(t, 15, s.PointGrant().Value())

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, subscription.EventTypeJoined, events[0].EventType())
}

// Test 2: 固定期間方案
func TestJoin_FixedTerm(t *testing.T) {
	s, err := subscription.Join(wallet.NewMemberID(), fixedPlan(t, 6), "panda-01", date(2024, 8, 31))

	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 28), s.EndDate())
	assert.Equal(t, 6, s.ElapsedMonths())
	assert.False(t, s.IsRecurring())
}

// Test 3: 到期日當天才能續期，續期後不再到期
func TestSubscription_Renew(t *testing.T) {
	s, err := subscription.Join(wallet.NewMemberID(), recurringPlan(t), "panda-01", date(2024, 1, 31))
	require.NoError(t, err)
	s.PullEvents()

	assert.False(t, s.IsDueForRenewal(date(2024, 2, 28)))
	assert.ErrorIs(t, s.Renew(date(2024, 2, 28)), shared.ErrInvalidState)

	require.NoError(t, s.Renew(date(2024, 2, 29)))
	assert.Equal(t, date(2024, 3, 29), s.EndDate())
	assert.Equal(t, 2, s.ElapsedMonths())
	assert.False(t, s.IsDueForRenewal(date(2024, 2, 29)))

	events := s.PullEvents()
	require.Len(t, events, 1)
	renewed := events[0].(*subscription.RenewedEvent)
	assert.Equal(t, date(2024, 2, 29), renewed.PreviousEndDate)
}

// Test 4: 只有月額訂閱可以取消，且不可重複
func TestSubscription_Cancel(t *testing.T) {
	recurring, err := subscription.Join(wallet.NewMemberID(), recurringPlan(t), "panda-01", date(2024, 1, 1))
	require.NoError(t, err)
	fixed, err := subscription.Join(wallet.NewMemberID(), fixedPlan(t, 3), "panda-01", date(2024, 1, 1))
	require.NoError(t, err)

	require.NoError(t, recurring.Cancel())
	assert.Equal(t, subscription.StatusCancelled, recurring.Status())
	assert.False(t, recurring.IsDueForRenewal(date(2024, 2, 1)))
	assert.ErrorIs(t, recurring.Cancel(), shared.ErrInvalidState)

	assert.ErrorIs(t, fixed.Cancel(), shared.ErrInvalidState)
	assert.True(t, fixed.IsActive())
}

// Test 5: 固定期間在到期日隔天失效
func TestSubscription_Expire(t *testing.T) {
	s, err := subscription.Join(wallet.NewMemberID(), fixedPlan(t, 3), "panda-01", date(2024, 1, 10))
	require.NoError(t, err)

	assert.False(t, s.IsDueForExpiry(date(2024, 4, 10)))
	assert.ErrorIs(t, s.Expire(date(2024, 4, 10)), shared.ErrInvalidState)

	require.NoError(t, s.Expire(date(2024, 4, 11)))
	assert.Equal(t, subscription.StatusExpired, s.Status())
	assert.False(t, s.IsActive())
}

// Test 6: 重建時拒絕到期日早於開始日
func TestReconstructSubscription_EndBeforeStart(t *testing.T) {
	_, err := subscription.ReconstructSubscription(
		subscription.NewSubscriptionID(), wallet.NewMemberID(), "sb1", "panda-01",
		subscription.TermRecurring, 15, subscription.StatusActive,
		date(2024, 2, 1), date(2024, 1, 1), 0, time.Now(), time.Now(),
	)

	assert.ErrorIs(t, err, subscription.ErrCorruptedSubscription)
}
