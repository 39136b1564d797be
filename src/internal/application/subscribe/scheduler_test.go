package subscribe

import (
	"sync"
	"testing"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/application/balance"
	"github.com/jackyeh168/stanning_ledger/src/internal/application/exchange"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/subscription"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/jackyeh168/stanning_ledger/src/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type recordingObserver struct {
	mu      sync.Mutex
	results []string
}

func (o *recordingObserver) ObserveGrantCycle(result string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
}

type fixture struct {
	scheduler *Scheduler
	store     *balance.Store
	clock     *shared.FixedClock
	observer  *recordingObserver
}

func newFixture(t *testing.T, today time.Time) *fixture {
	t.Helper()
	db := persistence.NewTestDB(t)
	txManager := persistence.NewGORMTransactionManager(db)
	store := balance.NewStore(persistence.NewWalletRepository(db), txManager, nil)
	engine, err := exchange.NewEngine(
		store,
		persistence.NewPurchaseRecordRepository(db),
		persistence.NewAnimalScoreRepository(db),
		exchange.DefaultRules(),
		nil,
	)
	require.NoError(t, err)
	plans, err := persistence.NewCachedPlanRepository(persistence.NewPlanRepository(db), 16)
	require.NoError(t, err)

	clock := &shared.FixedClock{At: today.Add(10 * time.Hour)}
	observer := &recordingObserver{}
	scheduler := NewScheduler(store, engine, plans, persistence.NewSubscriptionRepository(db), txManager,
		WithClock(clock), WithCycleObserver(observer))

	require.NoError(t, scheduler.SeedPlans([]*subscription.Plan{
		mustPlan(t, "sb1", 15, subscription.TermRecurring, 0),
		mustPlan(t, "sb2", 50, subscription.TermRecurring, 0),
		mustPlan(t, "by1", 40, subscription.TermFixed, 3),
	}))
	return &fixture{scheduler: scheduler, store: store, clock: clock, observer: observer}
}

func mustPlan(t *testing.T, code string, grant int, kind subscription.TermKind, months int) *subscription.Plan {
	t.Helper()
	p, err := subscription.NewPlan(code, code, decimal.NewFromInt(1000), grant, kind, months)
	require.NoError(t, err)
	return p
}

func (f *fixture) points(t *testing.T, memberID string) int {
	t.Helper()
	id, err := wallet.MemberIDFromString(memberID)
	require.NoError(t, err)
	b, err := f.store.Balance(id)
	require.NoError(t, err)
	return b.PointBalance
}

func (f *fixture) join(t *testing.T, memberID, plan, animalID string) *JoinResult {
	t.Helper()
	r, err := f.scheduler.Join(JoinCommand{MemberID: memberID, PlanCode: plan, AnimalID: animalID})
	require.NoError(t, err)
	return r
}

// ===========================
// Join
// ===========================

// Test 1: 2024-01-31 加入 sb1：到期日 2024-02-29，立即 +15
func TestJoin_LeapYearClampAndImmediateGrant(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 1, 31))
	memberID := wallet.NewMemberID().String()

	// Act
	result, err := f.scheduler.Join(JoinCommand{MemberID: memberID, PlanCode: "sb1", AnimalID: "panda"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 31), result.StartDate)
	assert.Equal(t, date(2024, 2, 29), result.EndDate)
	assert.Equal(t, 15, result.GrantedPoints)
	assert.Equal(t, 15, result.Balance.PointBalance)
}

// Test 2: 同一會員與動物只能有一筆 active；取消後可再加入
func TestJoin_DuplicateActive(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 3, 1))
	memberID := wallet.NewMemberID().String()
	first := f.join(t, memberID, "sb1", "panda")

	// Act
	_, err := f.scheduler.Join(JoinCommand{MemberID: memberID, PlanCode: "sb2", AnimalID: "panda"})

	// Assert
	assert.ErrorIs(t, err, subscription.ErrDuplicateActiveSubscription)
	assert.Equal(t, 15, f.points(t, memberID))

	// 其他動物不受影響
	f.join(t, memberID, "sb1", "koala")

	require.NoError(t, f.scheduler.Cancel(CancelCommand{SubscriptionID: first.SubscriptionID, MemberID: memberID}))
	f.join(t, memberID, "sb2", "panda")
	assert.Equal(t, 80, f.points(t, memberID))
}

// Test 3: 方案不存在
func TestJoin_UnknownPlan(t *testing.T) {
	f := newFixture(t, date(2024, 3, 1))

	_, err := f.scheduler.Join(JoinCommand{MemberID: wallet.NewMemberID().String(), PlanCode: "zz9", AnimalID: "panda"})

	assert.ErrorIs(t, err, subscription.ErrPlanNotFound)
}

// ===========================
// Cancel
// ===========================

// Test 4: 固定期間不可取消；非擁有者看不到；已取消不可再取消
func TestCancel_Rules(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 3, 1))
	memberID := wallet.NewMemberID().String()
	fixed := f.join(t, memberID, "by1", "panda")
	recurring := f.join(t, memberID, "sb1", "koala")

	// Act & Assert
	err := f.scheduler.Cancel(CancelCommand{SubscriptionID: fixed.SubscriptionID})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = f.scheduler.Cancel(CancelCommand{SubscriptionID: recurring.SubscriptionID, MemberID: wallet.NewMemberID().String()})
	assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)

	require.NoError(t, f.scheduler.Cancel(CancelCommand{SubscriptionID: recurring.SubscriptionID}))
	err = f.scheduler.Cancel(CancelCommand{SubscriptionID: recurring.SubscriptionID})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	// 不收回積分
	assert.Equal(t, 55, f.points(t, memberID))

	views, err := f.scheduler.ListSubscriptions(memberID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	statuses := map[string]string{}
	for _, v := range views {
		statuses[v.SubscriptionID] = v.Status
	}
	assert.Equal(t, string(subscription.StatusCancelled), statuses[recurring.SubscriptionID])
	assert.Equal(t, string(subscription.StatusActive), statuses[fixed.SubscriptionID])
}

// ===========================
// RunDailyGrantCycle
// ===========================

// Test 5: 同一天執行兩次只發放一次
func TestRunDailyGrantCycle_Idempotent(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 1, 31))
	memberID := wallet.NewMemberID().String()
	f.join(t, memberID, "sb1", "panda")

	// Act
	first, err := f.scheduler.RunDailyGrantCycle(date(2024, 2, 29))
	require.NoError(t, err)
	second, err := f.scheduler.RunDailyGrantCycle(date(2024, 2, 29))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, first.Granted)
	assert.Equal(t, 15, first.PointsGranted)
	assert.Equal(t, 0, second.Granted)
	assert.Equal(t, 30, f.points(t, memberID))

	views, err := f.scheduler.ListSubscriptions(memberID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, date(2024, 3, 29), views[0].EndDate)
	assert.Equal(t, 2, views[0].ElapsedMonths)
	assert.Equal(t, []string{CycleResultOK, CycleResultOK}, f.observer.results)
}

// Test 6: 到期日之前不發放
func TestRunDailyGrantCycle_NotYetDue(t *testing.T) {
	f := newFixture(t, date(2024, 1, 31))
	memberID := wallet.NewMemberID().String()
	f.join(t, memberID, "sb1", "panda")

	report, err := f.scheduler.RunDailyGrantCycle(date(2024, 2, 28))

	require.NoError(t, err)
	assert.Equal(t, 0, report.Granted)
	assert.Equal(t, 15, f.points(t, memberID))
}

// Test 7: 錯過的日子逐期追補
func TestRunDailyGrantCycle_CatchesUpMissedPeriods(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 1, 31))
	memberID := wallet.NewMemberID().String()
	f.join(t, memberID, "sb1", "panda")

	// Act：2/29、3/29、4/29 三期
	report, err := f.scheduler.RunDailyGrantCycle(date(2024, 4, 30))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, report.Granted)
	assert.Equal(t, 15+45, f.points(t, memberID))
	views, err := f.scheduler.ListSubscriptions(memberID)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 5, 29), views[0].EndDate)
	assert.Equal(t, 4, views[0].ElapsedMonths)
}

// Test 8: 已取消的月額訂閱不發放
func TestRunDailyGrantCycle_SkipsCancelled(t *testing.T) {
	f := newFixture(t, date(2024, 1, 31))
	memberID := wallet.NewMemberID().String()
	joined := f.join(t, memberID, "sb1", "panda")
	require.NoError(t, f.scheduler.Cancel(CancelCommand{SubscriptionID: joined.SubscriptionID}))

	report, err := f.scheduler.RunDailyGrantCycle(date(2024, 2, 29))

	require.NoError(t, err)
	assert.Equal(t, 0, report.Granted)
	assert.Equal(t, 15, f.points(t, memberID))
}

// Test 9: 固定期間方案：到期日當天仍有效，隔天失效，不再發放
func TestRunDailyGrantCycle_ExpiresFixedTerm(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 1, 15))
	memberID := wallet.NewMemberID().String()
	joined := f.join(t, memberID, "by1", "panda")
	require.Equal(t, date(2024, 4, 15), joined.EndDate)

	// Act
	onEndDate, err := f.scheduler.RunDailyGrantCycle(date(2024, 4, 15))
	require.NoError(t, err)
	dayAfter, err := f.scheduler.RunDailyGrantCycle(date(2024, 4, 16))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 0, onEndDate.Expired)
	assert.Equal(t, 1, dayAfter.Expired)
	assert.Equal(t, 0, dayAfter.Granted)
	assert.Equal(t, 40, f.points(t, memberID))

	views, err := f.scheduler.ListSubscriptions(memberID)
	require.NoError(t, err)
	assert.Equal(t, string(subscription.StatusExpired), views[0].Status)
	assert.False(t, views[0].IsActive)

	// 失效後可以再加入同一隻動物
	f.join(t, memberID, "by1", "panda")
}

// Test 10: 並發執行同一天的發放，每期仍只入帳一次
func TestRunDailyGrantCycle_ConcurrentRuns(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 1, 31))
	members := make([]string, 5)
	for i := range members {
		members[i] = wallet.NewMemberID().String()
		f.join(t, members[i], "sb1", "panda")
	}

	// Act
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.scheduler.RunDailyGrantCycle(date(2024, 2, 29))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Assert
	for _, m := range members {
		assert.Equal(t, 30, f.points(t, m))
	}
}

// Test 11: 發放與取消同一筆訂閱並發：結果等同某一種先後順序
func TestRunDailyGrantCycle_ConcurrentWithCancel(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 1, 31))
	const subs = 6
	members := make([]string, subs)
	joined := make([]*JoinResult, subs)
	for i := range members {
		members[i] = wallet.NewMemberID().String()
		joined[i] = f.join(t, members[i], "sb1", "panda")
	}

	// Act
	var wg sync.WaitGroup
	cancelErrs := make([]error, subs)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.scheduler.RunDailyGrantCycle(date(2024, 2, 29))
		assert.NoError(t, err)
	}()
	for i := range joined {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cancelErrs[i] = f.scheduler.Cancel(CancelCommand{SubscriptionID: joined[i].SubscriptionID, MemberID: members[i]})
		}(i)
	}
	wg.Wait()

	// Assert：先發放再取消 → 30 點、3/29；先取消 → 15 點、2/29
	for i, m := range members {
		require.NoError(t, cancelErrs[i])
		views, err := f.scheduler.ListSubscriptions(m)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, string(subscription.StatusCancelled), views[0].Status)

		switch f.points(t, m) {
		case 30:
			assert.Equal(t, date(2024, 3, 29), views[0].EndDate)
			assert.Equal(t, 2, views[0].ElapsedMonths)
		case 15:
			assert.Equal(t, date(2024, 2, 29), views[0].EndDate)
			assert.Equal(t, 1, views[0].ElapsedMonths)
		default:
			t.Fatalf("member %s: unexpected points %d", m, f.points(t, m))
		}
	}

	// 取消後不再發放
	report, err := f.scheduler.RunDailyGrantCycle(date(2024, 3, 29))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Granted)
}

// Test 12: 每期積分為 0 的訂閱：不入帳、不推進到期日
func TestRunDailyGrantCycle_SkipsZeroGrant(t *testing.T) {
	// Arrange
	f := newFixture(t, date(2024, 1, 31))
	memberID := wallet.NewMemberID()
	sub, err := subscription.ReconstructSubscription(
		subscription.NewSubscriptionID(), memberID, "sb0", "panda", subscription.TermRecurring, 0,
		subscription.StatusActive, date(2024, 1, 31), date(2024, 2, 29), 1,
		date(2024, 1, 31), date(2024, 1, 31),
	)
	require.NoError(t, err)
	require.NoError(t, f.scheduler.subscriptions.Save(nil, sub))

	// Act
	report, err := f.scheduler.RunDailyGrantCycle(date(2024, 2, 29))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, report.Granted)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, f.points(t, memberID.String()))
	views, err := f.scheduler.ListSubscriptions(memberID.String())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, date(2024, 2, 29), views[0].EndDate)
}
