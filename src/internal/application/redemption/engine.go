// Package redemption 以積分兌換商品：購物車、結帳、取消與出貨
package redemption

import (
	"github.com/jackyeh168/stanning_ledger/src/internal/application/balance"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/goods"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
)

// Engine 商品兌換
//
// 並發模型：
// - 購物車操作只取 member 鍵
// - 結帳與取消取 member 鍵加上每個商品的 good 鍵（依字串升冪），
//   積分、庫存、訂單在同一個交易中提交
// - 出貨只改訂單狀態，以狀態條件更新防止與取消交錯
type Engine struct {
	store     *balance.Store
	goods     goods.GoodRepository
	orders    goods.OrderRepository
	carts     goods.CartRepository
	txManager shared.TransactionManager
	clock     shared.Clock
}

// NewEngine 創建 Engine；clock 為 nil 時使用系統時間
func NewEngine(
	store *balance.Store,
	goodRepo goods.GoodRepository,
	orderRepo goods.OrderRepository,
	cartRepo goods.CartRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
) *Engine {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Engine{
		store:     store,
		goods:     goodRepo,
		orders:    orderRepo,
		carts:     cartRepo,
		txManager: txManager,
		clock:     clock,
	}
}

// ListGoods 商品目錄（唯讀）
func (e *Engine) ListGoods() ([]*goods.RedeemableGood, error) {
	return e.goods.List(nil)
}

func goodLockKeys(ids []goods.GoodID) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, goods.LockKey(id))
	}
	return keys
}

func lineGoodIDs(lines []goods.CartLine) []goods.GoodID {
	ids := make([]goods.GoodID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.GoodID)
	}
	return ids
}

func parseMemberID(s string) (wallet.MemberID, error) {
	return wallet.MemberIDFromString(s)
}
