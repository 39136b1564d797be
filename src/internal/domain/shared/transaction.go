package shared

// TransactionContext 事務上下文介面
//
// 行為約定：
// - ctx != nil: 在呼叫者的事務中執行
// - ctx == nil: auto-commit 模式，只用於獨立的唯讀查詢
//
// 寫操作（Save / Update / Delete）必須帶 non-nil ctx。
// 這是標記介面，具體事務封裝由 Infrastructure Layer 實作。
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
type TransactionManager interface {
	// InTransaction 在單一事務中執行 fn；fn 返回錯誤或 panic 時回滾
	InTransaction(fn func(ctx TransactionContext) error) error

	// InLockedTransaction 先取得 keys 的互斥鎖（依字串升冪），再開啟事務執行 fn。
	//
	// 同一 key 上的操作因此線性化；所有操作使用同一套排序，不會互相死鎖。
	// 鎖在事務提交或回滾之後才釋放。
	InLockedTransaction(keys []string, fn func(ctx TransactionContext) error) error
}
