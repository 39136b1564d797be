package persistence

import (
	"errors"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================
// GORM WalletRepository 實作
// ===========================

// GORMWalletRepository GORM 實作的錢包倉儲
//
// 只負責 Domain ↔ GORM 的轉換和錯誤映射，不含業務邏輯。
type GORMWalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository 創建錢包倉儲
func NewWalletRepository(db *gorm.DB) wallet.WalletRepository {
	return &GORMWalletRepository{db: db}
}

// Save 保存新錢包
// 錯誤：ErrWalletAlreadyExists（MemberID 已有錢包）
func (r *GORMWalletRepository) Save(ctx shared.TransactionContext, w *wallet.Wallet) error {
	result := dbFrom(ctx, r.db).Create(walletToGORM(w))
	return mapError(result.Error, nil, wallet.ErrWalletAlreadyExists)
}

// CreateIfAbsent INSERT ... ON CONFLICT (member_id) DO NOTHING
//
// Postgres 上若另一個事務正在寫入同一會員，會等它提交後略過，本事務不會因唯一索引衝突而中止。
func (r *GORMWalletRepository) CreateIfAbsent(ctx shared.TransactionContext, w *wallet.Wallet) (bool, error) {
	result := dbFrom(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "member_id"}}, DoNothing: true}).
		Create(walletToGORM(w))
	if result.Error != nil {
		return false, mapError(result.Error, nil, nil)
	}
	return result.RowsAffected == 1, nil
}

// FindByMemberID 依會員查詢
func (r *GORMWalletRepository) FindByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) (*wallet.Wallet, error) {
	return r.find(dbFrom(ctx, r.db), memberID)
}

// FindByMemberIDForUpdate 在事務中讀取並鎖定該列（Postgres: SELECT ... FOR UPDATE）
func (r *GORMWalletRepository) FindByMemberIDForUpdate(ctx shared.TransactionContext, memberID wallet.MemberID) (*wallet.Wallet, error) {
	db := dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.find(db, memberID)
}

func (r *GORMWalletRepository) find(db *gorm.DB, memberID wallet.MemberID) (*wallet.Wallet, error) {
	var model WalletModel
	result := db.Where("member_id = ?", memberID.String()).First(&model)
	if result.Error != nil {
		return nil, mapError(result.Error, wallet.ErrWalletNotFound, nil)
	}
	return walletToDomain(&model)
}

// Update 以版本號為條件寫回餘額
//
// RowsAffected = 0 代表版本已被其他寫入推進（或錢包不存在），返回 shared.ErrStorage。
// 成功後呼叫 MarkPersisted 推進聚合上的版本號。
func (r *GORMWalletRepository) Update(ctx shared.TransactionContext, w *wallet.Wallet) error {
	result := dbFrom(ctx, r.db).Model(&WalletModel{}).
		Where("id = ? AND version = ?", w.WalletID().String(), w.Version()).
		Updates(map[string]interface{}{
			"coin_balance":  w.CoinBalance().Value(),
			"point_balance": w.PointBalance().Value(),
			"version":       w.Version() + 1,
			"updated_at":    w.UpdatedAt(),
		})
	if result.Error != nil {
		return mapError(result.Error, nil, nil)
	}
	if result.RowsAffected == 0 {
		return shared.ErrStorage.WithContext(
			"wallet_id", w.WalletID().String(),
			"version", w.Version(),
			"reason", "version conflict",
		)
	}
	w.MarkPersisted()
	return nil
}

// ===========================
// Mapper
// ===========================

func walletToDomain(model *WalletModel) (*wallet.Wallet, error) {
	walletID, err := wallet.WalletIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	memberID, err := wallet.MemberIDFromString(model.MemberID)
	if err != nil {
		return nil, err
	}
	return wallet.ReconstructWallet(
		walletID,
		memberID,
		model.CoinBalance,
		model.PointBalance,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
}

func walletToGORM(w *wallet.Wallet) *WalletModel {
	return &WalletModel{
		ID:           w.WalletID().String(),
		MemberID:     w.MemberID().String(),
		CoinBalance:  w.CoinBalance().Value(),
		PointBalance: w.PointBalance().Value(),
		Version:      w.Version(),
		CreatedAt:    w.CreatedAt(),
		UpdatedAt:    w.UpdatedAt(),
	}
}

// ===========================
// GORM PurchaseRecordRepository 實作
// ===========================

// GORMPurchaseRecordRepository 購幣紀錄倉儲
type GORMPurchaseRecordRepository struct {
	db *gorm.DB
}

// NewPurchaseRecordRepository 創建購幣紀錄倉儲
func NewPurchaseRecordRepository(db *gorm.DB) wallet.PurchaseRecordRepository {
	return &GORMPurchaseRecordRepository{db: db}
}

// Append 新增紀錄；PaymentRef 重複時返回 ErrDuplicatePayment
func (r *GORMPurchaseRecordRepository) Append(ctx shared.TransactionContext, record *wallet.PurchaseRecord) error {
	model := &PurchaseRecordModel{
		ID:           record.PurchaseID().String(),
		MemberID:     record.MemberID().String(),
		CoinsGranted: record.CoinsGranted().Value(),
		PricePaid:    record.PricePaid(),
		PurchasedAt:  record.PurchasedAt(),
	}
	if ref := record.PaymentRef(); ref != "" {
		model.PaymentRef = &ref
	}
	result := dbFrom(ctx, r.db).Create(model)
	return mapError(result.Error, nil, wallet.ErrDuplicatePayment)
}

// FindByPaymentRef 不存在時返回 (nil, nil)
func (r *GORMPurchaseRecordRepository) FindByPaymentRef(ctx shared.TransactionContext, paymentRef string) (*wallet.PurchaseRecord, error) {
	var model PurchaseRecordModel
	result := dbFrom(ctx, r.db).Where("payment_ref = ?", paymentRef).First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}
	return purchaseToDomain(&model)
}

// ListByMemberID 依購買時間新到舊
func (r *GORMPurchaseRecordRepository) ListByMemberID(ctx shared.TransactionContext, memberID wallet.MemberID) ([]*wallet.PurchaseRecord, error) {
	var models []PurchaseRecordModel
	result := dbFrom(ctx, r.db).
		Where("member_id = ?", memberID.String()).
		Order("purchased_at DESC").Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, mapError(result.Error, nil, nil)
	}

	records := make([]*wallet.PurchaseRecord, 0, len(models))
	for i := range models {
		rec, err := purchaseToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func purchaseToDomain(model *PurchaseRecordModel) (*wallet.PurchaseRecord, error) {
	purchaseID, err := wallet.PurchaseIDFromString(model.ID)
	if err != nil {
		return nil, err
	}
	memberID, err := wallet.MemberIDFromString(model.MemberID)
	if err != nil {
		return nil, err
	}
	ref := ""
	if model.PaymentRef != nil {
		ref = *model.PaymentRef
	}
	return wallet.ReconstructPurchaseRecord(purchaseID, memberID, model.CoinsGranted, model.PricePaid, ref, model.PurchasedAt)
}
