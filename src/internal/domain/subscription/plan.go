package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackyeh168/stanning_ledger/src/internal/domain/wallet"
	"github.com/shopspring/decimal"
)

// TermKind 方案期間類型
type TermKind string

const (
	// TermRecurring 每月自動續期，可取消
	TermRecurring TermKind = "recurring"
	// TermFixed 一次買斷 N 個月，到期失效
	TermFixed TermKind = "fixed_term"
)

// ParseTermKind 解析字串
func ParseTermKind(s string) (TermKind, error) {
	switch TermKind(s) {
	case TermRecurring, TermFixed:
		return TermKind(s), nil
	}
	return "", ErrInvalidPlan.WithContext("term_kind", s)
}

// ===========================
// Plan 訂閱方案（不可變目錄資料）
// ===========================

// Plan 訂閱方案
type Plan struct {
	code               string
	name               string
	amountDue          decimal.Decimal
	pointGrantPerCycle wallet.PointsAmount
	termKind           TermKind
	fixedTermMonths    int
}

// NewPlan 建立方案
//
// 固定期間方案 fixedTermMonths 必須 > 0；月額方案必須為 0。
func NewPlan(code, name string, amountDue decimal.Decimal, pointGrant int, kind TermKind, fixedTermMonths int) (*Plan, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidPlan.WithContext("reason", "code is required")
	}
	if amountDue.IsNegative() {
		return nil, ErrInvalidPlan.WithContext("code", code, "amount_due", amountDue.String())
	}
	grant, err := wallet.NewPointsAmount(pointGrant)
	if err != nil || grant.IsZero() {
		return nil, ErrInvalidPlan.WithContext("code", code, "point_grant", pointGrant)
	}
	if _, err := ParseTermKind(string(kind)); err != nil {
		return nil, ErrInvalidPlan.WithContext("code", code, "term_kind", string(kind))
	}
	switch kind {
	case TermFixed:
		if fixedTermMonths <= 0 {
			return nil, ErrInvalidPlan.WithContext("code", code, "fixed_term_months", fixedTermMonths)
		}
	case TermRecurring:
		if fixedTermMonths != 0 {
			return nil, ErrInvalidPlan.WithContext("code", code, "reason", "recurring plan cannot have fixed term")
		}
	}

	return &Plan{
		code:               code,
		name:               strings.TrimSpace(name),
		amountDue:          amountDue,
		pointGrantPerCycle: grant,
		termKind:           kind,
		fixedTermMonths:    fixedTermMonths,
	}, nil
}

// Code 方案代碼（如 sb1、by3）
func (p *Plan) Code() string { return p.code }

// Name 顯示名稱
func (p *Plan) Name() string { return p.name }

// AmountDue 每期金額（日圓）
func (p *Plan) AmountDue() decimal.Decimal { return p.amountDue }

// PointGrantPerCycle 每期發放積分
func (p *Plan) PointGrantPerCycle() wallet.PointsAmount { return p.pointGrantPerCycle }

// TermKind 期間類型
func (p *Plan) TermKind() TermKind { return p.termKind }

// FixedTermMonths 固定期間月數（月額方案為 0）
func (p *Plan) FixedTermMonths() int { return p.fixedTermMonths }

// IsRecurring 是否為月額方案
func (p *Plan) IsRecurring() bool { return p.termKind == TermRecurring }

// TermMonths 加入時第一期的月數
func (p *Plan) TermMonths() int {
	if p.IsRecurring() {
		return 1
	}
	return p.fixedTermMonths
}

// EndDateFrom 從 start 起算的到期日
func (p *Plan) EndDateFrom(start time.Time) time.Time {
	return AddMonths(start, p.TermMonths())
}

// String 方便日誌輸出
func (p *Plan) String() string {
	return fmt.Sprintf("plan(%s %s grant=%d)", p.code, p.termKind, p.pointGrantPerCycle.Value())
}
