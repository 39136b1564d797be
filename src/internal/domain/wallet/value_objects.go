package wallet

import "fmt"

// ===========================
// CoinAmount 應援幣數量
// ===========================

// CoinAmount 應援幣（cheer coin）數量值對象（>= 0）
type CoinAmount struct {
	value int
}

// NewCoinAmount 建構函數（checked 版本）
func NewCoinAmount(value int) (CoinAmount, error) {
	if value < 0 {
		return CoinAmount{}, fmt.Errorf(
			"%w: attempted to create CoinAmount with value %d",
			ErrNegativeAmount,
			value,
		)
	}
	return CoinAmount{value: value}, nil
}

// MustCoinAmount 用於常數與設定值，負數時 panic
func MustCoinAmount(value int) CoinAmount {
	c, err := NewCoinAmount(value)
	if err != nil {
		panic(err)
	}
	return c
}

// Value 獲取數量
func (c CoinAmount) Value() int { return c.value }

// IsZero 是否為 0
func (c CoinAmount) IsZero() bool { return c.value == 0 }

// Add 相加
func (c CoinAmount) Add(other CoinAmount) CoinAmount {
	return CoinAmount{value: c.value + other.value}
}

// Subtract 相減，不足時返回 ErrInsufficientCoins
func (c CoinAmount) Subtract(other CoinAmount) (CoinAmount, error) {
	if c.value < other.value {
		return CoinAmount{}, ErrInsufficientCoins.WithContext(
			"requested", other.value,
			"available", c.value,
		)
	}
	return CoinAmount{value: c.value - other.value}, nil
}

// LessThan 判斷是否小於另一個數量
func (c CoinAmount) LessThan(other CoinAmount) bool { return c.value < other.value }

// ===========================
// PointsAmount 積分數量
// ===========================

// PointsAmount 推活積分（stanning point）數量值對象（>= 0）
type PointsAmount struct {
	value int
}

// NewPointsAmount 建構函數（checked 版本）
func NewPointsAmount(value int) (PointsAmount, error) {
	if value < 0 {
		return PointsAmount{}, fmt.Errorf(
			"%w: attempted to create PointsAmount with value %d",
			ErrNegativeAmount,
			value,
		)
	}
	return PointsAmount{value: value}, nil
}

// MustPointsAmount 用於常數與設定值，負數時 panic
func MustPointsAmount(value int) PointsAmount {
	p, err := NewPointsAmount(value)
	if err != nil {
		panic(err)
	}
	return p
}

// Value 獲取數量
func (p PointsAmount) Value() int { return p.value }

// IsZero 是否為 0
func (p PointsAmount) IsZero() bool { return p.value == 0 }

// Add 相加
func (p PointsAmount) Add(other PointsAmount) PointsAmount {
	return PointsAmount{value: p.value + other.value}
}

// Subtract 相減，不足時返回 ErrInsufficientPoints
func (p PointsAmount) Subtract(other PointsAmount) (PointsAmount, error) {
	if p.value < other.value {
		return PointsAmount{}, ErrInsufficientPoints.WithContext(
			"requested", other.value,
			"available", p.value,
		)
	}
	return PointsAmount{value: p.value - other.value}, nil
}

// LessThan 判斷是否小於另一個數量
func (p PointsAmount) LessThan(other PointsAmount) bool { return p.value < other.value }
