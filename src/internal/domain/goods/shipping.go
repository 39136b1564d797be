package goods

import (
	"regexp"
	"strings"
)

var postalCodePattern = regexp.MustCompile(`^\d{3}-?\d{4}$`)

// ShippingAddress 下單時的收件資料快照
//
// 會員之後修改個人資料不影響已成立的訂單。
type ShippingAddress struct {
	RecipientName string `json:"recipient_name"`
	PostalCode    string `json:"postal_code"`
	Address       string `json:"address"`
	Phone         string `json:"phone,omitempty"`
}

// Normalize 去除前後空白
func (s ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		RecipientName: strings.TrimSpace(s.RecipientName),
		PostalCode:    strings.TrimSpace(s.PostalCode),
		Address:       strings.TrimSpace(s.Address),
		Phone:         strings.TrimSpace(s.Phone),
	}
}

// Validate 收件人與地址必填，郵遞區號為 7 碼（可含連字號）
func (s ShippingAddress) Validate() error {
	n := s.Normalize()
	if n.RecipientName == "" {
		return ErrInvalidShipping.WithContext("field", "recipient_name")
	}
	if n.Address == "" {
		return ErrInvalidShipping.WithContext("field", "address")
	}
	if !postalCodePattern.MatchString(n.PostalCode) {
		return ErrInvalidShipping.WithContext("field", "postal_code", "input", s.PostalCode)
	}
	return nil
}
