package models

import (
	"strings"
	"time"
)

type PaymentType string

const (
	PaymentCreditCard PaymentType = "Credit Card"
	PaymentDebitCard  PaymentType = "Debit Card"
	PaymentPayPal     PaymentType = "PayPal"
)

// Valid reports whether t is a supported payment type.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentCreditCard, PaymentDebitCard, PaymentPayPal:
		return true
	}
	return false
}

// IsCard reports whether the type carries a card number and expiry.
func (t PaymentType) IsCard() bool {
	return t == PaymentCreditCard || t == PaymentDebitCard
}

type PaymentMethod struct {
	ID         string      `json:"id" gorm:"primaryKey" bson:"_id"`
	Type       PaymentType `json:"type" gorm:"not null" bson:"type"`
	CardNumber string      `json:"cardNumber" bson:"card_number"`
	ExpiryDate string      `json:"expiryDate" bson:"expiry_date"`
	HolderName string      `json:"holderName" gorm:"not null" bson:"holder_name"`
	Country    string      `json:"country" gorm:"not null;index" bson:"country"`
	CreatedAt  time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time   `json:"updatedAt" bson:"updated_at"`
}

// MaskChar replaces hidden card digits.
const MaskChar = '*'

// MaskCardNumber keeps the last four characters of number and replaces every
// other digit with MaskChar. Separators such as spaces are left in place.
func MaskCardNumber(number string) string {
	runes := []rune(number)
	keepFrom := len(runes) - 4
	var b strings.Builder
	b.Grow(len(number))
	for i, r := range runes {
		if i < keepFrom && r >= '0' && r <= '9' {
			b.WriteRune(MaskChar)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
