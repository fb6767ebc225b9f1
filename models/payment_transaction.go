package models

import "time"

// PaymentTransaction 付款交易紀錄，由結帳流程寫入，本核心僅讀取
type PaymentTransaction struct {
	PmtID        int       `json:"pmt_id" gorm:"primaryKey;autoIncrement;type:INT"`
	PmtBookingID int       `json:"pmt_booking_id" gorm:"uniqueIndex;not null;type:INT"`
	Expiry       time.Time `json:"expiry" gorm:"type:datetime"`
	Timestamp    time.Time `json:"timestamp" gorm:"type:datetime"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
