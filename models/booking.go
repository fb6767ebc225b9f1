package models

import "time"

type Booking struct {
	BookingID         int                 `json:"booking_id" gorm:"primaryKey;autoIncrement;type:INT"`
	CustomerBookingID int                 `json:"customer_booking_id" gorm:"index;not null;type:INT"`               // 會員ID
	BookingSpaceID    int                 `json:"booking_space_id" gorm:"index;not null;type:INT"`                  // 車位ID
	StartTime         time.Time           `json:"start_time" gorm:"type:datetime;not null"`                         // 起始時間
	EndTime           time.Time           `json:"end_time" gorm:"type:datetime;not null"`                           // 結束時間
	FinalCost         float64             `json:"final_cost" gorm:"type:decimal(10,2);default:0.0"`                 // 結算費用
	IsOccupied        bool                `json:"is_occupied" gorm:"not null;default:false;index"`                  // 佔用旗標
	Rating            *int                `json:"rating" gorm:"type:INT;default:null"`                              // 評分由外部寫入，此處唯讀
	ParkingSpace      ParkingSpace        `json:"-" gorm:"foreignKey:BookingSpaceID;references:SpaceID"`
	Payment           *PaymentTransaction `json:"-" gorm:"foreignKey:PmtBookingID;references:BookingID"`
}

func (Booking) TableName() string {
	return "bookings"
}

type SimpleBookingEntry struct {
	BookingID  int       `json:"booking_id"`
	SpaceID    int       `json:"space_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	FinalCost  float64   `json:"final_cost"`
	IsOccupied bool      `json:"is_occupied"`
}

func (b *Booking) ToSimpleEntry() SimpleBookingEntry {
	return SimpleBookingEntry{
		BookingID:  b.BookingID,
		SpaceID:    b.BookingSpaceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		FinalCost:  b.FinalCost,
		IsOccupied: b.IsOccupied,
	}
}

// BookingHistoryEntry 會員歷史預約查詢結果，IsActive 由付款紀錄推導
type BookingHistoryEntry struct {
	BookingID         int        `json:"booking_id"`
	CustomerBookingID int        `json:"customer_booking_id"`
	BookingSpaceID    int        `json:"booking_space_id"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	FinalCost         float64    `json:"final_cost"`
	IsOccupied        bool       `json:"is_occupied"`
	Rating            *int       `json:"rating"`
	IsActive          bool       `json:"is_active"`
	PmtID             *int       `json:"pmt_id"`
	Expiry            *time.Time `json:"expiry"`
	PropAddress       string     `json:"prop_address"`
}
