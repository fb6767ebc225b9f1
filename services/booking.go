package services

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"carvalet/database"
	"carvalet/models"
)

// BookingResult 預約成功的回傳結果
type BookingResult struct {
	Success   bool   `json:"success"`
	BookingID int    `json:"booking_id"`
	SpaceID   int    `json:"space_id"`
	Message   string `json:"message"`
}

// CalculateBookingCost 依時段長度計算費用，不足一小時以一小時計
func CalculateBookingCost(startTime, endTime time.Time, pricePerHour float64) (float64, error) {
	if !startTime.Before(endTime) {
		return 0, ErrInvalidTimeWindow
	}
	if pricePerHour <= 0 {
		return 0, fmt.Errorf("invalid price per hour: %.2f", pricePerHour)
	}

	durationHours := math.Ceil(endTime.Sub(startTime).Minutes() / 60.0)
	return durationHours * pricePerHour, nil
}

// ReserveSpace 預約交易核心：在單一交易內，從候選車位中依呼叫端給定的
// 順序挑出第一個在 [startTime, endTime) 內沒有佔用中預約的車位，並插入
// 佔用旗標為 true 的預約。挑選與插入是同一條 INSERT ... SELECT，兩個並發
// 請求搶同一車位時由資料庫交易隔離決定勝負，敗方在自己的交易內看到車位
// 已被佔用。全系統只有這裡會把 is_occupied 設為 true。
//
// 所有候選車位在該時段都被佔用時回傳 ErrNoCandidateAvailable；
// 交易本身失敗時回傳 StoreError，兩者不可互換。
func ReserveSpace(customerID int, candidateSpaceIDs []int, startTime, endTime time.Time) (*BookingResult, error) {
	// 驗證在任何資料庫操作之前完成
	if !startTime.Before(endTime) {
		return nil, ErrInvalidTimeWindow
	}
	if len(candidateSpaceIDs) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	durationHours := math.Ceil(endTime.Sub(startTime).Minutes() / 60.0)

	// 以 CASE 表達式保留呼叫端的候選順序，所有值都走參數綁定
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(candidateSpaceIDs)), ",")
	var orderCase strings.Builder
	orderCase.WriteString("CASE ps.space_id")
	for i := range candidateSpaceIDs {
		fmt.Fprintf(&orderCase, " WHEN ? THEN %d", i)
	}
	fmt.Fprintf(&orderCase, " ELSE %d END", len(candidateSpaceIDs))

	insertSQL := fmt.Sprintf(`
		INSERT INTO bookings (customer_booking_id, booking_space_id, final_cost, start_time, end_time, is_occupied)
		SELECT ?, ps.space_id, ps.price * ?, ?, ?, ?
		FROM parking_spaces ps
		WHERE ps.space_id IN (%s)
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.booking_space_id = ps.space_id
			  AND b.is_occupied = ?
			  AND b.start_time < ? AND ? < b.end_time)
		ORDER BY %s
		LIMIT 1`, placeholders, orderCase.String())

	args := make([]interface{}, 0, 2*len(candidateSpaceIDs)+8)
	args = append(args, customerID, durationHours, startTime, endTime, true)
	for _, id := range candidateSpaceIDs {
		args = append(args, id)
	}
	args = append(args, true, endTime, startTime)
	for _, id := range candidateSpaceIDs {
		args = append(args, id)
	}

	// 開始事務
	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, storeError("ReserveSpace.begin", tx.Error)
	}

	result := tx.Exec(insertSQL, args...)
	if result.Error != nil {
		tx.Rollback()
		log.Printf("Failed to insert booking for customer %d: %v", customerID, result.Error)
		return nil, storeError("ReserveSpace.insert", result.Error)
	}

	// 交易執行成功但沒有任何候選車位可插入：預約衝突，不是系統錯誤
	if result.RowsAffected == 0 {
		tx.Rollback()
		log.Printf("Booking conflict: all %d candidate spaces occupied for window [%s, %s)",
			len(candidateSpaceIDs), startTime.Format(time.RFC3339), endTime.Format(time.RFC3339))
		return nil, ErrNoCandidateAvailable
	}

	// 取回剛插入的預約，確認實際分配到的車位
	var booking models.Booking
	if err := tx.Where("customer_booking_id = ? AND start_time = ? AND end_time = ?",
		customerID, startTime, endTime).
		Order("booking_id DESC").
		First(&booking).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to read back booking for customer %d: %v", customerID, err)
		return nil, storeError("ReserveSpace.readback", err)
	}

	// 提交事務
	if err := tx.Commit().Error; err != nil {
		return nil, storeError("ReserveSpace.commit", err)
	}

	log.Printf("Successfully reserved space %d as booking %d for customer %d",
		booking.BookingSpaceID, booking.BookingID, customerID)
	return &BookingResult{
		Success:   true,
		BookingID: booking.BookingID,
		SpaceID:   booking.BookingSpaceID,
		Message: fmt.Sprintf("inserted booking %d for space %d, start_time: %s",
			booking.BookingID, booking.BookingSpaceID, startTime.Format(time.RFC3339)),
	}, nil
}

// ListBookingsByCustomer 查詢會員的所有預約，附上物業地址與付款狀態。
// IsActive 由付款紀錄是否存在推導，排序為佔用中優先、結束時間新者優先。
func ListBookingsByCustomer(customerID int) ([]models.BookingHistoryEntry, error) {
	var entries []models.BookingHistoryEntry
	if err := database.DB.Model(&models.Booking{}).
		Select("bookings.booking_id, bookings.customer_booking_id, bookings.booking_space_id, "+
			"bookings.start_time, bookings.end_time, bookings.final_cost, bookings.is_occupied, bookings.rating, "+
			"payment_transactions.pmt_id, payment_transactions.expiry, "+
			"payment_transactions.pmt_id IS NOT NULL AS is_active, "+
			"properties.prop_address").
		Joins("LEFT JOIN payment_transactions ON bookings.booking_id = payment_transactions.pmt_booking_id").
		Joins("JOIN parking_spaces ON bookings.booking_space_id = parking_spaces.space_id").
		Joins("JOIN properties ON parking_spaces.property_lookup_id = properties.property_id").
		Where("bookings.customer_booking_id = ?", customerID).
		Order("bookings.is_occupied DESC, bookings.end_time DESC").
		Scan(&entries).Error; err != nil {
		log.Printf("Failed to query bookings for customer %d: %v", customerID, err)
		return nil, storeError("ListBookingsByCustomer", err)
	}

	log.Printf("Found %d bookings for customer %d", len(entries), customerID)
	return entries, nil
}

// ReleaseExpiredBookings 清除時段已結束的佔用旗標，由排程定期執行
func ReleaseExpiredBookings() error {
	now := time.Now().UTC()
	result := database.DB.Model(&models.Booking{}).
		Where("is_occupied = ? AND end_time <= ?", true, now).
		Update("is_occupied", false)
	if result.Error != nil {
		log.Printf("Failed to release expired bookings: %v", result.Error)
		return storeError("ReleaseExpiredBookings", result.Error)
	}

	if result.RowsAffected > 0 {
		log.Printf("Released %d expired bookings", result.RowsAffected)
	}
	return nil
}
