package handlers

import (
	"errors"
	"log"
	"net/http"

	"carvalet/services"

	"github.com/gin-gonic/gin"
)

// BookingInput 定義用於綁定預約請求的輸入結構體
type BookingInput struct {
	SpaceIDs  []int  `json:"space_ids" binding:"required,min=1"` // 可接受的候選車位，依偏好排序
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// BookSpace 預約車位資料檢查
func BookSpace(c *gin.Context) {
	var input BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid booking input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "請提供候選車位、開始時間和結束時間")
		return
	}

	startTime, err := parseTimeUTC(input.StartTime)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的開始時間格式", err.Error())
		return
	}

	endTime, err := parseTimeUTC(input.EndTime)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的結束時間格式", err.Error())
		return
	}

	memberID, exists := c.Get("member_id")
	if !exists {
		ErrorResponse(c, http.StatusUnauthorized, "未授權", "member_id not found in token")
		return
	}

	result, err := services.ReserveSpace(memberID.(int), input.SpaceIDs, startTime, endTime)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTimeWindow), errors.Is(err, services.ErrEmptyCandidateSet):
			ErrorResponseWithCode(c, http.StatusBadRequest, "無效的預約條件", err.Error(), "ERR_INVALID_BOOKING_INPUT")
		case errors.Is(err, services.ErrNoCandidateAvailable):
			// 預約衝突：候選車位在該時段都被佔用，呼叫端可換時段或重新搜尋
			ErrorResponseWithCode(c, http.StatusConflict, "車位已被預約", err.Error(), "ERR_BOOKING_CONFLICT")
		default:
			log.Printf("Booking failed for member %v: %v", memberID, err)
			ErrorResponseWithCode(c, http.StatusInternalServerError, "預約失敗", err.Error(), "ERR_STORE_FAULT")
		}
		return
	}

	SuccessResponse(c, http.StatusCreated, "預約成功", result)
}

// GetBookingHistory 查詢目前會員的預約歷史
func GetBookingHistory(c *gin.Context) {
	memberID, exists := c.Get("member_id")
	if !exists {
		ErrorResponse(c, http.StatusUnauthorized, "未授權", "member_id not found in token")
		return
	}

	entries, err := services.ListBookingsByCustomer(memberID.(int))
	if err != nil {
		log.Printf("Failed to fetch booking history for member %v: %v", memberID, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", entries)
}
