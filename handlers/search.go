package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"carvalet/services"

	"github.com/gin-gonic/gin"
)

// parseTimeUTC 解析時間字串並轉換為 UTC，接受 RFC 3339 或不帶時區的格式
func parseTimeUTC(timeStr string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t.UTC(), nil
	}

	// 不帶時區的格式一律視為 UTC
	t, err = time.Parse("2006-01-02T15:04:05", timeStr)
	if err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("time must be in 'YYYY-MM-DDThh:mm:ss' or RFC 3339 format")
}

// parseWindow 解析查詢時段參數
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	startTime, err := parseTimeUTC(c.Query("start_time"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的開始時間格式", err.Error())
		return time.Time{}, time.Time{}, false
	}

	endTime, err := parseTimeUTC(c.Query("end_time"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的結束時間格式", err.Error())
		return time.Time{}, time.Time{}, false
	}

	if !startTime.Before(endTime) {
		ErrorResponse(c, http.StatusBadRequest, "無效的時段", "start_time must be before end_time")
		return time.Time{}, time.Time{}, false
	}

	return startTime, endTime, true
}

// SearchSpaces 依郵遞區號或地址文字搜尋可預約車位
func SearchSpaces(c *gin.Context) {
	startTime, endTime, ok := parseWindow(c)
	if !ok {
		return
	}

	zipHints := c.QueryArray("zip")
	locationText := c.Query("location")
	if len(zipHints) == 0 && locationText == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少位置條件", "provide at least one zip or a location query")
		return
	}

	results, err := services.SearchSpaces(zipHints, locationText, startTime, endTime)
	if err != nil {
		log.Printf("Search failed for zips %v, location %q: %v", zipHints, locationText, err)
		ErrorResponse(c, http.StatusInternalServerError, "搜尋失敗", err.Error())
		return
	}

	// 空結果是合法的查詢結果，不是錯誤
	SuccessResponse(c, http.StatusOK, "查詢成功", results)
}

// LandingSearch 首頁搜尋，可選擇以座標與半徑過濾
func LandingSearch(c *gin.Context) {
	startTime, endTime, ok := parseWindow(c)
	if !ok {
		return
	}

	var geo *services.GeoFilter
	latStr, lngStr := c.Query("latitude"), c.Query("longitude")
	if latStr != "" && lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil || lat < -90 || lat > 90 {
			ErrorResponse(c, http.StatusBadRequest, "無效的緯度", "latitude must be between -90 and 90")
			return
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil || lng < -180 || lng > 180 {
			ErrorResponse(c, http.StatusBadRequest, "無效的經度", "longitude must be between -180 and 180")
			return
		}
		radius, _ := strconv.ParseFloat(c.Query("radius"), 64)
		geo = &services.GeoFilter{Latitude: lat, Longitude: lng, RadiusKM: radius}
	}

	results, err := services.FindSpacesByGeoAndTime(geo, startTime, endTime)
	if err != nil {
		log.Printf("Landing search failed: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "搜尋失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", results)
}

// GetSpacesByProperty 查詢特定物業（識別碼前綴）的可預約車位
func GetSpacesByProperty(c *gin.Context) {
	startTime, endTime, ok := parseWindow(c)
	if !ok {
		return
	}

	prefix := c.Param("prefix")
	if prefix == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少物業識別碼", "property id prefix is required")
		return
	}

	results, err := services.FindSpacesByTimeAndProperty(prefix, startTime, endTime)
	if err != nil {
		log.Printf("Property search failed for prefix %s: %v", prefix, err)
		ErrorResponse(c, http.StatusInternalServerError, "搜尋失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", results)
}

// GetMySpaces 查詢目前會員名下的車位
func GetMySpaces(c *gin.Context) {
	memberID, exists := c.Get("member_id")
	if !exists {
		ErrorResponse(c, http.StatusUnauthorized, "未授權", "member_id not found in token")
		return
	}

	results, err := services.ListSpacesByOwner(memberID.(int))
	if err != nil {
		log.Printf("Failed to list spaces for member %v: %v", memberID, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢失敗", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", results)
}
