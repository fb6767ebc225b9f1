package services

import (
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"carvalet/database"
	"carvalet/models"
	"carvalet/utils"
)

// SpaceCandidate 查詢回傳的候選車位，含物業資訊與排名欄位
type SpaceCandidate struct {
	SpaceID     int      `json:"space_id"`
	SpaceNo     string   `json:"space_no"`
	SpType      string   `json:"sp_type"`
	Price       float64  `json:"price"`
	PropAddress string   `json:"prop_address"`
	PropertyID  string   `json:"property_id"`
	Zip         string   `json:"zip"`
	BillingType string   `json:"billing_type"`
	Picture     string   `json:"picture"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Available   bool     `json:"available"`
	CountSpaces int      `json:"count_spaces" gorm:"-"` // 同物業車位數
	RowNum      int      `json:"row_num" gorm:"-"`      // 物業內依價格遞增的名次
	CountMatch  int      `json:"count_match,omitempty" gorm:"-"`
}

// GeoFilter 地理範圍過濾條件，nil 表示不以距離過濾
type GeoFilter struct {
	Latitude  float64
	Longitude float64
	RadiusKM  float64
}

// 物業識別碼前綴比對長度
const propertyIDPrefixLen = 13

// fetchVerifiedSpaces 取得所有已驗證物業的車位，搜尋只認 location_verified 的物業
func fetchVerifiedSpaces() ([]SpaceCandidate, error) {
	var rows []SpaceCandidate
	if err := database.DB.Model(&models.ParkingSpace{}).
		Select("parking_spaces.space_id, parking_spaces.space_no, parking_spaces.sp_type, parking_spaces.price, " +
			"properties.prop_address, properties.property_id, properties.zip, properties.billing_type, " +
			"properties.picture, properties.latitude, properties.longitude").
		Joins("JOIN properties ON parking_spaces.property_lookup_id = properties.property_id").
		Where("properties.location_verified = ?", true).
		Order("parking_spaces.space_id").
		Scan(&rows).Error; err != nil {
		log.Printf("Failed to fetch verified spaces: %v", err)
		return nil, storeError("fetchVerifiedSpaces", err)
	}
	return rows, nil
}

// conflictingSpaceIDs 找出在查詢時段內已有佔用中預約的車位。
// 半開區間重疊判定：queryStart < existingEnd 且 existingStart < queryEnd。
func conflictingSpaceIDs(startTime, endTime time.Time) (map[int]bool, error) {
	var ids []int
	if err := database.DB.Model(&models.Booking{}).
		Distinct("booking_space_id").
		Where("is_occupied = ?", true).
		Where("start_time < ? AND ? < end_time", endTime, startTime).
		Pluck("booking_space_id", &ids).Error; err != nil {
		log.Printf("Failed to query conflicting space IDs: %v", err)
		return nil, storeError("conflictingSpaceIDs", err)
	}

	conflicts := make(map[int]bool, len(ids))
	for _, id := range ids {
		conflicts[id] = true
	}
	return conflicts, nil
}

// annotateRanks 在應用層計算視窗排名：物業內依價格遞增給 RowNum，
// CountSpaces 為同物業車位數，不依賴資料庫的 window function。
func annotateRanks(rows []SpaceCandidate) []SpaceCandidate {
	byProperty := make(map[string][]int)
	order := make([]string, 0)
	for i, row := range rows {
		if _, ok := byProperty[row.PropertyID]; !ok {
			order = append(order, row.PropertyID)
		}
		byProperty[row.PropertyID] = append(byProperty[row.PropertyID], i)
	}

	var ranked []SpaceCandidate
	for _, propertyID := range order {
		indexes := byProperty[propertyID]
		group := make([]SpaceCandidate, 0, len(indexes))
		for _, i := range indexes {
			group = append(group, rows[i])
		}
		sort.SliceStable(group, func(a, b int) bool {
			return group[a].Price < group[b].Price
		})
		for i := range group {
			group[i].RowNum = i + 1
			group[i].CountSpaces = len(group)
		}
		ranked = append(ranked, group...)
	}
	return ranked
}

// 球面距離（公里）
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0
	rad := math.Pi / 180.0
	cosine := math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Cos((lon2-lon1)*rad) +
		math.Sin(lat1*rad)*math.Sin(lat2*rad)
	// 浮點誤差可能讓值略超出 [-1, 1]
	cosine = math.Max(-1, math.Min(1, cosine))
	return earthRadiusKM * math.Acos(cosine)
}

// FindSpacesByGeoAndTime 首頁搜尋：回傳所有已驗證物業的車位並標註可用性。
// 有可用車位的物業只列出其可用車位；完全沒有可用車位的物業則整批列出
// 並標註 available=false。
// geo 非 nil 時以座標距離過濾，座標未設定的物業在過濾時一律排除。
func FindSpacesByGeoAndTime(geo *GeoFilter, startTime, endTime time.Time) ([]SpaceCandidate, error) {
	if !startTime.Before(endTime) {
		return nil, ErrInvalidTimeWindow
	}

	rows, err := fetchVerifiedSpaces()
	if err != nil {
		return nil, err
	}

	if geo != nil {
		radius := geo.RadiusKM
		if radius <= 0 {
			radius = 3.0
		}
		if radius > 50 {
			radius = 50.0
		}
		filtered := rows[:0]
		for _, row := range rows {
			if row.Latitude == nil || row.Longitude == nil {
				continue
			}
			if haversineKM(geo.Latitude, geo.Longitude, *row.Latitude, *row.Longitude) <= radius {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	conflicts, err := conflictingSpaceIDs(startTime, endTime)
	if err != nil {
		return nil, err
	}

	// 物業分組：可用車位與完全不可用的物業分開處理
	var availableRows []SpaceCandidate
	blockedByProperty := make(map[string][]SpaceCandidate)
	hasAvailable := make(map[string]bool)
	for _, row := range rows {
		if conflicts[row.SpaceID] {
			blockedByProperty[row.PropertyID] = append(blockedByProperty[row.PropertyID], row)
			continue
		}
		row.Available = true
		availableRows = append(availableRows, row)
		hasAvailable[row.PropertyID] = true
	}

	results := annotateRanks(availableRows)

	var fullyBlocked []SpaceCandidate
	for propertyID, blocked := range blockedByProperty {
		if hasAvailable[propertyID] {
			continue
		}
		fullyBlocked = append(fullyBlocked, blocked...)
	}
	fullyBlocked = annotateRanks(fullyBlocked)
	results = append(results, fullyBlocked...)

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Available != results[b].Available {
			return results[a].Available
		}
		return results[a].CountSpaces > results[b].CountSpaces
	})

	log.Printf("Geo/time search returned %d candidate spaces for window [%s, %s)",
		len(results), startTime.Format(time.RFC3339), endTime.Format(time.RFC3339))
	return results, nil
}

// FindSpacesByTimeAndZip 回傳時段內無衝突的已驗證車位原始候選集，
// 依同物業車位數遞減排序。郵遞區號過濾不在此層，由 SearchSpaces 處理。
func FindSpacesByTimeAndZip(startTime, endTime time.Time) ([]SpaceCandidate, error) {
	if !startTime.Before(endTime) {
		return nil, ErrInvalidTimeWindow
	}

	rows, err := fetchVerifiedSpaces()
	if err != nil {
		return nil, err
	}

	conflicts, err := conflictingSpaceIDs(startTime, endTime)
	if err != nil {
		return nil, err
	}

	var free []SpaceCandidate
	for _, row := range rows {
		if conflicts[row.SpaceID] {
			continue
		}
		row.Available = true
		free = append(free, row)
	}

	results := annotateRanks(free)
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].CountSpaces > results[b].CountSpaces
	})
	return results, nil
}

// FindSpacesByTimeAndProperty 查詢識別碼前綴相符物業的無衝突車位，
// RowNum 改為車位類型內依價格的名次，整體依價格遞增排序。
func FindSpacesByTimeAndProperty(propertyIDPrefix string, startTime, endTime time.Time) ([]SpaceCandidate, error) {
	if !startTime.Before(endTime) {
		return nil, ErrInvalidTimeWindow
	}

	prefix := propertyIDPrefix
	if len(prefix) > propertyIDPrefixLen {
		prefix = prefix[:propertyIDPrefixLen]
	}

	var rows []SpaceCandidate
	if err := database.DB.Model(&models.ParkingSpace{}).
		Select("parking_spaces.space_id, parking_spaces.space_no, parking_spaces.sp_type, parking_spaces.price, "+
			"properties.prop_address, properties.property_id, properties.zip, properties.billing_type, "+
			"properties.picture, properties.latitude, properties.longitude").
		Joins("JOIN properties ON parking_spaces.property_lookup_id = properties.property_id").
		Where("properties.location_verified = ?", true).
		Where("properties.property_id LIKE ?", prefix+"%").
		Order("parking_spaces.space_id").
		Scan(&rows).Error; err != nil {
		log.Printf("Failed to fetch spaces for property prefix %s: %v", prefix, err)
		return nil, storeError("FindSpacesByTimeAndProperty", err)
	}

	conflicts, err := conflictingSpaceIDs(startTime, endTime)
	if err != nil {
		return nil, err
	}

	var free []SpaceCandidate
	for _, row := range rows {
		if conflicts[row.SpaceID] {
			continue
		}
		row.Available = true
		free = append(free, row)
	}

	// 名次依車位類型分組、價格遞增；CountSpaces 為整體筆數
	byType := make(map[string]int)
	sort.SliceStable(free, func(a, b int) bool {
		return free[a].Price < free[b].Price
	})
	for i := range free {
		byType[free[i].SpType]++
		free[i].RowNum = byType[free[i].SpType]
		free[i].CountSpaces = len(free)
	}
	return free, nil
}

// SearchSpaces 排序引擎：依序嘗試郵遞區號鄰近過濾與地址詞彙比對。
// 兩種策略都落空時回傳空集合，空結果不是錯誤。
func SearchSpaces(zipHints []string, locationText string, startTime, endTime time.Time) ([]SpaceCandidate, error) {
	rows, err := FindSpacesByTimeAndZip(startTime, endTime)
	if err != nil {
		return nil, err
	}

	// 策略一：郵遞區號數值鄰近，便宜且精準
	if len(zipHints) > 0 {
		candidateZips := make([]string, 0, len(rows))
		for _, row := range rows {
			candidateZips = append(candidateZips, row.Zip)
		}
		closeZips := make(map[string]bool)
		for _, zip := range utils.ClosePostalCodes(zipHints, candidateZips) {
			closeZips[zip] = true
		}

		var matched []SpaceCandidate
		for _, row := range rows {
			if closeZips[row.Zip] {
				matched = append(matched, row)
			}
		}
		if len(matched) > 0 {
			log.Printf("Zip proximity search matched %d spaces for hints %v", len(matched), zipHints)
			return matched, nil
		}
	}

	// 策略二：地址詞彙比對，只在沒有數值訊號可用時使用的粗略啟發式
	if locationText != "" {
		addr, _ := utils.ExtractPostalCode(locationText)
		tokens := utils.SplitAddressIntoTokens(addr)

		// 每個物業只比對其 RowNum==1 的代表列
		matchCounts := make(map[string]int)
		for _, token := range tokens {
			for _, row := range rows {
				if row.RowNum != 1 {
					continue
				}
				if strings.Contains(row.PropAddress, token) {
					matchCounts[row.PropertyID]++
				}
			}
		}

		// 命中兩個以下詞彙的物業視為弱匹配，整個排除
		var matched []SpaceCandidate
		for _, row := range rows {
			if count, ok := matchCounts[row.PropertyID]; ok && count > 2 {
				row.CountMatch = count
				matched = append(matched, row)
			}
		}
		sort.SliceStable(matched, func(a, b int) bool {
			return matched[a].CountMatch > matched[b].CountMatch
		})
		log.Printf("Address token search matched %d spaces for query %q", len(matched), locationText)
		return matched, nil
	}

	return nil, nil
}

// ListSpacesByOwner 查詢物業擁有者名下所有車位與其佔用中的預約
func ListSpacesByOwner(ownerID int) ([]models.ParkingSpaceResponse, error) {
	var spaces []models.ParkingSpace
	if err := database.DB.
		Preload("Property").
		Preload("Bookings", "is_occupied = ?", true).
		Joins("JOIN properties ON parking_spaces.property_lookup_id = properties.property_id").
		Where("properties.owner_id = ?", ownerID).
		Find(&spaces).Error; err != nil {
		log.Printf("Failed to fetch spaces for owner %d: %v", ownerID, err)
		return nil, storeError("ListSpacesByOwner", err)
	}

	responses := make([]models.ParkingSpaceResponse, len(spaces))
	for i, space := range spaces {
		responses[i] = space.ToResponse(space.Bookings)
	}

	log.Printf("Found %d parking spaces for owner %d", len(spaces), ownerID)
	return responses, nil
}
