package services_test

import (
	"testing"

	"carvalet/services"

	"github.com/stretchr/testify/require"
)

func TestFindSpacesByTimeAndZipExcludesOverlappingWindow(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, "77 Hudson St", "10013", true)
	blocked := seedSpace(t, db, property, "A1", "compact", 4.0)
	free := seedSpace(t, db, property, "A2", "compact", 6.0)

	// 既有佔用中預約 11:00–13:00 與查詢時段 10:00–12:00 重疊
	seedBooking(t, db, 9, blocked.SpaceID,
		utcTime(t, "2024-06-01T11:00:00Z"), utcTime(t, "2024-06-01T13:00:00Z"), true)

	results, err := services.FindSpacesByTimeAndZip(
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, free.SpaceID, results[0].SpaceID)
	require.True(t, results[0].Available)
}

func TestFindSpacesByTimeAndZipHalfOpenWindows(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, "77 Hudson St", "10013", true)
	space := seedSpace(t, db, property, "A1", "compact", 4.0)

	// 預約剛好接在查詢時段結束點之後，半開區間不算重疊
	seedBooking(t, db, 9, space.SpaceID,
		utcTime(t, "2024-06-01T12:00:00Z"), utcTime(t, "2024-06-01T13:00:00Z"), true)

	results, err := services.FindSpacesByTimeAndZip(
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestFindSpacesByTimeAndZipIgnoresNonOccupiedBookings(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, "77 Hudson St", "10013", true)
	space := seedSpace(t, db, property, "A1", "compact", 4.0)

	// 已取消（is_occupied=false）的預約不阻擋車位
	seedBooking(t, db, 9, space.SpaceID,
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"), false)

	results, err := services.FindSpacesByTimeAndZip(
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestFindSpacesByTimeAndZipSkipsUnverifiedProperties(t *testing.T) {
	db := setupTestDB(t)
	unverified := seedProperty(t, db, "1 Secret Rd", "10001", false)
	seedSpace(t, db, unverified, "U1", "compact", 2.0)

	results, err := services.FindSpacesByTimeAndZip(
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestFindSpacesByTimeAndZipRanksWithinProperty(t *testing.T) {
	db := setupTestDB(t)
	big := seedProperty(t, db, "100 Broad St", "10004", true)
	seedSpace(t, db, big, "B1", "compact", 8.0)
	seedSpace(t, db, big, "B2", "compact", 3.0)
	small := seedProperty(t, db, "9 Pine St", "10005", true)
	seedSpace(t, db, small, "S1", "compact", 5.0)

	results, err := services.FindSpacesByTimeAndZip(
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Len(t, results, 3)

	// 車位較多的物業排前面
	require.Equal(t, big.PropertyID, results[0].PropertyID)
	require.Equal(t, 2, results[0].CountSpaces)

	// 物業內依價格遞增給名次
	require.Equal(t, 3.0, results[0].Price)
	require.Equal(t, 1, results[0].RowNum)
	require.Equal(t, 8.0, results[1].Price)
	require.Equal(t, 2, results[1].RowNum)
	require.Equal(t, 1, results[2].RowNum)
	require.Equal(t, 1, results[2].CountSpaces)
}

func TestFindSpacesByGeoAndTimeUnionBehavior(t *testing.T) {
	db := setupTestDB(t)
	mixed := seedProperty(t, db, "200 Park Ave", "10166", true)
	mixedFree := seedSpace(t, db, mixed, "M1", "compact", 5.0)
	mixedBlocked := seedSpace(t, db, mixed, "M2", "compact", 4.0)
	full := seedProperty(t, db, "2 Wall St", "10005", true)
	fullBlocked := seedSpace(t, db, full, "F1", "suv", 9.0)

	start := utcTime(t, "2024-06-01T10:00:00Z")
	end := utcTime(t, "2024-06-01T12:00:00Z")
	seedBooking(t, db, 9, mixedBlocked.SpaceID, start, end, true)
	seedBooking(t, db, 9, fullBlocked.SpaceID, start, end, true)

	results, err := services.FindSpacesByGeoAndTime(nil, start, end)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// 有可用車位的物業只列出可用車位
	require.Equal(t, mixedFree.SpaceID, results[0].SpaceID)
	require.True(t, results[0].Available)
	require.Equal(t, 1, results[0].CountSpaces)

	// 完全沒有可用車位的物業整批列出並標註不可用
	require.Equal(t, fullBlocked.SpaceID, results[1].SpaceID)
	require.False(t, results[1].Available)
}

func TestFindSpacesByGeoAndTimeRadiusFilter(t *testing.T) {
	db := setupTestDB(t)
	nearby := seedPropertyAt(t, db, "200 Park Ave", "10166", 40.7527, -73.9772)
	nearbySpace := seedSpace(t, db, nearby, "N1", "compact", 5.0)
	faraway := seedPropertyAt(t, db, "111 S Grand Ave", "90012", 34.0537, -118.2500)
	seedSpace(t, db, faraway, "L1", "compact", 5.0)
	noCoords := seedProperty(t, db, "77 Hudson St", "10013", true)
	seedSpace(t, db, noCoords, "H1", "compact", 5.0)

	geo := &services.GeoFilter{Latitude: 40.7527, Longitude: -73.9772, RadiusKM: 5}
	results, err := services.FindSpacesByGeoAndTime(geo,
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)

	// 只剩半徑內且座標已設定的物業
	require.Len(t, results, 1)
	require.Equal(t, nearbySpace.SpaceID, results[0].SpaceID)
}

func TestFindSpacesByTimeAndPropertyPrefix(t *testing.T) {
	db := setupTestDB(t)
	target := seedProperty(t, db, "200 Park Ave", "10166", true)
	cheapSUV := seedSpace(t, db, target, "T1", "suv", 5.0)
	dearSUV := seedSpace(t, db, target, "T2", "suv", 7.0)
	compact := seedSpace(t, db, target, "T3", "compact", 6.0)
	other := seedProperty(t, db, "9 Pine St", "10005", true)
	seedSpace(t, db, other, "O1", "suv", 4.0)

	results, err := services.FindSpacesByTimeAndProperty(target.PropertyID[:13],
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Len(t, results, 3)

	// 整體依價格遞增排序
	require.Equal(t, cheapSUV.SpaceID, results[0].SpaceID)
	require.Equal(t, compact.SpaceID, results[1].SpaceID)
	require.Equal(t, dearSUV.SpaceID, results[2].SpaceID)

	// 名次依車位類型計算
	require.Equal(t, 1, results[0].RowNum)
	require.Equal(t, 1, results[1].RowNum)
	require.Equal(t, 2, results[2].RowNum)
	require.Equal(t, 3, results[0].CountSpaces)
}

func TestSearchSpacesZipProximityStrategy(t *testing.T) {
	db := setupTestDB(t)
	near := seedProperty(t, db, "100 Broad St", "10002", true)
	nearSpace := seedSpace(t, db, near, "N1", "compact", 4.0)
	far := seedProperty(t, db, "111 S Grand Ave", "90210", true)
	seedSpace(t, db, far, "F1", "compact", 4.0)

	results, err := services.SearchSpaces([]string{"10001"}, "",
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, nearSpace.SpaceID, results[0].SpaceID)
}

func TestSearchSpacesFallsThroughToTokenMatching(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, "Maple Grove Court", "10013", true)
	space := seedSpace(t, db, property, "A1", "compact", 4.0)

	// 郵遞區號提示無匹配，但有地址文字時必須改用詞彙比對而非回空
	results, err := services.SearchSpaces([]string{"99999"}, "Maple Grove Court",
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, space.SpaceID, results[0].SpaceID)
	require.Greater(t, results[0].CountMatch, 2)
}

func TestSearchSpacesTokenMatchThreshold(t *testing.T) {
	db := setupTestDB(t)
	strong := seedProperty(t, db, "Maple Grove Plaza East Lot", "10001", true)
	strongSpace := seedSpace(t, db, strong, "S1", "compact", 4.0)
	weak := seedProperty(t, db, "Maple Grove Court", "10002", true)
	weakSpace := seedSpace(t, db, weak, "W1", "compact", 4.0)
	excluded := seedProperty(t, db, "Plaza Maple Court", "10003", true)
	seedSpace(t, db, excluded, "X1", "compact", 4.0)

	results, err := services.SearchSpaces(nil, "Maple Grove Plaza",
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Len(t, results, 2)

	// 只命中兩個詞彙的物業被排除，其餘依命中數遞減排序
	require.Equal(t, strongSpace.SpaceID, results[0].SpaceID)
	require.Equal(t, weakSpace.SpaceID, results[1].SpaceID)
	require.Greater(t, results[0].CountMatch, results[1].CountMatch)
	require.Equal(t, 3, results[1].CountMatch)
}

func TestSearchSpacesNoSignalsReturnsEmpty(t *testing.T) {
	db := setupTestDB(t)
	property := seedProperty(t, db, "77 Hudson St", "10013", true)
	seedSpace(t, db, property, "A1", "compact", 4.0)

	// 沒有任何位置訊號時回傳空集合，不是錯誤
	results, err := services.SearchSpaces(nil, "",
		utcTime(t, "2024-06-01T10:00:00Z"), utcTime(t, "2024-06-01T12:00:00Z"))
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchInvalidWindow(t *testing.T) {
	setupTestDB(t)

	_, err := services.FindSpacesByTimeAndZip(
		utcTime(t, "2024-06-01T12:00:00Z"), utcTime(t, "2024-06-01T10:00:00Z"))
	require.ErrorIs(t, err, services.ErrInvalidTimeWindow)
}
