package services_test

import (
	"fmt"
	"testing"
	"time"

	"carvalet/database"
	"carvalet/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 以記憶體 SQLite 取代全域連線，每個測試一個獨立資料庫
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Member{},
		&models.Property{},
		&models.ParkingSpace{},
		&models.Booking{},
		&models.PaymentTransaction{},
	))

	database.DB = db
	return db
}

func seedProperty(t *testing.T, db *gorm.DB, address, zip string, verified bool) *models.Property {
	t.Helper()

	property := &models.Property{
		OwnerID:          1,
		PropAddress:      address,
		Zip:              zip,
		BillingType:      "hourly",
		LocationVerified: verified,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func seedPropertyAt(t *testing.T, db *gorm.DB, address, zip string, lat, lng float64) *models.Property {
	t.Helper()

	property := seedProperty(t, db, address, zip, true)
	require.NoError(t, db.Model(property).Updates(map[string]interface{}{
		"latitude":  lat,
		"longitude": lng,
	}).Error)
	property.Latitude = &lat
	property.Longitude = &lng
	return property
}

func seedSpace(t *testing.T, db *gorm.DB, property *models.Property, spaceNo, spType string, price float64) *models.ParkingSpace {
	t.Helper()

	space := &models.ParkingSpace{
		SpaceNo:          spaceNo,
		SpType:           spType,
		Price:            price,
		PropertyLookupID: property.PropertyID,
	}
	require.NoError(t, db.Create(space).Error)
	return space
}

func seedBooking(t *testing.T, db *gorm.DB, customerID, spaceID int, start, end time.Time, occupied bool) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		CustomerBookingID: customerID,
		BookingSpaceID:    spaceID,
		StartTime:         start,
		EndTime:           end,
		IsOccupied:        occupied,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func utcTime(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed.UTC()
}
