package models

type ParkingSpace struct {
	SpaceID          int       `json:"space_id" gorm:"primaryKey;autoIncrement;type:INT"`
	SpaceNo          string    `json:"space_no" gorm:"type:varchar(10);not null" binding:"required,max=10"`
	SpType           string    `json:"sp_type" gorm:"type:varchar(20);not null" binding:"required,max=20"` // 例如 compact、suv、motorcycle
	Price            float64   `json:"price" gorm:"type:decimal(10,2);not null" binding:"required,gt=0"`
	PropertyLookupID string    `json:"property_lookup_id" gorm:"index;not null;type:char(36)" binding:"required"`
	Property         Property  `json:"-" gorm:"foreignKey:PropertyLookupID;references:PropertyID"`
	Bookings         []Booking `json:"-" gorm:"foreignKey:BookingSpaceID;references:SpaceID"`
}

func (ParkingSpace) TableName() string {
	return "parking_spaces"
}

type ParkingSpaceResponse struct {
	SpaceID     int                  `json:"space_id"`
	SpaceNo     string               `json:"space_no"`
	SpType      string               `json:"sp_type"`
	Price       float64              `json:"price"`
	PropertyID  string               `json:"property_id"`
	PropAddress string               `json:"prop_address"`
	Bookings    []SimpleBookingEntry `json:"bookings"`
}

// ToResponse 轉換為回應格式，僅帶出佔用中的預約
func (s *ParkingSpace) ToResponse(bookings []Booking) ParkingSpaceResponse {
	var occupied []SimpleBookingEntry
	for _, b := range bookings {
		if b.IsOccupied {
			occupied = append(occupied, b.ToSimpleEntry())
		}
	}

	return ParkingSpaceResponse{
		SpaceID:     s.SpaceID,
		SpaceNo:     s.SpaceNo,
		SpType:      s.SpType,
		Price:       s.Price,
		PropertyID:  s.PropertyLookupID,
		PropAddress: s.Property.PropAddress,
		Bookings:    occupied,
	}
}
