package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property 物業資料，一個物業可擁有多個車位
type Property struct {
	PropertyID       string         `json:"property_id" gorm:"primaryKey;type:char(36)"`
	OwnerID          int            `json:"owner_id" gorm:"index;not null;type:INT"`
	PropAddress      string         `json:"prop_address" gorm:"type:varchar(120);not null" binding:"required,max=120"`
	Zip              string         `json:"zip" gorm:"type:varchar(10);index"`
	Latitude         *float64       `json:"latitude" gorm:"type:decimal(9,6)"` // 位置未驗證時為 NULL
	Longitude        *float64       `json:"longitude" gorm:"type:decimal(9,6)"`
	BillingType      string         `json:"billing_type" gorm:"type:varchar(20);not null" binding:"omitempty,oneof=hourly monthly"`
	Picture          string         `json:"picture" gorm:"type:varchar(255)"`
	LocationVerified bool           `json:"location_verified" gorm:"not null;default:false;index"`
	Spaces           []ParkingSpace `json:"-" gorm:"foreignKey:PropertyLookupID;references:PropertyID"`
}

func (Property) TableName() string {
	return "properties"
}

// BeforeCreate 自動產生 property_id
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyID == "" {
		p.PropertyID = uuid.NewString()
	}
	return nil
}
