package models

type Member struct {
	MemberID           int        `json:"member_id" gorm:"primaryKey;autoIncrement;type:INT"`
	FirstName          string     `json:"first_name" gorm:"type:varchar(50);not null" binding:"required,max=50"`
	LastName           string     `json:"last_name" gorm:"type:varchar(50);not null" binding:"required,max=50"`
	Address            string     `json:"address" gorm:"type:varchar(120)"`
	Email              string     `json:"email" gorm:"type:varchar(100);not null;uniqueIndex" binding:"required,email"`
	Password           string     `json:"password" gorm:"type:varchar(100);not null" binding:"required"`
	IsRenter           bool       `json:"is_renter" gorm:"not null;default:false"`
	PmtVerified        bool       `json:"pmt_verified" gorm:"not null;default:false"`
	BackgroundVerified bool       `json:"background_verified" gorm:"not null;default:false"`
	Bookings           []Booking  `json:"-" gorm:"foreignKey:CustomerBookingID;references:MemberID"`
	Properties         []Property `json:"-" gorm:"foreignKey:OwnerID;references:MemberID"`
}

func (Member) TableName() string {
	return "client_user"
}

type MemberResponse struct {
	MemberID           int    `json:"member_id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Address            string `json:"address"`
	Email              string `json:"email"`
	IsRenter           bool   `json:"is_renter"`
	PmtVerified        bool   `json:"pmt_verified"`
	BackgroundVerified bool   `json:"background_verified"`
}

// ToResponse 轉換為回應格式，不回傳密碼雜湊
func (m *Member) ToResponse() MemberResponse {
	return MemberResponse{
		MemberID:           m.MemberID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Address:            m.Address,
		Email:              m.Email,
		IsRenter:           m.IsRenter,
		PmtVerified:        m.PmtVerified,
		BackgroundVerified: m.BackgroundVerified,
	}
}
