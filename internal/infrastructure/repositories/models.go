package repositories

import "time"

// DBUserType is the user type lookup table
type DBUserType struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false"`
	Type string `gorm:"size:32;not null"`
}

func (DBUserType) TableName() string { return "user_type" }

// DBCity is keyed by postal code
type DBCity struct {
	PostalCode int    `gorm:"primaryKey;autoIncrement:false"`
	Name       string `gorm:"size:128;not null"`
}

func (DBCity) TableName() string { return "city" }

// DBAddress may be shared by several contact records
type DBAddress struct {
	ID             string `gorm:"primaryKey;size:36"`
	StreetNumber   int
	StreetName     string `gorm:"size:255;index:idx_address_street"`
	CityPostalCode int    `gorm:"index:idx_address_street"`
	City           DBCity `gorm:"foreignKey:CityPostalCode;references:PostalCode"`
}

func (DBAddress) TableName() string { return "address" }

// DBContactInfo belongs to exactly one user
type DBContactInfo struct {
	ID          string `gorm:"primaryKey;size:36"`
	Email       string `gorm:"size:255;not null"`
	PhoneNumber string `gorm:"size:32;not null"`
	AddressID   string `gorm:"size:36;index"`
	Address     DBAddress `gorm:"foreignKey:AddressID"`
}

func (DBContactInfo) TableName() string { return "contact_info" }

// DBLoginInformation shares its key with the user's username
type DBLoginInformation struct {
	Username string `gorm:"primaryKey;size:64"`
	Password string `gorm:"size:255;not null"`
}

func (DBLoginInformation) TableName() string { return "login_information" }

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID            string        `gorm:"primaryKey;size:36"`
	FirstName     string        `gorm:"size:128"`
	LastName      string        `gorm:"size:128"`
	Username      string        `gorm:"uniqueIndex;size:64;not null"`
	UserTypeID    int           `gorm:"index;not null"`
	UserType      DBUserType    `gorm:"foreignKey:UserTypeID"`
	ContactInfoID string        `gorm:"size:36;index"`
	ContactInfo   DBContactInfo `gorm:"foreignKey:ContactInfoID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (DBUser) TableName() string { return "app_user" }

// Models lists every table owned by the repositories, in dependency order
func Models() []interface{} {
	return []interface{}{
		&DBUserType{},
		&DBCity{},
		&DBAddress{},
		&DBContactInfo{},
		&DBLoginInformation{},
		&DBUser{},
	}
}
