package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserAddress struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index;not null"           json:"user_id"`
	Label      string    `json:"label"`
	Recipient  string    `gorm:"not null"                 json:"recipient"`
	Phone      string    `gorm:"not null"                 json:"phone"`
	Line1      string    `gorm:"not null"                 json:"line1"`
	Line2      string    `json:"line2"`
	District   string    `json:"district"`
	Province   string    `json:"province"`
	PostalCode string    `json:"postal_code"`
	IsDefault  bool      `gorm:"default:false"            json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Product is the shape indexed for search. The catalog itself lives in the
// upstream backend, product routes only relay it.
type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	CategoryID  uint    `json:"category_id"`
}

type HomepageSetting struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null"     json:"key"`
	Value     string    `gorm:"type:text"                json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AboutSetting struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null"     json:"key"`
	Value     string    `gorm:"type:text"                json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
