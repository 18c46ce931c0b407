package model

import "time"

// CompanyProfile is the single-row company identity printed on receipt
// headers. The row with ID=1 is the only one ever read or written.
type CompanyProfile struct {
	ID        int     `gorm:"primaryKey"`
	Name      string  `gorm:"type:varchar(120);not null"`
	TaxID     *string `gorm:"type:varchar(32)"`
	Address   *string `gorm:"type:varchar(160)"`
	City      *string `gorm:"type:varchar(80)"`
	Contact   *string `gorm:"type:varchar(160)"`
	LogoPath  *string `gorm:"type:varchar(300)"`
	UpdatedAt time.Time
}
