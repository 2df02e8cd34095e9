package models

const PatronTable = "patrons"

type Patron struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string `gorm:"size:100;not null" json:"name" binding:"required,max=100"`
	ContactInformation string `gorm:"size:200;not null" json:"contactInformation" binding:"required,max=200,email"`
}

func (Patron) TableName() string { return PatronTable }
