// models/book.go
package models

const BookTable = "books"

type Book struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string `gorm:"size:100;not null" json:"title" binding:"required,max=100"`
	Author          string `gorm:"size:100;not null" json:"author" binding:"required,max=100"`
	PublicationYear int    `gorm:"not null" json:"publicationYear" binding:"min=1000,max=9999"`
	ISBN            string `gorm:"column:isbn;size:20;not null" json:"isbn" binding:"required,max=20"`
}

func (Book) TableName() string { return BookTable }
