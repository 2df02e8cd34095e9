// models/borrowing_record.go
package models

import "time"

const BorrowingRecordTable = "borrowing_records"

// BorrowingRecord is created by a borrow and mutated once, when the book comes back.
// A nil ReturnDate marks an outstanding loan.
type BorrowingRecord struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID     uint       `gorm:"not null;index" json:"bookId"`
	Book       *Book      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"book,omitempty"`
	PatronID   uint       `gorm:"not null;index" json:"patronId"`
	Patron     *Patron    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"patron,omitempty"`
	BorrowDate time.Time  `gorm:"not null;index" json:"borrowDate"`
	ReturnDate *time.Time `gorm:"index" json:"returnDate"`
}

func (BorrowingRecord) TableName() string { return BorrowingRecordTable }

// Outstanding reports whether the loan has not been returned yet.
func (r BorrowingRecord) Outstanding() bool { return r.ReturnDate == nil }
