package models

type Post struct {
	ID    uint   `gorm:"primaryKey" form:"id" json:"id"`
	Title string `gorm:"type:varchar(255);not null" form:"title" json:"title"`
	Text  string `gorm:"type:text;not null" form:"text" json:"text"`
}
