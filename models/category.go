package models

type Category struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IssuerID  uint   `gorm:"column:issuer_id;not null;uniqueIndex:idx_categories_issuer_name" json:"-"`
	Name      string `gorm:"column:name;size:255;not null;uniqueIndex:idx_categories_issuer_name" json:"name"`
	CreatedAt string `gorm:"column:created_at;size:32;not null" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}
