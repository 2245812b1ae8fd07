package models

type Survey struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"column:name;size:255;not null" json:"name"`
	Slug       string `gorm:"column:slug;size:255;uniqueIndex;not null" json:"slug"`
	IssuerID   *uint  `gorm:"column:issuer_id;index" json:"-"`
	CategoryID *uint  `gorm:"column:category_id;index" json:"-"`
	CreatedAt  string `gorm:"column:created_at;size:32;not null" json:"created_at"`

	// Quan hệ
	Responses []Response `gorm:"foreignKey:SurveyID" json:"-"`
}

func (Survey) TableName() string {
	return "surveys"
}

// SurveyListItem là một dòng của danh sách khảo sát, kèm tên danh mục (LEFT JOIN).
type SurveyListItem struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	CreatedAt    string  `json:"created_at"`
	CategoryName *string `json:"category_name"`
}
