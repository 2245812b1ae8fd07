package models

type Issuer struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"column:username;size:255;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"` // ẩn khi trả JSON
	CreatedAt    string `gorm:"column:created_at;size:32;not null" json:"created_at"`

	Surveys    []Survey   `gorm:"foreignKey:IssuerID" json:"-"`
	Categories []Category `gorm:"foreignKey:IssuerID" json:"-"`
}

func (Issuer) TableName() string {
	return "issuers"
}
