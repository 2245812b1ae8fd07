package models

// Response là một lượt đánh giá ẩn danh (1-4). Chỉ thêm mới, không sửa/xoá.
type Response struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SurveyID  uint   `gorm:"column:survey_id;not null;index" json:"survey_id"`
	Survey    Survey `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Rating    int    `gorm:"column:rating;not null" json:"rating"`
	CreatedAt string `gorm:"column:created_at;size:32;not null;index" json:"created_at"`
}

func (Response) TableName() string {
	return "responses"
}
