package db_models

type Profile struct {
	BaseModel
	Email string `gorm:"unique"`
}
