package db_models

type Plan struct {
	BaseModel
	Name                string `gorm:"index;not null"`
	Description         *string
	PriceCents          int64
	Currency            string `gorm:"size:4;default:XOF"`
	IsActive            bool   `gorm:"default:true"`
	SyncIntervalSeconds int32
	MaxEndpoints        int32
}
