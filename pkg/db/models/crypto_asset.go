package models

import (
	"time"

	"github.com/google/uuid"
)

// CryptoAsset is an admin-configured payment asset. PriceID keys the external
// spot-price feed; only enabled assets are selectable at checkout.
type CryptoAsset struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Symbol    string    `gorm:"column:symbol;not null;uniqueIndex" json:"symbol"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Network   string    `gorm:"column:network;not null" json:"network"`
	Address   string    `gorm:"column:address;not null" json:"address"`
	PriceID   string    `gorm:"column:price_id;not null" json:"price_id"`
	Enabled   bool      `gorm:"column:enabled;not null;default:false" json:"enabled"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the default naming.
func (CryptoAsset) TableName() string {
	return "crypto_assets"
}
