package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ProductOptions holds extracted option attributes (e.g. "Size" -> "M").
// A nil map means no options were detected in the source email.
type ProductOptions map[string]string

// Value implements driver.Valuer so GORM stores the options as JSON.
func (o ProductOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner for reading the JSON column back.
func (o *ProductOptions) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for product options: %T", value)
	}
	return json.Unmarshal(data, o)
}

// OrderRecord is one parsed Etsy sale notification, persisted per owner.
// (order_id, owner_email) is unique; inserts use conflict-ignore semantics
// so the first writer wins.
type OrderRecord struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	OrderID        string         `json:"order_id" gorm:"uniqueIndex:idx_order_owner;not null"`
	OwnerEmail     string         `json:"owner_email" gorm:"uniqueIndex:idx_order_owner;index;not null"`
	BuyerEmail     string         `json:"buyer_email"`
	ProductName    string         `json:"product_name"`
	ShopName       string         `json:"shop_name"`
	ProductOptions ProductOptions `json:"product_options,omitempty" gorm:"type:jsonb"`
	OrderDate      time.Time      `json:"order_date" gorm:"index"`
	ExtractedDate  time.Time      `json:"extracted_date"`
	MessageID      string         `json:"message_id"`
	ThreadID       string         `json:"thread_id"`
	CreatedAt      time.Time      `json:"created_at"`
}

// TableName specifies the table name for GORM
func (OrderRecord) TableName() string {
	return "orders"
}
