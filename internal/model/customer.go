// internal/model/customer.go
package model

// Customer is the record every repository backend stores.
// ID is assigned by the backend on insert; zero means "not persisted yet".
type Customer struct {
	ID    int    `db:"id" json:"id" gorm:"primaryKey;autoIncrement" bson:"_id"`
	Name  string `db:"name" json:"name" gorm:"not null" bson:"name"`
	Email string `db:"email" json:"email" gorm:"not null;uniqueIndex" bson:"email"`
	Age   int    `db:"age" json:"age" gorm:"not null" bson:"age"`
}

// TableName pins the gorm table to the one the raw SQL backend uses.
func (Customer) TableName() string {
	return "customer"
}

// CustomerRegistrationRequest carries the caller supplied fields of a new customer.
type CustomerRegistrationRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}
