package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PurchaseHistory archives the membership state a client held before a new
// activation replaced it, together with the payment that triggered the
// replacement.
type PurchaseHistory struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID     primitive.ObjectID `bson:"clientId" json:"clientId"`
	PackageID    primitive.ObjectID `bson:"packageId" json:"packageId"`
	PackageName  string             `bson:"packageName" json:"packageName"`
	Amount       float64            `bson:"amount" json:"amount"`
	Points       int                `bson:"points" json:"points"`
	PaymentRef   string             `bson:"paymentRef" json:"paymentRef"`
	PurchaseDate time.Time          `bson:"purchaseDate" json:"purchaseDate"`

	// Prior is the membership being replaced, nil on first activation.
	Prior *Membership `bson:"prior,omitempty" json:"prior,omitempty"`
}
