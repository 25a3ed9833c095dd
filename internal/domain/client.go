package domain

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership is the points ledger embedded in a Client. It is replaced
// wholesale on activation; points only move through conditional debits and
// the expiry sweep.
type Membership struct {
	Type      primitive.ObjectID `bson:"type,omitempty" json:"type"` // MembershipPackage reference
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	Points    int                `bson:"points" json:"points"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
}

// Client is a person who books sessions and owns at most one active
// membership.
type Client struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID   string             `bson:"clientUid" json:"clientUid"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`

	Gender          string   `bson:"gender,omitempty" json:"gender,omitempty"`
	Age             int      `bson:"age,omitempty" json:"age,omitempty"`
	HeightCM        float64  `bson:"height,omitempty" json:"height,omitempty"`
	WeightKG        float64  `bson:"weight,omitempty" json:"weight,omitempty"`
	BMI             float64  `bson:"bmi,omitempty" json:"bmi,omitempty"`
	HealthCondition string   `bson:"healthCondition,omitempty" json:"healthCondition,omitempty"`
	Goals           []string `bson:"goals,omitempty" json:"goals,omitempty"`

	Membership *Membership `bson:"membership,omitempty" json:"membership,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasActiveMembership reports whether the client can be booked against.
func (c *Client) HasActiveMembership() bool {
	return c.Membership != nil && c.Membership.IsActive
}

// CalculateBMI derives BMI from the stored height/weight. Returns 0 when
// height is unset.
func (c *Client) CalculateBMI() float64 {
	if c.HeightCM <= 0 {
		return 0
	}
	bmi := c.WeightKG / math.Pow(c.HeightCM/100, 2)
	return math.Round(bmi*10) / 10
}
