// Package domain defines the persistence models for meals, reviews, meal
// requests, users, subscription packages and payments. The same types are
// mapped by GORM (relational backends) and by the BSON codec (document
// backend), so column names and BSON keys are kept identical.
package domain

import "time"

// Meal is a dish offered by the hostel kitchen.
//
// Likes and Liked move together: see LikeState. ReviewCount mirrors
// len(Reviews) and is maintained by the store on review append/delete so that
// listings can sort by review count without loading reviews.
type Meal struct {
	ID               string    `json:"id"               gorm:"type:char(36);primaryKey"                         bson:"_id"`
	Title            string    `json:"title"            gorm:"type:varchar(255);not null;index"                 bson:"title"`
	Category         string    `json:"category"         gorm:"type:varchar(64);not null;index"                  bson:"category"`
	Description      string    `json:"description"      gorm:"type:text"                                        bson:"description"`
	Image            string    `json:"image"            gorm:"type:varchar(1024)"                               bson:"image"`
	Ingredients      []string  `json:"ingredients"      gorm:"serializer:json"                                  bson:"ingredients"`
	Price            float64   `json:"price"            gorm:"not null;index"                                   bson:"price"`
	DistributorName  string    `json:"distributorName"  gorm:"type:varchar(255)"                                bson:"distributor_name"`
	DistributorEmail string    `json:"distributorEmail" gorm:"type:varchar(255)"                                bson:"distributor_email"`
	Likes            int       `json:"likes"            gorm:"not null;default:0;index;check:likes >= 0"        bson:"likes"`
	Liked            bool      `json:"liked"            gorm:"not null;default:false"                           bson:"liked"`
	ReviewCount      int       `json:"reviewCount"      gorm:"not null;default:0;index;check:review_count >= 0" bson:"review_count"`
	Reviews          []Review  `json:"reviews"          gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" bson:"reviews"`
	CreatedAt        time.Time `json:"createdAt"        gorm:"index"                                            bson:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt"                                                                bson:"updated_at"`
}

// TableName returns the database table name for Meal.
func (Meal) TableName() string { return "meals" }

// LikeState returns the meal's current like counter and flag.
func (m Meal) LikeState() LikeState { return LikeState{Likes: m.Likes, Liked: m.Liked} }

// Review is a rating left on a meal. Reviews always belong to exactly one
// meal; ID is stable and addressable on its own.
//
// Position records append order within the meal. Embedded document arrays
// keep that order themselves, so it is not stored in BSON.
type Review struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"                        bson:"id"`
	MealID    string    `json:"mealId"    gorm:"type:char(36);not null;index:idx_meal_reviews,priority:1" bson:"meal_id"`
	Email     string    `json:"email"     gorm:"type:varchar(255);not null;index"                bson:"email"`
	Name      string    `json:"name"      gorm:"type:varchar(255)"                               bson:"name"`
	Content   string    `json:"content"   gorm:"type:text;not null"                              bson:"content"`
	Rating    int       `json:"rating"    gorm:"not null;check:rating >= 1 AND rating <= 5"      bson:"rating"`
	Position  int       `json:"-"         gorm:"not null;index:idx_meal_reviews,priority:2"      bson:"-"`
	CreatedAt time.Time `json:"createdAt"                                                        bson:"created_at"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }

// MealRequest is a resident's request to be served a meal. At most one
// request exists per (UserEmail, RequestedID).
type MealRequest struct {
	ID          string        `json:"id"          gorm:"type:char(36);primaryKey"                                     bson:"_id"`
	RequestedID string        `json:"requestedId" gorm:"type:char(36);not null;uniqueIndex:ux_request_user_meal,priority:2" bson:"requested_id"`
	Title       string        `json:"title"       gorm:"type:varchar(255);not null;index"                             bson:"title"`
	Category    string        `json:"category"    gorm:"type:varchar(64);index"                                       bson:"category"`
	UserEmail   string        `json:"userEmail"   gorm:"type:varchar(255);not null;uniqueIndex:ux_request_user_meal,priority:1" bson:"user_email"`
	UserName    string        `json:"userName"    gorm:"type:varchar(255)"                                            bson:"user_name"`
	Status      RequestStatus `json:"status"      gorm:"type:varchar(16);not null;default:'pending'"                  bson:"status"`
	CreatedAt   time.Time     `json:"createdAt"   gorm:"index"                                                        bson:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt"                                                                       bson:"updated_at"`
}

// TableName returns the database table name for MealRequest.
func (MealRequest) TableName() string { return "meal_requests" }

// User is a registered resident or administrator, keyed by Email.
type User struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"                  bson:"_id"`
	Email     string    `json:"email"     gorm:"type:varchar(255);not null;uniqueIndex"    bson:"email"`
	Name      string    `json:"name"      gorm:"type:varchar(255);index"                   bson:"name"`
	Photo     string    `json:"photo"     gorm:"type:varchar(1024)"                        bson:"photo"`
	Role      Role      `json:"role"      gorm:"type:varchar(16);not null;default:'user'"  bson:"role"`
	Badge     Badge     `json:"badge"     gorm:"type:varchar(16);not null;default:'bronze'" bson:"badge"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"                                     bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt"                                                  bson:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the user holds the canonical admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Package is a subscription tier offered at checkout, keyed by Name.
type Package struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"               bson:"_id"`
	Name        string    `json:"name"        gorm:"type:varchar(64);not null;uniqueIndex"  bson:"name"`
	Price       float64   `json:"price"       gorm:"not null"                               bson:"price"`
	Description string    `json:"description" gorm:"type:text"                              bson:"description"`
	Features    []string  `json:"features"    gorm:"serializer:json"                        bson:"features"`
	CreatedAt   time.Time `json:"createdAt"                                                 bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"                                                 bson:"updated_at"`
}

// TableName returns the database table name for Package.
func (Package) TableName() string { return "packages" }

// Payment records a payment confirmed client-side with the gateway. Payments
// are immutable once stored.
//
// Price is in major currency units as submitted; Amount is the same value in
// minor units (cents) as charged by the gateway.
type Payment struct {
	ID            string            `json:"id"            gorm:"type:char(36);primaryKey"          bson:"_id"`
	Email         string            `json:"email"         gorm:"type:varchar(255);not null;index"  bson:"email"`
	Price         float64           `json:"price"         gorm:"not null"                          bson:"price"`
	Amount        int64             `json:"amount"        gorm:"not null"                          bson:"amount"`
	Currency      string            `json:"currency"      gorm:"type:varchar(3);not null"          bson:"currency"`
	TransactionID string            `json:"transactionId" gorm:"type:varchar(255);not null;uniqueIndex" bson:"transaction_id"`
	PackageName   string            `json:"packageName"   gorm:"type:varchar(64);index"            bson:"package_name"`
	Metadata      map[string]string `json:"metadata"      gorm:"serializer:json"                   bson:"metadata"`
	CreatedAt     time.Time         `json:"createdAt"     gorm:"index"                             bson:"created_at"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }
