package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the server-side role enumeration. The API never accepts a role
// outside this set, and admin is never accepted from registration input.
type Role string

const (
	RoleStudent   Role = "student"
	RoleNGO       Role = "ngo"
	RoleMessStaff Role = "mess_staff"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleNGO, RoleMessStaff, RoleAdmin:
		return true
	}
	return false
}

// Registerable reports whether the role may be chosen at sign-up.
func (r Role) Registerable() bool {
	return r.Valid() && r != RoleAdmin
}

// User is the public profile shape returned by the API.
type User struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	VolunteerPoints int       `json:"volunteer_points"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserAuth carries the credential fields the auth domain needs. Never
// serialized to API responses.
type UserAuth struct {
	ID              string
	FullName        string
	Email           string
	Role            Role
	PasswordHash    string
	VolunteerPoints int
	IsActive        bool
	CreatedAt       time.Time
}

// Profile converts the auth record to its public shape.
func (u *UserAuth) Profile() *User {
	return &User{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		Role:            u.Role,
		VolunteerPoints: u.VolunteerPoints,
		CreatedAt:       u.CreatedAt,
	}
}

// Claims is the JWT payload for access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Food post lifecycle.
const (
	FoodStatusAvailable = "available"
	FoodStatusClaimed   = "claimed"
	FoodStatusExpired   = "expired"
)

// FoodPost is a surplus food listing from a mess.
type FoodPost struct {
	ID            string     `json:"id"`
	FoodType      string     `json:"food_type"`
	Quantity      int        `json:"quantity"`
	MealsSaved    int        `json:"meals_saved"`
	Location      string     `json:"location"`
	Description   string     `json:"description,omitempty"`
	ExpiryTime    time.Time  `json:"expiry_time"`
	Status        string     `json:"status"`
	PostedBy      string     `json:"posted_by"`
	PostedByName  string     `json:"posted_by_name,omitempty"`
	ClaimedBy     *string    `json:"claimed_by,omitempty"`
	ClaimedByName string     `json:"claimed_by_name,omitempty"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// EwasteType enumerates the accepted e-waste categories.
const (
	EwasteTypeMobile  = "mobile"
	EwasteTypeLaptop  = "laptop"
	EwasteTypeTablet  = "tablet"
	EwasteTypeCharger = "charger"
	EwasteTypeOther   = "other"
)

const (
	EwasteStatusAvailable = "available"
	EwasteStatusClaimed   = "claimed"
)

// EwasteItem is a device listed for recycling pickup. CO2SavedKG is computed
// server-side from the item type, never accepted from the client.
type EwasteItem struct {
	ID          string     `json:"id"`
	ItemType    string     `json:"item_type"`
	Quantity    int        `json:"quantity"`
	Condition   string     `json:"condition,omitempty"`
	Location    string     `json:"location"`
	Description string     `json:"description,omitempty"`
	CO2SavedKG  float64    `json:"co2_saved_kg"`
	Status      string     `json:"status"`
	PostedBy    string     `json:"posted_by"`
	ClaimedBy   *string    `json:"claimed_by,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// KGFoodPerMeal converts diverted meals into an approximate avoided-waste
// weight for the impact dashboard.
const KGFoodPerMeal = 0.4

// CO2SavedPerItem is the avoided-emissions factor in kilograms per recycled
// unit, by item type. Values match the campus sustainability office's
// published estimates.
var CO2SavedPerItem = map[string]float64{
	EwasteTypeMobile:  12.5,
	EwasteTypeLaptop:  45,
	EwasteTypeTablet:  25,
	EwasteTypeCharger: 2.5,
	EwasteTypeOther:   10,
}

// CO2ForEwaste returns the computed savings for a quantity of items of the
// given type. Unknown types fall back to the "other" factor.
func CO2ForEwaste(itemType string, quantity int) float64 {
	factor, ok := CO2SavedPerItem[itemType]
	if !ok {
		factor = CO2SavedPerItem[EwasteTypeOther]
	}
	return factor * float64(quantity)
}

// Volunteer event lifecycle.
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// VolunteerEvent is an organized campus activity that awards points on
// completion.
type VolunteerEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	EventType       string    `json:"event_type,omitempty"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location"`
	EventDate       time.Time `json:"event_date"`
	DurationHours   int       `json:"duration_hours"`
	MaxVolunteers   int       `json:"max_volunteers"`
	PointsReward    int       `json:"points_reward"`
	Status          string    `json:"status"`
	CreatedBy       string    `json:"created_by"`
	RegisteredCount int       `json:"registered_count"`
}

// Registration lifecycle.
const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusCompleted  = "completed"
)

// EventRegistration links a student to an event.
type EventRegistration struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	UserID       string     `json:"user_id"`
	Status       string     `json:"status"`
	RegisteredAt time.Time  `json:"registered_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

const (
	DonationStatusAvailable = "available"
	DonationStatusClaimed   = "claimed"
)

// Donation is a reusable item offered to the campus community.
type Donation struct {
	ID          string     `json:"id"`
	ItemName    string     `json:"item_name"`
	Category    string     `json:"category,omitempty"`
	Condition   string     `json:"condition,omitempty"`
	Quantity    int        `json:"quantity"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	DonatedBy   string     `json:"donated_by"`
	ClaimedBy   *string    `json:"claimed_by,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ImpactStats is the aggregate dashboard payload.
type ImpactStats struct {
	TotalMealsSaved       int       `json:"total_meals_saved"`
	TotalFoodWasteKG      float64   `json:"total_food_waste_kg"`
	TotalFoodPosts        int       `json:"total_food_posts"`
	TotalEwasteItems      int       `json:"total_ewaste_items"`
	TotalCO2SavedKG       float64   `json:"total_co2_saved_kg"`
	TotalDonations        int       `json:"total_donations"`
	TotalVolunteersActive int       `json:"total_volunteers_active"`
	TotalPointsAwarded    int       `json:"total_points_awarded"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// GlobalStat is one row of the seeded reference table shown alongside the
// campus aggregates.
type GlobalStat struct {
	DataType  string    `json:"data_type"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit,omitempty"`
	Source    string    `json:"source,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeaderboardEntry is one row of the volunteer points ranking.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	UserID          string `json:"user_id"`
	FullName        string `json:"full_name"`
	Role            Role   `json:"role"`
	VolunteerPoints int    `json:"volunteer_points"`
}
