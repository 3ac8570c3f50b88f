package store

import (
	"time"

	"github.com/google/uuid"
)

// CourseType categorizes a dish within the meal.
type CourseType string

const (
	CourseAppetizer CourseType = "appetizer"
	CourseSoup      CourseType = "soup"
	CourseSalad     CourseType = "salad"
	CourseMain      CourseType = "main"
	CourseSide      CourseType = "side"
	CourseDessert   CourseType = "dessert"
	CourseBeverage  CourseType = "beverage"
	CourseOther     CourseType = "other"
)

// ValidCourse reports whether c is a known course type.
func ValidCourse(c CourseType) bool {
	switch c {
	case CourseAppetizer, CourseSoup, CourseSalad, CourseMain,
		CourseSide, CourseDessert, CourseBeverage, CourseOther:
		return true
	}
	return false
}

// GroceryStore is a store where ingredients can be purchased.
type GroceryStore struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Dish is a planned dish with its course assignment.
type Dish struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Course      CourseType `json:"course"`
	Description *string    `json:"description,omitempty"`
	Servings    *int       `json:"servings,omitempty"`
	RecipeURL   *string    `json:"recipe_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Ingredient is a base ingredient definition with its store and standard unit.
type Ingredient struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StoreID     *int64    `json:"store_id,omitempty"`
	Unit        string    `json:"unit"`
	IsPurchased bool      `json:"is_purchased"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IngredientInstance ties an ingredient to a dish with a quantity.
type IngredientInstance struct {
	ID           int64     `json:"id"`
	IngredientID int64     `json:"ingredient_id"`
	DishID       int64     `json:"dish_id"`
	Quantity     float64   `json:"quantity"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DishIngredient is an instance joined with its ingredient and store names,
// as consumed by shopping list generation.
type DishIngredient struct {
	InstanceID     int64    `json:"instance_id"`
	DishID         int64    `json:"dish_id"`
	DishName       string   `json:"dish_name"`
	IngredientID   int64    `json:"ingredient_id"`
	IngredientName string   `json:"ingredient_name"`
	Unit           string   `json:"unit"`
	Quantity       float64  `json:"quantity"`
	StoreName      *string  `json:"store_name,omitempty"`
	IsPurchased    bool     `json:"is_purchased"`
	Notes          *string  `json:"notes,omitempty"`
}

// ShoppingListItem is one persisted, checkable shopping list row.
type ShoppingListItem struct {
	ID             int64     `json:"id"`
	DishID         *int64    `json:"dish_id,omitempty"`
	IngredientName string    `json:"ingredient_name"`
	Quantity       *float64  `json:"quantity,omitempty"`
	Unit           *string   `json:"unit,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	IsChecked      bool      `json:"is_checked"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Guest is an invitee. Guests are keyed by UUID since the ID doubles as the
// invite link token. A plus-one carries the inviting guest's ID in
// OriginalInviteeID.
type Guest struct {
	ID                uuid.UUID  `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	HasRSVPed         bool       `json:"has_rsvped"`
	OriginalInviteeID *uuid.UUID `json:"original_invitee_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	RSVPedAt          *time.Time `json:"rsvped_at,omitempty"`
}

// ChatMessage is one message on the event chat board.
type ChatMessage struct {
	ID        int64     `json:"id"`
	GuestID   uuid.UUID `json:"guest_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessageWithGuest joins a message with its author's name for display.
type ChatMessageWithGuest struct {
	ChatMessage
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
