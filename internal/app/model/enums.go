package model

import "fmt"

type Role string // app_role

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleNone  Role = "none" // no role assignment; never stored
)

// Valid reports whether r can be stored in role_assignments.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return RoleNone, fmt.Errorf("invalid role %q: must be admin or staff", s)
	}
	return r, nil
}

type MenuCategory string // menu_category

const (
	CategoryBreakfast     MenuCategory = "breakfast"
	CategoryTajines       MenuCategory = "tajines"
	CategoryJuices        MenuCategory = "juices"
	CategoryPastries      MenuCategory = "pastries"
	CategoryDailySpecials MenuCategory = "daily_specials"
	CategoryCoffee        MenuCategory = "coffee"
	CategoryDesserts      MenuCategory = "desserts"
	CategorySandwiches    MenuCategory = "sandwiches"
)

var MenuCategories = []MenuCategory{
	CategoryBreakfast,
	CategoryTajines,
	CategoryJuices,
	CategoryPastries,
	CategoryDailySpecials,
	CategoryCoffee,
	CategoryDesserts,
	CategorySandwiches,
}

func (c MenuCategory) Valid() bool {
	for _, v := range MenuCategories {
		if c == v {
			return true
		}
	}
	return false
}

type GalleryCategory string // gallery_category

const (
	GalleryInterior GalleryCategory = "interior"
	GalleryDishes   GalleryCategory = "dishes"
	GalleryEvents   GalleryCategory = "events"
	GalleryDrinks   GalleryCategory = "drinks"
	GalleryExterior GalleryCategory = "exterior"
)

var GalleryCategories = []GalleryCategory{
	GalleryInterior,
	GalleryDishes,
	GalleryEvents,
	GalleryDrinks,
	GalleryExterior,
}

func (c GalleryCategory) Valid() bool {
	for _, v := range GalleryCategories {
		if c == v {
			return true
		}
	}
	return false
}

type ReservationStatus string // reservation_status

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

var ReservationStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
}

func (s ReservationStatus) Valid() bool {
	for _, v := range ReservationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Weekday is a lower-case day name; empty means unset.
type Weekday string

var Weekdays = []Weekday{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (d Weekday) Valid() bool {
	if d == "" {
		return true
	}
	for _, v := range Weekdays {
		if d == v {
			return true
		}
	}
	return false
}
