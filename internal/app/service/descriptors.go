package service

import (
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/statemachine"
	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// numeric(10,2)
var maxPrice = decimal.RequireFromString("99999999.99")

var activeOnly = map[string]interface{}{"is_active": true}

func MenuItemDescriptor() *Descriptor[model.MenuItem] {
	return &Descriptor[model.MenuItem]{
		Resource:     "menu_items",
		DefaultOrder: "category ASC, name ASC",
		Editable: []string{
			"name", "name_arabic", "description", "description_arabic",
			"category", "price", "image_url", "is_active", "is_special", "special_day",
		},
		Required:     []string{"name", "category", "price"},
		Toggles:      []string{"is_active", "is_special"},
		PublicFilter: activeOnly,
		New: func() *model.MenuItem {
			return &model.MenuItem{IsActive: true}
		},
		Validate: validateMenuItem,
	}
}

func validateMenuItem(m *model.MenuItem) error {
	fields := fieldErrors{}
	if strings.TrimSpace(m.Name) == "" {
		fields.add("name", "is required")
	}
	if !m.Category.Valid() {
		fields.add("category", "must be one of the menu categories")
	}
	switch {
	case m.Price.IsNegative():
		fields.add("price", "must not be negative")
	case m.Price.GreaterThan(maxPrice):
		fields.add("price", "is too large")
	case !m.Price.Equal(m.Price.Round(2)):
		fields.add("price", "must have at most two decimal places")
	}
	if !m.SpecialDay.Valid() {
		fields.add("special_day", "must be a weekday name")
	}
	validateHTTPURL(fields, "image_url", m.ImageURL, false)
	return fields.err()
}

func SpecialDescriptor() *Descriptor[model.Special] {
	return &Descriptor[model.Special]{
		Resource:     "specials",
		DefaultOrder: "created_at DESC",
		Editable: []string{
			"title", "title_arabic", "description", "description_arabic",
			"image_url", "start_date", "end_date", "day_of_week", "is_active",
		},
		Toggles:      []string{"is_active"},
		PublicFilter: activeOnly,
		New: func() *model.Special {
			return &model.Special{IsActive: true}
		},
		Validate: validateSpecial,
	}
}

func validateSpecial(s *model.Special) error {
	fields := fieldErrors{}
	if strings.TrimSpace(s.Title) == "" {
		fields.add("title", "is required")
	}
	start, startOK := parseOptionalDate(fields, "start_date", s.StartDate)
	end, endOK := parseOptionalDate(fields, "end_date", s.EndDate)
	if startOK && endOK && !start.IsZero() && !end.IsZero() && end.Before(start) {
		fields.add("end_date", "must not be before start_date")
	}
	if !s.DayOfWeek.Valid() {
		fields.add("day_of_week", "must be a weekday name")
	}
	validateHTTPURL(fields, "image_url", s.ImageURL, false)
	return fields.err()
}

func GalleryImageDescriptor() *Descriptor[model.GalleryImage] {
	return &Descriptor[model.GalleryImage]{
		Resource:     "gallery_images",
		DefaultOrder: "created_at DESC",
		Editable:     []string{"title", "image_url", "category", "is_active", "is_featured"},
		Toggles:      []string{"is_active", "is_featured"},
		PublicFilter: activeOnly,
		New: func() *model.GalleryImage {
			return &model.GalleryImage{IsActive: true}
		},
		Validate: func(g *model.GalleryImage) error {
			fields := fieldErrors{}
			validateHTTPURL(fields, "image_url", g.ImageURL, true)
			if !g.Category.Valid() {
				fields.add("category", "must be one of the gallery categories")
			}
			return fields.err()
		},
		BeforeCreate: func(g *model.GalleryImage, actor access.Session) {
			g.UploadedBy = actor.UserID
		},
	}
}

// ReservationDescriptor has no toggles: status only moves through ReservationService.ChangeStatus.
func ReservationDescriptor() *Descriptor[model.Reservation] {
	return &Descriptor[model.Reservation]{
		Resource:     "reservations",
		DefaultOrder: "created_at DESC",
		Orders: map[string]string{
			"date": "reservation_date ASC, reservation_time ASC",
		},
		Editable: []string{
			"customer_name", "customer_phone", "customer_email",
			"reservation_date", "reservation_time", "number_of_guests", "special_requests",
		},
		New: func() *model.Reservation {
			return &model.Reservation{Status: model.StatusPending}
		},
		Validate: validateReservation,
		Present: func(r *model.Reservation) {
			r.AllowedTransitions = statemachine.ValidTransitionsFrom(r.Status)
		},
	}
}

func validateReservation(r *model.Reservation) error {
	fields := fieldErrors{}
	if strings.TrimSpace(r.CustomerName) == "" {
		fields.add("customer_name", "is required")
	}
	if strings.TrimSpace(r.CustomerPhone) == "" {
		fields.add("customer_phone", "is required")
	}
	if r.ReservationDate == "" {
		fields.add("reservation_date", "is required")
	} else {
		parseOptionalDate(fields, "reservation_date", r.ReservationDate)
	}
	if r.ReservationTime == "" {
		fields.add("reservation_time", "is required")
	} else if _, err := time.Parse(TimeLayout, r.ReservationTime); err != nil {
		fields.add("reservation_time", "must be HH:MM")
	}
	if r.NumberOfGuests <= 0 {
		fields.add("number_of_guests", "must be greater than zero")
	}
	if r.CustomerEmail != "" && !isEmailAddress(r.CustomerEmail) {
		fields.add("customer_email", "must be a valid email address")
	}
	return fields.err()
}

func parseOptionalDate(fields fieldErrors, field, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		fields.add(field, "must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

func validateHTTPURL(fields fieldErrors, field, value string, required bool) {
	if value == "" {
		if required {
			fields.add(field, "is required")
		}
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fields.add(field, "must be an http(s) URL")
	}
}

// isEmailAddress accepts a bare address only, not "Name <addr>".
func isEmailAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
