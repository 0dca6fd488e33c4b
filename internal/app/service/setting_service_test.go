package service

import (
	"encoding/json"
	"testing"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminActor = access.Session{UserID: "admin-1", Email: "admin@riadice.com", Role: model.RoleAdmin}

func TestSettingService_Upsert(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	settings := NewSettingService(repository.NewSettingRepository(testDB))

	tests := []struct {
		name    string
		actor   access.Session
		key     string
		value   string
		wantErr error
		invalid bool
	}{
		{name: "Staff is denied", actor: staffActor, key: "contact_info", value: `{}`, wantErr: access.ErrAdminOnly},
		{name: "Bad key", actor: adminActor, key: "Contact Info", value: `{}`, wantErr: ErrInvalidSettingKey},
		{name: "Not JSON", actor: adminActor, key: "banner", value: `{oops`, wantErr: ErrInvalidSettingValue},
		{name: "Unknown contact field", actor: adminActor, key: "contact_info", value: `{"fax":"1"}`, wantErr: ErrInvalidSettingValue},
		{name: "Bad hours", actor: adminActor, key: "opening_hours", value: `{"monday":{"open":"9am","close":"23:00"}}`, invalid: true},
		{name: "Bad weekday", actor: adminActor, key: "opening_hours", value: `{"someday":{"closed":true}}`, invalid: true},
		{name: "Bad contact email", actor: adminActor, key: "contact_info", value: `{"email":"hello@"}`, invalid: true},
		{name: "Bad social link", actor: adminActor, key: "social_links", value: `{"instagram":"riadice"}`, invalid: true},
		{name: "Contact info", actor: adminActor, key: "contact_info", value: `{"phone":"+212 693 254 604","email":"hello@riadice.com","address":"Marrakech","whatsapp":"212693254604"}`},
		{name: "Opening hours", actor: adminActor, key: "opening_hours", value: `{"monday":{"open":"08:00","close":"23:00"},"friday":{"closed":true}}`},
		{name: "Free form", actor: adminActor, key: "hero_banner", value: `{"text":"Welcome"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved, err := settings.Upsert(tt.actor, tt.key, json.RawMessage(tt.value))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.invalid:
				_, ok := AsValidationError(err)
				assert.True(t, ok, "expected validation error, got %v", err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.key, saved.Key)
				assert.Equal(t, tt.actor.UserID, saved.UpdatedBy)
				assert.JSONEq(t, tt.value, string(saved.Value))
			}
		})
	}

	first, err := settings.Upsert(adminActor, "social_links", json.RawMessage(`{"instagram":"https://instagram.com/riadice"}`))
	require.NoError(t, err)
	second, err := settings.Upsert(adminActor, "social_links", json.RawMessage(`{"facebook":"https://facebook.com/riadice"}`))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	public, err := settings.Public()
	require.NoError(t, err)
	assert.Len(t, public, 3)
	assert.NotContains(t, public, "hero_banner")
	assert.JSONEq(t, `{"facebook":"https://facebook.com/riadice"}`, string(public["social_links"]))

	_, err = settings.List(staffActor)
	assert.ErrorIs(t, err, access.ErrAdminOnly)
	all, err := settings.List(adminActor)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
