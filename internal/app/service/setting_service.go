package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/datatypes"
)

var (
	ErrInvalidSettingKey   = errors.New("invalid setting key")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

var settingKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,99}$`)

type SettingService interface {
	List(actor access.Session) ([]model.Setting, error)
	// Public returns the site-facing settings keyed by name; unset keys are omitted.
	Public() (map[string]json.RawMessage, error)
	Upsert(actor access.Session, key string, value json.RawMessage) (*model.Setting, error)
}

type settingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

func (s *settingService) List(actor access.Session) ([]model.Setting, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	settings, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

func (s *settingService) Public() (map[string]json.RawMessage, error) {
	settings, err := s.repo.FindByKeys(model.PublicSettingKeys)
	if err != nil {
		return nil, fmt.Errorf("load public settings: %w", err)
	}
	out := make(map[string]json.RawMessage, len(settings))
	for _, st := range settings {
		out[st.Key] = json.RawMessage(st.Value)
	}
	return out, nil
}

func (s *settingService) Upsert(actor access.Session, key string, value json.RawMessage) (*model.Setting, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if !settingKeyPattern.MatchString(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSettingKey, key)
	}
	if err := validateSettingValue(key, value); err != nil {
		logger.Warn("Setting value rejected", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, err
	}

	setting := &model.Setting{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedBy: actor.UserID,
	}
	if err := s.repo.Upsert(setting); err != nil {
		return nil, fmt.Errorf("upsert setting %s: %w", key, err)
	}

	logger.Info("Setting saved", map[string]interface{}{
		"key":      key,
		"actor_id": actor.UserID,
	})

	// on conflict the stored row keeps its original id
	return s.repo.FindByKey(key)
}

func decodeStrict(value json.RawMessage, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettingValue, err)
	}
	return nil
}

func validateSettingValue(key string, value json.RawMessage) error {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || !json.Valid(trimmed) {
		return fmt.Errorf("%w: value must be JSON", ErrInvalidSettingValue)
	}

	fields := fieldErrors{}
	switch key {
	case model.SettingContactInfo:
		var info model.ContactInfo
		if err := decodeStrict(value, &info); err != nil {
			return err
		}
		if info.Email != "" && !isEmailAddress(info.Email) {
			fields.add("email", "must be a valid email address")
		}

	case model.SettingOpeningHours:
		var hours model.OpeningHours
		if err := decodeStrict(value, &hours); err != nil {
			return err
		}
		for day, h := range hours {
			if day == "" || !day.Valid() {
				fields.add(string(day), "is not a weekday")
				continue
			}
			if h.Closed {
				continue
			}
			if _, err := time.Parse(TimeLayout, h.Open); err != nil {
				fields.add(string(day)+".open", "must be HH:MM")
			}
			if _, err := time.Parse(TimeLayout, h.Close); err != nil {
				fields.add(string(day)+".close", "must be HH:MM")
			}
		}

	case model.SettingSocialLinks:
		var links model.SocialLinks
		if err := decodeStrict(value, &links); err != nil {
			return err
		}
		validateHTTPURL(fields, "facebook", links.Facebook, false)
		validateHTTPURL(fields, "instagram", links.Instagram, false)
		validateHTTPURL(fields, "website", links.Website, false)
	}
	return fields.err()
}
