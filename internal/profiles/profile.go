package profiles

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-tms-sync/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrProfileNameRequired = errors.New("profiles: name is required")
	ErrProfileNotFound     = errors.New("profiles: profile not found")
)

// Override modes for per-language settings.
const (
	OverrideNone     = ""
	OverrideCustom   = "custom"
	OverrideDisabled = "disabled"
)

// LanguageOverride adjusts automation and routing for a single target locale.
// Overrides selects the mode: empty inherits the profile, "custom" applies the
// override fields, "disabled" excludes the locale entirely.
type LanguageOverride struct {
	Overrides    string `json:"overrides"`
	AutoRequest  bool   `json:"auto_request"`
	AutoDownload bool   `json:"auto_download"`
	Workflow     string `json:"workflow,omitempty"`
	Vault        string `json:"vault,omitempty"`
}

// Profile is a named sync policy: automation toggles plus TMS routing, with
// optional per-locale overrides.
type Profile struct {
	bun.BaseModel `bun:"table:tms_profiles,alias:tp"`

	ID                 uuid.UUID                   `bun:",pk,type:uuid" json:"id"`
	Name               string                      `bun:"name,notnull,unique" json:"name"`
	AutoUpload         bool                        `bun:"auto_upload,notnull,default:false" json:"auto_upload"`
	AutoRequest        bool                        `bun:"auto_request,notnull,default:false" json:"auto_request"`
	AutoDownload       bool                        `bun:"auto_download,notnull,default:false" json:"auto_download"`
	AutoDownloadWorker bool                        `bun:"auto_download_worker,notnull,default:false" json:"auto_download_worker"`
	Vault              string                      `bun:"vault" json:"vault,omitempty"`
	Project            string                      `bun:"project" json:"project,omitempty"`
	Workflow           string                      `bun:"workflow" json:"workflow,omitempty"`
	Filter             string                      `bun:"filter" json:"filter,omitempty"`
	Subfilter          string                      `bun:"subfilter" json:"subfilter,omitempty"`
	LanguageOverrides  map[string]LanguageOverride `bun:"language_overrides,type:jsonb" json:"language_overrides,omitempty"`
	CreatedAt          time.Time                   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time                   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Validate checks profile consistency before persistence.
func (p Profile) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = ErrProfileNameRequired
	}
	for locale, override := range p.LanguageOverrides {
		switch override.Overrides {
		case OverrideNone, OverrideCustom, OverrideDisabled:
		default:
			errs["language_overrides"] = validation.NewError(
				"tms.profile.override_invalid",
				"override mode for "+locale+" must be empty, custom, or disabled")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TargetSettings is the effective per-locale policy after overrides.
type TargetSettings struct {
	AutoRequest  bool
	AutoDownload bool
	Routing      interfaces.DocumentRouting
}

// Routing returns the profile's base TMS routing.
func (p *Profile) Routing() interfaces.DocumentRouting {
	return interfaces.DocumentRouting{
		Project:   p.Project,
		Workflow:  p.Workflow,
		Vault:     p.Vault,
		Filter:    p.Filter,
		Subfilter: p.Subfilter,
	}
}

// TargetSettings resolves the effective settings for a locale. The second
// return is false when the locale is disabled for this profile.
func (p *Profile) TargetSettings(locale string) (TargetSettings, bool) {
	settings := TargetSettings{
		AutoRequest:  p.AutoRequest,
		AutoDownload: p.AutoDownload,
		Routing:      p.Routing(),
	}
	override, ok := p.LanguageOverrides[locale]
	if !ok || override.Overrides == OverrideNone {
		return settings, true
	}
	if override.Overrides == OverrideDisabled {
		return TargetSettings{}, false
	}
	settings.AutoRequest = override.AutoRequest
	settings.AutoDownload = override.AutoDownload
	if override.Workflow != "" {
		settings.Routing.Workflow = override.Workflow
	}
	if override.Vault != "" {
		settings.Routing.Vault = override.Vault
	}
	return settings, true
}
