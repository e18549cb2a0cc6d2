// Package config loads the user settings file of the schemaui command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/reoring/schemaui/app"
	"github.com/reoring/schemaui/form"
	"github.com/reoring/schemaui/i18n"
	"github.com/reoring/schemaui/keymap"
)

// EnvVar names the environment variable that points at a settings file.
const EnvVar = "SCHEMAUI_SETTINGS"

// Palette overrides individual knobs of form.Palette. Unset fields keep
// the built-in value.
type Palette struct {
	IntegerStep     *int64   `yaml:"integer_step"`
	IntegerFastStep *int64   `yaml:"integer_fast_step"`
	NumberStep      *float64 `yaml:"number_step"`
	NumberFastStep  *float64 `yaml:"number_fast_step"`

	BoolTrueLabel   *string `yaml:"bool_true_label"`
	BoolFalseLabel  *string `yaml:"bool_false_label"`
	BoolSpaceToggle *bool   `yaml:"bool_space_toggle"`
	BoolArrowToggle *bool   `yaml:"bool_arrow_toggle"`

	EnumWrapAround *bool `yaml:"enum_wrap_around"`

	OverlayInstructions *string `yaml:"overlay_instructions"`
	ListHint            *string `yaml:"list_hint"`
	EmptyListHint       *string `yaml:"empty_list_hint"`
	CompositeSingleHint *string `yaml:"composite_single_hint"`
	CompositeMultiHint  *string `yaml:"composite_multi_hint"`
}

type Validation struct {
	Draft         string `yaml:"draft"`
	AssertFormats bool   `yaml:"assert_formats"`
}

type Settings struct {
	TickRate     string     `yaml:"tick_rate"`
	AutoValidate *bool      `yaml:"auto_validate"`
	ConfirmExit  *bool      `yaml:"confirm_exit"`
	ShowHelp     *bool      `yaml:"show_help"`
	Keymap       string     `yaml:"keymap"`
	Language     string     `yaml:"language"`
	Palette      Palette    `yaml:"palette"`
	Validation   Validation `yaml:"validation"`

	// Path is the file the settings were read from, empty for built-ins.
	Path string `yaml:"-"`
}

func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	s.Path = path

	// A relative keymap path is relative to the settings file.
	if s.Keymap != "" && !filepath.IsAbs(s.Keymap) {
		s.Keymap = filepath.Join(filepath.Dir(path), s.Keymap)
	}
	return &s, nil
}

// DefaultPath is <user config dir>/schemaui/settings.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "schemaui", "settings.yaml"), nil
}

// Resolve loads settings from explicit, then from $SCHEMAUI_SETTINGS, then
// from DefaultPath. Only the last one may be missing, in which case the
// built-in settings are returned.
func Resolve(explicit string) (*Settings, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}
	path, err := DefaultPath()
	if err != nil {
		return &Settings{}, nil
	}
	s, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Settings{}, nil
	}
	return s, err
}

// ApplyTo overlays the settings on runtime options. It loads the keymap
// file when one is configured.
func (s *Settings) ApplyTo(o app.Options) (app.Options, error) {
	if s.TickRate != "" {
		d, err := time.ParseDuration(s.TickRate)
		if err != nil {
			return o, fmt.Errorf("settings: tick_rate: %w", err)
		}
		o = o.WithTickRate(d)
	}
	if s.AutoValidate != nil {
		o = o.WithAutoValidate(*s.AutoValidate)
	}
	if s.ConfirmExit != nil {
		o = o.WithConfirmExit(*s.ConfirmExit)
	}
	if s.ShowHelp != nil {
		o = o.WithHelp(*s.ShowHelp)
	}
	if s.Keymap != "" {
		k, err := keymap.Load(s.Keymap)
		if err != nil {
			return o, fmt.Errorf("settings: %w", err)
		}
		o = o.WithKeymap(k)
	}
	v := o.Validate
	v.Draft = s.Validation.Draft
	v.AssertFormats = s.Validation.AssertFormats
	if s.Language != "" {
		v.Language = language.Make(s.Language)
	}
	return o.WithValidate(v), nil
}

// PaletteOver returns base with the configured overrides applied.
func (s *Settings) PaletteOver(base form.Palette) form.Palette {
	p := s.Palette
	set(&base.IntegerStep, p.IntegerStep)
	set(&base.IntegerFastStep, p.IntegerFastStep)
	set(&base.NumberStep, p.NumberStep)
	set(&base.NumberFastStep, p.NumberFastStep)
	set(&base.BoolTrueLabel, p.BoolTrueLabel)
	set(&base.BoolFalseLabel, p.BoolFalseLabel)
	set(&base.BoolSpaceToggle, p.BoolSpaceToggle)
	set(&base.BoolArrowToggle, p.BoolArrowToggle)
	set(&base.EnumWrapAround, p.EnumWrapAround)
	set(&base.OverlayInstructions, p.OverlayInstructions)
	set(&base.ListHint, p.ListHint)
	set(&base.EmptyListHint, p.EmptyListHint)
	set(&base.CompositeSingleHint, p.CompositeSingleHint)
	set(&base.CompositeMultiHint, p.CompositeMultiHint)
	return base
}

// Install sets the process-wide language and palette.
func (s *Settings) Install() {
	if s.Language != "" {
		i18n.SetLanguage(s.Language)
	}
	form.SetPalette(s.PaletteOver(form.DefaultPalette()))
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
