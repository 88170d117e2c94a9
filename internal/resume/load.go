package resume

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ErrMissing marks résumé context that cannot be used to start a session.
var ErrMissing = errors.New("resume context is missing")

// LoadError describes why a résumé file could not be turned into a Resume.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load resume %q: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("load resume %q: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMissing}
	}
	return []error{ErrMissing, e.Cause}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads a résumé file in any format viper understands (yaml, json, toml).
func Load(path string) (*Resume, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &LoadError{Message: "resume file is not configured"}
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &LoadError{Path: path, Message: "reading file", Cause: err}
	}

	r, err := Decode(v.AllSettings())
	if err != nil {
		return nil, &LoadError{Path: path, Message: "decoding", Cause: err}
	}

	if err := Validate(r); err != nil {
		return nil, &LoadError{Path: path, Message: "validating", Cause: err}
	}

	return r, nil
}

// Decode converts a generic document into a Resume. Numbers such as years
// are accepted where strings are expected.
func Decode(raw map[string]any) (*Resume, error) {
	var r Resume
	cfg := &mapstructure.DecoderConfig{
		Result:           &r,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return &r, nil
}

// Validate checks that the résumé carries everything the assistant prompt needs.
func Validate(r *Resume) error {
	if r == nil {
		return ErrMissing
	}

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}

	return nil
}
