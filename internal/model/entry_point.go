// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"

	"github.com/ManuGH/fivegms/internal/validate"
)

// EntryPoint is a media entry point: a presentation manifest locator, its
// content type and the optional profiles it conforms to.
type EntryPoint struct {
	locator     string
	contentType string
	profiles    Optional[[]string]
}

type entryPointWire struct {
	Locator     string    `json:"locator"`
	ContentType string    `json:"contentType"`
	Profiles    *[]string `json:"profiles,omitempty"`
}

// NewEntryPoint builds a validated EntryPoint.
func NewEntryPoint(locator, contentType string, profiles Optional[[]string]) (EntryPoint, error) {
	e := EntryPoint{
		locator:     locator,
		contentType: contentType,
		profiles:    optionalSlice(profiles),
	}
	if err := e.check(""); err != nil {
		return EntryPoint{}, err
	}
	return e, nil
}

func (e EntryPoint) Locator() string              { return e.locator }
func (e EntryPoint) ContentType() string          { return e.contentType }
func (e EntryPoint) Profiles() Optional[[]string] { return optionalSlice(e.profiles) }

func (e EntryPoint) check(path string) error {
	if err := checkText(e.locator, validate.Join(path, "locator")); err != nil {
		return err
	}
	if err := validate.URI(validate.Join(path, "locator"), e.locator); err != nil {
		return err
	}
	if err := checkText(e.contentType, validate.Join(path, "contentType")); err != nil {
		return err
	}
	if err := validate.MediaType(validate.Join(path, "contentType"), e.contentType); err != nil {
		return err
	}
	return checkOptionalArray(validate.Join(path, "profiles"), e.profiles, checkOptionalTexts)
}

func parseEntryPoint(path string, raw any) (EntryPoint, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return EntryPoint{}, err
	}

	var e EntryPoint
	if e.locator, err = obj.String("locator"); err != nil {
		return EntryPoint{}, err
	}
	if err := validate.URI(obj.Path("locator"), e.locator); err != nil {
		return EntryPoint{}, err
	}
	if e.contentType, err = obj.String("contentType"); err != nil {
		return EntryPoint{}, err
	}
	if err := validate.MediaType(obj.Path("contentType"), e.contentType); err != nil {
		return EntryPoint{}, err
	}
	if e.profiles, err = parseOptionalStrings(obj, "profiles", nil); err != nil {
		return EntryPoint{}, err
	}
	return e, nil
}

// Equal reports structural equality. Profiles compare in order.
func (e EntryPoint) Equal(o EntryPoint) bool {
	return e.locator == o.locator &&
		e.contentType == o.contentType &&
		equalOptionalSlices(e.profiles, o.profiles, sameString)
}

// MarshalJSON emits the wire form in declaration order.
func (e EntryPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryPointWire{
		Locator:     e.locator,
		ContentType: e.contentType,
		Profiles:    e.profiles.ptr(),
	})
}

// DecodeEntryPoint parses and validates an EntryPoint document.
func DecodeEntryPoint(data []byte) (EntryPoint, error) {
	return decode(data, parseEntryPoint)
}

// ParseEntryPoint validates a decoded JSON tree.
func ParseEntryPoint(raw any) (EntryPoint, error) {
	return parseEntryPoint("", raw)
}

// UnmarshalJSON decodes and validates data into e.
func (e *EntryPoint) UnmarshalJSON(data []byte) error {
	v, err := DecodeEntryPoint(data)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func equalEntryPoints(a, b EntryPoint) bool { return a.Equal(b) }
