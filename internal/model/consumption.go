// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ManuGH/fivegms/internal/validate"
)

// ConsumptionReportingUnit records one contiguous interval of media consumption.
type ConsumptionReportingUnit struct {
	mediaConsumed        string
	mediaEndpointAddress Optional[EndpointAddress]
	startTime            string
	duration             int
	locations            Optional[[]TypedLocation]
}

type consumptionReportingUnitWire struct {
	MediaConsumed        string           `json:"mediaConsumed"`
	MediaEndpointAddress *EndpointAddress `json:"mediaEndpointAddress,omitempty"`
	StartTime            string           `json:"startTime"`
	Duration             int              `json:"duration"`
	Locations            *[]TypedLocation `json:"locations,omitempty"`
}

// NewConsumptionReportingUnit builds a validated ConsumptionReportingUnit.
// startTime is an RFC 3339 timestamp and duration is in whole seconds.
func NewConsumptionReportingUnit(mediaConsumed string, mediaEndpointAddress Optional[EndpointAddress], startTime string, duration int, locations Optional[[]TypedLocation]) (ConsumptionReportingUnit, error) {
	u := ConsumptionReportingUnit{
		mediaConsumed:        mediaConsumed,
		mediaEndpointAddress: mediaEndpointAddress,
		startTime:            startTime,
		duration:             duration,
		locations:            optionalSlice(locations),
	}
	if err := u.check(""); err != nil {
		return ConsumptionReportingUnit{}, err
	}
	return u, nil
}

func (u ConsumptionReportingUnit) MediaConsumed() string { return u.mediaConsumed }
func (u ConsumptionReportingUnit) MediaEndpointAddress() Optional[EndpointAddress] {
	return u.mediaEndpointAddress
}
func (u ConsumptionReportingUnit) StartTime() string                    { return u.startTime }
func (u ConsumptionReportingUnit) Duration() int                        { return u.duration }
func (u ConsumptionReportingUnit) Locations() Optional[[]TypedLocation] { return optionalSlice(u.locations) }

func (u ConsumptionReportingUnit) check(path string) error {
	if err := checkText(u.mediaConsumed, validate.Join(path, "mediaConsumed")); err != nil {
		return err
	}
	if addr, ok := u.mediaEndpointAddress.Get(); ok {
		if err := addr.check(validate.Join(path, "mediaEndpointAddress")); err != nil {
			return err
		}
	}
	if err := validate.Timestamp(validate.Join(path, "startTime"), u.startTime); err != nil {
		return err
	}
	if err := checkDuration(validate.Join(path, "duration"), int64(u.duration)); err != nil {
		return err
	}
	return checkOptionalArray(validate.Join(path, "locations"), u.locations, TypedLocation.check)
}

func checkDuration(path string, d int64) error {
	if err := validate.NonNegative(path, d); err != nil {
		return err
	}
	return validate.Int32(path, d)
}

func parseConsumptionReportingUnit(path string, raw any) (ConsumptionReportingUnit, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return ConsumptionReportingUnit{}, err
	}

	var u ConsumptionReportingUnit
	if u.mediaConsumed, err = obj.String("mediaConsumed"); err != nil {
		return ConsumptionReportingUnit{}, err
	}
	if addrRaw, ok := obj.OptionalValue("mediaEndpointAddress"); ok {
		addrPath := obj.Path("mediaEndpointAddress")
		addr, err := parseEndpointAddress(addrPath, addrRaw)
		if err != nil {
			return ConsumptionReportingUnit{}, validate.OptionalAt(err, addrPath)
		}
		u.mediaEndpointAddress = Some(addr)
	}
	if u.startTime, err = obj.String("startTime"); err != nil {
		return ConsumptionReportingUnit{}, err
	}
	if err := validate.Timestamp(obj.Path("startTime"), u.startTime); err != nil {
		return ConsumptionReportingUnit{}, err
	}
	d, err := obj.Int("duration")
	if err != nil {
		return ConsumptionReportingUnit{}, err
	}
	if err := checkDuration(obj.Path("duration"), d); err != nil {
		return ConsumptionReportingUnit{}, err
	}
	u.duration = int(d)
	if u.locations, err = parseOptionalArray(obj, "locations", parseTypedLocation); err != nil {
		return ConsumptionReportingUnit{}, err
	}
	return u, nil
}

// Equal reports structural equality.
func (u ConsumptionReportingUnit) Equal(o ConsumptionReportingUnit) bool {
	return u.mediaConsumed == o.mediaConsumed &&
		equalOptional(u.mediaEndpointAddress, o.mediaEndpointAddress, EndpointAddress.Equal) &&
		u.startTime == o.startTime &&
		u.duration == o.duration &&
		equalOptionalSlices(u.locations, o.locations, TypedLocation.Equal)
}

// MarshalJSON emits the wire form in declaration order.
func (u ConsumptionReportingUnit) MarshalJSON() ([]byte, error) {
	return json.Marshal(consumptionReportingUnitWire{
		MediaConsumed:        u.mediaConsumed,
		MediaEndpointAddress: u.mediaEndpointAddress.ptr(),
		StartTime:            u.startTime,
		Duration:             u.duration,
		Locations:            u.locations.ptr(),
	})
}

// DecodeConsumptionReportingUnit parses and validates a ConsumptionReportingUnit document.
func DecodeConsumptionReportingUnit(data []byte) (ConsumptionReportingUnit, error) {
	return decode(data, parseConsumptionReportingUnit)
}

// ParseConsumptionReportingUnit validates a decoded JSON tree.
func ParseConsumptionReportingUnit(raw any) (ConsumptionReportingUnit, error) {
	return parseConsumptionReportingUnit("", raw)
}

// UnmarshalJSON decodes and validates data into u.
func (u *ConsumptionReportingUnit) UnmarshalJSON(data []byte) error {
	v, err := DecodeConsumptionReportingUnit(data)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ConsumptionReporting is the M5 consumption report a media player sends for
// one media player entry. Units are kept in reporting order.
type ConsumptionReporting struct {
	mediaPlayerEntry          string
	reportingClientID         string
	consumptionReportingUnits []ConsumptionReportingUnit
}

type consumptionReportingWire struct {
	MediaPlayerEntry          string                     `json:"mediaPlayerEntry"`
	ReportingClientID         string                     `json:"reportingClientId"`
	ConsumptionReportingUnits []ConsumptionReportingUnit `json:"consumptionReportingUnits"`
}

// NewConsumptionReporting builds a validated ConsumptionReporting. A nil or
// empty units slice yields a report with an empty unit list.
func NewConsumptionReporting(mediaPlayerEntry, reportingClientID string, units []ConsumptionReportingUnit) (ConsumptionReporting, error) {
	r := ConsumptionReporting{
		mediaPlayerEntry:          mediaPlayerEntry,
		reportingClientID:         reportingClientID,
		consumptionReportingUnits: cloneSlice(units),
	}
	if err := r.check(""); err != nil {
		return ConsumptionReporting{}, err
	}
	return r, nil
}

// NewReportingClientID returns a fresh random identifier suitable for reportingClientId.
func NewReportingClientID() string {
	return uuid.NewString()
}

func (r ConsumptionReporting) Kind() Kind                { return KindConsumptionReporting }
func (r ConsumptionReporting) MediaPlayerEntry() string  { return r.mediaPlayerEntry }
func (r ConsumptionReporting) ReportingClientID() string { return r.reportingClientID }
func (r ConsumptionReporting) ConsumptionReportingUnits() []ConsumptionReportingUnit {
	return cloneSlice(r.consumptionReportingUnits)
}

func (r ConsumptionReporting) check(path string) error {
	if err := checkText(r.mediaPlayerEntry, validate.Join(path, "mediaPlayerEntry")); err != nil {
		return err
	}
	if err := checkText(r.reportingClientID, validate.Join(path, "reportingClientId")); err != nil {
		return err
	}
	return checkArray(validate.Join(path, "consumptionReportingUnits"), r.consumptionReportingUnits, ConsumptionReportingUnit.check)
}

func parseConsumptionReporting(path string, raw any) (ConsumptionReporting, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return ConsumptionReporting{}, err
	}

	var r ConsumptionReporting
	if r.mediaPlayerEntry, err = obj.String("mediaPlayerEntry"); err != nil {
		return ConsumptionReporting{}, err
	}
	if r.reportingClientID, err = obj.String("reportingClientId"); err != nil {
		return ConsumptionReporting{}, err
	}
	units, err := obj.Array("consumptionReportingUnits")
	if err != nil {
		return ConsumptionReporting{}, err
	}
	if r.consumptionReportingUnits, err = parseArray(obj.Path("consumptionReportingUnits"), units, parseConsumptionReportingUnit); err != nil {
		return ConsumptionReporting{}, err
	}
	return r, nil
}

// Equal reports structural equality. Unit order is significant.
func (r ConsumptionReporting) Equal(o ConsumptionReporting) bool {
	return r.mediaPlayerEntry == o.mediaPlayerEntry &&
		r.reportingClientID == o.reportingClientID &&
		equalSlices(r.consumptionReportingUnits, o.consumptionReportingUnits, ConsumptionReportingUnit.Equal)
}

// MarshalJSON emits the wire form in declaration order. The unit list is always
// emitted, as [] when empty.
func (r ConsumptionReporting) MarshalJSON() ([]byte, error) {
	units := r.consumptionReportingUnits
	if units == nil {
		units = []ConsumptionReportingUnit{}
	}
	return json.Marshal(consumptionReportingWire{
		MediaPlayerEntry:          r.mediaPlayerEntry,
		ReportingClientID:         r.reportingClientID,
		ConsumptionReportingUnits: units,
	})
}

// DecodeConsumptionReporting parses and validates a ConsumptionReporting document.
func DecodeConsumptionReporting(data []byte) (ConsumptionReporting, error) {
	return decode(data, parseConsumptionReporting)
}

// ParseConsumptionReporting validates a decoded JSON tree.
func ParseConsumptionReporting(raw any) (ConsumptionReporting, error) {
	return parseConsumptionReporting("", raw)
}

// UnmarshalJSON decodes and validates data into r.
func (r *ConsumptionReporting) UnmarshalJSON(data []byte) error {
	v, err := DecodeConsumptionReporting(data)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
