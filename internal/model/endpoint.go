// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"

	"github.com/ManuGH/fivegms/internal/validate"
)

// EndpointAddress identifies the network endpoint media was consumed from.
// At least one of domainName, ipv4Addrs or ipv6Addrs is present.
type EndpointAddress struct {
	domainName Optional[string]
	ipv4Addrs  Optional[[]string]
	ipv6Addrs  Optional[[]string]
	portNumber int
}

type endpointAddressWire struct {
	DomainName *string   `json:"domainName,omitempty"`
	IPv4Addrs  *[]string `json:"ipv4Addrs,omitempty"`
	IPv6Addrs  *[]string `json:"ipv6Addrs,omitempty"`
	PortNumber int       `json:"portNumber"`
}

// NewEndpointAddress builds a validated EndpointAddress.
func NewEndpointAddress(domainName Optional[string], ipv4Addrs, ipv6Addrs Optional[[]string], portNumber int) (EndpointAddress, error) {
	a := EndpointAddress{
		domainName: domainName,
		ipv4Addrs:  optionalSlice(ipv4Addrs),
		ipv6Addrs:  optionalSlice(ipv6Addrs),
		portNumber: portNumber,
	}
	if err := a.check(""); err != nil {
		return EndpointAddress{}, err
	}
	return a, nil
}

func (a EndpointAddress) DomainName() Optional[string]  { return a.domainName }
func (a EndpointAddress) IPv4Addrs() Optional[[]string] { return optionalSlice(a.ipv4Addrs) }
func (a EndpointAddress) IPv6Addrs() Optional[[]string] { return optionalSlice(a.ipv6Addrs) }
func (a EndpointAddress) PortNumber() int               { return a.portNumber }

func (a EndpointAddress) check(path string) error {
	if err := checkOptionalText(validate.Join(path, "domainName"), a.domainName); err != nil {
		return err
	}
	if err := checkOptionalArray(validate.Join(path, "ipv4Addrs"), a.ipv4Addrs, checkIPv4); err != nil {
		return err
	}
	if err := checkOptionalArray(validate.Join(path, "ipv6Addrs"), a.ipv6Addrs, checkIPv6); err != nil {
		return err
	}
	if err := validate.Port(validate.Join(path, "portNumber"), int64(a.portNumber)); err != nil {
		return err
	}
	if !a.domainName.IsSet() && !a.ipv4Addrs.IsSet() && !a.ipv6Addrs.IsSet() {
		return validate.Fail(path, ReasonMissing, nil, "one of domainName, ipv4Addrs or ipv6Addrs is required")
	}
	return nil
}

func checkIPv4(s, path string) error { return validate.Optional(validate.IPv4(path, s)) }
func checkIPv6(s, path string) error { return validate.Optional(validate.IPv6(path, s)) }

func parseEndpointAddress(path string, raw any) (EndpointAddress, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return EndpointAddress{}, err
	}

	var a EndpointAddress
	if name, ok, err := obj.OptionalString("domainName"); err != nil {
		return EndpointAddress{}, err
	} else if ok {
		a.domainName = Some(name)
	}
	if a.ipv4Addrs, err = parseOptionalStrings(obj, "ipv4Addrs", validate.IPv4); err != nil {
		return EndpointAddress{}, err
	}
	if a.ipv6Addrs, err = parseOptionalStrings(obj, "ipv6Addrs", validate.IPv6); err != nil {
		return EndpointAddress{}, err
	}
	port, err := obj.Int("portNumber")
	if err != nil {
		return EndpointAddress{}, err
	}
	if err := validate.Port(obj.Path("portNumber"), port); err != nil {
		return EndpointAddress{}, err
	}
	a.portNumber = int(port)

	if !a.domainName.IsSet() && !a.ipv4Addrs.IsSet() && !a.ipv6Addrs.IsSet() {
		return EndpointAddress{}, validate.Fail(path, ReasonMissing, nil, "one of domainName, ipv4Addrs or ipv6Addrs is required")
	}
	return a, nil
}

// parseOptionalStrings reads an optional array of strings, applying check to
// every element when check is non-nil.
func parseOptionalStrings(obj validate.Object, name string, check func(path, value string) error) (Optional[[]string], error) {
	raw, present, err := obj.OptionalArray(name)
	if err != nil || !present {
		return None[[]string](), err
	}
	items, err := validate.Strings(obj.Path(name), raw)
	if err != nil {
		return None[[]string](), validate.Optional(err)
	}
	if check != nil {
		for i, s := range items {
			if err := check(validate.Index(obj.Path(name), i), s); err != nil {
				return None[[]string](), validate.Optional(err)
			}
		}
	}
	return Some(items), nil
}

// Equal reports structural equality.
func (a EndpointAddress) Equal(b EndpointAddress) bool {
	return equalOptional(a.domainName, b.domainName, sameString) &&
		equalOptionalSlices(a.ipv4Addrs, b.ipv4Addrs, sameString) &&
		equalOptionalSlices(a.ipv6Addrs, b.ipv6Addrs, sameString) &&
		a.portNumber == b.portNumber
}

// MarshalJSON emits the wire form in declaration order.
func (a EndpointAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(endpointAddressWire{
		DomainName: a.domainName.ptr(),
		IPv4Addrs:  a.ipv4Addrs.ptr(),
		IPv6Addrs:  a.ipv6Addrs.ptr(),
		PortNumber: a.portNumber,
	})
}

// DecodeEndpointAddress parses and validates an EndpointAddress document.
func DecodeEndpointAddress(data []byte) (EndpointAddress, error) {
	return decode(data, parseEndpointAddress)
}

// ParseEndpointAddress validates a decoded JSON tree.
func ParseEndpointAddress(raw any) (EndpointAddress, error) {
	return parseEndpointAddress("", raw)
}

// UnmarshalJSON decodes and validates data into a.
func (a *EndpointAddress) UnmarshalJSON(data []byte) error {
	v, err := DecodeEndpointAddress(data)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Cell identifier formats accepted in TypedLocation.locationIdentifierType.
const (
	LocationCGI  = "CGI"
	LocationECGI = "ECGI"
	LocationNCGI = "NCGI"
)

var locationIdentifierTypes = []string{LocationCGI, LocationECGI, LocationNCGI}

// TypedLocation is a cell identifier tagged with its identifier format.
type TypedLocation struct {
	locationIdentifierType string
	location               string
}

type typedLocationWire struct {
	LocationIdentifierType string `json:"locationIdentifierType"`
	Location               string `json:"location"`
}

// NewTypedLocation builds a validated TypedLocation.
func NewTypedLocation(locationIdentifierType, location string) (TypedLocation, error) {
	l := TypedLocation{locationIdentifierType: locationIdentifierType, location: location}
	if err := l.check(""); err != nil {
		return TypedLocation{}, err
	}
	return l, nil
}

func (l TypedLocation) LocationIdentifierType() string { return l.locationIdentifierType }
func (l TypedLocation) Location() string               { return l.location }

func (l TypedLocation) check(path string) error {
	if err := validate.OneOf(validate.Join(path, "locationIdentifierType"), l.locationIdentifierType, locationIdentifierTypes); err != nil {
		return err
	}
	if err := checkText(l.location, validate.Join(path, "location")); err != nil {
		return err
	}
	return validate.NotEmpty(validate.Join(path, "location"), l.location)
}

func parseTypedLocation(path string, raw any) (TypedLocation, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return TypedLocation{}, err
	}
	kind, err := obj.String("locationIdentifierType")
	if err != nil {
		return TypedLocation{}, err
	}
	if err := validate.OneOf(obj.Path("locationIdentifierType"), kind, locationIdentifierTypes); err != nil {
		return TypedLocation{}, err
	}
	loc, err := obj.String("location")
	if err != nil {
		return TypedLocation{}, err
	}
	if err := validate.NotEmpty(obj.Path("location"), loc); err != nil {
		return TypedLocation{}, err
	}
	return TypedLocation{locationIdentifierType: kind, location: loc}, nil
}

// Equal reports structural equality.
func (l TypedLocation) Equal(o TypedLocation) bool {
	return l == o
}

// MarshalJSON emits the wire form in declaration order.
func (l TypedLocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(typedLocationWire{
		LocationIdentifierType: l.locationIdentifierType,
		Location:               l.location,
	})
}

// DecodeTypedLocation parses and validates a TypedLocation document.
func DecodeTypedLocation(data []byte) (TypedLocation, error) {
	return decode(data, parseTypedLocation)
}

// ParseTypedLocation validates a decoded JSON tree.
func ParseTypedLocation(raw any) (TypedLocation, error) {
	return parseTypedLocation("", raw)
}

// UnmarshalJSON decodes and validates data into l.
func (l *TypedLocation) UnmarshalJSON(data []byte) error {
	v, err := DecodeTypedLocation(data)
	if err != nil {
		return err
	}
	*l = v
	return nil
}
