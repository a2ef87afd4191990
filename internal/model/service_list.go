// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"

	"github.com/ManuGH/fivegms/internal/validate"
)

// ServiceListEntry is one service offered on M8: a provisioning session, its
// display name and the entry points that start it.
type ServiceListEntry struct {
	provisioningSessionID string
	name                  string
	entryPoints           Optional[[]EntryPoint]
}

type serviceListEntryWire struct {
	ProvisioningSessionID string        `json:"provisioningSessionId"`
	Name                  string        `json:"name"`
	EntryPoints           *[]EntryPoint `json:"entryPoints,omitempty"`
}

// NewServiceListEntry builds a validated ServiceListEntry.
func NewServiceListEntry(provisioningSessionID, name string, entryPoints Optional[[]EntryPoint]) (ServiceListEntry, error) {
	e := ServiceListEntry{
		provisioningSessionID: provisioningSessionID,
		name:                  name,
		entryPoints:           optionalSlice(entryPoints),
	}
	if err := e.check(""); err != nil {
		return ServiceListEntry{}, err
	}
	return e, nil
}

func (e ServiceListEntry) ProvisioningSessionID() string       { return e.provisioningSessionID }
func (e ServiceListEntry) Name() string                        { return e.name }
func (e ServiceListEntry) EntryPoints() Optional[[]EntryPoint] { return optionalSlice(e.entryPoints) }

func (e ServiceListEntry) check(path string) error {
	if err := checkText(e.provisioningSessionID, validate.Join(path, "provisioningSessionId")); err != nil {
		return err
	}
	if err := validate.NotEmpty(validate.Join(path, "provisioningSessionId"), e.provisioningSessionID); err != nil {
		return err
	}
	if err := checkText(e.name, validate.Join(path, "name")); err != nil {
		return err
	}
	return checkOptionalArray(validate.Join(path, "entryPoints"), e.entryPoints, EntryPoint.check)
}

func parseServiceListEntry(path string, raw any) (ServiceListEntry, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return ServiceListEntry{}, err
	}

	var e ServiceListEntry
	if e.provisioningSessionID, err = obj.String("provisioningSessionId"); err != nil {
		return ServiceListEntry{}, err
	}
	if err := validate.NotEmpty(obj.Path("provisioningSessionId"), e.provisioningSessionID); err != nil {
		return ServiceListEntry{}, err
	}
	if e.name, err = obj.String("name"); err != nil {
		return ServiceListEntry{}, err
	}
	if e.entryPoints, err = parseOptionalArray(obj, "entryPoints", parseEntryPoint); err != nil {
		return ServiceListEntry{}, err
	}
	return e, nil
}

// Equal reports structural equality.
func (e ServiceListEntry) Equal(o ServiceListEntry) bool {
	return e.provisioningSessionID == o.provisioningSessionID &&
		e.name == o.name &&
		equalOptionalSlices(e.entryPoints, o.entryPoints, equalEntryPoints)
}

// MarshalJSON emits the wire form in declaration order.
func (e ServiceListEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(serviceListEntryWire{
		ProvisioningSessionID: e.provisioningSessionID,
		Name:                  e.name,
		EntryPoints:           e.entryPoints.ptr(),
	})
}

// DecodeServiceListEntry parses and validates a ServiceListEntry document.
func DecodeServiceListEntry(data []byte) (ServiceListEntry, error) {
	return decode(data, parseServiceListEntry)
}

// ParseServiceListEntry validates a decoded JSON tree.
func ParseServiceListEntry(raw any) (ServiceListEntry, error) {
	return parseServiceListEntry("", raw)
}

// UnmarshalJSON decodes and validates data into e.
func (e *ServiceListEntry) UnmarshalJSON(data []byte) error {
	v, err := DecodeServiceListEntry(data)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// M8Model is the M8 document: where the M5 interface lives and which services
// are on offer. The service list keeps insertion order and may repeat a
// provisioning session.
type M8Model struct {
	m5URL       string
	serviceList []ServiceListEntry
}

type m8ModelWire struct {
	M5URL       string             `json:"m5Url"`
	ServiceList []ServiceListEntry `json:"serviceList"`
}

// NewM8Model builds a validated M8Model.
func NewM8Model(m5URL string, serviceList []ServiceListEntry) (M8Model, error) {
	m := M8Model{m5URL: m5URL, serviceList: cloneSlice(serviceList)}
	if err := m.check(""); err != nil {
		return M8Model{}, err
	}
	return m, nil
}

func (m M8Model) Kind() Kind                      { return KindM8 }
func (m M8Model) M5URL() string                   { return m.m5URL }
func (m M8Model) ServiceList() []ServiceListEntry { return cloneSlice(m.serviceList) }

func (m M8Model) check(path string) error {
	if err := checkText(m.m5URL, validate.Join(path, "m5Url")); err != nil {
		return err
	}
	if err := validate.URI(validate.Join(path, "m5Url"), m.m5URL); err != nil {
		return err
	}
	return checkArray(validate.Join(path, "serviceList"), m.serviceList, ServiceListEntry.check)
}

func parseM8Model(path string, raw any) (M8Model, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return M8Model{}, err
	}

	var m M8Model
	if m.m5URL, err = obj.String("m5Url"); err != nil {
		return M8Model{}, err
	}
	if err := validate.URI(obj.Path("m5Url"), m.m5URL); err != nil {
		return M8Model{}, err
	}
	list, err := obj.Array("serviceList")
	if err != nil {
		return M8Model{}, err
	}
	if m.serviceList, err = parseArray(obj.Path("serviceList"), list, parseServiceListEntry); err != nil {
		return M8Model{}, err
	}
	return m, nil
}

// Equal reports structural equality. Order and duplicates are significant.
func (m M8Model) Equal(o M8Model) bool {
	return m.m5URL == o.m5URL &&
		equalSlices(m.serviceList, o.serviceList, func(a, b ServiceListEntry) bool { return a.Equal(b) })
}

// MarshalJSON emits the wire form in declaration order.
func (m M8Model) MarshalJSON() ([]byte, error) {
	list := m.serviceList
	if list == nil {
		list = []ServiceListEntry{}
	}
	return json.Marshal(m8ModelWire{M5URL: m.m5URL, ServiceList: list})
}

// DecodeM8Model parses and validates an M8 document.
func DecodeM8Model(data []byte) (M8Model, error) {
	return decode(data, parseM8Model)
}

// ParseM8Model validates a decoded JSON tree.
func ParseM8Model(raw any) (M8Model, error) {
	return parseM8Model("", raw)
}

// UnmarshalJSON decodes and validates data into m.
func (m *M8Model) UnmarshalJSON(data []byte) error {
	v, err := DecodeM8Model(data)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
