// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"

	"github.com/ManuGH/fivegms/internal/validate"
)

// Well-known provisioningSessionType values. The field itself is opaque.
const (
	ProvisioningSessionDownlink = "DOWNLINK"
	ProvisioningSessionUplink   = "UPLINK"
)

// StreamingAccess lists the entry points a client may start playback from.
type StreamingAccess struct {
	entryPoints Optional[[]EntryPoint]
}

type streamingAccessWire struct {
	EntryPoints *[]EntryPoint `json:"entryPoints,omitempty"`
}

// NewStreamingAccess builds a validated StreamingAccess.
func NewStreamingAccess(entryPoints Optional[[]EntryPoint]) (StreamingAccess, error) {
	s := StreamingAccess{entryPoints: optionalSlice(entryPoints)}
	if err := s.check(""); err != nil {
		return StreamingAccess{}, err
	}
	return s, nil
}

func (s StreamingAccess) EntryPoints() Optional[[]EntryPoint] { return optionalSlice(s.entryPoints) }

func (s StreamingAccess) check(path string) error {
	return checkOptionalArray(validate.Join(path, "entryPoints"), s.entryPoints, EntryPoint.check)
}

func parseStreamingAccess(path string, raw any) (StreamingAccess, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return StreamingAccess{}, err
	}
	eps, err := parseOptionalArray(obj, "entryPoints", parseEntryPoint)
	if err != nil {
		return StreamingAccess{}, err
	}
	return StreamingAccess{entryPoints: eps}, nil
}

// Equal reports structural equality.
func (s StreamingAccess) Equal(o StreamingAccess) bool {
	return equalOptionalSlices(s.entryPoints, o.entryPoints, equalEntryPoints)
}

// MarshalJSON emits the wire form.
func (s StreamingAccess) MarshalJSON() ([]byte, error) {
	return json.Marshal(streamingAccessWire{EntryPoints: s.entryPoints.ptr()})
}

// DecodeStreamingAccess parses and validates a StreamingAccess document.
func DecodeStreamingAccess(data []byte) (StreamingAccess, error) {
	return decode(data, parseStreamingAccess)
}

// ParseStreamingAccess validates a decoded JSON tree.
func ParseStreamingAccess(raw any) (StreamingAccess, error) {
	return parseStreamingAccess("", raw)
}

// UnmarshalJSON decodes and validates data into s.
func (s *StreamingAccess) UnmarshalJSON(data []byte) error {
	v, err := DecodeStreamingAccess(data)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ServiceAccessInformation is the M5 document describing how a client reaches
// the streaming service of one provisioning session.
type ServiceAccessInformation struct {
	provisioningSessionID   string
	provisioningSessionType Optional[string]
	streamingAccess         StreamingAccess
}

type serviceAccessInformationWire struct {
	ProvisioningSessionID   string          `json:"provisioningSessionId"`
	ProvisioningSessionType *string         `json:"provisioningSessionType,omitempty"`
	StreamingAccess         StreamingAccess `json:"streamingAccess"`
}

// NewServiceAccessInformation builds a validated ServiceAccessInformation.
func NewServiceAccessInformation(provisioningSessionID string, provisioningSessionType Optional[string], streamingAccess StreamingAccess) (ServiceAccessInformation, error) {
	s := ServiceAccessInformation{
		provisioningSessionID:   provisioningSessionID,
		provisioningSessionType: provisioningSessionType,
		streamingAccess:         StreamingAccess{entryPoints: optionalSlice(streamingAccess.entryPoints)},
	}
	if err := s.check(""); err != nil {
		return ServiceAccessInformation{}, err
	}
	return s, nil
}

func (s ServiceAccessInformation) Kind() Kind                                { return KindServiceAccessInformation }
func (s ServiceAccessInformation) ProvisioningSessionID() string             { return s.provisioningSessionID }
func (s ServiceAccessInformation) ProvisioningSessionType() Optional[string] { return s.provisioningSessionType }
func (s ServiceAccessInformation) StreamingAccess() StreamingAccess          { return s.streamingAccess }

func (s ServiceAccessInformation) check(path string) error {
	if err := checkText(s.provisioningSessionID, validate.Join(path, "provisioningSessionId")); err != nil {
		return err
	}
	if err := validate.NotEmpty(validate.Join(path, "provisioningSessionId"), s.provisioningSessionID); err != nil {
		return err
	}
	if err := checkOptionalText(validate.Join(path, "provisioningSessionType"), s.provisioningSessionType); err != nil {
		return err
	}
	return s.streamingAccess.check(validate.Join(path, "streamingAccess"))
}

func parseServiceAccessInformation(path string, raw any) (ServiceAccessInformation, error) {
	obj, err := validate.AsObject(path, raw)
	if err != nil {
		return ServiceAccessInformation{}, err
	}

	var s ServiceAccessInformation
	if s.provisioningSessionID, err = obj.String("provisioningSessionId"); err != nil {
		return ServiceAccessInformation{}, err
	}
	if err := validate.NotEmpty(obj.Path("provisioningSessionId"), s.provisioningSessionID); err != nil {
		return ServiceAccessInformation{}, err
	}
	if typ, ok, err := obj.OptionalString("provisioningSessionType"); err != nil {
		return ServiceAccessInformation{}, err
	} else if ok {
		s.provisioningSessionType = Some(typ)
	}
	accessRaw, err := obj.Value("streamingAccess")
	if err != nil {
		return ServiceAccessInformation{}, err
	}
	if s.streamingAccess, err = parseStreamingAccess(obj.Path("streamingAccess"), accessRaw); err != nil {
		return ServiceAccessInformation{}, err
	}
	return s, nil
}

// Equal reports structural equality.
func (s ServiceAccessInformation) Equal(o ServiceAccessInformation) bool {
	return s.provisioningSessionID == o.provisioningSessionID &&
		equalOptional(s.provisioningSessionType, o.provisioningSessionType, sameString) &&
		s.streamingAccess.Equal(o.streamingAccess)
}

// MarshalJSON emits the wire form in declaration order.
func (s ServiceAccessInformation) MarshalJSON() ([]byte, error) {
	return json.Marshal(serviceAccessInformationWire{
		ProvisioningSessionID:   s.provisioningSessionID,
		ProvisioningSessionType: s.provisioningSessionType.ptr(),
		StreamingAccess:         s.streamingAccess,
	})
}

// DecodeServiceAccessInformation parses and validates a ServiceAccessInformation document.
func DecodeServiceAccessInformation(data []byte) (ServiceAccessInformation, error) {
	return decode(data, parseServiceAccessInformation)
}

// ParseServiceAccessInformation validates a decoded JSON tree.
func ParseServiceAccessInformation(raw any) (ServiceAccessInformation, error) {
	return parseServiceAccessInformation("", raw)
}

// UnmarshalJSON decodes and validates data into s.
func (s *ServiceAccessInformation) UnmarshalJSON(data []byte) error {
	v, err := DecodeServiceAccessInformation(data)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
