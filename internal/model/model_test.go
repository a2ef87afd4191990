// SPDX-License-Identifier: MIT
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	// #nosec G304 -- test fixture
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "read fixture %s", name)
	return bytes.TrimSpace(data)
}

func mustEntryPoint(t *testing.T, locator, contentType string, profiles Optional[[]string]) EntryPoint {
	t.Helper()
	e, err := NewEntryPoint(locator, contentType, profiles)
	require.NoError(t, err)
	return e
}

func mustServiceListEntry(t *testing.T, id, name string, eps Optional[[]EntryPoint]) ServiceListEntry {
	t.Helper()
	e, err := NewServiceListEntry(id, name, eps)
	require.NoError(t, err)
	return e
}

func mustUnit(t *testing.T, consumed string, addr Optional[EndpointAddress], start string, duration int, locs Optional[[]TypedLocation]) ConsumptionReportingUnit {
	t.Helper()
	u, err := NewConsumptionReportingUnit(consumed, addr, start, duration, locs)
	require.NoError(t, err)
	return u
}

func requireValidationError(t *testing.T, err error, path string, reason Reason) *ValidationError {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T: %v", err, err)
	assert.Equal(t, path, ve.Path)
	assert.Equal(t, reason, ve.Reason)
	assert.ErrorIs(t, err, ErrValidation)
	return ve
}

// TestFixtures_Canonical decodes pretty-printed fixtures with shuffled field
// order and checks the serializer emits the canonical declaration-ordered form.
func TestFixtures_Canonical(t *testing.T) {
	tests := []struct {
		kind      Kind
		fixture   string
		canonical string
	}{
		{KindM8, "m8.json", "m8.canonical.json"},
		{KindServiceAccessInformation, "service_access_information.json", "service_access_information.canonical.json"},
		{KindConsumptionReporting, "consumption_reporting.json", "consumption_reporting.canonical.json"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			rec, err := Decode(tt.kind, readFixture(t, tt.fixture))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, rec.Kind())

			out, err := Encode(rec)
			require.NoError(t, err)
			assert.Equal(t, string(readFixture(t, tt.canonical)), string(out))

			again, err := Decode(tt.kind, out)
			require.NoError(t, err)
			if diff := cmp.Diff(rec, again); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip_Constructed(t *testing.T) {
	ep := mustEntryPoint(t, "https://as.example.com/a.mpd", "application/dash+xml", Some([]string{"p1", "p2"}))
	bare := mustEntryPoint(t, "https://as.example.com/b.m3u8", "application/vnd.apple.mpegurl", None[[]string]())
	emptyProfiles := mustEntryPoint(t, "https://as.example.com/c.mpd", "application/dash+xml", Some([]string{}))

	access, err := NewStreamingAccess(Some([]EntryPoint{ep, bare, emptyProfiles}))
	require.NoError(t, err)
	sai, err := NewServiceAccessInformation("ps-1", Some(ProvisioningSessionDownlink), access)
	require.NoError(t, err)

	addr, err := NewEndpointAddress(None[string](), Some([]string{"192.0.2.1"}), Some([]string{"2001:db8::1"}), 8080)
	require.NoError(t, err)
	loc, err := NewTypedLocation(LocationNCGI, "001-01-000000001")
	require.NoError(t, err)
	report, err := NewConsumptionReporting("https://as.example.com/a.mpd", NewReportingClientID(), []ConsumptionReportingUnit{
		mustUnit(t, "video", Some(addr), "2024-01-02T03:04:05Z", 12, Some([]TypedLocation{loc})),
		mustUnit(t, "audio", None[EndpointAddress](), "2024-01-02T03:04:17Z", 3, Some([]TypedLocation{})),
	})
	require.NoError(t, err)

	m8, err := NewM8Model("https://af.example.com/3gpp-m5/v2/", []ServiceListEntry{
		mustServiceListEntry(t, "ps-1", "One", Some([]EntryPoint{ep})),
		mustServiceListEntry(t, "ps-2", "Two", None[[]EntryPoint]()),
	})
	require.NoError(t, err)

	for _, rec := range []Record{sai, report, m8} {
		t.Run(string(rec.Kind()), func(t *testing.T) {
			data, err := Encode(rec)
			require.NoError(t, err)
			got, err := Decode(rec.Kind(), data)
			require.NoError(t, err)
			if diff := cmp.Diff(rec, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConsumptionReportingUnit_OptionalFieldsOmitted(t *testing.T) {
	raw := []byte(`{"mediaConsumed":"video","startTime":"2023-05-01T10:00:00Z","duration":30}`)

	u, err := DecodeConsumptionReportingUnit(raw)
	require.NoError(t, err)
	assert.False(t, u.MediaEndpointAddress().IsSet())
	assert.False(t, u.Locations().IsSet())

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(out))
	assert.NotContains(t, string(out), "null")
}

func TestConsumptionReportingUnit_NegativeDuration(t *testing.T) {
	raw := []byte(`{"mediaConsumed":"video","startTime":"2023-05-01T10:00:00Z","duration":-1}`)

	_, err := DecodeConsumptionReportingUnit(raw)
	requireValidationError(t, err, "duration", ReasonMalformed)

	_, err = NewConsumptionReportingUnit("video", None[EndpointAddress](), "2023-05-01T10:00:00Z", -1, None[[]TypedLocation]())
	requireValidationError(t, err, "duration", ReasonMalformed)

	_, err = DecodeConsumptionReporting([]byte(`{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[` +
		`{"mediaConsumed":"a","startTime":"2023-05-01T10:00:00Z","duration":1},` +
		`{"mediaConsumed":"b","startTime":"2023-05-01T10:00:00Z","duration":2},` +
		`{"mediaConsumed":"c","startTime":"2023-05-01T10:00:00Z","duration":-1}]}`))
	requireValidationError(t, err, "consumptionReportingUnits[2].duration", ReasonMalformed)
}

func TestM8Model_OrderAndDuplicatesPreserved(t *testing.T) {
	m8, err := NewM8Model("https://af.example.com/m5", []ServiceListEntry{
		mustServiceListEntry(t, "A", "first", None[[]EntryPoint]()),
		mustServiceListEntry(t, "B", "second", None[[]EntryPoint]()),
		mustServiceListEntry(t, "A", "third", None[[]EntryPoint]()),
	})
	require.NoError(t, err)

	data, err := json.Marshal(m8)
	require.NoError(t, err)
	got, err := DecodeM8Model(data)
	require.NoError(t, err)

	var ids, names []string
	for _, e := range got.ServiceList() {
		ids = append(ids, e.ProvisioningSessionID())
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"A", "B", "A"}, ids)
	assert.Equal(t, []string{"first", "second", "third"}, names)
	assert.True(t, m8.Equal(got))
}

func TestConsumptionReporting_EmptyVersusAbsentUnits(t *testing.T) {
	empty := []byte(`{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[]}`)
	r, err := DecodeConsumptionReporting(empty)
	require.NoError(t, err)
	assert.Empty(t, r.ConsumptionReportingUnits())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, string(empty), string(out))

	constructed, err := NewConsumptionReporting("e", "c", nil)
	require.NoError(t, err)
	out, err = json.Marshal(constructed)
	require.NoError(t, err)
	assert.Equal(t, string(empty), string(out))

	_, err = DecodeConsumptionReporting([]byte(`{"mediaPlayerEntry":"e","reportingClientId":"c"}`))
	requireValidationError(t, err, "consumptionReportingUnits", ReasonMissing)
}

func TestEntryPoint_EmptyProfilesDistinctFromAbsent(t *testing.T) {
	absent, err := DecodeEntryPoint([]byte(`{"locator":"https://a/x.mpd","contentType":"application/dash+xml"}`))
	require.NoError(t, err)
	empty, err := DecodeEntryPoint([]byte(`{"locator":"https://a/x.mpd","contentType":"application/dash+xml","profiles":[]}`))
	require.NoError(t, err)

	assert.False(t, absent.Equal(empty))
	assert.False(t, absent.Profiles().IsSet())
	profiles, ok := empty.Profiles().Get()
	assert.True(t, ok)
	assert.Empty(t, profiles)

	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"profiles":[]`)
}

func TestValidation_FirstFailureInDeclarationOrder(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		input    string
		path     string
		reason   Reason
		optional bool
	}{
		{
			name:   "root not an object",
			kind:   KindM8,
			input:  `[]`,
			path:   "",
			reason: ReasonWrongType,
		},
		{
			name:   "m5Url checked before serviceList",
			kind:   KindM8,
			input:  `{"m5Url":"not a uri"}`,
			path:   "m5Url",
			reason: ReasonMalformed,
		},
		{
			name:   "serviceList missing",
			kind:   KindM8,
			input:  `{"m5Url":"https://af/m5"}`,
			path:   "serviceList",
			reason: ReasonMissing,
		},
		{
			name:   "serviceList null",
			kind:   KindM8,
			input:  `{"m5Url":"https://af/m5","serviceList":null}`,
			path:   "serviceList",
			reason: ReasonWrongType,
		},
		{
			name:   "empty provisioning session id",
			kind:   KindM8,
			input:  `{"m5Url":"https://af/m5","serviceList":[{"provisioningSessionId":"a","name":"n"},{"provisioningSessionId":"","name":1}]}`,
			path:   "serviceList[1].provisioningSessionId",
			reason: ReasonMalformed,
		},
		{
			name:     "entry point not an object",
			kind:     KindM8,
			input:    `{"m5Url":"https://af/m5","serviceList":[{"provisioningSessionId":"a","name":"n","entryPoints":["x"]}]}`,
			path:     "serviceList[0].entryPoints[0]",
			reason:   ReasonWrongType,
			optional: true,
		},
		{
			name:   "entry point content type",
			kind:   KindM8,
			input:  `{"m5Url":"https://af/m5","serviceList":[{"provisioningSessionId":"a","name":"n","entryPoints":[{"locator":"https://x/y","contentType":"dash"}]}]}`,
			path:   "serviceList[0].entryPoints[0].contentType",
			reason: ReasonMalformed,
		},
		{
			name:     "profile element type",
			kind:     KindServiceAccessInformation,
			input:    `{"provisioningSessionId":"p","streamingAccess":{"entryPoints":[{"locator":"https://x/y","contentType":"a/b","profiles":["ok",7]}]}}`,
			path:     "streamingAccess.entryPoints[0].profiles[1]",
			reason:   ReasonWrongType,
			optional: true,
		},
		{
			name:   "streamingAccess missing",
			kind:   KindServiceAccessInformation,
			input:  `{"provisioningSessionId":"p","provisioningSessionType":"DOWNLINK"}`,
			path:   "streamingAccess",
			reason: ReasonMissing,
		},
		{
			name:     "session type wrong type before streamingAccess",
			kind:     KindServiceAccessInformation,
			input:    `{"provisioningSessionId":"p","provisioningSessionType":5}`,
			path:     "provisioningSessionType",
			reason:   ReasonWrongType,
			optional: true,
		},
		{
			name:   "reportingClientId before units",
			kind:   KindConsumptionReporting,
			input:  `{"mediaPlayerEntry":"e","consumptionReportingUnits":7}`,
			path:   "reportingClientId",
			reason: ReasonMissing,
		},
		{
			name:     "endpoint address before startTime",
			kind:     KindConsumptionReporting,
			input:    `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","mediaEndpointAddress":"x"}]}`,
			path:     "consumptionReportingUnits[0].mediaEndpointAddress",
			reason:   ReasonWrongType,
			optional: true,
		},
		{
			name:   "endpoint address port missing",
			kind:   KindConsumptionReporting,
			input:  `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","mediaEndpointAddress":{"domainName":"d"}}]}`,
			path:   "consumptionReportingUnits[0].mediaEndpointAddress.portNumber",
			reason: ReasonMissing,
		},
		{
			name:     "endpoint address without any address",
			kind:     KindConsumptionReporting,
			input:    `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","mediaEndpointAddress":{"portNumber":80}}]}`,
			path:     "consumptionReportingUnits[0].mediaEndpointAddress",
			reason:   ReasonMissing,
			optional: true,
		},
		{
			name:     "bad ipv4",
			kind:     KindConsumptionReporting,
			input:    `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","mediaEndpointAddress":{"ipv4Addrs":["300.1.1.1"],"portNumber":80}}]}`,
			path:     "consumptionReportingUnits[0].mediaEndpointAddress.ipv4Addrs[0]",
			reason:   ReasonMalformed,
			optional: true,
		},
		{
			name:   "startTime not a timestamp",
			kind:   KindConsumptionReporting,
			input:  `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","startTime":"soon","duration":-5}]}`,
			path:   "consumptionReportingUnits[0].startTime",
			reason: ReasonMalformed,
		},
		{
			name:   "duration as string",
			kind:   KindConsumptionReporting,
			input:  `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","startTime":"2023-05-01T10:00:00Z","duration":"30"}]}`,
			path:   "consumptionReportingUnits[0].duration",
			reason: ReasonWrongType,
		},
		{
			name:   "duration fractional",
			kind:   KindConsumptionReporting,
			input:  `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","startTime":"2023-05-01T10:00:00Z","duration":1.5}]}`,
			path:   "consumptionReportingUnits[0].duration",
			reason: ReasonMalformed,
		},
		{
			name:   "unknown location type",
			kind:   KindConsumptionReporting,
			input:  `{"mediaPlayerEntry":"e","reportingClientId":"c","consumptionReportingUnits":[{"mediaConsumed":"m","startTime":"2023-05-01T10:00:00Z","duration":1,"locations":[{"locationIdentifierType":"TAI","location":"x"}]}]}`,
			path:   "consumptionReportingUnits[0].locations[0].locationIdentifierType",
			reason: ReasonMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Repeated runs must report the same first failure.
			for i := 0; i < 3; i++ {
				_, err := Decode(tt.kind, []byte(tt.input))
				ve := requireValidationError(t, err, tt.path, tt.reason)
				assert.Equal(t, tt.optional, ve.Optional, "optional flag")
			}
		})
	}
}

func TestDecode_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"truncated", `{"m5Url":"https://af/m5",`},
		{"bad token", `{"m5Url": nope}`},
		{"trailing value", `{"m5Url":"https://af/m5","serviceList":[]} {}`},
		{"trailing garbage", `{"m5Url":"https://af/m5","serviceList":[]}x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeM8Model([]byte(tt.input))
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.ErrorIs(t, err, ErrSyntax)
			assert.NotErrorIs(t, err, ErrValidation)
		})
	}

	_, err := DecodeM8Model([]byte(`{"m5Url":"https://af/m5","serviceList":[]}` + "\n"))
	assert.NoError(t, err, "trailing whitespace is allowed")
}

func TestDecode_UnknownFieldsIgnored(t *testing.T) {
	m8, err := DecodeM8Model([]byte(`{"m5Url":"https://af/m5","serviceList":[],"extension":{"a":1}}`))
	require.NoError(t, err)
	out, err := json.Marshal(m8)
	require.NoError(t, err)
	assert.Equal(t, `{"m5Url":"https://af/m5","serviceList":[]}`, string(out))
}

func TestRecords_Immutable(t *testing.T) {
	ep := mustEntryPoint(t, "https://as/x.mpd", "application/dash+xml", Some([]string{"p1"}))
	profiles, _ := ep.Profiles().Get()
	profiles[0] = "mutated"
	got, _ := ep.Profiles().Get()
	assert.Equal(t, []string{"p1"}, got)

	input := []ServiceListEntry{mustServiceListEntry(t, "A", "a", None[[]EntryPoint]())}
	m8, err := NewM8Model("https://af/m5", input)
	require.NoError(t, err)
	input[0] = mustServiceListEntry(t, "Z", "z", None[[]EntryPoint]())
	list := m8.ServiceList()
	list[0] = input[0]
	assert.Equal(t, "A", m8.ServiceList()[0].ProvisioningSessionID())
}

func TestConstructors_RejectZeroValueChildren(t *testing.T) {
	_, err := NewServiceListEntry("ps", "name", Some([]EntryPoint{{}}))
	requireValidationError(t, err, "entryPoints[0].locator", ReasonMalformed)

	_, err = NewConsumptionReporting("e", "c", []ConsumptionReportingUnit{{}})
	requireValidationError(t, err, "consumptionReportingUnits[0].startTime", ReasonMalformed)

	_, err = NewServiceAccessInformation("", None[string](), StreamingAccess{})
	requireValidationError(t, err, "provisioningSessionId", ReasonMalformed)

	_, err = NewEndpointAddress(None[string](), None[[]string](), None[[]string](), 80)
	requireValidationError(t, err, "", ReasonMissing)
}

func TestConstructors_RejectInvalidUTF8(t *testing.T) {
	_, err := NewServiceListEntry("ps\xff", "name", None[[]EntryPoint]())
	requireValidationError(t, err, "provisioningSessionId", ReasonMalformed)

	_, err = NewServiceListEntry("ps", "name\xfe", None[[]EntryPoint]())
	requireValidationError(t, err, "name", ReasonMalformed)

	_, err = NewEntryPoint("https://x/y", "video/mp4", Some([]string{"ok", "bad\xff"}))
	ve := requireValidationError(t, err, "profiles[1]", ReasonMalformed)
	assert.True(t, ve.Optional)

	_, err = NewEndpointAddress(Some("host\xff"), None[[]string](), None[[]string](), 80)
	ve = requireValidationError(t, err, "domainName", ReasonMalformed)
	assert.True(t, ve.Optional)

	_, err = NewTypedLocation(LocationNCGI, "\xc3")
	requireValidationError(t, err, "location", ReasonMalformed)

	_, err = NewConsumptionReporting("entry\xff", "client", nil)
	requireValidationError(t, err, "mediaPlayerEntry", ReasonMalformed)

	_, err = NewServiceAccessInformation("p", Some("\xffDOWNLINK"), StreamingAccess{})
	requireValidationError(t, err, "provisioningSessionType", ReasonMalformed)
}

func TestConstructedRecords_RoundTripText(t *testing.T) {
	entry, err := NewServiceListEntry("ps-é", "name \u2603", None[[]EntryPoint]())
	require.NoError(t, err)
	m8, err := NewM8Model("https://af.example.com/m5", []ServiceListEntry{entry})
	require.NoError(t, err)

	data, err := Encode(m8)
	require.NoError(t, err)
	back, err := DecodeM8Model(data)
	require.NoError(t, err)
	assert.True(t, m8.Equal(back), "wire: %s", data)
}

func TestProvisioningSessionID_WhitespaceIsOpaque(t *testing.T) {
	for _, id := range []string{" ", "\t"} {
		data, err := json.Marshal(map[string]any{"provisioningSessionId": id, "streamingAccess": map[string]any{}})
		require.NoError(t, err)
		s, err := DecodeServiceAccessInformation(data)
		require.NoError(t, err)
		assert.Equal(t, id, s.ProvisioningSessionID())
	}

	_, err := DecodeServiceAccessInformation([]byte(`{"provisioningSessionId":"","streamingAccess":{}}`))
	requireValidationError(t, err, "provisioningSessionId", ReasonMalformed)
}

func TestDuration_IntegralNumberForms(t *testing.T) {
	for _, d := range []string{"30", "30.0", "3e1"} {
		t.Run(d, func(t *testing.T) {
			u, err := DecodeConsumptionReportingUnit([]byte(`{"mediaConsumed":"v","startTime":"2023-05-01T10:00:00Z","duration":` + d + `}`))
			require.NoError(t, err)
			assert.Equal(t, 30, u.Duration())

			p, err := ParseConsumptionReportingUnit(map[string]any{"mediaConsumed": "v", "startTime": "2023-05-01T10:00:00Z", "duration": float64(30)})
			require.NoError(t, err)
			assert.True(t, u.Equal(p))
		})
	}

	_, err := DecodeConsumptionReportingUnit([]byte(`{"mediaConsumed":"v","startTime":"2023-05-01T10:00:00Z","duration":30.5}`))
	requireValidationError(t, err, "duration", ReasonMalformed)
}

func TestUnmarshalJSON_Embedded(t *testing.T) {
	var envelope struct {
		Service ServiceAccessInformation `json:"service"`
	}
	err := json.Unmarshal([]byte(`{"service":{"provisioningSessionId":"p","streamingAccess":{}}}`), &envelope)
	require.NoError(t, err)
	assert.Equal(t, "p", envelope.Service.ProvisioningSessionID())
	assert.False(t, envelope.Service.StreamingAccess().EntryPoints().IsSet())

	err = json.Unmarshal([]byte(`{"service":{"streamingAccess":{}}}`), &envelope)
	requireValidationError(t, err, "provisioningSessionId", ReasonMissing)
}

func TestParse_AcceptsNativeTrees(t *testing.T) {
	u, err := ParseConsumptionReportingUnit(map[string]any{
		"mediaConsumed": "video",
		"startTime":     "2023-05-01T10:00:00Z",
		"duration":      float64(42),
	})
	require.NoError(t, err)
	assert.Equal(t, 42, u.Duration())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("m5")
	assert.Error(t, err)

	_, err = Decode(Kind("bogus"), []byte(`{}`))
	assert.Error(t, err)
}

func TestNewReportingClientID_Unique(t *testing.T) {
	a, b := NewReportingClientID(), NewReportingClientID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
