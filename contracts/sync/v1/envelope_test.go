package v1

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

func TestDecodeTeamRenamedFixture(t *testing.T) {
	envelope, err := Decode(readFixture(t, "team_renamed.json"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Sender != PartyIdentity || envelope.Recipient != PartyIssues {
		t.Fatalf("unexpected parties %s -> %s", envelope.Sender, envelope.Recipient)
	}
	if envelope.ChangedKey != IdentityTeamNameChanged {
		t.Fatalf("expected team name key, got %v", envelope.ChangedKey)
	}
	payload, err := ParseTeamRenamed(envelope)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.OldName != "Red" || payload.NewName != "Blue" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if envelope.MessageID == "" {
		t.Fatal("expected message id to survive decode")
	}
}

func TestDecodeContributorsFixtureIgnoresUnknownSnapshotFields(t *testing.T) {
	envelope, err := Decode(readFixture(t, "contributors_changed.json"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	payload, err := ParseContributorsChanged(envelope)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.Ref.String() != "ada/hive" {
		t.Fatalf("unexpected ref %s", payload.Ref)
	}
	if len(payload.Project.Contributors) != 3 || len(payload.Contributors) != 3 {
		t.Fatalf("unexpected contributor lists %+v", payload)
	}
}

func TestDecodeRejectsKeyNotValidForSender(t *testing.T) {
	body := []byte(`{"sender":1,"recipient":0,"action":1,"changedDataKey":2,"changedData":{}}`)
	_, err := Decode(body)
	if !errors.Is(err, ErrEncoding) || !errors.Is(err, ErrUnknownChangedKey) {
		t.Fatalf("expected unknown key encoding error, got %v", err)
	}
}

func TestDecodeInterpretsKeyInSenderNamespace(t *testing.T) {
	body := []byte(`{"sender":1,"recipient":0,"action":0,"changedDataKey":0,"changedData":{}}`)
	envelope, err := Decode(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.ChangedKey != IssueProjectAuthorChanged {
		t.Fatalf("expected issue author key, got %v", envelope.ChangedKey)
	}
	if envelope.ChangedKey == ChangedKey(IdentityTeamNameChanged) {
		t.Fatal("keys from different origins must not compare equal")
	}
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	_, err := Decode([]byte(`{"sender":`))
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected encoding error, got %v", err)
	}

	_, err = Decode([]byte(`{"recipient":1,"action":1,"changedDataKey":0,"changedData":{}}`))
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected encoding error for missing sender, got %v", err)
	}
}

func TestDecodeRejectsValueNotMatchingTag(t *testing.T) {
	body := []byte(`{"sender":0,"recipient":1,"action":1,"changedDataKey":0,"changedData":{"oldName":{"data":["Red"],"changedDataType":0}}}`)
	_, err := Decode(body)
	if !errors.Is(err, ErrEncoding) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error at decode, got %v", err)
	}
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != FieldOldName {
		t.Fatalf("expected validation error on oldName, got %v", err)
	}
}

func TestParsePayloadReportsMissingField(t *testing.T) {
	envelope := NewTeamRenamed("Red", "Blue")
	delete(envelope.ChangedData, FieldNewName)

	_, err := ParseTeamRenamed(envelope)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !validation.Missing || validation.Field != FieldNewName {
		t.Fatalf("unexpected validation error %+v", validation)
	}
}

func TestParsePayloadReportsMistypedField(t *testing.T) {
	envelope := NewTeamRenamed("Red", "Blue")
	envelope.ChangedData[FieldOldName] = StringList{"Red"}

	_, err := ParseTeamRenamed(envelope)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validation.Got != DataTypeStringList || validation.Want != DataTypeString {
		t.Fatalf("unexpected validation error %+v", validation)
	}
}

func TestEncodeRejectsKeyFromOtherParty(t *testing.T) {
	envelope := NewTeamRenamed("Red", "Blue")
	envelope.Sender = PartyIssues
	envelope.Recipient = PartyIdentity

	if _, err := Encode(envelope); !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected encoding error, got %v", err)
	}
}

func TestEncodeDecodeProjectsChanged(t *testing.T) {
	prior := UserSnapshot{
		Username: "bob",
		TeamName: "Red",
		Projects: []ProjectRef{MustProjectRef("ada/hive")},
	}
	envelope := NewProjectsChanged(prior, []ProjectRef{MustProjectRef("ada/hive"), MustProjectRef("cyd/nest")})
	envelope.MessageID = "msg-1"

	body, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded Envelope
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	payload, err := ParseProjectsChanged(decoded)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if payload.User.Username != "bob" || len(payload.User.Projects) != 1 {
		t.Fatalf("unexpected user snapshot %+v", payload.User)
	}
	if len(payload.Projects) != 2 || !payload.Projects[1].Equal(MustProjectRef("cyd/nest")) {
		t.Fatalf("unexpected projects %+v", payload.Projects)
	}
}

func TestEncodeWireShapeUsesObjectForChangedData(t *testing.T) {
	body, err := Encode(NewTeamRenamed("Red", "Blue"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"sender", "recipient", "action", "changedDataKey", "changedData"} {
		if _, ok := wire[key]; !ok {
			t.Fatalf("expected wire key %q in %s", key, body)
		}
	}
	var data map[string]struct {
		Data            any `json:"data"`
		ChangedDataType int `json:"changedDataType"`
	}
	if err := json.Unmarshal(wire["changedData"], &data); err != nil {
		t.Fatalf("changedData must be an object: %v", err)
	}
	if data[FieldOldName].Data != "Red" || data[FieldOldName].ChangedDataType != int(DataTypeString) {
		t.Fatalf("unexpected oldName entry %+v", data[FieldOldName])
	}
}

func TestSchemaArtifactIsValidJSON(t *testing.T) {
	data, err := os.ReadFile("envelope.schema.json")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("invalid schema json: %v", err)
	}
	if schema["type"] != "object" {
		t.Fatalf("unexpected schema type %v", schema["type"])
	}
}

func TestDecodeTypedAccessorsForEveryTag(t *testing.T) {
	body := []byte(`{
		"sender": 0, "recipient": 1, "action": 1, "changedDataKey": 0,
		"changedData": {
			"count": {"data": 3, "changedDataType": 2},
			"weights": {"data": [1, 2.5], "changedDataType": 3},
			"team": {"data": {"name": "Red", "leader": "ada", "members": ["ada"], "projects": []}, "changedDataType": 7},
			"issue": {"data": {"id": 42}, "changedDataType": 6},
			"extra": {"data": null, "changedDataType": 8}
		}
	}`)

	envelope, err := Decode(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	count, err := envelope.ChangedData.Number("count")
	if err != nil || count != 3 {
		t.Fatalf("unexpected number %v, %v", count, err)
	}
	team, err := envelope.ChangedData.Team("team")
	if err != nil || team.Name != "Red" || len(team.Members) != 1 {
		t.Fatalf("unexpected team %+v, %v", team, err)
	}
	if weights, ok := envelope.ChangedData["weights"].(NumberList); !ok || len(weights) != 2 {
		t.Fatalf("unexpected number list %#v", envelope.ChangedData["weights"])
	}
	if issue, ok := envelope.ChangedData["issue"].(Opaque); !ok || issue.DataType() != DataTypeIssue {
		t.Fatalf("unexpected issue value %#v", envelope.ChangedData["issue"])
	}
	if extra, ok := envelope.ChangedData["extra"].(Opaque); !ok || extra.DataType() != DataTypeObject {
		t.Fatalf("unexpected object value %#v", envelope.ChangedData["extra"])
	}

	_, err = envelope.ChangedData.Team("count")
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Got != DataTypeNumber || validation.Want != DataTypeTeam {
		t.Fatalf("expected mistyped field error, got %v", err)
	}
}
