package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DataType is the wire tag carried next to every changed-data value.
type DataType int

const (
	DataTypeString DataType = iota
	DataTypeStringList
	DataTypeNumber
	DataTypeNumberList
	DataTypeProject
	DataTypeUser
	DataTypeIssue
	DataTypeTeam
	DataTypeObject
)

func (t DataType) String() string {
	switch t {
	case DataTypeString:
		return "string"
	case DataTypeStringList:
		return "string_list"
	case DataTypeNumber:
		return "number"
	case DataTypeNumberList:
		return "number_list"
	case DataTypeProject:
		return "project"
	case DataTypeUser:
		return "user"
	case DataTypeIssue:
		return "issue"
	case DataTypeTeam:
		return "team"
	case DataTypeObject:
		return "object"
	default:
		return fmt.Sprintf("data_type(%d)", int(t))
	}
}

// Value is a changed-data value. The set of implementations is closed.
type Value interface {
	DataType() DataType
	value()
}

type String string

type StringList []string

type Number float64

type NumberList []float64

// ProjectSnapshot is a point-in-time copy of a project's public fields.
// Name is the short project name; the owner is Author.
type ProjectSnapshot struct {
	Name         string   `json:"name"`
	Author       string   `json:"author"`
	Contributors []string `json:"contributors"`
	TeamName     string   `json:"teamName,omitempty"`
}

// Ref returns the project's owner/name reference.
func (p ProjectSnapshot) Ref() (ProjectRef, error) {
	return NewProjectRef(p.Author, p.Name)
}

// UserSnapshot is a point-in-time copy of a user's public fields.
type UserSnapshot struct {
	Username string       `json:"username"`
	TeamName string       `json:"teamName,omitempty"`
	Projects []ProjectRef `json:"projects"`
}

// TeamSnapshot is a point-in-time copy of a team's public fields.
type TeamSnapshot struct {
	Name     string   `json:"name"`
	Leader   string   `json:"leader,omitempty"`
	Members  []string `json:"members"`
	Projects []string `json:"projects"`
}

// Opaque carries values whose shape this contract does not interpret
// (issue documents and untyped objects).
type Opaque struct {
	Type DataType
	Raw  json.RawMessage
}

func (String) DataType() DataType          { return DataTypeString }
func (StringList) DataType() DataType      { return DataTypeStringList }
func (Number) DataType() DataType          { return DataTypeNumber }
func (NumberList) DataType() DataType      { return DataTypeNumberList }
func (ProjectSnapshot) DataType() DataType { return DataTypeProject }
func (UserSnapshot) DataType() DataType    { return DataTypeUser }
func (TeamSnapshot) DataType() DataType    { return DataTypeTeam }
func (o Opaque) DataType() DataType        { return o.Type }

func (String) value()          {}
func (StringList) value()      {}
func (Number) value()          {}
func (NumberList) value()      {}
func (ProjectSnapshot) value() {}
func (UserSnapshot) value()    {}
func (TeamSnapshot) value()    {}
func (Opaque) value()          {}

var jsonNull = []byte("null")

func decodeValue(field string, tag DataType, raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		if tag == DataTypeIssue || tag == DataTypeObject {
			return Opaque{Type: tag, Raw: json.RawMessage(jsonNull)}, nil
		}
		return nil, &ValidationError{Field: field, Want: tag, Got: tag, Reason: "is null"}
	}

	switch tag {
	case DataTypeString:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, shapeError(field, tag, err)
		}
		return String(v), nil
	case DataTypeStringList:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, shapeError(field, tag, err)
		}
		return StringList(v), nil
	case DataTypeNumber:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, shapeError(field, tag, err)
		}
		return Number(v), nil
	case DataTypeNumberList:
		var v []float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, shapeError(field, tag, err)
		}
		return NumberList(v), nil
	case DataTypeProject:
		var v ProjectSnapshot
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, shapeError(field, tag, err)
		}
		if _, err := v.Ref(); err != nil {
			return nil, shapeError(field, tag, err)
		}
		return v, nil
	case DataTypeUser:
		var v UserSnapshot
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, shapeError(field, tag, err)
		}
		if strings.TrimSpace(v.Username) == "" {
			return nil, &ValidationError{Field: field, Want: tag, Got: tag, Reason: "has no username"}
		}
		return v, nil
	case DataTypeTeam:
		var v TeamSnapshot
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, shapeError(field, tag, err)
		}
		if strings.TrimSpace(v.Name) == "" {
			return nil, &ValidationError{Field: field, Want: tag, Got: tag, Reason: "has no name"}
		}
		return v, nil
	case DataTypeIssue, DataTypeObject:
		if !json.Valid(raw) {
			return nil, &ValidationError{Field: field, Want: tag, Got: tag, Reason: "is not valid json"}
		}
		return Opaque{Type: tag, Raw: append(json.RawMessage(nil), raw...)}, nil
	default:
		return nil, &ValidationError{Field: field, Want: tag, Got: tag, Reason: "has an unknown data type"}
	}
}

func encodeValue(value Value) (json.RawMessage, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("nil value")
	case Opaque:
		if len(bytes.TrimSpace(v.Raw)) == 0 {
			return json.RawMessage(jsonNull), nil
		}
		if !json.Valid(v.Raw) {
			return nil, fmt.Errorf("opaque value is not valid json")
		}
		return v.Raw, nil
	case StringList:
		if v == nil {
			v = StringList{}
		}
		return json.Marshal([]string(v))
	case NumberList:
		if v == nil {
			v = NumberList{}
		}
		return json.Marshal([]float64(v))
	case ProjectSnapshot:
		if v.Contributors == nil {
			v.Contributors = []string{}
		}
		return json.Marshal(v)
	case UserSnapshot:
		if v.Projects == nil {
			v.Projects = []ProjectRef{}
		}
		return json.Marshal(v)
	default:
		return json.Marshal(v)
	}
}

func shapeError(field string, tag DataType, err error) error {
	return &ValidationError{Field: field, Want: tag, Got: tag, Reason: "does not match its data type: " + err.Error()}
}
