package v1

import (
	"encoding/json"
	"fmt"
)

// Envelope is the message unit exchanged between the two services.
type Envelope struct {
	MessageID   string
	Sender      Party
	Recipient   Party
	Action      Action
	ChangedKey  ChangedKey
	ChangedData ChangedData
}

// ChangedData maps a field name to its typed value.
type ChangedData map[string]Value

type wireEnvelope struct {
	MessageID   string               `json:"messageId,omitempty"`
	Sender      *int                 `json:"sender"`
	Recipient   *int                 `json:"recipient"`
	Action      *int                 `json:"action"`
	ChangedKey  *int                 `json:"changedDataKey"`
	ChangedData map[string]wireValue `json:"changedData"`
}

type wireValue struct {
	Data json.RawMessage `json:"data"`
	Type *int            `json:"changedDataType"`
}

// Encode serializes the envelope after checking it is well formed.
func Encode(envelope Envelope) ([]byte, error) {
	if err := envelope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	data := make(map[string]wireValue, len(envelope.ChangedData))
	for field, value := range envelope.ChangedData {
		raw, err := encodeValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrEncoding, field, err)
		}
		tag := int(value.DataType())
		data[field] = wireValue{Data: raw, Type: &tag}
	}

	sender := int(envelope.Sender)
	recipient := int(envelope.Recipient)
	action := int(envelope.Action)
	key := envelope.ChangedKey.Code()
	payload, err := json.Marshal(wireEnvelope{
		MessageID:   envelope.MessageID,
		Sender:      &sender,
		Recipient:   &recipient,
		Action:      &action,
		ChangedKey:  &key,
		ChangedData: data,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return payload, nil
}

// Decode parses and validates a broker message body. Every failure wraps
// ErrEncoding; value shape failures additionally wrap ErrValidation.
func Decode(body []byte) (Envelope, error) {
	var wire wireEnvelope
	if err := json.Unmarshal(body, &wire); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if wire.Sender == nil || wire.Recipient == nil || wire.Action == nil || wire.ChangedKey == nil {
		return Envelope{}, fmt.Errorf("%w: sender, recipient, action and changedDataKey are required", ErrEncoding)
	}

	envelope := Envelope{
		MessageID: wire.MessageID,
		Sender:    Party(*wire.Sender),
		Recipient: Party(*wire.Recipient),
		Action:    Action(*wire.Action),
	}
	if !envelope.Sender.Valid() || !envelope.Recipient.Valid() {
		return Envelope{}, fmt.Errorf("%w: unknown party %d -> %d", ErrEncoding, *wire.Sender, *wire.Recipient)
	}
	if !envelope.Action.Valid() {
		return Envelope{}, fmt.Errorf("%w: unknown action %d", ErrEncoding, *wire.Action)
	}
	key, err := ParseChangedKey(envelope.Sender, *wire.ChangedKey)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	envelope.ChangedKey = key

	envelope.ChangedData = make(ChangedData, len(wire.ChangedData))
	for field, item := range wire.ChangedData {
		if item.Type == nil {
			return Envelope{}, fmt.Errorf("%w: %w", ErrEncoding, &ValidationError{Field: field, Reason: "has no changedDataType"})
		}
		value, err := decodeValue(field, DataType(*item.Type), item.Data)
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		envelope.ChangedData[field] = value
	}
	return envelope, nil
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	return Encode(e)
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

// Validate checks the structural invariants Encode relies on.
func (e Envelope) Validate() error {
	if !e.Sender.Valid() || !e.Recipient.Valid() {
		return fmt.Errorf("unknown party %s -> %s", e.Sender, e.Recipient)
	}
	if e.Sender == e.Recipient {
		return fmt.Errorf("sender and recipient are both %s", e.Sender)
	}
	if !e.Action.Valid() {
		return fmt.Errorf("unknown action %s", e.Action)
	}
	if e.ChangedKey == nil {
		return fmt.Errorf("changed key is required")
	}
	if e.ChangedKey.Origin() != e.Sender {
		return fmt.Errorf("%w: %s cannot be sent by %s", ErrUnknownChangedKey, e.ChangedKey, e.Sender)
	}
	for field, value := range e.ChangedData {
		if value == nil {
			return fmt.Errorf("field %q has no value", field)
		}
	}
	return nil
}

func (d ChangedData) String(field string) (string, error) {
	v, err := lookup[String](d, field, DataTypeString)
	return string(v), err
}

func (d ChangedData) StringList(field string) ([]string, error) {
	v, err := lookup[StringList](d, field, DataTypeStringList)
	return []string(v), err
}

func (d ChangedData) Number(field string) (float64, error) {
	v, err := lookup[Number](d, field, DataTypeNumber)
	return float64(v), err
}

func (d ChangedData) Project(field string) (ProjectSnapshot, error) {
	return lookup[ProjectSnapshot](d, field, DataTypeProject)
}

func (d ChangedData) User(field string) (UserSnapshot, error) {
	return lookup[UserSnapshot](d, field, DataTypeUser)
}

func (d ChangedData) Team(field string) (TeamSnapshot, error) {
	return lookup[TeamSnapshot](d, field, DataTypeTeam)
}

func lookup[T Value](d ChangedData, field string, want DataType) (T, error) {
	var zero T
	value, ok := d[field]
	if !ok || value == nil {
		return zero, &ValidationError{Field: field, Want: want, Missing: true}
	}
	typed, ok := value.(T)
	if !ok {
		return zero, &ValidationError{Field: field, Want: want, Got: value.DataType()}
	}
	return typed, nil
}
