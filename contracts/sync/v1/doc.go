// Package v1 is the wire contract exchanged between the identity service and
// the issue service over the broker.
//
// An Envelope names its sender and recipient Party, the upstream Action, a
// ChangedKey selecting the reconciliation handler on the receiving side, and a
// ChangedData map of typed values. The changed-key namespace depends on the
// sender, so ChangedKey is a union of IdentityKey and IssueKey and decoding
// rejects keys that the claimed sender cannot emit. Values are a closed sum
// type validated once at the decode boundary.
//
// This package must stay backward compatible with the JSON shape on the queues.
package v1
