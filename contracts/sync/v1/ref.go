package v1

import (
	"fmt"
	"strings"
	"unicode"
)

// ProjectRef is the "owner/project-name" reference one service keeps to a
// project owned by the issue service.
//
// For any ref r returned by NewProjectRef or ParseProjectRef,
// ParseProjectRef(r.String()) returns a ref equal to r.
type ProjectRef struct {
	Owner string
	Name  string
}

// NewProjectRef builds a reference, folding whitespace in the project name to
// underscores the way project names are stored.
func NewProjectRef(owner string, name string) (ProjectRef, error) {
	ref := ProjectRef{
		Owner: strings.TrimSpace(owner),
		Name:  normalizeProjectName(name),
	}
	if err := ref.validate(); err != nil {
		return ProjectRef{}, err
	}
	return ref, nil
}

// ParseProjectRef parses the canonical "owner/name" form.
func ParseProjectRef(value string) (ProjectRef, error) {
	owner, name, ok := strings.Cut(value, "/")
	if !ok {
		return ProjectRef{}, fmt.Errorf("%w: %q has no owner separator", ErrInvalidProjectRef, value)
	}
	ref := ProjectRef{Owner: owner, Name: name}
	if err := ref.validate(); err != nil {
		return ProjectRef{}, err
	}
	return ref, nil
}

// MustProjectRef is ParseProjectRef for literals known to be valid.
func MustProjectRef(value string) ProjectRef {
	ref, err := ParseProjectRef(value)
	if err != nil {
		panic(err)
	}
	return ref
}

func (r ProjectRef) String() string {
	return r.Owner + "/" + r.Name
}

func (r ProjectRef) Equal(other ProjectRef) bool {
	return r.Owner == other.Owner && r.Name == other.Name
}

func (r ProjectRef) MarshalText() ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

func (r *ProjectRef) UnmarshalText(text []byte) error {
	parsed, err := ParseProjectRef(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r ProjectRef) validate() error {
	if r.Owner == "" || r.Name == "" {
		return fmt.Errorf("%w: owner and name are required", ErrInvalidProjectRef)
	}
	if strings.Contains(r.Owner, "/") || strings.Contains(r.Name, "/") {
		return fmt.Errorf("%w: %q contains a nested separator", ErrInvalidProjectRef, r.String())
	}
	if strings.IndexFunc(r.Owner, unicode.IsSpace) >= 0 || strings.IndexFunc(r.Name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidProjectRef, r.String())
	}
	return nil
}

func normalizeProjectName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
}

// RemoveRef returns refs without any element equal to target, and how many were dropped.
func RemoveRef(refs []ProjectRef, target ProjectRef) ([]ProjectRef, int) {
	kept := make([]ProjectRef, 0, len(refs))
	for _, ref := range refs {
		if !ref.Equal(target) {
			kept = append(kept, ref)
		}
	}
	return kept, len(refs) - len(kept)
}

// ContainsRef reports whether refs holds a reference equal to target.
func ContainsRef(refs []ProjectRef, target ProjectRef) bool {
	for _, ref := range refs {
		if ref.Equal(target) {
			return true
		}
	}
	return false
}

// RefStrings renders refs in canonical string form.
func RefStrings(refs []ProjectRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.String())
	}
	return out
}
