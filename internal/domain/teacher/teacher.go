package teacher

import (
	"fmt"
	"strings"
)

// Teacher represents a teacher registered by an administrator.
// The identifier is assigned by the caller and must be non-zero.
type Teacher struct {
	ID             int    `yaml:"id" validate:"required"`
	Name           string `yaml:"name"`
	Contact        string `yaml:"contact"`
	IsAvailable    bool   `yaml:"is_available"`
	Qualifications string `yaml:"qualifications"`
}

func New(id int, name, contact string, isAvailable bool, qualifications string) *Teacher {
	return &Teacher{
		ID:             id,
		Name:           name,
		Contact:        contact,
		IsAvailable:    isAvailable,
		Qualifications: qualifications,
	}
}

func (t *Teacher) Key() int { return t.ID }

func (t *Teacher) Clone() *Teacher {
	c := *t
	return &c
}

// HasQualification reports whether keyword occurs in the qualifications
// text, ignoring case.
func (t *Teacher) HasQualification(keyword string) bool {
	return strings.Contains(strings.ToLower(t.Qualifications), strings.ToLower(keyword))
}

func (t *Teacher) String() string {
	return fmt.Sprintf("Teacher{id=%d, name='%s', contact='%s', available=%t, qualifications='%s'}",
		t.ID, t.Name, t.Contact, t.IsAvailable, t.Qualifications)
}
