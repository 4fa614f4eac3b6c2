package storage

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"teaching_admin/internal/domain/requirement"
	"teaching_admin/internal/domain/teacher"
)

const (
	KindTeachers     = "teachers"
	KindRequirements = "teaching_requirements"
)

var validate = validator.New()

var (
	_ teacher.Repository     = (*Repository[*teacher.Teacher, int])(nil)
	_ requirement.Repository = (*Repository[*requirement.TeachingRequirement, string])(nil)
)

// decodeValid decodes node into T and checks its struct tags.
func decodeValid[T any](node *yaml.Node) (T, error) {
	var v T
	if err := node.Decode(&v); err != nil {
		return v, fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return v, fmt.Errorf("validate: %w", err)
	}
	return v, nil
}

func TeacherSchema() Schema[*teacher.Teacher, int] {
	return Schema[*teacher.Teacher, int]{
		Kind:   KindTeachers,
		Key:    (*teacher.Teacher).Key,
		Clone:  (*teacher.Teacher).Clone,
		Encode: func(t *teacher.Teacher) any { return t },
		Decode: func(node *yaml.Node) (*teacher.Teacher, error) {
			t, err := decodeValid[teacher.Teacher](node)
			if err != nil {
				return nil, err
			}
			return &t, nil
		},
	}
}

func RequirementSchema() Schema[*requirement.TeachingRequirement, string] {
	return Schema[*requirement.TeachingRequirement, string]{
		Kind:   KindRequirements,
		Key:    (*requirement.TeachingRequirement).Key,
		Clone:  (*requirement.TeachingRequirement).Clone,
		Encode: func(r *requirement.TeachingRequirement) any { return r.Snapshot() },
		Decode: func(node *yaml.Node) (*requirement.TeachingRequirement, error) {
			s, err := decodeValid[requirement.Snapshot](node)
			if err != nil {
				return nil, err
			}
			return requirement.FromSnapshot(s)
		},
	}
}

func NewTeacherRepository(store SnapshotStore, logger *logrus.Entry, opts ...Option) *Repository[*teacher.Teacher, int] {
	return NewRepository(TeacherSchema(), store, logger, opts...)
}

func NewRequirementRepository(store SnapshotStore, logger *logrus.Entry, opts ...Option) *Repository[*requirement.TeachingRequirement, string] {
	return NewRepository(RequirementSchema(), store, logger, opts...)
}
