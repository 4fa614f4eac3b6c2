package app

import (
	"strings"

	"github.com/sirupsen/logrus"

	"teaching_admin/internal/domain/teacher"
)

// TeacherUpdate carries optional overrides. Empty strings and a nil
// Available keep the stored value.
type TeacherUpdate struct {
	Name           string
	Contact        string
	Available      *bool
	Qualifications string
}

// TeacherAdminService implements the administrator's teacher use cases.
type TeacherAdminService struct {
	teacherRepo teacher.Repository
	logger      *logrus.Entry
}

func NewTeacherAdminService(tr teacher.Repository, logger *logrus.Entry) *TeacherAdminService {
	return &TeacherAdminService{
		teacherRepo: tr,
		logger:      logger,
	}
}

// AddTeacher registers a new teacher. It returns false when the identifier
// is zero, already taken, or the flush fails.
func (s *TeacherAdminService) AddTeacher(id int, name, contact string, isAvailable bool, qualifications string) bool {
	ok := s.teacherRepo.Save(teacher.New(id, name, contact, isAvailable, qualifications))
	s.logger.WithFields(logrus.Fields{"teacher_id": id, "ok": ok}).Info("Add teacher")
	return ok
}

// UpdateTeacher applies the non-empty fields of upd to the stored teacher.
func (s *TeacherAdminService) UpdateTeacher(id int, upd TeacherUpdate) bool {
	ok := s.teacherRepo.Modify(id, func(t *teacher.Teacher) bool {
		if upd.Name != "" {
			t.Name = upd.Name
		}
		if upd.Contact != "" {
			t.Contact = upd.Contact
		}
		if upd.Available != nil {
			t.IsAvailable = *upd.Available
		}
		if upd.Qualifications != "" {
			t.Qualifications = upd.Qualifications
		}
		return true
	})
	s.logger.WithFields(logrus.Fields{"teacher_id": id, "ok": ok}).Info("Update teacher")
	return ok
}

func (s *TeacherAdminService) DeleteTeacher(id int) bool {
	ok := s.teacherRepo.Delete(id)
	s.logger.WithFields(logrus.Fields{"teacher_id": id, "ok": ok}).Info("Delete teacher")
	return ok
}

func (s *TeacherAdminService) ListTeachers() []*teacher.Teacher {
	return s.teacherRepo.FindAll()
}

func (s *TeacherAdminService) FindTeacher(id int) (*teacher.Teacher, bool) {
	return s.teacherRepo.FindByID(id)
}

// SearchTeachersByQualification returns teachers whose qualifications
// contain keyword, ignoring case.
func (s *TeacherAdminService) SearchTeachersByQualification(keyword string) []*teacher.Teacher {
	keyword = strings.TrimSpace(keyword)
	out := make([]*teacher.Teacher, 0)
	for _, t := range s.teacherRepo.FindAll() {
		if t.HasQualification(keyword) {
			out = append(out, t)
		}
	}
	return out
}
