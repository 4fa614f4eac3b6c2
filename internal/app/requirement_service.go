package app

import (
	"strings"

	"github.com/sirupsen/logrus"

	"teaching_admin/internal/domain/requirement"
	"teaching_admin/internal/domain/teacher"
)

// RequirementInput carries the editable fields of a teaching requirement.
// On update, empty strings and an empty qualification list keep the
// stored value.
type RequirementInput struct {
	CourseName     string
	CourseCode     string
	Schedule       string
	Location       string
	Qualifications []string
	Notes          string
}

// RequirementService implements the class director's requirement use cases.
type RequirementService struct {
	requirementRepo requirement.Repository
	teacherRepo     teacher.Repository
	logger          *logrus.Entry
	opts            []requirement.Option
}

func NewRequirementService(rr requirement.Repository, tr teacher.Repository, logger *logrus.Entry, opts ...requirement.Option) *RequirementService {
	return &RequirementService{
		requirementRepo: rr,
		teacherRepo:     tr,
		logger:          logger,
		opts:            opts,
	}
}

// CreateRequirement validates and stores a new requirement. Course name
// and course code must not be blank.
func (s *RequirementService) CreateRequirement(in RequirementInput) (*requirement.TeachingRequirement, bool) {
	if strings.TrimSpace(in.CourseName) == "" || strings.TrimSpace(in.CourseCode) == "" {
		s.logger.Warn("Create requirement: course name and code are required")
		return nil, false
	}

	r := requirement.New(in.CourseName, in.CourseCode, in.Schedule, in.Location, in.Qualifications, s.opts...)
	r.SetNotes(in.Notes)

	ok := s.requirementRepo.Save(r)
	s.logger.WithFields(logrus.Fields{"requirement_id": r.ID(), "ok": ok}).Info("Create requirement")
	if !ok {
		return nil, false
	}
	return r, true
}

// UpdateRequirement applies the non-empty fields of in to the stored requirement.
func (s *RequirementService) UpdateRequirement(id string, in RequirementInput) bool {
	ok := s.requirementRepo.Modify(id, func(r *requirement.TeachingRequirement) bool {
		if strings.TrimSpace(in.CourseName) != "" {
			r.SetCourseName(in.CourseName)
		}
		if strings.TrimSpace(in.CourseCode) != "" {
			r.SetCourseCode(in.CourseCode)
		}
		if in.Schedule != "" {
			r.SetSchedule(in.Schedule)
		}
		if in.Location != "" {
			r.SetLocation(in.Location)
		}
		if len(in.Qualifications) > 0 {
			r.SetRequiredQualifications(in.Qualifications)
		}
		if in.Notes != "" {
			r.SetNotes(in.Notes)
		}
		return true
	})
	s.logger.WithFields(logrus.Fields{"requirement_id": id, "ok": ok}).Info("Update requirement")
	return ok
}

func (s *RequirementService) DeleteRequirement(id string) bool {
	ok := s.requirementRepo.Delete(id)
	s.logger.WithFields(logrus.Fields{"requirement_id": id, "ok": ok}).Info("Delete requirement")
	return ok
}

func (s *RequirementService) ListRequirements() []*requirement.TeachingRequirement {
	return s.requirementRepo.FindAll()
}

func (s *RequirementService) GetRequirement(id string) (*requirement.TeachingRequirement, bool) {
	return s.requirementRepo.FindByID(id)
}

func (s *RequirementService) ListRequirementsByStatus(status requirement.Status) []*requirement.TeachingRequirement {
	out := make([]*requirement.TeachingRequirement, 0)
	for _, r := range s.requirementRepo.FindAll() {
		if r.Status() == status {
			out = append(out, r)
		}
	}
	return out
}

// SearchRequirementsByCourseName matches course names containing keyword,
// ignoring case. A blank keyword matches nothing.
func (s *RequirementService) SearchRequirementsByCourseName(keyword string) []*requirement.TeachingRequirement {
	out := make([]*requirement.TeachingRequirement, 0)
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return out
	}
	for _, r := range s.requirementRepo.FindAll() {
		if strings.Contains(strings.ToLower(r.CourseName()), keyword) {
			out = append(out, r)
		}
	}
	return out
}

// AssignTeacher assigns an existing teacher to a requirement. It returns
// false when either record is missing, the teacher is already assigned,
// or the flush fails. Eligibility is not enforced; see EligibleTeachers.
func (s *RequirementService) AssignTeacher(requirementID string, teacherID int) bool {
	log := s.logger.WithFields(logrus.Fields{"requirement_id": requirementID, "teacher_id": teacherID})

	if _, found := s.teacherRepo.FindByID(teacherID); !found {
		log.Info("Assign teacher: teacher not found")
		return false
	}
	var status requirement.Status
	ok := s.requirementRepo.Modify(requirementID, func(r *requirement.TeachingRequirement) bool {
		changed := r.AssignTeacher(teacherID)
		status = r.Status()
		return changed
	})
	log.WithFields(logrus.Fields{"status": status, "ok": ok}).Info("Assign teacher")
	return ok
}

func (s *RequirementService) UnassignTeacher(requirementID string, teacherID int) bool {
	log := s.logger.WithFields(logrus.Fields{"requirement_id": requirementID, "teacher_id": teacherID})

	var status requirement.Status
	ok := s.requirementRepo.Modify(requirementID, func(r *requirement.TeachingRequirement) bool {
		changed := r.RemoveTeacher(teacherID)
		status = r.Status()
		return changed
	})
	log.WithFields(logrus.Fields{"status": status, "ok": ok}).Info("Unassign teacher")
	return ok
}

// IsEligible reports whether t may apply for r: the teacher must be
// available, and their qualifications must mention the course code or
// every qualification the requirement lists.
func IsEligible(t *teacher.Teacher, r *requirement.TeachingRequirement) bool {
	if !t.IsAvailable {
		return false
	}
	if code := strings.TrimSpace(r.CourseCode()); code != "" && t.HasQualification(code) {
		return true
	}
	required := r.RequiredQualifications()
	if len(required) == 0 {
		return false
	}
	for _, q := range required {
		if !t.HasQualification(q) {
			return false
		}
	}
	return true
}

// EligibleTeachers lists the teachers who may apply for the requirement.
// The bool is false when the requirement does not exist.
func (s *RequirementService) EligibleTeachers(requirementID string) ([]*teacher.Teacher, bool) {
	r, found := s.requirementRepo.FindByID(requirementID)
	if !found {
		return nil, false
	}
	out := make([]*teacher.Teacher, 0)
	for _, t := range s.teacherRepo.FindAll() {
		if IsEligible(t, r) {
			out = append(out, t)
		}
	}
	return out, true
}

// ApplyForCourse lets a teacher take a requirement they are eligible for.
// It returns false when either record is missing, the teacher is not
// eligible or already assigned, or the flush fails.
func (s *RequirementService) ApplyForCourse(teacherID int, requirementID string) bool {
	log := s.logger.WithFields(logrus.Fields{"requirement_id": requirementID, "teacher_id": teacherID})

	t, found := s.teacherRepo.FindByID(teacherID)
	if !found {
		log.Info("Apply for course: teacher not found")
		return false
	}
	ok := s.requirementRepo.Modify(requirementID, func(r *requirement.TeachingRequirement) bool {
		if !IsEligible(t, r) {
			log.Info("Apply for course: teacher not eligible")
			return false
		}
		return r.AssignTeacher(teacherID)
	})
	log.WithField("ok", ok).Info("Apply for course")
	return ok
}
