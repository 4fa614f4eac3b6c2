package teacher

import "teaching_admin/internal/domain/record"

// Repository defines the operations for persisting and retrieving Teacher entities.
type Repository = record.Repository[*Teacher, int]
