package requirement

import "teaching_admin/internal/domain/record"

// Repository defines the operations for persisting and retrieving teaching requirements.
type Repository = record.Repository[*TeachingRequirement, string]
