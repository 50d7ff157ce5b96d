package session

import "edunest/models"

// NormalizeClassRecord projects the embedded classSubjects association
// of a class into the flat subjects/subjectIds shape the CRUD pages
// consume. Records without an association list get empty slices, never
// nil, so the persisted JSON always carries both arrays.
func NormalizeClassRecord(cls models.ClassRecord) models.ClassRecord {
	cls.Subjects = make([]models.SubjectRef, 0, len(cls.ClassSubjects))
	cls.SubjectIDs = make([]string, 0, len(cls.ClassSubjects))
	for _, cs := range cls.ClassSubjects {
		cls.Subjects = append(cls.Subjects, models.SubjectRef{
			ID:   cs.SubjectID,
			Name: cs.SubjectName,
		})
		cls.SubjectIDs = append(cls.SubjectIDs, cs.SubjectID)
	}
	return cls
}

// NormalizeClassRecords normalizes every record in place order.
func NormalizeClassRecords(classes []models.ClassRecord) []models.ClassRecord {
	normalized := make([]models.ClassRecord, 0, len(classes))
	for _, cls := range classes {
		normalized = append(normalized, NormalizeClassRecord(cls))
	}
	return normalized
}
