package helpers

// MinAcademicYear is the lowest year-of-study AcademicYear ever reports.
const MinAcademicYear = 1

// AcademicYear maps an admission year to the student's current year of study.
// An admission year in the future clamps to MinAcademicYear instead of failing.
func AcademicYear(admissionYear, currentYear int) int {
	y := currentYear - admissionYear + 1
	if y < MinAcademicYear {
		return MinAcademicYear
	}
	return y
}

// AdmissionYearForCourseYear is the inverse of AcademicYear: the admission year of the
// cohort that is currently in courseYear.
func AdmissionYearForCourseYear(courseYear, currentYear int) int {
	return currentYear - courseYear + 1
}
