package dto

// CreateCourseRequest represents a new course offered by the calling faculty member
type CreateCourseRequest struct {
	CourseCode string `json:"courseCode" binding:"required,notblank,max=20"`
	CourseName string `json:"courseName" binding:"required,notblank,max=200"`
	Department string `json:"department" binding:"required,notblank,max=50"`
	Year       int    `json:"year" binding:"required,min=1,max=4"`
}

// UpdateCourseRequest applies the provided fields. Changing department or year resynchronizes enrollment.
type UpdateCourseRequest struct {
	CourseCode *string `json:"courseCode" binding:"omitempty,notblank,max=20"`
	CourseName *string `json:"courseName" binding:"omitempty,notblank,max=200"`
	Department *string `json:"department" binding:"omitempty,notblank,max=50"`
	Year       *int    `json:"year" binding:"omitempty,min=1,max=4"`
}

// CreateMaterialRequest accepts either a multipart upload (field "file") or an external fileUrl.
type CreateMaterialRequest struct {
	Title       string  `json:"title" form:"title" binding:"required,notblank,max=200"`
	Description string  `json:"description" form:"description" binding:"max=2000"`
	FileURL     *string `json:"fileUrl" form:"fileUrl" binding:"omitempty,url"`
}

// UpdateMaterialRequest applies the provided fields.
type UpdateMaterialRequest struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	FileURL     *string `json:"fileUrl" binding:"omitempty,url"`
}
