package validation

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `form:"username" validate:"required,min=3"`
	Password string `form:"password" validate:"required,min=6"`
}

// CourseForm is the course create/edit modal. HasThumbnail is set by the
// handler when a file was uploaded; it is mandatory only when Creating.
type CourseForm struct {
	Name         string  `form:"name" validate:"required"`
	Description  string  `form:"description" validate:"required"`
	Price        float64 `form:"price" validate:"gte=0"`
	IsPremium    bool    `form:"isPremium"`
	IsActive     bool    `form:"isActive"`
	Creating     bool    `form:"-"`
	HasThumbnail bool    `form:"thumbnail" validate:"required_if=Creating true"`
}

// LessonForm is the lesson create/edit modal.
type LessonForm struct {
	CourseID        int64  `form:"courseId" validate:"required,gt=0"`
	Name            string `form:"name" validate:"required"`
	Description     string `form:"description"`
	Order           int    `form:"order" validate:"min=1"`
	MinAge          int    `form:"minAge" validate:"gte=0"`
	MaxAge          int    `form:"maxAge" validate:"gte=0,gtefield=MinAge"`
	DifficultyLevel int    `form:"difficultyLevel" validate:"min=1,max=3"`
	Duration        int    `form:"duration" validate:"min=1"`
	IsPremium       bool   `form:"isPremium"`
	IsActive        bool   `form:"isActive"`
	Creating        bool   `form:"-"`
	HasThumbnail    bool   `form:"thumbnail" validate:"required_if=Creating true"`
}

// VideoForm is the video create/edit modal including its quiz question.
type VideoForm struct {
	LessonID     int64  `form:"lessonId" validate:"required,gt=0"`
	Title        string `form:"title" validate:"required"`
	Order        int    `form:"order" validate:"min=1"`
	Duration     int    `form:"duration" validate:"min=1"`
	IsActive     bool   `form:"isActive"`
	Question     string `form:"question" validate:"required"`
	OptionA      string `form:"optionA" validate:"required"`
	OptionB      string `form:"optionB" validate:"required"`
	OptionC      string `form:"optionC" validate:"required"`
	OptionD      string `form:"optionD" validate:"required"`
	Answer       string `form:"answer" validate:"required,oneof=A B C D"`
	Creating     bool   `form:"-"`
	HasVideo     bool   `form:"video" validate:"required_if=Creating true"`
	HasThumbnail bool   `form:"thumbnail" validate:"required_if=Creating true"`
}

// PriceForm is the premium plan create/edit modal.
type PriceForm struct {
	Price    float64 `form:"price" validate:"gt=0"`
	Duration int     `form:"duration" validate:"min=1,max=36"`
}
