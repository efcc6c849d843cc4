package models

import "strconv"

// Course is a top-level catalog entry; lessons are fetched separately.
type Course struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	TotalLesson  int     `json:"totalLesson"`
	IsPremium    bool    `json:"isPremium"`
	IsActive     bool    `json:"isActive"`
	Price        float64 `json:"price"`
	Star         float64 `json:"star"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// SearchFields returns the values matched by the courses search box.
func (c Course) SearchFields() []string {
	return []string{c.Name, c.Description, strconv.FormatInt(c.ID, 10)}
}

// CourseRequest is the JSON "request" part of course create/update.
type CourseRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	IsPremium   bool    `json:"isPremium"`
	IsActive    bool    `json:"isActive"`
}

// Lesson belongs to one course.
type Lesson struct {
	ID              int64   `json:"id"`
	CourseID        int64   `json:"courseId"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Order           int     `json:"order"`
	MinAge          int     `json:"minAge"`
	MaxAge          int     `json:"maxAge"`
	DifficultyLevel int     `json:"difficultyLevel"`
	Duration        int     `json:"duration"` // minutes
	TotalVideo      int     `json:"totalVideo"`
	IsPremium       bool    `json:"isPremium"`
	IsActive        bool    `json:"isActive"`
	Star            float64 `json:"star"`
	ThumbnailURL    string  `json:"thumbnailUrl"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// SearchFields returns the values matched by the lessons search box.
func (l Lesson) SearchFields() []string {
	return []string{l.Name, l.Description, strconv.FormatInt(l.ID, 10)}
}

// LessonRequest is the JSON "request" part of lesson create/update.
type LessonRequest struct {
	CourseID        int64  `json:"courseId"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Order           int    `json:"order"`
	MinAge          int    `json:"minAge"`
	MaxAge          int    `json:"maxAge"`
	DifficultyLevel int    `json:"difficultyLevel"`
	Duration        int    `json:"duration"`
	IsPremium       bool   `json:"isPremium"`
	IsActive        bool   `json:"isActive"`
}

// VideoQuestion is the single quiz question attached to a video.
type VideoQuestion struct {
	Question string `json:"question"`
	OptionA  string `json:"optionA"`
	OptionB  string `json:"optionB"`
	OptionC  string `json:"optionC"`
	OptionD  string `json:"optionD"`
	Answer   string `json:"answer"`
}

// Video belongs to one lesson.
type Video struct {
	ID            int64          `json:"id"`
	LessonID      int64          `json:"lessonId"`
	Title         string         `json:"title"`
	VideoURL      string         `json:"videoUrl"`
	ThumbnailURL  string         `json:"thumbnailUrl"`
	Duration      int            `json:"duration"`
	Order         int            `json:"order"`
	IsActive      bool           `json:"isActive"`
	VideoQuestion *VideoQuestion `json:"videoQuestion,omitempty"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}

// VideoRequest is the JSON "request" part of video create/update.
type VideoRequest struct {
	LessonID      int64         `json:"lessonId"`
	Title         string        `json:"title"`
	Duration      int           `json:"duration"`
	Order         int           `json:"order"`
	IsActive      bool          `json:"isActive"`
	VideoQuestion VideoQuestion `json:"videoQuestion"`
}
