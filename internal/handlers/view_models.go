package handlers

import (
	"logineko/internal/models"
	"logineko/internal/service"
	"logineko/internal/validation"
)

// Flash is a one-shot notification.
type Flash struct {
	Kind    string
	Message string
}

// Layout is the data every page's header and navigation need.
type Layout struct {
	Title     string
	Active    string
	Admin     service.AdminIdentity
	CSRFToken string
	Flashes   []Flash
}

// FormView is a create/edit modal.
type FormView[T any] struct {
	ID        string
	Title     string
	Action    string
	Submit    string
	CSRFToken string
	Form      T
	Errors    validation.Errors
	Open      bool
	Creating  bool
}

// Pager drives the pagination component.
type Pager struct {
	Number  int
	Pages   int
	Total   int
	First   int
	Last    int
	PrevURL string
	NextURL string
}

type LoginViewData struct {
	Layout
	Form   validation.LoginForm
	Errors validation.Errors
	Error  string
	Next   string
}

type CardView struct {
	Title string
	Value string
	Icon  string
}

type MonthRow struct {
	Label           string
	Revenue         string
	NewUsers        int
	NewPremiumUsers int
	Growth          string
	GrowthColor     string
	Status          string
	StatusColor     string
}

type DashboardViewData struct {
	Layout
	Year      int
	Years     []int
	Dashboard *service.Dashboard
	Cards     []CardView
	Summary   service.YearSummary
	Months    []MonthRow
}

type UsersViewData struct {
	Layout
	Query        string
	View         service.View[[]models.Account]
	Page         service.Page[models.Account]
	Pager        Pager
	PremiumCount int
	ExportURL    string
}

type CoursesViewData struct {
	Layout
	Query  string
	View   service.View[[]models.Course]
	Page   service.Page[models.Course]
	Pager  Pager
	Create FormView[validation.CourseForm]
}

type CourseViewData struct {
	Layout
	CourseID  int64
	Query     string
	Course    service.View[*models.Course]
	Lessons   service.View[[]models.Lesson]
	Edit      FormView[validation.CourseForm]
	NewLesson FormView[validation.LessonForm]
}

type LessonsViewData struct {
	Layout
	Query string
	View  service.View[[]models.Lesson]
	Page  service.Page[models.Lesson]
	Pager Pager
}

type VideoCard struct {
	Video models.Video
	Edit  FormView[validation.VideoForm]
}

type LessonViewData struct {
	Layout
	CourseID int64
	LessonID int64
	Lesson   service.View[*models.Lesson]
	Videos   service.View[[]models.Video]
	Cards    []VideoCard
	Edit     FormView[validation.LessonForm]
	NewVideo FormView[validation.VideoForm]
}

type PriceCard struct {
	Price models.SubscriptionPrice
	Edit  FormView[validation.PriceForm]
}

type PremiumViewData struct {
	Layout
	Query  string
	View   service.View[[]models.SubscriptionPrice]
	Cards  []PriceCard
	Create FormView[validation.PriceForm]
}
