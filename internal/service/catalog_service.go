package service

import (
	"context"
	"sort"

	"logineko/internal/apiclient"
	"logineko/internal/models"
	"logineko/internal/validation"

	"golang.org/x/sync/errgroup"
)

// CatalogService handles courses, lessons and videos.
type CatalogService struct {
	api *apiclient.Client
}

// NewCatalogService creates a new catalog service
func NewCatalogService(api *apiclient.Client) *CatalogService {
	return &CatalogService{api: api}
}

// ListCourses fetches every course and applies the search query.
func (s *CatalogService) ListCourses(ctx context.Context, query string) View[[]models.Course] {
	v := Load(ctx, "courses", s.api.ListCourses)
	v.Data = Filter(v.Data, query)
	return v
}

// ListLessons fetches the lessons of every course.
func (s *CatalogService) ListLessons(ctx context.Context, query string) View[[]models.Lesson] {
	v := Load(ctx, "lessons", s.api.ListLessons)
	v.Data = Filter(v.Data, query)
	sortLessons(v.Data)
	return v
}

// CourseDetail is a course expanded with its lessons.
type CourseDetail struct {
	Course  View[*models.Course]
	Lessons View[[]models.Lesson]
}

// GetCourse fetches a course and its lessons concurrently.
func (s *CatalogService) GetCourse(ctx context.Context, id int64, query string) *CourseDetail {
	d := &CourseDetail{}
	var g errgroup.Group
	g.Go(func() error {
		d.Course = Load(ctx, "course", func(ctx context.Context) (*models.Course, error) {
			return s.api.GetCourse(ctx, id)
		})
		return nil
	})
	g.Go(func() error {
		d.Lessons = Load(ctx, "lessons", func(ctx context.Context) ([]models.Lesson, error) {
			return s.api.ListLessonsByCourse(ctx, id)
		})
		return nil
	})
	_ = g.Wait()

	d.Lessons.Data = Filter(d.Lessons.Data, query)
	sortLessons(d.Lessons.Data)
	return d
}

// LessonDetail is a lesson expanded with its videos.
type LessonDetail struct {
	Lesson View[*models.Lesson]
	Videos View[[]models.Video]
}

// GetLesson fetches a lesson and its videos concurrently.
func (s *CatalogService) GetLesson(ctx context.Context, id int64) *LessonDetail {
	d := &LessonDetail{}
	var g errgroup.Group
	g.Go(func() error {
		d.Lesson = Load(ctx, "lesson", func(ctx context.Context) (*models.Lesson, error) {
			return s.api.GetLesson(ctx, id)
		})
		return nil
	})
	g.Go(func() error {
		d.Videos = Load(ctx, "videos", func(ctx context.Context) ([]models.Video, error) {
			return s.api.ListVideosByLesson(ctx, id)
		})
		return nil
	})
	_ = g.Wait()

	sort.SliceStable(d.Videos.Data, func(i, j int) bool {
		return d.Videos.Data[i].Order < d.Videos.Data[j].Order
	})
	return d
}

// CreateCourse validates the form and uploads a new course. A
// validation.Errors result means nothing was sent.
func (s *CatalogService) CreateCourse(ctx context.Context, form validation.CourseForm, thumbnail apiclient.File) (*models.Course, error) {
	form.Creating = true
	form.HasThumbnail = thumbnail.Content != nil
	if errs := validation.Validate(form); errs != nil {
		return nil, errs
	}
	return s.api.CreateCourse(ctx, courseRequest(form), thumbnail)
}

// UpdateCourse validates the form and patches the course. thumbnail may be
// empty to keep the current image.
func (s *CatalogService) UpdateCourse(ctx context.Context, id int64, form validation.CourseForm, thumbnail apiclient.File) (*models.Course, error) {
	form.Creating = false
	form.HasThumbnail = thumbnail.Content != nil
	if errs := validation.Validate(form); errs != nil {
		return nil, errs
	}
	return s.api.UpdateCourse(ctx, id, courseRequest(form), thumbnail)
}

func (s *CatalogService) CreateLesson(ctx context.Context, form validation.LessonForm, thumbnail apiclient.File) (*models.Lesson, error) {
	form.Creating = true
	form.HasThumbnail = thumbnail.Content != nil
	if errs := validation.Validate(form); errs != nil {
		return nil, errs
	}
	return s.api.CreateLesson(ctx, lessonRequest(form), thumbnail)
}

func (s *CatalogService) UpdateLesson(ctx context.Context, id int64, form validation.LessonForm, thumbnail apiclient.File) (*models.Lesson, error) {
	form.Creating = false
	form.HasThumbnail = thumbnail.Content != nil
	if errs := validation.Validate(form); errs != nil {
		return nil, errs
	}
	return s.api.UpdateLesson(ctx, id, lessonRequest(form), thumbnail)
}

func (s *CatalogService) CreateVideo(ctx context.Context, form validation.VideoForm, video, thumbnail apiclient.File) (*models.Video, error) {
	form.Creating = true
	form.HasVideo = video.Content != nil
	form.HasThumbnail = thumbnail.Content != nil
	if errs := validation.Validate(form); errs != nil {
		return nil, errs
	}
	return s.api.CreateVideo(ctx, videoRequest(form), video, thumbnail)
}

func (s *CatalogService) UpdateVideo(ctx context.Context, id int64, form validation.VideoForm, video, thumbnail apiclient.File) (*models.Video, error) {
	form.Creating = false
	form.HasVideo = video.Content != nil
	form.HasThumbnail = thumbnail.Content != nil
	if errs := validation.Validate(form); errs != nil {
		return nil, errs
	}
	return s.api.UpdateVideo(ctx, id, videoRequest(form), video, thumbnail)
}

func courseRequest(f validation.CourseForm) models.CourseRequest {
	return models.CourseRequest{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		IsPremium:   f.IsPremium,
		IsActive:    f.IsActive,
	}
}

func lessonRequest(f validation.LessonForm) models.LessonRequest {
	return models.LessonRequest{
		CourseID:        f.CourseID,
		Name:            f.Name,
		Description:     f.Description,
		Order:           f.Order,
		MinAge:          f.MinAge,
		MaxAge:          f.MaxAge,
		DifficultyLevel: f.DifficultyLevel,
		Duration:        f.Duration,
		IsPremium:       f.IsPremium,
		IsActive:        f.IsActive,
	}
}

func videoRequest(f validation.VideoForm) models.VideoRequest {
	return models.VideoRequest{
		LessonID: f.LessonID,
		Title:    f.Title,
		Duration: f.Duration,
		Order:    f.Order,
		IsActive: f.IsActive,
		VideoQuestion: models.VideoQuestion{
			Question: f.Question,
			OptionA:  f.OptionA,
			OptionB:  f.OptionB,
			OptionC:  f.OptionC,
			OptionD:  f.OptionD,
			Answer:   f.Answer,
		},
	}
}

func sortLessons(lessons []models.Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		if lessons[i].CourseID != lessons[j].CourseID {
			return lessons[i].CourseID < lessons[j].CourseID
		}
		return lessons[i].Order < lessons[j].Order
	})
}
