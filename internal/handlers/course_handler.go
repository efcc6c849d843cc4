package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"logineko/internal/apiclient"
	"logineko/internal/models"
	"logineko/internal/security"
	"logineko/internal/service"
	"logineko/internal/validation"

	"github.com/gorilla/sessions"
)

// CourseHandler manages courses, their lessons and the lessons' videos.
type CourseHandler struct {
	pages
	catalogService *service.CatalogService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(catalogService *service.CatalogService, templates *template.Template, cookies sessions.Store, csrf *security.FormTokens) *CourseHandler {
	return &CourseHandler{
		pages:          newPages(templates, cookies, csrf),
		catalogService: catalogService,
	}
}

func coursePath(id int64) string {
	return fmt.Sprintf("/courses/%d", id)
}

func lessonPath(courseID, lessonID int64) string {
	return fmt.Sprintf("/courses/%d/lessons/%d", courseID, lessonID)
}

// ListCourses handles GET /courses
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	h.renderCourses(w, r, http.StatusOK, validation.CourseForm{IsActive: true}, nil)
}

func (h *CourseHandler) renderCourses(w http.ResponseWriter, r *http.Request, status int, form validation.CourseForm, errs validation.Errors) {
	query, number, size := pageQuery(r)
	view := h.catalogService.ListCourses(r.Context(), query)
	h.flashLoadFailures(w, r, view.Message)
	page := service.Paginate(view.Data, number, size)

	layout := h.layout(w, r, "Courses", "courses")
	data := CoursesViewData{
		Layout: layout,
		Query:  query,
		View:   view,
		Page:   page,
		Pager:  newPager(r, page),
		Create: FormView[validation.CourseForm]{
			ID: "course-create", Title: "New course", Action: "/courses", Submit: "Create",
			CSRFToken: layout.CSRFToken, Form: form, Errors: errs, Open: errs != nil, Creating: true,
		},
	}
	h.render(w, status, "courses.tmpl", data)
}

// CreateCourse handles POST /courses
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	form := courseFormFromRequest(r)
	thumb, closeThumb, err := formFile(r, "thumbnail")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Failed to read thumbnail", err)
		return
	}
	defer closeThumb()

	_, err = h.catalogService.CreateCourse(r.Context(), form, thumb)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.renderCourses(w, r, http.StatusUnprocessableEntity, form, verrs)
	case err != nil:
		h.writeFailed(w, r, "create course", err, "/courses")
	default:
		h.flash(w, r, flashSuccess, fmt.Sprintf("Course %q created.", form.Name))
		http.Redirect(w, r, "/courses", http.StatusSeeOther)
	}
}

// ShowCourse handles GET /courses/{id}: the course expanded with its lessons.
func (h *CourseHandler) ShowCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.renderCourse(w, r, http.StatusOK, id, nil, nil, nil, nil)
}

func (h *CourseHandler) renderCourse(w http.ResponseWriter, r *http.Request, status int, id int64,
	edit *validation.CourseForm, editErrs validation.Errors,
	lesson *validation.LessonForm, lessonErrs validation.Errors) {

	query := r.URL.Query().Get("q")
	d := h.catalogService.GetCourse(r.Context(), id, query)
	h.flashLoadFailures(w, r, d.Course.Message, d.Lessons.Message)

	editForm := validation.CourseForm{}
	if c := d.Course.Data; c != nil {
		editForm = validation.CourseForm{
			Name: c.Name, Description: c.Description, Price: c.Price,
			IsPremium: c.IsPremium, IsActive: c.IsActive,
		}
	}
	if edit != nil {
		editForm = *edit
	}

	lessonForm := validation.LessonForm{
		CourseID: id, Order: len(d.Lessons.Data) + 1,
		MinAge: 3, MaxAge: 6, DifficultyLevel: 1, Duration: 10, IsActive: true,
	}
	if lesson != nil {
		lessonForm = *lesson
	}

	layout := h.layout(w, r, "Course", "courses")
	if c := d.Course.Data; c != nil {
		layout.Title = c.Name + " - Logineko Admin"
	}
	data := CourseViewData{
		Layout:   layout,
		CourseID: id,
		Query:    query,
		Course:   d.Course,
		Lessons:  d.Lessons,
		Edit: FormView[validation.CourseForm]{
			ID: "course-edit", Title: "Edit course", Action: coursePath(id), Submit: "Save",
			CSRFToken: layout.CSRFToken, Form: editForm, Errors: editErrs, Open: editErrs != nil,
		},
		NewLesson: FormView[validation.LessonForm]{
			ID: "lesson-create", Title: "New lesson", Action: coursePath(id) + "/lessons", Submit: "Create",
			CSRFToken: layout.CSRFToken, Form: lessonForm, Errors: lessonErrs, Open: lessonErrs != nil, Creating: true,
		},
	}
	h.render(w, status, "course.tmpl", data)
}

// UpdateCourse handles POST /courses/{id}
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	form := courseFormFromRequest(r)
	thumb, closeThumb, err := formFile(r, "thumbnail")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Failed to read thumbnail", err)
		return
	}
	defer closeThumb()

	_, err = h.catalogService.UpdateCourse(r.Context(), id, form, thumb)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.renderCourse(w, r, http.StatusUnprocessableEntity, id, &form, verrs, nil, nil)
	case err != nil:
		h.writeFailed(w, r, "update course", err, coursePath(id))
	default:
		h.flash(w, r, flashSuccess, "Course updated.")
		http.Redirect(w, r, coursePath(id), http.StatusSeeOther)
	}
}

// CreateLesson handles POST /courses/{id}/lessons
func (h *CourseHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	form := lessonFormFromRequest(r)
	form.CourseID = courseID
	thumb, closeThumb, err := formFile(r, "thumbnail")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Failed to read thumbnail", err)
		return
	}
	defer closeThumb()

	_, err = h.catalogService.CreateLesson(r.Context(), form, thumb)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.renderCourse(w, r, http.StatusUnprocessableEntity, courseID, nil, nil, &form, verrs)
	case err != nil:
		h.writeFailed(w, r, "create lesson", err, coursePath(courseID))
	default:
		h.flash(w, r, flashSuccess, fmt.Sprintf("Lesson %q created.", form.Name))
		http.Redirect(w, r, coursePath(courseID), http.StatusSeeOther)
	}
}

// ListLessons handles GET /lessons: lessons of every course.
func (h *CourseHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	query, number, size := pageQuery(r)
	view := h.catalogService.ListLessons(r.Context(), query)
	h.flashLoadFailures(w, r, view.Message)
	page := service.Paginate(view.Data, number, size)

	data := LessonsViewData{
		Layout: h.layout(w, r, "Lessons", "lessons"),
		Query:  query,
		View:   view,
		Page:   page,
		Pager:  newPager(r, page),
	}
	h.render(w, http.StatusOK, "lessons.tmpl", data)
}

// ShowLesson handles GET /courses/{courseId}/lessons/{id}: the lesson
// expanded with its videos.
func (h *CourseHandler) ShowLesson(w http.ResponseWriter, r *http.Request) {
	courseID, ok1 := pathID(r, "courseId")
	lessonID, ok2 := pathID(r, "id")
	if !ok1 || !ok2 {
		http.NotFound(w, r)
		return
	}
	h.renderLesson(w, r, http.StatusOK, courseID, lessonID, lessonRender{})
}

// lessonRender carries a rejected form back onto the lesson page.
type lessonRender struct {
	edit      *validation.LessonForm
	editErrs  validation.Errors
	video     *validation.VideoForm
	videoErrs validation.Errors
	videoID   int64 // non-zero when video is an edit of that video
}

func (h *CourseHandler) renderLesson(w http.ResponseWriter, r *http.Request, status int, courseID, lessonID int64, rr lessonRender) {
	d := h.catalogService.GetLesson(r.Context(), lessonID)
	h.flashLoadFailures(w, r, d.Lesson.Message, d.Videos.Message)

	editForm := validation.LessonForm{CourseID: courseID}
	if l := d.Lesson.Data; l != nil {
		editForm = lessonFormFromModel(courseID, *l)
	}
	if rr.edit != nil {
		editForm = *rr.edit
	}

	newVideo := validation.VideoForm{LessonID: lessonID, Order: len(d.Videos.Data) + 1, IsActive: true}
	var newVideoErrs validation.Errors
	if rr.video != nil && rr.videoID == 0 {
		newVideo, newVideoErrs = *rr.video, rr.videoErrs
	}

	layout := h.layout(w, r, "Lesson", "courses")
	if l := d.Lesson.Data; l != nil {
		layout.Title = l.Name + " - Logineko Admin"
	}

	cards := make([]VideoCard, 0, len(d.Videos.Data))
	for _, v := range d.Videos.Data {
		form := videoFormFromModel(lessonID, v)
		var errs validation.Errors
		if rr.video != nil && rr.videoID == v.ID {
			form, errs = *rr.video, rr.videoErrs
		}
		cards = append(cards, VideoCard{
			Video: v,
			Edit: FormView[validation.VideoForm]{
				ID: fmt.Sprintf("video-edit-%d", v.ID), Title: "Edit video",
				Action: fmt.Sprintf("%s/videos/%d", lessonPath(courseID, lessonID), v.ID), Submit: "Save",
				CSRFToken: layout.CSRFToken, Form: form, Errors: errs, Open: errs != nil,
			},
		})
	}

	data := LessonViewData{
		Layout:   layout,
		CourseID: courseID,
		LessonID: lessonID,
		Lesson:   d.Lesson,
		Videos:   d.Videos,
		Cards:    cards,
		Edit: FormView[validation.LessonForm]{
			ID: "lesson-edit", Title: "Edit lesson", Action: lessonPath(courseID, lessonID), Submit: "Save",
			CSRFToken: layout.CSRFToken, Form: editForm, Errors: rr.editErrs, Open: rr.editErrs != nil,
		},
		NewVideo: FormView[validation.VideoForm]{
			ID: "video-create", Title: "New video", Action: lessonPath(courseID, lessonID) + "/videos", Submit: "Create",
			CSRFToken: layout.CSRFToken, Form: newVideo, Errors: newVideoErrs, Open: newVideoErrs != nil, Creating: true,
		},
	}
	h.render(w, status, "lesson.tmpl", data)
}

// UpdateLesson handles POST /courses/{courseId}/lessons/{id}. On success
// the browser goes back to the course so its lesson list is re-fetched.
func (h *CourseHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	courseID, ok1 := pathID(r, "courseId")
	lessonID, ok2 := pathID(r, "id")
	if !ok1 || !ok2 {
		http.NotFound(w, r)
		return
	}

	form := lessonFormFromRequest(r)
	if form.CourseID == 0 {
		form.CourseID = courseID
	}
	thumb, closeThumb, err := formFile(r, "thumbnail")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Failed to read thumbnail", err)
		return
	}
	defer closeThumb()

	_, err = h.catalogService.UpdateLesson(r.Context(), lessonID, form, thumb)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.renderLesson(w, r, http.StatusUnprocessableEntity, courseID, lessonID, lessonRender{edit: &form, editErrs: verrs})
	case err != nil:
		h.writeFailed(w, r, "update lesson", err, lessonPath(courseID, lessonID))
	default:
		h.flash(w, r, flashSuccess, "Lesson updated.")
		http.Redirect(w, r, coursePath(form.CourseID), http.StatusSeeOther)
	}
}

// CreateVideo handles POST /courses/{courseId}/lessons/{id}/videos
func (h *CourseHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	courseID, ok1 := pathID(r, "courseId")
	lessonID, ok2 := pathID(r, "id")
	if !ok1 || !ok2 {
		http.NotFound(w, r)
		return
	}

	form := videoFormFromRequest(r)
	form.LessonID = lessonID
	video, thumb, closeFiles, err := videoFiles(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Failed to read video upload", err)
		return
	}
	defer closeFiles()

	_, err = h.catalogService.CreateVideo(r.Context(), form, video, thumb)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.renderLesson(w, r, http.StatusUnprocessableEntity, courseID, lessonID, lessonRender{video: &form, videoErrs: verrs})
	case err != nil:
		h.writeFailed(w, r, "create video", err, lessonPath(courseID, lessonID))
	default:
		h.flash(w, r, flashSuccess, fmt.Sprintf("Video %q created.", form.Title))
		http.Redirect(w, r, lessonPath(courseID, lessonID), http.StatusSeeOther)
	}
}

// UpdateVideo handles POST /courses/{courseId}/lessons/{lessonId}/videos/{id}
func (h *CourseHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	courseID, ok1 := pathID(r, "courseId")
	lessonID, ok2 := pathID(r, "lessonId")
	videoID, ok3 := pathID(r, "id")
	if !ok1 || !ok2 || !ok3 {
		http.NotFound(w, r)
		return
	}

	form := videoFormFromRequest(r)
	form.LessonID = lessonID
	video, thumb, closeFiles, err := videoFiles(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Failed to read video upload", err)
		return
	}
	defer closeFiles()

	_, err = h.catalogService.UpdateVideo(r.Context(), videoID, form, video, thumb)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		h.renderLesson(w, r, http.StatusUnprocessableEntity, courseID, lessonID, lessonRender{video: &form, videoErrs: verrs, videoID: videoID})
	case err != nil:
		h.writeFailed(w, r, "update video", err, lessonPath(courseID, lessonID))
	default:
		h.flash(w, r, flashSuccess, "Video updated.")
		http.Redirect(w, r, lessonPath(courseID, lessonID), http.StatusSeeOther)
	}
}

func videoFiles(r *http.Request) (video, thumb apiclient.File, closeAll func(), err error) {
	video, closeVideo, err := formFile(r, "video")
	if err != nil {
		return video, thumb, func() {}, err
	}
	thumb, closeThumb, err := formFile(r, "thumbnail")
	if err != nil {
		closeVideo()
		return video, thumb, func() {}, err
	}
	return video, thumb, func() { closeVideo(); closeThumb() }, nil
}

func courseFormFromRequest(r *http.Request) validation.CourseForm {
	return validation.CourseForm{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
		Price:       formFloat(r, "price"),
		IsPremium:   formBool(r, "isPremium"),
		IsActive:    formBool(r, "isActive"),
	}
}

func lessonFormFromRequest(r *http.Request) validation.LessonForm {
	return validation.LessonForm{
		CourseID:        formInt64(r, "courseId"),
		Name:            formString(r, "name"),
		Description:     formString(r, "description"),
		Order:           formInt(r, "order"),
		MinAge:          formInt(r, "minAge"),
		MaxAge:          formInt(r, "maxAge"),
		DifficultyLevel: formInt(r, "difficultyLevel"),
		Duration:        formInt(r, "duration"),
		IsPremium:       formBool(r, "isPremium"),
		IsActive:        formBool(r, "isActive"),
	}
}

func lessonFormFromModel(courseID int64, l models.Lesson) validation.LessonForm {
	if l.CourseID != 0 {
		courseID = l.CourseID
	}
	return validation.LessonForm{
		CourseID: courseID, Name: l.Name, Description: l.Description, Order: l.Order,
		MinAge: l.MinAge, MaxAge: l.MaxAge, DifficultyLevel: l.DifficultyLevel, Duration: l.Duration,
		IsPremium: l.IsPremium, IsActive: l.IsActive,
	}
}

func videoFormFromRequest(r *http.Request) validation.VideoForm {
	return validation.VideoForm{
		Title:    formString(r, "title"),
		Order:    formInt(r, "order"),
		Duration: formInt(r, "duration"),
		IsActive: formBool(r, "isActive"),
		Question: formString(r, "question"),
		OptionA:  formString(r, "optionA"),
		OptionB:  formString(r, "optionB"),
		OptionC:  formString(r, "optionC"),
		OptionD:  formString(r, "optionD"),
		Answer:   formString(r, "answer"),
	}
}

func videoFormFromModel(lessonID int64, v models.Video) validation.VideoForm {
	f := validation.VideoForm{
		LessonID: lessonID, Title: v.Title, Order: v.Order, Duration: v.Duration, IsActive: v.IsActive,
	}
	if q := v.VideoQuestion; q != nil {
		f.Question, f.Answer = q.Question, q.Answer
		f.OptionA, f.OptionB, f.OptionC, f.OptionD = q.OptionA, q.OptionB, q.OptionC, q.OptionD
	}
	return f
}
