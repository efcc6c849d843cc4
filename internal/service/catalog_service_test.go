package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"logineko/internal/apiclient"
	"logineko/internal/apiclient/apitest"
	"logineko/internal/models"
	"logineko/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thumb() apiclient.File {
	return apiclient.File{Filename: "t.png", ContentType: "image/png", Content: strings.NewReader("PNG")}
}

func TestCreateCourseWithoutThumbnailSendsNothing(t *testing.T) {
	srv := apitest.NewServer(t)
	svc := NewCatalogService(apiclient.New(srv.URL))

	_, err := svc.CreateCourse(context.Background(), validation.CourseForm{Name: "Shapes", Description: "d"}, apiclient.File{})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.NotEmpty(t, verrs.Get("thumbnail"))
	assert.Empty(t, srv.Requests())
}

func TestUpdateCourseWithoutThumbnailIsAllowed(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply("PATCH /courses/{id}", models.Course{ID: 42, Name: "Shapes"})
	svc := NewCatalogService(apiclient.New(srv.URL))

	_, err := svc.UpdateCourse(context.Background(), 42, validation.CourseForm{Name: "Shapes", Description: "d"}, apiclient.File{})
	require.NoError(t, err)

	form, err := srv.RequestsTo(http.MethodPatch, "/courses/42")[0].Form()
	require.NoError(t, err)
	assert.Empty(t, form.File["thumbnail"])
}

func TestVideoWithBadAnswerSendsNothing(t *testing.T) {
	srv := apitest.NewServer(t)
	svc := NewCatalogService(apiclient.New(srv.URL))

	form := validation.VideoForm{
		LessonID: 7, Title: "Intro", Order: 1, Duration: 30,
		Question: "2+2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "6", Answer: "E",
	}
	video := apiclient.File{Filename: "v.mp4", Content: strings.NewReader("MP4")}
	_, err := svc.CreateVideo(context.Background(), form, video, thumb())

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.NotEmpty(t, verrs.Get("answer"))
	assert.Empty(t, srv.Requests())
}

func TestCreateVideoSendsQuestion(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply("POST /videos", models.Video{ID: 1})
	svc := NewCatalogService(apiclient.New(srv.URL))

	form := validation.VideoForm{
		LessonID: 7, Title: "Intro", Order: 1, Duration: 30,
		Question: "2+2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "6", Answer: "B",
	}
	video := apiclient.File{Filename: "v.mp4", Content: strings.NewReader("MP4")}
	_, err := svc.CreateVideo(context.Background(), form, video, thumb())
	require.NoError(t, err)

	var sent models.VideoRequest
	require.NoError(t, srv.RequestsTo(http.MethodPost, "/videos")[0].DecodePart("request", &sent))
	assert.Equal(t, int64(7), sent.LessonID)
	assert.Equal(t, "B", sent.VideoQuestion.Answer)
}

// lessonBackend stores created lessons so a later list sees them.
func lessonBackend(t *testing.T) *apitest.Server {
	t.Helper()
	var (
		mu      sync.Mutex
		lessons []models.Lesson
	)
	srv := apitest.NewServer(t)
	srv.Reply("GET /courses/{id}", models.Course{ID: 42, Name: "Counting"})
	srv.Handle("POST /lessons", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("request")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		var req models.LessonRequest
		if err := decodeJSON(f, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		l := models.Lesson{ID: int64(len(lessons) + 1), CourseID: req.CourseID, Name: req.Name, Order: req.Order}
		lessons = append(lessons, l)
		mu.Unlock()
		apitest.WriteData(w, r, l)
	})
	srv.Handle("GET /lessons/courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		out := []models.Lesson{}
		for _, l := range lessons {
			if r.PathValue("id") == "42" && l.CourseID == 42 {
				out = append(out, l)
			}
		}
		apitest.WriteData(w, r, out)
	})
	return srv
}

func TestCreateLessonThenCourseListsIt(t *testing.T) {
	srv := lessonBackend(t)
	svc := NewCatalogService(apiclient.New(srv.URL))
	ctx := context.Background()

	form := validation.LessonForm{
		CourseID: 42, Name: "Lesson 1", Order: 1, MinAge: 3, MaxAge: 6, DifficultyLevel: 1, Duration: 10,
	}
	_, err := svc.CreateLesson(ctx, form, thumb())
	require.NoError(t, err)

	detail := svc.GetCourse(ctx, 42, "")
	require.True(t, detail.Course.OK())
	require.True(t, detail.Lessons.OK())
	require.Len(t, detail.Lessons.Data, 1)
	assert.Equal(t, "Lesson 1", detail.Lessons.Data[0].Name)
}

func TestListCoursesFilters(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply("GET /courses", []models.Course{
		{ID: 1, Name: "Counting", Description: "Numbers"},
		{ID: 2, Name: "Colours", Description: "Red and blue"},
	})
	svc := NewCatalogService(apiclient.New(srv.URL))

	v := svc.ListCourses(context.Background(), "blue")
	require.True(t, v.OK())
	require.Len(t, v.Data, 1)
	assert.Equal(t, int64(2), v.Data[0].ID)
}

func TestGetLessonOrdersVideos(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply("GET /lessons/{id}", models.Lesson{ID: 7, Name: "Shapes"})
	srv.Reply("GET /videos", []models.Video{{ID: 2, Order: 2}, {ID: 1, Order: 1}})
	svc := NewCatalogService(apiclient.New(srv.URL))

	d := svc.GetLesson(context.Background(), 7)
	require.True(t, d.Videos.OK())
	assert.Equal(t, int64(1), d.Videos.Data[0].ID)
	assert.Equal(t, "lessonId=7", srv.RequestsTo(http.MethodGet, "/videos")[0].RawQuery)
}
