package media_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftfinder/internal/database/testdb"
	"giftfinder/internal/domain/media"
	"giftfinder/internal/pkg/jwt"
	"giftfinder/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testEnv struct {
	router *gin.Engine
	store  *storage.Memory
	owner  string
	other  string
	admin  string
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	store := storage.NewMemory("/static/media")
	jwtService := jwt.New("media-test-secret", time.Hour)

	svc := media.NewService(media.NewRepository(db), store, zerolog.Nop(), 1<<20)
	r := gin.New()
	media.RegisterRoutes(r.Group("/api"), media.NewHandler(svc), jwtService)

	token := func(id int64, role string) string {
		tok, err := jwtService.GenerateToken(id, role)
		require.NoError(t, err)
		return tok
	}
	return &testEnv{
		router: r,
		store:  store,
		owner:  token(2, "user"),
		other:  token(3, "user"),
		admin:  token(1, "admin"),
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (e *testEnv) upload(t *testing.T, token, filename string, data []byte, fields map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(req)
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	var env envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func decodeMedia(t *testing.T, env envelope) media.MediaResponse {
	t.Helper()
	var m media.MediaResponse
	require.NoError(t, json.Unmarshal(env.Data, &m))
	return m
}

func TestUpload_Image(t *testing.T) {
	e := setup(t)

	rr, env := e.upload(t, e.owner, "gift wrap.png", pngBytes(t, 700, 350), map[string]string{
		"alt":    "Gift wrapped in red paper",
		"folder": "guides",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	m := decodeMedia(t, env)
	assert.Equal(t, "image/png", m.MimeType)
	assert.Equal(t, "gift wrap.png", m.OriginalName)
	assert.True(t, strings.HasPrefix(m.URL, "/static/media/media/"))
	assert.NotEmpty(t, m.ThumbnailURL)
	require.NotNil(t, m.Width)
	assert.Equal(t, 700, *m.Width)
	assert.Equal(t, 350, *m.Height)
	assert.Len(t, m.Sizes, 2)
	assert.Contains(t, m.Sizes, "320")
	assert.Contains(t, m.Sizes, "640")
	assert.Equal(t, "Gift wrapped in red paper", m.Alt)
	assert.Equal(t, "guides", m.Folder)
	assert.Equal(t, int64(2), m.UploadedBy)

	// original, thumbnail and two sizes
	assert.Len(t, e.store.Keys(), 4)
}

func TestUpload_PDFHasNoVariants(t *testing.T) {
	e := setup(t)

	rr, env := e.upload(t, e.owner, "catalog.pdf", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n"), nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	m := decodeMedia(t, env)
	assert.Equal(t, "application/pdf", m.MimeType)
	assert.Empty(t, m.ThumbnailURL)
	assert.Nil(t, m.Width)
	assert.Len(t, e.store.Keys(), 1)
}

func TestUpload_Rejections(t *testing.T) {
	e := setup(t)

	rr, _ := e.upload(t, "", "a.png", pngBytes(t, 10, 10), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, env := e.upload(t, e.owner, "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "FILE_REQUIRED", env.Error.Code)

	rr, env = e.upload(t, e.owner, "empty.png", []byte{}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "EMPTY_FILE", env.Error.Code)

	rr, env = e.upload(t, e.owner, "notes.png", []byte("just some text pretending to be a png"), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_MIME_TYPE", env.Error.Code)

	rr, env = e.upload(t, e.owner, "huge.pdf", append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 1<<20)...), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "FILE_TOO_LARGE", env.Error.Code)

	rr, env = e.upload(t, e.owner, "a.png", pngBytes(t, 10, 10), map[string]string{"alt": strings.Repeat("a", 201)})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "max", env.Error.Details["alt"])

	assert.Empty(t, e.store.Keys())
}

func TestListMedia_Pagination(t *testing.T) {
	e := setup(t)

	for i := 0; i < 3; i++ {
		rr, _ := e.upload(t, e.owner, "p.png", pngBytes(t, 20, 20), map[string]string{"folder": "products"})
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr, _ := e.upload(t, e.owner, "doc.pdf", []byte("%PDF-1.4\n%%EOF\n"), nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, env := e.doJSON(t, http.MethodGet, "/api/media?limit=2", e.owner, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var page media.PaginatedMediaResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 2)

	_, env = e.doJSON(t, http.MethodGet, "/api/media?folder=products&mimeType=image/", e.owner, nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(3), page.Total)

	_, env = e.doJSON(t, http.MethodGet, "/api/media?mimeType=application/pdf", e.owner, nil)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	// wildcards in the filter are literal characters
	for _, filter := range []string{"%25", "_mage%2F", "image%2F%25"} {
		rr, env = e.doJSON(t, http.MethodGet, "/api/media?mimeType="+filter, e.owner, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(0), page.Total, filter)
	}

	rr, env = e.doJSON(t, http.MethodGet, "/api/media?limit=500", e.owner, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "max", env.Error.Details["limit"])
}

func TestUpdateMedia(t *testing.T) {
	e := setup(t)
	_, env := e.upload(t, e.owner, "p.png", pngBytes(t, 20, 20), nil)
	id := decodeMedia(t, env).ID

	rr, env := e.doJSON(t, http.MethodPatch, "/api/media/"+id, e.owner, map[string]any{"alt": strings.Repeat("a", 201)})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "max", env.Error.Details["alt"])

	rr, env = e.doJSON(t, http.MethodPatch, "/api/media/"+id, e.other, map[string]any{"alt": "mine now"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rr, env = e.doJSON(t, http.MethodPatch, "/api/media/"+id, e.owner, map[string]any{"alt": "Teapot", "caption": "Hand made"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	m := decodeMedia(t, env)
	assert.Equal(t, "Teapot", m.Alt)
	assert.Equal(t, "Hand made", m.Caption)

	rr, env = e.doJSON(t, http.MethodPatch, "/api/media/"+id, e.admin, map[string]any{"folder": "archive"})
	require.Equal(t, http.StatusOK, rr.Code)
	m = decodeMedia(t, env)
	assert.Equal(t, "archive", m.Folder)
	assert.Equal(t, "Teapot", m.Alt)

	rr, env = e.doJSON(t, http.MethodGet, "/api/media/"+id, e.other, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "archive", decodeMedia(t, env).Folder)
}

func TestDeleteMedia(t *testing.T) {
	e := setup(t)
	_, env := e.upload(t, e.owner, "p.png", pngBytes(t, 700, 700), nil)
	id := decodeMedia(t, env).ID
	require.NotEmpty(t, e.store.Keys())

	rr, _ := e.doJSON(t, http.MethodDelete, "/api/media/"+id, e.other, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = e.doJSON(t, http.MethodDelete, "/api/media/"+id, e.owner, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, e.store.Keys())

	rr, env = e.doJSON(t, http.MethodGet, "/api/media/"+id, e.owner, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "MEDIA_NOT_FOUND", env.Error.Code)
}
