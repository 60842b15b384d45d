package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cropcare/internal/core/app"
	"cropcare/internal/core/config"
	"cropcare/internal/engine/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(*config.Config), values ...float64) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	a, err := app.New(cfg, app.WithRandomSource(analysis.NewSequenceSource(values...)))
	require.NoError(t, err)
	s, err := NewServer(a, cfg.API)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func predictRequest(t *testing.T, crop, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if crop != "" {
		require.NoError(t, mw.WriteField("crop", crop))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.RemoteAddr = "192.0.2.10:4000"
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestLoadContract(t *testing.T) {
	doc, err := LoadContract()
	require.NoError(t, err)
	require.NotNil(t, doc.Paths.Value("/predict"))
	assert.NotNil(t, doc.Paths.Value("/predict").Post)
	assert.ElementsMatch(t,
		[]string{"GET /", "GET /health", "GET /crops", "GET /centers", "POST /predict"},
		contractRoutes(doc),
	)
}

func TestCheckContractDetectsDrift(t *testing.T) {
	routes := []route{{method: http.MethodGet, path: "/"}}
	err := checkContract([]string{"GET /", "POST /predict"}, routes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POST /predict")
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, nil, 0.5)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"CropCare API is live"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, 0.5)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body app.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, app.StatusUp, body.Status)
	assert.Contains(t, body.Components, "engine")
}

func TestCropsAndCenters(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Centers = []config.Center{{Name: "Valley Agri Center", Region: "North", Phone: "555-0100"}}
	}, 0.5)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/crops", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var crops struct {
		Crops []cropInfo `json:"crops"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &crops))
	require.Len(t, crops.Crops, 6)
	assert.Equal(t, "tomato", crops.Crops[0].ID)
	assert.Equal(t, []string{"Early Blight", "Late Blight"}, crops.Crops[0].Diseases)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/centers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Valley Agri Center")
}

func TestPredict_Diseased(t *testing.T) {
	// diseased, second tomato record, confidence 85 + 0.312*10
	s := newTestServer(t, nil, 0.1, 0.9, 0.312)
	rec := serve(s, predictRequest(t, "tomato", "leaf.png", pngBytes(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Late Blight", p.Disease)
	assert.Equal(t, "88.12%", p.Confidence)
	assert.True(t, strings.HasPrefix(p.Remedy, "Apply systemic fungicides immediately"))
	assert.False(t, p.Result.Healthy)
	assert.Equal(t, "image/png", p.Result.Image.MIME)
	assert.Equal(t, "upload:leaf.png", p.Result.Image.Source)
}

func TestPredict_Healthy(t *testing.T) {
	s := newTestServer(t, nil, 0.8, 0.5)
	rec := serve(s, predictRequest(t, "Rice", "leaf.png", pngBytes(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, healthyLabel, p.Disease)
	assert.Equal(t, "95.50%", p.Confidence)
	assert.Equal(t, healthyRemedy, p.Remedy)
}

func TestPredict_RejectsBadInput(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.API.Burst = 100
		cfg.API.MaxUploadBytes = 1024
	}, 0.5)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{name: "missing crop", req: predictRequest(t, "", "leaf.png", pngBytes(t)), status: http.StatusBadRequest},
		{name: "unknown crop", req: predictRequest(t, "banana", "leaf.png", pngBytes(t)), status: http.StatusBadRequest},
		{name: "missing file", req: predictRequest(t, "tomato", "", nil), status: http.StatusBadRequest},
		{name: "not an image", req: predictRequest(t, "tomato", "notes.txt", []byte("just some text")), status: http.StatusUnsupportedMediaType},
		{name: "too large", req: predictRequest(t, "tomato", "big.png", bytes.Repeat([]byte{0x89}, 2048)), status: http.StatusRequestEntityTooLarge},
		{name: "name not accepted", req: predictRequest(t, "tomato", "leaf.txt", pngBytes(t)), status: http.StatusUnsupportedMediaType},
		{name: "empty file", req: predictRequest(t, "tomato", "leaf.png", []byte{}), status: http.StatusBadRequest},
		{name: "not multipart", req: httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader("{}")), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Code)
		})
	}
}

func TestPredict_ImageLimitBelowUploadLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.API.Burst = 100
		cfg.API.MaxUploadBytes = 4096
		cfg.Image.MaxBytes = 64
	}, 0.5)

	big := append(pngBytes(t), make([]byte, 256)...)
	rec := serve(s, predictRequest(t, "tomato", "leaf.png", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Error, "image exceeds 64 bytes")
}

func TestPredict_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil, 0.5)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/predict", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.API.RateLimit = 0.01
		cfg.API.Burst = 2
	}, 0.5)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/crops", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		require.Equal(t, http.StatusOK, serve(s, req).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/crops", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	rec := serve(s, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/crops", nil)
	other.RemoteAddr = "198.51.100.8:1234"
	assert.Equal(t, http.StatusOK, serve(s, other).Code)

	health := httptest.NewRequest(http.MethodGet, "/health", nil)
	health.RemoteAddr = "198.51.100.7:1234"
	assert.Equal(t, http.StatusOK, serve(s, health).Code, "health is not rate limited")
}

func TestOpenAPIAndMetricsEndpoints(t *testing.T) {
	s := newTestServer(t, nil, 0.5)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cropcare_")
}
