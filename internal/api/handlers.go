package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	domainerrors "cropcare/internal/core/errors"
	"cropcare/internal/data/catalog"
	"cropcare/internal/data/leafimage"
	"cropcare/internal/engine/analysis"
)

const (
	healthyLabel  = "Healthy Leaf"
	healthyRemedy = "No disease detected. Keep monitoring your crop."
	unknownRemedy = "Consult a local agricultural expert to confirm the diagnosis."
)

type cropInfo struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Diseases []string `json:"diseases"`
}

// Prediction keeps the summary fields older clients read next to the full
// result.
type Prediction struct {
	Disease    string          `json:"disease"`
	Confidence string          `json:"confidence"`
	Remedy     string          `json:"remedy"`
	Result     analysis.Result `json:"result"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func NewPrediction(r analysis.Result) Prediction {
	p := Prediction{
		Confidence: fmt.Sprintf("%.2f%%", r.Confidence),
		Result:     r,
	}
	switch {
	case r.Healthy:
		p.Disease = healthyLabel
		p.Remedy = healthyRemedy
	case len(r.Treatment) == 0:
		p.Disease = r.DiseaseName
		p.Remedy = unknownRemedy
	default:
		p.Disease = r.DiseaseName
		p.Remedy = strings.Join(r.Treatment, "; ")
	}
	return p
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "CropCare API is live"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.health.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleCrops(w http.ResponseWriter, r *http.Request) {
	crops := catalog.AllCrops()
	out := make([]cropInfo, 0, len(crops))
	for _, crop := range crops {
		names := []string{}
		for _, rec := range s.app.Catalog.Diseases(crop) {
			names = append(names, rec.Name)
		}
		out = append(out, cropInfo{ID: string(crop), Label: crop.Label(), Diseases: names})
	}
	writeJSON(w, http.StatusOK, map[string]any{"crops": out})
}

func (s *Server) handleCenters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"centers": s.app.Centers()})
}

func (s *Server) handleContract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.contract)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+64<<10)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, domainerrors.CodeValidationError, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, domainerrors.CodeValidationError, "expected multipart form with a file")
		return
	}
	defer r.MultipartForm.RemoveAll()

	crop, err := catalog.ParseCropType(r.FormValue("crop"))
	if err != nil {
		writeError(w, http.StatusBadRequest, domainerrors.CodePreconditionFailed, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, domainerrors.CodePreconditionFailed, "form field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, domainerrors.CodeValidationError, "could not read upload")
		return
	}
	if int64(len(data)) > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, domainerrors.CodeValidationError, "upload exceeds size limit")
		return
	}

	ref, err := s.app.Images().FromBytes(header.Filename, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := s.app.Engine.Diagnose(r.Context(), crop, ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	slog.Info("prediction served", "crop", crop, "outcome", result.Outcome(), "confidence", result.Confidence)
	writeJSON(w, http.StatusOK, NewPrediction(result))
}

func writeDomainError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domainerrors.CodeValidationError:
		status = validationStatus(err)
	case domainerrors.CodePreconditionFailed:
		status = http.StatusBadRequest
	case domainerrors.CodeNotFound:
		status = http.StatusNotFound
	case domainerrors.CodeRateLimited:
		status = http.StatusTooManyRequests
	}
	if status == http.StatusInternalServerError {
		slog.Error("prediction failed", "error", err)
	}
	writeError(w, status, code, err.Error())
}

// validationStatus maps an image rejection reason to a status code.
func validationStatus(err error) int {
	switch domainerrors.ContextValue(err, domainerrors.CtxReason) {
	case leafimage.ReasonTooLarge:
		return http.StatusRequestEntityTooLarge
	case leafimage.ReasonEmpty:
		return http.StatusBadRequest
	default:
		return http.StatusUnsupportedMediaType
	}
}

func writeError(w http.ResponseWriter, status int, code domainerrors.ErrorCode, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: string(code)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
