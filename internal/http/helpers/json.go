package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/domain/types"
	httperrors "github.com/jeancarlosleonvega/admin-dashboard/internal/http/errors"
)

// MaxBodySize es el límite por defecto de un body JSON.
const MaxBodySize = 1 << 20

type dataEnvelope struct {
	Success bool            `json:"success"`
	Data    any             `json:"data,omitempty"`
	Meta    *types.PageMeta `json:"meta,omitempty"`
}

// ReadJSON decodifica el body (tolerante a campos desconocidos) con tope de
// tamaño. Un body vacío deja v sin tocar. El error ya es un AppError.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any, max int64) error {
	if max <= 0 {
		max = MaxBodySize
	}
	if ct := strings.ToLower(r.Header.Get("Content-Type")); ct != "" && !strings.Contains(ct, "application/json") {
		return httperrors.ErrBadRequest.WithDetail("Content-Type must be application/json")
	}
	r.Body = http.MaxBytesReader(w, r.Body, max)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httperrors.ErrBodyTooLarge
		}
		return httperrors.ErrInvalidJSON
	}
	return nil
}

// WriteJSON escribe una respuesta JSON cruda.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData escribe {"success":true,"data":...}.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, dataEnvelope{Success: true, Data: data})
}

// WritePage escribe un listado con meta de paginación.
func WritePage(w http.ResponseWriter, data any, meta types.PageMeta) {
	WriteJSON(w, http.StatusOK, dataEnvelope{Success: true, Data: data, Meta: &meta})
}

// WriteNoContent escribe 204.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
