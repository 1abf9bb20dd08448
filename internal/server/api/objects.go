// Package api provides the HTTP handlers for scene objects, feedback
// bindings and the gesture event log.
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/store"
)

// ObjectHandler handles HTTP requests for scene object resources. Writes
// go to the store and, when a registry is attached, to the live scene so
// the running selector sees them immediately.
type ObjectHandler struct {
	store    *store.Store
	registry *scene.Registry
}

// NewObjectHandler creates a new ObjectHandler. registry may be nil.
func NewObjectHandler(s *store.Store, registry *scene.Registry) *ObjectHandler {
	return &ObjectHandler{store: s, registry: registry}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ObjectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/objects or /api/objects/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/objects")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type vec3Payload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v vec3Payload) vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func (v vec3Payload) finite() bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func toVec3Payload(v mgl64.Vec3) vec3Payload {
	return vec3Payload{X: v.X(), Y: v.Y(), Z: v.Z()}
}

type createObjectRequest struct {
	Name     string      `json:"name"`
	Position vec3Payload `json:"position"`
	Normal   vec3Payload `json:"normal"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
}

type updateObjectRequest struct {
	Name     string       `json:"name"`
	Position *vec3Payload `json:"position"`
	Normal   *vec3Payload `json:"normal"`
	Width    *float64     `json:"width"`
	Height   *float64     `json:"height"`
}

type objectResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Position vec3Payload `json:"position"`
	Normal   vec3Payload `json:"normal"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
}

type listObjectsResponse struct {
	Objects []objectResponse `json:"objects"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toObjectResponse converts a scene.Object to an objectResponse.
func toObjectResponse(o scene.Object) objectResponse {
	return objectResponse{
		ID:       o.ID,
		Name:     o.Name,
		Position: toVec3Payload(o.Position),
		Normal:   toVec3Payload(o.Normal),
		Width:    o.Width,
		Height:   o.Height,
	}
}

// validateObject rejects geometry the selector cannot work with.
func validateObject(o scene.Object) string {
	for _, c := range []float64{o.Position.X(), o.Position.Y(), o.Position.Z()} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return "Position must be finite"
		}
	}
	if o.Normal.Len() < 1e-9 {
		return "Normal must be non-zero"
	}
	if o.Width <= 0 || o.Height <= 0 {
		return "Width and height must be positive"
	}
	return ""
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/objects and returns all scene objects.
func (h *ObjectHandler) list(w http.ResponseWriter, r *http.Request) {
	objects, err := h.store.Objects().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list objects")
		return
	}

	response := listObjectsResponse{
		Objects: make([]objectResponse, 0, len(objects)),
	}
	for _, o := range objects {
		response.Objects = append(response.Objects, toObjectResponse(o))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/objects/{id} and returns a single object.
func (h *ObjectHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	obj, err := h.store.Objects().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Object not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get object")
		return
	}

	writeJSON(w, http.StatusOK, toObjectResponse(obj))
}

// create handles POST /api/objects and creates a new scene object.
func (h *ObjectHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	obj := scene.Object{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Position: req.Position.vec(),
		Normal:   req.Normal.vec(),
		Width:    req.Width,
		Height:   req.Height,
	}
	if msg := validateObject(obj); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Objects().Create(obj); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create object")
		return
	}
	h.syncAdd(obj)

	writeJSON(w, http.StatusCreated, toObjectResponse(obj))
}

// update handles PUT /api/objects/{id} and updates an existing object.
func (h *ObjectHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	obj, err := h.store.Objects().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Object not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get object")
		return
	}

	var req updateObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		obj.Name = req.Name
	}
	if req.Position != nil {
		if !req.Position.finite() {
			writeError(w, http.StatusBadRequest, "Position must be finite")
			return
		}
		obj.Position = req.Position.vec()
	}
	if req.Normal != nil {
		obj.Normal = req.Normal.vec()
	}
	if req.Width != nil {
		obj.Width = *req.Width
	}
	if req.Height != nil {
		obj.Height = *req.Height
	}
	if msg := validateObject(obj); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Objects().Update(obj); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update object")
		return
	}
	h.syncUpdate(obj)

	writeJSON(w, http.StatusOK, toObjectResponse(obj))
}

// delete handles DELETE /api/objects/{id} and removes an object.
func (h *ObjectHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Objects().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Object not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete object")
		return
	}
	h.syncRemove(id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *ObjectHandler) syncAdd(obj scene.Object) {
	if h.registry != nil {
		h.registry.Add(obj)
	}
}

func (h *ObjectHandler) syncUpdate(obj scene.Object) {
	if h.registry != nil {
		h.registry.Update(obj)
	}
}

func (h *ObjectHandler) syncRemove(id string) {
	if h.registry != nil {
		h.registry.Remove(id)
	}
}
