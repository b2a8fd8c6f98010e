// internal/roster/handler.go
package roster

import (
	"encoding/json"
	"net/http"

	"campushub/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the co-located student/faculty/course collections. These
// carry no business rules: every route is a 1:1 dispatch or snapshot read,
// so there is no service layer in between.
type Handler struct {
	store *state.Store
}

func NewHandler(store *state.Store) *Handler {
	return &Handler{store: store}
}

// Routes mounts the roster endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/students", h.HandleListStudents)
	r.Post("/students", h.HandleAddStudent)
	r.Delete("/students/{id}", h.HandleRemoveStudent)
	r.Get("/faculty", h.HandleListFaculty)
	r.Post("/faculty", h.HandleAddFaculty)
	r.Delete("/faculty/{id}", h.HandleRemoveFaculty)
	r.Get("/courses", h.HandleListCourses)
	r.Post("/courses", h.HandleAddCourse)
	r.Delete("/courses/{id}", h.HandleRemoveCourse)
}

func (h *Handler) HandleListStudents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.State().Students)
}

func (h *Handler) HandleAddStudent(w http.ResponseWriter, r *http.Request) {
	var student state.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	student.ID = uuid.New()

	h.store.Dispatch(r.Context(), state.AddStudent{Student: student})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(student)
}

func (h *Handler) HandleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, func(id uuid.UUID) state.Action { return state.RemoveStudent{ID: id} })
}

func (h *Handler) HandleListFaculty(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.State().Faculty)
}

func (h *Handler) HandleAddFaculty(w http.ResponseWriter, r *http.Request) {
	var faculty state.FacultyMember
	if err := json.NewDecoder(r.Body).Decode(&faculty); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	faculty.ID = uuid.New()

	h.store.Dispatch(r.Context(), state.AddFaculty{Faculty: faculty})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(faculty)
}

func (h *Handler) HandleRemoveFaculty(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, func(id uuid.UUID) state.Action { return state.RemoveFaculty{ID: id} })
}

func (h *Handler) HandleListCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.State().Courses)
}

func (h *Handler) HandleAddCourse(w http.ResponseWriter, r *http.Request) {
	var course state.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	course.ID = uuid.New()

	h.store.Dispatch(r.Context(), state.AddCourse{Course: course})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(course)
}

func (h *Handler) HandleRemoveCourse(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, func(id uuid.UUID) state.Action { return state.RemoveCourse{ID: id} })
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, action func(uuid.UUID) state.Action) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	h.store.Dispatch(r.Context(), action(id))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
