package enginestub

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/viant/wfconsole/model"
)

// Identity headers read by the stub.
const (
	headerUserID    = "X-User-Id"
	headerUserRoles = "X-User-Roles"
)

type requestIdentity struct {
	UserID string
	Roles  model.Roles
}

func identityOf(r *http.Request) requestIdentity {
	ret := requestIdentity{UserID: strings.TrimSpace(r.Header.Get(headerUserID))}
	if header := r.Header.Get(headerUserRoles); header != "" {
		ret.Roles = model.NewRoles(strings.Split(header, ",")...)
	}
	return ret
}

// New returns an http.Handler serving the engine routes over a fresh engine.
func New() http.Handler {
	return NewHandler(NewEngine())
}

// NewHandler serves engine.
func NewHandler(engine *Engine) http.Handler {
	r := chi.NewRouter()

	r.Post("/api/process/start", func(w http.ResponseWriter, r *http.Request) {
		var request model.StartRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			writeError(w, newError(http.StatusBadRequest, "invalid body: %v", err))
			return
		}
		if strings.TrimSpace(request.Initiator) == "" {
			request.Initiator = identityOf(r).UserID
		}
		response, err := engine.Start(r.Context(), &request)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, response)
	})

	r.Get("/api/process/{processInstanceId}", func(w http.ResponseWriter, r *http.Request) {
		status, err := engine.Status(r.Context(), chi.URLParam(r, "processInstanceId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, status)
	})

	r.Get("/api/tasks", func(w http.ResponseWriter, r *http.Request) {
		caller := identityOf(r)
		userID := strings.TrimSpace(r.URL.Query().Get("userId"))
		if userID == "" {
			userID = caller.UserID
		}
		role := model.ParseRole(r.URL.Query().Get("role"))
		if role == "" && len(caller.Roles) > 0 {
			role = caller.Roles[0]
		}
		tasks, err := engine.FindTasks(r.Context(), role, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, tasks)
	})

	r.Post("/api/tasks/{taskId}/{decision}", func(w http.ResponseWriter, r *http.Request) {
		decision, ok := model.ParseDecision(chi.URLParam(r, "decision"))
		if !ok {
			writeError(w, newError(http.StatusNotFound, "unknown operation %s", chi.URLParam(r, "decision")))
			return
		}
		request := &model.DecisionRequest{}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(request); err != nil {
				writeError(w, newError(http.StatusBadRequest, "invalid body: %v", err))
				return
			}
		}
		userID := strings.TrimSpace(request.UserID)
		if userID == "" {
			userID = identityOf(r).UserID
		}
		response, err := engine.Decide(r.Context(), chi.URLParam(r, "taskId"), decision, userID, request)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, response)
	})
	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("enginestub: failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var stubErr *Error
	if errors.As(err, &stubErr) {
		status = stubErr.Status
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
