package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*services.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch services.ProfilePatch) (*services.ProfileUpdate, error)
}

type TaskService interface {
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Add(ctx context.Context, userID string, in services.NewTask) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, patch services.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

// TokenVerifier resolves a bearer token to the id of the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Handler struct {
	users    UserService
	tasks    TaskService
	verifier TokenVerifier
	logger   logging.Logger
}

// NewRouter builds the API routes:
//
//	GET    /ping
//	POST   /api/users/register
//	POST   /api/users/login
//	GET    /api/users/profile     (auth)
//	PUT    /api/users/profile     (auth)
//	GET    /api/tasks             (auth)
//	POST   /api/tasks             (auth)
//	PUT    /api/tasks/{id}        (auth)
//	DELETE /api/tasks/{id}        (auth)
func NewRouter(us UserService, ts TaskService, v TokenVerifier, l logging.Logger) http.Handler {
	h := &Handler{users: us, tasks: ts, verifier: v, logger: l.With("module", "http_api")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/ping", h.ping)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", h.register)
		r.Post("/users/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			r.Get("/users/profile", h.getProfile)
			r.Put("/users/profile", h.updateProfile)

			r.Get("/tasks", h.listTasks)
			r.Post("/tasks", h.addTask)
			r.Put("/tasks/{id}", h.updateTask)
			r.Delete("/tasks/{id}", h.deleteTask)
		})
	})

	return r
}
