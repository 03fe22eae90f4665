package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/dmitrijs2005/gophtasks/internal/server/validation"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) addTask(w http.ResponseWriter, r *http.Request) {
	var req services.AddTaskRequest
	if err := decode(w, r, validation.AddTask, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	in, err := req.NewTask()
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	task, err := h.tasks.Add(r.Context(), userIDFrom(r.Context()), in)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateTaskRequest
	if err := decode(w, r, validation.UpdateTask, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	patch, err := req.Patch()
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeMessage(w, http.StatusOK, common.TaskDeletedMessage)
}
