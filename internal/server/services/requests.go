package services

// Request bodies shared by the HTTP and gRPC transports. Optional fields are
// pointers so an omitted field can be told apart from a zero value.

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline,omitempty"`
}

// NewTask converts the request, parsing the deadline.
func (r AddTaskRequest) NewTask() (NewTask, error) {
	in := NewTask{Title: r.Title, Description: r.Description}
	if r.Deadline != nil {
		d, err := ParseDeadline(*r.Deadline)
		if err != nil {
			return NewTask{}, err
		}
		in.Deadline = d
	}
	return in, nil
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

// Patch converts the request. A null or empty deadline keeps the stored one.
func (r UpdateTaskRequest) Patch() (TaskPatch, error) {
	p := TaskPatch{Title: r.Title, Description: r.Description, Completed: r.Completed}
	if r.Deadline != nil {
		d, err := ParseDeadline(*r.Deadline)
		if err != nil {
			return TaskPatch{}, err
		}
		p.Deadline = d
	}
	return p, nil
}

// MessageResponse is the body of responses that carry only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskRef identifies a task over gRPC, where there is no URL path.
type TaskRef struct {
	ID string `json:"id"`
}

type UpdateTaskByIDRequest struct {
	ID string `json:"id"`
	UpdateTaskRequest
}
