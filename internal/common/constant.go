package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// TaskDeletedMessage is returned to the caller after a task is removed.
const TaskDeletedMessage = "Task deleted"
