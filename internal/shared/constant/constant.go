package constant

// Casbin authorization objects.
const (
	PermDirectoryCounselors = "directory:counselors"
)

// Casbin authorization actions.
const (
	PermActCreate = "create"
	PermActUpdate = "update"
	PermActDelete = "delete"
)
