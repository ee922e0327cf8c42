package authz

const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

func Valid(role string) bool {
	return role == RoleEditor || role == RoleViewer
}

func IsReadOnly(role string) bool {
	return role == RoleViewer
}
