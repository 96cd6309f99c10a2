// Package apis is the catalog of capability identifiers. Every privileged
// route declares exactly one of these constants; permissions store subsets of
// the catalog. The catalog is compile-time known, so the guard never reads
// capability requirements from data.
package apis

const (
	AddUser    = "ADD_USER"
	ViewUser   = "VIEW_USER"
	EditUser   = "EDIT_USER"
	DeleteUser = "DELETE_USER"

	AddRole    = "ADD_ROLE"
	ViewRole   = "VIEW_ROLE"
	EditRole   = "EDIT_ROLE"
	DeleteRole = "DELETE_ROLE"

	AddPermission    = "ADD_PERMISSION"
	ViewPermission   = "VIEW_PERMISSION"
	EditPermission   = "EDIT_PERMISSION"
	DeletePermission = "DELETE_PERMISSION"

	ViewFile   = "VIEW_FILE"
	DeleteFile = "DELETE_FILE"

	AddFaq    = "ADD_FAQ"
	ViewFaq   = "VIEW_FAQ"
	EditFaq   = "EDIT_FAQ"
	DeleteFaq = "DELETE_FAQ"

	AddTopic    = "ADD_TOPIC"
	ViewTopic   = "VIEW_TOPIC"
	EditTopic   = "EDIT_TOPIC"
	DeleteTopic = "DELETE_TOPIC"

	AddTemplate    = "ADD_TEMPLATE"
	ViewTemplate   = "VIEW_TEMPLATE"
	EditTemplate   = "EDIT_TEMPLATE"
	DeleteTemplate = "DELETE_TEMPLATE"

	SendNotice = "SEND_NOTICE"
)

// All lists every capability in the catalog. Permission writes filter their
// capability lists against this set.
var All = []string{
	AddUser, ViewUser, EditUser, DeleteUser,
	AddRole, ViewRole, EditRole, DeleteRole,
	AddPermission, ViewPermission, EditPermission, DeletePermission,
	ViewFile, DeleteFile,
	AddFaq, ViewFaq, EditFaq, DeleteFaq,
	AddTopic, ViewTopic, EditTopic, DeleteTopic,
	AddTemplate, ViewTemplate, EditTemplate, DeleteTemplate,
	SendNotice,
}

// Group is the admin-facing catalog listing, one entry per module.
type Group struct {
	Name string   `json:"group"`
	Apis []string `json:"apis"`
}

var Groups = []Group{
	{Name: "User", Apis: []string{AddUser, ViewUser, EditUser, DeleteUser}},
	{Name: "Role", Apis: []string{AddRole, ViewRole, EditRole, DeleteRole}},
	{Name: "Permission", Apis: []string{AddPermission, ViewPermission, EditPermission, DeletePermission}},
	{Name: "File", Apis: []string{ViewFile, DeleteFile}},
	{Name: "Faq", Apis: []string{AddFaq, ViewFaq, EditFaq, DeleteFaq}},
	{Name: "Notification", Apis: []string{AddTopic, ViewTopic, EditTopic, DeleteTopic, AddTemplate, ViewTemplate, EditTemplate, DeleteTemplate, SendNotice}},
}

// IsKnown reports whether api is part of the catalog.
func IsKnown(api string) bool {
	for _, known := range All {
		if known == api {
			return true
		}
	}
	return false
}

// Filter drops identifiers that are not part of the catalog, preserving order.
func Filter(list []string) []string {
	filtered := make([]string, 0, len(list))
	for _, api := range list {
		if IsKnown(api) {
			filtered = append(filtered, api)
		}
	}
	return filtered
}
