package dto

type CreateRoleRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	IsActive      bool   `json:"is_active"`
	UserIDs       []uint `json:"user_ids"`
	PermissionIDs []uint `json:"permission_ids"`
}

type UpdateRoleRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	IsActive      bool   `json:"is_active"`
	UserIDs       []uint `json:"user_ids"`
	PermissionIDs []uint `json:"permission_ids"`
}

type ListRoleQuery struct {
	ListQuery
	Name     string `form:"name"`
	IsActive *bool  `form:"is_active"`
}

type CreatePermissionRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	RoleID      uint     `json:"role_id" binding:"required"`
	Apis        []string `json:"apis"`
}

type UpdatePermissionRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	RoleID      uint     `json:"role_id" binding:"required"`
	Apis        []string `json:"apis"`
}

type ListPermissionQuery struct {
	ListQuery
	Name string `form:"name"`
	Role string `form:"role"`
}
