package auth

import "visacenter_backend/internal/models"

// Resource - объект, к которому запрашивается доступ
type Resource string

// Action - действие над ресурсом
type Action string

const (
	ResourceApplication  Resource = "application"
	ResourceReview       Resource = "review"
	ResourcePost         Resource = "post"
	ResourceUser         Resource = "user"
	ResourceNotification Resource = "notification"

	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionList   Action = "list"
	ActionDecide Action = "decide" // смена статуса заявки
	ActionManage Action = "manage" // админские операции над пользователями
)

// policy - явная таблица (роль, ресурс) -> действия.
// Правило "свой/чужой" (владелец анкеты) проверяется сервисным слоем,
// здесь только ролевые права.
var policy = map[models.UserRole]map[Resource][]Action{
	models.UserRoleUser: {
		ResourceApplication:  {ActionRead, ActionWrite},
		ResourcePost:         {ActionRead},
		ResourceNotification: {ActionRead},
		ResourceUser:         {ActionRead},
	},
	models.UserRoleAgent: {
		ResourceApplication:  {ActionRead, ActionList},
		ResourceReview:       {ActionRead, ActionList},
		ResourcePost:         {ActionRead},
		ResourceNotification: {ActionRead},
		ResourceUser:         {ActionRead},
	},
	models.UserRoleAdmin: {
		ResourceApplication:  {ActionRead, ActionWrite, ActionList},
		ResourceReview:       {ActionRead, ActionList, ActionDecide},
		ResourcePost:         {ActionRead, ActionWrite, ActionList},
		ResourceNotification: {ActionRead},
		ResourceUser:         {ActionRead, ActionManage},
	},
}

// Allowed - единственная точка принятия ролевых решений: (роль, ресурс,
// действие) -> allow/deny. Проверяется изолированно в тестах.
func Allowed(role models.UserRole, resource Resource, action Action) bool {
	actions, ok := policy[role][resource]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// ValidateRole проверяет валидность роли
func ValidateRole(role models.UserRole) bool {
	switch role {
	case models.UserRoleUser, models.UserRoleAgent, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}
