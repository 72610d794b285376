package models

type Task struct {
	ID             int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title          string `json:"title" gorm:"not null"`
	Description    string `json:"description"`
	Status         string `json:"status" gorm:"not null;default:'pending'"`
	AssignedUserID int    `json:"assigned_user_id" gorm:"not null;index"`

	AssignedUser *User `json:"assigned_user,omitempty" gorm:"foreignKey:AssignedUserID"`
}

// ViewableBy is the read-permission predicate: admins see every task,
// everyone else only tasks assigned to them.
func (t *Task) ViewableBy(p Principal) bool {
	return p.Role == RoleAdmin || t.AssignedUserID == p.UserID
}

// ToResponse projects the task for API responses, dropping the
// AssignedUser navigation reference.
func (t *Task) ToResponse() TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		AssignedUserID: t.AssignedUserID,
	}
}

// TaskRequest is the validated create/update payload handed to the task
// service by the transport layer.
type TaskRequest struct {
	ID             int    `json:"id"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	AssignedUserID int    `json:"assigned_user_id"`
}

// TaskResponse is the externally exposed projection of a Task.
type TaskResponse struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	AssignedUserID int    `json:"assigned_user_id"`
}
