package models

type User struct {
	ID          int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username    string `json:"username" gorm:"unique;not null"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"-" gorm:"not null"`
	Role        string `json:"role" gorm:"not null;default:'User'"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:AssignedUserID"`
}

// RoleKind maps the stored role string onto the Role enum.
func (u *User) RoleKind() Role { return ParseRole(u.Role) }

func (u *User) IsAdmin() bool { return u.RoleKind() == RoleAdmin }

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}

// UserRequest is the payload for creating or updating a user through the
// admin surface.
type UserRequest struct {
	ID          int    `json:"id"`
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phone_number"`
}

func (r UserRequest) ToUser() User {
	return User{
		ID:          r.ID,
		Username:    r.Username,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

// UserResponse is the externally exposed projection of a User; it never
// carries the password hash.
type UserResponse struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}
