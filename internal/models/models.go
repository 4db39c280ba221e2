package models

// Role values stored on a user record. Anything else is treated as "user".
const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// User is persisted as-is into users.json, so the password hash keeps its
// json tag. API responses must go through Public().
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password"`
	Role         string `json:"role,omitempty"`
	CreatedAt    int64  `json:"createdAt,omitempty"`
}

// PublicUser is the wire shape of a user: no credential material.
type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

func (u User) Public() PublicUser {
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      role,
		CreatedAt: u.CreatedAt,
	}
}

type Session struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Image       string `json:"image"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt,omitempty"`
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID           string      `json:"id"`
	Items        []OrderItem `json:"items"`
	Total        int         `json:"total"`
	CustomerName string      `json:"customerName"`
	Note         string      `json:"note"`
	Address      string      `json:"address"`
	Status       string      `json:"status"`
	CreatedAt    int64       `json:"createdAt"`
	UpdatedAt    int64       `json:"updatedAt,omitempty"`
}
