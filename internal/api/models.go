package api

import (
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// CreateUserRequest is the POST payload for the user resource.
type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// UpdateUserRequest is the PUT payload for the user resource. Only the fields
// listed here can change; anything else in the body is ignored.
type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitnil,min=1,max=255"`
	Email    *string `json:"email"    validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=8,maxbytes=72"`
}

// CreateProductRequest is the POST payload for the product resource.
type CreateProductRequest struct {
	Name        string   `json:"name"        validate:"required,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Stock       int      `json:"stock"       validate:"gte=0"`
}

// UpdateProductRequest is the PUT payload for the product resource.
type UpdateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitnil,min=1,max=255"`
	Description *string  `json:"description" validate:"omitnil,max=2000"`
	Price       *float64 `json:"price"       validate:"omitnil,gte=0"`
	Stock       *int     `json:"stock"       validate:"omitnil,gte=0"`
}

// LoginRequest is the POST payload for the login resource.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user. The password hash never leaves
// the server.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}
