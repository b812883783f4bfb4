package dto

import "github.com/ecavus/collegia/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// CompleteProfileRequest carries the onboarding fields a new account
// must fill in before using college features
type CompleteProfileRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	RollNumber string `json:"rollNumber" binding:"required"`
	CollegeID  int64  `json:"collegeId" binding:"required,min=1"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	RollNumber string `json:"rollNumber"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	RollNumber  *string `json:"rollNumber,omitempty"`
	CollegeID   *int64  `json:"collegeId,omitempty"`
	CollegeName string  `json:"collegeName,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// ToUserResponse converts a models.User to a UserResponse
func ToUserResponse(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	response := UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		RollNumber: user.RollNumber,
		CollegeID:  user.CollegeID,
	}
	if user.College != nil {
		response.CollegeName = user.College.Name
	}
	return response
}
