package types

import "time"

type User struct {
	ID           string    `json:"_id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image"`
	IsAdmin      bool      `json:"isAdmin"`
	LikedMovies  []string  `json:"likedMovies"`
	Created      time.Time `json:"createdAt"`
	Updated      time.Time `json:"updatedAt"`
}

type Movie struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"userId,omitempty"`
	Name            string    `json:"name"`
	Desc            string    `json:"desc"`
	TitleImage      string    `json:"titleImage"`
	Image           string    `json:"image"`
	Category        string    `json:"category"`
	Language        string    `json:"language"`
	Year            int       `json:"year"`
	Time            int       `json:"time"`
	Video           string    `json:"video,omitempty"`
	Rate            float64   `json:"rate"`
	NumberOfReviews int       `json:"numberOfReviews"`
	Reviews         []Review  `json:"reviews"`
	Casts           []Cast    `json:"casts"`
	Created         time.Time `json:"createdAt"`
	Updated         time.Time `json:"updatedAt"`
}

// Review is owned by a Movie. UserName and UserImage are captured when the
// review is posted and are not re-synced with the profile.
type Review struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserImage string    `json:"userImage"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	Created   time.Time `json:"createdAt"`
	Updated   time.Time `json:"updatedAt"`
}

type Cast struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Category struct {
	ID      string    `json:"_id"`
	Title   string    `json:"title"`
	Created time.Time `json:"createdAt"`
	Updated time.Time `json:"updatedAt"`
}

// MovieFilter holds the equality filters and name search of a catalog query.
// Zero values are not applied.
type MovieFilter struct {
	Category string
	Language string
	Time     *int
	Rate     *float64
	Year     *int
	Search   string
}

type MoviePage struct {
	Movies      []Movie `json:"movies"`
	Page        int     `json:"page"`
	Pages       int     `json:"pages"`
	TotalMovies int     `json:"totalMovies"`
}

// Request/Response types
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Image    string `json:"image" validate:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitnil,min=1,max=100"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Image    *string `json:"image"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type AddLikedRequest struct {
	MovieID string `json:"movieId" validate:"required"`
}

type ReviewRequest struct {
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Comment string   `json:"comment" validate:"required"`
	Image   string   `json:"image"`
}

type CastInput struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image" validate:"required"`
}

// MovieInput is a full movie record as sent by an admin or an import source.
type MovieInput struct {
	Name            string      `json:"name" validate:"required"`
	Desc            string      `json:"desc" validate:"required"`
	TitleImage      string      `json:"titleImage"`
	Image           string      `json:"image"`
	Category        string      `json:"category" validate:"required"`
	Language        string      `json:"language" validate:"required"`
	Year            int         `json:"year" validate:"required,gte=1800,lte=3000"`
	Time            int         `json:"time" validate:"required,gt=0"`
	Video           string      `json:"video"`
	Rate            float64     `json:"rate" validate:"gte=0,lte=5"`
	NumberOfReviews int         `json:"numberOfReviews" validate:"gte=0"`
	Casts           []CastInput `json:"casts" validate:"dive"`
}

// MoviePatch is a partial movie update. A nil field is left unchanged. A nil
// Casts slice keeps the casts; an empty one removes them.
type MoviePatch struct {
	Name            *string     `json:"name" validate:"omitnil,min=1"`
	Desc            *string     `json:"desc" validate:"omitnil,min=1"`
	TitleImage      *string     `json:"titleImage"`
	Image           *string     `json:"image"`
	Category        *string     `json:"category" validate:"omitnil,min=1"`
	Language        *string     `json:"language" validate:"omitnil,min=1"`
	Year            *int        `json:"year" validate:"omitnil,gte=1800,lte=3000"`
	Time            *int        `json:"time" validate:"omitnil,gt=0"`
	Video           *string     `json:"video"`
	Rate            *float64    `json:"rate" validate:"omitnil,gte=0,lte=5"`
	NumberOfReviews *int        `json:"numberOfReviews" validate:"omitnil,gte=0"`
	Casts           []CastInput `json:"casts" validate:"omitnil,dive"`
}

type CategoryRequest struct {
	Title string `json:"title" validate:"required,max=50"`
}

type AuthResponse struct {
	*User
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
