package entities

import "time"

// Review represents a client's rating of a publication
type Review struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"`
	PublicationID int64     `json:"publicationId" db:"publication_id"`
	Rating        int       `json:"rating" db:"rating"` // 1-5
	Comment       *string   `json:"comment" db:"comment"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// ReviewWithUser pairs a review with its author
type ReviewWithUser struct {
	Review
	User *User `json:"user"`
}

// AverageRating is the arithmetic mean of the ratings, 0 for no reviews
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
