package entities

import "time"

// PublicationType is the kind of listing
type PublicationType string

const (
	PublicationTypeAnnouncement PublicationType = "announcement"
	PublicationTypeService      PublicationType = "service"
	PublicationTypeArticle      PublicationType = "article"
)

// Valid reports whether t is one of the known publication types
func (t PublicationType) Valid() bool {
	switch t {
	case PublicationTypeAnnouncement, PublicationTypeService, PublicationTypeArticle:
		return true
	}
	return false
}

// PublicationStatus is the moderation state of a publication
type PublicationStatus string

const (
	StatusPending  PublicationStatus = "pending"
	StatusApproved PublicationStatus = "approved"
	StatusRejected PublicationStatus = "rejected"
)

// Valid reports whether s is one of the known moderation states
func (s PublicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsModerationDecision reports whether s may be set through the admin status endpoint
func (s PublicationStatus) IsModerationDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Publication is a listing owned by exactly one user
type Publication struct {
	ID              int64             `json:"id" db:"id"`
	UserID          int64             `json:"userId" db:"user_id"`
	CategoryID      int64             `json:"categoryId" db:"category_id"`
	Type            PublicationType   `json:"type" db:"type"`
	Title           string            `json:"title" db:"title"`
	Slug            *string           `json:"slug" db:"slug"`
	Description     string            `json:"description" db:"description"`
	Content         *string           `json:"content" db:"content"`
	Image           *string           `json:"image" db:"image"`
	Price           *string           `json:"price" db:"price"`
	Location        *string           `json:"location" db:"location"`
	Status          PublicationStatus `json:"status" db:"status"`
	RejectionReason *string           `json:"rejectionReason" db:"rejection_reason"`
	Views           int               `json:"views" db:"views"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`
}

// PublicationUpdate is a partial column update of a publication row.
// Owner and category are fixed at creation and cannot be changed here.
type PublicationUpdate struct {
	Type            *PublicationType
	Title           *string
	Slug            *string
	Description     *string
	Content         *string
	Image           *string
	Price           *string
	Location        *string
	Status          *PublicationStatus
	RejectionReason *string
}

// PublicationWithDetails is the read model served to clients
type PublicationWithDetails struct {
	Publication
	User          *User     `json:"user"`
	Category      *Category `json:"category"`
	Reviews       []Review  `json:"reviews"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
}

// SearchFilter narrows the public search. Zero values mean "any".
type SearchFilter struct {
	Query      string
	Type       PublicationType
	CategoryID int64
}
