package entities

// AdminStats feeds the admin dashboard
type AdminStats struct {
	TotalUsers          int64 `json:"totalUsers"`
	TotalBusinesses     int64 `json:"totalBusinesses"`
	TotalClients        int64 `json:"totalClients"`
	TotalPublications   int64 `json:"totalPublications"`
	PendingPublications int64 `json:"pendingPublications"`
	TotalReviews        int64 `json:"totalReviews"`
}

// BusinessStats aggregates over the publications of a single owner
type BusinessStats struct {
	TotalViews    int64   `json:"totalViews"`
	TotalReviews  int64   `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
	PendingCount  int64   `json:"pendingCount"`
	ApprovedCount int64   `json:"approvedCount"`
}
