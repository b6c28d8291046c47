package refresh_affecting_spans

// RefreshResponse HTTP response model
type RefreshResponse struct {
	RefreshedAt string `json:"refreshedAt"`
}
