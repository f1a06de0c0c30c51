package dto

// AffinityScore is the derived pairwise compatibility between the
// requesting user and TargetUserID. Never persisted, recomputed per
// request from the interaction log.
type AffinityScore struct {
	TargetUserID       int64    `json:"user_id"`
	Score              int      `json:"score"` // 0-100
	CommonInteractions int64    `json:"common_interactions"`
	SharedCategories   []string `json:"shared_categories"`
}

// PairAffinityResponse answers GET /affinities/:targetUserId
type PairAffinityResponse struct {
	AffinityScore int   `json:"affinity_score"`
	UserA         int64 `json:"user_a"`
	UserB         int64 `json:"user_b"`
}
