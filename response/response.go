package response

// UpdateResult is returned by UpdateMany.
type UpdateResult struct {
	Success       bool  `json:"success"`
	AffectedCount int64 `json:"affectedCount"`
}
