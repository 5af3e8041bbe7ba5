package enums

// Feature names metered in usage_logs and capped per plan.
const (
	FeatureWorkflows = "workflows"
	FeatureAPICalls  = "api_calls"
	FeatureStorageGB = "storage_gb"
)
