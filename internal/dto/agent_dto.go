package dto

// AgentTab is one open tab as reported by the extension.
type AgentTab struct {
	TabId int    `json:"tab_id" validate:"required"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

type AgentRunRequest struct {
	Query string     `json:"query" validate:"required"`
	Tabs  []AgentTab `json:"tabs" validate:"dive"`
}

// AgentRunResponse carries the assistant's full reply. Every field is
// always present so the extension never branches on missing keys.
type AgentRunResponse struct {
	Reply              string                   `json:"reply"`
	Mode               string                   `json:"mode"`
	ChosenTabId        *int                     `json:"chosen_tab_id"`
	SuggestedCloseTabs []int                    `json:"suggested_close_tab_ids"`
	WorkspaceSummary   map[string]interface{}   `json:"workspace_summary"`
	Alerts             []map[string]interface{} `json:"alerts"`
	PriceInfo          map[string]interface{}   `json:"price_info"`
	ShouldAskCleanup   bool                     `json:"should_ask_cleanup"`
}

// AgentHealthResponse reports liveness plus the state of the wired
// extras, so the extension can degrade its UI instead of guessing.
type AgentHealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Database bool   `json:"database"`
	EventBus bool   `json:"event_bus"`
}

// AgentConfigResponse exposes the non-secret runtime knobs.
type AgentConfigResponse struct {
	Provider          string `json:"provider"`
	Model             string `json:"model"`
	EmbeddingProvider string `json:"embedding_provider"`
	EmbeddingModel    string `json:"embedding_model"`
	FastPathMaxTabs   int    `json:"fast_path_max_tabs"`
	BatchSize         int    `json:"batch_size"`
	CompareTabLimit   int    `json:"compare_tab_limit"`
	SingleQATimeoutMs int64  `json:"single_qa_timeout_ms"`
	MultiQATimeoutMs  int64  `json:"multi_qa_timeout_ms"`
}
