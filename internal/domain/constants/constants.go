package constants

// Analytics delivery providers
const (
	PubSubProviderREST   = "rest"
	PubSubProviderGoogle = "google"
)

// CategoryAll is the "all categories" sentinel meaning no category filter.
const CategoryAll = "Todos"

// Placeholders substituted for missing optional company data
const (
	PlaceholderImage = "/images/empresa-placeholder.png"
	PlaceholderPhone = "Telefone não informado"
)

// SessionHeader carries the browsing session id for analytics correlation.
const SessionHeader = "X-Session-Id"
